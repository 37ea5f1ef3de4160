package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	tokens  *auth.TokenIssuer
	service *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	store := newTestStore(s.T())
	s.tokens = auth.NewTokenIssuer([]byte("test-secret"), constants.TokenValidity)
	s.service = NewAuthService(store.Users, s.tokens)
	s.service.hashCost = bcrypt.MinCost
}

func (s *AuthServiceTestSuite) signup(username, password string) string {
	user, err := s.service.Signup(s.ctx, SignupInput{Username: username, Password: password})
	s.Require().NoError(err)
	return user.ID
}

func (s *AuthServiceTestSuite) TestSignup_StoresHashOnly() {
	user, err := s.service.Signup(s.ctx, SignupInput{Username: "  alice ", Password: "secret1"})
	s.Require().NoError(err)

	s.Equal("alice", user.Username)
	s.NotEqual("secret1", user.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))

	cost, err := bcrypt.Cost([]byte(user.PasswordHash))
	s.Require().NoError(err)
	s.Equal(bcrypt.MinCost, cost)
}

func (s *AuthServiceTestSuite) TestSignup_DefaultHashCost() {
	s.GreaterOrEqual(NewAuthService(nil, s.tokens).hashCost, 10)
}

func (s *AuthServiceTestSuite) TestSignup_Validation() {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "short username", username: "ab", password: "secret1"},
		{name: "blank username", username: "     ", password: "secret1"},
		{name: "short password", username: "alice", password: "12345"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Signup(s.ctx, SignupInput{Username: tt.username, Password: tt.password})
			s.ErrorIs(err, validation.ErrInvalidInput)
		})
	}
}

func (s *AuthServiceTestSuite) TestSignup_DuplicateUsername() {
	s.signup("alice", "secret1")

	_, err := s.service.Signup(s.ctx, SignupInput{Username: "alice", Password: "another"})
	s.ErrorIs(err, ErrUsernameTaken)
}

func (s *AuthServiceTestSuite) TestLogin() {
	id := s.signup("alice", "secret1")

	session, err := s.service.Login(s.ctx, LoginInput{Username: "alice", Password: "secret1"})
	s.Require().NoError(err)
	s.Equal(id, session.User.ID)

	identity, err := s.tokens.Verify(session.Token)
	s.Require().NoError(err)
	s.Equal(id, identity.UserID)
	s.Equal("alice", identity.Username)
}

func (s *AuthServiceTestSuite) TestLogin_SameErrorForUnknownUserAndWrongPassword() {
	s.signup("alice", "secret1")

	_, wrongPassword := s.service.Login(s.ctx, LoginInput{Username: "alice", Password: "nope123"})
	_, unknownUser := s.service.Login(s.ctx, LoginInput{Username: "mallory", Password: "secret1"})

	s.ErrorIs(wrongPassword, ErrInvalidCredentials)
	s.ErrorIs(unknownUser, ErrInvalidCredentials)
	s.Equal(wrongPassword.Error(), unknownUser.Error())
}

func (s *AuthServiceTestSuite) TestGetUser() {
	id := s.signup("alice", "secret1")

	user, err := s.service.GetUser(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("alice", user.Username)

	_, err = s.service.GetUser(s.ctx, "missing")
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *AuthServiceTestSuite) TestChangeUsername() {
	id := s.signup("alice", "secret1")
	s.signup("bob", "secret1")

	_, err := s.service.ChangeUsername(s.ctx, id, "bob")
	s.ErrorIs(err, ErrUsernameTaken)

	_, err = s.service.ChangeUsername(s.ctx, id, "x")
	s.ErrorIs(err, validation.ErrInvalidInput)

	_, err = s.service.ChangeUsername(s.ctx, "missing", "carol")
	s.ErrorIs(err, ErrUserNotFound)

	session, err := s.service.ChangeUsername(s.ctx, id, " alicia ")
	s.Require().NoError(err)
	s.Equal("alicia", session.User.Username)

	identity, err := s.tokens.Verify(session.Token)
	s.Require().NoError(err)
	s.Equal("alicia", identity.Username)

	_, err = s.service.Login(s.ctx, LoginInput{Username: "alicia", Password: "secret1"})
	s.NoError(err)
	_, err = s.service.Login(s.ctx, LoginInput{Username: "alice", Password: "secret1"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestChangeUsername_ToOwnName() {
	id := s.signup("alice", "secret1")

	session, err := s.service.ChangeUsername(s.ctx, id, "alice")
	s.Require().NoError(err)
	s.Equal("alice", session.User.Username)
	s.NotEmpty(session.Token)
}

func (s *AuthServiceTestSuite) TestChangePassword() {
	id := s.signup("alice", "secret1")

	_, err := s.service.ChangePassword(s.ctx, id, ChangePasswordInput{CurrentPassword: "wrong!", NewPassword: "secret2"})
	s.ErrorIs(err, ErrIncorrectPassword)

	_, err = s.service.ChangePassword(s.ctx, id, ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "123"})
	s.ErrorIs(err, validation.ErrInvalidInput)

	_, err = s.service.ChangePassword(s.ctx, "missing", ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "secret2"})
	s.ErrorIs(err, ErrUserNotFound)

	session, err := s.service.ChangePassword(s.ctx, id, ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "secret2"})
	s.Require().NoError(err)
	s.NotEmpty(session.Token)

	_, err = s.service.Login(s.ctx, LoginInput{Username: "alice", Password: "secret1"})
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.service.Login(s.ctx, LoginInput{Username: "alice", Password: "secret2"})
	s.NoError(err)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func TestAuthService_OldTokensSurvivePasswordChange(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	service := NewAuthService(newTestStore(t).Users, tokens)
	service.hashCost = bcrypt.MinCost

	_, err := service.Signup(ctx, SignupInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	before, err := service.Login(ctx, LoginInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = service.ChangePassword(ctx, before.User.ID, ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "secret2"})
	require.NoError(t, err)

	_, err = service.VerifyToken(before.Token)
	assert.NoError(t, err)
}
