package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrIncorrectPassword    = errors.New("current password is incorrect")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueToken   = errors.New("failed to issue token")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenIssuer
	hashCost int
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Username string
	Password string
}

// Signup creates a new user. The password is stored only as a bcrypt hash.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	username, err := validation.Username(input.Username)
	if err != nil {
		return nil, err
	}
	if err := validation.Password("password", input.Password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent signup
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Session is an authenticated user together with a fresh token.
type Session struct {
	User  *models.User
	Token string
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords fail with the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(user)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ChangeUsername renames the user and issues a token carrying the new name.
// Renaming to the current username succeeds without touching the store.
func (s *AuthService) ChangeUsername(ctx context.Context, userID, newUsername string) (*Session, error) {
	username, err := validation.Username(newUsername)
	if err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Username == username {
		return s.newSession(user)
	}

	if existing, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		if existing.ID != user.ID {
			return nil, ErrUsernameTaken
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	now := s.now()
	if err := s.userRepo.UpdateUsername(ctx, user.ID, username, now); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		default:
			return nil, fmt.Errorf("failed to update username: %w", err)
		}
	}

	user.Username = username
	user.UpdatedAt = now
	return s.newSession(user)
}

// ChangePasswordInput holds the current and the desired password.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// ChangePassword re-verifies the current password before storing the new
// one. Tokens issued earlier stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) (*Session, error) {
	if err := validation.Password("newPassword", input.NewPassword); err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return nil, ErrIncorrectPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), s.hashCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	now := s.now()
	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, string(hashedPassword), now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	user.UpdatedAt = now
	return s.newSession(user)
}

// VerifyToken resolves a bearer token to the identity it was issued for.
func (s *AuthService) VerifyToken(token string) (*auth.Identity, error) {
	return s.tokens.Verify(token)
}

func (s *AuthService) newSession(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, ErrFailedToIssueToken
	}
	return &Session{User: user, Token: token}, nil
}
