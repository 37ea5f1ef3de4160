package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/dto"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/validation"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	logger      *log.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger *log.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Signup registers a new user.
func (h *AuthHandler) Signup(c *gin.Context) {
	body, err := bindObject(c, validation.SignupSchema)
	if err != nil {
		apierrors.InvalidInput(c, err)
		return
	}

	_, err = h.authService.Signup(c.Request.Context(), services.SignupInput{
		Username: stringField(body, "username"),
		Password: stringField(body, "password"),
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "User created successfully"})
}

// Login authenticates a user and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	body, err := bindObject(c, validation.LoginSchema)
	if err != nil {
		apierrors.InvalidInput(c, err)
		return
	}

	session, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: stringField(body, "username"),
		Password: stringField(body, "password"),
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		Message: "Login successful",
		Token:   session.Token,
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ChangeUsername renames the authenticated user and re-issues the token.
func (h *AuthHandler) ChangeUsername(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	body, err := bindObject(c, validation.UsernameSchema)
	if err != nil {
		apierrors.InvalidInput(c, err)
		return
	}

	session, err := h.authService.ChangeUsername(c.Request.Context(), userID, stringField(body, "username"))
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		Message:  "Username updated successfully",
		Token:    session.Token,
		Username: session.User.Username,
	})
}

// ChangePassword replaces the password and re-issues the token.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	body, err := bindObject(c, validation.PasswordSchema)
	if err != nil {
		apierrors.InvalidInput(c, err)
		return
	}

	session, err := h.authService.ChangePassword(c.Request.Context(), userID, services.ChangePasswordInput{
		CurrentPassword: stringField(body, "currentPassword"),
		NewPassword:     stringField(body, "newPassword"),
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		Message: "Password updated successfully",
		Token:   session.Token,
	})
}

func (h *AuthHandler) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, validation.ErrInvalidInput):
		apierrors.InvalidInput(c, err)
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, "Username already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, "Invalid username or password")
	case errors.Is(err, services.ErrIncorrectPassword):
		apierrors.Unauthorized(c, "Current password is incorrect")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	default:
		logInternal(h.logger, c, err)
		apierrors.InternalError(c, "")
	}
}
