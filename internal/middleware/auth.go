package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/constants"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
)

// TokenVerifier resolves a bearer token to an identity
type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// RequireAuth checks the bearer token before any handler reads the request
// body. Missing, malformed, forged and expired tokens get the same 401.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			apierrors.Unauthorized(c, "")
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, identity.UserID)
		c.Set(constants.ContextKeyUsername, identity.Username)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(constants.ContextKeyUserID)
	return userID, userID != ""
}

// GetUsername retrieves the username carried by the current token
func GetUsername(c *gin.Context) string {
	return c.GetString(constants.ContextKeyUsername)
}
