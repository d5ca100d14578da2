package middleware

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/models"
)

const currentUserKey = "current_user"

// SessionSource yields the logged-in user.
type SessionSource interface {
	CurrentUser(ctx context.Context) (models.User, error)
}

// RequireRole aborts unless a session user with one of roles is logged in.
// With no roles any logged-in user passes.
func RequireRole(sessions SessionSource, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := sessions.CurrentUser(c.Request.Context())
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, apperr.CodeUnauthorized, "Login required")
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, user.Role) {
			abortWithError(c, http.StatusForbidden, apperr.CodeForbidden, "This action is not available to "+string(user.Role)+" accounts")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// GetCurrentUser returns the user RequireRole stored in the context
func GetCurrentUser(c *gin.Context) (models.User, error) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, apperr.New(apperr.CodeUnauthorized, "no session user in context")
	}
	user, ok := v.(models.User)
	if !ok {
		return models.User{}, apperr.New(apperr.CodeUnauthorized, "session user has unexpected type")
	}
	return user, nil
}
