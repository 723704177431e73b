package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/hiyona/orgflow-api/internal/constants"
	apierrors "github.com/hiyona/orgflow-api/internal/errors"
	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/hiyona/orgflow-api/internal/repository"
)

// RequireAuth checks the session and loads the authenticated user into the
// request context. Every policy decision downstream works on this snapshot,
// so role changes take effect on the next request, not mid-request.
func RequireAuth(userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		id, ok := toUint64(userID)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(id)
		if err != nil {
			// Stale session for a removed user
			session.Clear()
			_ = session.Save()
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, id)
		c.Set(constants.ContextKeyCurrentUser, *user)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(userID)
}

// GetCurrentUser retrieves the authenticated user loaded by RequireAuth
func GetCurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(constants.ContextKeyCurrentUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

func toUint64(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
