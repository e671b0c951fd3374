package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/constants"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
)

// RequireAuth rejects requests without a logged-in session and exposes the
// user id to later handlers through GetUserID.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessionUserID(sessions.Default(c).Get(constants.SessionKeyUserID))
		if !ok {
			apierrors.Abort(c, apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, ""))
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID returns the id stored by RequireAuth.
func GetUserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint64)
	return userID, ok && userID != 0
}

// sessionUserID accepts the integer types a session codec may hand back.
func sessionUserID(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int64:
		return uint64(v), v > 0
	case int:
		return uint64(v), v > 0
	default:
		return 0, false
	}
}
