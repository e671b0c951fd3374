package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/logging"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
	"go.uber.org/zap"
)

// ActorLookup resolves the authenticated user id to the full user.
type ActorLookup interface {
	GetUser(id uint64) (*models.User, error)
}

// LogActivity records an activity log entry for every authenticated request
// after the handler has run. Failures are logged and never reach the client.
func LogActivity(auditor *services.ActivityAuditor, actors ActorLookup, logger *zap.Logger) gin.HandlerFunc {
	logger = logging.OrNop(logger)

	return func(c *gin.Context) {
		c.Next()

		userID, ok := GetUserID(c)
		if !ok {
			return
		}

		if err := recordActivity(c, auditor, actors, userID); err != nil {
			logger.Error("Failed to record activity",
				zap.Error(err),
				zap.Uint64("user_id", userID),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
		}
	}
}

func recordActivity(c *gin.Context, auditor *services.ActivityAuditor, actors ActorLookup, userID uint64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while recording activity: %v", r)
		}
	}()

	actor, err := actors.GetUser(userID)
	if err != nil {
		return fmt.Errorf("failed to resolve actor: %w", err)
	}

	_, err = auditor.Record(*actor, services.RequestDescriptor{
		Method:    c.Request.Method,
		Path:      auditPath(c.Request.URL.Path),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	return err
}

// auditPath strips the API mount point so the resource collection is the
// first path segment.
func auditPath(path string) string {
	if path == constants.APIPrefix {
		return "/"
	}
	if strings.HasPrefix(path, constants.APIPrefix+"/") {
		return strings.TrimPrefix(path, constants.APIPrefix)
	}
	return path
}
