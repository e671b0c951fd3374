package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/constants"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
)

type ScreenTimeHandler struct {
	tracker *services.ScreenTimeTracker
}

func NewScreenTimeHandler(tracker *services.ScreenTimeTracker) *ScreenTimeHandler {
	return &ScreenTimeHandler{
		tracker: tracker,
	}
}

// Heartbeat advances the screen time session stored in the cookie session.
// A missing or ended session is replaced by a fresh one.
func (h *ScreenTimeHandler) Heartbeat(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	session := sessions.Default(c)

	var (
		screenSession *models.ScreenSession
		err           error
	)

	if sessionID, ok := session.Get(constants.SessionKeyScreenSession).(string); ok {
		screenSession, err = h.tracker.Heartbeat(sessionID, userID)
	} else {
		err = services.ErrScreenSessionNotFound
	}

	if errors.Is(err, services.ErrScreenSessionNotFound) || errors.Is(err, services.ErrScreenSessionEnded) {
		screenSession, err = h.tracker.Start(userID)
		if err == nil {
			session.Set(constants.SessionKeyScreenSession, screenSession.ID)
			err = session.Save()
		}
	}
	if err != nil {
		apierrors.InternalError(c, "Failed to record screen time")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":     screenSession.ID,
		"started_at":     screenSession.StartedAt,
		"last_seen_at":   screenSession.LastSeenAt,
		"active_seconds": screenSession.ActiveSeconds,
	})
}
