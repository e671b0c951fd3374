package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
)

type ActivityLogHandler struct {
	auditor *services.ActivityAuditor
	users   middleware.ActorLookup
}

func NewActivityLogHandler(auditor *services.ActivityAuditor, users middleware.ActorLookup) *ActivityLogHandler {
	return &ActivityLogHandler{
		auditor: auditor,
		users:   users,
	}
}

// ListActivityLogs returns the viewer's own audit trail. Admins see every
// user's entries. Supports an optional action filter.
func (h *ActivityLogHandler) ListActivityLogs(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	viewer, err := h.users.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.Unauthorized(c, "Not authenticated")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	input := services.ListActivityLogsInput{
		Viewer: *viewer,
		Page:   utils.GetPaginationParams(c),
	}

	if action := c.Query("action"); action != "" {
		activityAction := models.ActivityAction(action)
		if !activityAction.Valid() {
			apierrors.BadRequest(c, "Invalid action")
			return
		}
		input.Action = &activityAction
	}

	entries, total, err := h.auditor.ListActivityLogs(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch activity logs")
		return
	}

	items := make([]dto.ActivityLogDTO, len(entries))
	for i, entry := range entries {
		items[i] = dto.ToActivityLogDTO(entry)
	}

	c.JSON(http.StatusOK, dto.ActivityLogListResponse{
		ActivityLogs: items,
		Pagination:   dto.NewPaginationResponse(input.Page, total),
	})
}
