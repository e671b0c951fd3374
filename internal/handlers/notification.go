package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// NotificationHandler serves the notification and reminder inboxes of the
// current user.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications returns the user's notifications, newest first
// Pass unread=true to only return unread notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	unreadOnly := false
	if unread := c.Query("unread"); unread != "" {
		parsed, err := strconv.ParseBool(unread)
		if err != nil {
			apierrors.BadRequest(c, "Invalid unread filter")
			return
		}
		unreadOnly = parsed
	}

	params := utils.GetPaginationParams(c)
	notifications, total, err := h.notificationService.ListNotifications(userID, unreadOnly, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch notifications")
		return
	}

	c.JSON(http.StatusOK, dto.NotificationListResponse{
		Notifications: dto.ToNotificationDTOs(notifications),
		Pagination:    dto.NewPaginationResponse(params, total),
	})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	count, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to count notifications")
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid notification ID")
		return
	}

	notification, err := h.notificationService.MarkRead(notificationID, userID)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationDTO(*notification))
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	updated, err := h.notificationService.MarkAllRead(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to mark notifications read")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notifications marked as read",
		"updated": updated,
	})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.notificationService.DeleteNotification(notificationID, userID); err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification deleted successfully",
	})
}

// ListReminders returns the user's reminders ordered by remind_at
func (h *NotificationHandler) ListReminders(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	params := utils.GetPaginationParams(c)
	reminders, total, err := h.notificationService.ListReminders(userID, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch reminders")
		return
	}

	c.JSON(http.StatusOK, dto.ReminderListResponse{
		Reminders:  dto.ToReminderDTOs(reminders),
		Pagination: dto.NewPaginationResponse(params, total),
	})
}

// PendingReminderCount counts unread reminders that are already due
func (h *NotificationHandler) PendingReminderCount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	count, err := h.notificationService.PendingReminderCount(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to count reminders")
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

func (h *NotificationHandler) MarkReminderRead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	reminderID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid reminder ID")
		return
	}

	if err := h.notificationService.MarkReminderRead(reminderID, userID); err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reminder marked as read",
	})
}

func respondNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrReminderNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
