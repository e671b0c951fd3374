package dto

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

// SubjectDTO points at the entity a notification or reminder is about
type SubjectDTO struct {
	Type models.ResourceKind `json:"type"`
	ID   uint64              `json:"id"`
}

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID        uint64                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	Related   SubjectDTO              `json:"related"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"is_read"`
	ReadAt    *time.Time              `json:"read_at"`
	CreatedAt time.Time               `json:"created_at"`
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications []NotificationDTO  `json:"notifications"`
	Pagination    PaginationResponse `json:"pagination"`
}

// ReminderDTO represents a reminder in API responses
type ReminderDTO struct {
	ID          uint64              `json:"id"`
	Type        models.ReminderType `json:"type"`
	Related     SubjectDTO          `json:"related"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	RemindAt    time.Time           `json:"remind_at"`
	IsRead      bool                `json:"is_read"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ReminderListResponse represents a paginated list of reminders
type ReminderListResponse struct {
	Reminders  []ReminderDTO      `json:"reminders"`
	Pagination PaginationResponse `json:"pagination"`
}

// CountResponse carries a single counter
type CountResponse struct {
	Count int64 `json:"count"`
}

func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		Type:      n.Type,
		Related:   SubjectDTO{Type: n.Related.Kind, ID: n.Related.ID},
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationDTOs(notifications []models.Notification) []NotificationDTO {
	items := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		items[i] = ToNotificationDTO(n)
	}
	return items
}

func ToReminderDTO(r models.Reminder) ReminderDTO {
	return ReminderDTO{
		ID:          r.ID,
		Type:        r.Type,
		Related:     SubjectDTO{Type: r.Related.Kind, ID: r.Related.ID},
		Title:       r.Title,
		Description: r.Description,
		RemindAt:    r.RemindAt,
		IsRead:      r.IsRead,
		CreatedAt:   r.CreatedAt,
	}
}

func ToReminderDTOs(reminders []models.Reminder) []ReminderDTO {
	items := make([]ReminderDTO, len(reminders))
	for i, r := range reminders {
		items[i] = ToReminderDTO(r)
	}
	return items
}
