package models

import "time"

type NotificationType string

const (
	NotificationDeadlineReminder NotificationType = "deadline_reminder"
	NotificationProjectAssigned  NotificationType = "project_assigned"
	NotificationProjectCreated   NotificationType = "project_created"
)

// Notification is a dismissible alert shown to a single user.
type Notification struct {
	ID        uint64           `gorm:"primarykey" json:"id"`
	UserID    uint64           `gorm:"not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Related   SubjectRef       `gorm:"embedded;embeddedPrefix:related_" json:"related"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	IsRead    bool             `gorm:"not null;default:false" json:"is_read"`
	ReadAt    *time.Time       `json:"read_at"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
