package models

import "time"

type ReminderType string

const ReminderDeadline ReminderType = "deadline"

// Reminder is a personal to-do that becomes due at RemindAt.
type Reminder struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	UserID      uint64       `gorm:"not null;index" json:"user_id"`
	Type        ReminderType `gorm:"type:varchar(50);not null" json:"type"`
	Related     SubjectRef   `gorm:"embedded;embeddedPrefix:related_" json:"related"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	RemindAt    time.Time    `gorm:"not null;index" json:"remind_at"`
	IsRead      bool         `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
