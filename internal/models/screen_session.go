package models

import "time"

// ScreenSession accumulates active time for one login of one user.
type ScreenSession struct {
	ID            string     `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uint64     `gorm:"not null;index" json:"user_id"`
	StartedAt     time.Time  `gorm:"not null" json:"started_at"`
	LastSeenAt    time.Time  `gorm:"not null" json:"last_seen_at"`
	ActiveSeconds int64      `gorm:"not null;default:0" json:"active_seconds"`
	EndedAt       *time.Time `json:"ended_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (s ScreenSession) Active() bool {
	return s.EndedAt == nil
}
