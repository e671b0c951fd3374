package models

import "time"

type ActivityAction string

const (
	ActionCreate ActivityAction = "create"
	ActionUpdate ActivityAction = "update"
	ActionDelete ActivityAction = "delete"
	ActionView   ActivityAction = "view"
)

func (a ActivityAction) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionView:
		return true
	}
	return false
}

// ActivityLog is an immutable audit record of one authenticated request.
type ActivityLog struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	UserID      uint64         `gorm:"not null;index" json:"user_id"`
	UserRole    string         `gorm:"type:varchar(50);not null" json:"user_role"`
	Action      ActivityAction `gorm:"type:varchar(20);not null;index" json:"action"`
	Model       *string        `gorm:"type:varchar(100)" json:"model"`
	ModelID     *uint64        `json:"model_id"`
	Description string         `gorm:"type:text;not null" json:"description"`
	IPAddress   string         `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent   string         `gorm:"type:text" json:"user_agent"`
	Event       string         `gorm:"type:varchar(255);not null" json:"event"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
