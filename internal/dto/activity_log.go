package dto

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

// ActivityLogDTO represents an audit entry in API responses
type ActivityLogDTO struct {
	ID          uint64                `json:"id"`
	User        *UserDTO              `json:"user,omitempty"`
	UserRole    string                `json:"user_role"`
	Action      models.ActivityAction `json:"action"`
	Model       *string               `json:"model"`
	ModelID     *uint64               `json:"model_id"`
	Description string                `json:"description"`
	IPAddress   string                `json:"ip_address"`
	UserAgent   string                `json:"user_agent"`
	Event       string                `json:"event"`
	CreatedAt   time.Time             `json:"created_at"`
}

// ActivityLogListResponse represents a paginated list of audit entries
type ActivityLogListResponse struct {
	ActivityLogs []ActivityLogDTO   `json:"activity_logs"`
	Pagination   PaginationResponse `json:"pagination"`
}

func ToActivityLogDTO(entry models.ActivityLog) ActivityLogDTO {
	dto := ActivityLogDTO{
		ID:          entry.ID,
		UserRole:    entry.UserRole,
		Action:      entry.Action,
		Model:       entry.Model,
		ModelID:     entry.ModelID,
		Description: entry.Description,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
		Event:       entry.Event,
		CreatedAt:   entry.CreatedAt,
	}

	if entry.User.ID != 0 {
		user := ToUserDTO(entry.User)
		dto.User = &user
	}

	return dto
}
