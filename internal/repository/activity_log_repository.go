package repository

import (
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormActivityLogRepository is a GORM implementation of ActivityLogRepository
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Create persists an audit entry
func (r *GormActivityLogRepository) Create(entry *models.ActivityLog) error {
	return r.db.Omit("User").Create(entry).Error
}

// List retrieves entries with filtering and pagination, newest first
func (r *GormActivityLogRepository) List(filter ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	query := r.db.Model(&models.ActivityLog{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != nil {
		query = query.Where("action = ?", *filter.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.ActivityLog
	if err := query.Preload("User").
		Order("created_at DESC, id DESC").
		Scopes(database.Paginate(filter.Page)).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
