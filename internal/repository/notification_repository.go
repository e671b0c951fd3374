package repository

import (
	"errors"
	"time"

	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/utils"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// CreateIfAbsent looks the dedupe key up first and only inserts on a miss.
// On a hit the existing row is copied into notification.
func (r *GormNotificationRepository) CreateIfAbsent(notification *models.Notification) (bool, error) {
	if err := notification.Related.Validate(); err != nil {
		return false, err
	}

	var existing models.Notification
	err := r.db.
		Where("user_id = ? AND type = ? AND related_type = ? AND related_id = ?",
			notification.UserID, notification.Type, notification.Related.Kind, notification.Related.ID).
		Where("title = ? AND message = ?", notification.Title, notification.Message).
		First(&existing).Error
	if err == nil {
		*notification = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := r.db.Omit("User").Create(notification).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ListByUser lists a user's notifications, newest first
func (r *GormNotificationRepository) ListByUser(userID uint64, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC, id DESC").
		Scopes(database.Paginate(params)).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// CountUnread counts a user's unread notifications
func (r *GormNotificationRepository) CountUnread(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// FindForUser finds a notification owned by the user
func (r *GormNotificationRepository) FindForUser(id, userID uint64) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkRead marks one notification read
func (r *GormNotificationRepository) MarkRead(notification *models.Notification, at time.Time) error {
	err := r.db.Model(notification).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": at,
	}).Error
	if err != nil {
		return err
	}
	notification.IsRead = true
	notification.ReadAt = &at
	return nil
}

// MarkAllRead marks every unread notification of the user read
func (r *GormNotificationRepository) MarkAllRead(userID uint64, at time.Time) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		})
	return result.RowsAffected, result.Error
}

// Delete deletes a notification owned by the user
func (r *GormNotificationRepository) Delete(id, userID uint64) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
