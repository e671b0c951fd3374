package repository

import (
	"errors"
	"time"

	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/utils"
	"gorm.io/gorm"
)

// GormReminderRepository is a GORM implementation of ReminderRepository
type GormReminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new ReminderRepository
func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &GormReminderRepository{db: db}
}

// CreateIfAbsent inserts the reminder unless its dedupe key already exists
func (r *GormReminderRepository) CreateIfAbsent(reminder *models.Reminder) (bool, error) {
	if err := reminder.Related.Validate(); err != nil {
		return false, err
	}

	var existing models.Reminder
	err := r.db.
		Where("user_id = ? AND type = ? AND related_type = ? AND related_id = ?",
			reminder.UserID, reminder.Type, reminder.Related.Kind, reminder.Related.ID).
		Where("title = ? AND description = ? AND remind_at = ?", reminder.Title, reminder.Description, reminder.RemindAt).
		First(&existing).Error
	if err == nil {
		*reminder = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := r.db.Omit("User").Create(reminder).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ListByUser lists a user's reminders ordered by remind_at
func (r *GormReminderRepository) ListByUser(userID uint64, params utils.PaginationParams) ([]models.Reminder, int64, error) {
	query := r.db.Model(&models.Reminder{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reminders []models.Reminder
	if err := query.Order("remind_at ASC, id ASC").
		Scopes(database.Paginate(params)).
		Find(&reminders).Error; err != nil {
		return nil, 0, err
	}

	return reminders, total, nil
}

// CountPending counts unread reminders due at or before now
func (r *GormReminderRepository) CountPending(userID uint64, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Reminder{}).
		Where("user_id = ? AND is_read = ? AND remind_at <= ?", userID, false, now).
		Count(&count).Error
	return count, err
}

// MarkRead marks a reminder owned by the user read
func (r *GormReminderRepository) MarkRead(id, userID uint64) error {
	var reminder models.Reminder
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&reminder).Error; err != nil {
		return err
	}
	if reminder.IsRead {
		return nil
	}
	return r.db.Model(&reminder).Update("is_read", true).Error
}
