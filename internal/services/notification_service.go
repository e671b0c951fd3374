package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrReminderNotFound     = errors.New("reminder not found")
)

// NotificationService exposes a user's notifications and reminders.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	reminderRepo     repository.ReminderRepository
	now              func() time.Time
}

// NewNotificationService creates a new NotificationService. A nil now uses time.Now.
func NewNotificationService(notificationRepo repository.NotificationRepository, reminderRepo repository.ReminderRepository, now func() time.Time) *NotificationService {
	if now == nil {
		now = time.Now
	}
	return &NotificationService{
		notificationRepo: notificationRepo,
		reminderRepo:     reminderRepo,
		now:              now,
	}
}

// Notify creates a notification for a user unless an identical one exists.
func (s *NotificationService) Notify(userID uint64, notificationType models.NotificationType, subject models.SubjectRef, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Related: subject,
		Title:   title,
		Message: message,
	}
	if _, err := s.notificationRepo.CreateIfAbsent(notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

func (s *NotificationService) ListNotifications(userID uint64, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error) {
	notifications, total, err := s.notificationRepo.ListByUser(userID, unreadOnly, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *NotificationService) UnreadCount(userID uint64) (int64, error) {
	count, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks a notification read. Already-read notifications keep their
// original read timestamp.
func (s *NotificationService) MarkRead(notificationID, userID uint64) (*models.Notification, error) {
	notification, err := s.notificationRepo.FindForUser(notificationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}

	if notification.IsRead {
		return notification, nil
	}

	if err := s.notificationRepo.MarkRead(notification, s.now()); err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return notification, nil
}

// MarkAllRead marks every unread notification of the user read and returns
// how many changed.
func (s *NotificationService) MarkAllRead(userID uint64) (int64, error) {
	updated, err := s.notificationRepo.MarkAllRead(userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return updated, nil
}

func (s *NotificationService) DeleteNotification(notificationID, userID uint64) error {
	if err := s.notificationRepo.Delete(notificationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *NotificationService) ListReminders(userID uint64, params utils.PaginationParams) ([]models.Reminder, int64, error) {
	reminders, total, err := s.reminderRepo.ListByUser(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, total, nil
}

// PendingReminderCount counts unread reminders that are already due.
func (s *NotificationService) PendingReminderCount(userID uint64) (int64, error) {
	count, err := s.reminderRepo.CountPending(userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to count pending reminders: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkReminderRead(reminderID, userID uint64) error {
	if err := s.reminderRepo.MarkRead(reminderID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReminderNotFound
		}
		return fmt.Errorf("failed to mark reminder read: %w", err)
	}
	return nil
}
