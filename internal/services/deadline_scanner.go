package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/logging"
	"github.com/yukikurage/project-management-api/internal/metrics"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"go.uber.org/zap"
)

// ScanResult summarises one deadline scan.
type ScanResult struct {
	// ProjectsNotified counts projects that hit a threshold day, whether or
	// not their rows already existed.
	ProjectsNotified     int
	NotificationsCreated int
	RemindersCreated     int
}

// DeadlineScanner emits deadline notifications and reminders to every
// stakeholder of projects that are exactly 7, 3 or 1 days from their deadline.
type DeadlineScanner struct {
	projectRepo      repository.ProjectRepository
	notificationRepo repository.NotificationRepository
	reminderRepo     repository.ReminderRepository
	now              func() time.Time
	logger           *zap.Logger
}

// NewDeadlineScanner creates a new DeadlineScanner. A nil now uses time.Now.
func NewDeadlineScanner(
	projectRepo repository.ProjectRepository,
	notificationRepo repository.NotificationRepository,
	reminderRepo repository.ReminderRepository,
	now func() time.Time,
	logger *zap.Logger,
) *DeadlineScanner {
	if now == nil {
		now = time.Now
	}
	return &DeadlineScanner{
		projectRepo:      projectRepo,
		notificationRepo: notificationRepo,
		reminderRepo:     reminderRepo,
		now:              now,
		logger:           logging.OrNop(logger),
	}
}

// CheckProjectDeadlines runs one scan. The first persistence error aborts the
// run; rows written before it stay and are skipped by the next run.
func (s *DeadlineScanner) CheckProjectDeadlines(ctx context.Context) (ScanResult, error) {
	started := time.Now()
	result, err := s.scan(ctx)
	metrics.DeadlineScanDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		metrics.DeadlineScanRuns.WithLabelValues("error").Inc()
		s.logger.Error("Deadline scan failed",
			zap.Error(err),
			zap.Int("projects_notified", result.ProjectsNotified),
		)
		return result, err
	}

	metrics.DeadlineScanRuns.WithLabelValues("success").Inc()
	s.logger.Info("Deadline scan completed",
		zap.Int("projects_notified", result.ProjectsNotified),
		zap.Int("notifications_created", result.NotificationsCreated),
		zap.Int("reminders_created", result.RemindersCreated),
	)
	return result, nil
}

func (s *DeadlineScanner) scan(ctx context.Context) (ScanResult, error) {
	var result ScanResult
	now := s.now()

	projects, err := s.projectRepo.FindWithDeadlineBetween(now, now.Add(constants.DeadlineLookahead))
	if err != nil {
		return result, fmt.Errorf("failed to load projects with upcoming deadlines: %w", err)
	}

	for _, project := range projects {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if project.Deadline == nil {
			continue
		}

		days := DaysUntilDeadline(*project.Deadline, now)
		if !IsThresholdDay(days) {
			continue
		}

		message := DeadlineMessage(project.Name, days, *project.Deadline)
		remindAt := project.Deadline.Add(-constants.ReminderLeadTime).UTC()

		for _, recipientID := range Recipients(project) {
			notification := &models.Notification{
				UserID:  recipientID,
				Type:    models.NotificationDeadlineReminder,
				Related: project.Subject(),
				Title:   constants.DeadlineReminderTitle,
				Message: message,
			}
			created, err := s.notificationRepo.CreateIfAbsent(notification)
			if err != nil {
				return result, fmt.Errorf("failed to create deadline notification for project %d, user %d: %w", project.ID, recipientID, err)
			}
			if created {
				result.NotificationsCreated++
				metrics.DeadlineRecordsCreated.WithLabelValues("notification").Inc()
			}

			reminder := &models.Reminder{
				UserID:      recipientID,
				Type:        models.ReminderDeadline,
				Related:     project.Subject(),
				Title:       constants.DeadlineReminderTitle,
				Description: message,
				RemindAt:    remindAt,
			}
			created, err = s.reminderRepo.CreateIfAbsent(reminder)
			if err != nil {
				return result, fmt.Errorf("failed to create deadline reminder for project %d, user %d: %w", project.ID, recipientID, err)
			}
			if created {
				result.RemindersCreated++
				metrics.DeadlineRecordsCreated.WithLabelValues("reminder").Inc()
			}
		}

		s.logger.Debug("Project deadline notified",
			zap.Uint64("project_id", project.ID),
			zap.Int("days_until_deadline", days),
		)
		result.ProjectsNotified++
	}

	return result, nil
}

// DaysUntilDeadline returns the signed number of whole days from now to
// deadline, rounded toward negative infinity.
func DaysUntilDeadline(deadline, now time.Time) int {
	return int(math.Floor(deadline.Sub(now).Hours() / 24))
}

// IsThresholdDay reports whether days is exactly one of the alert days.
func IsThresholdDay(days int) bool {
	for _, threshold := range constants.DeadlineThresholdDays {
		if days == threshold {
			return true
		}
	}
	return false
}

// DeadlineMessage formats the body shared by deadline notifications and reminders.
func DeadlineMessage(projectName string, days int, deadline time.Time) string {
	return fmt.Sprintf("Project '%s' deadline is in %d day(s) - %s",
		projectName, days, deadline.Format(constants.DeadlineDateLayout))
}

// Recipients returns the manager (when assigned) followed by every member.
// A user who is both appears twice.
func Recipients(project models.Project) []uint64 {
	recipients := make([]uint64, 0, len(project.Members)+1)
	if project.ManagerID != nil {
		recipients = append(recipients, *project.ManagerID)
	}
	for _, member := range project.Members {
		recipients = append(recipients, member.UserID)
	}
	return recipients
}
