package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yukikurage/project-management-api/internal/logging"
	"github.com/yukikurage/project-management-api/internal/services"
	"go.uber.org/zap"
)

// DeadlineChecker runs one deadline scan.
type DeadlineChecker interface {
	CheckProjectDeadlines(ctx context.Context) (services.ScanResult, error)
}

// Scheduler fires the deadline scan on a cron schedule. At most one scan is
// in flight; a tick that arrives while a scan is still running is skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New registers checker under the cron schedule, evaluated in loc.
func New(schedule string, loc *time.Location, checker DeadlineChecker, logger *zap.Logger) (*Scheduler, error) {
	logger = logging.OrNop(logger)
	if loc == nil {
		loc = time.Local
	}

	cronLogger := cronLogger{logger: logger.Sugar()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	s := &Scheduler{cron: c, logger: logger}
	if _, err := c.AddFunc(schedule, func() { s.runDeadlineScan(checker) }); err != nil {
		return nil, fmt.Errorf("invalid deadline scan schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Run starts the schedule and blocks until ctx is cancelled, then waits for a
// running scan to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	for _, entry := range s.cron.Entries() {
		s.logger.Info("Schedule started", zap.Time("next_run", entry.Next))
	}

	<-ctx.Done()

	s.logger.Info("Stopping schedule")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDeadlineScan(checker DeadlineChecker) {
	result, err := checker.CheckProjectDeadlines(context.Background())
	if err != nil {
		// the checker has already logged the failure
		return
	}

	s.logger.Info("Scheduled deadline scan finished",
		zap.Int("projects_notified", result.ProjectsNotified),
		zap.Int("notifications_created", result.NotificationsCreated),
		zap.Int("reminders_created", result.RemindersCreated),
	)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
