package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/scheduler"
	"github.com/yukikurage/project-management-api/internal/services"
	"go.uber.org/zap"
)

var checkDeadlinesCmd = &cobra.Command{
	Use:   "projects:check-deadlines",
	Short: "Notify stakeholders of projects 7, 3 or 1 days from their deadline",
	Long: `Scan projects with a deadline in the next 7 days and create deadline
notifications and reminders for their manager and members. Running it more
than once on the same day creates nothing new.`,
	Args: cobra.NoArgs,
	RunE: runCheckDeadlines,
}

func runCheckDeadlines(cmd *cobra.Command, args []string) error {
	_, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return checkDeadlines(cmd.Context(), cmd.OutOrStdout(), newDeadlineScanner(logger))
}

// checkDeadlines runs one scan and prints its tally. The scanner logs its own
// failures.
func checkDeadlines(ctx context.Context, out io.Writer, checker scheduler.DeadlineChecker) error {
	result, err := checker.CheckProjectDeadlines(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out,
		"Checked project deadlines: %d project(s) notified, %d notification(s) and %d reminder(s) created\n",
		result.ProjectsNotified, result.NotificationsCreated, result.RemindersCreated,
	)
	return nil
}

func newDeadlineScanner(logger *zap.Logger) *services.DeadlineScanner {
	db := database.GetDB()
	return services.NewDeadlineScanner(
		repository.NewProjectRepository(db),
		repository.NewNotificationRepository(db),
		repository.NewReminderRepository(db),
		nil,
		logger,
	)
}
