package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yukikurage/project-management-api/internal/scheduler"
)

var scheduleWorkCmd = &cobra.Command{
	Use:   "schedule:work",
	Short: "Run scheduled jobs until interrupted",
	Long: `Run the deadline scan on the configured cron schedule
(DEADLINE_SCAN_SCHEDULE, default "0 9 * * *") in the configured TIMEZONE.`,
	Args: cobra.NoArgs,
	RunE: runScheduleWork,
}

func runScheduleWork(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	s, err := scheduler.New(cfg.DeadlineScanSchedule, loc, newDeadlineScanner(logger), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.Run(ctx)
	return nil
}
