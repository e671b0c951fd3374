// Command console runs maintenance and scheduled jobs outside the HTTP server.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/project-management-api/internal/config"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/logging"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Project management maintenance commands",
	Long: `console runs jobs against the project management database.

Examples:
  # Run the deadline scan once
  console projects:check-deadlines

  # Run scheduled jobs until interrupted
  console schedule:work`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(checkDeadlinesCmd)
	rootCmd.AddCommand(scheduleWorkCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(setRoleCmd)
}

// bootstrap loads configuration, builds the logger and connects to the database.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.GinMode)
	if err != nil {
		return nil, nil, err
	}

	if err := database.Connect(cfg, logger); err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}
