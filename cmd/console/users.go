package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/services"
)

var setRoleCmd = &cobra.Command{
	Use:   "users:set-role <email> [role]",
	Short: "Set a user's role (admin, manager or employee)",
	Long: `Set the role recorded for a user. Omitting the role clears it and the
user is treated as an employee. Admins can read every activity log entry.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		role := ""
		if len(args) == 2 {
			role = args[1]
		}

		auth := services.NewAuthService(repository.NewUserRepository(database.GetDB()))
		user, err := auth.SetRole(args[0], role)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", user.Name, user.Email, user.RoleOrDefault())
		return nil
	},
}
