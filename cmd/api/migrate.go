package main

import (
	"github.com/spf13/cobra"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/database"
)

func newMigrateCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger := cfg.Log.NewLogger()

			dbService, err := database.New(cfg.DB, logger)
			if err != nil {
				return err
			}
			defer dbService.Close()

			return dbService.Migrate(cmd.Context())
		},
	}
}
