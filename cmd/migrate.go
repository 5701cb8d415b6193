package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Crea o actualiza las tablas de la base de datos",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openMigrated(context.Background())
		if err != nil {
			return err
		}
		defer a.Close(logger)

		logger.Info("Database migrated")
		return nil
	},
}
