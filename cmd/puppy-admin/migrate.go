// cmd/puppy-admin/migrate.go
package main

import (
	"github.com/spf13/cobra"

	"puppy-admin/internal/common/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pg, err := connectPostgres(ctx)
		if err != nil {
			return err
		}
		defer pg.Close()

		applied, err := database.Migrate(ctx, pg.DB)
		if err != nil {
			log.WithError(err).Error("Migration failed", nil)
			return err
		}
		log.Info("Migrations complete", map[string]interface{}{"applied": applied})
		return nil
	},
}
