package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/spec-kit/institute-service/internal/persistence"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		if cfg.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required to run migrations")
		}
		pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
		if err != nil {
			return err
		}
		defer pg.Close()

		return persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
