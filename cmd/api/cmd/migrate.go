package cmd

import (
	"github.com/labdan/Dashboard-sub000/internal/infra/database/postgres"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// migrateCmd creates the company_details table if needed
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Ensure the database schema exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := postgres.NewPool(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pool.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		log.Info().Msg("✅ Schema is up to date")
		return nil
	},
}
