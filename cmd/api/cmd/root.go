// Package cmd - company enrichment CLI commands
package cmd

import (
	"fmt"

	"github.com/labdan/Dashboard-sub000/internal/pkg/config"
	"github.com/labdan/Dashboard-sub000/internal/pkg/logger"
	"github.com/spf13/cobra"
)

const (
	serviceName    = "company-enrichment"
	serviceVersion = "1.0.0"
)

var (
	verbose bool

	// loaded once by PersistentPreRunE
	cfg *config.Config
)

// rootCmd runs the server when no subcommand is given
var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Company metadata enrichment for the dashboard",
	Long: `Company metadata enrichment for the dashboard

Usage:
    go run ./cmd/api [command]

Commands:
    serve                       - HTTP API server (default)
    enrich <ticker> <name>      - One-shot enrichment, printed as JSON
    migrate                     - Ensure the company_details table exists
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: runServe,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(migrateCmd)
}

// initConfig loads .env and the environment, then initializes the logger
func initConfig() error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if verbose {
		loaded.Logging.Level = "debug"
	}

	if err := logger.Init(logger.Config{
		Level:          loaded.Logging.Level,
		Format:         loaded.Logging.Format,
		FileEnabled:    loaded.Logging.FileEnabled,
		FilePath:       loaded.Logging.FilePath,
		RotationSize:   loaded.Logging.RotationSize,
		RetentionDays:  loaded.Logging.RetentionDays,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	cfg = loaded
	return nil
}
