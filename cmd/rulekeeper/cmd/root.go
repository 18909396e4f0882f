package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/coachkit/rulekeeper/internal/core/config"
	"github.com/coachkit/rulekeeper/internal/core/db"
	"github.com/coachkit/rulekeeper/internal/logging"
)

const Version = "0.1.0"

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:          "rulekeeper",
	Short:        "rulekeeper coaching rule engine",
	Long:         `rulekeeper detects conflicts between coach-authored personalization rules and resolves the adjustments a client receives.`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Init(logLevel, logFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...), overrides RK_DATABASE_URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

func Execute() error {
	return rootCmd.Execute()
}

// openDatabase resolves the database URL (--db-url, then RK_DATABASE_URL or
// the config file) and opens it.
func openDatabase(ctx context.Context, cfg *config.RuleAPIConfig) (*sqlx.DB, error) {
	url := dbURL
	if url == "" {
		url = cfg.DatabaseURL
	}
	if url == "" {
		return nil, fmt.Errorf("--db-url or RK_DATABASE_URL required")
	}

	database, err := db.Open(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}
