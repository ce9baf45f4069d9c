// Package main provides the portal CLI: the standalone server plus
// maintenance commands against the configured store.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"intranet-portal-backend/pkg/config"
	"intranet-portal-backend/pkg/database"
	"intranet-portal-backend/pkg/logger"
)

var (
	// logLevel overrides LOG_LEVEL when set by --log-level.
	logLevel string

	cfg *config.Config
	log zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Intranet portal backend",
	Long: `portal serves the intranet content API (content, tags, categories,
places, subspaces, spaces, uploads) and provides maintenance commands
for the configured PostgreSQL or SQLite store.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(spaceCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "portal %s\n", config.Version)
	},
}

// loadConfig reads configuration and installs the root logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	cfg = config.LoadConfig()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log = logger.FromConfig(cfg)
	return nil
}

func databaseConfig() database.DatabaseConfig {
	return database.DatabaseConfig{
		Driver:      cfg.DatabaseDriver,
		PostgresDSN: cfg.PostgresDSN,
		SQLitePath:  cfg.SQLitePath,
		Debug:       cfg.Debug,
	}
}

// openDatabase opens the configured store; callers close it.
func openDatabase() (database.DatabaseInterface, error) {
	db, err := database.NewDatabase(databaseConfig())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DatabaseDriver, err)
	}
	return db, nil
}
