package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateDSN string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the schema to the configured store",
	Long: `Apply the schema to the configured store and create the default root
subspace. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateDSN != "" {
			cfg.DatabaseDriver = "postgres"
			cfg.PostgresDSN = migrateDSN
		}
		log.Info().Str("driver", cfg.DatabaseDriver).Msg("🔗 Connecting to database")

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.HealthCheck(); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		log.Info().Msg("📄 Applying schema...")
		if err := db.Migrate(cmd.Context()); err != nil {
			return err
		}
		if err := db.EnsureDefaultSubspace(cmd.Context()); err != nil {
			return err
		}
		log.Info().Msg("✅ Database initialization completed successfully!")
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDSN, "dsn", "", "PostgreSQL DSN (overrides POSTGRES_DSN and forces the postgres driver)")
}
