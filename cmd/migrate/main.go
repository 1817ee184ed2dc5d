// Package main applies the Postgres session schema with golang-migrate.
package main

import (
	"os"

	"github.com/Rrens/ecolearn/internal/config"
	"github.com/Rrens/ecolearn/internal/logger"
	"github.com/Rrens/ecolearn/internal/repository/postgres"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	migrationsPath string
	steps          int
	cfg            *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the Postgres session schema",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		_, err = logger.Setup(cfg.Logging)
		return err
	},
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logTarget()
		return postgres.RunMigrations(cfg.Database.DSN(), sourceURL())
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logTarget()
		return postgres.RollbackMigrations(cfg.Database.DSN(), sourceURL(), steps)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "directory holding the migration files")
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
}

func sourceURL() string {
	return "file://" + migrationsPath
}

func logTarget() {
	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("source", sourceURL()).
		Msg("Connecting to database")
}
