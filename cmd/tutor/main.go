// Package main implements the tutor CLI, an interactive chat over the in-process tutor.
package main

import (
	"os"

	"github.com/Rrens/ecolearn/internal/app"
	"github.com/Rrens/ecolearn/internal/config"
	"github.com/Rrens/ecolearn/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var sessionID string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tutor",
	Short: "EcoLearn environmental science tutor",
	Long: `tutor runs the EcoLearn tutor in the terminal.

It reads the same configuration as the server (configs/config.yaml, .env and
environment variables) and stores sessions in the configured backend.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", "default_session", "session id to use")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(resetCmd)
}

// openApp loads configuration and wires the tutor for a command
func openApp(cmd *cobra.Command) (*app.App, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Keep the chat readable unless a level is asked for
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Logging.Level = "warn"
	}
	if _, err := logger.Setup(cfg.Logging); err != nil {
		return nil, err
	}

	return app.New(cmd.Context(), cfg)
}
