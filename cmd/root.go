package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hangout-api/core/config"
	"hangout-api/core/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hangout-api",
	Short: "Hangout scheduling API",
	Long: `hangout-api finds times when two people are both free, based on their
calendars, and tracks hangout requests from proposal to completion.

Configuration is read from the environment (and an optional .env file).`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newWorkerCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newTokenCmd())
}

// loadConfig reads the configuration and initializes the process logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.App.Env, cfg.App.LogLevel)
	return cfg, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
