package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/billminder/internal/bootstrap"
	"github.com/mmynk/billminder/internal/clock"
	"github.com/mmynk/billminder/internal/config"
	"github.com/mmynk/billminder/pkg/logging"
)

var (
	flagConfig   string
	flagLogLevel string
	flagOwner    string
	flagJSON     bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "billctl",
	Short:         "Recurring bill tracker CLI",
	Long:          "Inspect the bill status view and payment history, and issue API tokens.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.Log.Level
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		logging.Setup(level, cfg.Log.Format)
		return nil
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", os.Getenv("CONFIG_PATH"), "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

// addOwnerFlag registers the required --owner flag on cmd.
func addOwnerFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagOwner, "owner", "o", "", "Owner ID to act on")
	cmd.MarkFlagRequired("owner")
}

// openApp wires the configured store and services with the given clock.
func openApp(ctx context.Context, clk clock.Clock) (*bootstrap.App, error) {
	return bootstrap.New(ctx, cfg, clk)
}
