// Package cli implements the simple-membership command line.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-membership/internal/config"
)

// NewRootCommand creates the root command. level is the logger's level and
// is set from LOG_LEVEL once a command loads its configuration.
func NewRootCommand(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simple-membership",
		Short: "Merchant membership registry",
		Long:  "A registry of merchant loyalty memberships served over a JSON HTTP API.",
	}

	cmd.AddCommand(NewServeCommand(logger, level))
	cmd.AddCommand(NewTokenCommand(level))

	return cmd
}

// loadConfig loads configuration from the environment and applies its log level.
func loadConfig(level *slog.LevelVar) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if level != nil {
		level.Set(cfg.LogLevel)
	}
	return cfg, nil
}
