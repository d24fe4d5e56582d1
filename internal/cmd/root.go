// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package cmd implements the a2a-session command line.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/go-a2a/a2a-session/internal/config"
	"github.com/go-a2a/a2a-session/internal/logger"
)

// app carries what the subcommands share once flags are parsed.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "a2a-session",
		Short: "Validate and replay A2A session event streams",
		Long: `a2a-session drives A2A session event processors outside of an agent server.

Configuration is read from a YAML file (optional) and overridden by
A2A_SESSION_*, DATABASE_URL and NATS_URL environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "version", "help", "completion":
				return nil
			}
			cfg, err := config.LoadFrom(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger.NewWriter(cmd.ErrOrStderr(), cfg.Logging)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultConfigFile, "Path to the YAML configuration file")

	rootCmd.AddCommand(
		newReplayCmd(a),
		newMigrateCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}
