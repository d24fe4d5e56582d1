// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-a2a/a2a-session/internal/config"
	"github.com/go-a2a/a2a-session/server/task"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the task store database migrations",
		Long: `Apply the embedded SQL migrations to the PostgreSQL database named by
store.dsn (or DATABASE_URL). The store driver must be postgres.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Store.Driver != config.DriverPostgres {
				return errors.New("migrate requires store.driver to be postgres")
			}
			if err := task.Migrate(cmd.Context(), a.cfg.Store.DSN); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			a.logger.InfoContext(cmd.Context(), "task store migrated")
			return nil
		},
	}
}
