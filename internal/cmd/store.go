// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-a2a/a2a-session/internal/config"
	"github.com/go-a2a/a2a-session/internal/natsmirror"
	"github.com/go-a2a/a2a-session/server/task"
)

// openStore builds the task store described by cfg. The returned function
// releases it.
func openStore(cfg config.Store, logger *slog.Logger) (task.Store, func() error, error) {
	var (
		store   task.Store
		closers []func() error
	)

	switch cfg.Driver {
	case config.DriverMemory:
		store = task.NewInMemoryStore()
	case config.DriverPostgres:
		db, err := task.OpenDatabaseStore(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		store = db
		closers = append(closers, db.Close)
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if cfg.CacheMaxCost > 0 {
		cached, err := task.NewCachedStore(store, task.CacheConfig{
			MaxCost: cfg.CacheMaxCost,
			TTL:     cfg.CacheTTL,
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, errors.Join(fmt.Errorf("create task cache: %w", err), closeAll(closers))
		}
		store = cached
		closers = append(closers, func() error {
			cached.Close()
			return nil
		})
	}

	return store, func() error { return closeAll(closers) }, nil
}

// openMirror connects the NATS mirror when cfg names a server. It returns a
// nil mirror otherwise.
func openMirror(ctx context.Context, cfg config.NATS, logger *slog.Logger) (*natsmirror.Mirror, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	return natsmirror.Connect(ctx, cfg.URL, cfg.Stream,
		natsmirror.WithSubjectPrefix(cfg.SubjectPrefix),
		natsmirror.WithLogger(logger),
	)
}

// closeAll runs closers in reverse order.
func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		errs = append(errs, closers[i]())
	}
	return errors.Join(errs...)
}
