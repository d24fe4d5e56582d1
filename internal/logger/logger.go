// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package logger provides structured logging setup for the a2a-session tools.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-a2a/a2a-session/internal/config"
)

// New creates a *slog.Logger from the given Logging config writing to stderr.
func New(cfg config.Logging) *slog.Logger {
	return NewWriter(os.Stderr, cfg)
}

// NewWriter is like [New] but writes to w. Every record carries a "service"
// attribute.
func NewWriter(w io.Writer, cfg config.Logging) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With("service", cfg.Service)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
