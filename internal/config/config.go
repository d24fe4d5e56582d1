// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides hierarchical configuration loading for the
// a2a-session tools.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds all runtime configuration.
type Config struct {
	Logging Logging `yaml:"logging"`
	Session Session `yaml:"session"`
	Store   Store   `yaml:"store"`
	NATS    NATS    `yaml:"nats"`
}

// Logging holds logger configuration.
type Logging struct {
	Level   string `yaml:"level"`  // debug | info | warn | error
	Format  string `yaml:"format"` // json | text
	Service string `yaml:"service"`
}

// Session holds session processor configuration.
type Session struct {
	SubscriberBuffer int `yaml:"subscriber_buffer"` // 0 = unbuffered
}

// Store holds task snapshot store configuration.
type Store struct {
	Driver       string        `yaml:"driver"` // memory | postgres
	DSN          string        `yaml:"dsn"`
	CacheMaxCost int64         `yaml:"cache_max_cost"` // bytes; 0 disables the cache
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

// NATS holds the event mirror configuration. An empty URL disables the mirror.
type NATS struct {
	URL           string `yaml:"url"`
	Stream        string `yaml:"stream"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Logging: Logging{
			Level:   "info",
			Format:  "json",
			Service: "a2a-session",
		},
		Session: Session{
			SubscriberBuffer: 1024,
		},
		Store: Store{
			Driver:       DriverMemory,
			CacheMaxCost: 64 << 20,
			CacheTTL:     10 * time.Minute,
		},
		NATS: NATS{
			Stream:        "A2A_SESSIONS",
			SubjectPrefix: "a2a.session",
		},
	}
}
