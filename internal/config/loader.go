// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "a2a-session.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Logging.Level, "A2A_SESSION_LOG_LEVEL")
	setString(&cfg.Logging.Format, "A2A_SESSION_LOG_FORMAT")
	setString(&cfg.Logging.Service, "A2A_SESSION_LOG_SERVICE")

	setInt(&cfg.Session.SubscriberBuffer, "A2A_SESSION_SUBSCRIBER_BUFFER")

	setString(&cfg.Store.Driver, "A2A_SESSION_STORE_DRIVER")
	setString(&cfg.Store.DSN, "DATABASE_URL")
	setInt64(&cfg.Store.CacheMaxCost, "A2A_SESSION_CACHE_MAX_COST")
	setDuration(&cfg.Store.CacheTTL, "A2A_SESSION_CACHE_TTL")

	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.NATS.Stream, "A2A_SESSION_NATS_STREAM")
	setString(&cfg.NATS.SubjectPrefix, "A2A_SESSION_NATS_SUBJECT_PREFIX")
}

// validate checks that the configuration is usable.
func validate(cfg *Config) error {
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", cfg.Logging.Format)
	}
	if cfg.Session.SubscriberBuffer < 0 {
		return errors.New("session.subscriber_buffer must be >= 0")
	}
	switch cfg.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.Store.DSN == "" {
			return errors.New("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("store.driver must be memory or postgres, got %q", cfg.Store.Driver)
	}
	if cfg.Store.CacheMaxCost < 0 {
		return errors.New("store.cache_max_cost must be >= 0")
	}
	if cfg.NATS.URL != "" {
		if cfg.NATS.Stream == "" {
			return errors.New("nats.stream is required when nats.url is set")
		}
		if cfg.NATS.SubjectPrefix == "" {
			return errors.New("nats.subject_prefix is required when nats.url is set")
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
