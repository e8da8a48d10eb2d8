// Copyright 2025 Certen Protocol

package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all configuration for the contractd validator daemon.
type Config struct {
	// Schema and repository inputs.
	SchemaPath      string // path to the YAML schema definition (pkg/schema.Load)
	ChainNet        string // base-chain network identifier operations commit to (spec section 3.2)
	ConsignmentPath string // path to a consignment document to ingest at startup, "-" for stdin, "" to skip

	// Persistence (pkg/store, backed by pkg/kvdb's cometbft-db adapter).
	DataDir string // base directory for the contract-state snapshot database

	// Server configuration.
	MetricsAddr string // Prometheus /metrics listen address
	HealthAddr  string // read from CONTRACTD_HEALTH_ADDR; contractd serves /healthz on MetricsAddr and does not use this field

	// Service identification, for log lines and metrics labels.
	ValidatorID string
	LogLevel    string
}

// Load reads configuration from environment variables, applying the same
// defaults-with-override style as the teacher's getEnv helpers.
func Load() (*Config, error) {
	cfg := &Config{
		SchemaPath:      getEnv("CONTRACTD_SCHEMA_PATH", ""),
		ChainNet:        getEnv("CONTRACTD_CHAIN_NET", "devnet"),
		ConsignmentPath: getEnv("CONTRACTD_CONSIGNMENT_PATH", ""),

		DataDir: getEnv("CONTRACTD_DATA_DIR", "./data"),

		MetricsAddr: getEnv("CONTRACTD_METRICS_ADDR", "0.0.0.0:9090"),
		HealthAddr:  getEnv("CONTRACTD_HEALTH_ADDR", "0.0.0.0:8081"),

		ValidatorID: getEnv("CONTRACTD_VALIDATOR_ID", "contractd-default"),
		LogLevel:    getEnv("CONTRACTD_LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate checks that all configuration required to run a validation is present.
func (c *Config) Validate() error {
	var errs []string

	if c.SchemaPath == "" {
		errs = append(errs, "CONTRACTD_SCHEMA_PATH is required but not set")
	}
	if c.DataDir == "" {
		errs = append(errs, "CONTRACTD_DATA_DIR is required but not set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
