package config

import (
	"os"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	os.Unsetenv("CONTRACTD_SCHEMA_PATH")
	os.Unsetenv("CONTRACTD_DATA_DIR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "./data" {
		t.Fatalf("expected default data dir, got %q", cfg.DataDir)
	}
	if cfg.ChainNet != "devnet" {
		t.Fatalf("expected default chain net, got %q", cfg.ChainNet)
	}
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	os.Setenv("CONTRACTD_SCHEMA_PATH", "/tmp/schema.yaml")
	defer os.Unsetenv("CONTRACTD_SCHEMA_PATH")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SchemaPath != "/tmp/schema.yaml" {
		t.Fatalf("expected env override to apply, got %q", cfg.SchemaPath)
	}
}

func TestValidateRequiresSchemaPath(t *testing.T) {
	cfg := &Config{DataDir: "./data"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for missing schema path")
	}
}
