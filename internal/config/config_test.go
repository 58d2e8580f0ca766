package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv("REELBOX_CONFIG_DIR", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint != DefaultEndpoint || cfg.Timeout != DefaultTimeout || cfg.PageSize != DefaultPageSize {
		t.Fatalf("expected defaults; got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestSaveThenLoadWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("REELBOX_CONFIG_DIR", dir)
	cfg := Default()
	cfg.Token = "secret"
	cfg.PageSize = 8
	if err := Save("", cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("expected config.yaml: %v", err)
	}

	t.Setenv("REELBOX_TIMEOUT", "3s")
	got, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Token != "secret" || got.PageSize != 8 {
		t.Fatalf("expected saved values; got %+v", got)
	}
	if got.Timeout != 3*time.Second {
		t.Fatalf("expected env timeout; got %v", got.Timeout)
	}
	if got.Masked().Token != "****" || got.Token != "secret" {
		t.Fatalf("expected masked copy only")
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("REELBOX_CONFIG_DIR", t.TempDir())
	t.Setenv("REELBOX_PAGE_SIZE", "many")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for bad page size")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Endpoint = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid endpoint")
	}
	cfg = Default()
	cfg.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid format")
	}
}
