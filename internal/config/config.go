// Package config loads reelbox settings from ~/.reelbox/config.yaml and the
// REELBOX_* environment. Flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEndpoint = "https://19.ecmascript.pages.academy/cinemaddict"
	DefaultTimeout  = 10 * time.Second
	DefaultPageSize = 5
)

type Config struct {
	Endpoint string        `yaml:"endpoint" json:"endpoint" validate:"required,url"`
	Token    string        `yaml:"token,omitempty" json:"token,omitempty"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" validate:"gt=0"`
	PageSize int           `yaml:"page_size" json:"page_size" validate:"gte=1,lte=100"`
	Format   string        `yaml:"format,omitempty" json:"format,omitempty" validate:"omitempty,oneof=json edn table"`

	Log LogConfig `yaml:"log" json:"log"`
	TUI TUIConfig `yaml:"tui" json:"tui"`
}

type LogConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format,omitempty" json:"format,omitempty" validate:"omitempty,oneof=json console"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

type TUIConfig struct {
	// Theme is light, dark or auto.
	Theme string `yaml:"theme,omitempty" json:"theme,omitempty" validate:"omitempty,oneof=light dark auto"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Default() *Config {
	return &Config{
		Endpoint: DefaultEndpoint,
		Timeout:  DefaultTimeout,
		PageSize: DefaultPageSize,
		Format:   "json",
		Log:      LogConfig{Level: "info", Format: "console"},
		TUI:      TUIConfig{Theme: "auto"},
	}
}

// Dir is ~/.reelbox unless REELBOX_CONFIG_DIR overrides it.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("REELBOX_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".reelbox"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path (or the default path when empty) over the defaults, then
// applies the environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg := Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(k string, dst *string) {
		if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("REELBOX_ENDPOINT", &c.Endpoint)
	str("REELBOX_TOKEN", &c.Token)
	str("REELBOX_FORMAT", &c.Format)
	str("REELBOX_LOG_LEVEL", &c.Log.Level)
	str("REELBOX_LOG_FILE", &c.Log.File)
	str("REELBOX_TUI_THEME", &c.TUI.Theme)

	if v, ok := lookup("REELBOX_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("REELBOX_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v, ok := lookup("REELBOX_PAGE_SIZE"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("REELBOX_PAGE_SIZE: %w", err)
		}
		c.PageSize = n
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Masked returns a copy safe to print.
func (c Config) Masked() Config {
	if c.Token != "" {
		c.Token = "****"
	}
	return c
}

// Save writes cfg to path (or the default path) atomically.
func Save(path string, cfg *Config) error {
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
