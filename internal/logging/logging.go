// Package logging builds the zap logger shared by the CLI, the TUI and the
// mock API.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type Options struct {
	// Level is a zap level name; unknown values mean info.
	Level string
	// Format is "json" or "console".
	Format string
	// File, when set, receives all output instead of stderr. The TUI owns
	// the terminal, so it always logs to a file or not at all.
	File string
	// Fields are attached to every entry.
	Fields map[string]any
}

func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(opts.Format, "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(strings.TrimSpace(opts.Level))
	if err != nil || strings.TrimSpace(opts.Level) == "" {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = level

	if f := strings.TrimSpace(opts.File); f != "" {
		cfg.OutputPaths = []string{f}
		cfg.ErrorOutputPaths = []string{f}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	if len(opts.Fields) > 0 {
		cfg.InitialFields = opts.Fields
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// NewOrNop returns a Nop logger when no file is given for interactive use.
func NewOrNop(opts Options, interactive bool) (*zap.Logger, error) {
	if interactive && strings.TrimSpace(opts.File) == "" {
		return zap.NewNop(), nil
	}
	return New(opts)
}
