package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"reelbox/internal/config"
	"reelbox/internal/format"
	"reelbox/internal/gateway"
	"reelbox/internal/logging"
	"reelbox/internal/tui"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	ConfigPath string
	Endpoint   string
	Token      string
	Timeout    time.Duration
	Format     string
	PrettyJSON bool
	LogLevel   string
	LogFile    string

	cfg    *config.Config
	logger *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "reelbox",
		Short:        "Film catalog browser (TUI + scriptable CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Browse the catalog interactively
  reelbox

  # Scriptable commands
  reelbox films list --filter watchlist --sort rating
  reelbox films toggle 0 --flag favorite

  # Direct film lookup (shortcut for: reelbox films show 3)
  reelbox 3

  # Serve a local catalog to develop against
  reelbox serve --seed 20 --fail-rate 0.2
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd, cmd == cmd.Root())
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.logger != nil {
			_ = app.logger.Sync()
		}
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigPath, "config", envOr("REELBOX_CONFIG", ""), "Config file (default ~/.reelbox/config.yaml)")
	pf.StringVar(&app.Endpoint, "endpoint", "", "Catalog API base URL")
	pf.StringVar(&app.Token, "token", "", "Authorization token")
	pf.DurationVar(&app.Timeout, "timeout", 0, "Per-request timeout")
	pf.StringVar(&app.Format, "format", "", "Output format (json|edn|table)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	pf.StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	pf.StringVar(&app.LogFile, "log-file", "", "Write logs to this file")

	cmd.AddCommand(newFilmsCmd(app))
	cmd.AddCommand(newCommentsCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup resolves configuration with precedence flag > env > file > default
// and builds the logger. The TUI owns the terminal, so it only logs to a file.
func (app *App) setup(cmd *cobra.Command, interactive bool) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = app.Endpoint
	}
	if flags.Changed("token") {
		cfg.Token = app.Token
	}
	if flags.Changed("timeout") {
		cfg.Timeout = app.Timeout
	}
	if flags.Changed("format") {
		cfg.Format = app.Format
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = app.LogLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = app.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg

	level := cfg.Log.Level
	if !interactive && cmd.Annotations["log"] != "verbose" && !flags.Changed("log-level") && os.Getenv("REELBOX_LOG_LEVEL") == "" {
		// Scripted output stays clean unless asked otherwise.
		level = "warn"
	}
	logger, err := logging.NewOrNop(logging.Options{
		Level:  level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Fields: map[string]any{"app": "reelbox"},
	}, interactive)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.logger = logger
	return nil
}

func (app *App) client() (*gateway.Client, error) {
	return gateway.New(gateway.Options{
		Endpoint:   app.cfg.Endpoint,
		Token:      app.cfg.Token,
		Timeout:    app.cfg.Timeout,
		Logger:     app.logger,
		Registerer: prometheus.NewRegistry(),
	})
}

func runTUI(cmd *cobra.Command, app *App) error {
	c, err := app.client()
	if err != nil {
		return writeErr(cmd, err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return tui.Run(ctx, tui.Options{
		Gateway:  c,
		Logger:   app.logger,
		PageSize: app.cfg.PageSize,
		Theme:    app.cfg.TUI.Theme,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.cfg.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
