package cli

import (
	"errors"
	"fmt"
	"os"

	"reelbox/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (token masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{"data": app.cfg.Masked()})
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.ConfigPath
			if path == "" {
				p, err := config.Path()
				if err != nil {
					return writeErr(cmd, err)
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return writeErr(cmd, fmt.Errorf("%s exists (use --force to overwrite)", path))
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return writeErr(cmd, err)
			}
			if err := config.Save(path, app.cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": path}})
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
