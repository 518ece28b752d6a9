// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/barexp/barexp/internal/config"
)

// newConfigCommand creates the `barexp config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage barexp configuration",
		Long: `Manage barexp configuration.

Configuration is read from the --config file, else ./barexp.cue, else the
user config file:
  - Linux: ~/.config/barexp/config.cue
  - macOS: ~/Library/Application Support/barexp/config.cue
  - Windows: %APPDATA%\barexp\config.cue

BAREXP_* environment variables override file values (BAREXP_PRUNE_STALE=true).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.effectiveConfig()
			source := cfg.Source
			if source == "" {
				source = "built-in defaults"
			}
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("// source: "+source))
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a configuration file with the defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			fmt.Fprintf(app.stdout, "%s created %s\n", SuccessStyle.Render("✓"), PathStyle.Render(abs))
			return nil
		},
	}
	// A broken existing file must not prevent `config init --force`.
	initCmd.Annotations = map[string]string{annotationSkipConfig: "true"}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}
