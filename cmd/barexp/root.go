// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for barexp.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// annotationSkipConfig marks commands that must run even when the
// configuration cannot be loaded.
const annotationSkipConfig = "barexp.skip-config"

// rootFlagValues holds the persistent flags of the root command.
type rootFlagValues struct {
	verbose    bool
	configPath string
}

// NewRootCommand builds the full command tree for app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "barexp",
		Short: "Generate module aggregators and export registries",
		Long: TitleStyle.Render("barexp") + SubtitleStyle.Render(" - module aggregators and export registries") + `

barexp writes a module aggregator (mod.rs) into every source directory,
declaring and re-exporting each child module, and generates Go registration
code for declarations annotated with //barexp:export.

` + SubtitleStyle.Render("Examples:") + `
  barexp gen                 Generate aggregators below the crate source root
  barexp gen --check         Fail when aggregators are out of date
  barexp exports gen ./...   Write export registrations
  barexp watch               Regenerate aggregators on structural changes
  barexp config init         Create barexp.cue with the defaults`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationSkipConfig] == "true" {
				app.verbose = flags.verbose
				slog.SetDefault(newLogger(app.stderr, app.verbose))
				return nil
			}

			cfg, err := app.loadConfig(cmd.Context(), flags.configPath)
			if err != nil {
				return err
			}
			app.cfg = cfg
			app.verbose = flags.verbose || cfg.UI.Verbose
			slog.SetDefault(newLogger(app.stderr, app.verbose))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is ./barexp.cue, then the user config dir)")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(newGenCommand(app))
	rootCmd.AddCommand(newExportsCommand(app))
	rootCmd.AddCommand(newWatchCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// newLogger returns the slog logger used by library code: a charm log
// handler on w, at debug level when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return slog.New(log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "barexp",
	}))
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the code carried by the error.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, app.verbose, app.effectiveConfig().UI.ColorScheme)
		}),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}
