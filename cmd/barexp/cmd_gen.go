// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/barexp/barexp/internal/cargo"
	"github.com/barexp/barexp/internal/config"
	"github.com/barexp/barexp/pkg/modgen"
)

type genFlagValues struct {
	dryRun      bool
	check       bool
	prune       bool
	includeRoot bool
}

func newGenCommand(app *App) *cobra.Command {
	flags := &genFlagValues{}

	genCmd := &cobra.Command{
		Use:   "gen [root]",
		Short: "Generate module aggregators",
		Long: `Generate a module aggregator in every directory below root that has
source files or subdirectories.

The root defaults to the 'root' config value, then the directory of
[lib].path in Cargo.toml, then 'src'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.effectiveConfig()
			root, err := resolveRoot(cfg, args)
			if err != nil {
				return err
			}

			opts := cfg.ModgenOptions()
			opts = append(opts, modgen.WithStdout(app.stdout), modgen.WithDryRun(flags.dryRun || flags.check))
			if cmd.Flags().Changed("prune") {
				opts = append(opts, modgen.WithPruneStale(flags.prune))
			}
			if cmd.Flags().Changed("include-root") {
				opts = append(opts, modgen.WithIncludeRoot(flags.includeRoot))
			}

			report, err := modgen.New(opts...).Scan(cmd.Context(), root)
			if err != nil {
				return err
			}

			printReport(app.stdout, report, flags.dryRun || flags.check, app.verbose)

			if flags.check {
				if n := len(report.Written) + len(report.Pruned); n > 0 {
					return &ExitError{Code: ExitOutdated, Err: fmt.Errorf("%d aggregator file(s) out of date below %s", n, root)}
				}
			}
			return nil
		},
	}

	genCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "report what would change without writing")
	genCmd.Flags().BoolVar(&flags.check, "check", false, "exit with status 3 when aggregators are out of date (implies --dry-run)")
	genCmd.Flags().BoolVar(&flags.prune, "prune", false, "remove generated aggregators that lost all modules")
	genCmd.Flags().BoolVar(&flags.includeRoot, "include-root", false, "also generate the root directory's aggregator")

	return genCmd
}

// resolveRoot picks the scan root: the argument, the configured root, then
// the crate manifest.
func resolveRoot(cfg *config.Config, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if cfg.Root != "" {
		return cfg.Root, nil
	}
	root, err := cargo.ResolveSourceRoot(".")
	if err != nil {
		return "", err
	}
	return filepath.Clean(root), nil
}

func printReport(w io.Writer, report *modgen.Report, dryRun, verbose bool) {
	verb := "wrote"
	if dryRun {
		verb = "would write"
	}
	for _, path := range report.Written {
		fmt.Fprintf(w, "  %s %s %s\n", SuccessStyle.Render("✓"), verb, PathStyle.Render(path))
	}
	for _, path := range report.Pruned {
		fmt.Fprintf(w, "  %s pruned %s\n", WarningStyle.Render("-"), PathStyle.Render(path))
	}
	if verbose {
		for _, d := range report.Diagnostics {
			fmt.Fprintf(w, "  %s %s\n", WarningStyle.Render("!"), d.Message)
		}
	}

	fmt.Fprintln(w, SubtitleStyle.Render(fmt.Sprintf("%d written, %d unchanged, %d pruned, %d skipped",
		len(report.Written), len(report.Unchanged), len(report.Pruned), len(report.Skipped))))
}
