// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/barexp/barexp/internal/config"
	"github.com/barexp/barexp/internal/exportgen"
)

func newExportsCommand(app *App) *cobra.Command {
	exportsCmd := &cobra.Command{
		Use:   "exports",
		Short: "Generate and inspect export registrations",
		Long: `Generate and inspect registrations for declarations annotated with
//barexp:export or //barexp:export-fullpath.

Package patterns default to the 'exports.patterns' config value.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var (
		dryRun     bool
		outputFile string
	)
	genCmd := &cobra.Command{
		Use:   "gen [patterns...]",
		Short: "Write one registration file per package",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := exportOptions(app.effectiveConfig(), args)
			opts.DryRun = dryRun
			if outputFile != "" {
				opts.OutputFile = outputFile
			}

			result, err := exportgen.Generate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printExportResult(app.stdout, result, dryRun)
			return nil
		},
	}
	genCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	genCmd.Flags().StringVarP(&outputFile, "output", "o", "", "generated file name (default from exports.output_file)")

	listCmd := &cobra.Command{
		Use:   "list [patterns...]",
		Short: "List the declarations a generation would register",
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgs, err := exportgen.Scan(cmd.Context(), exportOptions(app.effectiveConfig(), args))
			if err != nil {
				return err
			}
			printExportList(app.stdout, pkgs)
			return nil
		},
	}

	exportsCmd.AddCommand(genCmd, listCmd)
	return exportsCmd
}

func exportOptions(cfg *config.Config, patterns []string) exportgen.Options {
	if len(patterns) == 0 {
		patterns = cfg.Exports.Patterns
	}
	return exportgen.Options{
		Patterns:   patterns,
		OutputFile: string(cfg.Exports.OutputFile),
	}
}

func printExportResult(w io.Writer, result *exportgen.Result, dryRun bool) {
	verb := "wrote"
	if dryRun {
		verb = "would write"
	}
	for _, path := range result.Written {
		fmt.Fprintf(w, "  %s %s %s\n", SuccessStyle.Render("✓"), verb, PathStyle.Render(path))
	}
	for _, path := range result.Removed {
		fmt.Fprintf(w, "  %s removed %s\n", WarningStyle.Render("-"), PathStyle.Render(path))
	}
	fmt.Fprintln(w, SubtitleStyle.Render(fmt.Sprintf("%d export(s), %d written, %d unchanged, %d removed",
		len(result.Descriptors), len(result.Written), len(result.Unchanged), len(result.Removed))))
}

func printExportList(w io.Writer, pkgs []exportgen.Package) {
	total := 0
	for _, pkg := range pkgs {
		if len(pkg.Descriptors) == 0 {
			continue
		}
		fmt.Fprintln(w, TitleStyle.Render(pkg.Path))
		for _, d := range pkg.Descriptors {
			note := ""
			if !d.Referenceable() {
				note = SubtitleStyle.Render(" (name only)")
			}
			fmt.Fprintf(w, "  %-6s %s%s  %s\n", d.Kind, PathStyle.Render(d.Name), note, SubtitleStyle.Render(d.Position.String()))
			total++
		}
	}
	fmt.Fprintln(w, SubtitleStyle.Render(fmt.Sprintf("%d export(s)", total)))
}
