// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barexp/barexp/internal/watch"
	"github.com/barexp/barexp/pkg/modgen"
)

func newWatchCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [root]",
		Short: "Regenerate aggregators whenever the module structure changes",
		Long: `Generate aggregators once, then again after every file or directory
below root is created, removed or renamed. Content edits do not trigger a
run. Stop with Ctrl+C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatchMode(cmd.Context(), app, args)
		},
	}
}

// runWatchMode runs the generator once and then on every structural change
// until ctx is canceled.
func runWatchMode(ctx context.Context, app *App, args []string) error {
	cfg := app.effectiveConfig()
	root, err := resolveRoot(cfg, args)
	if err != nil {
		return err
	}

	gen := modgen.New(append(cfg.ModgenOptions(), modgen.WithStdout(app.stdout))...)
	opts := gen.Options()

	regenerate := func(ctx context.Context) {
		report, err := gen.Scan(ctx, root)
		if err != nil {
			fmt.Fprintln(app.stderr, WarningStyle.Render("!")+" "+formatErrorForDisplay(err, app.verbose))
			return
		}
		printReport(app.stdout, report, false, app.verbose)
	}

	fmt.Fprintf(app.stdout, "%s Watch mode: initial generation below %s\n", PathStyle.Render("→"), root)
	regenerate(ctx)

	w, err := watch.New(watch.Config{
		Root:      root,
		Ignore:    append(excludePatterns(opts.Excluded), cfg.Watch.Ignore...),
		Generated: []string{opts.AggregatorName},
		Debounce:  cfg.Watch.Debounce,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(app.stdout, "\n%s Detected %d change(s), regenerating...\n", PathStyle.Render("→"), len(changed))
			regenerate(ctx)
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Fprintf(app.stdout, "\n%s Watching %s for changes (Ctrl+C to stop)...\n", PathStyle.Render("→"), w.Root())
	return w.Run(ctx)
}

// excludePatterns turns excluded entry names into doublestar patterns.
func excludePatterns(names []string) []string {
	patterns := make([]string, 0, 2*len(names))
	for _, name := range names {
		patterns = append(patterns, "**/"+name, "**/"+name+"/**")
	}
	return patterns
}
