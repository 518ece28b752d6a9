// SPDX-License-Identifier: MPL-2.0

package modgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/barexp/barexp/internal/issue"
)

// SeverityWarning indicates a recoverable scan warning.
const SeverityWarning Severity = "warning"

var (
	// ErrRootNotFound is returned when the scan root is missing or not a directory.
	ErrRootNotFound = errors.New("source root not found")
	// ErrAggregatorWrite is wrapped by every aggregator write failure.
	ErrAggregatorWrite = errors.New("aggregator write failed")
)

type (
	// Severity represents scan diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal scan finding returned to callers instead of
	// being written to stderr, so the CLI controls rendering.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a machine-readable identifier (e.g., "dir_read_skipped").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the directory or file involved.
		Path string
		// Cause is the underlying error, if any.
		Cause error
	}

	// Report summarises one scan.
	Report struct {
		// Root is the scanned directory.
		Root string
		// Written lists aggregator files whose content changed (or would, in dry-run).
		Written []string
		// Unchanged lists aggregator files rewritten with identical content.
		Unchanged []string
		// Skipped lists visited directories that produced no aggregator.
		Skipped []string
		// Pruned lists stale generated aggregators that were removed.
		Pruned []string
		// Diagnostics holds swallowed read errors and other warnings.
		Diagnostics []Diagnostic
	}

	// Generator scans source trees and writes aggregator files.
	Generator struct {
		opts Options
	}
)

// New creates a Generator from the defaults plus opts.
func New(opts ...Option) *Generator {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	return &Generator{opts: o}
}

// Options returns a copy of the generator options.
func (g *Generator) Options() Options {
	o := g.opts
	o.EntryNames = slices.Clone(o.EntryNames)
	o.Excluded = slices.Clone(o.Excluded)
	return o
}

// Scan generates aggregator files for every qualifying directory below root.
//
// Directories are processed children first. Unreadable directories are
// recorded as diagnostics and contribute no modules; a failed write aborts
// the scan and is returned as an *issue.ActionableError wrapping
// ErrAggregatorWrite.
func (g *Generator) Scan(ctx context.Context, root string) (*Report, error) {
	report := &Report{Root: root}

	if g.opts.EmitDirective && g.opts.DirectivePrefix != "" {
		fmt.Fprintf(g.opts.Stdout, "%s%s\n", g.opts.DirectivePrefix, root)
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		cause := ErrRootNotFound
		if err != nil {
			cause = fmt.Errorf("%w: %w", ErrRootNotFound, err)
		}
		return report, issue.NewErrorContext().
			WithOperation("scan source root").
			WithResource(root).
			WithSuggestion("Run barexp from the project root or pass the source directory explicitly").
			WithIssue(issue.SourceRootNotFoundId).
			Wrap(cause).
			BuildError()
	}

	if g.opts.Lock && !g.opts.DryRun {
		lock, lockErr := acquireLock(ctx, root)
		if lockErr != nil {
			return report, lockErr
		}
		defer lock.release()
	}

	dirs := g.walk(root, report)
	plan := make(map[string]bool, len(dirs))

	// Pre-order reversed: every directory comes after all of its descendants.
	for _, dir := range slices.Backward(dirs) {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("scan canceled: %w", err)
		}
		if dir == root && !g.opts.IncludeRoot {
			continue
		}
		if err := g.generateDir(dir, plan, report); err != nil {
			return report, err
		}
	}

	slog.Debug("aggregator scan finished",
		"root", root,
		"written", len(report.Written),
		"unchanged", len(report.Unchanged),
		"skipped", len(report.Skipped),
		"pruned", len(report.Pruned))

	return report, nil
}

// walk returns every visible directory below root in lexical pre-order.
// A symlinked root is followed; returned paths stay below root as given.
func (g *Generator) walk(root string, report *Report) []string {
	var dirs []string

	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		report.warn("walk_skipped", fmt.Sprintf("cannot resolve %s: %v", root, err), root, err)
		walkRoot = root
	}

	// WalkDir is called a second time with a non-nil error for directories
	// it cannot list; those keep their first-visit entry and are skipped later.
	_ = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		path = underRoot(root, walkRoot, path)
		if err != nil {
			report.warn("walk_skipped", fmt.Sprintf("cannot walk %s: %v", path, err), path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && g.isIgnored(d.Name()) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})

	return dirs
}

// underRoot maps path, found below walkRoot, onto the same location below root.
func underRoot(root, walkRoot, path string) string {
	if root == walkRoot {
		return path
	}
	rel, err := filepath.Rel(walkRoot, path)
	if err != nil || rel == "." {
		return root
	}
	return filepath.Join(root, rel)
}

// generateDir writes (or prunes) the aggregator of a single directory and
// records the outcome in plan for the parent's module discovery.
func (g *Generator) generateDir(dir string, plan map[string]bool, report *Report) error {
	ok, err := g.qualifies(dir)
	if err != nil {
		report.warn("dir_read_skipped", fmt.Sprintf("cannot read %s: %v", dir, err), dir, err)
		report.Skipped = append(report.Skipped, dir)
		return nil
	}
	if !ok {
		slog.Debug("directory does not qualify", "dir", dir)
		report.Skipped = append(report.Skipped, dir)
		g.prune(dir, plan, report)
		return nil
	}

	modules, err := g.collectModules(dir, plan)
	if err != nil {
		report.warn("dir_read_skipped", fmt.Sprintf("cannot read %s: %v", dir, err), dir, err)
		report.Skipped = append(report.Skipped, dir)
		return nil
	}
	if len(modules) == 0 {
		slog.Debug("directory has no modules", "dir", dir)
		report.Skipped = append(report.Skipped, dir)
		g.prune(dir, plan, report)
		return nil
	}

	if err := g.write(dir, Render(modules), report); err != nil {
		return err
	}
	plan[dir] = true
	return nil
}

// write overwrites the aggregator of dir with content.
func (g *Generator) write(dir string, content []byte, report *Report) error {
	path := filepath.Join(dir, g.opts.AggregatorName)

	existing, readErr := os.ReadFile(path)
	unchanged := readErr == nil && bytes.Equal(existing, content)

	if !g.opts.DryRun {
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return issue.NewErrorContext().
				WithOperation("write aggregator file").
				WithResource(path).
				WithSuggestion("Check that the directory is writable").
				WithSuggestion("Make sure the file is not read-only or locked by another process").
				WithIssue(issue.AggregatorWriteFailedId).
				Wrap(fmt.Errorf("%w: %w", ErrAggregatorWrite, err)).
				BuildError()
		}
	}

	if unchanged {
		report.Unchanged = append(report.Unchanged, path)
	} else {
		slog.Debug("aggregator written", "path", path, "dryRun", g.opts.DryRun)
		report.Written = append(report.Written, path)
	}
	return nil
}

// prune removes the aggregator of dir when PruneStale is set and the file is
// recognisably generated.
func (g *Generator) prune(dir string, plan map[string]bool, report *Report) {
	if !g.opts.PruneStale {
		return
	}

	path := filepath.Join(dir, g.opts.AggregatorName)
	content, err := os.ReadFile(path)
	if err != nil || !IsRendered(content) {
		return
	}

	if !g.opts.DryRun {
		if err := os.Remove(path); err != nil {
			report.warn("prune_failed", fmt.Sprintf("cannot remove stale aggregator %s: %v", path, err), path, err)
			return
		}
	}

	slog.Debug("stale aggregator pruned", "path", path, "dryRun", g.opts.DryRun)
	report.Pruned = append(report.Pruned, path)
	plan[dir] = false
}

// warn records a swallowed error. Read failures are not surfaced as log
// warnings; callers decide whether to render Diagnostics.
func (r *Report) warn(code, message, path string, cause error) {
	slog.Debug(message, "code", code)
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Path:     path,
		Cause:    cause,
	})
}
