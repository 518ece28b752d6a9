// SPDX-License-Identifier: MPL-2.0

package exportgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/barexp/barexp/internal/exportcheck"
	"github.com/barexp/barexp/internal/issue"
)

// Result summarises one Generate call.
type Result struct {
	// Written lists generated files whose content changed (or would, in dry-run).
	Written []string
	// Unchanged lists generated files that were already up to date.
	Unchanged []string
	// Removed lists stale generated files of packages without exports.
	Removed []string
	// Descriptors lists every registered declaration, ordered by package path.
	Descriptors []exportcheck.Descriptor
}

// Generate scans the packages matched by opts and writes one registration
// file per package with at least one export. Any unsupported declaration or
// collision aborts the run before a file is touched.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	pkgs, err := Scan(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("export generation canceled: %w", err)
		}

		path := filepath.Join(pkg.Dir, opts.outputFile())
		if len(pkg.Descriptors) == 0 {
			if err := removeStale(path, opts.DryRun, result); err != nil {
				return result, err
			}
			continue
		}

		content, err := Render(pkg)
		if err != nil {
			return result, err
		}
		if err := write(path, content, opts.DryRun, result); err != nil {
			return result, err
		}
		result.Descriptors = append(result.Descriptors, pkg.Descriptors...)
	}

	slog.Debug("export generation finished",
		"packages", len(pkgs),
		"exports", len(result.Descriptors),
		"written", len(result.Written),
		"removed", len(result.Removed))

	return result, nil
}

func write(path string, content []byte, dryRun bool, result *Result) error {
	existing, readErr := os.ReadFile(path)
	if readErr == nil && bytes.Equal(existing, content) {
		result.Unchanged = append(result.Unchanged, path)
		return nil
	}
	if readErr == nil && !IsGenerated(existing) {
		return issue.NewErrorContext().
			WithOperation("write export registrations").
			WithResource(path).
			WithSuggestion("Rename the hand-written file or choose another exports.output_file").
			Wrap(fmt.Errorf("refusing to overwrite a file without the %q header", Header)).
			BuildError()
	}

	if !dryRun {
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return issue.NewErrorContext().
				WithOperation("write export registrations").
				WithResource(path).
				WithSuggestion("Check that the package directory is writable").
				Wrap(err).
				BuildError()
		}
	}

	slog.Debug("export registrations written", "path", path, "dryRun", dryRun)
	result.Written = append(result.Written, path)
	return nil
}

// removeStale deletes a previously generated file. Hand-written files with
// the same name are left alone.
func removeStale(path string, dryRun bool, result *Result) error {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if !IsGenerated(content) {
		return nil
	}

	if !dryRun {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove stale %s: %w", path, err)
		}
	}

	slog.Debug("stale export registrations removed", "path", path, "dryRun", dryRun)
	result.Removed = append(result.Removed, path)
	return nil
}
