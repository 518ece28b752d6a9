// SPDX-License-Identifier: MPL-2.0

package exportgen

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/barexp/barexp/internal/exportcheck"
	"github.com/barexp/barexp/internal/issue"
)

const (
	// DefaultOutputFile is the generated file written into each package.
	DefaultOutputFile = "zz_barexp_exports.go"
	// ScanTag is set while loading packages; generated files exclude
	// themselves from builds that carry it.
	ScanTag = "barexpscan"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

var (
	// ErrUnsupported is wrapped by UnsupportedError.
	ErrUnsupported = errors.New("unsupported export declarations")
	// ErrPackageLoad is wrapped by every package loading failure.
	ErrPackageLoad = errors.New("package load failed")
)

type (
	// Options controls a scan.
	Options struct {
		// Dir is the directory package patterns are resolved in.
		Dir string
		// Patterns are go/packages patterns. Empty means "./...".
		Patterns []string
		// OutputFile is the generated file name. Empty means DefaultOutputFile.
		OutputFile string
		// DryRun reports what would be written without touching the disk.
		DryRun bool
		// Table receives every descriptor. Nil means a fresh table per call.
		Table *exportcheck.Table
	}

	// Package is the export set of one loaded package.
	Package struct {
		// Name is the package clause name.
		Name string
		// Path is the import path.
		Path string
		// Dir is the package directory.
		Dir string
		// Descriptors lists the exported declarations in source order.
		Descriptors []exportcheck.Descriptor
	}

	// UnsupportedError lists every directive placed on an ineligible
	// declaration.
	UnsupportedError struct {
		Findings []exportcheck.Finding
	}
)

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	lines := make([]string, len(e.Findings))
	for i, f := range e.Findings {
		lines[i] = fmt.Sprintf("%s: %s", f.Position, f.Message)
	}
	return strings.Join(lines, "\n")
}

// Unwrap returns ErrUnsupported for errors.Is() compatibility.
func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

func (o Options) outputFile() string {
	return cmp.Or(o.OutputFile, DefaultOutputFile)
}

// Scan loads the packages matched by opts and returns their export sets,
// ordered by import path. Nothing is written.
func Scan(ctx context.Context, opts Options) ([]Package, error) {
	pkgs, err := load(ctx, opts)
	if err != nil {
		return nil, err
	}

	table := opts.Table
	if table == nil {
		table = exportcheck.NewTable()
	}

	results := make([]Package, len(pkgs))
	findings := make([][]exportcheck.Finding, len(pkgs))
	collisions := make([][]error, len(pkgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, pkg := range pkgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			descriptors, found := exportcheck.Collect(pkg.Fset, pkg.Syntax, pkg.Types, pkg.TypesInfo)
			for _, d := range descriptors {
				if err := table.Claim(d); err != nil {
					collisions[i] = append(collisions[i], err)
				}
			}

			results[i] = Package{
				Name:        pkg.Name,
				Path:        pkg.PkgPath,
				Dir:         packageDir(pkg),
				Descriptors: descriptors,
			}
			findings[i] = found
			slog.Debug("package scanned", "package", pkg.PkgPath, "exports", len(descriptors), "findings", len(found))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export scan canceled: %w", err)
	}

	if all := slices.Concat(findings...); len(all) > 0 {
		return nil, issue.NewErrorContext().
			WithOperation("generate export registrations").
			WithResource(all[0].Position.Filename).
			WithSuggestion("Remove the export directive or move it to a struct, enum, or function").
			WithIssue(issue.UnsupportedExportId).
			Wrap(&UnsupportedError{Findings: all}).
			BuildError()
	}
	if all := slices.Concat(collisions...); len(all) > 0 {
		return nil, issue.NewErrorContext().
			WithOperation("generate export registrations").
			WithSuggestion("Make sure every exported declaration has a unique package path and name").
			WithIssue(issue.ExportCollisionId).
			Wrap(errors.Join(all...)).
			BuildError()
	}

	slices.SortFunc(results, func(a, b Package) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return results, nil
}

// load type-checks the packages with ScanTag set, which excludes every
// previously generated file so that a stale registration cannot break loading.
func load(ctx context.Context, opts Options) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Context:    ctx,
		Dir:        opts.Dir,
		Mode:       loadMode,
		BuildFlags: []string{"-tags=" + ScanTag},
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, loadError(opts, err)
	}

	var loadErrs []error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			loadErrs = append(loadErrs, e)
		}
	})
	if len(loadErrs) > 0 {
		return nil, loadError(opts, errors.Join(loadErrs...))
	}

	return pkgs, nil
}

func loadError(opts Options, err error) error {
	return issue.NewErrorContext().
		WithOperation("load packages").
		WithResource(strings.Join(opts.Patterns, " ")).
		WithSuggestion("Make sure the packages compile with 'go build'").
		WithIssue(issue.PackageLoadFailedId).
		Wrap(fmt.Errorf("%w: %w", ErrPackageLoad, err)).
		BuildError()
}

func packageDir(pkg *packages.Package) string {
	if pkg.Dir != "" {
		return pkg.Dir
	}
	if len(pkg.GoFiles) > 0 {
		return filepath.Dir(pkg.GoFiles[0])
	}
	return ""
}
