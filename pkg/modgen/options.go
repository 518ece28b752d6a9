// SPDX-License-Identifier: MPL-2.0

package modgen

import (
	"io"
	"os"
	"slices"
)

const (
	// DefaultRoot is the source root scanned by Build.
	DefaultRoot = "src"
	// DefaultSourceExt is the extension of files that become modules.
	DefaultSourceExt = ".rs"
	// DefaultAggregatorName is the canonical aggregator file name.
	DefaultAggregatorName = "mod.rs"
	// DefaultHiddenPrefix marks hidden files and directories.
	DefaultHiddenPrefix = "."
	// DefaultDirectivePrefix is the build-system directive requesting a rerun
	// when the scanned root changes.
	DefaultDirectivePrefix = "cargo:rerun-if-changed="
)

type (
	// Options controls how a Generator classifies entries and writes output.
	Options struct {
		// SourceExt selects files that become modules (including the dot).
		SourceExt string
		// AggregatorName is the file written into each qualifying directory.
		AggregatorName string
		// EntryNames are files that make a subdirectory a module root in
		// addition to AggregatorName.
		EntryNames []string
		// Excluded lists entry names skipped everywhere (build output dirs).
		Excluded []string
		// HiddenPrefix skips every entry whose name starts with it.
		HiddenPrefix string
		// IncludeRoot also generates the aggregator of the root directory.
		IncludeRoot bool
		// Sort orders modules by name. When false, directory order is kept.
		Sort bool
		// PruneStale removes generated aggregators from directories that no
		// longer have modules. Hand-written files are never removed.
		PruneStale bool
		// EmitDirective prints DirectivePrefix+root to Stdout before scanning.
		EmitDirective bool
		// DirectivePrefix is the build-system rerun directive.
		DirectivePrefix string
		// Lock holds an exclusive file lock on the root during a scan.
		Lock bool
		// DryRun computes the Report without touching the filesystem.
		DryRun bool
		// Stdout receives the rerun directive. nil defaults to os.Stdout.
		Stdout io.Writer
	}

	// Option mutates Options.
	Option func(*Options)
)

// DefaultOptions returns the Rust layout defaults.
func DefaultOptions() Options {
	return Options{
		SourceExt:       DefaultSourceExt,
		AggregatorName:  DefaultAggregatorName,
		EntryNames:      []string{"mod.rs", "lib.rs"},
		Excluded:        []string{"target"},
		HiddenPrefix:    DefaultHiddenPrefix,
		Sort:            true,
		EmitDirective:   true,
		DirectivePrefix: DefaultDirectivePrefix,
		Lock:            true,
		Stdout:          os.Stdout,
	}
}

// WithSourceExt sets the source file extension.
func WithSourceExt(ext string) Option {
	return func(o *Options) { o.SourceExt = ext }
}

// WithAggregatorName sets the aggregator file name.
func WithAggregatorName(name string) Option {
	return func(o *Options) { o.AggregatorName = name }
}

// WithEntryNames replaces the entry file names.
func WithEntryNames(names ...string) Option {
	return func(o *Options) { o.EntryNames = slices.Clone(names) }
}

// WithExcluded replaces the excluded entry names.
func WithExcluded(names ...string) Option {
	return func(o *Options) { o.Excluded = slices.Clone(names) }
}

// WithHiddenPrefix sets the hidden entry marker.
func WithHiddenPrefix(prefix string) Option {
	return func(o *Options) { o.HiddenPrefix = prefix }
}

// WithIncludeRoot toggles generation for the root directory.
func WithIncludeRoot(include bool) Option {
	return func(o *Options) { o.IncludeRoot = include }
}

// WithSort toggles sorting modules by name.
func WithSort(sorted bool) Option {
	return func(o *Options) { o.Sort = sorted }
}

// WithPruneStale toggles removal of stale generated aggregators.
func WithPruneStale(prune bool) Option {
	return func(o *Options) { o.PruneStale = prune }
}

// WithDirective configures the rerun directive. An empty prefix disables it.
func WithDirective(prefix string) Option {
	return func(o *Options) {
		o.DirectivePrefix = prefix
		o.EmitDirective = prefix != ""
	}
}

// WithLock toggles the cross-process run lock.
func WithLock(lock bool) Option {
	return func(o *Options) { o.Lock = lock }
}

// WithDryRun toggles dry-run mode.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) { o.DryRun = dryRun }
}

// WithStdout sets the writer receiving the rerun directive.
func WithStdout(w io.Writer) Option {
	return func(o *Options) { o.Stdout = w }
}
