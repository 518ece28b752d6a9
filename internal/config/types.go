// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/barexp/barexp/pkg/modgen"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultExportsFile is the generated registration file name.
	DefaultExportsFile FileName = "zz_barexp_exports.go"
	// DefaultDebounce is the watch-mode quiet period.
	DefaultDebounce = 300 * time.Millisecond
)

var (
	// ErrInvalidSourceExt is returned when a SourceExt value is malformed.
	ErrInvalidSourceExt = errors.New("invalid source extension")
	// ErrInvalidFileName is returned when a FileName value is empty or has a separator.
	ErrInvalidFileName = errors.New("invalid file name")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidDebounce is returned for a negative watch debounce.
	ErrInvalidDebounce = errors.New("invalid debounce")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// SourceExt is a file extension including the leading dot (".rs").
	SourceExt string

	// FileName is a bare file name without directory components.
	FileName string

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidValueError reports one malformed field value.
	InvalidValueError struct {
		Field string
		Value string
		Err   error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the barexp configuration.
	Config struct {
		// Root is the scanned source directory. Empty means Cargo.toml, then "src".
		Root string `json:"root" mapstructure:"root"`
		// SourceExt selects files that become modules.
		SourceExt SourceExt `json:"source_ext" mapstructure:"source_ext"`
		// AggregatorName is the generated file name.
		AggregatorName FileName `json:"aggregator_name" mapstructure:"aggregator_name"`
		// EntryNames make a subdirectory a module root.
		EntryNames []FileName `json:"entry_names" mapstructure:"entry_names"`
		// Exclude lists entry names skipped everywhere.
		Exclude []FileName `json:"exclude" mapstructure:"exclude"`
		// Sort orders modules by name.
		Sort bool `json:"sort" mapstructure:"sort"`
		// PruneStale removes generated aggregators that lost all modules.
		PruneStale bool `json:"prune_stale" mapstructure:"prune_stale"`
		// EmitDirective prints the rerun directive before a scan.
		EmitDirective bool `json:"emit_directive" mapstructure:"emit_directive"`
		// DirectivePrefix is the rerun directive text.
		DirectivePrefix string `json:"directive_prefix" mapstructure:"directive_prefix"`
		// IncludeRoot also generates the root directory's aggregator.
		IncludeRoot bool `json:"include_root" mapstructure:"include_root"`
		// Lock holds a file lock on the root while scanning.
		Lock bool `json:"lock" mapstructure:"lock"`
		// Exports configures `barexp exports`.
		Exports ExportsConfig `json:"exports" mapstructure:"exports"`
		// Watch configures `barexp watch`.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from, empty for defaults.
		Source string `json:"-" mapstructure:"-"`
	}

	// ExportsConfig configures export registration generation.
	ExportsConfig struct {
		// Patterns are go/packages patterns.
		Patterns []string `json:"patterns" mapstructure:"patterns"`
		// OutputFile is the generated file written into each package.
		OutputFile FileName `json:"output_file" mapstructure:"output_file"`
	}

	// WatchConfig configures watch mode.
	WatchConfig struct {
		// Debounce is the quiet period before a rerun.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// Ignore lists extra doublestar patterns.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// Verbose enables debug logging and detailed error rendering.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// ColorScheme selects the issue rendering style.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	defaults := modgen.DefaultOptions()
	return &Config{
		Root:            "",
		SourceExt:       SourceExt(defaults.SourceExt),
		AggregatorName:  FileName(defaults.AggregatorName),
		EntryNames:      toFileNames(defaults.EntryNames),
		Exclude:         toFileNames(defaults.Excluded),
		Sort:            defaults.Sort,
		PruneStale:      defaults.PruneStale,
		EmitDirective:   defaults.EmitDirective,
		DirectivePrefix: defaults.DirectivePrefix,
		IncludeRoot:     defaults.IncludeRoot,
		Lock:            defaults.Lock,
		Exports: ExportsConfig{
			Patterns:   []string{"./..."},
			OutputFile: DefaultExportsFile,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
			Ignore:   []string{},
		},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// ModgenOptions translates the aggregator settings into modgen options.
func (c *Config) ModgenOptions() []modgen.Option {
	prefix := c.DirectivePrefix
	if !c.EmitDirective {
		prefix = ""
	}
	return []modgen.Option{
		modgen.WithSourceExt(string(c.SourceExt)),
		modgen.WithAggregatorName(string(c.AggregatorName)),
		modgen.WithEntryNames(fromFileNames(c.EntryNames)...),
		modgen.WithExcluded(fromFileNames(c.Exclude)...),
		modgen.WithSort(c.Sort),
		modgen.WithPruneStale(c.PruneStale),
		modgen.WithIncludeRoot(c.IncludeRoot),
		modgen.WithLock(c.Lock),
		modgen.WithDirective(prefix),
	}
}

// IsValid returns whether the SourceExt is a dot followed by a bare suffix.
func (e SourceExt) IsValid() (bool, []error) {
	s := string(e)
	if len(s) < 2 || s[0] != '.' || strings.ContainsAny(s[1:], `./\`) {
		return false, []error{&InvalidValueError{Field: "source_ext", Value: s, Err: ErrInvalidSourceExt}}
	}
	return true, nil
}

// String returns the string representation of the SourceExt.
func (e SourceExt) String() string { return string(e) }

// IsValid returns whether the FileName is non-empty and has no separator.
func (n FileName) IsValid() (bool, []error) {
	s := string(n)
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return false, []error{&InvalidValueError{Field: "file name", Value: s, Err: ErrInvalidFileName}}
	}
	return true, nil
}

// String returns the string representation of the FileName.
func (n FileName) String() string { return string(n) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidValueError{Field: "ui.color_scheme", Value: string(c), Err: ErrInvalidColorScheme}}
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether every field of the Config is valid.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	collect := func(valid bool, fieldErrs []error) {
		if !valid {
			errs = append(errs, fieldErrs...)
		}
	}

	collect(c.SourceExt.IsValid())
	collect(c.AggregatorName.IsValid())
	for _, name := range c.EntryNames {
		collect(name.IsValid())
	}
	for _, name := range c.Exclude {
		collect(name.IsValid())
	}
	collect(c.Exports.OutputFile.IsValid())
	collect(c.UI.ColorScheme.IsValid())
	if c.Watch.Debounce < 0 {
		errs = append(errs, &InvalidValueError{Field: "watch.debounce", Value: c.Watch.Debounce.String(), Err: ErrInvalidDebounce})
	}

	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidValueError.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %v (got %q)", e.Field, e.Err, e.Value)
}

// Unwrap returns the field sentinel for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return e.Err }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

func toFileNames(names []string) []FileName {
	out := make([]FileName, len(names))
	for i, n := range names {
		out[i] = FileName(n)
	}
	return out
}

func fromFileNames(names []FileName) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
