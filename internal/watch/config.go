// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultDebounce is the quiet period used when Config.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

var (
	// ErrInvalidConfig is the sentinel wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid watch config")
	// ErrInvalidPattern is returned for a malformed doublestar pattern.
	ErrInvalidPattern = errors.New("invalid ignore pattern")
	// ErrInvalidGenerated is returned for a generated name with a separator.
	ErrInvalidGenerated = errors.New("invalid generated file name")
	// ErrNegativeDebounce is returned for a negative Debounce.
	ErrNegativeDebounce = errors.New("negative debounce")
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the directory watched recursively. Empty means the working
		// directory.
		Root string

		// Ignore are doublestar patterns, relative to Root, merged with the
		// built-in ignores.
		Ignore []string

		// Generated are base names written by OnChange itself (aggregators). Events on them never trigger a run.
		Generated []string

		// Debounce is the quiet period after the last event before OnChange
		// fires. Zero means DefaultDebounce.
		Debounce time.Duration

		// OnChange receives the sorted, deduplicated paths (relative to Root)
		// that changed during the debounce window.
		OnChange func(ctx context.Context, changed []string) error
	}

	// InvalidConfigError lists every invalid Config field.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Validate checks every field and returns an *InvalidConfigError listing
// all problems, or nil.
func (c Config) Validate() error {
	var errs []error
	for _, pat := range c.Ignore {
		if pat == "" || !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPattern, pat))
		}
	}
	for _, name := range c.Generated {
		if name == "" || strings.ContainsAny(name, `/\`) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidGenerated, name))
		}
	}
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrNegativeDebounce, c.Debounce))
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%v: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and every field error.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
