// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/barexp/barexp/internal/config"
	"github.com/barexp/barexp/internal/issue"
)

func TestRenderError(t *testing.T) {
	t.Parallel()

	actionable := issue.NewErrorContext().
		WithOperation("write aggregator file").
		WithResource("src/net/mod.rs").
		WithSuggestion("Check that the directory is writable").
		Wrap(errors.New("permission denied")).
		BuildError()

	tests := []struct {
		name     string
		err      error
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:     "plain error",
			err:      errors.New("boom"),
			contains: []string{"Error: ", "boom"},
		},
		{
			name:     "actionable error lists suggestions",
			err:      actionable,
			contains: []string{"failed to write aggregator file: src/net/mod.rs: permission denied", "Check that the directory is writable"},
			excludes: []string{"Error chain:"},
		},
		{
			name:     "verbose shows the chain",
			err:      actionable,
			verbose:  true,
			contains: []string{"Error chain:", "1. permission denied"},
		},
		{
			name: "exit code only",
			err:  &ExitError{Code: ExitOutdated},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			renderError(&buf, tt.err, tt.verbose, config.ColorSchemeAuto)
			got := buf.String()

			if len(tt.contains) == 0 && got != "" {
				t.Errorf("renderError() = %q, want no output", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("output contains %q:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestGlamourStyle(t *testing.T) {
	t.Parallel()

	tests := map[config.ColorScheme]string{
		config.ColorSchemeAuto:  "auto",
		config.ColorSchemeDark:  "dark",
		config.ColorSchemeLight: "light",
		"":                      "auto",
	}
	for scheme, want := range tests {
		if got := glamourStyle(scheme); got != want {
			t.Errorf("glamourStyle(%q) = %q, want %q", scheme, got, want)
		}
	}
}

func TestExcludePatterns(t *testing.T) {
	t.Parallel()

	got := excludePatterns([]string{"target", "vendor"})
	want := []string{"**/target", "**/target/**", "**/vendor", "**/vendor/**"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("excludePatterns() mismatch (-want +got):\n%s", diff)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("outdated")
	err := &ExitError{Code: ExitOutdated, Err: cause}
	if !errors.Is(err, cause) {
		t.Error("ExitError does not unwrap to its cause")
	}
	if got := (&ExitError{Code: 2}).Error(); got != "exit status 2" {
		t.Errorf("Error() = %q, want %q", got, "exit status 2")
	}
}
