// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
	"time"
)

func TestSourceExtIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value SourceExt
		want  bool
	}{
		{".rs", true},
		{".go", true},
		{"rs", false},
		{".", false},
		{"", false},
		{".tar.gz", false},
		{"./rs", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Fatalf("SourceExt(%q).IsValid() = %v, want %v", tt.value, valid, tt.want)
			}
			if !valid && !errors.Is(errs[0], ErrInvalidSourceExt) {
				t.Errorf("error = %v, want ErrInvalidSourceExt", errs[0])
			}
		})
	}
}

func TestFileNameIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value FileName
		want  bool
	}{
		{"mod.rs", true},
		{"lib.rs", true},
		{"", false},
		{"  ", false},
		{"a/mod.rs", false},
		{`a\mod.rs`, false},
		{"..", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Fatalf("FileName(%q).IsValid() = %v, want %v", tt.value, valid, tt.want)
			}
			if !valid && !errors.Is(errs[0], ErrInvalidFileName) {
				t.Errorf("error = %v, want ErrInvalidFileName", errs[0])
			}
		})
	}
}

func TestColorSchemeIsValid(t *testing.T) {
	t.Parallel()

	for _, scheme := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if valid, errs := scheme.IsValid(); !valid {
			t.Errorf("ColorScheme(%q).IsValid() = false: %v", scheme, errs)
		}
	}

	valid, errs := ColorScheme("neon").IsValid()
	if valid {
		t.Fatal("ColorScheme(\"neon\").IsValid() = true, want false")
	}
	if !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("error = %v, want ErrInvalidColorScheme", errs[0])
	}
}

func TestConfigIsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Fatalf("DefaultConfig().IsValid() = false: %v", errs)
	}

	cfg := DefaultConfig()
	cfg.SourceExt = "rs"
	cfg.EntryNames = append(cfg.EntryNames, "")
	cfg.Watch.Debounce = -time.Second

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("IsValid() = true for a broken config")
	}
	if len(errs) != 1 {
		t.Fatalf("IsValid() returned %d errors, want one InvalidConfigError", len(errs))
	}

	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("error type = %T, want *InvalidConfigError", errs[0])
	}
	if len(cfgErr.FieldErrors) != 3 {
		t.Errorf("FieldErrors = %v, want 3 entries", cfgErr.FieldErrors)
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Error("InvalidConfigError does not wrap ErrInvalidConfig")
	}
	for _, sentinel := range []error{ErrInvalidSourceExt, ErrInvalidFileName, ErrInvalidDebounce} {
		found := false
		for _, fe := range cfgErr.FieldErrors {
			if errors.Is(fe, sentinel) {
				found = true
			}
		}
		if !found {
			t.Errorf("no field error wraps %v", sentinel)
		}
	}
}
