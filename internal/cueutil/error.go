// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

var (
	// ErrValidation is the sentinel error wrapped by ValidationError.
	ErrValidation = errors.New("CUE validation failed")
	// ErrFileTooLarge is returned by CheckFileSize.
	ErrFileTooLarge = errors.New("file too large")
)

type (
	// ValidationError is one CUE error with the path of the offending field.
	ValidationError struct {
		// FilePath is the file being validated.
		FilePath string
		// CUEPath is the JSON-style path to the invalid value (e.g., "exclude[0]").
		CUEPath string
		// Message is the validation error message.
		Message string
	}

	// ValidationErrors groups every error reported for one file.
	ValidationErrors struct {
		FilePath string
		Errors   []*ValidationError
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Unwrap returns ErrValidation for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	lines := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		if ve.CUEPath != "" {
			lines = append(lines, ve.CUEPath+": "+ve.Message)
		} else {
			lines = append(lines, ve.Message)
		}
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
}

// Unwrap exposes every contained error to errors.Is/As.
func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ve := range e.Errors {
		errs[i] = ve
	}
	return errs
}

// FormatError converts a CUE error into a *ValidationError (one problem) or
// a *ValidationErrors (several). Non-CUE errors are wrapped with the path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// cueerrors.Errors promotes any error to a CUE list; only real CUE
	// errors carry paths worth formatting.
	var cueErr cueerrors.Error
	if !errors.As(err, &cueErr) {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	out := make([]*ValidationError, 0, len(cueErrs))
	for _, e := range cueErrs {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" {
			if rest, ok := strings.CutPrefix(msg, path); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		out = append(out, &ValidationError{FilePath: filePath, CUEPath: path, Message: msg})
	}

	if len(out) == 1 {
		return out[0]
	}
	return &ValidationErrors{FilePath: filePath, Errors: out}
}

// formatPath renders ["exports", "patterns", "1"] as "exports.patterns[1]".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize rejects data larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: %w: %d bytes exceeds maximum %d bytes",
			filename, ErrFileTooLarge, len(data), maxSize)
	}
	return nil
}
