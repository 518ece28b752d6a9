// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Target: {
	name:     string
	jobs:     int & >=1
	enabled?: bool
	tags?: [...string]
}
`

type target struct {
	Name    string   `json:"name"`
	Jobs    int      `json:"jobs"`
	Enabled bool     `json:"enabled,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid document decodes", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
name: "lib"
jobs: 4
tags: ["a", "b"]
`)
		result, err := ParseAndDecode[target]([]byte(testSchema), data, "#Target")
		if err != nil {
			t.Fatalf("ParseAndDecode() error: %v", err)
		}
		if result.Value.Name != "lib" || result.Value.Jobs != 4 {
			t.Errorf("Value = %+v, want name=lib jobs=4", result.Value)
		}
		if len(result.Value.Tags) != 2 {
			t.Errorf("Tags = %v, want 2 entries", result.Value.Tags)
		}
		if result.Unified.Err() != nil {
			t.Errorf("Unified.Err() = %v", result.Unified.Err())
		}
	})

	t.Run("constraint violation reports path", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
name: "lib"
jobs: 0
`)
		_, err := ParseAndDecode[target]([]byte(testSchema), data, "#Target", WithFilename("target.cue"))
		if err == nil {
			t.Fatal("ParseAndDecode() error = nil, want constraint error")
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("errors.Is(err, ErrValidation) = false for %v", err)
		}
		if !strings.Contains(err.Error(), "target.cue") || !strings.Contains(err.Error(), "jobs") {
			t.Errorf("error %q should name the file and the field", err)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		t.Parallel()

		data := []byte(`name: "lib"`)
		if _, err := ParseAndDecode[target]([]byte(testSchema), data, "#Target"); err == nil {
			t.Error("concrete parse accepted a missing required field")
		}
	})

	t.Run("optional fields stay absent", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
name: "lib"
jobs: 2
`)
		result, err := ParseAndDecode[map[string]any]([]byte(testSchema), data, "#Target", WithConcrete(false))
		if err != nil {
			t.Fatalf("ParseAndDecode() error: %v", err)
		}
		if _, ok := result.Value["enabled"]; ok {
			t.Errorf("unset optional field decoded: %v", result.Value)
		}
		if result.Value["name"] != "lib" {
			t.Errorf("name = %v, want lib", result.Value["name"])
		}
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
name: "lib"
jobs: 1
colour: "red"
`)
		if _, err := ParseAndDecode[target]([]byte(testSchema), data, "#Target"); err == nil {
			t.Error("closed definition accepted an unknown field")
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseAndDecode[target]([]byte(testSchema), []byte(`name: "lib`), "#Target"); err == nil {
			t.Error("ParseAndDecode() accepted invalid syntax")
		}
	})

	t.Run("missing definition", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[target]([]byte(testSchema), []byte(`name: "x"`), "#Nope")
		if err == nil || !strings.Contains(err.Error(), "#Nope") {
			t.Errorf("ParseAndDecode() error = %v, want missing definition", err)
		}
	})

	t.Run("size limit", func(t *testing.T) {
		t.Parallel()

		data := []byte(strings.Repeat("a", 200))
		_, err := ParseAndDecode[target]([]byte(testSchema), data, "#Target", WithMaxFileSize(100))
		if !errors.Is(err, ErrFileTooLarge) {
			t.Errorf("ParseAndDecode() error = %v, want ErrFileTooLarge", err)
		}
	})
}
