// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests keep the Go struct JSON tags and the CUE schema field names
// aligned; a mismatch would make a valid file silently lose a setting.

// extractCUEFields returns the top-level field names of a CUE struct
// definition, mapped to whether the field is optional.
func extractCUEFields(t *testing.T, val cue.Value) map[string]bool {
	t.Helper()

	fields := make(map[string]bool)

	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}

	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		fields[strings.TrimSuffix(sel.String(), "?")] = iter.IsOptional()
	}

	return fields
}

// extractGoJSONTags returns the JSON names of the direct exported fields of
// a struct type. Fields tagged json:"-" are excluded.
func extractGoJSONTags(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		t.Fatalf("expected struct type, got %s", typ.Kind())
	}

	fields := make(map[string]bool)
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = true
	}

	return fields
}

// assertFieldsSync verifies both directions of the CUE/Go field mapping.
func assertFieldsSync(t *testing.T, structName string, cueFields, goFields map[string]bool) {
	t.Helper()

	for field := range cueFields {
		if _, exists := goFields[field]; !exists {
			t.Errorf("[%s] CUE field %q not found in Go struct (missing JSON tag)", structName, field)
		}
	}
	for field := range goFields {
		if _, exists := cueFields[field]; !exists {
			t.Errorf("[%s] Go JSON tag %q not found in CUE schema (missing CUE field)", structName, field)
		}
	}
}

// getCUESchema compiles the embedded CUE schema.
func getCUESchema(t *testing.T) cue.Value {
	t.Helper()

	schema := cuecontext.New().CompileBytes(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile CUE schema: %v", schema.Err())
	}

	return schema
}

// lookupDefinition looks up a CUE definition by path (e.g., "#Config").
func lookupDefinition(t *testing.T, schema cue.Value, defPath string) cue.Value {
	t.Helper()

	def := schema.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		t.Fatalf("failed to lookup CUE definition %s: %v", defPath, def.Err())
	}

	return def
}

func TestSchemaSync(t *testing.T) {
	t.Parallel()

	tests := []struct {
		definition string
		goType     reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#ExportsConfig", reflect.TypeFor[ExportsConfig]()},
		{"#WatchConfig", reflect.TypeFor[WatchConfig]()},
		{"#UIConfig", reflect.TypeFor[UIConfig]()},
	}

	schema := getCUESchema(t)
	for _, tt := range tests {
		t.Run(tt.definition, func(t *testing.T) {
			t.Parallel()

			cueFields := extractCUEFields(t, lookupDefinition(t, schema, tt.definition))
			goFields := extractGoJSONTags(t, tt.goType)
			assertFieldsSync(t, tt.goType.Name(), cueFields, goFields)
		})
	}
}

func TestSchemaFieldsAreOptional(t *testing.T) {
	t.Parallel()

	schema := getCUESchema(t)
	for field, optional := range extractCUEFields(t, lookupDefinition(t, schema, "#Config")) {
		if !optional {
			t.Errorf("#Config field %q is required; every field must be optional so defaults apply", field)
		}
	}
}
