// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema.
//
// The flow is always the same:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode to a Go value
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[map[string]any](
//	    schema,
//	    data,
//	    "#Config",
//	    cueutil.WithFilename("barexp.cue"),
//	    cueutil.WithConcrete(false),
//	)
//
// Errors carry the JSON-style path of the offending field, for example
// "barexp.cue: exports.patterns[1]: conflicting values".
package cueutil
