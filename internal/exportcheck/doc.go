// SPDX-License-Identifier: MPL-2.0

// Package exportcheck finds //barexp:export and //barexp:export-fullpath
// directives and verifies them.
//
// A directive goes in the doc comment of a struct type, an enum type (a
// defined type whose underlying type is an integer or string kind), or a
// top-level function:
//
//	//barexp:export
//	type Widget struct{ ... }
//
//	//barexp:export-fullpath
//	func NewWidget() *Widget { ... }
//
// Collect turns directives into Descriptors. Every Descriptor is claimed in
// a Table keyed by "<import path>::<identifier>"; a second, different
// declaration under the same key is a collision. The Analyzer reports
// misplaced directives and collisions as go vet diagnostics; the exportgen
// package uses the same Collect and Table before writing registration code.
package exportcheck
