// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// Errors raised by barexp (aggregator write failures, export collisions,
// unsupported export targets, configuration problems) carry the operation that
// failed, the resource involved, and remediation hints. A small catalog of
// Markdown guides, rendered with glamour, backs the verbose CLI output.
package issue
