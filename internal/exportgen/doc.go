// SPDX-License-Identifier: MPL-2.0

// Package exportgen writes the registration files for //barexp:export
// declarations.
//
// Generate loads the requested packages with go/packages, scans them
// concurrently with the exportcheck collector, claims every descriptor in
// one Table and, when no unsupported declaration or collision was found,
// writes one gofmt'ed file per package whose init function submits an
// exports.ExportItem for each declaration in source order.
package exportgen
