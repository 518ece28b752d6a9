// SPDX-License-Identifier: MPL-2.0

// exportcheck reports //barexp:export directives on ineligible declarations
// and composite-key collisions across the analysed packages.
//
// Usage:
//
//	exportcheck ./...
//	go vet -vettool=$(which exportcheck) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/barexp/barexp/internal/exportcheck"
)

func main() {
	singlechecker.Main(exportcheck.Analyzer)
}
