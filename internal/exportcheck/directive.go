// SPDX-License-Identifier: MPL-2.0

package exportcheck

import (
	"go/ast"
	"strings"
)

const (
	// DirectiveExport registers a declaration under its bare identifier.
	DirectiveExport = "//barexp:export"
	// DirectiveExportFullPath registers a declaration under its full path.
	DirectiveExportFullPath = "//barexp:export-fullpath"
)

// directive is a parsed export directive.
type directive struct {
	fullPath bool
	comment  *ast.Comment
}

// findDirective returns the last export directive in doc, if any. Only
// comments that start exactly with a directive count, so prose mentioning
// barexp:export does not.
func findDirective(doc *ast.CommentGroup) (directive, bool) {
	if doc == nil {
		return directive{}, false
	}

	var (
		found directive
		ok    bool
	)
	for _, c := range doc.List {
		head, _, _ := strings.Cut(c.Text, " ")
		switch head {
		case DirectiveExport:
			found, ok = directive{comment: c}, true
		case DirectiveExportFullPath:
			found, ok = directive{fullPath: true, comment: c}, true
		}
	}
	return found, ok
}
