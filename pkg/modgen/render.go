// SPDX-License-Identifier: MPL-2.0

package modgen

import (
	"bytes"
	"strings"
)

const (
	declPrefix  = "pub mod "
	declSuffix  = ";"
	reexportBeg = "pub use self::{"
	reexportEnd = "};"
	entryIndent = "    "
	entrySuffix = "::*,"
)

// Render produces the aggregator content for modules: one declaration line
// per module, a blank line, then a single re-export block. Modules are
// rendered in the given order. An empty slice renders nothing.
func Render(modules []Module) []byte {
	if len(modules) == 0 {
		return nil
	}

	var buf bytes.Buffer

	for _, m := range modules {
		buf.WriteString(declPrefix)
		buf.WriteString(m.Name)
		buf.WriteString(declSuffix)
		buf.WriteByte('\n')
	}

	buf.WriteByte('\n')

	buf.WriteString(reexportBeg)
	buf.WriteByte('\n')
	for _, m := range modules {
		buf.WriteString(entryIndent)
		buf.WriteString(m.Name)
		buf.WriteString(entrySuffix)
		buf.WriteByte('\n')
	}
	buf.WriteString(reexportEnd)
	buf.WriteByte('\n')

	return buf.Bytes()
}

// IsRendered reports whether content is exactly what Render produces for
// some non-empty module list. Hand-edited aggregators do not match.
func IsRendered(content []byte) bool {
	head, _, found := strings.Cut(string(content), "\n\n")
	if !found || head == "" {
		return false
	}

	var modules []Module
	for line := range strings.SplitSeq(head, "\n") {
		name, ok := strings.CutPrefix(line, declPrefix)
		if !ok {
			return false
		}
		name, ok = strings.CutSuffix(name, declSuffix)
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			return false
		}
		modules = append(modules, Module{Name: name})
	}

	return bytes.Equal(Render(modules), content)
}
