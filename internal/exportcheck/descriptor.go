// SPDX-License-Identifier: MPL-2.0

package exportcheck

import (
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/ast/inspector"

	"github.com/barexp/barexp/pkg/exports"
)

// UnsupportedMessage is reported for a directive on an ineligible declaration.
const UnsupportedMessage = "Export only supports structs, enums, and functions"

const (
	// CodeUnsupported marks a directive on an ineligible declaration.
	CodeUnsupported = "unsupported"
	// CodeCollision marks a composite-key collision.
	CodeCollision = "collision"
)

type (
	// Descriptor is the compile-time record of one exported declaration.
	Descriptor struct {
		// Name is Ident or FullPath, depending on IsFullPath.
		Name string
		// Ident is the declared identifier.
		Ident string
		// ModulePath is the import path of the declaring package.
		ModulePath string
		// FullPath is ModulePath + "." + Ident.
		FullPath string
		// IsFullPath is set by //barexp:export-fullpath.
		IsFullPath bool
		// Kind is the declaration kind.
		Kind exports.Kind
		// Generic reports type parameters on the declaration.
		Generic bool
		// Constrained reports a file restricted by build constraints.
		Constrained bool
		// Position locates the declaration name.
		Position token.Position
		// Pos is the declaration name within its FileSet.
		Pos token.Pos
	}

	// Finding is a misplaced directive.
	Finding struct {
		Code     string
		Message  string
		Position token.Position
		Pos      token.Pos
	}
)

// Key returns the composite key of the descriptor.
func (d Descriptor) Key() string {
	return exports.KeyOf(d.ModulePath, d.Ident)
}

// Equal reports whether d and o describe the same declaration. Pos is
// ignored: it is only meaningful within one FileSet.
func (d Descriptor) Equal(o Descriptor) bool {
	return d.Name == o.Name &&
		d.Ident == o.Ident &&
		d.ModulePath == o.ModulePath &&
		d.FullPath == o.FullPath &&
		d.IsFullPath == o.IsFullPath &&
		d.Kind == o.Kind &&
		d.Generic == o.Generic &&
		d.Constrained == o.Constrained &&
		d.Position == o.Position
}

// Referenceable reports whether generated code may refer to the declaration
// by name. Generic declarations need instantiation and constrained files
// may be missing from other builds.
func (d Descriptor) Referenceable() bool {
	return !d.Generic && !d.Constrained
}

// Collect scans the declarations of one type-checked package for export
// directives, in source order.
func Collect(fset *token.FileSet, files []*ast.File, pkg *types.Package, info *types.Info) ([]Descriptor, []Finding) {
	return collect(fset, inspector.New(files), pkg, info)
}

func collect(fset *token.FileSet, insp *inspector.Inspector, pkg *types.Package, info *types.Info) ([]Descriptor, []Finding) {
	c := collector{fset: fset, pkgPath: pkg.Path(), info: info}

	nodeFilter := []ast.Node{
		(*ast.File)(nil),
		(*ast.FuncDecl)(nil),
		(*ast.GenDecl)(nil),
	}
	insp.WithStack(nodeFilter, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}

		// stack[0] is the file; package-level declarations sit right below it.
		local := len(stack) > 2
		switch n := n.(type) {
		case *ast.File:
			c.constrained = isConstrained(fset, n)
		case *ast.FuncDecl:
			c.funcDecl(n)
		case *ast.GenDecl:
			if local {
				c.localDecl(n)
				return true
			}
			c.genDecl(n)
		}
		return true
	})

	return c.descriptors, c.findings
}

type collector struct {
	fset        *token.FileSet
	pkgPath     string
	info        *types.Info
	constrained bool

	descriptors []Descriptor
	findings    []Finding
}

func (c *collector) funcDecl(fn *ast.FuncDecl) {
	dir, ok := findDirective(fn.Doc)
	if !ok {
		return
	}

	switch {
	case fn.Recv != nil:
		c.unsupported(fn.Name, "a method")
	case fn.Name.Name == "init" || fn.Name.Name == "_":
		c.unsupported(fn.Name, "not referenceable")
	default:
		c.add(fn.Name, dir, exports.KindFunc, fn.Type.TypeParams != nil)
	}
}

// localDecl rejects directives inside function bodies.
func (c *collector) localDecl(gd *ast.GenDecl) {
	if _, ok := findDirective(gd.Doc); ok {
		c.unsupported(gd, "a local declaration")
		return
	}
	for _, spec := range gd.Specs {
		if ts, ok := spec.(*ast.TypeSpec); ok {
			if _, found := findDirective(ts.Doc); found {
				c.unsupported(ts.Name, "a local declaration")
			}
		}
	}
}

func (c *collector) genDecl(gd *ast.GenDecl) {
	groupDir, groupOK := findDirective(gd.Doc)

	if gd.Tok != token.TYPE {
		if groupOK {
			c.unsupported(gd, "a "+gd.Tok.String()+" declaration")
			return
		}
		for _, spec := range gd.Specs {
			if vs, ok := spec.(*ast.ValueSpec); ok {
				if _, found := findDirective(vs.Doc); found && len(vs.Names) > 0 {
					c.unsupported(vs.Names[0], "a "+gd.Tok.String()+" declaration")
				}
			}
		}
		return
	}

	// An ungrouped "type X ..." keeps its doc comment on the GenDecl.
	if groupOK && gd.Lparen.IsValid() {
		c.finding(gd, CodeUnsupported, "export directive on a grouped type declaration; annotate each type instead")
		groupOK = false
	}

	for _, spec := range gd.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		dir, found := findDirective(ts.Doc)
		if !found && groupOK {
			dir, found = groupDir, true
		}
		if !found {
			continue
		}
		c.typeSpec(ts, dir)
	}
}

func (c *collector) typeSpec(ts *ast.TypeSpec, dir directive) {
	if ts.Assign.IsValid() {
		c.unsupported(ts.Name, "a type alias")
		return
	}

	kind, what := c.classify(ts)
	if kind == 0 {
		c.unsupported(ts.Name, what)
		return
	}
	c.add(ts.Name, dir, kind, ts.TypeParams != nil)
}

// classify resolves the kind of a defined type through its underlying type,
// so "type Level Severity" is an enum when Severity is.
func (c *collector) classify(ts *ast.TypeSpec) (exports.Kind, string) {
	obj, ok := c.info.Defs[ts.Name].(*types.TypeName)
	if !ok {
		return 0, "unresolved"
	}

	switch u := obj.Type().Underlying().(type) {
	case *types.Struct:
		return exports.KindStruct, ""
	case *types.Basic:
		if u.Info()&(types.IsInteger|types.IsString) != 0 {
			return exports.KindEnum, ""
		}
		return 0, "a " + u.Name() + " type"
	case *types.Interface:
		return 0, "an interface"
	default:
		return 0, "a " + typeKindName(u) + " type"
	}
}

func (c *collector) add(name *ast.Ident, dir directive, kind exports.Kind, generic bool) {
	c.descriptors = append(c.descriptors, Descriptor{
		Name:        exports.NameOf(c.pkgPath, name.Name, dir.fullPath),
		Ident:       name.Name,
		ModulePath:  c.pkgPath,
		FullPath:    exports.FullPathOf(c.pkgPath, name.Name),
		IsFullPath:  dir.fullPath,
		Kind:        kind,
		Generic:     generic,
		Constrained: c.constrained,
		Position:    c.fset.Position(name.Pos()),
		Pos:         name.Pos(),
	})
}

func (c *collector) unsupported(node ast.Node, what string) {
	msg := UnsupportedMessage
	if what != "" {
		msg = fmt.Sprintf("%s (%s is %s)", UnsupportedMessage, nodeName(node), what)
	}
	c.finding(node, CodeUnsupported, msg)
}

func (c *collector) finding(node ast.Node, code, msg string) {
	c.findings = append(c.findings, Finding{
		Code:     code,
		Message:  msg,
		Position: c.fset.Position(node.Pos()),
		Pos:      node.Pos(),
	})
}

func nodeName(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Ident:
		return n.Name
	case *ast.GenDecl:
		if len(n.Specs) == 1 {
			switch spec := n.Specs[0].(type) {
			case *ast.TypeSpec:
				return spec.Name.Name
			case *ast.ValueSpec:
				return spec.Names[0].Name
			}
		}
	}
	return "declaration"
}

func typeKindName(t types.Type) string {
	switch t.(type) {
	case *types.Pointer:
		return "pointer"
	case *types.Slice:
		return "slice"
	case *types.Array:
		return "array"
	case *types.Map:
		return "map"
	case *types.Chan:
		return "channel"
	case *types.Signature:
		return "func"
	default:
		return "non-struct"
	}
}

// isConstrained reports a //go:build line or a GOOS/GOARCH file suffix.
func isConstrained(fset *token.FileSet, file *ast.File) bool {
	for _, cg := range file.Comments {
		if cg.Pos() > file.Package {
			break
		}
		for _, c := range cg.List {
			if constraint.IsGoBuild(c.Text) {
				return true
			}
		}
	}

	name := filepath.Base(fset.Position(file.Package).Filename)
	stem := strings.TrimSuffix(strings.TrimSuffix(name, ".go"), "_test")
	parts := strings.Split(stem, "_")
	if len(parts) < 2 {
		return false
	}
	last := parts[len(parts)-1]
	return knownOS[last] || knownArch[last]
}

var knownOS = map[string]bool{
	"aix": true, "android": true, "darwin": true, "dragonfly": true,
	"freebsd": true, "illumos": true, "ios": true, "js": true, "linux": true,
	"netbsd": true, "openbsd": true, "plan9": true, "solaris": true,
	"wasip1": true, "windows": true,
}

var knownArch = map[string]bool{
	"386": true, "amd64": true, "arm": true, "arm64": true, "loong64": true,
	"mips": true, "mips64": true, "mips64le": true, "mipsle": true,
	"ppc64": true, "ppc64le": true, "riscv64": true, "s390x": true, "wasm": true,
}
