// SPDX-License-Identifier: MPL-2.0

package exportgen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"text/template"

	"github.com/barexp/barexp/internal/exportcheck"
	"github.com/barexp/barexp/pkg/exports"
)

// Header is the first line of every generated file.
const Header = "// Code generated by barexp. DO NOT EDIT."

// ExportsImportPath is the runtime registry imported by generated files.
const ExportsImportPath = "github.com/barexp/barexp/pkg/exports"

// Import names used by generated files. They are prefixed so they cannot
// clash with package-level identifiers of the target package.
const (
	exportsImportName = "barexpexports"
	reflectImportName = "barexpreflect"
)

var fileTemplate = template.Must(template.New("exports").Funcs(template.FuncMap{
	"quote":   strconv.Quote,
	"kind":    kindConst,
	"exports": func() string { return exportsImportName },
	"reflect": func() string { return reflectImportName },
}).Parse(`{{.Header}}

//go:build !{{.ScanTag}}

package {{.Package}}

import (
{{- if .NeedsReflect}}
	{{reflect}} "reflect"
{{end}}
	{{exports}} "{{.ExportsImport}}"
)

func init() {
{{- range .Items}}
	{{exports}}.Submit({{exports}}.ExportItem{
		Name:       {{quote .Name}},
		Ident:      {{quote .Ident}},
		ModulePath: {{quote .ModulePath}},
		FullPath:   {{quote .FullPath}},
		IsFullPath: {{.IsFullPath}},
		Kind:       {{kind .Kind}},
{{- if .Referenceable}}
{{- if .IsFunc}}
		Type:       {{reflect}}.TypeOf({{.Ident}}),
		Value:      {{.Ident}},
{{- else}}
		Type:       {{reflect}}.TypeFor[{{.Ident}}](),
{{- end}}
{{- end}}
	})
{{- end}}
}
`))

type fileData struct {
	Header        string
	ScanTag       string
	Package       string
	ExportsImport string
	NeedsReflect  bool
	Items         []item
}

type item struct {
	exportcheck.Descriptor
	IsFunc bool
}

// Render returns the gofmt'ed registration file for pkg.
func Render(pkg Package) ([]byte, error) {
	data := fileData{
		Header:        Header,
		ScanTag:       ScanTag,
		Package:       pkg.Name,
		ExportsImport: ExportsImportPath,
	}
	for _, d := range pkg.Descriptors {
		data.NeedsReflect = data.NeedsReflect || d.Referenceable()
		data.Items = append(data.Items, item{Descriptor: d, IsFunc: d.Kind == exports.KindFunc})
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", pkg.Path, err)
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", pkg.Path, err)
	}
	return out, nil
}

// IsGenerated reports whether content starts with the generated header.
func IsGenerated(content []byte) bool {
	return bytes.HasPrefix(content, []byte(Header+"\n"))
}

func kindConst(k exports.Kind) string {
	switch k {
	case exports.KindStruct:
		return exportsImportName + ".KindStruct"
	case exports.KindEnum:
		return exportsImportName + ".KindEnum"
	case exports.KindFunc:
		return exportsImportName + ".KindFunc"
	default:
		return fmt.Sprintf("%s.Kind(%d)", exportsImportName, uint8(k))
	}
}
