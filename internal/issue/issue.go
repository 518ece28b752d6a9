// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

const (
	AggregatorWriteFailedId Id = iota + 1
	SourceRootNotFoundId
	ExportCollisionId
	UnsupportedExportId
	PackageLoadFailedId
	ConfigLoadFailedId
)

type Id int

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to lookup the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the issue Markdown with the given glamour style
// ("dark", "light", "notty", "auto").
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	aggregatorWriteFailedIssue = &Issue{
		id: AggregatorWriteFailedId,
		mdMsg: `
# Could not write an aggregator file!

barexp found modules in a directory but failed to write its aggregator file.
The whole generation run was aborted so the tree is not left half updated.

## Things you can try:
- Check the directory permissions:
~~~
$ ls -ld src/<dir>
~~~
- Make sure the aggregator file is not held open or marked read-only
- Re-run with verbose output to see the full error chain:
~~~
$ barexp --verbose gen
~~~`,
	}

	sourceRootNotFoundIssue = &Issue{
		id: SourceRootNotFoundId,
		mdMsg: `
# Source root not found!

The directory barexp was asked to scan does not exist.

## Resolution order:
1. The positional argument of ` + "`barexp gen`" + `
2. ` + "`root`" + ` in barexp.cue
3. The directory of ` + "`[lib].path`" + ` in Cargo.toml
4. ` + "`src`" + `

## Things you can try:
- Run barexp from the project root (next to Cargo.toml)
- Pass the directory explicitly:
~~~
$ barexp gen path/to/src
~~~`,
	}

	exportCollisionIssue = &Issue{
		id: ExportCollisionId,
		mdMsg: `
# Export name collision!

Two different declarations resolved to the same composite key
(package path + "::" + identifier). Every exported declaration must be unique
across the whole build.

## Things you can try:
- Keep only one of ` + "`//barexp:export`" + ` or ` + "`//barexp:export-fullpath`" + ` on a declaration
- Check for the same package being loaded from two module roots
- Rename one of the declarations`,
	}

	unsupportedExportIssue = &Issue{
		id: UnsupportedExportId,
		mdMsg: `
# Unsupported export target!

Export only supports structs, enums, and functions.

## Supported declarations:
~~~go
//barexp:export
type Service struct{}

//barexp:export
type Mode int

//barexp:export
func NewService() *Service { return &Service{} }
~~~

Interfaces, aliases, methods, variables, and constants cannot be exported.`,
	}

	packageLoadFailedIssue = &Issue{
		id: PackageLoadFailedId,
		mdMsg: `
# Could not load packages!

The export generator type-checks the packages it scans. Loading failed, which
usually means the code does not compile yet.

## Things you can try:
~~~
$ go build ./...
$ barexp --verbose exports gen ./...
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Could not load the barexp configuration!

## Things you can try:
- Validate the file with the default template:
~~~
$ barexp config init
$ barexp config show
~~~
- Remove the file to fall back to defaults`,
	}

	issues = map[Id]*Issue{
		aggregatorWriteFailedIssue.Id(): aggregatorWriteFailedIssue,
		sourceRootNotFoundIssue.Id():    sourceRootNotFoundIssue,
		exportCollisionIssue.Id():       exportCollisionIssue,
		unsupportedExportIssue.Id():     unsupportedExportIssue,
		packageLoadFailedIssue.Id():     packageLoadFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
