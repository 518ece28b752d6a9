// SPDX-License-Identifier: MPL-2.0

package exportcheck

import (
	"reflect"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports export directives on ineligible declarations and
// composite-key collisions. Its result is the []Descriptor of the package.
var Analyzer = &analysis.Analyzer{
	Name:       "exportcheck",
	Doc:        "checks //barexp:export directives for eligibility and name collisions",
	URL:        "https://github.com/barexp/barexp/internal/exportcheck",
	Run:        run,
	Requires:   []*analysis.Analyzer{inspect.Analyzer},
	ResultType: reflect.TypeFor[[]Descriptor](),
}

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	descriptors, findings := collect(pass.Fset, insp, pass.Pkg, pass.TypesInfo)
	for _, f := range findings {
		pass.Report(analysis.Diagnostic{
			Pos:      f.Pos,
			Category: f.Code,
			Message:  f.Message,
		})
	}

	table := Global()
	for _, d := range descriptors {
		if err := table.Claim(d); err != nil {
			pass.Report(analysis.Diagnostic{
				Pos:      d.Pos,
				Category: CodeCollision,
				Message:  err.Error(),
			})
		}
	}

	return descriptors, nil
}
