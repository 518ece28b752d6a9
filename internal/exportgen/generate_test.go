// SPDX-License-Identifier: MPL-2.0

package exportgen

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/barexp/barexp/internal/exportcheck"
	"github.com/barexp/barexp/internal/issue"
	"github.com/barexp/barexp/internal/testutil"
	"github.com/barexp/barexp/pkg/exports"
)

const goMod = "module example.com/demo\n\ngo 1.25\n"

const shapesSrc = `package shapes

//barexp:export
type Circle struct{ R float64 }

// Unit is a length unit.
//
//barexp:export-fullpath
type Unit int

//barexp:export
func Area(c Circle) float64 { return 3.14 * c.R * c.R }

//barexp:export
type Box[T any] struct{ V T }

type internal struct{}
`

// newModule writes a throwaway module and isolates the go command from the
// surrounding workspace. Tests using it cannot run in parallel.
func newModule(t *testing.T, files map[string]string) string {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
	t.Cleanup(testutil.MustSetenv(t, "GOWORK", "off"))
	t.Cleanup(testutil.MustSetenv(t, "GOFLAGS", ""))
	t.Cleanup(testutil.MustSetenv(t, "GOPROXY", "off"))

	dir := t.TempDir()
	files["go.mod"] = goMod
	testutil.WriteTree(t, dir, files)
	return dir
}

func TestGenerate(t *testing.T) {
	dir := newModule(t, map[string]string{
		"shapes/shapes.go": shapesSrc,
		"plain/plain.go":   "package plain\n\nfunc Helper() {}\n",
		"plain/" + DefaultOutputFile: Header + "\n\n//go:build !" + ScanTag + "\n\npackage plain\n\nimport \"example.com/gone\"\n",
	})

	result, err := Generate(context.Background(), Options{Dir: dir})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	generated := filepath.Join(dir, "shapes", DefaultOutputFile)
	stale := filepath.Join(dir, "plain", DefaultOutputFile)

	if diff := cmp.Diff([]string{generated}, result.Written); diff != "" {
		t.Errorf("Written mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{stale}, result.Removed); diff != "" {
		t.Errorf("Removed mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file still present: %v", err)
	}

	var names []string
	for _, d := range result.Descriptors {
		names = append(names, d.Name)
	}
	want := []string{"Circle", "example.com/demo/shapes.Unit", "Area", "Box"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("descriptor names mismatch (-want +got):\n%s", diff)
	}

	content := squash(testutil.ReadFile(t, generated))
	for _, s := range []string{
		"package shapes",
		"Type: reflect.TypeFor[Circle]()",
		"Type: reflect.TypeOf(Area), Value: Area,",
	} {
		if !strings.Contains(content, s) {
			t.Errorf("generated file missing %q:\n%s", s, content)
		}
	}
	if strings.Contains(content, "TypeFor[Box]") {
		t.Errorf("generic declaration referenced by name:\n%s", content)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	dir := newModule(t, map[string]string{"shapes/shapes.go": shapesSrc})

	if _, err := Generate(context.Background(), Options{Dir: dir}); err != nil {
		t.Fatalf("first Generate() error: %v", err)
	}
	first := testutil.ReadFile(t, filepath.Join(dir, "shapes", DefaultOutputFile))

	// The generated file imports a package the throwaway module cannot
	// resolve; the scan tag keeps it out of the load.
	result, err := Generate(context.Background(), Options{Dir: dir})
	if err != nil {
		t.Fatalf("second Generate() error: %v", err)
	}
	if len(result.Written) != 0 || len(result.Unchanged) != 1 {
		t.Errorf("second run Written = %v, Unchanged = %v", result.Written, result.Unchanged)
	}
	if second := testutil.ReadFile(t, filepath.Join(dir, "shapes", DefaultOutputFile)); second != first {
		t.Error("second run changed the generated file")
	}
}

func TestGenerate_DryRun(t *testing.T) {
	dir := newModule(t, map[string]string{"shapes/shapes.go": shapesSrc})

	result, err := Generate(context.Background(), Options{Dir: dir, DryRun: true, OutputFile: "registry_gen.go"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	path := filepath.Join(dir, "shapes", "registry_gen.go")
	if diff := cmp.Diff([]string{path}, result.Written); diff != "" {
		t.Errorf("Written mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("dry run wrote %s", path)
	}
}

func TestGenerate_Unsupported(t *testing.T) {
	dir := newModule(t, map[string]string{
		"shapes/shapes.go": shapesSrc,
		"bad/bad.go":       "package bad\n\n//barexp:export\ntype Doer interface{ Do() }\n",
	})

	_, err := Generate(context.Background(), Options{Dir: dir})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Generate() error = %v, want ErrUnsupported", err)
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error type = %T, want *issue.ActionableError", err)
	}
	if ae.IssueID != issue.UnsupportedExportId {
		t.Errorf("IssueID = %d, want UnsupportedExportId", ae.IssueID)
	}

	var unsupported *UnsupportedError
	if !errors.As(err, &unsupported) || len(unsupported.Findings) != 1 {
		t.Fatalf("error = %v, want one unsupported finding", err)
	}
	if msg := unsupported.Findings[0].Message; !strings.HasPrefix(msg, exportcheck.UnsupportedMessage) {
		t.Errorf("finding message = %q, want prefix %q", msg, exportcheck.UnsupportedMessage)
	}

	// Nothing is written when the scan fails.
	if _, statErr := os.Stat(filepath.Join(dir, "shapes", DefaultOutputFile)); !os.IsNotExist(statErr) {
		t.Error("registration written despite an unsupported declaration")
	}
}

func TestGenerate_Collision(t *testing.T) {
	dir := newModule(t, map[string]string{"shapes/shapes.go": shapesSrc})

	table := exportcheck.NewTable()
	if err := table.Claim(exportcheck.Descriptor{
		Name:       "Circle",
		Ident:      "Circle",
		ModulePath: "example.com/demo/shapes",
		FullPath:   "example.com/demo/shapes.Circle",
		Kind:       exports.KindFunc,
	}); err != nil {
		t.Fatalf("Claim() error: %v", err)
	}

	_, err := Generate(context.Background(), Options{Dir: dir, Table: table})
	if !errors.Is(err, exportcheck.ErrCollision) {
		t.Fatalf("Generate() error = %v, want ErrCollision", err)
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.ExportCollisionId {
		t.Errorf("error = %#v, want ActionableError with ExportCollisionId", err)
	}
}

func TestGenerate_LoadError(t *testing.T) {
	dir := newModule(t, map[string]string{
		"broken/broken.go": "package broken\n\nfunc F() int { return \"x\" }\n",
	})

	_, err := Generate(context.Background(), Options{Dir: dir})
	if !errors.Is(err, ErrPackageLoad) {
		t.Fatalf("Generate() error = %v, want ErrPackageLoad", err)
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.PackageLoadFailedId {
		t.Errorf("error = %#v, want ActionableError with PackageLoadFailedId", err)
	}
}

func TestScan_SortedByPath(t *testing.T) {
	dir := newModule(t, map[string]string{
		"zeta/zeta.go":   "package zeta\n\n//barexp:export\nfunc Z() {}\n",
		"alpha/alpha.go": "package alpha\n\n//barexp:export\ntype A struct{}\n",
	})

	pkgs, err := Scan(context.Background(), Options{Dir: dir, Patterns: []string{"./..."}})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	var paths []string
	for _, p := range pkgs {
		paths = append(paths, p.Path)
	}
	if diff := cmp.Diff([]string{"example.com/demo/alpha", "example.com/demo/zeta"}, paths); diff != "" {
		t.Errorf("package order mismatch (-want +got):\n%s", diff)
	}
	for _, p := range pkgs {
		if _, err := os.Stat(filepath.Join(p.Dir, DefaultOutputFile)); !os.IsNotExist(err) {
			t.Errorf("Scan wrote into %s", p.Dir)
		}
	}
}
