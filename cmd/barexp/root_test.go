// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/barexp/barexp/internal/config"
	"github.com/barexp/barexp/internal/issue"
	"github.com/barexp/barexp/internal/testutil"
)

// runCLI executes the command tree with an isolated configuration lookup.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := NewApp(Dependencies{
		Stdout: &out,
		Stderr: &errOut,
		LoadOptions: config.LoadOptions{
			ConfigDirPath: t.TempDir(),
			BaseDir:       t.TempDir(),
		},
	})

	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.
	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2026-01-15T10:00:00Z"
	if got, want := getVersionString(), "v1.2.3 (commit: abc1234, built: 2026-01-15T10:00:00Z)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}

	Version = "dev"
	if got, want := getVersionString(), "dev (built from source)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}
}

func TestGen(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"a.rs":             "",
		"services/auth.rs": "",
	})

	stdout, _, err := runCLI(t, "gen", root)
	if err != nil {
		t.Fatalf("gen error: %v", err)
	}

	if got := testutil.ReadFile(t, filepath.Join(root, "services", "mod.rs")); !strings.Contains(got, "pub mod auth;") {
		t.Errorf("services/mod.rs = %q, want it to declare auth", got)
	}
	if _, err := os.Stat(filepath.Join(root, "mod.rs")); !os.IsNotExist(err) {
		t.Error("root aggregator written without --include-root")
	}
	for _, want := range []string{"cargo:rerun-if-changed=" + root, "wrote", filepath.Join(root, "services", "mod.rs")} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestGen_IncludeRootFlag(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"lib.rs": "", "a.rs": ""})

	if _, _, err := runCLI(t, "gen", "--include-root", root); err != nil {
		t.Fatalf("gen error: %v", err)
	}
	got := testutil.ReadFile(t, filepath.Join(root, "mod.rs"))
	if !strings.Contains(got, "pub mod a;") || !strings.Contains(got, "pub mod lib;") {
		t.Errorf("root mod.rs = %q, want a and lib", got)
	}
}

func TestGen_Check(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"net/tcp.rs": ""})

	_, _, err := runCLI(t, "gen", "--check", root)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != ExitOutdated {
		t.Fatalf("gen --check error = %v, want ExitError with code %d", err, ExitOutdated)
	}
	if _, statErr := os.Stat(filepath.Join(root, "net", "mod.rs")); !os.IsNotExist(statErr) {
		t.Error("gen --check wrote an aggregator")
	}

	if _, _, err := runCLI(t, "gen", root); err != nil {
		t.Fatalf("gen error: %v", err)
	}
	if _, _, err := runCLI(t, "gen", "--check", root); err != nil {
		t.Errorf("gen --check after gen = %v, want nil", err)
	}
}

func TestGen_RootFromConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := filepath.Join(dir, "code")
	testutil.WriteTree(t, dir, map[string]string{
		"code/util/io.rs": "",
		"barexp.cue":      "root: " + quote(root) + "\nemit_directive: false\n",
	})

	stdout, _, err := runCLI(t, "--config", filepath.Join(dir, "barexp.cue"), "gen")
	if err != nil {
		t.Fatalf("gen error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "util", "mod.rs")); err != nil {
		t.Errorf("util/mod.rs not written: %v", err)
	}
	if strings.Contains(stdout, "cargo:rerun-if-changed=") {
		t.Errorf("directive printed although emit_directive is false:\n%s", stdout)
	}
}

func TestGen_MissingRoot(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "gen", filepath.Join(t.TempDir(), "missing"))

	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.SourceRootNotFoundId {
		t.Errorf("gen error = %v, want SourceRootNotFoundId", err)
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	for _, want := range []string{"built-in defaults", `source_ext: ".rs"`, `aggregator_name: "mod.rs"`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestConfigInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "barexp.cue")

	if _, _, err := runCLI(t, "config", "init", path); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if _, _, err := runCLI(t, "config", "init", path); !errors.Is(err, config.ErrConfigExists) {
		t.Errorf("second config init error = %v, want ErrConfigExists", err)
	}

	// A broken file can still be replaced.
	if err := os.WriteFile(path, []byte("sort: "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, "--config", path, "config", "init", "--force", path); err != nil {
		t.Errorf("config init --force error: %v", err)
	}

	stdout, _, err := runCLI(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	if !strings.Contains(stdout, path) {
		t.Errorf("config show does not name the source file:\n%s", stdout)
	}
}

func TestConfigLoadError(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.cue"), "gen")

	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.ConfigLoadFailedId {
		t.Errorf("error = %v, want ConfigLoadFailedId", err)
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
}
