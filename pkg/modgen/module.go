// SPDX-License-Identifier: MPL-2.0

package modgen

import (
	"cmp"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Module is one discovered child module of a directory.
type Module struct {
	// Name is the file stem (file modules) or directory name (directory modules).
	Name string
	// Path is the location of the file or directory on disk.
	Path string
	// IsFile reports whether the module comes from a single source file.
	IsFile bool
}

// Qualifies reports whether dir has at least one direct child that is a
// source file other than the aggregator, or a visible subdirectory.
// An unreadable directory does not qualify.
func (g *Generator) Qualifies(dir string) bool {
	ok, err := g.qualifies(dir)
	return err == nil && ok
}

func (g *Generator) qualifies(dir string) (bool, error) {
	entries, err := g.readDir(dir)
	if err != nil {
		return false, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if g.isIgnored(name) {
			continue
		}

		isDir, isFile := g.entryKind(dir, entry)
		switch {
		case isDir:
			return true, nil
		case isFile && g.isSourceFile(name) && name != g.opts.AggregatorName:
			return true, nil
		}
	}

	return false, nil
}

// CollectModules lists the modules contributed by the direct children of dir.
// Source files become file modules; subdirectories become modules only when
// they hold the aggregator file or one of the entry files. Deeper levels are
// not visited.
func (g *Generator) CollectModules(dir string) ([]Module, error) {
	return g.collectModules(dir, nil)
}

// collectModules consults plan (directory -> holds an aggregator after this
// run) before the filesystem, so dry-runs and prunes see the same tree a real
// run would leave behind.
func (g *Generator) collectModules(dir string, plan map[string]bool) ([]Module, error) {
	entries, err := g.readDir(dir)
	if err != nil {
		return nil, err
	}

	var modules []Module
	for _, entry := range entries {
		name := entry.Name()
		if g.isIgnored(name) || name == g.opts.AggregatorName {
			continue
		}

		path := filepath.Join(dir, name)
		isDir, isFile := g.entryKind(dir, entry)

		switch {
		case isFile && g.isSourceFile(name):
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			if stem == "" {
				continue
			}
			modules = append(modules, Module{Name: stem, Path: path, IsFile: true})
		case isDir && g.isModuleRoot(path, plan):
			modules = append(modules, Module{Name: name, Path: path})
		}
	}

	if g.opts.Sort {
		slices.SortStableFunc(modules, func(a, b Module) int {
			return cmp.Compare(a.Name, b.Name)
		})
	}

	return modules, nil
}

// isIgnored reports hidden and excluded entry names.
func (g *Generator) isIgnored(name string) bool {
	if g.opts.HiddenPrefix != "" && strings.HasPrefix(name, g.opts.HiddenPrefix) {
		return true
	}
	return slices.Contains(g.opts.Excluded, name)
}

func (g *Generator) isSourceFile(name string) bool {
	return filepath.Ext(name) == g.opts.SourceExt
}

// isModuleRoot reports whether dir holds the aggregator or an entry file.
func (g *Generator) isModuleRoot(dir string, plan map[string]bool) bool {
	planned, inPlan := plan[dir]
	if inPlan && planned {
		return true
	}

	candidates := append([]string{g.opts.AggregatorName}, g.opts.EntryNames...)
	for _, name := range candidates {
		if name == "" {
			continue
		}
		// A pruned aggregator no longer counts, entry files still do.
		if inPlan && name == g.opts.AggregatorName {
			continue
		}
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// entryKind classifies an entry, following symlinks the way a stat would.
func (g *Generator) entryKind(dir string, entry fs.DirEntry) (isDir, isFile bool) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), entry.Type().IsRegular()
	}

	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	if err != nil {
		return false, false
	}
	return info.IsDir(), info.Mode().IsRegular()
}

// readDir lists dir. os.ReadDir sorts by name; with sorting disabled the raw
// directory order is kept.
func (g *Generator) readDir(dir string) ([]fs.DirEntry, error) {
	if g.opts.Sort {
		return os.ReadDir(dir)
	}

	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.ReadDir(-1)
}
