// SPDX-License-Identifier: MPL-2.0

// Package watch reruns a callback after the module structure of a source
// tree changes.
//
// Only structural events count: creating, removing or renaming a file or
// directory. Content writes leave aggregator output unchanged and are
// dropped, as are events on the files the callback writes itself. Events
// within the debounce window are coalesced into one callback.
package watch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// structuralOps are the fsnotify operations that can change module discovery.
const structuralOps = fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// defaultIgnores skips hidden entries, matching the aggregator, and editor
// backup files.
var defaultIgnores = []string{
	"**/.*",
	"**/.*/**",
	"**/*~",
	"**/*.swp",
	"**/*.swo",
}

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// Watcher monitors a source tree and fires a debounced callback. Run must be
// called exactly once.
type Watcher struct {
	cfg       Config
	fsw       *fsnotify.Watcher
	ignores   []string
	generated map[string]bool
	debounce  time.Duration
	root      string
	started   atomic.Bool
}

// New validates cfg, resolves Root and registers every non-ignored
// directory below it.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		root = wd
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	generated := make(map[string]bool, len(cfg.Generated))
	for _, name := range cfg.Generated {
		generated[name] = true
	}

	w := &Watcher{
		cfg:       cfg,
		fsw:       fsw,
		ignores:   slices.Concat(defaultIgnores, cfg.Ignore),
		generated: generated,
		debounce:  cmp.Or(cfg.Debounce, DefaultDebounce),
		root:      absRoot,
	}

	if err := w.addTree(absRoot); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			slog.Warn("watch: close after init failure", "error", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Root returns the absolute watched directory.
func (w *Watcher) Root() string { return w.root }

// Run blocks until ctx is canceled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks.
//
// A callback that outlasts the debounce window is never run concurrently
// with itself; events arriving meanwhile are kept and delivered to the
// next invocation.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			slog.Debug("watch: previous run still in progress, retrying")
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		slog.Debug("watch: change detected", "paths", len(changed))
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				slog.Error("watch: rerun failed", "error", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			slog.Warn("watch: close fsnotify", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}

			rel, relevant := w.relevant(evt)
			if !relevant {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddTree(evt.Name)
			}

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			slog.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// relevant filters evt and returns its slash-separated path relative to
// the root.
func (w *Watcher) relevant(evt fsnotify.Event) (string, bool) {
	if evt.Op&structuralOps == 0 {
		return "", false
	}
	if w.generated[filepath.Base(evt.Name)] {
		return "", false
	}

	rel, err := filepath.Rel(w.root, evt.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if w.isIgnored(rel) {
		return "", false
	}
	return rel, true
}

// addTree registers dir and every non-ignored directory below it.
// Unreadable directories are skipped.
func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			slog.Debug("watch: skipping inaccessible path", "path", path, "error", walkErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		if path != w.root {
			rel, relErr := filepath.Rel(w.root, path)
			if relErr != nil || w.isIgnored(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
		}

		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", dir, err)
	}
	return nil
}

// maybeAddTree extends the watch to a directory created after startup.
// Files created inside it before the watch was added are picked up by the
// rerun the creation event itself triggers.
func (w *Watcher) maybeAddTree(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		slog.Warn("watch: add new directory", "path", path, "error", err)
	}
}

func (w *Watcher) isIgnored(rel string) bool {
	for _, pat := range w.ignores {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}
