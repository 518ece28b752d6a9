// SPDX-License-Identifier: MPL-2.0

package modgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// runLock serialises concurrent barexp processes scanning the same root
// (parallel build scripts, watch mode next to a manual run).
//
// The lock file lives in $XDG_RUNTIME_DIR, falling back to os.TempDir(), so
// the scanned tree is never touched. An orphaned zero-byte file is harmless:
// the kernel drops the lock when the descriptor closes.
type runLock struct {
	fl *flock.Flock
}

// LockPath returns the lock file used for scans of root. Every spelling of
// the same directory (relative, absolute, through a symlink) maps to one path.
func LockPath(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	sum := sha256.Sum256([]byte(abs))
	name := "barexp-" + hex.EncodeToString(sum[:8]) + ".lock"

	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, name), nil
}

// acquireLock blocks until the exclusive lock on root is held or ctx ends.
func acquireLock(ctx context.Context, root string) (*runLock, error) {
	path, err := LockPath(root)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", root, err)
	}
	fl := flock.New(path)

	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: not acquired", path)
	}

	return &runLock{fl: fl}, nil
}

// release unlocks the file. It is safe to call on a nil lock.
func (l *runLock) release() {
	if l == nil || l.fl == nil {
		return
	}
	if err := l.fl.Unlock(); err != nil {
		slog.Debug("run lock unlock failed", "error", err)
	}
	l.fl = nil
}
