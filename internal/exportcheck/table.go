// SPDX-License-Identifier: MPL-2.0

package exportcheck

import (
	"errors"
	"fmt"
	"sync"
)

// ErrCollision is the sentinel error wrapped by CollisionError.
var ErrCollision = errors.New("export collision")

var (
	globalOnce  sync.Once
	globalTable *Table
)

type (
	// Table maps composite keys to the descriptor that claimed them. It is
	// safe for concurrent use.
	Table struct {
		mu      sync.Mutex
		entries map[string]Descriptor
	}

	// CollisionError reports a composite key claimed by two different
	// declarations.
	CollisionError struct {
		Key      string
		Existing Descriptor
		Incoming Descriptor
	}
)

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Descriptor)}
}

// Global returns the process-wide table shared by every analysis pass of
// one run. It is created on first use.
func Global() *Table {
	globalOnce.Do(func() { globalTable = NewTable() })
	return globalTable
}

// Claim records d under its composite key. Claiming the same declaration
// again refreshes the entry; a different declaration under a taken key
// returns a *CollisionError.
func (t *Table) Claim(d Descriptor) error {
	key := d.Key()

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.entries[key]; ok && !existing.Equal(d) {
		return &CollisionError{Key: key, Existing: existing, Incoming: d}
	}
	t.entries[key] = d
	return nil
}

// Lookup returns the descriptor claimed under key.
func (t *Table) Lookup(key string) (Descriptor, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	d, ok := t.entries[key]
	return d, ok
}

// Len returns the number of claimed keys.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}

// Reset forgets every claim.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	clear(t.entries)
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return fmt.Sprintf("export collision: %s (%s) is already exported at %s",
		e.Key, e.Incoming.Kind, e.Existing.Position)
}

// Unwrap returns ErrCollision for errors.Is() compatibility.
func (e *CollisionError) Unwrap() error { return ErrCollision }
