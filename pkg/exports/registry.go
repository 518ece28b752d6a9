// SPDX-License-Identifier: MPL-2.0

package exports

import (
	"iter"
	"log/slog"
	"slices"
	"sync"
)

var defaultRegistry = NewRegistry()

// Registry is a Collection of ExportItem deduplicated by composite key.
type Registry struct {
	items Collection[ExportItem]

	mu    sync.Mutex
	byKey map[string]ExportItem
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]ExportItem)}
}

// Submit records item. Re-submitting an identical item is a no-op; a
// different item under the same key panics with a *ConflictError.
func (r *Registry) Submit(item ExportItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := item.Key()
	if existing, ok := r.byKey[key]; ok {
		if existing.sameDeclaration(item) {
			return
		}
		panic(&ConflictError{Key: key, Existing: existing, Incoming: item})
	}

	r.items.Submit(item)
	r.byKey[key] = item
	slog.Debug("export registered", "key", key, "kind", item.Kind)
}

// Iterate returns a restartable sequence over every registered item in
// registration order. The first call freezes the registry.
func (r *Registry) Iterate() iter.Seq[ExportItem] {
	return r.items.Iter()
}

// All returns a copy of every registered item.
func (r *Registry) All() []ExportItem {
	return slices.Collect(r.Iterate())
}

// Len returns the number of registered items.
func (r *Registry) Len() int {
	return r.items.Len()
}

// Lookup returns the item with the given full path.
func (r *Registry) Lookup(fullPath string) (ExportItem, bool) {
	for item := range r.Iterate() {
		if item.FullPath == fullPath {
			return item, true
		}
	}
	return ExportItem{}, false
}

// Submit records item in the process-wide registry.
func Submit(item ExportItem) { defaultRegistry.Submit(item) }

// Iterate walks the process-wide registry.
func Iterate() iter.Seq[ExportItem] { return defaultRegistry.Iterate() }

// All returns every item of the process-wide registry.
func All() []ExportItem { return defaultRegistry.All() }

// Lookup finds an item of the process-wide registry by full path.
func Lookup(fullPath string) (ExportItem, bool) { return defaultRegistry.Lookup(fullPath) }
