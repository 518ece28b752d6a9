// SPDX-License-Identifier: MPL-2.0

package exports

import (
	"errors"
	"iter"
	"slices"
	"sync"
)

// ErrFrozen is the panic value wrapped when Submit runs after the first read.
var ErrFrozen = errors.New("collection already read; submit from init functions only")

// Collection is an append-only set of items populated during package
// initialisation and read afterwards. The zero value is ready to use.
type Collection[T any] struct {
	mu     sync.Mutex
	items  []T
	frozen bool

	once     sync.Once
	snapshot []T
}

// Submit appends item. It panics once the collection has been read.
func (c *Collection[T]) Submit(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		panic(ErrFrozen)
	}
	c.items = append(c.items, item)
}

// Iter freezes the collection on first use and returns a sequence over the
// frozen items. Each call starts a fresh traversal.
func (c *Collection[T]) Iter() iter.Seq[T] {
	c.freeze()
	return slices.Values(c.snapshot)
}

// Len returns the number of items, freezing the collection.
func (c *Collection[T]) Len() int {
	c.freeze()
	return len(c.snapshot)
}

func (c *Collection[T]) freeze() {
	c.once.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.frozen = true
		c.snapshot = slices.Clip(c.items)
	})
}
