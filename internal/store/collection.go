// Package store caches the last list fetched for one entity type.
package store

import "sync"

// Collection is replaced wholesale on every reload and never patched in place.
type Collection[E any] struct {
	mu     sync.RWMutex
	items  []E
	loaded bool
	idOf   func(E) string
}

func NewCollection[E any](idOf func(E) string) *Collection[E] {
	return &Collection[E]{idOf: idOf}
}

func (c *Collection[E]) Replace(items []E) {
	cp := append(make([]E, 0, len(items)), items...)
	c.mu.Lock()
	c.items = cp
	c.loaded = true
	c.mu.Unlock()
}

// Items returns a copy in collaborator order.
func (c *Collection[E]) Items() []E {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(make([]E, 0, len(c.items)), c.items...)
}

func (c *Collection[E]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Loaded reports whether any fetch has succeeded yet.
func (c *Collection[E]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Collection[E]) Find(id string) (E, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if c.idOf(it) == id {
			return it, true
		}
	}
	var zero E
	return zero, false
}
