package repository

import (
	"fmt"
	"sync"

	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

// Identified is any record addressable by ID.
type Identified interface {
	RecordID() string
}

// Collection is an in-memory record store holding an immutable snapshot.
// Every command builds a new slice and swaps it in, so snapshots handed out
// earlier are never modified.
type Collection[T Identified] struct {
	name  string
	clone func(T) T

	mu      sync.RWMutex
	items   []T
	version uint64
}

// NewCollection creates a collection seeded with a copy of seed. clone deep-copies
// records carrying reference fields; nil means a plain value copy.
func NewCollection[T Identified](name string, seed []T, clone func(T) T) *Collection[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	c := &Collection[T]{name: name, clone: clone}
	c.items = c.copyOf(seed)
	return c
}

// Snapshot returns a copy of the current records.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyOf(c.items)
}

// Version increments on every successful command.
func (c *Collection[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Find returns a copy of the record with id.
func (c *Collection[T]) Find(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if idx := c.indexOf(id); idx >= 0 {
		return c.clone(c.items[idx]), nil
	}
	var zero T
	return zero, c.notFound(id)
}

// Add appends item and returns the new snapshot. Duplicate IDs conflict.
func (c *Collection[T]) Add(item T) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item.RecordID() == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s id is required", c.name))
	}
	if c.indexOf(item.RecordID()) >= 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%s %s already exists", c.name, item.RecordID()))
	}
	next := make([]T, len(c.items), len(c.items)+1)
	copy(next, c.items)
	next = append(next, c.clone(item))
	c.swap(next)
	return c.copyOf(next), nil
}

// Update applies mutate to the record with id and returns the updated record and new snapshot.
// mutate receives a copy; returning an error aborts the update. The ID cannot change.
func (c *Collection[T]) Update(id string, mutate func(T) (T, error)) (T, []T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	idx := c.indexOf(id)
	if idx < 0 {
		return zero, nil, c.notFound(id)
	}
	updated, err := mutate(c.clone(c.items[idx]))
	if err != nil {
		return zero, nil, err
	}
	if updated.RecordID() != id {
		return zero, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s id cannot change", c.name))
	}
	next := make([]T, len(c.items))
	copy(next, c.items)
	next[idx] = c.clone(updated)
	c.swap(next)
	return c.clone(updated), c.copyOf(next), nil
}

// Remove deletes the record with id and returns the new snapshot.
func (c *Collection[T]) Remove(id string) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return nil, c.notFound(id)
	}
	next := make([]T, 0, len(c.items)-1)
	next = append(next, c.items[:idx]...)
	next = append(next, c.items[idx+1:]...)
	c.swap(next)
	return c.copyOf(next), nil
}

func (c *Collection[T]) swap(next []T) {
	c.items = next
	c.version++
}

func (c *Collection[T]) indexOf(id string) int {
	for i, item := range c.items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) copyOf(items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = c.clone(item)
	}
	return out
}

func (c *Collection[T]) notFound(id string) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %s not found", c.name, id))
}
