// Package store holds the in-memory entity collections that back the UI.
// It is the single owner of all loaded records: accessors return copies, and
// every mutation replaces the stored record wholesale so consumers relying on
// value identity for change detection behave correctly.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/pawhaven/canine-care/internal/core/domain"
)

// Collection is one ordered list of records of a single entity family.
// Insertion order is preserved for added records; ReplaceAll keeps the order
// handed to it (the gateways return reverse-chronological rows).
type Collection[T domain.Record[T]] struct {
	mu    sync.RWMutex
	items []T
	now   func() time.Time
}

func NewCollection[T domain.Record[T]]() *Collection[T] {
	return &Collection[T]{now: time.Now}
}

// Kind returns the entity family's short name.
func (c *Collection[T]) Kind() string {
	var zero T
	return zero.Kind()
}

// List returns a copy of the collection in storage order.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.items {
		if e.Meta().ID == id {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// ByParent returns all records whose ParentID matches, in storage order.
func (c *Collection[T]) ByParent(parentID string) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0)
	for _, e := range c.items {
		if e.ParentID() == parentID {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of stored records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Add appends a record. A locally unique identifier of the form
// "<kind>-<unix-milli>" is assigned only when the caller supplied none, and
// zero timestamps are filled in. The stored record is returned.
func (c *Collection[T]) Add(e T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	m := e.Meta()
	if m.ID == "" {
		m.ID = c.nextLocalID(now)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
	e = e.WithMeta(m)
	c.items = append(c.items, e)
	return e
}

// Replace swaps the record with the given id for a new value at the same
// position, refreshing UpdatedAt. It reports whether the id was present; the
// collection length never changes.
func (c *Collection[T]) Replace(id string, e T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, cur := range c.items {
		if cur.Meta().ID != id {
			continue
		}
		m := e.Meta()
		m.ID = id
		if m.CreatedAt.IsZero() {
			m.CreatedAt = cur.Meta().CreatedAt
		}
		m.UpdatedAt = c.now()
		e = e.WithMeta(m)
		c.items[i] = e
		return e, true
	}
	var zero T
	return zero, false
}

// Tag swaps the stored record for a copy carrying the given sync state.
// Unlike Replace it leaves UpdatedAt alone: sync-state changes are
// bookkeeping, not edits.
func (c *Collection[T]) Tag(id string, s domain.SyncState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, e := range c.items {
		if e.Meta().ID != id {
			continue
		}
		m := e.Meta()
		m.SyncState = s
		c.items[i] = e.WithMeta(m)
		return true
	}
	return false
}

// Remove deletes the record with the given id. Removing an absent id is a
// no-op, so deletes stay idempotent.
func (c *Collection[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, e := range c.items {
		if e.Meta().ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveByParent deletes every record scoped to parentID and returns the
// removed ids.
func (c *Collection[T]) RemoveByParent(parentID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := make([]string, 0)
	kept := c.items[:0]
	for _, e := range c.items {
		if e.ParentID() == parentID {
			removed = append(removed, e.Meta().ID)
			continue
		}
		kept = append(kept, e)
	}
	c.items = kept
	return removed
}

// ReplaceAll swaps the entire collection for the given rows, preserving their
// order. Used by the scoped loader; never merges with previous content.
func (c *Collection[T]) ReplaceAll(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make([]T, len(items))
	copy(c.items, items)
}

// nextLocalID generates "<kind>-<unix-milli>", bumping the millisecond until
// the id is unused. Callers hold the write lock.
func (c *Collection[T]) nextLocalID(now time.Time) string {
	var zero T
	ms := now.UnixMilli()
	for {
		id := fmt.Sprintf("%s-%d", zero.Kind(), ms)
		if !c.containsLocked(id) {
			return id
		}
		ms++
	}
}

func (c *Collection[T]) containsLocked(id string) bool {
	for _, e := range c.items {
		if e.Meta().ID == id {
			return true
		}
	}
	return false
}
