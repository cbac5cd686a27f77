package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/ports"
	"github.com/pawhaven/canine-care/internal/store"
)

// Family exposes the scoped mutation surface for one dependent record family.
// Every operation enforces the actor's visibility: administrators reach any
// record, owners only records hanging off their own canines.
type Family[T domain.Record[T]] struct {
	col     *store.Collection[T]
	canines *store.Collection[domain.CanineProfile]
	mut     *mutator[T]
}

func newFamily[T domain.Record[T]](gw ports.Gateway[T], col *store.Collection[T], canines *store.Collection[domain.CanineProfile], retry RetryQueue, log zerolog.Logger) *Family[T] {
	return &Family[T]{
		col:     col,
		canines: canines,
		mut:     newMutator[T](gw, col, retry, log),
	}
}

// List returns every record visible to the actor, in storage order.
func (f *Family[T]) List(actor *domain.Owner) []T {
	if actor == nil || actor.IsAdmin() {
		return f.col.List()
	}
	owned := f.ownedCanineIDs(actor)
	out := make([]T, 0)
	for _, e := range f.col.List() {
		if _, ok := owned[e.ParentID()]; ok {
			out = append(out, e)
		}
	}
	return out
}

// ByCanine returns the family's records for one canine after checking the
// actor may see it.
func (f *Family[T]) ByCanine(actor *domain.Owner, canineID string) ([]T, error) {
	if err := f.checkCanine(actor, canineID); err != nil {
		return nil, err
	}
	return f.col.ByParent(canineID), nil
}

// Get returns a single visible record.
func (f *Family[T]) Get(actor *domain.Owner, id string) (T, error) {
	var zero T
	e, ok := f.col.Get(id)
	if !ok {
		return zero, domain.ErrNotFound
	}
	if err := f.checkCanine(actor, e.ParentID()); err != nil {
		return zero, err
	}
	return e, nil
}

// Create validates the parent reference, then runs the fallback mutator:
// the record lands in the store whether or not the remote backend agreed.
func (f *Family[T]) Create(ctx context.Context, actor *domain.Owner, e T) (T, error) {
	var zero T
	if e.ParentID() == "" {
		return zero, fmt.Errorf("%w: canine_id is required", domain.ErrValidation)
	}
	if err := f.checkCanine(actor, e.ParentID()); err != nil {
		return zero, err
	}
	return f.mut.create(ctx, e), nil
}

// Update patches a visible record. The collection length never changes.
func (f *Family[T]) Update(ctx context.Context, actor *domain.Owner, id string, patch func(T) T) (T, error) {
	var zero T
	current, err := f.Get(actor, id)
	if err != nil {
		return zero, err
	}

	patched := patch(current)
	if patched.ParentID() != current.ParentID() {
		return zero, fmt.Errorf("%w: canine_id cannot change", domain.ErrValidation)
	}
	return f.mut.update(ctx, id, patched)
}

// Delete removes a record everywhere it can. Deleting an unknown id is a
// no-op.
func (f *Family[T]) Delete(ctx context.Context, actor *domain.Owner, id string) error {
	e, ok := f.col.Get(id)
	if !ok {
		return nil
	}
	if err := f.checkCanine(actor, e.ParentID()); err != nil {
		return err
	}
	f.mut.delete(ctx, id)
	return nil
}

func (f *Family[T]) ownedCanineIDs(actor *domain.Owner) map[string]struct{} {
	owned := make(map[string]struct{})
	for _, c := range f.canines.ByParent(actor.ID) {
		owned[c.ID] = struct{}{}
	}
	return owned
}

func (f *Family[T]) checkCanine(actor *domain.Owner, canineID string) error {
	c, ok := f.canines.Get(canineID)
	if !ok {
		return fmt.Errorf("%w: canine %s", domain.ErrNotFound, canineID)
	}
	if actor != nil && !actor.IsAdmin() && c.OwnerID != actor.ID {
		return domain.ErrForbidden
	}
	return nil
}

// SharedFamily exposes the mutation surface for records not owned by a
// canine. They are visible to every actor; deletion never cascades.
type SharedFamily[T domain.Record[T]] struct {
	col *store.Collection[T]
	mut *mutator[T]

	// afterDelete clears soft references on dependent records once a shared
	// record is gone.
	afterDelete func(ctx context.Context, id string)
}

func newSharedFamily[T domain.Record[T]](gw ports.Gateway[T], col *store.Collection[T], retry RetryQueue, log zerolog.Logger) *SharedFamily[T] {
	return &SharedFamily[T]{
		col: col,
		mut: newMutator[T](gw, col, retry, log),
	}
}

func (f *SharedFamily[T]) List() []T { return f.col.List() }

func (f *SharedFamily[T]) Get(id string) (T, error) {
	e, ok := f.col.Get(id)
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	return e, nil
}

func (f *SharedFamily[T]) Create(ctx context.Context, e T) T {
	return f.mut.create(ctx, e)
}

func (f *SharedFamily[T]) Update(ctx context.Context, id string, patch func(T) T) (T, error) {
	current, ok := f.col.Get(id)
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	return f.mut.update(ctx, id, patch(current))
}

func (f *SharedFamily[T]) Delete(ctx context.Context, id string) {
	_, ok := f.col.Get(id)
	f.mut.delete(ctx, id)
	if ok && f.afterDelete != nil {
		f.afterDelete(ctx, id)
	}
}
