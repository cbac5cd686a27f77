package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawhaven/canine-care/internal/api/metrics"
	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/ports"
	"github.com/pawhaven/canine-care/internal/store"
)

// RetryQueue re-attempts remote mutations that fell back to local state.
// A nil RetryQueue disables reconciliation; records then stay local-only.
type RetryQueue interface {
	EnqueueRetry(kind, entityID, op string, run func(ctx context.Context) error)
}

// mutator wraps every remote mutation for one entity family. Whatever the
// remote backend does, after create/update/delete return the local store
// reflects the intended change: remote failures degrade to optimistic local
// mutations tagged with a sync state and queued for reconciliation.
//
// Each outgoing mutation carries a monotonic per-entity sequence number, and
// a resolution whose sequence is lower than one already applied is discarded.
// Concurrent mutations on one record therefore resolve last-issued-wins, not
// last-resolved-wins.
type mutator[T domain.Record[T]] struct {
	gw    ports.Gateway[T]
	col   *store.Collection[T]
	retry RetryQueue
	log   zerolog.Logger
	now   func() time.Time

	mu      sync.Mutex
	issued  map[string]uint64
	applied map[string]uint64
}

func newMutator[T domain.Record[T]](gw ports.Gateway[T], col *store.Collection[T], retry RetryQueue, log zerolog.Logger) *mutator[T] {
	return &mutator[T]{
		gw:      gw,
		col:     col,
		retry:   retry,
		log:     log,
		now:     time.Now,
		issued:  make(map[string]uint64),
		applied: make(map[string]uint64),
	}
}

func (m *mutator[T]) kind() string {
	var zero T
	return zero.Kind()
}

// create attempts the remote insert and stores the confirmed row. On any
// remote failure it synthesizes identity and timestamps locally, stores the
// record anyway, and enqueues reconciliation. The caller never sees an error
// on this path.
func (m *mutator[T]) create(ctx context.Context, e T) T {
	now := m.now()
	meta := e.Meta()
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = now
	}
	meta.UpdatedAt = now
	e = e.WithMeta(meta)

	created, err := m.gw.Create(ctx, e)
	if err == nil && created.Meta().ID != "" {
		return m.col.Add(created)
	}

	metrics.FallbackActivationsTotal.WithLabelValues(m.kind(), "create").Inc()
	m.log.Warn().Err(err).Str("kind", m.kind()).Msg("remote create failed, storing locally")

	meta.SyncState = domain.SyncStateLocalOnly
	stored := m.col.Add(e.WithMeta(meta))
	m.enqueueUpsert(stored.Meta().ID, "create")
	return stored
}

// update attempts the remote replace with the fully patched record. On remote
// failure the patch is applied over the stored record with a refreshed
// UpdatedAt. Returns domain.ErrNotFound when the id is in neither place.
func (m *mutator[T]) update(ctx context.Context, id string, patched T) (T, error) {
	var zero T
	seq := m.nextSeq(id)

	confirmed, err := m.gw.Update(ctx, id, patched)
	if err == nil {
		if !m.applyIfNewer(id, seq) {
			cur, _ := m.col.Get(id)
			return cur, nil
		}
		stored, ok := m.col.Replace(id, confirmed)
		if !ok {
			// Deleted locally while the call was in flight.
			return zero, domain.ErrNotFound
		}
		return stored, nil
	}

	if errors.Is(err, domain.ErrNotFound) {
		// Remote never saw this record; keep going, the local copy rules.
		if _, ok := m.col.Get(id); !ok {
			return zero, domain.ErrNotFound
		}
	}

	metrics.FallbackActivationsTotal.WithLabelValues(m.kind(), "update").Inc()
	m.log.Warn().Err(err).Str("kind", m.kind()).Str("id", id).Msg("remote update failed, patching locally")

	if !m.applyIfNewer(id, seq) {
		cur, _ := m.col.Get(id)
		return cur, nil
	}

	meta := patched.Meta()
	meta.SyncState = domain.SyncStateLocalOnly
	stored, ok := m.col.Replace(id, patched.WithMeta(meta))
	if !ok {
		return zero, domain.ErrNotFound
	}
	m.enqueueUpsert(id, "update")
	return stored, nil
}

// delete attempts the remote delete and removes the record locally no matter
// what. A missing id is treated as already satisfied.
func (m *mutator[T]) delete(ctx context.Context, id string) {
	_, err := m.gw.Delete(ctx, id)
	removed := m.col.Remove(id)
	m.markDeleted(id)

	if err == nil || !removed {
		return
	}

	metrics.FallbackActivationsTotal.WithLabelValues(m.kind(), "delete").Inc()
	m.log.Warn().Err(err).Str("kind", m.kind()).Str("id", id).Msg("remote delete failed, removed locally")
	m.enqueueDelete(id)
}

// enqueueUpsert schedules reconciliation of a locally created or patched
// record. The task re-reads the store so it always pushes the latest local
// value; a record deleted in the meantime is skipped.
func (m *mutator[T]) enqueueUpsert(id, op string) {
	if m.retry == nil {
		return
	}
	m.col.Tag(id, domain.SyncStatePending)
	m.retry.EnqueueRetry(m.kind(), id, op, func(ctx context.Context) error {
		current, ok := m.col.Get(id)
		if !ok {
			return nil
		}
		confirmed, err := m.gw.Update(ctx, id, current)
		if errors.Is(err, domain.ErrNotFound) {
			confirmed, err = m.gw.Create(ctx, current)
		}
		if err != nil {
			return err
		}
		m.col.Tag(confirmed.Meta().ID, domain.SyncStateSynced)
		return nil
	})
}

func (m *mutator[T]) enqueueDelete(id string) {
	if m.retry == nil {
		return
	}
	m.retry.EnqueueRetry(m.kind(), id, "delete", func(ctx context.Context) error {
		_, err := m.gw.Delete(ctx, id)
		return err
	})
}

func (m *mutator[T]) nextSeq(id string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued[id]++
	return m.issued[id]
}

func (m *mutator[T]) applyIfNewer(id string, seq uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq < m.applied[id] {
		return false
	}
	m.applied[id] = seq
	return true
}

// markDeleted blocks any still-in-flight resolution from resurrecting the
// record.
func (m *mutator[T]) markDeleted(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied[id] = ^uint64(0)
}
