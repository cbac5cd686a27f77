package service

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/ports"
	"github.com/pawhaven/canine-care/internal/store"
)

// ---------------------------------------------------------------------------
// In-memory stub gateway and retry queue
// ---------------------------------------------------------------------------

type stubGateway[T domain.Record[T]] struct {
	mu      sync.Mutex
	rows    map[string]T
	failing bool
	nextID  int

	lastFilter ports.Filter
	getAllErr  error
	getAllHook func()
	updateHook func()

	creates int
	updates int
	deletes []string
}

func newStubGateway[T domain.Record[T]]() *stubGateway[T] {
	return &stubGateway[T]{rows: make(map[string]T)}
}

func (g *stubGateway[T]) GetAll(_ context.Context, f ports.Filter) ([]T, error) {
	if g.getAllHook != nil {
		hook := g.getAllHook
		g.getAllHook = nil
		hook()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastFilter = f
	if g.getAllErr != nil {
		return nil, g.getAllErr
	}
	if g.failing {
		return nil, domain.ErrRemoteUnavailable
	}
	out := make([]T, 0, len(g.rows))
	for _, e := range g.rows {
		if f.OwnerID != "" && e.ParentID() != f.OwnerID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (g *stubGateway[T]) GetByID(_ context.Context, id string) (T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.rows[id]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	return e, nil
}

func (g *stubGateway[T]) Create(_ context.Context, e T) (T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failing {
		var zero T
		return zero, domain.ErrRemoteUnavailable
	}
	g.creates++
	m := e.Meta()
	if m.ID == "" {
		g.nextID++
		m.ID = fmt.Sprintf("remote-%d", g.nextID)
	}
	m.SyncState = domain.SyncStateSynced
	e = e.WithMeta(m)
	g.rows[m.ID] = e
	return e, nil
}

func (g *stubGateway[T]) Update(_ context.Context, id string, e T) (T, error) {
	if g.updateHook != nil {
		hook := g.updateHook
		g.updateHook = nil
		hook()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failing {
		var zero T
		return zero, domain.ErrRemoteUnavailable
	}
	if _, ok := g.rows[id]; !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	g.updates++
	m := e.Meta()
	m.ID = id
	m.SyncState = domain.SyncStateSynced
	e = e.WithMeta(m)
	g.rows[id] = e
	return e, nil
}

func (g *stubGateway[T]) Delete(_ context.Context, id string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failing {
		return false, domain.ErrRemoteUnavailable
	}
	_, ok := g.rows[id]
	delete(g.rows, id)
	g.deletes = append(g.deletes, id)
	return ok, nil
}

type retryTask struct {
	kind, entityID, op string
	run                func(ctx context.Context) error
}

type stubRetry struct {
	mu    sync.Mutex
	tasks []retryTask
}

func (r *stubRetry) EnqueueRetry(kind, entityID, op string, run func(ctx context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, retryTask{kind, entityID, op, run})
}

func (r *stubRetry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// drain runs every queued task once and returns how many failed.
func (r *stubRetry) drain(ctx context.Context) int {
	r.mu.Lock()
	tasks := r.tasks
	r.tasks = nil
	r.mu.Unlock()

	failed := 0
	for _, task := range tasks {
		if err := task.run(ctx); err != nil {
			failed++
		}
	}
	return failed
}

var nopLogger = zerolog.Nop()

func newTestMutator(failing bool) (*mutator[domain.NutritionEntry], *stubGateway[domain.NutritionEntry], *stubRetry) {
	gw := newStubGateway[domain.NutritionEntry]()
	gw.failing = failing
	retry := &stubRetry{}
	col := store.NewCollection[domain.NutritionEntry]()
	return newMutator[domain.NutritionEntry](gw, col, retry, nopLogger), gw, retry
}

// ---------------------------------------------------------------------------
// create
// ---------------------------------------------------------------------------

func TestMutator_Create_RemoteConfirmed(t *testing.T) {
	m, gw, retry := newTestMutator(false)

	stored := m.create(context.Background(), domain.NutritionEntry{CanineID: "c1", FoodType: "dry"})

	if stored.ID != "remote-1" {
		t.Errorf("expected remote id, got %q", stored.ID)
	}
	if stored.SyncState != domain.SyncStateSynced {
		t.Errorf("expected synced, got %q", stored.SyncState)
	}
	if retry.len() != 0 {
		t.Errorf("confirmed create must not enqueue retries, got %d", retry.len())
	}
	if gw.creates != 1 {
		t.Errorf("expected 1 remote create, got %d", gw.creates)
	}
}

func TestMutator_Create_FallsBackLocally(t *testing.T) {
	m, _, retry := newTestMutator(true)

	stored := m.create(context.Background(), domain.NutritionEntry{CanineID: "c1", Calories: 80})

	if !regexp.MustCompile(`^nutrition-\d+$`).MatchString(stored.ID) {
		t.Errorf("expected local id of form nutrition-<timestamp>, got %q", stored.ID)
	}
	if stored.CanineID != "c1" || stored.Calories != 80 {
		t.Errorf("payload must survive the fallback: %+v", stored)
	}
	if stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
		t.Error("fallback must synthesize timestamps")
	}
	if got, ok := m.col.Get(stored.ID); !ok || got.SyncState != domain.SyncStatePending {
		t.Errorf("stored record must be tagged pendingRetry, got %q", got.SyncState)
	}
	if retry.len() != 1 {
		t.Fatalf("expected 1 retry task, got %d", retry.len())
	}
}

func TestMutator_Create_NilRetryStaysLocalOnly(t *testing.T) {
	gw := newStubGateway[domain.NutritionEntry]()
	gw.failing = true
	col := store.NewCollection[domain.NutritionEntry]()
	m := newMutator[domain.NutritionEntry](gw, col, nil, nopLogger)

	stored := m.create(context.Background(), domain.NutritionEntry{CanineID: "c1"})
	if stored.SyncState != domain.SyncStateLocalOnly {
		t.Errorf("without a retry queue the record stays local-only, got %q", stored.SyncState)
	}
}

func TestMutator_Create_RetryReconciles(t *testing.T) {
	m, gw, retry := newTestMutator(true)

	stored := m.create(context.Background(), domain.NutritionEntry{CanineID: "c1", Calories: 80})

	// Backend comes back; the queued task upserts and tags the record synced.
	gw.mu.Lock()
	gw.failing = false
	gw.mu.Unlock()

	if failed := retry.drain(context.Background()); failed != 0 {
		t.Fatalf("retry must succeed once the backend is back, %d failed", failed)
	}

	got, ok := m.col.Get(stored.ID)
	if !ok {
		t.Fatal("record vanished during reconciliation")
	}
	if got.SyncState != domain.SyncStateSynced {
		t.Errorf("expected synced after reconciliation, got %q", got.SyncState)
	}
	if gw.creates != 1 {
		t.Errorf("reconciliation must create the missing remote row, got %d creates", gw.creates)
	}
}

func TestMutator_Create_RetrySkipsDeletedRecord(t *testing.T) {
	m, gw, retry := newTestMutator(true)

	stored := m.create(context.Background(), domain.NutritionEntry{CanineID: "c1"})
	m.col.Remove(stored.ID)

	gw.mu.Lock()
	gw.failing = false
	gw.mu.Unlock()

	if failed := retry.drain(context.Background()); failed != 0 {
		t.Fatalf("retry for a deleted record must succeed silently, %d failed", failed)
	}
	if gw.creates != 0 {
		t.Error("retry must not resurrect a deleted record remotely")
	}
}

// ---------------------------------------------------------------------------
// update
// ---------------------------------------------------------------------------

func TestMutator_Update_FallbackDoesNotDuplicate(t *testing.T) {
	m, gw, retry := newTestMutator(false)
	stored := m.create(context.Background(), domain.NutritionEntry{CanineID: "c1", Calories: 80})

	gw.mu.Lock()
	gw.failing = true
	gw.mu.Unlock()

	patched := stored
	patched.Calories = 120
	got, err := m.update(context.Background(), stored.ID, patched)
	if err != nil {
		t.Fatalf("fallback update must not error: %v", err)
	}
	if got.Calories != 120 {
		t.Errorf("expected patched value, got %d", got.Calories)
	}
	if m.col.Len() != 1 {
		t.Errorf("update must never change collection length, got %d", m.col.Len())
	}
	if cur, _ := m.col.Get(stored.ID); cur.SyncState != domain.SyncStatePending {
		t.Errorf("expected pendingRetry after fallback update, got %q", cur.SyncState)
	}
	if retry.len() != 1 {
		t.Errorf("expected 1 retry task, got %d", retry.len())
	}
}

func TestMutator_Update_UnknownEverywhere(t *testing.T) {
	m, _, _ := newTestMutator(true)

	if _, err := m.update(context.Background(), "ghost", domain.NutritionEntry{CanineID: "c1"}); err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMutator_Update_LastIssuedWins(t *testing.T) {
	m, gw, _ := newTestMutator(false)
	stored := m.create(context.Background(), domain.NutritionEntry{CanineID: "c1", Calories: 80})

	// The first update's remote call resolves only after a second update has
	// already been issued and applied. Its late confirmation must not win.
	first := stored
	first.Calories = 100
	second := stored
	second.Calories = 200

	gw.updateHook = func() {
		if _, err := m.update(context.Background(), stored.ID, second); err != nil {
			t.Errorf("inner update failed: %v", err)
		}
	}

	got, err := m.update(context.Background(), stored.ID, first)
	if err != nil {
		t.Fatalf("outer update failed: %v", err)
	}
	if got.Calories != 200 {
		t.Errorf("late resolution must not overwrite a newer mutation: got %d, want 200", got.Calories)
	}
	if cur, _ := m.col.Get(stored.ID); cur.Calories != 200 {
		t.Errorf("store must keep the last issued value, got %d", cur.Calories)
	}
}

func TestMutator_SequenceBookkeeping(t *testing.T) {
	m, _, _ := newTestMutator(false)

	s1 := m.nextSeq("x")
	s2 := m.nextSeq("x")
	if s2 <= s1 {
		t.Fatalf("sequence must be monotonic: %d then %d", s1, s2)
	}
	if !m.applyIfNewer("x", s2) {
		t.Error("newest sequence must apply")
	}
	if m.applyIfNewer("x", s1) {
		t.Error("stale sequence must be discarded")
	}

	m.markDeleted("x")
	if m.applyIfNewer("x", m.nextSeq("x")) {
		t.Error("nothing applies after deletion")
	}
}

// ---------------------------------------------------------------------------
// delete
// ---------------------------------------------------------------------------

func TestMutator_Delete_RemovesLocallyOnRemoteFailure(t *testing.T) {
	m, gw, retry := newTestMutator(false)
	stored := m.create(context.Background(), domain.NutritionEntry{CanineID: "c1"})

	gw.mu.Lock()
	gw.failing = true
	gw.mu.Unlock()

	m.delete(context.Background(), stored.ID)

	if _, ok := m.col.Get(stored.ID); ok {
		t.Error("record must be gone locally whatever the remote said")
	}
	if retry.len() != 1 {
		t.Errorf("failed remote delete must be queued, got %d tasks", retry.len())
	}
}

func TestMutator_Delete_Idempotent(t *testing.T) {
	m, _, retry := newTestMutator(false)
	stored := m.create(context.Background(), domain.NutritionEntry{CanineID: "c1"})

	m.delete(context.Background(), stored.ID)
	m.delete(context.Background(), stored.ID)

	if m.col.Len() != 0 {
		t.Errorf("expected empty collection, got %d", m.col.Len())
	}
	if retry.len() != 0 {
		t.Errorf("successful deletes must not enqueue retries, got %d", retry.len())
	}
}

func TestMutator_Delete_BlocksLateUpdateResolution(t *testing.T) {
	m, gw, _ := newTestMutator(false)
	stored := m.create(context.Background(), domain.NutritionEntry{CanineID: "c1", Calories: 80})

	// Delete lands while an update's remote call is in flight.
	gw.updateHook = func() {
		m.delete(context.Background(), stored.ID)
	}

	patched := stored
	patched.Calories = 120
	if _, err := m.update(context.Background(), stored.ID, patched); err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound for update racing a delete, got %v", err)
	}
	if _, ok := m.col.Get(stored.ID); ok {
		t.Error("deleted record must not be resurrected by a late update")
	}
}

// Timestamps on the fallback path come from the mutator clock.
func TestMutator_Create_FallbackUsesClock(t *testing.T) {
	m, _, _ := newTestMutator(true)
	fixed := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	stored := m.create(context.Background(), domain.NutritionEntry{CanineID: "c1"})
	if !stored.CreatedAt.Equal(fixed) || !stored.UpdatedAt.Equal(fixed) {
		t.Errorf("expected clock timestamps, got created=%v updated=%v", stored.CreatedAt, stored.UpdatedAt)
	}
}
