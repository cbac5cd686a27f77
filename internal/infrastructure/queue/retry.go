// Package queue implements the sync retry dispatcher: mutations that fell
// back to local state are re-attempted against the remote gateway on a fixed
// set of workers. Tasks are sharded by entity id with consistent hashing, so
// retries for the same record never run concurrently or out of order.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawhaven/canine-care/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	maxAttempts    = 5
	baseBackoff    = 2 * time.Second
)

// Task is one pending remote mutation. Run performs the gateway call and the
// local sync-state bookkeeping; it returns nil once the remote side agrees.
type Task struct {
	Kind     string
	EntityID string
	Op       string
	Run      func(ctx context.Context) error

	attempt int
}

// Dispatcher routes retry tasks to sharded workers.
type Dispatcher struct {
	workers []chan Task
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Task, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Task, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a task to the worker responsible for its entity id. When the
// shard's buffer is full the task is dropped with a log entry; the record
// stays visible locally as local-only.
func (d *Dispatcher) Enqueue(t Task) {
	idx := d.shardIndex(t.EntityID)
	select {
	case d.workers[idx] <- t:
		metrics.RetryQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().Str("kind", t.Kind).Str("entity_id", t.EntityID).Str("op", t.Op).Msg("retry queue full, dropping task")
		metrics.RetryAttemptsTotal.WithLabelValues(t.Kind, "dropped").Inc()
	}
}

// EnqueueRetry satisfies the services' retry queue contract.
func (d *Dispatcher) EnqueueRetry(kind, entityID, op string, run func(ctx context.Context) error) {
	d.Enqueue(Task{Kind: kind, EntityID: entityID, Op: op, Run: run})
}

// shardIndex maps an entity id deterministically to a worker index.
func (d *Dispatcher) shardIndex(entityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch chan Task) {
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-ch:
			if !ok {
				return
			}
			metrics.RetryQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			d.runTask(ctx, task)
		}
	}
}

func (d *Dispatcher) runTask(ctx context.Context, task Task) {
	err := task.Run(ctx)
	if err == nil {
		metrics.RetryAttemptsTotal.WithLabelValues(task.Kind, "ok").Inc()
		d.log.Info().Str("kind", task.Kind).Str("entity_id", task.EntityID).Str("op", task.Op).Msg("retry reconciled")
		return
	}

	metrics.RetryAttemptsTotal.WithLabelValues(task.Kind, "error").Inc()
	task.attempt++
	if task.attempt >= maxAttempts {
		d.log.Error().Err(err).
			Str("kind", task.Kind).
			Str("entity_id", task.EntityID).
			Str("op", task.Op).
			Int("attempts", task.attempt).
			Msg("retry exhausted, record stays local-only")
		return
	}

	delay := baseBackoff << (task.attempt - 1)
	d.log.Warn().Err(err).
		Str("kind", task.Kind).
		Str("entity_id", task.EntityID).
		Dur("backoff", delay).
		Msg("retry failed, rescheduling")

	time.AfterFunc(delay, func() {
		select {
		case <-ctx.Done():
		default:
			d.Enqueue(task)
		}
	})
}
