// Package registry keeps the working copy of all tasks. Every mutation
// updates the in-memory map synchronously and is mirrored to the durable
// store in the background; if the write fails, the in-memory state stays
// authoritative for the session and the failure is logged.
package registry

import (
	"log/slog"
	"sync"

	"github.com/sadopc/dayplan/internal/store"
)

// Persister is the slice of the store the registry writes through to.
type Persister interface {
	PutTask(t store.Task) error
	DeleteTask(id string) error
}

// writeOp is one queued store mutation.
type writeOp struct {
	remove bool
	id     string
	task   store.Task
}

type Registry struct {
	mu    sync.RWMutex
	tasks map[string]store.Task

	persist Persister
	log     *slog.Logger

	// Background writes are drained by a single goroutine in the order
	// they were enqueued. Ops are enqueued under mu, so the durable store
	// applies competing writes to one id in the same order memory did and
	// can never end up holding the older record.
	qmu   sync.Mutex
	qcond *sync.Cond
	queue []writeOp

	// wg tracks queued writes so tests and shutdown can wait for them.
	wg sync.WaitGroup
}

// New builds a registry backed by p. Pass the tasks loaded from the store
// at startup; seed may be nil.
func New(p Persister, seed []store.Task, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	r := &Registry{
		tasks:   make(map[string]store.Task, len(seed)),
		persist: p,
		log:     log,
	}
	r.qcond = sync.NewCond(&r.qmu)
	for _, t := range seed {
		r.tasks[t.ID] = t
	}
	go r.writeLoop()
	return r
}

// Load rebuilds a registry from everything the store holds.
func Load(s *store.Store, log *slog.Logger) (*Registry, error) {
	tasks, err := s.GetAllTasks()
	if err != nil {
		return nil, err
	}
	return New(s, tasks, log), nil
}

// enqueue appends a write op. Callers must hold mu so queue order matches
// the order mutations hit the map. The queue is unbounded: a slow store
// write backs up the queue, never the caller.
func (r *Registry) enqueue(op writeOp) {
	r.wg.Add(1)
	r.qmu.Lock()
	r.queue = append(r.queue, op)
	r.qmu.Unlock()
	r.qcond.Signal()
}

func (r *Registry) writeLoop() {
	for {
		r.qmu.Lock()
		for len(r.queue) == 0 {
			r.qcond.Wait()
		}
		op := r.queue[0]
		r.queue = r.queue[1:]
		r.qmu.Unlock()

		var err error
		if op.remove {
			err = r.persist.DeleteTask(op.id)
		} else {
			err = r.persist.PutTask(op.task)
		}
		if err != nil {
			r.log.Error("persist failed; in-memory copy remains authoritative",
				"task_id", op.id, "err", err)
		}
		r.wg.Done()
	}
}

// Upsert stores the task in memory and persists it in the background.
func (r *Registry) Upsert(t store.Task) {
	r.mu.Lock()
	r.tasks[t.ID] = t
	r.enqueue(writeOp{id: t.ID, task: t})
	r.mu.Unlock()
}

// UpsertBatch applies a batch of tasks under one lock so a concurrent
// Snapshot never observes a partially-applied batch.
func (r *Registry) UpsertBatch(tasks []store.Task) {
	if len(tasks) == 0 {
		return
	}
	r.mu.Lock()
	for _, t := range tasks {
		r.tasks[t.ID] = t
		r.enqueue(writeOp{id: t.ID, task: t})
	}
	r.mu.Unlock()
}

// Remove drops the task from memory and deletes it in the background.
// Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.tasks, id)
	r.enqueue(writeOp{id: id, remove: true})
	r.mu.Unlock()
}

// Find returns the task with the given id, or nil.
func (r *Registry) Find(id string) *store.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.tasks[id]; ok {
		return &t
	}
	return nil
}

// Snapshot returns a copy of every task. Callers may iterate and mutate
// the slice freely; it shares nothing with the registry's map.
func (r *Registry) Snapshot() []store.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]store.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	return out
}

// Len reports the number of tasks currently held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// Clear empties the in-memory map. The caller is expected to clear the
// durable store itself (the settings screen does both).
func (r *Registry) Clear() {
	r.mu.Lock()
	r.tasks = make(map[string]store.Task)
	r.mu.Unlock()
}

// Wait blocks until every queued persistence write has finished.
func (r *Registry) Wait() {
	r.wg.Wait()
}
