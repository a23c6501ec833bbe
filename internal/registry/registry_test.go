package registry

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/sadopc/dayplan/internal/store"
)

// fakeStore records writes and can be told to fail.
type fakeStore struct {
	mu      sync.Mutex
	puts    map[string]store.Task
	deletes []string
	fail    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{puts: make(map[string]store.Task)}
}

func (f *fakeStore) PutTask(t store.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("disk full")
	}
	f.puts[t.ID] = t
	return nil
}

func (f *fakeStore) DeleteTask(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("disk full")
	}
	f.deletes = append(f.deletes, id)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleTask(id string) store.Task {
	return store.Task{ID: id, Date: "2024-06-10", Time: "09:00 - 10:00", Title: "task " + id}
}

func TestUpsertAndFind(t *testing.T) {
	fs := newFakeStore()
	r := New(fs, nil, quietLogger())

	r.Upsert(sampleTask("a"))
	r.Wait()

	got := r.Find("a")
	if got == nil || got.Title != "task a" {
		t.Fatalf("find after upsert: %+v", got)
	}
	fs.mu.Lock()
	_, persisted := fs.puts["a"]
	fs.mu.Unlock()
	if !persisted {
		t.Fatal("upsert was not mirrored to the store")
	}
}

func TestFindMissing(t *testing.T) {
	r := New(newFakeStore(), nil, quietLogger())
	if got := r.Find("nope"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestSeedFromStore(t *testing.T) {
	seed := []store.Task{sampleTask("a"), sampleTask("b")}
	r := New(newFakeStore(), seed, quietLogger())
	if r.Len() != 2 {
		t.Fatalf("expected 2 seeded tasks, got %d", r.Len())
	}
}

func TestLoadRebuildsFromStore(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.PutTask(sampleTask("a")); err != nil {
		t.Fatal(err)
	}

	r, err := Load(s, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if r.Find("a") == nil {
		t.Fatal("load did not rebuild from the store")
	}
}

func TestRemove(t *testing.T) {
	fs := newFakeStore()
	r := New(fs, []store.Task{sampleTask("a")}, quietLogger())

	r.Remove("a")
	r.Wait()

	if r.Find("a") != nil {
		t.Fatal("task still present after remove")
	}
	fs.mu.Lock()
	deletes := len(fs.deletes)
	fs.mu.Unlock()
	if deletes != 1 {
		t.Fatalf("expected 1 store delete, got %d", deletes)
	}
}

// stallingStore blocks its first write until the gate opens and records
// every write in arrival order.
type stallingStore struct {
	mu    sync.Mutex
	gate  chan struct{}
	calls int
	order []store.Task
}

func (s *stallingStore) PutTask(t store.Task) error {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()

	if first {
		<-s.gate
	}

	s.mu.Lock()
	s.order = append(s.order, t)
	s.mu.Unlock()
	return nil
}

func (s *stallingStore) DeleteTask(string) error { return nil }

func TestWritesPersistInMutationOrder(t *testing.T) {
	fs := &stallingStore{gate: make(chan struct{})}
	r := New(fs, nil, quietLogger())

	task := sampleTask("a")
	r.Upsert(task) // this write stalls inside the store

	task.Completed = true
	r.Upsert(task) // must not overtake the stalled write

	close(fs.gate)
	r.Wait()

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.order) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(fs.order))
	}
	if fs.order[0].Completed {
		t.Fatal("first persisted write should be the uncompleted version")
	}
	if !fs.order[1].Completed {
		t.Fatal("durable store ended behind memory: last write lost completed=true")
	}
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	fs := newFakeStore()
	fs.fail = true
	r := New(fs, nil, quietLogger())

	r.Upsert(sampleTask("a"))
	r.Wait()

	if r.Find("a") == nil {
		t.Fatal("in-memory state must survive a failed persist")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r := New(newFakeStore(), []store.Task{sampleTask("a")}, quietLogger())

	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 task in snapshot, got %d", len(snap))
	}
	snap[0].Title = "mutated"

	if got := r.Find("a"); got.Title != "task a" {
		t.Fatal("snapshot mutation leaked into the registry")
	}
}

func TestBatchIsAtomicWithSnapshot(t *testing.T) {
	r := New(newFakeStore(), nil, quietLogger())

	batch := make([]store.Task, 50)
	for i := range batch {
		batch[i] = sampleTask(string(rune('a' + i%26)))
		batch[i].ID = batch[i].ID + string(rune('0'+i/26))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			n := len(r.Snapshot())
			if n != 0 && n != len(batch) {
				t.Errorf("snapshot observed partial batch: %d tasks", n)
				return
			}
			if n == len(batch) {
				return
			}
		}
	}()

	r.UpsertBatch(batch)
	<-done
	r.Wait()
}

func TestClear(t *testing.T) {
	r := New(newFakeStore(), []store.Task{sampleTask("a"), sampleTask("b")}, quietLogger())
	r.Clear()
	if r.Len() != 0 {
		t.Fatalf("clear left %d tasks", r.Len())
	}
}
