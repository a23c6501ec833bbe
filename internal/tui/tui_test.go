package tui

import (
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/dayplan/internal/registry"
	"github.com/sadopc/dayplan/internal/remind"
	"github.com/sadopc/dayplan/internal/store"
)

type nullPersister struct{}

func (nullPersister) PutTask(store.Task) error { return nil }
func (nullPersister) DeleteTask(string) error  { return nil }

func newTestRegistry(t *testing.T, seed ...store.Task) *registry.Registry {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return registry.New(nullPersister{}, seed, log)
}

func keyMsg(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// ============================================================
// Day ordering
// ============================================================

func TestTasksForDateFiltersAndSorts(t *testing.T) {
	snapshot := []store.Task{
		{ID: "b", Date: "2024-06-10", Time: "14:00 - 15:00", Title: "Afternoon"},
		{ID: "a", Date: "2024-06-10", Time: "09:00 - 10:00", Title: "Morning"},
		{ID: "c", Date: "2024-06-11", Time: "08:00 - 09:00", Title: "Other day"},
		{ID: "d", Date: "2024-06-10", Time: "09:00 - 10:00", Title: "Morning tie"},
	}

	got := tasksForDate(snapshot, "2024-06-10")
	if len(got) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(got))
	}
	want := []string{"a", "d", "b"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestTasksForDateEmpty(t *testing.T) {
	got := tasksForDate(nil, "2024-06-10")
	if len(got) != 0 {
		t.Fatalf("expected no tasks, got %d", len(got))
	}
}

// ============================================================
// Day model
// ============================================================

func dayAt(t *testing.T, reg *registry.Registry, date string) dayModel {
	t.Helper()
	d, err := time.Parse(remind.DateLayout, date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return newDayModel(reg, d)
}

func TestDayCompleteIsOneWay(t *testing.T) {
	reg := newTestRegistry(t, store.Task{
		ID: "t1", Date: "2024-06-10", Time: "09:00 - 10:00", Title: "Standup",
	})
	d := dayAt(t, reg, "2024-06-10")

	d, _ = d.update(keyMsg(tea.KeySpace))
	reg.Wait()

	got := reg.Find("t1")
	if got == nil || !got.Completed {
		t.Fatal("space should complete the task")
	}

	// A second press is a no-op, not a toggle back.
	d, _ = d.update(keyMsg(tea.KeySpace))
	reg.Wait()

	got = reg.Find("t1")
	if got == nil || !got.Completed {
		t.Fatal("completed task must stay completed")
	}
}

func TestDayUrgentToggleSkipsCompleted(t *testing.T) {
	reg := newTestRegistry(t, store.Task{
		ID: "t1", Date: "2024-06-10", Time: "09:00 - 10:00", Title: "Standup", Completed: true,
	})
	d := dayAt(t, reg, "2024-06-10")

	d.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")})
	reg.Wait()

	if got := reg.Find("t1"); got.IsUrgent {
		t.Fatal("urgent toggle must not touch a completed task")
	}
}

func TestDayDeleteRemovesTask(t *testing.T) {
	reg := newTestRegistry(t,
		store.Task{ID: "t1", Date: "2024-06-10", Time: "09:00 - 10:00", Title: "A"},
		store.Task{ID: "t2", Date: "2024-06-10", Time: "11:00 - 12:00", Title: "B"},
	)
	d := dayAt(t, reg, "2024-06-10")

	d.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	reg.Wait()

	if reg.Find("t1") != nil {
		t.Fatal("first task should be deleted")
	}
	if reg.Find("t2") == nil {
		t.Fatal("second task should survive")
	}
}

func TestDaySaveFormPreservesCompletionOnEdit(t *testing.T) {
	reg := newTestRegistry(t, store.Task{
		ID: "t1", Date: "2024-06-10", Time: "09:00 - 10:00", Title: "Old", Completed: true,
	})
	d := dayAt(t, reg, "2024-06-10")

	d.editingID = "t1"
	*d.fTitle = "New title"
	*d.fTime = "10:00 - 11:00"
	*d.fReminder = "5"
	d.saveForm()
	reg.Wait()

	got := reg.Find("t1")
	if got == nil {
		t.Fatal("task missing after edit")
	}
	if got.Title != "New title" || got.Time != "10:00 - 11:00" {
		t.Fatalf("edit not applied: %+v", got)
	}
	if !got.Completed {
		t.Fatal("edit must not reset completion")
	}
	if got.ReminderMinutes == nil || *got.ReminderMinutes != 5 {
		t.Fatal("reminder minutes not saved")
	}
}

func TestDaySaveFormNewTaskGetsID(t *testing.T) {
	reg := newTestRegistry(t)
	d := dayAt(t, reg, "2024-06-10")

	*d.fTitle = "Fresh"
	*d.fTime = "09:00 - 10:00"
	*d.fReminder = ""
	d.saveForm()
	reg.Wait()

	snap := reg.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 task, got %d", len(snap))
	}
	if snap[0].ID == "" {
		t.Fatal("new task needs a generated ID")
	}
	if snap[0].ReminderMinutes != nil {
		t.Fatal("empty reminder field must stay nil")
	}
	if snap[0].Date != "2024-06-10" {
		t.Fatalf("date not set: %q", snap[0].Date)
	}
}

// ============================================================
// Home calendar navigation
// ============================================================

func TestHomeArrowsMoveSelection(t *testing.T) {
	reg := newTestRegistry(t)
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	h := newHomeModel(reg, start)

	h, _ = h.update(keyMsg(tea.KeyRight))
	if remind.DateKey(h.selected) != "2024-06-11" {
		t.Fatalf("right: got %s", remind.DateKey(h.selected))
	}

	h, _ = h.update(keyMsg(tea.KeyDown))
	if remind.DateKey(h.selected) != "2024-06-18" {
		t.Fatalf("down: got %s", remind.DateKey(h.selected))
	}

	h, _ = h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	if remind.DateKey(h.selected) != "2024-07-18" {
		t.Fatalf("next month: got %s", remind.DateKey(h.selected))
	}
}

func TestHomeEnterOpensDay(t *testing.T) {
	reg := newTestRegistry(t)
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	h := newHomeModel(reg, start)

	_, cmd := h.update(keyMsg(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter should produce a command")
	}
	msg, ok := cmd().(openDayMsg)
	if !ok {
		t.Fatalf("expected openDayMsg, got %T", cmd())
	}
	if remind.DateKey(msg.date) != "2024-06-10" {
		t.Fatalf("wrong date: %s", remind.DateKey(msg.date))
	}
}

// ============================================================
// Stats buckets
// ============================================================

func TestStatsCountByDay(t *testing.T) {
	reg := newTestRegistry(t,
		store.Task{ID: "a", Date: "2024-06-10", Completed: true},
		store.Task{ID: "b", Date: "2024-06-10"},
		store.Task{ID: "c", Date: "2024-06-11", Completed: true},
	)
	m := newStatsModel(Deps{Registry: reg})

	counts := m.countByDay()
	if c := counts["2024-06-10"]; c.completed != 1 || c.open != 1 {
		t.Fatalf("2024-06-10: %+v", c)
	}
	if c := counts["2024-06-11"]; c.completed != 1 || c.open != 0 {
		t.Fatalf("2024-06-11: %+v", c)
	}
}
