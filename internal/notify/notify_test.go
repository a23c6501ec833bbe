package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/sadopc/dayplan/internal/remind"
	"github.com/sadopc/dayplan/internal/store"
)

func TestParsePermission(t *testing.T) {
	cases := map[string]Permission{
		"granted":       Granted,
		"denied":        Denied,
		"not-yet-asked": NotYetAsked,
		"":              NotYetAsked,
		"garbage":       NotYetAsked,
	}
	for in, want := range cases {
		if got := ParsePermission(in); got != want {
			t.Errorf("ParsePermission(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRingtoneByName(t *testing.T) {
	if r := RingtoneByName("crystal"); r.Name != "crystal" {
		t.Fatalf("got %q", r.Name)
	}
	// Unknown names fall back to the default cue.
	if r := RingtoneByName("nope"); r.Name != "bell" {
		t.Fatalf("fallback should be bell, got %q", r.Name)
	}
}

func TestBuildTaskPayload(t *testing.T) {
	reminder := 10
	ev := remind.Event{
		Kind: remind.TaskReminder,
		Task: &store.Task{
			ID:              "t1",
			Time:            "09:00 - 10:00",
			Title:           "Morning run",
			Description:     "around the park",
			ReminderMinutes: &reminder,
		},
		At: time.Now(),
	}

	p := BuildPayload(ev)
	if !strings.Contains(p.Title, "Morning run") {
		t.Fatalf("title missing task name: %q", p.Title)
	}
	if !strings.Contains(p.Body, "09:00 - 10:00") || !strings.Contains(p.Body, "around the park") {
		t.Fatalf("body incomplete: %q", p.Body)
	}
	if p.Tag != "t1" {
		t.Fatalf("tag must be the task id, got %q", p.Tag)
	}
}

func TestBuildUrgentPayload(t *testing.T) {
	ev := remind.Event{
		Kind: remind.TaskReminder,
		Task: &store.Task{ID: "t1", Time: "09:00 - 10:00", Title: "Pay rent", IsUrgent: true},
	}
	p := BuildPayload(ev)
	if !strings.Contains(p.Title, "Urgent") {
		t.Fatalf("urgent flag not reflected: %q", p.Title)
	}
}

func TestBuildHabitPayload(t *testing.T) {
	p := BuildPayload(remind.Event{Kind: remind.HabitReminder, At: time.Now()})
	if p.Tag != HabitTag {
		t.Fatalf("habit payload must carry the fixed tag, got %q", p.Tag)
	}
	if p.Title == "" || p.Body == "" {
		t.Fatalf("empty habit payload: %+v", p)
	}
}

func TestDispatchSuppressedWithoutPermission(t *testing.T) {
	// With permission denied, Dispatch must be a silent no-op; reaching
	// beeep here would touch the OS notification stack.
	for _, perm := range []Permission{Denied, NotYetAsked} {
		d := NewDispatcher(perm, "bell", nil)
		d.Dispatch(remind.Event{Kind: remind.HabitReminder, At: time.Now()})
	}
}

func TestSetPermission(t *testing.T) {
	d := NewDispatcher(NotYetAsked, "bell", nil)
	d.SetPermission(Granted)
	if d.Permission() != Granted {
		t.Fatal("permission update lost")
	}
}
