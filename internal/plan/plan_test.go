package plan

import (
	"strings"
	"testing"

	"github.com/sadopc/dayplan/internal/store"
)

func intPtr(n int) *int { return &n }

// ============================================================
// Response decoding
// ============================================================

func TestDecodeCandidates(t *testing.T) {
	text := `{"tasks":[{"time":"09:00 - 10:00","title":"Workout","description":"gym","reminderMinutes":15,"isUrgent":true}]}`
	cands, err := decodeCandidates(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	c := cands[0]
	if c.Title != "Workout" || c.Time != "09:00 - 10:00" || !c.IsUrgent {
		t.Fatalf("unexpected candidate: %+v", c)
	}
	if c.ReminderMinutes == nil || *c.ReminderMinutes != 15 {
		t.Fatalf("reminder minutes lost: %v", c.ReminderMinutes)
	}
}

func TestDecodeCandidatesFenced(t *testing.T) {
	text := "```json\n{\"tasks\":[{\"time\":\"08:00 - 09:00\",\"title\":\"Breakfast\",\"description\":\"\"}]}\n```"
	cands, err := decodeCandidates(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 1 || cands[0].Title != "Breakfast" {
		t.Fatalf("fenced JSON not decoded: %+v", cands)
	}
}

func TestDecodeCandidatesGarbage(t *testing.T) {
	if _, err := decodeCandidates("sorry, I cannot help with that"); err == nil {
		t.Fatal("expected decode error for non-JSON reply")
	}
}

func TestDecodeCandidatesEmpty(t *testing.T) {
	cands, err := decodeCandidates(`{"tasks":[]}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 0 {
		t.Fatalf("expected empty batch, got %d", len(cands))
	}
}

// ============================================================
// Candidate validation
// ============================================================

func TestValidateAcceptsGoodCandidates(t *testing.T) {
	cands := []Candidate{
		{Time: "09:00 - 10:00", Title: "Workout", Description: "gym", ReminderMinutes: intPtr(10)},
		{Time: "12:30 - 13:00", Title: "Lunch"},
	}
	tasks, rejected := Validate(cands, "2024-06-10")
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", rejected)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.ID == "" {
			t.Fatal("accepted task missing an id")
		}
		if task.Date != "2024-06-10" {
			t.Fatalf("wrong date: %s", task.Date)
		}
		if task.Completed {
			t.Fatal("new task must start incomplete")
		}
	}
	if tasks[0].ID == tasks[1].ID {
		t.Fatal("ids must be unique")
	}
}

func TestValidateRejectsPerItem(t *testing.T) {
	cands := []Candidate{
		{Time: "09:00 - 10:00", Title: "Good one"},
		{Time: "09:00 - 10:00", Title: "   "},           // empty title
		{Time: "sometime", Title: "Bad time"},           // unparseable
		{Time: "10:00", Title: "Neg", ReminderMinutes: intPtr(-5)},
	}
	tasks, rejected := Validate(cands, "2024-06-10")
	if len(tasks) != 1 || tasks[0].Title != "Good one" {
		t.Fatalf("expected only the good candidate: %+v", tasks)
	}
	if len(rejected) != 3 {
		t.Fatalf("expected 3 rejections, got %d: %v", len(rejected), rejected)
	}
	for _, r := range rejected {
		if r.Reason == "" {
			t.Fatal("rejection without a reason")
		}
	}
}

func TestValidateZeroReminderSurvives(t *testing.T) {
	tasks, rejected := Validate([]Candidate{{Time: "10:00 - 11:00", Title: "x", ReminderMinutes: intPtr(0)}}, "2024-06-10")
	if len(rejected) != 0 || len(tasks) != 1 {
		t.Fatalf("zero reminder rejected: %v", rejected)
	}
	if tasks[0].ReminderMinutes == nil || *tasks[0].ReminderMinutes != 0 {
		t.Fatal("zero reminder collapsed to nil")
	}
}

// ============================================================
// Prompt context
// ============================================================

func TestHistoryContextCapped(t *testing.T) {
	var history []store.Task
	for i := 0; i < 30; i++ {
		history = append(history, store.Task{Date: "2024-06-01", Time: "09:00 - 10:00", Title: "t"})
	}
	ctx := historyContext(history)
	if n := strings.Count(ctx, "\n"); n != historyLimit {
		t.Fatalf("expected %d history lines, got %d", historyLimit, n)
	}
}

func TestHistoryContextEmpty(t *testing.T) {
	if ctx := historyContext(nil); !strings.Contains(ctx, "no history") {
		t.Fatalf("unexpected empty-history text: %q", ctx)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewClient("", ""); err == nil {
		t.Fatal("expected ErrAPIKeyRequired")
	}
}
