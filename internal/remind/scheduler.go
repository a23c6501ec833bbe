package remind

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sadopc/dayplan/internal/store"
)

// DefaultInterval is the poll period. It must stay at or below fireWindow
// or an instant could fall between two ticks.
const DefaultInterval = 20 * time.Second

// EventKind discriminates the two trigger rules.
type EventKind int

const (
	TaskReminder EventKind = iota
	HabitReminder
)

// Event is the decision output of a tick: some trigger met its condition.
type Event struct {
	Kind EventKind
	Task *store.Task // set for TaskReminder
	At   time.Time
}

// Dispatcher consumes fire events. Implementations are best-effort: the
// scheduler treats every dispatch as having fired regardless of outcome.
type Dispatcher interface {
	Dispatch(ev Event)
}

// Snapshotter supplies a consistent read-only copy of the task set.
type Snapshotter interface {
	Snapshot() []store.Task
}

// AlarmStore persists the habit alarm's last-fired day.
type AlarmStore interface {
	MarkHabitFired(dateKey string) error
}

// Config is the scheduler's explicit configuration. It is passed in at
// construction and replaced through SetConfig; the tick never reads
// ambient state.
type Config struct {
	NotificationsEnabled bool
	HabitEnabled         bool
	HabitTime            string // "HH:MM"
}

type Scheduler struct {
	tasks      Snapshotter
	dedup      *Dedup
	dispatcher Dispatcher
	alarms     AlarmStore
	log        *slog.Logger
	interval   time.Duration

	mu             sync.Mutex
	cfg            Config
	habitLastFired string // date key, loaded at startup and updated on fire
}

// New builds a scheduler. habitLastFired is the persisted last-fired day
// loaded from the store ("" if the alarm never fired).
func New(tasks Snapshotter, d Dispatcher, alarms AlarmStore, cfg Config, habitLastFired string, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		tasks:          tasks,
		dedup:          NewDedup(),
		dispatcher:     d,
		alarms:         alarms,
		log:            log,
		interval:       DefaultInterval,
		cfg:            cfg,
		habitLastFired: habitLastFired,
	}
}

// SetInterval overrides the poll period. Intervals wider than the fire
// window are clamped to it.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d > fireWindow {
		d = fireWindow
	}
	s.interval = d
}

// SetConfig swaps in a new configuration; it takes effect on the next tick.
func (s *Scheduler) SetConfig(cfg Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Run polls until ctx is cancelled. Ticks never overlap: each evaluation
// completes before the next ticker value is read.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

// Tick evaluates both rules at the given instant.
func (s *Scheduler) Tick(now time.Time) {
	s.mu.Lock()
	cfg := s.cfg
	lastFired := s.habitLastFired
	s.mu.Unlock()

	todayKey := DateKey(now)

	if cfg.NotificationsEnabled {
		s.tickTasks(now, todayKey)
	}

	if habitDue(cfg.HabitEnabled, cfg.HabitTime, lastFired, now) {
		s.fireHabit(now, todayKey)
	}
}

func (s *Scheduler) tickTasks(now time.Time, todayKey string) {
	for _, t := range s.tasks.Snapshot() {
		if t.Completed || t.Date != todayKey || s.dedup.HasFired(t.ID) {
			continue
		}

		due, err := taskDue(t, now)
		if err != nil {
			// A malformed time string skips the task, never the tick.
			s.log.Warn("skipping task with unparseable time",
				"task_id", t.ID, "time", t.Time, "err", err)
			continue
		}
		if !due {
			continue
		}

		task := t
		s.dispatcher.Dispatch(Event{Kind: TaskReminder, Task: &task, At: now})
		s.dedup.MarkFired(t.ID)
		s.log.Info("task reminder fired", "task_id", t.ID, "title", t.Title)
	}
}

func (s *Scheduler) fireHabit(now time.Time, todayKey string) {
	s.dispatcher.Dispatch(Event{Kind: HabitReminder, At: now})

	s.mu.Lock()
	s.habitLastFired = todayKey
	s.mu.Unlock()

	if err := s.alarms.MarkHabitFired(todayKey); err != nil {
		// The in-memory date still guards this session; only a restart
		// within the same minute could double-fire.
		s.log.Error("persist habit last-fired date failed", "date", todayKey, "err", err)
	}
	s.log.Info("habit reminder fired", "date", todayKey)
}
