// Package remind implements the reminder engine: a single polling loop
// that evaluates two independent rules each tick: per-task reminders and
// the daily habit check-in alarm. Deciding whether something fires is kept
// pure and separate from dispatching the side effects.
package remind

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/dayplan/internal/store"
)

// DateLayout is the day-granularity key tasks are grouped under.
const DateLayout = "2006-01-02"

// fireWindow is how long a reminder instant stays matchable. It must be at
// least as wide as the poll interval so no instant falls between ticks,
// and narrow enough that a single minute cannot match twice.
const fireWindow = time.Minute

// DateKey returns the day-only identity of t in its own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseStart extracts the start clock time from a range descriptor like
// "09:00 - 10:00". The end half is informational and ignored; a bare
// "09:00" is accepted.
func ParseStart(timeRange string) (hour, minute int, err error) {
	start := timeRange
	if i := strings.Index(timeRange, "-"); i >= 0 {
		start = timeRange[:i]
	}
	start = strings.TrimSpace(start)

	parts := strings.Split(start, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed time %q", timeRange)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed time %q: %w", timeRange, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed time %q: %w", timeRange, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", timeRange)
	}
	return hour, minute, nil
}

// taskDue reports whether the task's reminder instant falls inside the
// half-open window [reminderInstant, reminderInstant+fireWindow) at now.
// The caller has already filtered by completion, date and dedup state.
// A reminder instant strictly in the past never matches: there is no
// catch-up for missed windows.
func taskDue(t store.Task, now time.Time) (bool, error) {
	hour, minute, err := ParseStart(t.Time)
	if err != nil {
		return false, err
	}

	taskInstant := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())

	offset := 0
	if t.ReminderMinutes != nil {
		offset = *t.ReminderMinutes
	}
	reminderInstant := taskInstant.Add(-time.Duration(offset) * time.Minute)

	return !now.Before(reminderInstant) && now.Before(reminderInstant.Add(fireWindow)), nil
}

// habitDue reports whether the habit alarm matches the current minute.
// The match is exact on HH:MM; lastFired guards against a second fire on
// the same day.
func habitDue(enabled bool, timeOfDay, lastFired string, now time.Time) bool {
	if !enabled {
		return false
	}
	return now.Format("15:04") == timeOfDay && lastFired != DateKey(now)
}
