package store

import "time"

// Task is a single time-boxed entry on the planner.
//
// Time is a range descriptor like "09:00 - 10:00"; only the start is used
// for scheduling, the end is informational. ReminderMinutes distinguishes
// "no reminder" (nil) from "remind exactly at start" (0).
type Task struct {
	ID              string
	Date            string // "2006-01-02"
	Time            string // "HH:MM - HH:MM"
	Title           string
	Description     string
	Completed       bool
	IsUrgent        bool
	ReminderMinutes *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Setting struct {
	Key   string
	Value string
}

// HabitAlarm is the single daily check-in alarm. Unlike per-task reminder
// dedup, LastFiredDate is persisted so the alarm never double-fires for a
// day across restarts.
type HabitAlarm struct {
	Enabled       bool
	TimeOfDay     string // "HH:MM"
	LastFiredDate string // "2006-01-02", empty if never fired
}
