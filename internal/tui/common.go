package tui

import (
	"sort"
	"time"

	"github.com/sadopc/dayplan/internal/plan"
	"github.com/sadopc/dayplan/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewHome viewState = iota
	viewDay
	viewPlanner
	viewStats
	viewSettings
)

var viewNames = []string{"Home", "Day", "Planner", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tasksChangedMsg struct{}

type openDayMsg struct {
	date time.Time
}

type plannedMsg struct {
	tasks    []store.Task
	rejected []plan.Rejection
}

type planErrMsg struct {
	err error
}

type settingsDataMsg struct {
	settings []store.Setting
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// tasksForDate filters and orders a snapshot for one calendar day.
func tasksForDate(snapshot []store.Task, key string) []store.Task {
	var out []store.Task
	for _, t := range snapshot {
		if t.Date == key {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out
}
