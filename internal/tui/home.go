package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/registry"
	"github.com/sadopc/dayplan/internal/remind"
)

// homeModel shows a month calendar with per-day task markers and the
// selected day's tasks underneath.
type homeModel struct {
	reg    *registry.Registry
	width  int
	height int

	selected time.Time
}

func newHomeModel(reg *registry.Registry, selected time.Time) homeModel {
	return homeModel{reg: reg, selected: selected}
}

func (h *homeModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

func (h homeModel) update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.selected = h.selected.AddDate(0, 0, -1)
		case key.Matches(msg, keys.Right):
			h.selected = h.selected.AddDate(0, 0, 1)
		case key.Matches(msg, keys.Up):
			h.selected = h.selected.AddDate(0, 0, -7)
		case key.Matches(msg, keys.Down):
			h.selected = h.selected.AddDate(0, 0, 7)
		case key.Matches(msg, keys.PrevPage):
			h.selected = h.selected.AddDate(0, -1, 0)
		case key.Matches(msg, keys.NextPage):
			h.selected = h.selected.AddDate(0, 1, 0)
		case key.Matches(msg, keys.Enter):
			date := h.selected
			return h, func() tea.Msg { return openDayMsg{date: date} }
		}
	}
	return h, nil
}

func (h homeModel) view() string {
	w := h.width - 4

	calendar := h.renderCalendar()
	tasks := h.renderDayTasks()

	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Width(w).Render(calendar),
		panelStyle.Width(w).Render(tasks),
	)
}

func (h homeModel) renderCalendar() string {
	snapshot := h.reg.Snapshot()
	byDate := make(map[string]int)
	for _, t := range snapshot {
		byDate[t.Date]++
	}

	today := remind.DateKey(time.Now())
	selectedKey := remind.DateKey(h.selected)

	title := titleStyle.Render(h.selected.Format("January 2006"))

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(" Mo  Tu  We  Th  Fr  Sa  Su"))
	b.WriteString("\n")

	first := time.Date(h.selected.Year(), h.selected.Month(), 1, 0, 0, 0, 0, h.selected.Location())
	// Monday-first column offset.
	offset := int(first.Weekday()+6) % 7
	daysInMonth := first.AddDate(0, 1, -1).Day()

	col := 0
	for i := 0; i < offset; i++ {
		b.WriteString(calendarDayStyle.Render(""))
		col++
	}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(h.selected.Year(), h.selected.Month(), day, 0, 0, 0, 0, h.selected.Location())
		k := remind.DateKey(date)

		label := fmt.Sprintf("%d", day)
		if byDate[k] > 0 {
			label += "•"
		}

		style := calendarDayStyle
		switch k {
		case selectedKey:
			style = calendarSelectedStyle
		case today:
			style = calendarTodayStyle
		}
		b.WriteString(style.Render(label))

		col++
		if col%7 == 0 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (h homeModel) renderDayTasks() string {
	tasks := tasksForDate(h.reg.Snapshot(), remind.DateKey(h.selected))

	var rows []string
	rows = append(rows, titleStyle.Render(h.selected.Format("Monday, Jan 2")))
	rows = append(rows, "")

	if len(tasks) == 0 {
		rows = append(rows, mutedStyle.Render("  No tasks. Press n in the Day view, or 3 for the planner."))
	}

	for _, t := range tasks {
		marker := "○"
		style := normalItemStyle
		if t.Completed {
			marker = "●"
			style = completedItemStyle
		}
		urgent := ""
		if t.IsUrgent {
			urgent = accentStyle.Render(" !")
		}
		rows = append(rows, fmt.Sprintf("  %s %s %s%s",
			marker, mutedStyle.Render(t.Time), style.Render(t.Title), urgent))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: open day  [/]: month  arrows: move"))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
