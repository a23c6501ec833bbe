package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/sadopc/dayplan/internal/registry"
	"github.com/sadopc/dayplan/internal/remind"
	"github.com/sadopc/dayplan/internal/store"
)

// dayModel lists one day's tasks and hosts the create/edit form.
type dayModel struct {
	reg    *registry.Registry
	width  int
	height int

	date   time.Time
	cursor int

	formActive bool
	form       *huh.Form
	editingID  string // empty while creating

	// Form values as pointers (survive value copies)
	fTitle       *string
	fDescription *string
	fTime        *string
	fReminder    *string
	fUrgent      *bool
}

func newDayModel(reg *registry.Registry, date time.Time) dayModel {
	title, desc, tr, rem := "", "", "", ""
	urgent := false
	return dayModel{
		reg:          reg,
		date:         date,
		fTitle:       &title,
		fDescription: &desc,
		fTime:        &tr,
		fReminder:    &rem,
		fUrgent:      &urgent,
	}
}

func (d *dayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d *dayModel) setDate(date time.Time) {
	d.date = date
	d.cursor = 0
}

func (d dayModel) tasks() []store.Task {
	return tasksForDate(d.reg.Snapshot(), remind.DateKey(d.date))
}

func (d dayModel) update(msg tea.Msg) (dayModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		tasks := d.tasks()
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(tasks)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.New):
			return d.showForm(nil)
		case key.Matches(msg, keys.Edit):
			if d.cursor < len(tasks) && !tasks[d.cursor].Completed {
				t := tasks[d.cursor]
				return d.showForm(&t)
			}
		case key.Matches(msg, keys.Complete):
			// Completion is one-way: a completed task stays completed.
			if d.cursor < len(tasks) && !tasks[d.cursor].Completed {
				t := tasks[d.cursor]
				t.Completed = true
				d.reg.Upsert(t)
				return d, func() tea.Msg { return statusMsg{text: "Completed: " + t.Title} }
			}
		case key.Matches(msg, keys.Urgent):
			if d.cursor < len(tasks) && !tasks[d.cursor].Completed {
				t := tasks[d.cursor]
				t.IsUrgent = !t.IsUrgent
				d.reg.Upsert(t)
			}
		case key.Matches(msg, keys.Delete):
			if d.cursor < len(tasks) {
				d.reg.Remove(tasks[d.cursor].ID)
				if d.cursor > 0 {
					d.cursor--
				}
			}
		}
	}
	return d, nil
}

func (d dayModel) showForm(t *store.Task) (dayModel, tea.Cmd) {
	if t != nil {
		d.editingID = t.ID
		*d.fTitle = t.Title
		*d.fDescription = t.Description
		*d.fTime = t.Time
		*d.fReminder = ""
		if t.ReminderMinutes != nil {
			*d.fReminder = strconv.Itoa(*t.ReminderMinutes)
		}
		*d.fUrgent = t.IsUrgent
	} else {
		d.editingID = ""
		*d.fTitle = ""
		*d.fDescription = ""
		*d.fTime = "09:00 - 10:00"
		*d.fReminder = ""
		*d.fUrgent = false
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(d.fTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewInput().Title("Description").Value(d.fDescription),
			huh.NewInput().Title("Time (HH:MM - HH:MM)").Value(d.fTime).
				Validate(func(s string) error {
					_, _, err := remind.ParseStart(s)
					return err
				}),
			huh.NewInput().Title("Remind minutes before (empty = none)").Value(d.fReminder).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 0 {
						return fmt.Errorf("enter a non-negative number")
					}
					return nil
				}),
			huh.NewConfirm().Title("Urgent?").Value(d.fUrgent),
		).Title("Task"),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dayModel) updateForm(msg tea.Msg) (dayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		d.saveForm()
		return d, func() tea.Msg { return tasksChangedMsg{} }
	}

	return d, cmd
}

func (d dayModel) saveForm() {
	task := store.Task{
		ID:          d.editingID,
		Date:        remind.DateKey(d.date),
		Time:        strings.TrimSpace(*d.fTime),
		Title:       strings.TrimSpace(*d.fTitle),
		Description: strings.TrimSpace(*d.fDescription),
		IsUrgent:    *d.fUrgent,
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	} else if existing := d.reg.Find(task.ID); existing != nil {
		task.Completed = existing.Completed
		task.CreatedAt = existing.CreatedAt
	}
	if r := strings.TrimSpace(*d.fReminder); r != "" {
		if n, err := strconv.Atoi(r); err == nil && n >= 0 {
			task.ReminderMinutes = &n
		}
	}
	d.reg.Upsert(task)
}

func (d dayModel) view() string {
	w := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render(d.date.Format("Monday, Jan 2"))
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()),
		)
	}

	tasks := d.tasks()

	var rows []string
	rows = append(rows, titleStyle.Render(d.date.Format("Monday, January 2, 2006")))
	rows = append(rows, "")

	if len(tasks) == 0 {
		rows = append(rows, mutedStyle.Render("  Nothing planned. Press n to add a task."))
	}

	for i, t := range tasks {
		cursor := "  "
		if i == d.cursor {
			cursor = selectedItemStyle.Render("> ")
		}

		marker := "○"
		style := normalItemStyle
		if t.Completed {
			marker = successStyle.Render("●")
			style = completedItemStyle
		}
		urgent := ""
		if t.IsUrgent {
			urgent = accentStyle.Render(" [urgent]")
		}
		reminder := ""
		if t.ReminderMinutes != nil {
			reminder = mutedStyle.Render(fmt.Sprintf(" ⏰ %dm before", *t.ReminderMinutes))
		}

		rows = append(rows, fmt.Sprintf("%s%s %s %s%s%s",
			cursor, marker, mutedStyle.Render(t.Time), style.Render(t.Title), urgent, reminder))
		if i == d.cursor && t.Description != "" {
			rows = append(rows, mutedStyle.Render("      "+t.Description))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  space: complete  u: urgent  d: delete"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
