package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/plan"
	"github.com/sadopc/dayplan/internal/remind"
	"github.com/sadopc/dayplan/internal/store"
)

const generateTimeout = 60 * time.Second

type plannerPhase int

const (
	plannerIdle plannerPhase = iota
	plannerPrompting
	plannerGenerating
	plannerReviewing
)

// plannerModel is the AI drawer: a free-text prompt is turned into
// candidate tasks, reviewed, and accepted into the registry as one batch.
type plannerModel struct {
	deps   Deps
	width  int
	height int

	date  time.Time
	phase plannerPhase

	form    *huh.Form
	fPrompt *string
	spin    spinner.Model

	candidates []store.Task
	rejected   []plan.Rejection
	err        error
}

func newPlannerModel(deps Deps, date time.Time) plannerModel {
	prompt := ""
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)
	return plannerModel{
		deps:    deps,
		date:    date,
		fPrompt: &prompt,
		spin:    sp,
	}
}

func (p *plannerModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *plannerModel) setDate(date time.Time) {
	p.date = date
}

func (p plannerModel) capturing() bool {
	return p.phase == plannerPrompting
}

func (p plannerModel) update(msg tea.Msg) (plannerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case plannedMsg:
		p.phase = plannerReviewing
		p.candidates = msg.tasks
		p.rejected = msg.rejected
		p.err = nil
		return p, nil

	case planErrMsg:
		p.phase = plannerIdle
		p.err = msg.err
		return p, nil

	case spinner.TickMsg:
		if p.phase == plannerGenerating {
			var cmd tea.Cmd
			p.spin, cmd = p.spin.Update(msg)
			return p, cmd
		}
		return p, nil
	}

	switch p.phase {
	case plannerPrompting:
		return p.updatePrompt(msg)
	case plannerReviewing:
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, keys.Enter):
				p.deps.Registry.UpsertBatch(p.candidates)
				n := len(p.candidates)
				p.phase = plannerIdle
				p.candidates = nil
				p.rejected = nil
				return p, func() tea.Msg {
					return statusMsg{text: fmt.Sprintf("Added %d tasks", n)}
				}
			case key.Matches(msg, keys.Back):
				p.phase = plannerIdle
				p.candidates = nil
				p.rejected = nil
				return p, nil
			}
		}
	case plannerIdle:
		if msg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.New) {
				return p.showPrompt()
			}
		}
	}
	return p, nil
}

func (p plannerModel) showPrompt() (plannerModel, tea.Cmd) {
	if p.deps.Planner == nil {
		p.err = fmt.Errorf("no API key configured; set anthropic.api_key in config.toml or ANTHROPIC_API_KEY")
		return p, nil
	}

	*p.fPrompt = ""
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(fmt.Sprintf("Describe your %s", p.date.Format("Monday, Jan 2"))).
				Placeholder("e.g. gym in the morning, team review at 2pm, call mom in the evening").
				Value(p.fPrompt),
		),
	).WithShowHelp(true)
	p.phase = plannerPrompting
	return p, p.form.Init()
}

func (p plannerModel) updatePrompt(msg tea.Msg) (plannerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.phase = plannerIdle
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		prompt := strings.TrimSpace(*p.fPrompt)
		p.form = nil
		if prompt == "" {
			p.phase = plannerIdle
			return p, nil
		}
		p.phase = plannerGenerating
		return p, tea.Batch(p.spin.Tick, p.generate(prompt))
	}

	return p, cmd
}

func (p plannerModel) generate(prompt string) tea.Cmd {
	planner := p.deps.Planner
	date := remind.DateKey(p.date)
	history := p.deps.Registry.Snapshot()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()

		candidates, err := planner.Generate(ctx, prompt, date, history)
		if err != nil {
			return planErrMsg{err: err}
		}

		tasks, rejected := plan.Validate(candidates, date)
		return plannedMsg{tasks: tasks, rejected: rejected}
	}
}

func (p plannerModel) view() string {
	w := p.width - 4

	switch p.phase {
	case plannerPrompting:
		if p.form != nil {
			return activePanelStyle.Width(w).Render(p.form.View())
		}
	case plannerGenerating:
		return panelStyle.Width(w).Render(
			fmt.Sprintf("%s Planning your day...", p.spin.View()),
		)
	case plannerReviewing:
		return panelStyle.Width(w).Render(p.renderReview())
	}

	var rows []string
	rows = append(rows, titleStyle.Render("AI Planner"))
	rows = append(rows, "")
	rows = append(rows, normalItemStyle.Render("  Describe your day in plain words and get a schedule back."))
	rows = append(rows, "")
	if p.err != nil {
		rows = append(rows, errorStyle.Render("  "+p.err.Error()))
		rows = append(rows, "")
	}
	rows = append(rows, mutedStyle.Render("  enter: start planning"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (p plannerModel) renderReview() string {
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Suggested schedule for %s", p.date.Format("Jan 2"))))
	rows = append(rows, "")

	if len(p.candidates) == 0 {
		rows = append(rows, mutedStyle.Render("  The model returned no usable tasks."))
	}
	for _, t := range p.candidates {
		urgent := ""
		if t.IsUrgent {
			urgent = accentStyle.Render(" !")
		}
		reminder := ""
		if t.ReminderMinutes != nil {
			reminder = mutedStyle.Render(fmt.Sprintf("  (remind %dm before)", *t.ReminderMinutes))
		}
		rows = append(rows, fmt.Sprintf("  %s %s%s%s",
			mutedStyle.Render(t.Time), normalItemStyle.Render(t.Title), urgent, reminder))
		if t.Description != "" {
			rows = append(rows, mutedStyle.Render("      "+t.Description))
		}
	}

	if len(p.rejected) > 0 {
		rows = append(rows, "")
		rows = append(rows, warningStyle.Render(fmt.Sprintf("  %d suggestion(s) dropped:", len(p.rejected))))
		for _, r := range p.rejected {
			rows = append(rows, mutedStyle.Render("    - "+r.String()))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: accept all  esc: discard"))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
