package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/remind"
	"github.com/sadopc/dayplan/internal/store"
)

type statsModel struct {
	deps   Deps
	width  int
	height int

	offset int // 7-day blocks back from today (0 = current)
}

func newStatsModel(deps Deps) statsModel {
	return statsModel{deps: deps}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Left):
			m.offset++
		case key.Matches(msg, keys.Right):
			if m.offset > 0 {
				m.offset--
			}
		}
	}
	return m, nil
}

func (m statsModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, 1-7*m.offset)
	start := end.AddDate(0, 0, -7)
	return start, end
}

type dayCount struct {
	completed int
	open      int
}

// countByDay buckets the current snapshot into per-day completed/open totals.
func (m statsModel) countByDay() map[string]dayCount {
	counts := make(map[string]dayCount)
	for _, t := range m.deps.Registry.Snapshot() {
		c := counts[t.Date]
		if t.Completed {
			c.completed++
		} else {
			c.open++
		}
		counts[t.Date] = c
	}
	return counts
}

func (m statsModel) buildChart(counts map[string]dayCount) barchart.Model {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	chart := barchart.New(chartWidth, chartHeight)

	from, to := m.dateRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		c := counts[remind.DateKey(d)]

		var values []barchart.BarValue
		if c.completed > 0 {
			values = append(values, barchart.BarValue{
				Name:  "Done",
				Value: float64(c.completed),
				Style: successStyle,
			})
		}
		if c.open > 0 {
			values = append(values, barchart.BarValue{
				Name:  "Open",
				Value: float64(c.open),
				Style: highlightStyle,
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: values,
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart
}

func (m statsModel) view() string {
	w := m.width - 4

	counts := m.countByDay()
	chart := m.buildChart(counts)

	nickname, err := m.deps.Store.GetSetting(store.KeyNickname)
	if err != nil || nickname == "" {
		nickname = "Planner"
	}

	from, to := m.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render(fmt.Sprintf("%s's Week", nickname)), "  ", dateLabel,
	)

	summary := m.renderSummary(counts, from, to)

	legend := fmt.Sprintf("  %s Done  %s Open",
		successStyle.Render("●"), highlightStyle.Render("●"))

	nav := mutedStyle.Render("  ←/→: navigate weeks")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chart.View(), "", legend, "", summary, "", nav,
		),
	)
}

func (m statsModel) renderSummary(counts map[string]dayCount, from, to time.Time) string {
	var done, open int
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		c := counts[remind.DateKey(d)]
		done += c.completed
		open += c.open
	}

	total := done + open
	if total == 0 {
		return mutedStyle.Render("  No tasks in this period")
	}

	pct := 100 * done / total
	var rows []string
	rows = append(rows, fmt.Sprintf("  %-12s %s", "Tasks", titleStyle.Render(fmt.Sprintf("%d", total))))
	rows = append(rows, fmt.Sprintf("  %-12s %s", "Completed", successStyle.Render(fmt.Sprintf("%d (%d%%)", done, pct))))
	rows = append(rows, fmt.Sprintf("  %-12s %s", "Open", highlightStyle.Render(fmt.Sprintf("%d", open))))
	return strings.Join(rows, "\n")
}
