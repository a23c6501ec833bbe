package tui

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/notify"
	"github.com/sadopc/dayplan/internal/remind"
	"github.com/sadopc/dayplan/internal/store"
)

var timeOfDayRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type settingsModel struct {
	deps   Deps
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Which form is showing: the main settings form, the permission
	// prompt, or the clear-all confirmation.
	asking   bool
	clearing bool

	// Form values as pointers (survive value copies)
	fNotif      *bool
	fRingtone   *string
	fHabit      *bool
	fHabitTime  *string
	fNickname   *string
	fPermission *bool
	fClear      *bool
}

func newSettingsModel(deps Deps) settingsModel {
	notif, habit, perm, clear := false, false, false, false
	ringtone, habitTime, nickname := "", "", ""
	return settingsModel{
		deps:        deps,
		fNotif:      &notif,
		fRingtone:   &ringtone,
		fHabit:      &habit,
		fHabitTime:  &habitTime,
		fNickname:   &nickname,
		fPermission: &perm,
		fClear:      &clear,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.deps.Store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		case key.Matches(msg, keys.Delete):
			return s.showClearConfirm()
		}
	}
	return s, nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.deps.Store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.fNotif = s.getVal(store.KeyNotificationsEnabled, "false") == "true"
	*s.fRingtone = s.getVal(store.KeyRingtone, "bell")
	*s.fHabit = s.getVal(store.KeyHabitEnabled, "false") == "true"
	*s.fHabitTime = s.getVal(store.KeyHabitTime, "22:00")
	*s.fNickname = s.getVal(store.KeyNickname, "Planner")

	var ringtoneOpts []huh.Option[string]
	for _, r := range notify.Ringtones {
		ringtoneOpts = append(ringtoneOpts, huh.NewOption(r.Label, r.Name))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Task reminders").Value(s.fNotif),
			huh.NewSelect[string]().Title("Reminder sound").
				Options(ringtoneOpts...).Value(s.fRingtone),
		).Title("Notifications"),
		huh.NewGroup(
			huh.NewConfirm().Title("Daily check-in reminder").Value(s.fHabit),
			huh.NewInput().Title("Check-in time (HH:MM)").Value(s.fHabitTime).
				Validate(func(v string) error {
					if !timeOfDayRe.MatchString(v) {
						return fmt.Errorf("use 24h HH:MM")
					}
					return nil
				}),
		).Title("Daily check-in"),
		huh.NewGroup(
			huh.NewInput().Title("Nickname").Value(s.fNickname),
		).Title("Profile"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	s.asking = false
	s.clearing = false
	return s, s.form.Init()
}

func (s settingsModel) showPermissionPrompt() (settingsModel, tea.Cmd) {
	*s.fPermission = false
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Allow system notifications?").
				Description("dayplan will push a reminder before each task starts and at your daily check-in time.").
				Affirmative("Allow").
				Negative("Not now").
				Value(s.fPermission),
		),
	)
	s.formActive = true
	s.asking = true
	return s, s.form.Init()
}

func (s settingsModel) showClearConfirm() (settingsModel, tea.Cmd) {
	*s.fClear = false
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Erase all local data?").
				Description("Every task is removed from this machine. This cannot be undone.").
				Affirmative("Erase").
				Negative("Cancel").
				Value(s.fClear),
		),
	)
	s.formActive = true
	s.clearing = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.asking = false
			s.clearing = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State != huh.StateCompleted {
		return s, cmd
	}
	s.formActive = false
	s.form = nil

	switch {
	case s.clearing:
		s.clearing = false
		if *s.fClear {
			return s, s.clearAll()
		}
		return s, nil

	case s.asking:
		s.asking = false
		perm := notify.Denied
		if *s.fPermission {
			perm = notify.Granted
		}
		s.deps.Store.SetSetting(store.KeyNotificationPermission, string(perm))
		s.deps.Dispatcher.SetPermission(perm)
		if perm == notify.Denied {
			*s.fNotif = false
		}
		return s.applySettings()

	default:
		// Enabling reminders requires the permission prompt first.
		perm := notify.ParsePermission(s.getVal(store.KeyNotificationPermission, ""))
		if (*s.fNotif || *s.fHabit) && perm == notify.NotYetAsked {
			return s.showPermissionPrompt()
		}
		if (*s.fNotif || *s.fHabit) && perm == notify.Denied {
			*s.fNotif = false
			*s.fHabit = false
			s2, cmd2 := s.applySettings()
			notice := func() tea.Msg {
				return statusMsg{text: "Notifications are blocked; allow them to use reminders", isError: true}
			}
			return s2, tea.Batch(cmd2, notice)
		}
		return s.applySettings()
	}
}

// applySettings persists every field and pushes the new state into the
// dispatcher and scheduler.
func (s settingsModel) applySettings() (settingsModel, tea.Cmd) {
	st := s.deps.Store
	st.SetSetting(store.KeyNotificationsEnabled, boolVal(*s.fNotif))
	st.SetSetting(store.KeyRingtone, *s.fRingtone)
	st.SetHabitAlarm(*s.fHabit, *s.fHabitTime)
	st.SetSetting(store.KeyNickname, *s.fNickname)

	s.deps.Dispatcher.SetRingtone(*s.fRingtone)
	s.deps.Scheduler.SetConfig(remind.Config{
		NotificationsEnabled: *s.fNotif,
		HabitEnabled:         *s.fHabit,
		HabitTime:            *s.fHabitTime,
	})

	return s, s.refresh()
}

func (s settingsModel) clearAll() tea.Cmd {
	reg := s.deps.Registry
	st := s.deps.Store
	return func() tea.Msg {
		if err := st.ClearTasks(); err != nil {
			return statusMsg{text: fmt.Sprintf("Clear failed: %v", err), isError: true}
		}
		reg.Clear()
		return statusMsg{text: "All local data erased"}
	}
}

func boolVal(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("enter: edit  d: erase all data")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(26).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.KeyRingtone:
		return notify.RingtoneByName(v).Label
	case store.KeyHabitLastFired:
		if v == "" {
			return "never"
		}
	}
	return v
}
