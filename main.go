package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/dayplan/internal/config"
	"github.com/sadopc/dayplan/internal/notify"
	"github.com/sadopc/dayplan/internal/plan"
	"github.com/sadopc/dayplan/internal/registry"
	"github.com/sadopc/dayplan/internal/remind"
	"github.com/sadopc/dayplan/internal/store"
	"github.com/sadopc/dayplan/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return err
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	reg, err := registry.Load(s, log)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	perm, _ := s.GetSetting(store.KeyNotificationPermission)
	ringtone, _ := s.GetSetting(store.KeyRingtone)
	dispatcher := notify.NewDispatcher(notify.ParsePermission(perm), ringtone, log)

	notifEnabled, _ := s.GetSetting(store.KeyNotificationsEnabled)
	alarm, err := s.GetHabitAlarm()
	if err != nil {
		return fmt.Errorf("loading habit alarm: %w", err)
	}

	sched := remind.New(reg, dispatcher, s, remind.Config{
		NotificationsEnabled: notifEnabled == "true",
		HabitEnabled:         alarm.Enabled,
		HabitTime:            alarm.TimeOfDay,
	}, alarm.LastFiredDate, log)
	sched.SetInterval(time.Duration(cfg.IntervalSeconds) * time.Second)

	planner, err := plan.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
	if err != nil && !errors.Is(err, plan.ErrAPIKeyRequired) {
		return fmt.Errorf("planner: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	app := tui.NewApp(tui.Deps{
		Store:      s,
		Registry:   reg,
		Scheduler:  sched,
		Dispatcher: dispatcher,
		Planner:    planner,
		Log:        log,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	cancel()
	reg.Wait()
	return nil
}

// openLogger writes structured logs to ~/.config/dayplan/dayplan.log.
// Stderr is owned by the TUI, so a file is the only sane sink.
func openLogger() (*slog.Logger, func(), error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, err
	}
	dir := filepath.Join(home, ".config", "dayplan")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, "dayplan.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		// Log to nowhere rather than refusing to start.
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return log, func() { f.Close() }, nil
}
