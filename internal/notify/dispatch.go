// Package notify turns fire events into system notifications and audio
// cues. Everything here is best-effort: a revoked permission or a broken
// audio setup is logged and swallowed, never surfaced to the scheduler.
package notify

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/sadopc/dayplan/internal/remind"
)

// HabitTag is the stable notification tag for the daily check-in, so
// repeated habit notifications coalesce at the OS level where supported.
const HabitTag = "habit-check-in"

// Payload is the rendered notification content for one fire event.
type Payload struct {
	Title string
	Body  string
	Tag   string
}

// BuildPayload renders a fire event into notification content. Pure, so
// the formatting is testable without touching the OS.
func BuildPayload(ev remind.Event) Payload {
	if ev.Kind == remind.HabitReminder {
		return Payload{
			Title: "Daily check-in",
			Body:  "Time for your daily check-in. Keep the streak going!",
			Tag:   HabitTag,
		}
	}
	t := ev.Task
	body := t.Time
	if t.Description != "" {
		body = fmt.Sprintf("%s\n%s", t.Time, t.Description)
	}
	title := fmt.Sprintf("Schedule reminder: %s", t.Title)
	if t.IsUrgent {
		title = fmt.Sprintf("Urgent reminder: %s", t.Title)
	}
	return Payload{Title: title, Body: body, Tag: t.ID}
}

type Dispatcher struct {
	log    *slog.Logger
	player *player

	mu         sync.Mutex
	permission Permission
	ringtone   Ringtone
}

// NewDispatcher builds a dispatcher with the persisted permission state
// and selected ringtone.
func NewDispatcher(permission Permission, ringtoneName string, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		log:        log,
		player:     newPlayer(log),
		permission: permission,
		ringtone:   RingtoneByName(ringtoneName),
	}
}

// SetPermission updates the permission state after the user answered the
// prompt in settings.
func (d *Dispatcher) SetPermission(p Permission) {
	d.mu.Lock()
	d.permission = p
	d.mu.Unlock()
}

// SetRingtone switches the audio cue.
func (d *Dispatcher) SetRingtone(name string) {
	d.mu.Lock()
	d.ringtone = RingtoneByName(name)
	d.mu.Unlock()
}

// Permission returns the current permission state.
func (d *Dispatcher) Permission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.permission
}

// Dispatch shows a system notification and plays the audio cue. Failures
// are logged; the event still counts as fired and is never retried.
func (d *Dispatcher) Dispatch(ev remind.Event) {
	d.mu.Lock()
	permission := d.permission
	ringtone := d.ringtone
	d.mu.Unlock()

	if permission != Granted {
		d.log.Debug("notification suppressed", "permission", string(permission))
		return
	}

	p := BuildPayload(ev)
	if err := beeep.Notify(p.Title, p.Body, ""); err != nil {
		d.log.Warn("system notification failed", "tag", p.Tag, "err", err)
	}
	d.player.play(ringtone)
}
