package notify

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/gen2brain/beeep"
)

// candidate CLI players, probed once in order.
var playerCommands = []string{"paplay", "aplay", "afplay", "play"}

// player plays ringtone files through whatever CLI audio player the host
// has, falling back to the terminal bell.
type player struct {
	log *slog.Logger

	once    sync.Once
	command string
	dir     string
}

func newPlayer(log *slog.Logger) *player {
	return &player{log: log}
}

func (p *player) probe() {
	for _, c := range playerCommands {
		if _, err := exec.LookPath(c); err == nil {
			p.command = c
			break
		}
	}
	if cfg, err := os.UserConfigDir(); err == nil {
		p.dir = filepath.Join(cfg, "dayplan", "sounds")
	}
}

// play is fire-and-forget: playback errors are logged, never returned.
func (p *player) play(r Ringtone) {
	p.once.Do(p.probe)

	file := filepath.Join(p.dir, r.File)
	if p.command == "" || p.dir == "" {
		p.beep()
		return
	}
	if _, err := os.Stat(file); err != nil {
		p.beep()
		return
	}

	go func() {
		if err := exec.Command(p.command, file).Run(); err != nil {
			p.log.Warn("audio cue failed", "ringtone", r.Name, "err", err)
		}
	}()
}

func (p *player) beep() {
	go func() {
		_ = beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
	}()
}
