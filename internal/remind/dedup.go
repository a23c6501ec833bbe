package remind

import "sync"

// Dedup remembers which task ids have already fired this process. It is
// deliberately not persisted: after a restart, same-day reminders whose
// window is still open re-arm, but strictly past windows never catch up.
// The habit alarm's last-fired day is persisted separately in the store.
type Dedup struct {
	mu    sync.Mutex
	fired map[string]struct{}
}

func NewDedup() *Dedup {
	return &Dedup{fired: make(map[string]struct{})}
}

func (d *Dedup) HasFired(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.fired[id]
	return ok
}

func (d *Dedup) MarkFired(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fired[id] = struct{}{}
}
