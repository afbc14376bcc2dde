package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the trailing-edge window used when none is
// configured. Editors often write a file several times in quick
// succession; one reload at the end is enough.
const DefaultDebounceDuration = 200 * time.Millisecond

// Debouncer coalesces bursts of Trigger calls into a single callback
// invocation after a quiet period. There is no queue: a pending timer is
// always replaced by the next Trigger, so at most one invocation is ever
// outstanding.
type Debouncer struct {
	d     time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a Debouncer with the given quiet window.
func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDebounceDuration
	}
	return &Debouncer{d: d}
}

// Trigger schedules fn to run after the quiet window, replacing any
// previously scheduled call.
func (b *Debouncer) Trigger(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.d, fn)
}

// TriggerAfter is Trigger with a one-off window, used when one event
// class is more expensive than the default (e.g. resizes).
func (b *Debouncer) TriggerAfter(d time.Duration, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(d, fn)
}

// Cancel drops any pending call.
func (b *Debouncer) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// Pending reports whether a call is currently scheduled. Best-effort; a
// timer may fire between the check and the caller acting on it.
func (b *Debouncer) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.timer != nil
}
