package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/roadwork/pkg/watcher"
)

// Render scheduling windows. Pans and zooms coalesce over a short window;
// resizes recompute both canvas size and scale, so they get a longer one.
const (
	RenderBatchWindow = 50 * time.Millisecond
	ResizeBatchWindow = 150 * time.Millisecond
)

// Scheduler funnels every visual state change into at most one pending
// paint. Repeated ScheduleRender calls within the batch window replace
// the pending timer rather than queueing, so two rapid changes (zoom
// then pan) produce exactly one paint reflecting the latest combined
// state — never a stale intermediate frame after a correct one.
type Scheduler struct {
	deb *watcher.Debouncer

	mu      sync.Mutex
	paintCh chan struct{}
	paints  int
}

// NewScheduler creates a Scheduler. Paint notifications arrive on
// Painted(); the TUI turns them into messages with WaitPaintCmd.
func NewScheduler() *Scheduler {
	return &Scheduler{
		deb:     watcher.NewDebouncer(RenderBatchWindow),
		paintCh: make(chan struct{}, 1),
	}
}

// ScheduleRender requests a paint after the standard batch window,
// replacing any pending request.
func (s *Scheduler) ScheduleRender() {
	s.deb.Trigger(s.firePaint)
}

// ScheduleResize requests a paint after the longer resize window,
// replacing any pending request (including a shorter render one — the
// resize recompute subsumes it).
func (s *Scheduler) ScheduleResize() {
	s.deb.TriggerAfter(ResizeBatchWindow, s.firePaint)
}

// Pending reports whether a paint is currently scheduled.
func (s *Scheduler) Pending() bool {
	return s.deb.Pending()
}

// Painted returns the channel that receives one signal per coalesced
// paint request.
func (s *Scheduler) Painted() <-chan struct{} {
	return s.paintCh
}

// PaintCount returns the number of paints fired so far (test hook).
func (s *Scheduler) PaintCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paints
}

func (s *Scheduler) firePaint() {
	s.mu.Lock()
	s.paints++
	s.mu.Unlock()
	// Non-blocking: a signal already waiting covers this paint too.
	select {
	case s.paintCh <- struct{}{}:
	default:
	}
}

// paintMsg tells the model to rebuild its cached frame.
type paintMsg struct{}

// WaitPaintCmd returns a command that waits for the next coalesced paint
// signal and delivers it as a paintMsg. The model re-issues it after
// every paint, mirroring the file-watch command loop.
func WaitPaintCmd(s *Scheduler) tea.Cmd {
	return func() tea.Msg {
		<-s.Painted()
		return paintMsg{}
	}
}
