package app

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastTickerID int64

func nextTickerID() int {
	return int(atomic.AddInt64(&lastTickerID, 1))
}

// TickMsg is delivered to the ticker that scheduled it. The tag makes
// messages from an abandoned chain recognisable.
type TickMsg struct {
	ID   int
	Time time.Time
	tag  int
}

// Ticker is a per-widget, per-concern interval timer built on tea.Tick.
// Each accepted tick schedules exactly one successor, so a ticker never has
// more than one live chain.
type Ticker struct {
	id       int
	tag      int
	interval time.Duration
	stopped  bool
}

// NewTicker returns a ticker with a process-unique ID.
func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{id: nextTickerID(), interval: interval}
}

func (t *Ticker) ID() int                 { return t.id }
func (t *Ticker) Interval() time.Duration { return t.interval }
func (t *Ticker) Stopped() bool           { return t.stopped }

// Init starts (or restarts) the chain.
func (t *Ticker) Init() tea.Cmd {
	t.stopped = false
	t.tag++
	return t.tick()
}

// Update reports whether msg is this ticker's current tick and, if so,
// returns the command for the next one.
func (t *Ticker) Update(msg tea.Msg) (bool, tea.Cmd) {
	m, ok := msg.(TickMsg)
	if !ok || m.ID != t.id || t.stopped || m.tag != t.tag {
		return false, nil
	}
	t.tag++
	return true, t.tick()
}

// Stop abandons the chain. A tick already in flight is dropped on arrival.
func (t *Ticker) Stop() {
	t.stopped = true
	t.tag++
}

func (t *Ticker) tick() tea.Cmd {
	if t.interval <= 0 {
		return nil
	}
	id, tag := t.id, t.tag
	return tea.Tick(t.interval, func(now time.Time) tea.Msg {
		return TickMsg{ID: id, Time: now, tag: tag}
	})
}

// Msg returns the message the live chain will deliver next, stamped with
// now. It lets callers drive a widget synchronously instead of waiting on
// tea.Tick.
func (t *Ticker) Msg(now time.Time) TickMsg {
	return TickMsg{ID: t.id, Time: now, tag: t.tag}
}
