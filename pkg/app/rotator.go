package app

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/samber/lo"
)

var lastRotatorID int64

// Rotator cycles a widget through its view modes on a fixed period. Manual
// selection (number keys, arrows, clicking a tab) changes the mode at once
// but does not reset the period: the next automatic step advances from
// whatever mode is current.
type Rotator struct {
	modes  []string
	index  int
	ticker *Ticker
	prefix string
	zones  *zone.Manager
}

// NewRotator returns a rotator starting at modes[0]. A period of zero or
// less disables automatic rotation.
func NewRotator(period time.Duration, modes ...string) *Rotator {
	r := &Rotator{
		modes:  modes,
		prefix: "rot" + strconv.FormatInt(atomic.AddInt64(&lastRotatorID, 1), 10) + "-",
	}
	if period > 0 {
		r.ticker = NewTicker(period)
	}
	return r
}

// WithZones enables clickable tabs.
func (r *Rotator) WithZones(z *zone.Manager) *Rotator {
	r.zones = z
	return r
}

func (r *Rotator) Init() tea.Cmd {
	if r.ticker == nil {
		return nil
	}
	return r.ticker.Init()
}

func (r *Rotator) Stop() {
	if r.ticker != nil {
		r.ticker.Stop()
	}
}

// Auto reports whether the rotator advances on its own.
func (r *Rotator) Auto() bool { return r.ticker != nil }

// Ticker exposes the rotation timer, nil when rotation is manual.
func (r *Rotator) Ticker() *Ticker { return r.ticker }

// Update advances one mode when msg is the rotator's tick.
func (r *Rotator) Update(msg tea.Msg) (bool, tea.Cmd) {
	if r.ticker == nil {
		return false, nil
	}
	fired, cmd := r.ticker.Update(msg)
	if fired {
		r.Next()
	}
	return fired, cmd
}

func (r *Rotator) Modes() []string { return r.modes }
func (r *Rotator) Index() int      { return r.index }

// Current returns the active mode, "" for a rotator without modes.
func (r *Rotator) Current() string {
	if len(r.modes) == 0 {
		return ""
	}
	return r.modes[r.index]
}

func (r *Rotator) Next() {
	if len(r.modes) == 0 {
		return
	}
	r.index = (r.index + 1) % len(r.modes)
}

func (r *Rotator) Prev() {
	if len(r.modes) == 0 {
		return
	}
	r.index = (r.index - 1 + len(r.modes)) % len(r.modes)
}

// Set selects mode by name. Unknown modes are ignored.
func (r *Rotator) Set(mode string) bool {
	i := lo.IndexOf(r.modes, mode)
	if i < 0 {
		return false
	}
	r.index = i
	return true
}

// SetIndex selects mode by position. Out-of-range indexes are ignored.
func (r *Rotator) SetIndex(i int) bool {
	if i < 0 || i >= len(r.modes) {
		return false
	}
	r.index = i
	return true
}

// HandleKey applies the mode keys: left/right step, 1-9 pick.
func (r *Rotator) HandleKey(msg tea.KeyMsg) bool {
	keys := DefaultKeyMap()
	switch {
	case key.Matches(msg, keys.ModeNext):
		r.Next()
	case key.Matches(msg, keys.ModePrev):
		r.Prev()
	case key.Matches(msg, keys.ModePick):
		n, err := strconv.Atoi(msg.String())
		if err != nil {
			return false
		}
		return r.SetIndex(n - 1)
	default:
		return false
	}
	return true
}

// HandleMouse selects the tab under a left click.
func (r *Rotator) HandleMouse(msg tea.MouseMsg) bool {
	if r.zones == nil || msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return false
	}
	for i := range r.modes {
		if r.zones.Get(r.zoneID(i)).InBounds(msg) {
			return r.SetIndex(i)
		}
	}
	return false
}

// Tabs renders the mode labels as a tab strip, the active one highlighted.
func (r *Rotator) Tabs(active, inactive lipgloss.Style) string {
	tabs := lo.Map(r.modes, func(m string, i int) string {
		st := inactive
		if i == r.index {
			st = active
		}
		label := st.Render(" " + m + " ")
		if r.zones != nil {
			label = r.zones.Mark(r.zoneID(i), label)
		}
		return label
	})
	return strings.Join(tabs, " ")
}

func (r *Rotator) zoneID(i int) string {
	return r.prefix + strconv.Itoa(i)
}
