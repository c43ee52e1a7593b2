package app

import tea "github.com/charmbracelet/bubbletea"

// Widget is one tile of the dashboard.
type Widget interface {
	// ID is unique within the dashboard and doubles as the config key.
	ID() string
	Title() string
	// Update receives every message the root model does not consume itself,
	// including other widgets' ticks; widgets ignore what is not theirs.
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	MinSize() (int, int)
	// HandleKey receives keys while the widget has focus.
	HandleKey(key tea.KeyMsg) tea.Cmd
}

// Initializer is implemented by widgets that start timers.
type Initializer interface {
	Init() tea.Cmd
}

// Stopper is implemented by widgets holding timers; the root model calls
// Stop on quit.
type Stopper interface {
	Stop()
}

// Reporter is implemented by widgets that can describe their current state
// as plain values for snapshot output.
type Reporter interface {
	Report() map[string]any
}
