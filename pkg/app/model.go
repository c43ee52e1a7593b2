package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/theme"
)

// Config holds the root model's settings.
type Config struct {
	// Updates is the collector runner's output. Nil disables fetching.
	Updates <-chan collectors.Update
	// Zones enables mouse support. Nil disables it.
	Zones *zone.Manager
	Theme theme.Theme
	// OnQuit runs once when the user quits, after widgets are stopped.
	OnQuit func()
	// Grid cell lower bounds; smaller terminals scroll.
	MinCellWidth  int
	MinCellHeight int
}

func DefaultConfig() Config {
	return Config{
		Theme:         theme.Default(),
		MinCellWidth:  38,
		MinCellHeight: 8,
	}
}

// AppModel is the root bubbletea model. It owns focus, expansion, search
// and help state, and forwards everything else to the widgets.
type AppModel struct {
	cfg Config

	widgets     map[string]Widget
	widgetOrder []string

	focusedWidget  string
	expandedWidget string

	width, height int

	quitting    bool
	helpVisible bool
	searchMode  bool
	searchQuery string

	keys KeyMap
	help help.Model
}

// NewAppModel builds the root model. Widgets keep the given order; the first
// one starts focused. Duplicate IDs keep the first widget.
func NewAppModel(cfg Config, widgets ...Widget) AppModel {
	def := DefaultConfig()
	if cfg.MinCellWidth <= 0 {
		cfg.MinCellWidth = def.MinCellWidth
	}
	if cfg.MinCellHeight <= 0 {
		cfg.MinCellHeight = def.MinCellHeight
	}
	if cfg.Theme.Name == "" {
		cfg.Theme = def.Theme
	}

	m := AppModel{
		cfg:     cfg,
		widgets: make(map[string]Widget, len(widgets)),
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
	m.help.Styles.ShortKey = cfg.Theme.Fg(cfg.Theme.HelpKey)
	m.help.Styles.FullKey = cfg.Theme.Fg(cfg.Theme.HelpKey)
	m.help.Styles.ShortDesc = cfg.Theme.Fg(cfg.Theme.HelpDesc)
	m.help.Styles.FullDesc = cfg.Theme.Fg(cfg.Theme.HelpDesc)

	for _, w := range widgets {
		if w == nil {
			continue
		}
		if _, dup := m.widgets[w.ID()]; dup {
			continue
		}
		m.widgets[w.ID()] = w
		m.widgetOrder = append(m.widgetOrder, w.ID())
	}
	if len(m.widgetOrder) > 0 {
		m.focusedWidget = m.widgetOrder[0]
	}
	return m
}

// Init starts every widget's timers and the collector listener.
func (m AppModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range m.widgetOrder {
		if in, ok := m.widgets[id].(Initializer); ok {
			cmds = appendCmd(cmds, in.Init())
		}
	}
	cmds = appendCmd(cmds, Listen(m.cfg.Updates))
	return batch(cmds)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			m.focusAt(msg)
		}
		return m, m.broadcast(msg)

	case DataUpdateEvent:
		cmds := appendCmd(nil, m.broadcast(msg))
		cmds = appendCmd(cmds, Listen(m.cfg.Updates))
		return m, batch(cmds)
	}

	return m, m.broadcast(msg)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.searchMode {
		m.handleSearchKey(msg)
		return m, nil
	}

	if m.helpVisible {
		switch {
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Back):
			m.helpVisible = false
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = true
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchQuery = ""
		m.expandedWidget = ""
	case key.Matches(msg, m.keys.Next):
		m.CycleFocusForward()
	case key.Matches(msg, m.keys.Prev):
		m.CycleFocusBackward()
	case key.Matches(msg, m.keys.Expand):
		m.ToggleExpand()
	case key.Matches(msg, m.keys.Back):
		if m.expandedWidget != "" {
			m.expandedWidget = ""
		} else if m.searchQuery != "" {
			m.searchQuery = ""
		}
	default:
		if w, ok := m.widgets[m.focusedWidget]; ok {
			return m, w.HandleKey(msg)
		}
	}
	return m, nil
}

func (m AppModel) quit() (tea.Model, tea.Cmd) {
	if !m.quitting {
		m.quitting = true
		for _, id := range m.widgetOrder {
			if s, ok := m.widgets[id].(Stopper); ok {
				s.Stop()
			}
		}
		if m.cfg.OnQuit != nil {
			m.cfg.OnQuit()
		}
	}
	return m, tea.Quit
}

// broadcast forwards msg to every widget and batches their commands.
func (m AppModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range m.widgetOrder {
		cmds = appendCmd(cmds, m.widgets[id].Update(msg))
	}
	return batch(cmds)
}

// focusAt focuses the widget whose cell contains the click.
func (m *AppModel) focusAt(msg tea.MouseMsg) {
	if m.cfg.Zones == nil {
		return
	}
	for _, id := range m.visibleIDs() {
		if m.cfg.Zones.Get(cellZoneID(id)).InBounds(msg) {
			m.focusedWidget = id
			return
		}
	}
}

func appendCmd(cmds []tea.Cmd, c tea.Cmd) []tea.Cmd {
	if c == nil {
		return cmds
	}
	return append(cmds, c)
}

func batch(cmds []tea.Cmd) tea.Cmd {
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

// Accessors, mostly for tests and the status bar.

func (m AppModel) Width() int               { return m.width }
func (m AppModel) Height() int              { return m.height }
func (m AppModel) FocusedWidgetID() string  { return m.focusedWidget }
func (m AppModel) ExpandedWidgetID() string { return m.expandedWidget }
func (m AppModel) Quitting() bool           { return m.quitting }
func (m AppModel) HelpVisible() bool        { return m.helpVisible }
func (m AppModel) SearchMode() bool         { return m.searchMode }
func (m AppModel) SearchQuery() string      { return m.searchQuery }

// Widgets returns the widgets in display order.
func (m AppModel) Widgets() []Widget {
	out := make([]Widget, len(m.widgetOrder))
	for i, id := range m.widgetOrder {
		out[i] = m.widgets[id]
	}
	return out
}
