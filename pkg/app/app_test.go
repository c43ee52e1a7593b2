package app

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/components"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// mockWidget records what the root model sends it.
type mockWidget struct {
	id, title string
	msgs      []tea.Msg
	keys      []string
	inits     int
	stops     int
}

func newMock(id, title string) *mockWidget { return &mockWidget{id: id, title: title} }

func (w *mockWidget) ID() string    { return w.id }
func (w *mockWidget) Title() string { return w.title }
func (w *mockWidget) Update(msg tea.Msg) tea.Cmd {
	w.msgs = append(w.msgs, msg)
	return nil
}
func (w *mockWidget) View(width, height int) string {
	return components.FitBlock([]string{w.title}, width, height)
}
func (w *mockWidget) MinSize() (int, int) { return 10, 3 }
func (w *mockWidget) HandleKey(k tea.KeyMsg) tea.Cmd {
	w.keys = append(w.keys, k.String())
	return nil
}
func (w *mockWidget) Init() tea.Cmd { w.inits++; return nil }
func (w *mockWidget) Stop()         { w.stops++ }

func newTestModel() AppModel {
	return NewAppModel(DefaultConfig(),
		NewPlaceholder("debt", "Debt", "無効"),
		NewPlaceholder("population", "Population", "無効"),
		NewPlaceholder("weather", "Weather", "無効"),
	)
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(AppModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewAppModelSkipsNilAndDuplicates(t *testing.T) {
	a, b := newMock("a", "A"), newMock("a", "A2")
	m := NewAppModel(DefaultConfig(), a, nil, b, newMock("c", "C"))

	ws := m.Widgets()
	if len(ws) != 2 {
		t.Fatalf("expected 2 widgets, got %d", len(ws))
	}
	if ws[0] != a {
		t.Error("duplicate ID should keep the first widget")
	}
	if m.FocusedWidgetID() != "a" {
		t.Errorf("expected focus on first widget, got %q", m.FocusedWidgetID())
	}
}

func TestNewAppModelWithNoWidgets(t *testing.T) {
	m := NewAppModel(DefaultConfig())
	if m.FocusedWidgetID() != "" {
		t.Errorf("expected no focus, got %q", m.FocusedWidgetID())
	}
	if m.Init() != nil {
		t.Error("Init with nothing to start should return nil")
	}
	m, _ = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.View() == "" {
		t.Error("empty dashboard should still render")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MinCellWidth != 38 || cfg.MinCellHeight != 8 {
		t.Errorf("unexpected cell bounds %dx%d", cfg.MinCellWidth, cfg.MinCellHeight)
	}
	if cfg.Theme.Name != "default" {
		t.Errorf("expected default theme, got %q", cfg.Theme.Name)
	}
}

func TestInitStartsWidgetsAndListener(t *testing.T) {
	w := newMock("a", "A")
	updates := make(chan collectors.Update, 1)
	cfg := DefaultConfig()
	cfg.Updates = updates
	m := NewAppModel(cfg, w)

	cmd := m.Init()
	if w.inits != 1 {
		t.Errorf("expected widget Init once, got %d", w.inits)
	}
	if cmd == nil {
		t.Fatal("expected the listener command")
	}

	updates <- collectors.Update{Source: "fx", Data: 150.0}
	ev, ok := cmd().(DataUpdateEvent)
	if !ok {
		t.Fatal("listener should deliver a DataUpdateEvent")
	}
	if ev.Source != "fx" || ev.Data.(float64) != 150.0 {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestListenClosedChannel(t *testing.T) {
	if Listen(nil) != nil {
		t.Error("nil channel should give a nil command")
	}
	ch := make(chan collectors.Update)
	close(ch)
	if msg := Listen(ch)(); msg != nil {
		t.Errorf("closed channel should yield nil, got %v", msg)
	}
}

func TestFromUpdate(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	err := errors.New("boom")
	ev := FromUpdate(collectors.Update{Source: "news", Error: err, Timestamp: now})
	if ev.Source != "news" || ev.Err != err || !ev.Timestamp.Equal(now) {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestDataUpdateEventBroadcastAndRelisten(t *testing.T) {
	a, b := newMock("a", "A"), newMock("b", "B")
	updates := make(chan collectors.Update, 1)
	cfg := DefaultConfig()
	cfg.Updates = updates
	m := NewAppModel(cfg, a, b)

	ev := DataUpdateEvent{Source: "weather", Data: 21.5}
	_, cmd := update(m, ev)

	for _, w := range []*mockWidget{a, b} {
		if len(w.msgs) != 1 || w.msgs[0] != tea.Msg(ev) {
			t.Errorf("widget %s did not receive the event: %v", w.id, w.msgs)
		}
	}
	if cmd == nil {
		t.Fatal("expected the listener to be re-issued")
	}
	updates <- collectors.Update{Source: "quakes"}
	if next, ok := cmd().(DataUpdateEvent); !ok || next.Source != "quakes" {
		t.Errorf("re-issued listener returned %v", next)
	}
}

func TestDataUpdateWithoutUpdatesChannel(t *testing.T) {
	w := newMock("a", "A")
	m := NewAppModel(DefaultConfig(), w)
	_, cmd := update(m, DataUpdateEvent{Source: "fx", Err: errors.New("down")})
	if cmd != nil {
		t.Error("no channel means nothing to re-listen on")
	}
	if len(w.msgs) != 1 {
		t.Errorf("errors are still delivered to widgets, got %d msgs", len(w.msgs))
	}
}

func TestWindowSizeMsgUpdatesDimensions(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.Width() != 120 || m.Height() != 40 {
		t.Errorf("expected 120x40, got %dx%d", m.Width(), m.Height())
	}
}

func TestTabCyclesFocusForward(t *testing.T) {
	m := newTestModel()
	want := []string{"population", "weather", "debt"}
	for _, id := range want {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
		if m.FocusedWidgetID() != id {
			t.Errorf("expected focus on %q, got %q", id, m.FocusedWidgetID())
		}
	}
}

func TestShiftTabCyclesFocusBackward(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.FocusedWidgetID() != "weather" {
		t.Errorf("expected wrap to 'weather', got %q", m.FocusedWidgetID())
	}
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.FocusedWidgetID() != "population" {
		t.Errorf("expected 'population', got %q", m.FocusedWidgetID())
	}
}

func TestFocusWidget(t *testing.T) {
	m := newTestModel()
	m.FocusWidget("weather")
	if m.FocusedWidgetID() != "weather" {
		t.Errorf("expected 'weather', got %q", m.FocusedWidgetID())
	}
	m.FocusWidget("nope")
	if m.FocusedWidgetID() != "weather" {
		t.Errorf("unknown ID should not move focus, got %q", m.FocusedWidgetID())
	}
}

func TestExpandAndCollapse(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.ExpandedWidgetID() != "debt" {
		t.Fatalf("expected 'debt' expanded, got %q", m.ExpandedWidgetID())
	}
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.ExpandedWidgetID() != "" {
		t.Errorf("Esc should collapse, got %q", m.ExpandedWidgetID())
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.ExpandedWidgetID() != "" {
		t.Errorf("second Enter should collapse, got %q", m.ExpandedWidgetID())
	}
}

func TestEscNoOpWhenNothingExpanded(t *testing.T) {
	m := newTestModel()
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEscape})
	if cmd != nil || m.ExpandedWidgetID() != "" || m.Quitting() {
		t.Error("Esc with nothing expanded should do nothing")
	}
}

func TestExpandedWidgetRendersFullscreen(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	view := m.View()
	if !strings.Contains(view, "Population") {
		t.Error("expanded view should show the widget title")
	}
	if strings.Contains(view, "Weather") {
		t.Error("expanded view should hide other widgets")
	}
}

func TestQuitStopsWidgetsOnce(t *testing.T) {
	w := newMock("a", "A")
	quits := 0
	cfg := DefaultConfig()
	cfg.OnQuit = func() { quits++ }
	m := NewAppModel(cfg, w)

	m, cmd := update(m, runes("q"))
	if !isQuit(cmd) {
		t.Fatal("q should return tea.Quit")
	}
	if !m.Quitting() {
		t.Error("model should be quitting")
	}
	_, cmd = update(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !isQuit(cmd) {
		t.Error("ctrl+c should return tea.Quit")
	}
	if w.stops != 1 || quits != 1 {
		t.Errorf("expected one Stop and one OnQuit, got %d and %d", w.stops, quits)
	}
	if m.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, _ = update(m, runes("?"))
	if !m.HelpVisible() {
		t.Fatal("? should open help")
	}
	if !strings.Contains(m.View(), "キー操作") {
		t.Error("help overlay should be rendered")
	}

	// Navigation keys are swallowed while help is open.
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.FocusedWidgetID() != "debt" {
		t.Error("Tab should not move focus under help")
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.HelpVisible() {
		t.Error("Esc should close help")
	}
	m, _ = update(m, runes("?"))
	m, _ = update(m, runes("?"))
	if m.HelpVisible() {
		t.Error("? should close help")
	}
}

func TestSearchFiltersAndKeepsFocusVisible(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, runes("/"))
	if !m.SearchMode() {
		t.Fatal("/ should enter search mode")
	}

	// q is typed, not a quit, while searching.
	m, cmd := update(m, runes("q"))
	if cmd != nil || m.Quitting() {
		t.Fatal("q in search mode must not quit")
	}
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = update(m, runes("WEA"))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.SearchMode() {
		t.Error("Enter should leave search mode")
	}
	if m.SearchQuery() != "WEA" {
		t.Errorf("expected query 'WEA', got %q", m.SearchQuery())
	}
	if m.FocusedWidgetID() != "weather" {
		t.Errorf("focus should move onto the only match, got %q", m.FocusedWidgetID())
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.FocusedWidgetID() != "weather" {
		t.Errorf("Tab should stay within the filter, got %q", m.FocusedWidgetID())
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.SearchQuery() != "" {
		t.Error("Esc should clear a kept filter")
	}
}

func TestSearchEscClearsQuery(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, runes("/"))
	m, _ = update(m, runes("de"))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.SearchMode() || m.SearchQuery() != "" {
		t.Error("Esc should leave search mode and clear the query")
	}
}

func TestUnboundKeysGoToFocusedWidget(t *testing.T) {
	a, b := newMock("a", "A"), newMock("b", "B")
	m := NewAppModel(DefaultConfig(), a, b)
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(m, runes("2"))
	_, _ = update(m, tea.KeyMsg{Type: tea.KeyRight})

	if len(a.keys) != 0 {
		t.Errorf("unfocused widget got keys %v", a.keys)
	}
	if strings.Join(b.keys, ",") != "2,right" {
		t.Errorf("focused widget got %v", b.keys)
	}
}

func TestOtherMessagesAreBroadcast(t *testing.T) {
	a := newMock("a", "A")
	m := NewAppModel(DefaultConfig(), a)
	tick := TickMsg{ID: 42}
	_, _ = update(m, tick)
	if len(a.msgs) != 1 || a.msgs[0] != tea.Msg(tick) {
		t.Errorf("expected the tick to reach the widget, got %v", a.msgs)
	}
}

func TestViewBeforeResize(t *testing.T) {
	m := newTestModel()
	if m.View() != "Initializing..." {
		t.Errorf("unexpected view %q", m.View())
	}
}

func TestViewFillsTerminal(t *testing.T) {
	for _, size := range [][2]int{{40, 12}, {80, 24}, {200, 60}} {
		m := newTestModel()
		m, _ = update(m, tea.WindowSizeMsg{Width: size[0], Height: size[1]})
		lines := strings.Split(m.View(), "\n")
		if len(lines) != size[1] {
			t.Errorf("%dx%d: expected %d lines, got %d", size[0], size[1], size[1], len(lines))
		}
		for i, l := range lines {
			if w := components.VisibleLen(l); w != size[0] {
				t.Errorf("%dx%d: line %d is %d wide", size[0], size[1], i, w)
				break
			}
		}
	}
}

func TestPlaceholderWidget(t *testing.T) {
	var w Widget = NewPlaceholder("news", "News", "無効")
	if w.ID() != "news" || w.Title() != "News" {
		t.Errorf("unexpected ID/Title %q/%q", w.ID(), w.Title())
	}
	if w.Update(nil) != nil || w.HandleKey(tea.KeyMsg{}) != nil {
		t.Error("placeholder should never return commands")
	}
	if w.View(0, 5) != "" || w.View(5, 0) != "" {
		t.Error("zero dimensions should render nothing")
	}
	lines := strings.Split(w.View(20, 5), "\n")
	if len(lines) != 5 || !strings.Contains(lines[2], "無効") {
		t.Errorf("notice should be centered, got %q", lines)
	}
	if r := w.(Reporter).Report(); r["status"] != "無効" {
		t.Errorf("unexpected report %v", r)
	}
}
