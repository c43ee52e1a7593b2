// Package widgets provides the concrete widgets of the debt-pulse dashboard.
// Each widget implements app.Widget, owns its timers and fetched state, and
// recomputes every counter from a projection on each tick.
package widgets

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/samber/lo"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/app"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/components"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/dataset"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/theme"
)

// Env is what every widget is built from.
type Env struct {
	Data  *dataset.Data
	Theme theme.Theme
	// Zones makes view-mode tabs clickable. Nil disables mouse support.
	Zones *zone.Manager
	// Now is the clock; tests pin it.
	Now func() time.Time
	// Manual disables automatic view rotation.
	Manual bool
}

// DefaultEnv returns an Env over the embedded dataset and the default theme.
func DefaultEnv() Env {
	return Env{
		Data:  dataset.MustLoad(),
		Theme: theme.Default(),
		Now:   time.Now,
	}
}

func (e Env) withDefaults() Env {
	def := DefaultEnv()
	if e.Data == nil {
		e.Data = def.Data
	}
	if e.Theme.Name == "" {
		e.Theme = def.Theme
	}
	if e.Now == nil {
		e.Now = def.Now
	}
	return e
}

func (e Env) rotator(period time.Duration, modes ...string) *app.Rotator {
	if e.Manual {
		period = 0
	}
	return app.NewRotator(period, modes...).WithZones(e.Zones)
}

// IDs lists every widget in display order.
var IDs = []string{
	"debt", "population", "percapita", "tax", "support", "infra",
	"corporate", "region", "opportunity", "leaders", "income", "cities",
	"generations", "bridges", "bridgemap", "demographics", "silver",
	"weather", "fx", "quakes", "news",
}

// Dashboard builds the full widget set in display order. Widgets named in
// disabled are replaced by placeholders so the grid keeps its shape.
func Dashboard(env Env, disabled ...string) []app.Widget {
	env = env.withDefaults()
	all := []app.Widget{
		NewDebtClock(env),
		NewPopulationTicker(env),
		NewPersonalDebt(env),
		NewTaxBalance(env),
		NewSupportRatio(env),
		NewInfrastructureStatus(env),
		NewCorporateMetabolism(env),
		NewRegionalPopulation(env),
		NewOpportunityCost(env),
		NewDecisionMakerAge(env),
		NewAgeIncome(env),
		NewDisappearingCities(env),
		NewGenerationalInequality(env),
		NewBridges(env),
		NewBridgeMap(env),
		NewDemographics(env),
		NewSilverDemocracy(env),
		NewWeather(env),
		NewExchangeRate(env),
		NewEarthquakes(env),
		NewNews(env),
	}
	return lo.Map(all, func(w app.Widget, _ int) app.Widget {
		if lo.Contains(disabled, w.ID()) {
			return app.NewPlaceholder(w.ID(), w.Title(), "無効 (設定で有効化)")
		}
		return w
	})
}

// Select keeps the widgets whose IDs are listed, in the order of ids.
// Unknown IDs are skipped. A nil ids keeps every widget.
func Select(all []app.Widget, ids []string) []app.Widget {
	if ids == nil {
		return all
	}
	byID := lo.KeyBy(all, func(w app.Widget) string { return w.ID() })
	return lo.FilterMap(ids, func(id string, _ int) (app.Widget, bool) {
		w, ok := byID[id]
		return w, ok
	})
}

// clock is the per-widget interval scheduler plus the instant of the last
// accepted tick. The first instant is taken at construction so a widget
// never shows an unset value.
type clock struct {
	ticker *app.Ticker
	nowFn  func() time.Time
	now    time.Time
}

func newClock(env Env, every time.Duration) clock {
	return clock{ticker: app.NewTicker(every), nowFn: env.Now, now: env.Now()}
}

func (c *clock) Init() tea.Cmd { return c.ticker.Init() }
func (c *clock) Stop()         { c.ticker.Stop() }

func (c *clock) update(msg tea.Msg) (bool, tea.Cmd) {
	fired, cmd := c.ticker.Update(msg)
	if fired {
		c.now = c.nowFn()
	}
	return fired, cmd
}

// feed is a widget's view of one collector: the last result plus a spinner
// shown until the first one arrives.
type feed[T any] struct {
	source string
	res    collectors.Resource[T]
	spin   spinner.Model
}

func newFeed[T any](source string, th theme.Theme) feed[T] {
	return feed[T]{
		source: source,
		res:    collectors.NewResource[T](),
		spin: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(th.Fg(th.Accent)),
		),
	}
}

func (f *feed[T]) Init() tea.Cmd { return f.spin.Tick }

// update applies the feed's DataUpdateEvents and keeps the spinner turning
// while nothing has arrived. It reports whether the resource changed.
func (f *feed[T]) update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case app.DataUpdateEvent:
		if msg.Source != f.source {
			return false, nil
		}
		f.res.ApplyUpdate(msg.Data, msg.Err, msg.Timestamp)
		return true, nil
	case spinner.TickMsg:
		if !f.res.Loading {
			return false, nil
		}
		var cmd tea.Cmd
		f.spin, cmd = f.spin.Update(msg)
		return false, cmd
	}
	return false, nil
}

// status is the inline label shown instead of data, "" when data exists.
func (f *feed[T]) status() string {
	s := f.res.Status()
	if s == collectors.StatusLoading {
		return f.spin.View() + " " + s
	}
	return s
}

func (f *feed[T]) report() map[string]any {
	out := map[string]any{}
	if s := f.res.Status(); s != "" {
		out["status"] = s
	}
	if f.res.Err != nil {
		out["error"] = f.res.Err.Error()
	}
	if !f.res.UpdatedAt.IsZero() {
		out["updated_at"] = f.res.UpdatedAt
	}
	return out
}

// tabs renders a rotator's mode strip in the theme's colors.
func tabs(r *app.Rotator, th theme.Theme) string {
	active := lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(th.Accent))
	inactive := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Dim))
	return r.Tabs(active, inactive)
}

// rotating bundles the Init/Stop/Update plumbing of a widget whose only
// timer is its view rotator.
type rotating struct {
	rot *app.Rotator
}

func (r rotating) Init() tea.Cmd { return r.rot.Init() }
func (r rotating) Stop()         { r.rot.Stop() }

func (r rotating) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(tea.MouseMsg); ok {
		r.rot.HandleMouse(m)
		return nil
	}
	_, cmd := r.rot.Update(msg)
	return cmd
}

func (r rotating) HandleKey(key tea.KeyMsg) tea.Cmd {
	r.rot.HandleKey(key)
	return nil
}

// Mode returns the active view mode.
func (r rotating) Mode() string { return r.rot.Current() }

// centered stacks lines in the middle of a width x height block.
func centered(lines []string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	top := (height - len(lines)) / 2
	out := make([]string, height)
	for i, l := range lines {
		out[top+i] = components.PadCenter(components.Truncate(l, width), width)
	}
	return components.FitBlock(out, width, height)
}
