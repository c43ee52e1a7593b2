package widgets

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/geo"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/components"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/dataset"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/projection"
)

// RegionalPopulation projects the viewer's prefecture toward its 2050
// estimate. The prefecture comes from the geo collector; the counter is
// anchored when the location arrives and never drops below the estimate.
type RegionalPopulation struct {
	env  Env
	clk  clock
	loc  feed[geo.Location]
	pref dataset.Prefecture
	via  string
	spec projection.Spec
}

func NewRegionalPopulation(env Env) *RegionalPopulation {
	env = env.withDefaults()
	return &RegionalPopulation{
		env: env,
		clk: newClock(env, 5*time.Second),
		loc: newFeed[geo.Location](geo.Name, env.Theme),
	}
}

func (w *RegionalPopulation) ID() string                     { return "region" }
func (w *RegionalPopulation) Title() string                  { return "あなたの地域の人口" }
func (w *RegionalPopulation) MinSize() (int, int)            { return 30, 5 }
func (w *RegionalPopulation) HandleKey(_ tea.KeyMsg) tea.Cmd { return nil }

func (w *RegionalPopulation) Init() tea.Cmd {
	return tea.Batch(w.clk.Init(), w.loc.Init())
}

func (w *RegionalPopulation) Stop() { w.clk.Stop() }

func (w *RegionalPopulation) Update(msg tea.Msg) tea.Cmd {
	if fired, cmd := w.clk.update(msg); fired {
		return cmd
	}
	changed, cmd := w.loc.update(msg)
	if !changed {
		return cmd
	}
	if w.loc.res.Ready() {
		l := *w.loc.res.Data
		w.setPrefecture(l.Prefecture, l.Via)
	} else {
		w.setPrefecture(w.env.Data.DefaultPrefecture(), geo.ViaDefault)
	}
	return nil
}

// setPrefecture re-anchors the projection for p at the current tick.
func (w *RegionalPopulation) setPrefecture(p dataset.Prefecture, via string) {
	w.pref, w.via = p, via
	w.spec = w.env.Data.Regional.Spec(p, w.clk.now)
}

// Prefecture returns the resolved prefecture and whether one is set.
func (w *RegionalPopulation) Prefecture() (dataset.Prefecture, bool) {
	return w.pref, w.pref.Key != ""
}

// Value is the projected population at the last tick, 0 before the
// location is known.
func (w *RegionalPopulation) Value() float64 {
	if w.pref.Key == "" {
		return 0
	}
	return math.Ceil(w.spec.At(w.clk.now))
}

func (w *RegionalPopulation) View(width, height int) string {
	th := w.env.Theme
	if w.pref.Key == "" {
		return centered([]string{w.loc.status()}, width, height)
	}
	p := w.pref
	v := w.Value()
	n := len(w.env.Data.Prefectures)

	progress := 0.0
	if drop := p.Current - p.Pro2050; drop > 0 {
		progress = (p.Current - v) / drop
	}
	change := -p.DeclineRate() * 100

	return components.FitBlock([]string{
		components.BoldFg(th.Title, p.Name) + components.Fg(th.Dim, " ("+w.via+")"),
		components.BoldFg(th.Accent, components.Comma(v)) + " 人" + w.reachedBadge(),
		fmt.Sprintf("2050年推計 %s人 (%s)",
			components.Comma(p.Pro2050),
			components.Fg(signalColor(th.Falling, th.Rising, change), fmt.Sprintf("%+.1f%%", change))),
		fmt.Sprintf("減少率ランキング %s / %d", components.BoldFg(th.Severity(1-float64(p.Rank-1)/float64(max(n-1, 1))), fmt.Sprintf("%d位", p.Rank)), n),
		components.LabeledGauge("2050へ", 6, progress, fmt.Sprintf("%5.1f%%", progress*100), width, th.Falling, th.GaugeEmpty),
	}, width, height)
}

// Reached2050 reports whether the counter has hit its 2050 estimate and
// stopped.
func (w *RegionalPopulation) Reached2050() bool {
	return w.pref.Key != "" && w.spec.Clamped(w.clk.now)
}

func (w *RegionalPopulation) reachedBadge() string {
	if !w.Reached2050() {
		return ""
	}
	return " " + components.BoldFg(w.env.Theme.Crit, "2050到達")
}

// signalColor picks neg for a negative change and pos otherwise.
func signalColor(neg, pos string, v float64) string {
	if v < 0 {
		return neg
	}
	return pos
}

func (w *RegionalPopulation) Report() map[string]any {
	if w.pref.Key == "" {
		return w.loc.report()
	}
	return map[string]any{
		"prefecture": w.pref.Name,
		"via":        w.via,
		"people":     w.Value(),
		"pro2050":    w.pref.Pro2050,
		"rank":       w.pref.Rank,
		"reached":    w.Reached2050(),
	}
}
