package widgets

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/components"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/dataset"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/projection"
)

// OpportunityCost converts new debt into public assets it could have paid
// for, rotating through the assets.
type OpportunityCost struct {
	rotating
	env    Env
	clk    clock
	idle   projection.Spec
	assets map[string]dataset.Asset
}

func NewOpportunityCost(env Env) *OpportunityCost {
	env = env.withDefaults()
	clk := newClock(env, time.Second)
	names := lo.Map(env.Data.Assets, func(a dataset.Asset, _ int) string { return a.Name })
	return &OpportunityCost{
		rotating: rotating{env.rotator(10*time.Second, names...)},
		env:      env,
		clk:      clk,
		idle:     env.Data.Counters.IdleDebt.Spec(clk.now, projection.WithFloor(0)),
		assets:   lo.KeyBy(env.Data.Assets, func(a dataset.Asset) string { return a.Name }),
	}
}

func (w *OpportunityCost) ID() string          { return "opportunity" }
func (w *OpportunityCost) Title() string       { return "失われた投資" }
func (w *OpportunityCost) MinSize() (int, int) { return 34, 6 }

func (w *OpportunityCost) Init() tea.Cmd {
	return tea.Batch(w.clk.Init(), w.rotating.Init())
}

func (w *OpportunityCost) Stop() {
	w.clk.Stop()
	w.rotating.Stop()
}

func (w *OpportunityCost) Update(msg tea.Msg) tea.Cmd {
	if fired, cmd := w.clk.update(msg); fired {
		return cmd
	}
	return w.rotating.Update(msg)
}

// DailyDebt is how much the debt grows in a day.
func (w *OpportunityCost) DailyDebt() float64 {
	return w.env.Data.Counters.Debt.Rate * 86400
}

// Progress returns the active asset, how many of it a day of debt would buy,
// and how far the debt accrued since start has gone toward one of it.
func (w *OpportunityCost) Progress() (dataset.Asset, float64, float64) {
	a := w.assets[w.Mode()]
	if a.Cost <= 0 {
		return a, 0, 0
	}
	perDay := math.Floor(w.DailyDebt() / a.Cost)
	done := math.Min(w.idle.At(w.clk.now)/a.Cost, 1)
	return a, perDay, done
}

func (w *OpportunityCost) View(width, height int) string {
	th := w.env.Theme
	a, perDay, done := w.Progress()
	return components.FitBlock([]string{
		tabs(w.rot, th),
		components.Fg(th.Dim, fmt.Sprintf("借金1日分 (約%s円) があれば毎日", components.JapaneseUnits(w.DailyDebt(), 1))),
		components.BoldFg(th.Accent, components.Comma(perDay)+" "+a.Unit) + " の" + a.Name + "を整備できる",
		components.LabeledGauge("起動から", 8, done, fmt.Sprintf("%5.1f%%", done*100), width, th.Rising, th.GaugeEmpty),
		components.Fg(th.Dim, "1つあたり約"+components.JapaneseUnits(a.Cost, 1)+"円で計算"),
	}, width, height)
}

func (w *OpportunityCost) Report() map[string]any {
	a, perDay, done := w.Progress()
	return map[string]any{"asset": a.Name, "per_day": perDay, "progress": done}
}
