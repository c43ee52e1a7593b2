package widgets

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/components"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/projection"
)

// DebtClock shows the national debt rising in real time.
type DebtClock struct {
	env  Env
	clk  clock
	spec projection.Spec
}

func NewDebtClock(env Env) *DebtClock {
	env = env.withDefaults()
	clk := newClock(env, 100*time.Millisecond)
	return &DebtClock{env: env, clk: clk, spec: env.Data.Counters.Debt.Spec(clk.now)}
}

func (w *DebtClock) ID() string                     { return "debt" }
func (w *DebtClock) Title() string                  { return "国の借金" }
func (w *DebtClock) MinSize() (int, int)            { return 30, 5 }
func (w *DebtClock) Init() tea.Cmd                  { return w.clk.Init() }
func (w *DebtClock) Stop()                          { w.clk.Stop() }
func (w *DebtClock) HandleKey(_ tea.KeyMsg) tea.Cmd { return nil }

func (w *DebtClock) Update(msg tea.Msg) tea.Cmd {
	_, cmd := w.clk.update(msg)
	return cmd
}

// Value is the debt at the last tick, in whole yen.
func (w *DebtClock) Value() float64 { return math.Floor(w.spec.At(w.clk.now)) }

func (w *DebtClock) View(width, height int) string {
	th := w.env.Theme
	v := w.Value()
	return centered([]string{
		components.Fg(th.Dim, "リアルタイム公的債務"),
		components.BoldFg(th.Rising, components.Comma(v)+" 円"),
		components.Fg(th.Foreground, "約 "+components.JapaneseUnits(v, 2)+"円"),
		components.Fg(th.Dim, "毎秒 +"+components.JapaneseUnits(w.spec.RatePerSecond, 1)+"円 / ※将来世代へのツケの総額"),
	}, width, height)
}

func (w *DebtClock) Report() map[string]any {
	return map[string]any{"yen": w.Value(), "yen_per_second": w.spec.RatePerSecond}
}

// PopulationTicker counts Japan's population down.
type PopulationTicker struct {
	env  Env
	clk  clock
	spec projection.Spec
}

func NewPopulationTicker(env Env) *PopulationTicker {
	env = env.withDefaults()
	clk := newClock(env, 5*time.Second)
	return &PopulationTicker{env: env, clk: clk, spec: env.Data.Counters.Population.Spec(clk.now)}
}

func (w *PopulationTicker) ID() string                     { return "population" }
func (w *PopulationTicker) Title() string                  { return "日本の総人口" }
func (w *PopulationTicker) MinSize() (int, int)            { return 26, 4 }
func (w *PopulationTicker) Init() tea.Cmd                  { return w.clk.Init() }
func (w *PopulationTicker) Stop()                          { w.clk.Stop() }
func (w *PopulationTicker) HandleKey(_ tea.KeyMsg) tea.Cmd { return nil }

func (w *PopulationTicker) Update(msg tea.Msg) tea.Cmd {
	_, cmd := w.clk.update(msg)
	return cmd
}

// Value is the population at the last tick. A person leaves the count only
// once a whole one has gone.
func (w *PopulationTicker) Value() float64 { return math.Ceil(w.spec.At(w.clk.now)) }

func (w *PopulationTicker) View(width, height int) string {
	th := w.env.Theme
	v := w.Value()
	lost := w.spec.Value - v
	lines := []string{
		components.BoldFg(th.Accent, components.Comma(v)+" 人"),
		components.Fg(th.Falling, "起動から "+components.Signed(-lost, components.Comma)+" 人"),
	}
	if r := w.spec.RatePerSecond; r < 0 {
		lines = append(lines, components.Fg(th.Dim, fmt.Sprintf("%s秒ごとに1人減少", components.Compact(-1/r))))
	}
	lines = append(lines, components.Fg(th.Dim, "総務省人口推計ベース"))
	return centered(lines, width, height)
}

func (w *PopulationTicker) Report() map[string]any {
	return map[string]any{"people": w.Value()}
}

// PersonalDebt divides the debt by the population: a ratio of two
// projections taken at the same instant.
type PersonalDebt struct {
	env       Env
	clk       clock
	debt, pop projection.Spec
}

func NewPersonalDebt(env Env) *PersonalDebt {
	env = env.withDefaults()
	clk := newClock(env, time.Second)
	c := env.Data.Counters
	return &PersonalDebt{
		env:  env,
		clk:  clk,
		debt: c.PerCapitaDebt.Spec(clk.now),
		pop:  c.PerCapitaPopulation.Spec(clk.now),
	}
}

func (w *PersonalDebt) ID() string                     { return "percapita" }
func (w *PersonalDebt) Title() string                  { return "国民一人あたりの借金" }
func (w *PersonalDebt) MinSize() (int, int)            { return 26, 4 }
func (w *PersonalDebt) Init() tea.Cmd                  { return w.clk.Init() }
func (w *PersonalDebt) Stop()                          { w.clk.Stop() }
func (w *PersonalDebt) HandleKey(_ tea.KeyMsg) tea.Cmd { return nil }

func (w *PersonalDebt) Update(msg tea.Msg) tea.Cmd {
	_, cmd := w.clk.update(msg)
	return cmd
}

// Value is yen per person at the last tick.
func (w *PersonalDebt) Value() float64 {
	return math.Floor(projection.Ratio(w.debt, w.pop, w.clk.now))
}

func (w *PersonalDebt) View(width, height int) string {
	th := w.env.Theme
	return centered([]string{
		components.BoldFg(th.Rising, components.Comma(w.Value())+" 円"),
		components.Fg(th.Dim, "借金は毎秒増え、支える人口は減る"),
		components.Fg(th.Dim, "一人あたりの負担は加速して増加中"),
	}, width, height)
}

func (w *PersonalDebt) Report() map[string]any {
	return map[string]any{"yen_per_person": w.Value()}
}

// TaxBalance accumulates spending against revenue since the dashboard
// opened.
type TaxBalance struct {
	env              Env
	clk              clock
	spending, income projection.Spec
}

func NewTaxBalance(env Env) *TaxBalance {
	env = env.withDefaults()
	clk := newClock(env, time.Second)
	c := env.Data.Counters
	return &TaxBalance{
		env:      env,
		clk:      clk,
		spending: c.TaxSpending.Spec(clk.now, projection.WithFloor(0)),
		income:   c.TaxRevenue.Spec(clk.now, projection.WithFloor(0)),
	}
}

func (w *TaxBalance) ID() string                     { return "tax" }
func (w *TaxBalance) Title() string                  { return "税収と支出" }
func (w *TaxBalance) MinSize() (int, int)            { return 30, 5 }
func (w *TaxBalance) Init() tea.Cmd                  { return w.clk.Init() }
func (w *TaxBalance) Stop()                          { w.clk.Stop() }
func (w *TaxBalance) HandleKey(_ tea.KeyMsg) tea.Cmd { return nil }

func (w *TaxBalance) Update(msg tea.Msg) tea.Cmd {
	_, cmd := w.clk.update(msg)
	return cmd
}

// Totals returns revenue, spending and the deficit at the last tick.
func (w *TaxBalance) Totals() (revenue, spending, deficit float64) {
	revenue = math.Floor(w.income.At(w.clk.now))
	spending = math.Floor(w.spending.At(w.clk.now))
	return revenue, spending, spending - revenue
}

func (w *TaxBalance) View(width, height int) string {
	th := w.env.Theme
	revenue, spending, deficit := w.Totals()
	ratio := 0.0
	if spending > 0 {
		ratio = revenue / spending
	}
	return components.FitBlock([]string{
		components.Fg(th.Dim, "※起動からの累積シミュレーション"),
		components.Fg(th.Good, "税収 ") + components.PadLeft("¥"+components.Comma(revenue), width-5),
		components.Fg(th.Warn, "支出 ") + components.PadLeft("¥"+components.Comma(spending), width-5),
		components.LabeledGauge("税収/支出", 9, ratio, fmt.Sprintf("%3.0f%%", ratio*100), width, th.Good, th.GaugeEmpty),
		components.BoldFg(th.Rising, "赤字 ") + components.PadLeft(components.BoldFg(th.Rising, "¥"+components.Comma(deficit)), width-5),
	}, width, height)
}

func (w *TaxBalance) Report() map[string]any {
	revenue, spending, deficit := w.Totals()
	return map[string]any{"revenue_yen": revenue, "spending_yen": spending, "deficit_yen": deficit}
}
