package widgets

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/app"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/components"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/dataset"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/projection"
)

// SupportRatio shows how many working-age people support one elder.
type SupportRatio struct {
	env             Env
	clk             clock
	workers, elders projection.Spec
}

func NewSupportRatio(env Env) *SupportRatio {
	env = env.withDefaults()
	clk := newClock(env, 100*time.Millisecond)
	c := env.Data.Counters
	return &SupportRatio{
		env:     env,
		clk:     clk,
		workers: c.Workers.Spec(clk.now),
		elders:  c.Elders.Spec(clk.now),
	}
}

func (w *SupportRatio) ID() string                     { return "support" }
func (w *SupportRatio) Title() string                  { return "現役世代の負担" }
func (w *SupportRatio) MinSize() (int, int)            { return 30, 5 }
func (w *SupportRatio) Init() tea.Cmd                  { return w.clk.Init() }
func (w *SupportRatio) Stop()                          { w.clk.Stop() }
func (w *SupportRatio) HandleKey(_ tea.KeyMsg) tea.Cmd { return nil }

func (w *SupportRatio) Update(msg tea.Msg) tea.Cmd {
	_, cmd := w.clk.update(msg)
	return cmd
}

// Ratio is workers per elder at the last tick.
func (w *SupportRatio) Ratio() float64 {
	return projection.Ratio(w.workers, w.elders, w.clk.now)
}

// supportFigures draws one elder and the workers carrying them; a
// fractional worker shows as a half figure once it passes 5%.
func supportFigures(ratio float64) string {
	whole := int(math.Floor(ratio))
	fig := strings.Repeat("●", whole)
	if ratio-float64(whole) > 0.05 {
		fig += "◐"
	}
	return fig
}

func (w *SupportRatio) View(width, height int) string {
	th := w.env.Theme
	r := w.Ratio()
	return centered([]string{
		components.Fg(th.Dim, "高齢者1人を支える現役世代 (15〜64歳)"),
		components.BoldFg(th.Accent, fmt.Sprintf("%.5f 人", r)),
		components.Fg(th.Warn, "●") + " ← " + components.Fg(th.Falling, supportFigures(r)),
		components.Fg(th.Dim, fmt.Sprintf("現役 %s人 / 高齢 %s人",
			components.JapaneseUnits(w.workers.At(w.clk.now), 2),
			components.JapaneseUnits(w.elders.At(w.clk.now), 2))),
	}, width, height)
}

func (w *SupportRatio) Report() map[string]any {
	return map[string]any{
		"workers_per_elder": math.Round(w.Ratio()*1e5) / 1e5,
		"workers":           math.Floor(w.workers.At(w.clk.now)),
		"elders":            math.Floor(w.elders.At(w.clk.now)),
	}
}

// InfrastructureStatus tracks vacant houses, pipes past their service life
// and public floor area per resident.
type InfrastructureStatus struct {
	env                Env
	clk                clock
	pop, vacant, pipes projection.Spec
}

func NewInfrastructureStatus(env Env) *InfrastructureStatus {
	env = env.withDefaults()
	clk := newClock(env, 500*time.Millisecond)
	c := env.Data.Counters
	return &InfrastructureStatus{
		env:    env,
		clk:    clk,
		pop:    c.InfraPopulation.Spec(clk.now),
		vacant: c.VacantHouses.Spec(clk.now),
		pipes:  c.AgedPipesKm.Spec(clk.now),
	}
}

func (w *InfrastructureStatus) ID() string                     { return "infra" }
func (w *InfrastructureStatus) Title() string                  { return "インフラ崩壊メーター" }
func (w *InfrastructureStatus) MinSize() (int, int)            { return 34, 5 }
func (w *InfrastructureStatus) Init() tea.Cmd                  { return w.clk.Init() }
func (w *InfrastructureStatus) Stop()                          { w.clk.Stop() }
func (w *InfrastructureStatus) HandleKey(_ tea.KeyMsg) tea.Cmd { return nil }

func (w *InfrastructureStatus) Update(msg tea.Msg) tea.Cmd {
	_, cmd := w.clk.update(msg)
	return cmd
}

// InfraReading is one evaluation of the meter.
type InfraReading struct {
	VacantHouses    float64
	VacantShare     float64
	AgedPipesKm     float64
	AgedPipeShare   float64
	AreaPerCapita   float64
	UpkeepPerCapita float64
}

func (w *InfrastructureStatus) Reading() InfraReading {
	now := w.clk.now
	inf := w.env.Data.Infrastructure
	r := InfraReading{
		VacantHouses: w.vacant.At(now),
		AgedPipesKm:  w.pipes.At(now),
	}
	if inf.HousingStock > 0 {
		r.VacantShare = r.VacantHouses / inf.HousingStock
	}
	if inf.PipeNetworkKm > 0 {
		r.AgedPipeShare = r.AgedPipesKm / inf.PipeNetworkKm
	}
	if p := w.pop.At(now); p > 0 {
		r.AreaPerCapita = inf.PublicFacilityM2 / p
		r.UpkeepPerCapita = r.AreaPerCapita * inf.UpkeepYenPerM2
	}
	return r
}

func (w *InfrastructureStatus) View(width, height int) string {
	th := w.env.Theme
	r := w.Reading()
	return components.FitBlock([]string{
		"空き家 " + components.BoldFg(th.Warn, components.Comma(math.Floor(r.VacantHouses))) + " 戸",
		components.LabeledGauge("空き家率", 8, r.VacantShare, fmt.Sprintf("%6.3f%%", r.VacantShare*100), width, th.Severity(r.VacantShare*5), th.GaugeEmpty),
		"老朽水道管 " + components.BoldFg(th.Warn, components.Comma(math.Floor(r.AgedPipesKm))) + " km",
		components.LabeledGauge("超過率", 8, r.AgedPipeShare, fmt.Sprintf("%6.3f%%", r.AgedPipeShare*100), width, th.Severity(r.AgedPipeShare*4), th.GaugeEmpty),
		fmt.Sprintf("公共施設 %.3f m²/人  維持費 約%s円/年",
			r.AreaPerCapita, components.Comma(math.Floor(r.UpkeepPerCapita))),
	}, width, height)
}

func (w *InfrastructureStatus) Report() map[string]any {
	r := w.Reading()
	return map[string]any{
		"vacant_houses":          math.Floor(r.VacantHouses),
		"vacant_share":           r.VacantShare,
		"aged_pipes_km":          math.Floor(r.AgedPipesKm),
		"aged_pipe_share":        r.AgedPipeShare,
		"facility_m2_per_capita": r.AreaPerCapita,
		"upkeep_yen_per_capita":  math.Floor(r.UpkeepPerCapita),
	}
}

const (
	modeToday         = "本日推計"
	modeInternational = "国際比較"
)

// CorporateMetabolism estimates today's business exits and creations and
// compares turnover rates internationally.
type CorporateMetabolism struct {
	rotating
	env              Env
	clk              clock
	exits, creations projection.Spec
	international    []dataset.CountryTurnover
}

func NewCorporateMetabolism(env Env) *CorporateMetabolism {
	env = env.withDefaults()
	w := &CorporateMetabolism{
		rotating: rotating{env.rotator(15*time.Second, modeToday, modeInternational)},
		env:      env,
		clk:      newClock(env, time.Second),
	}
	w.anchor()
	w.international = append([]dataset.CountryTurnover(nil), env.Data.Corporate.International...)
	sort.SliceStable(w.international, func(i, j int) bool {
		return w.international[i].Total > w.international[j].Total
	})
	return w
}

// anchor restarts the day counters at the midnight before the current tick.
func (w *CorporateMetabolism) anchor() {
	c := w.env.Data.Corporate
	w.exits = projection.Daily(w.clk.now, c.YearlyExits/365)
	w.creations = projection.Daily(w.clk.now, c.YearlyCreations/365)
}

func (w *CorporateMetabolism) ID() string          { return "corporate" }
func (w *CorporateMetabolism) Title() string       { return "企業の新陳代謝" }
func (w *CorporateMetabolism) MinSize() (int, int) { return 34, 6 }

func (w *CorporateMetabolism) Init() tea.Cmd {
	return tea.Batch(w.clk.Init(), w.rotating.Init())
}

func (w *CorporateMetabolism) Stop() {
	w.clk.Stop()
	w.rotating.Stop()
}

func (w *CorporateMetabolism) Update(msg tea.Msg) tea.Cmd {
	if fired, cmd := w.clk.update(msg); fired {
		if !projection.StartOfDay(w.clk.now).Equal(w.exits.Base) {
			w.anchor()
		}
		return cmd
	}
	return w.rotating.Update(msg)
}

// Today returns the estimated exits and creations since midnight.
func (w *CorporateMetabolism) Today() (exits, creations float64) {
	return math.Floor(w.exits.At(w.clk.now)), math.Floor(w.creations.At(w.clk.now))
}

func (w *CorporateMetabolism) View(width, height int) string {
	th := w.env.Theme
	lines := []string{tabs(w.rot, th)}
	switch w.Mode() {
	case modeInternational:
		lines = append(lines, components.Fg(th.Dim, "開業率+廃業率 (代謝の低さ)"))
		bars := lo.Map(w.international, func(c dataset.CountryTurnover, _ int) components.Bar {
			color := th.Dim
			if c.Country == "日本" {
				color = th.Rising
			}
			return components.Bar{
				Label: c.Country,
				Value: c.Total,
				Color: color,
				Note:  fmt.Sprintf("%.1f%%", c.Total),
			}
		})
		lines = append(lines, components.BarChart(bars, width, components.BarChartOptions{Empty: th.GaugeEmpty})...)
	default:
		exits, creations := w.Today()
		lines = append(lines,
			components.Fg(th.Dim, "本日の推定件数 (0時起算)"),
			"企業退出 "+components.BoldFg(th.Rising, components.Comma(exits))+" 社",
			"新設法人 "+components.BoldFg(th.Good, components.Comma(creations))+" 社",
			components.Fg(th.Dim, "※年間統計 (開業率/廃業率 約4%) からの推計"),
		)
	}
	return components.FitBlock(lines, width, height)
}

func (w *CorporateMetabolism) Report() map[string]any {
	exits, creations := w.Today()
	return map[string]any{"mode": w.Mode(), "exits_today": exits, "creations_today": creations}
}

var _ app.Widget = (*CorporateMetabolism)(nil)
