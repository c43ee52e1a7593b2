package widgets

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/app"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/components"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/dataset"
)

// static is the no-op plumbing shared by widgets that only draw a table.
type static struct{}

func (static) Update(_ tea.Msg) tea.Cmd       { return nil }
func (static) HandleKey(_ tea.KeyMsg) tea.Cmd { return nil }

func yenMan(v float64) string { return components.Compact(v) + "万円" }

const (
	modeCEO  = "企業社長"
	modeDiet = "国会議員"
)

// DecisionMakerAge compares the age make-up of company presidents and Diet
// members.
type DecisionMakerAge struct {
	rotating
	env Env
}

func NewDecisionMakerAge(env Env) *DecisionMakerAge {
	env = env.withDefaults()
	return &DecisionMakerAge{rotating: rotating{env.rotator(12*time.Second, modeCEO, modeDiet)}, env: env}
}

func (w *DecisionMakerAge) ID() string          { return "leaders" }
func (w *DecisionMakerAge) Title() string       { return "意思決定者の高齢化" }
func (w *DecisionMakerAge) MinSize() (int, int) { return 34, 8 }

func (w *DecisionMakerAge) shares() []float64 {
	if w.Mode() == modeDiet {
		return w.env.Data.DecisionMakers.Diet
	}
	return w.env.Data.DecisionMakers.CEO
}

// Over60 is the active group's share aged 60 and over, in percent.
func (w *DecisionMakerAge) Over60() float64 {
	return w.env.Data.DecisionMakers.Over60(w.shares())
}

func (w *DecisionMakerAge) View(width, height int) string {
	th := w.env.Theme
	dm := w.env.Data.DecisionMakers
	shares := w.shares()
	bars := make([]components.Bar, 0, len(shares))
	for i, s := range shares {
		label := ""
		if i < len(dm.Bands) {
			label = dm.Bands[i]
		}
		color := th.Falling
		if i < dm.Over60Bands {
			color = th.Rising
		}
		bars = append(bars, components.Bar{Label: label, Value: s, Color: color, Note: fmt.Sprintf("%.1f%%", s)})
	}
	lines := []string{tabs(w.rot, th)}
	lines = append(lines, components.BarChart(bars, width, components.BarChartOptions{Empty: th.GaugeEmpty})...)
	lines = append(lines,
		"60歳以上の割合 "+components.BoldFg(th.Crit, fmt.Sprintf("%.1f%%", w.Over60())),
		components.Fg(th.Dim, "過半数が60歳以上。逃げ切る世代が未来を決める"),
	)
	return components.FitBlock(lines, width, height)
}

func (w *DecisionMakerAge) Report() map[string]any {
	return map[string]any{"mode": w.Mode(), "over60_percent": w.Over60()}
}

const (
	modeHistorical = "過去との比較"
	modeCountries  = "国際比較"
)

// AgeIncome charts annual income by age against 1997 and against the US
// and Korea.
type AgeIncome struct {
	rotating
	env Env
}

func NewAgeIncome(env Env) *AgeIncome {
	env = env.withDefaults()
	return &AgeIncome{rotating: rotating{env.rotator(15*time.Second, modeHistorical, modeCountries)}, env: env}
}

func (w *AgeIncome) ID() string          { return "income" }
func (w *AgeIncome) Title() string       { return "世代別の収入格差" }
func (w *AgeIncome) MinSize() (int, int) { return 36, 8 }

// WorstDrop returns the age band that lost the most income since 1997.
func (w *AgeIncome) WorstDrop() dataset.HistoricalIncome {
	return lo.MaxBy(w.env.Data.AgeIncome.Historical, func(a, b dataset.HistoricalIncome) bool {
		return a.Peak-a.Current > b.Peak-b.Current
	})
}

func (w *AgeIncome) View(width, height int) string {
	th := w.env.Theme
	ai := w.env.Data.AgeIncome
	lines := []string{tabs(w.rot, th)}

	switch w.Mode() {
	case modeCountries:
		lines = append(lines, components.Fg(th.Dim, "日本の年収 (バー) と米・韓 (万円)"))
		maxUS := lo.Max(lo.Map(ai.International, func(r dataset.InternationalIncome, _ int) float64 { return r.US }))
		bars := lo.Map(ai.International, func(r dataset.InternationalIncome, _ int) components.Bar {
			return components.Bar{
				Label: r.Age,
				Value: r.JP,
				Color: th.Rising,
				Note:  fmt.Sprintf("日%s 米%s 韓%s", components.Compact(r.JP), components.Compact(r.US), components.Compact(r.KR)),
			}
		})
		lines = append(lines, components.BarChart(bars, width, components.BarChartOptions{Max: maxUS, Empty: th.GaugeEmpty})...)
		lines = append(lines, components.Fg(th.Dim, "世界に取り残される平坦なカーブ"))
	default:
		lines = append(lines, components.Fg(th.Dim, "1997年ピーク → 現在 (万円)"))
		maxPeak := lo.Max(lo.Map(ai.Historical, func(r dataset.HistoricalIncome, _ int) float64 { return r.Peak }))
		bars := lo.Map(ai.Historical, func(r dataset.HistoricalIncome, _ int) components.Bar {
			return components.Bar{
				Label: r.Age,
				Value: r.Current,
				Color: th.Falling,
				Note:  components.Compact(r.Peak) + "→" + components.Compact(r.Current),
			}
		})
		lines = append(lines, components.BarChart(bars, width, components.BarChartOptions{Max: maxPeak, Empty: th.GaugeEmpty})...)
		d := w.WorstDrop()
		lines = append(lines, fmt.Sprintf("最大の落ち込み %s %s", d.Age,
			components.BoldFg(th.Rising, components.Signed(d.Current-d.Peak, yenMan))))
	}
	return components.FitBlock(lines, width, height)
}

func (w *AgeIncome) Report() map[string]any {
	d := w.WorstDrop()
	return map[string]any{"mode": w.Mode(), "worst_drop_age": d.Age, "worst_drop_man_yen": d.Peak - d.Current}
}

const (
	modePrefectures = "都道府県"
	modeCities      = "市区町村"
)

// DisappearingCities lists the prefectures and towns most at risk of
// vanishing.
type DisappearingCities struct {
	rotating
	env Env
}

func NewDisappearingCities(env Env) *DisappearingCities {
	env = env.withDefaults()
	return &DisappearingCities{rotating: rotating{env.rotator(8*time.Second, modePrefectures, modeCities)}, env: env}
}

func (w *DisappearingCities) ID() string          { return "cities" }
func (w *DisappearingCities) Title() string       { return "消滅可能性都市" }
func (w *DisappearingCities) MinSize() (int, int) { return 36, 8 }

func (w *DisappearingCities) View(width, height int) string {
	th := w.env.Theme
	d := w.env.Data.Disappearing
	lines := []string{
		tabs(w.rot, th),
		"全国 " + components.BoldFg(th.Crit, fmt.Sprintf("%d", d.TotalMunicipalities)) + " 自治体が消滅の可能性",
	}
	switch w.Mode() {
	case modeCities:
		for _, c := range d.Cities {
			lines = append(lines, components.Bold(c.Name), "  "+components.Fg(th.Dim, c.Memo))
		}
	default:
		bars := lo.Map(d.Prefectures, func(p dataset.RiskyPrefecture, _ int) components.Bar {
			return components.Bar{
				Label: p.Name,
				Value: p.Rate,
				Color: th.Severity(p.Rate / 100),
				Note:  fmt.Sprintf("%.1f%% (%d/%d)", p.Rate, p.AtRisk, p.Total),
			}
		})
		lines = append(lines, components.BarChart(bars, width, components.BarChartOptions{Max: 100, Empty: th.GaugeEmpty})...)
	}
	return components.FitBlock(lines, width, height)
}

func (w *DisappearingCities) Report() map[string]any {
	return map[string]any{"mode": w.Mode(), "municipalities": w.env.Data.Disappearing.TotalMunicipalities}
}

const (
	modeChart  = "生涯純負担"
	modeCauses = "格差の原因"
)

// GenerationalInequality charts lifetime net benefit by generation. It
// switches views only on request.
type GenerationalInequality struct {
	rotating
	env Env
}

func NewGenerationalInequality(env Env) *GenerationalInequality {
	env = env.withDefaults()
	rot := app.NewRotator(0, modeChart, modeCauses).WithZones(env.Zones)
	return &GenerationalInequality{rotating: rotating{rot}, env: env}
}

func (w *GenerationalInequality) ID() string          { return "generations" }
func (w *GenerationalInequality) Title() string       { return "世代間格差" }
func (w *GenerationalInequality) MinSize() (int, int) { return 36, 9 }

func (w *GenerationalInequality) View(width, height int) string {
	th := w.env.Theme
	g := w.env.Data.Generations
	lines := []string{tabs(w.rot, th)}
	switch w.Mode() {
	case modeCauses:
		for i, c := range g.Causes {
			lines = append(lines, components.BoldFg(th.SeriesColor(i), fmt.Sprintf("%d. %s", i+1, c.Title)))
			lines = append(lines, components.Wrap(c.Body, width)...)
		}
	default:
		lines = append(lines, components.Fg(th.Dim, "生涯の受益と負担の差額 (推計)"))
		bars := lo.Map(g.NetBenefit, func(n dataset.NetBenefit, _ int) components.Bar {
			return components.Bar{Label: n.Generation, Value: n.Value}
		})
		lines = append(lines, components.DivergingBars(bars, width, th.Good, th.Rising, func(v float64) string {
			return components.Signed(v, yenMan)
		})...)
		lines = append(lines, components.Fg(th.Dim, "+はもらい得、−は払い損"))
	}
	return components.FitBlock(lines, width, height)
}

func (w *GenerationalInequality) Report() map[string]any {
	return map[string]any{"mode": w.Mode()}
}

// Bridges shows bridges in the capital region judged to need urgent work
// that has not started.
type Bridges struct {
	static
	env Env
}

func NewBridges(env Env) *Bridges { return &Bridges{env: env.withDefaults()} }

func (w *Bridges) ID() string          { return "bridges" }
func (w *Bridges) Title() string       { return "放置される老朽橋梁" }
func (w *Bridges) MinSize() (int, int) { return 34, 6 }

// Totals sums the table.
func (w *Bridges) Totals() (total, unaddressed int) {
	for _, b := range w.env.Data.Bridges {
		total += b.Total
		unaddressed += b.Unaddressed
	}
	return total, unaddressed
}

func (w *Bridges) View(width, height int) string {
	th := w.env.Theme
	bs := w.env.Data.Bridges
	labelW := lo.Max(lo.Map(bs, func(b dataset.Bridge, _ int) int { return components.VisibleLen(b.Region) }))
	lines := []string{components.Fg(th.Dim, "判定IV (緊急措置) のうち措置未着手")}
	for _, b := range bs {
		lines = append(lines, components.LabeledGauge(b.Region, labelW, b.Ratio(),
			fmt.Sprintf("%4d/%4d", b.Unaddressed, b.Total), width, th.Severity(b.Ratio()*1.5), th.GaugeEmpty))
	}
	total, open := w.Totals()
	lines = append(lines, fmt.Sprintf("合計 %s / %s 箇所",
		components.BoldFg(th.Rising, components.Comma(float64(open))), components.Comma(float64(total))))
	return components.FitBlock(lines, width, height)
}

func (w *Bridges) Report() map[string]any {
	total, open := w.Totals()
	return map[string]any{"total": total, "unaddressed": open}
}

// Demographics charts the working-age and elderly populations from 1990 to
// the 2050 projection.
type Demographics struct {
	static
	env Env
}

func NewDemographics(env Env) *Demographics { return &Demographics{env: env.withDefaults()} }

func (w *Demographics) ID() string          { return "demographics" }
func (w *Demographics) Title() string       { return "人口構造の変遷" }
func (w *Demographics) MinSize() (int, int) { return 34, 6 }

func (w *Demographics) View(width, height int) string {
	th := w.env.Theme
	pts := w.env.Data.Demographics
	if len(pts) == 0 {
		return components.FitBlock(nil, width, height)
	}
	working := lo.Map(pts, func(p dataset.DemographicPoint, _ int) float64 { return p.Working })
	elderly := lo.Map(pts, func(p dataset.DemographicPoint, _ int) float64 { return p.Elderly })
	top := lo.Max(working)
	first, last := pts[0], pts[len(pts)-1]

	lines := []string{
		components.Fg(th.Dim, fmt.Sprintf("%d → %d (万人)", first.Year, last.Year)),
		components.PadRight("現役", 5) + components.SparklineScaled(working, 0, top, th.Falling) +
			fmt.Sprintf(" %s→%s", components.Compact(first.Working), components.Compact(last.Working)),
		components.PadRight("高齢", 5) + components.SparklineScaled(elderly, 0, top, th.Warn) +
			fmt.Sprintf(" %s→%s", components.Compact(first.Elderly), components.Compact(last.Elderly)),
	}
	for _, p := range pts {
		ratio := 0.0
		if p.Elderly > 0 {
			ratio = p.Working / p.Elderly
		}
		lines = append(lines, fmt.Sprintf("%d  現役%s 高齢%s  %s人で1人",
			p.Year,
			components.PadLeft(components.Compact(p.Working), 5),
			components.PadLeft(components.Compact(p.Elderly), 5),
			components.Fg(th.Severity(1-ratio/6), fmt.Sprintf("%.2f", ratio))))
	}
	return components.FitBlock(lines, width, height)
}

func (w *Demographics) Report() map[string]any {
	pts := w.env.Data.Demographics
	return map[string]any{"years": lo.Map(pts, func(p dataset.DemographicPoint, _ int) int { return p.Year })}
}

// SilverDemocracy weighs each age group's actual votes.
type SilverDemocracy struct {
	static
	env Env
}

func NewSilverDemocracy(env Env) *SilverDemocracy { return &SilverDemocracy{env: env.withDefaults()} }

func (w *SilverDemocracy) ID() string          { return "silver" }
func (w *SilverDemocracy) Title() string       { return "シルバー民主主義" }
func (w *SilverDemocracy) MinSize() (int, int) { return 34, 8 }

// YoungVsOld returns the votes of the two youngest groups combined and of
// the oldest group, in 10k votes.
func (w *SilverDemocracy) YoungVsOld() (young, old float64) {
	blocks := w.env.Data.SilverDemocracy
	if len(blocks) == 0 {
		return 0, 0
	}
	young = lo.SumBy(lo.Slice(blocks, 0, 2), func(b dataset.VotingBlock) float64 { return b.Votes })
	return young, blocks[len(blocks)-1].Votes
}

func (w *SilverDemocracy) View(width, height int) string {
	th := w.env.Theme
	blocks := w.env.Data.SilverDemocracy
	lines := []string{components.Fg(th.Dim, "人口 × 投票率 = 実際の票数 (万票)")}
	bars := lo.Map(blocks, func(b dataset.VotingBlock, i int) components.Bar {
		color := th.Falling
		switch {
		case i == len(blocks)-1:
			color = th.Rising
		case i >= len(blocks)-2:
			color = th.Warn
		case i >= 2:
			color = th.Dim
		}
		return components.Bar{
			Label: b.Age,
			Value: b.Votes,
			Color: color,
			Note:  fmt.Sprintf("%s (%d%%)", components.Compact(b.Votes), int(b.Turnout)),
		}
	})
	lines = append(lines, components.BarChart(bars, width, components.BarChartOptions{Empty: th.GaugeEmpty})...)
	if len(blocks) > 0 {
		young, old := w.YoungVsOld()
		lines = append(lines, strings.Join([]string{
			"20・30代合計", components.Compact(young), "<", blocks[len(blocks)-1].Age, components.BoldFg(th.Rising, components.Compact(old)),
		}, " "))
	}
	return components.FitBlock(lines, width, height)
}

func (w *SilverDemocracy) Report() map[string]any {
	young, old := w.YoungVsOld()
	return map[string]any{"young_votes": young, "oldest_votes": old}
}
