package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/app"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/components"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/dataset"
)

const (
	modeList = "一覧"
	modeMap  = "地図"

	unknownAge = "築年数不明"
)

// ageLabel is "築N年" in the given year, or unknownAge.
func ageLabel(b dataset.BridgeSite, year int) string {
	age, ok := b.Age(year)
	if !ok {
		return unknownAge
	}
	return fmt.Sprintf("築%d年", age)
}

// BridgeMap lists the judgement IV bridges of the capital region one by one,
// with a coarse plot of where they are. The list scrolls with up/down.
type BridgeMap struct {
	rotating
	env    Env
	offset int
}

func NewBridgeMap(env Env) *BridgeMap {
	env = env.withDefaults()
	rot := app.NewRotator(0, modeList, modeMap).WithZones(env.Zones)
	return &BridgeMap{rotating: rotating{rot}, env: env}
}

func (w *BridgeMap) ID() string          { return "bridgemap" }
func (w *BridgeMap) Title() string       { return "老朽化橋梁マップ（首都圏抜粋）" }
func (w *BridgeMap) MinSize() (int, int) { return 34, 8 }

func (w *BridgeMap) HandleKey(msg tea.KeyMsg) tea.Cmd {
	keys := app.DefaultKeyMap()
	last := len(w.env.Data.BridgeSites) - 1
	switch {
	case key.Matches(msg, keys.ScrollUp):
		w.offset = max(w.offset-1, 0)
	case key.Matches(msg, keys.ScrollDn):
		w.offset = min(w.offset+1, max(last, 0))
	default:
		return w.rotating.HandleKey(msg)
	}
	return nil
}

// Oldest returns the oldest bridge with a known completion year.
func (w *BridgeMap) Oldest() (dataset.BridgeSite, bool) {
	known := lo.Filter(w.env.Data.BridgeSites, func(b dataset.BridgeSite, _ int) bool { return b.Year > 0 })
	if len(known) == 0 {
		return dataset.BridgeSite{}, false
	}
	return lo.MinBy(known, func(a, b dataset.BridgeSite) bool { return a.Year < b.Year }), true
}

func (w *BridgeMap) View(width, height int) string {
	th := w.env.Theme
	sites := w.env.Data.BridgeSites
	lines := []string{
		tabs(w.rot, th) + " " + components.Fg(th.Crit, "判定IV") + components.Fg(th.Dim, fmt.Sprintf(" 措置未着手 %d橋", len(sites))),
	}
	rows := max(height-1, 0)
	if w.Mode() == modeMap {
		lines = append(lines, w.plot(width, rows)...)
	} else {
		lines = append(lines, w.list(width, rows)...)
	}
	return components.FitBlock(lines, width, height)
}

func (w *BridgeMap) list(width, rows int) []string {
	th := w.env.Theme
	sites := w.env.Data.BridgeSites
	year := w.env.Now().Year()

	ageW := components.VisibleLen(unknownAge)
	locW := lo.Max(lo.Map(sites, func(b dataset.BridgeSite, _ int) int { return components.VisibleLen(b.Location) }))
	nameW := width - ageW - locW - 2
	if nameW < 8 {
		locW = 0
		nameW = width - ageW - 1
	}

	start := min(w.offset, max(len(sites)-rows, 0))
	out := make([]string, 0, rows)
	for _, b := range sites[start:min(start+rows, len(sites))] {
		row := components.PadRight(components.TruncateWithTail(b.Name, max(nameW, 0), "…"), max(nameW, 0)) + " "
		if locW > 0 {
			row += components.Fg(th.Dim, components.PadRight(b.Location, locW)) + " "
		}
		age := ageLabel(b, year)
		color := th.Rising
		if age == unknownAge {
			color = th.Dim
		}
		out = append(out, row+components.Fg(color, components.PadLeft(age, ageW)))
	}
	return out
}

// plot scatters the bridges over a width x rows grid, north up. A cell holding
// several bridges shows their count.
func (w *BridgeMap) plot(width, rows int) []string {
	sites := w.env.Data.BridgeSites
	rows-- // legend
	if width <= 0 || rows <= 0 || len(sites) == 0 {
		return nil
	}
	minLat := lo.Min(lo.Map(sites, func(b dataset.BridgeSite, _ int) float64 { return b.Lat }))
	maxLat := lo.Max(lo.Map(sites, func(b dataset.BridgeSite, _ int) float64 { return b.Lat }))
	minLng := lo.Min(lo.Map(sites, func(b dataset.BridgeSite, _ int) float64 { return b.Lng }))
	maxLng := lo.Max(lo.Map(sites, func(b dataset.BridgeSite, _ int) float64 { return b.Lng }))

	cell := func(v, lower, upper float64, n int) int {
		if upper <= lower || n == 1 {
			return 0
		}
		return int(math.Round((v - lower) / (upper - lower) * float64(n-1)))
	}
	counts := make([][]int, rows)
	for i := range counts {
		counts[i] = make([]int, width)
	}
	for _, b := range sites {
		r := rows - 1 - cell(b.Lat, minLat, maxLat, rows)
		c := cell(b.Lng, minLng, maxLng, width)
		counts[r][c]++
	}

	th := w.env.Theme
	out := make([]string, 0, rows+1)
	for _, line := range counts {
		var sb strings.Builder
		for _, n := range line {
			switch {
			case n == 0:
				sb.WriteString(components.Fg(th.GaugeEmpty, "·"))
			case n == 1:
				sb.WriteString(components.BoldFg(th.Crit, "*"))
			case n < 10:
				sb.WriteString(components.BoldFg(th.Crit, fmt.Sprint(n)))
			default:
				sb.WriteString(components.BoldFg(th.Crit, "+"))
			}
		}
		out = append(out, sb.String())
	}
	return append(out, components.Fg(th.Dim, "* 1橋  数字は同じ区画の橋数"))
}

func (w *BridgeMap) Report() map[string]any {
	sites := w.env.Data.BridgeSites
	r := map[string]any{
		"mode":         w.Mode(),
		"sites":        len(sites),
		"unknown_year": lo.CountBy(sites, func(b dataset.BridgeSite) bool { return b.Year <= 0 }),
	}
	if b, ok := w.Oldest(); ok {
		r["oldest"] = b.Name + " " + ageLabel(b, w.env.Now().Year())
	}
	return r
}
