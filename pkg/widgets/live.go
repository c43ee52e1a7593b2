package widgets

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/fxrate"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/news"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/quake"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/weather"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/components"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/dataset"
)

// staleNote marks data kept from an earlier fetch after a failed refresh.
const staleNote = "(更新失敗・前回値)"

// Weather shows the current weather and how far the temperature sits above
// the 1980s mean for this month.
type Weather struct {
	env  Env
	feed feed[weather.Reading]
}

func NewWeather(env Env) *Weather {
	env = env.withDefaults()
	return &Weather{env: env, feed: newFeed[weather.Reading](weather.Name, env.Theme)}
}

func (w *Weather) ID() string                     { return "weather" }
func (w *Weather) Title() string                  { return "天気と気温変化" }
func (w *Weather) MinSize() (int, int)            { return 26, 4 }
func (w *Weather) Init() tea.Cmd                  { return w.feed.Init() }
func (w *Weather) HandleKey(_ tea.KeyMsg) tea.Cmd { return nil }

func (w *Weather) Update(msg tea.Msg) tea.Cmd {
	_, cmd := w.feed.update(msg)
	return cmd
}

// Anomaly compares the reading with the 1980s mean for the current month.
func (w *Weather) Anomaly(r weather.Reading) (float64, bool) {
	return weather.Anomaly(r.Temperature, int(w.env.Now().Month()), w.env.Data.Tokyo1980s)
}

func (w *Weather) View(width, height int) string {
	if s := w.feed.status(); s != "" {
		return centered([]string{s}, width, height)
	}
	th := w.env.Theme
	r := *w.feed.res.Data
	lines := []string{
		components.BoldFg(th.Accent, fmt.Sprintf("%.1f℃", r.Temperature)) + "  " + r.Label,
	}
	if d, ok := w.Anomaly(r); ok {
		lines = append(lines, "1980年代平均比 "+
			components.BoldFg(signalColor(th.Falling, th.Rising, d), fmt.Sprintf("%+.1f℃", d)))
	}
	lines = append(lines, components.Fg(th.Dim, "更新 "+w.feed.res.UpdatedAt.In(w.env.Now().Location()).Format("15:04")))
	if w.feed.res.Err != nil {
		lines = append(lines, components.Fg(th.Warn, staleNote))
	}
	return centered(lines, width, height)
}

func (w *Weather) Report() map[string]any {
	out := w.feed.report()
	if w.feed.res.Ready() {
		r := *w.feed.res.Data
		out["temperature"] = r.Temperature
		out["label"] = r.Label
		if d, ok := w.Anomaly(r); ok {
			out["anomaly"] = d
		}
	}
	return out
}

// ExchangeRate shows USD/JPY against Big Mac parity and converts average
// wages at the live rate.
type ExchangeRate struct {
	env  Env
	feed feed[fxrate.Quote]
}

func NewExchangeRate(env Env) *ExchangeRate {
	env = env.withDefaults()
	return &ExchangeRate{env: env, feed: newFeed[fxrate.Quote](fxrate.Name, env.Theme)}
}

func (w *ExchangeRate) ID() string                     { return "fx" }
func (w *ExchangeRate) Title() string                  { return "日本円の価値 (USD/JPY)" }
func (w *ExchangeRate) MinSize() (int, int)            { return 32, 7 }
func (w *ExchangeRate) Init() tea.Cmd                  { return w.feed.Init() }
func (w *ExchangeRate) HandleKey(_ tea.KeyMsg) tea.Cmd { return nil }

func (w *ExchangeRate) Update(msg tea.Msg) tea.Cmd {
	_, cmd := w.feed.update(msg)
	return cmd
}

func (w *ExchangeRate) View(width, height int) string {
	if s := w.feed.status(); s != "" {
		return centered([]string{s}, width, height)
	}
	th := w.env.Theme
	fx := w.env.Data.FX
	q := *w.feed.res.Data
	implied := fx.ImpliedRate()
	gap := fxrate.BigMacGap(q.Rate, implied)

	lines := []string{
		"1ドル = " + components.BoldFg(th.Accent, components.CommaDecimal(q.Rate, 2)) + " 円",
		fmt.Sprintf("ビッグマック適正 %s円  %s", components.CommaDecimal(implied, 2),
			components.BoldFg(th.Rising, fmt.Sprintf("%.1f%% 円安", gap))),
		components.Fg(th.Dim, "平均年収 (万円換算)"),
	}
	bars := lo.Map(fx.WagesUSD, func(c dataset.CountryValue, _ int) components.Bar {
		color := th.Dim
		if c.Country == "日本" {
			color = th.Rising
		}
		yen := fxrate.ToYen(c.Value, q.Rate) / 1e4
		return components.Bar{Label: c.Country, Value: yen, Color: color, Note: components.Comma(yen)}
	})
	lines = append(lines, components.BarChart(bars, width, components.BarChartOptions{Empty: th.GaugeEmpty})...)
	if w.feed.res.Err != nil {
		lines = append(lines, components.Fg(th.Warn, staleNote))
	}
	return components.FitBlock(lines, width, height)
}

func (w *ExchangeRate) Report() map[string]any {
	out := w.feed.report()
	if w.feed.res.Ready() {
		q := *w.feed.res.Data
		out["usd_jpy"] = q.Rate
		out["bigmac_gap_percent"] = fxrate.BigMacGap(q.Rate, w.env.Data.FX.ImpliedRate())
	}
	return out
}

// Earthquakes lists the latest reports from the P2PQuake feed.
type Earthquakes struct {
	env  Env
	feed feed[[]quake.Event]
}

func NewEarthquakes(env Env) *Earthquakes {
	env = env.withDefaults()
	return &Earthquakes{env: env, feed: newFeed[[]quake.Event](quake.Name, env.Theme)}
}

func (w *Earthquakes) ID() string                     { return "quakes" }
func (w *Earthquakes) Title() string                  { return "最新の地震情報" }
func (w *Earthquakes) MinSize() (int, int)            { return 34, 4 }
func (w *Earthquakes) Init() tea.Cmd                  { return w.feed.Init() }
func (w *Earthquakes) HandleKey(_ tea.KeyMsg) tea.Cmd { return nil }

func (w *Earthquakes) Update(msg tea.Msg) tea.Cmd {
	_, cmd := w.feed.update(msg)
	return cmd
}

// intensityColor grades a JMA intensity label.
func (w *Earthquakes) intensityColor(label string) string {
	th := w.env.Theme
	switch label {
	case "5弱", "5強", "6弱", "6強", "7":
		return th.Crit
	case "3", "4":
		return th.Warn
	default:
		return th.Good
	}
}

func (w *Earthquakes) View(width, height int) string {
	if s := w.feed.status(); s != "" {
		return centered([]string{s}, width, height)
	}
	th := w.env.Theme
	events := *w.feed.res.Data
	if len(events) == 0 {
		return centered([]string{components.Fg(th.Dim, "最近の地震データがありません")}, width, height)
	}
	var lines []string
	for _, e := range events {
		mag := quake.Unknown
		if e.Magnitude >= 0 {
			mag = fmt.Sprintf("%.1f", e.Magnitude)
		}
		lines = append(lines,
			components.Fg(th.Dim, e.When()+"発生")+" "+components.Bold(e.Location),
			fmt.Sprintf("  M%s  最大震度 %s", mag, components.BoldFg(w.intensityColor(e.Intensity), e.Intensity)),
		)
	}
	if w.feed.res.Err != nil {
		lines = append(lines, components.Fg(th.Warn, staleNote))
	}
	return components.FitBlock(lines, width, height)
}

func (w *Earthquakes) Report() map[string]any {
	out := w.feed.report()
	if w.feed.res.Ready() {
		out["events"] = lo.Map(*w.feed.res.Data, func(e quake.Event, _ int) map[string]any {
			return map[string]any{"when": e.When(), "location": e.Location, "magnitude": e.Magnitude, "intensity": e.Intensity}
		})
	}
	return out
}

// News lists business headlines with their publisher.
type News struct {
	env  Env
	feed feed[[]news.Item]
}

func NewNews(env Env) *News {
	env = env.withDefaults()
	return &News{env: env, feed: newFeed[[]news.Item](news.Name, env.Theme)}
}

func (w *News) ID() string                     { return "news" }
func (w *News) Title() string                  { return "経済・社会ニュース" }
func (w *News) MinSize() (int, int)            { return 34, 4 }
func (w *News) Init() tea.Cmd                  { return w.feed.Init() }
func (w *News) HandleKey(_ tea.KeyMsg) tea.Cmd { return nil }

func (w *News) Update(msg tea.Msg) tea.Cmd {
	_, cmd := w.feed.update(msg)
	return cmd
}

func (w *News) View(width, height int) string {
	if s := w.feed.status(); s != "" {
		return centered([]string{s}, width, height)
	}
	th := w.env.Theme
	var lines []string
	for _, it := range *w.feed.res.Data {
		lines = append(lines,
			components.TruncateWithTail("• "+it.Title, width, "…"),
			"  "+components.Fg(th.Dim, it.Source),
		)
	}
	if w.feed.res.Err != nil {
		lines = append(lines, components.Fg(th.Warn, staleNote))
	}
	return components.FitBlock(lines, width, height)
}

func (w *News) Report() map[string]any {
	out := w.feed.report()
	if w.feed.res.Ready() {
		out["headlines"] = lo.Map(*w.feed.res.Data, func(it news.Item, _ int) map[string]any {
			return map[string]any{"title": it.Title, "source": it.Source, "link": it.Link}
		})
	}
	return out
}
