package widgets

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/app"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/fxrate"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/news"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/quake"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/weather"
)

var fetchedAt = time.Date(2026, 10, 18, 11, 30, 0, 0, jst)

func event(source string, data interface{}, err error) app.DataUpdateEvent {
	return app.DataUpdateEvent{Source: source, Data: data, Err: err, Timestamp: fetchedAt}
}

func TestWeatherStates(t *testing.T) {
	w := NewWeather(testEnv(newFakeClock()))
	if !strings.Contains(w.View(30, 4), collectors.StatusLoading) {
		t.Error("initial view should be loading")
	}

	w.Update(event(weather.Name, nil, errors.New("timeout")))
	if !strings.Contains(w.View(30, 4), collectors.StatusFailed) {
		t.Error("failed first fetch should show the failure label")
	}

	w.Update(event(weather.Name, weather.Reading{Temperature: 21.5, Code: 1, Label: "晴れ"}, nil))
	view := w.View(40, 5)
	for _, want := range []string{"21.5℃", "晴れ", "+3.9℃", "11:30"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, staleNote) {
		t.Error("fresh data marked stale")
	}

	w.Update(event(weather.Name, nil, errors.New("503")))
	view = w.View(40, 5)
	if !strings.Contains(view, "21.5℃") || !strings.Contains(view, staleNote) {
		t.Errorf("failed refresh should keep the old reading and mark it:\n%s", view)
	}
	r := w.Report()
	if r["temperature"] != 21.5 || r["error"] != "503" {
		t.Errorf("report = %v", r)
	}
}

func TestWeatherWrongPayload(t *testing.T) {
	w := NewWeather(testEnv(newFakeClock()))
	w.Update(event(weather.Name, "not a reading", nil))
	if !strings.Contains(w.View(30, 4), collectors.StatusFailed) {
		t.Error("unexpected payload should count as a failure")
	}
	var unexpected *collectors.UnexpectedDataError
	if !errors.As(w.feed.res.Err, &unexpected) {
		t.Errorf("err = %v", w.feed.res.Err)
	}
}

func TestSpinnerStopsOnceLoaded(t *testing.T) {
	w := NewNews(testEnv(newFakeClock()))
	tick := w.feed.spin.Tick()
	if cmd := w.Update(tick); cmd == nil {
		t.Error("spinner should keep turning while loading")
	}
	w.Update(event(news.Name, []news.Item{}, nil))
	if cmd := w.Update(spinner.TickMsg{ID: w.feed.spin.ID()}); cmd != nil {
		t.Error("spinner kept turning after data arrived")
	}
}

func TestExchangeRateView(t *testing.T) {
	w := NewExchangeRate(testEnv(newFakeClock()))
	w.Update(event(fxrate.Name, fxrate.Quote{Rate: 150, Date: "2026-10-17"}, nil))
	view := w.View(50, 8)
	for _, want := range []string{"150.00", "円安", "日本"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
	gap, ok := w.Report()["bigmac_gap_percent"].(float64)
	if !ok || gap >= 0 {
		t.Errorf("gap = %v, want the yen undervalued", gap)
	}
}

func TestEarthquakes(t *testing.T) {
	w := NewEarthquakes(testEnv(newFakeClock()))
	w.Update(event(quake.Name, []quake.Event{}, nil))
	if !strings.Contains(w.View(40, 4), "最近の地震データがありません") {
		t.Error("empty feed message missing")
	}

	w.Update(event(quake.Name, []quake.Event{{
		Time:      time.Date(2026, 10, 18, 7, 5, 0, 0, jst),
		Location:  "千葉県東方沖",
		Magnitude: 4.8,
		Intensity: "5弱",
	}, {
		RawTime:   "garbled",
		Location:  quake.Unknown,
		Magnitude: -1,
		Intensity: quake.Unknown,
	}}, nil))
	view := w.View(50, 6)
	for _, want := range []string{"10/18 7:05", "千葉県東方沖", "M4.8", "5弱", "M不明"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
	if w.intensityColor("5弱") != w.env.Theme.Crit {
		t.Error("5弱 should be critical")
	}
}

func TestNewsView(t *testing.T) {
	w := NewNews(testEnv(newFakeClock()))
	w.Update(event(news.Name, []news.Item{
		{Title: "日銀が利上げを決定", Source: "日経"},
		{Title: "円相場が続落", Source: news.DefaultSource},
	}, nil))
	view := w.View(40, 5)
	for _, want := range []string{"• 日銀が利上げを決定", "日経", "円相場"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
	if got := len(w.Report()["headlines"].([]map[string]any)); got != 2 {
		t.Errorf("report has %d headlines", got)
	}
}
