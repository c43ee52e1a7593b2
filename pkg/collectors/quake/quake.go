// Package quake fetches recent earthquake reports from the P2PQuake history
// API and maps the feed's scale codes to JMA seismic intensity labels.
package quake

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors"
)

// Name is the collector name and DataUpdateEvent source.
const Name = "quakes"

const (
	DefaultURL      = "https://api.p2pquake.net/v2/history?codes=551&limit=3"
	DefaultInterval = 5 * time.Minute

	// Unknown is shown for unmapped scales and unnamed hypocenters.
	Unknown = "不明"
)

// jst is the feed's implied zone.
var jst = time.FixedZone("JST", 9*60*60)

// scaleLabels maps P2PQuake maxScale codes to JMA intensity.
var scaleLabels = map[int]string{
	10: "1",
	20: "2",
	30: "3",
	40: "4",
	45: "5弱",
	50: "5強",
	55: "6弱",
	60: "6強",
	70: "7",
}

// ScaleLabel returns the intensity label for a maxScale code.
func ScaleLabel(scale int) string {
	if l, ok := scaleLabels[scale]; ok {
		return l
	}
	return Unknown
}

// Event is one report, already transformed for display.
type Event struct {
	ID        string
	Time      time.Time
	RawTime   string
	Location  string
	Magnitude float64
	Intensity string
}

// When formats the event time as M/D H:MM, or the raw feed string when it
// could not be parsed.
func (e Event) When() string {
	if e.Time.IsZero() {
		return e.RawTime
	}
	t := e.Time.In(jst)
	return fmt.Sprintf("%d/%d %d:%02d", int(t.Month()), t.Day(), t.Hour(), t.Minute())
}

type apiEvent struct {
	ID         string `json:"id"`
	Time       string `json:"time"`
	Earthquake struct {
		Hypocenter struct {
			Name      string  `json:"name"`
			Magnitude float64 `json:"magnitude"`
		} `json:"hypocenter"`
		MaxScale int `json:"maxScale"`
	} `json:"earthquake"`
}

type Collector struct {
	client   *http.Client
	url      string
	interval time.Duration
	healthy  atomic.Bool
}

type Option func(*Collector)

func WithClient(c *http.Client) Option    { return func(q *Collector) { q.client = c } }
func WithURL(u string) Option             { return func(q *Collector) { q.url = u } }
func WithInterval(d time.Duration) Option { return func(q *Collector) { q.interval = d } }

func New(opts ...Option) *Collector {
	c := &Collector{client: http.DefaultClient, url: DefaultURL, interval: DefaultInterval}
	for _, opt := range opts {
		opt(c)
	}
	c.healthy.Store(true)
	return c
}

func (c *Collector) Name() string            { return Name }
func (c *Collector) Interval() time.Duration { return c.interval }
func (c *Collector) Healthy() bool           { return c.healthy.Load() }

// Collect returns the latest events as []Event, newest first as served.
func (c *Collector) Collect(ctx context.Context) (interface{}, error) {
	var raw []apiEvent
	err := collectors.GetJSON(ctx, c.client, c.url, &raw)
	c.healthy.Store(err == nil)
	if err != nil {
		return nil, fmt.Errorf("quake: %w", err)
	}
	return lo.Map(raw, func(e apiEvent, _ int) Event { return toEvent(e) }), nil
}

func toEvent(e apiEvent) Event {
	loc := e.Earthquake.Hypocenter.Name
	if loc == "" {
		loc = Unknown
	}
	return Event{
		ID:        e.ID,
		Time:      parseTime(e.Time),
		RawTime:   e.Time,
		Location:  loc,
		Magnitude: e.Earthquake.Hypocenter.Magnitude,
		Intensity: ScaleLabel(e.Earthquake.MaxScale),
	}
}

var timeLayouts = []string{
	"2006/01/02 15:04:05.000",
	"2006/01/02 15:04:05",
	time.RFC3339,
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, jst); err == nil {
			return t
		}
	}
	return time.Time{}
}

var _ collectors.Collector = (*Collector)(nil)
