// Package weather fetches current conditions from the Open-Meteo forecast API
// and maps WMO weather codes to short Japanese labels.
package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors"
)

// Name is the collector name and DataUpdateEvent source.
const Name = "weather"

const (
	DefaultBaseURL  = "https://api.open-meteo.com/v1/forecast"
	DefaultInterval = 30 * time.Minute

	// Tokyo.
	DefaultLatitude  = 35.6895
	DefaultLongitude = 139.6917
)

// ErrNoCurrentWeather is returned when the response lacks current_weather.
var ErrNoCurrentWeather = errors.New("response has no current_weather")

// Reading is one observation.
type Reading struct {
	Temperature float64
	Code        int
	Label       string
}

// Collector polls Open-Meteo for one location.
type Collector struct {
	client   *http.Client
	baseURL  string
	lat, lon float64
	interval time.Duration
	healthy  atomic.Bool
}

// Option configures a Collector.
type Option func(*Collector)

func WithClient(c *http.Client) Option     { return func(w *Collector) { w.client = c } }
func WithBaseURL(u string) Option          { return func(w *Collector) { w.baseURL = u } }
func WithInterval(d time.Duration) Option  { return func(w *Collector) { w.interval = d } }
func WithLocation(lat, lon float64) Option { return func(w *Collector) { w.lat, w.lon = lat, lon } }

// New returns a collector for Tokyo unless configured otherwise.
func New(opts ...Option) *Collector {
	c := &Collector{
		client:   http.DefaultClient,
		baseURL:  DefaultBaseURL,
		lat:      DefaultLatitude,
		lon:      DefaultLongitude,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.healthy.Store(true)
	return c
}

func (c *Collector) Name() string            { return Name }
func (c *Collector) Interval() time.Duration { return c.interval }
func (c *Collector) Healthy() bool           { return c.healthy.Load() }

type apiResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Collect fetches the current conditions and returns a Reading.
func (c *Collector) Collect(ctx context.Context) (interface{}, error) {
	r, err := c.fetch(ctx)
	c.healthy.Store(err == nil)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Collector) fetch(ctx context.Context) (Reading, error) {
	var resp apiResponse
	if err := collectors.GetJSON(ctx, c.client, c.url(), &resp); err != nil {
		return Reading{}, fmt.Errorf("weather: %w", err)
	}
	if resp.CurrentWeather == nil {
		return Reading{}, fmt.Errorf("weather: %w", ErrNoCurrentWeather)
	}
	cw := resp.CurrentWeather
	return Reading{
		Temperature: cw.Temperature,
		Code:        cw.WeatherCode,
		Label:       Label(cw.WeatherCode),
	}, nil
}

func (c *Collector) url() string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.lon, 'f', -1, 64))
	q.Set("current_weather", "true")
	q.Set("timezone", "Asia/Tokyo")
	return c.baseURL + "?" + q.Encode()
}

var _ collectors.Collector = (*Collector)(nil)
