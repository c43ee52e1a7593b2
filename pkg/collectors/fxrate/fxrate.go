// Package fxrate fetches the USD/JPY reference rate from the Frankfurter API
// and derives the Big Mac comparison shown next to it.
package fxrate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors"
)

// Name is the collector name and DataUpdateEvent source.
const Name = "fx"

const (
	DefaultURL      = "https://api.frankfurter.app/latest?from=USD&to=JPY"
	DefaultInterval = time.Hour
)

// ErrNoRate is returned when the response carries no usable JPY rate.
var ErrNoRate = errors.New("response has no JPY rate")

// Quote is the yen price of one US dollar.
type Quote struct {
	Rate float64
	Date string
}

type Collector struct {
	client   *http.Client
	url      string
	interval time.Duration
	healthy  atomic.Bool
}

type Option func(*Collector)

func WithClient(c *http.Client) Option    { return func(f *Collector) { f.client = c } }
func WithURL(u string) Option             { return func(f *Collector) { f.url = u } }
func WithInterval(d time.Duration) Option { return func(f *Collector) { f.interval = d } }

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

func (c *Collector) Collect(ctx context.Context) (interface{}, error) {
	var resp struct {
		Date  string             `json:"date"`
		Rates map[string]float64 `json:"rates"`
	}
	err := collectors.GetJSON(ctx, c.client, c.url, &resp)
	if err == nil && resp.Rates["JPY"] <= 0 {
		err = ErrNoRate
	}
	c.healthy.Store(err == nil)
	if err != nil {
		return nil, fmt.Errorf("fx: %w", err)
	}
	return Quote{Rate: resp.Rates["JPY"], Date: resp.Date}, nil
}

// BigMacGap returns the yen's deviation from Big Mac parity in percent of
// the market rate. Negative means the yen is weaker than parity implies.
func BigMacGap(rate, implied float64) float64 {
	if rate == 0 {
		return 0
	}
	return -((rate - implied) / rate * 100)
}

// ToYen converts a dollar amount at rate.
func ToYen(usd, rate float64) float64 {
	return usd * rate
}

var _ collectors.Collector = (*Collector)(nil)
