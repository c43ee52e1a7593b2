// Package news fetches business headlines from the Google News RSS feed via
// the rss2json proxy and separates the publisher from each headline.
package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors"
)

// Name is the collector name and DataUpdateEvent source.
const Name = "news"

const (
	DefaultProxyURL = "https://api.rss2json.com/v1/api.json"
	DefaultFeedURL  = "https://news.google.com/rss/headlines/section/topic/BUSINESS?hl=ja&gl=JP&ceid=JP:ja"
	DefaultInterval = time.Hour

	// DefaultSource is used when a headline carries no " - Publisher" suffix.
	DefaultSource = "Google News"

	// MaxItems is how many headlines are kept.
	MaxItems = 4

	sourceDelimiter = " - "
)

// ErrFeedStatus is returned when the proxy reports anything but "ok".
var ErrFeedStatus = errors.New("feed status not ok")

// Item is one headline.
type Item struct {
	Title     string
	Source    string
	Link      string
	Published time.Time
}

// SplitTitle separates a trailing " - Publisher" from a headline. Without
// the delimiter the title is returned unchanged with DefaultSource.
func SplitTitle(title string) (headline, source string) {
	parts := strings.Split(title, sourceDelimiter)
	if len(parts) < 2 {
		return title, DefaultSource
	}
	return strings.Join(parts[:len(parts)-1], sourceDelimiter), parts[len(parts)-1]
}

type apiItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	PubDate string `json:"pubDate"`
}

type apiResponse struct {
	Status string    `json:"status"`
	Items  []apiItem `json:"items"`
}

type Collector struct {
	client   *http.Client
	proxyURL string
	feedURL  string
	interval time.Duration
	healthy  atomic.Bool
}

type Option func(*Collector)

func WithClient(c *http.Client) Option    { return func(n *Collector) { n.client = c } }
func WithProxyURL(u string) Option        { return func(n *Collector) { n.proxyURL = u } }
func WithFeedURL(u string) Option         { return func(n *Collector) { n.feedURL = u } }
func WithInterval(d time.Duration) Option { return func(n *Collector) { n.interval = d } }

func New(opts ...Option) *Collector {
	c := &Collector{
		client:   http.DefaultClient,
		proxyURL: DefaultProxyURL,
		feedURL:  DefaultFeedURL,
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

// Collect returns up to MaxItems headlines as []Item.
func (c *Collector) Collect(ctx context.Context) (interface{}, error) {
	var resp apiResponse
	err := collectors.GetJSON(ctx, c.client, c.requestURL(), &resp)
	if err == nil && resp.Status != "ok" {
		err = fmt.Errorf("%w: %q", ErrFeedStatus, resp.Status)
	}
	c.healthy.Store(err == nil)
	if err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}

	items := resp.Items
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	return lo.Map(items, func(it apiItem, _ int) Item {
		headline, source := SplitTitle(it.Title)
		return Item{
			Title:     headline,
			Source:    source,
			Link:      it.Link,
			Published: parsePubDate(it.PubDate),
		}
	}), nil
}

func (c *Collector) requestURL() string {
	return c.proxyURL + "?rss_url=" + url.QueryEscape(c.feedURL)
}

// rss2json reports pubDate in UTC without a zone.
func parsePubDate(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

var _ collectors.Collector = (*Collector)(nil)
