// Package geo resolves the viewer's prefecture from their IP address. It asks
// a primary geolocation service, then a fallback, and settles on a default
// region when neither yields a known prefecture. It never reports an error.
package geo

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/dataset"
)

// Name is the collector name and DataUpdateEvent source.
const Name = "geo"

const (
	PrimaryURL  = "http://ip-api.com/json/"
	FallbackURL = "https://ipapi.co/json/"
)

// Provenance values for Location.Via.
const (
	ViaPrimary  = "ip-api.com"
	ViaFallback = "ipapi.co"
	ViaDefault  = "default"
)

// Location is the resolved prefecture.
type Location struct {
	Prefecture dataset.Prefecture
	Via        string
	Raw        string
}

type apiResponse struct {
	RegionName string `json:"regionName"`
	Region     string `json:"region"`
}

// Collector performs a single lookup; its Interval is zero.
type Collector struct {
	client      *http.Client
	primaryURL  string
	fallbackURL string
	data        *dataset.Data
	defaultKey  string
	logger      *slog.Logger
}

type Option func(*Collector)

func WithClient(c *http.Client) Option { return func(g *Collector) { g.client = c } }
func WithURLs(primary, fallback string) Option {
	return func(g *Collector) { g.primaryURL, g.fallbackURL = primary, fallback }
}
func WithDataset(d *dataset.Data) Option { return func(g *Collector) { g.data = d } }

// WithDefaultRegion overrides the dataset's fallback region. Unknown keys are
// ignored.
func WithDefaultRegion(key string) Option { return func(g *Collector) { g.defaultKey = key } }
func WithLogger(l *slog.Logger) Option    { return func(g *Collector) { g.logger = l } }

func New(opts ...Option) *Collector {
	c := &Collector{
		client:      http.DefaultClient,
		primaryURL:  PrimaryURL,
		fallbackURL: FallbackURL,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.data == nil {
		c.data = dataset.MustLoad()
	}
	return c
}

func (c *Collector) Name() string            { return Name }
func (c *Collector) Interval() time.Duration { return 0 }
func (c *Collector) Healthy() bool           { return true }

// Collect returns a Location and a nil error in every case.
func (c *Collector) Collect(ctx context.Context) (interface{}, error) {
	return c.Resolve(ctx), nil
}

// Resolve runs the lookup cascade.
func (c *Collector) Resolve(ctx context.Context) Location {
	for _, step := range []struct{ url, via string }{
		{c.primaryURL, ViaPrimary},
		{c.fallbackURL, ViaFallback},
	} {
		var resp apiResponse
		if err := collectors.GetJSON(ctx, c.client, step.url, &resp); err != nil {
			c.logger.Warn("geolocation lookup failed", "source", step.via, "error", err)
			continue
		}
		raw := resp.RegionName
		if raw == "" {
			raw = resp.Region
		}
		if p, ok := c.lookup(raw); ok {
			return Location{Prefecture: p, Via: step.via, Raw: raw}
		}
		c.logger.Info("unrecognised region, using default", "source", step.via, "region", raw)
		return c.fallback(raw)
	}
	return c.fallback("")
}

func (c *Collector) fallback(raw string) Location {
	p := c.data.DefaultPrefecture()
	if c.defaultKey != "" {
		if d, ok := c.data.Prefecture(c.defaultKey); ok {
			p = d
		}
	}
	return Location{Prefecture: p, Via: ViaDefault, Raw: raw}
}

func (c *Collector) lookup(raw string) (dataset.Prefecture, bool) {
	if raw == "" {
		return dataset.Prefecture{}, false
	}
	if p, ok := c.data.Prefecture(raw); ok {
		return p, true
	}
	return c.data.Prefecture(Normalize(raw))
}

var romanReplacer = strings.NewReplacer(
	"ō", "o", "Ō", "O",
	"ū", "u", "Ū", "U",
	"ā", "a", "ē", "e",
)

// Normalize reduces spellings such as "Ōsaka-fu" or "Hyōgo Prefecture" to
// the plain key used by the prefecture table.
func Normalize(region string) string {
	s := romanReplacer.Replace(strings.TrimSpace(region))
	s = strings.TrimSuffix(s, " Prefecture")
	for _, suffix := range []string{"-ken", "-fu", "-to"} {
		s = strings.TrimSuffix(s, suffix)
	}
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

var _ collectors.Collector = (*Collector)(nil)
