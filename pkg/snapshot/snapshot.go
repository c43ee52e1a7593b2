// Package snapshot renders the dashboard once without the event loop. Every
// enabled source is fetched a single time, the results are folded into the
// widgets exactly as the TUI would, and the frame or a structured report is
// written out.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/app"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/banner"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/geo"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/dataset"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/theme"
)

// ErrOffline is recorded for every network source skipped by an offline
// snapshot.
var ErrOffline = errors.New("offline")

// Options configures Take.
type Options struct {
	// Offline skips the network. The region widget gets the default
	// prefecture and the other sources are marked failed with ErrOffline.
	Offline bool
	// Skipped names sources that Offline marks as failed.
	Skipped []string
	// Region is the offline prefecture key; empty or unknown keys use the
	// dataset default.
	Region string
	// Data supplies the default prefecture for offline runs.
	Data   *dataset.Data
	Theme  theme.Theme
	Logger *slog.Logger
	Now    func() time.Time
}

// SourceStatus is how one fetch went.
type SourceStatus struct {
	Name    string `json:"name" yaml:"name"`
	OK      bool   `json:"ok" yaml:"ok"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	Latency string `json:"latency,omitempty" yaml:"latency,omitempty"`
}

// WidgetReport is one widget's state in plain values.
type WidgetReport struct {
	ID    string         `json:"id" yaml:"id"`
	Title string         `json:"title" yaml:"title"`
	Data  map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// Report is the structured form of a snapshot.
type Report struct {
	RunID   string         `json:"run_id" yaml:"run_id"`
	TakenAt time.Time      `json:"taken_at" yaml:"taken_at"`
	Offline bool           `json:"offline" yaml:"offline"`
	Sources []SourceStatus `json:"sources" yaml:"sources"`
	Widgets []WidgetReport `json:"widgets" yaml:"widgets"`
}

// Snapshot is a taken snapshot: the report plus the widgets to draw.
type Snapshot struct {
	Report
	widgets []app.Widget
	theme   theme.Theme
}

// Take fetches every registered source once, concurrently, and delivers
// the results to widgets. A failed source is recorded and shown as failed;
// only cancellation of ctx aborts the snapshot.
func Take(ctx context.Context, widgets []app.Widget, reg *collectors.Registry, opts Options) (*Snapshot, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var events []app.DataUpdateEvent
	if opts.Offline {
		events = offlineEvents(opts)
	} else {
		var err error
		if events, err = fetch(ctx, reg, opts.Logger); err != nil {
			return nil, err
		}
	}

	for _, ev := range events {
		for _, w := range widgets {
			w.Update(ev)
		}
	}

	s := &Snapshot{
		Report: Report{
			RunID:   uuid.NewString(),
			TakenAt: opts.Now(),
			Offline: opts.Offline,
		},
		widgets: widgets,
		theme:   opts.Theme,
	}
	for _, ev := range events {
		st := SourceStatus{Name: ev.Source, OK: ev.Err == nil}
		if ev.Err != nil {
			st.Error = ev.Err.Error()
		}
		if reg != nil {
			if cs, ok := reg.Status(ev.Source); ok && cs.Latency > 0 {
				st.Latency = cs.Latency.Round(time.Millisecond).String()
			}
		}
		s.Sources = append(s.Sources, st)
	}
	for _, w := range widgets {
		wr := WidgetReport{ID: w.ID(), Title: w.Title()}
		if r, ok := w.(app.Reporter); ok {
			wr.Data = r.Report()
		}
		s.Widgets = append(s.Widgets, wr)
	}
	opts.Logger.Debug("snapshot taken", "run_id", s.RunID, "sources", len(s.Sources), "widgets", len(s.Widgets))
	return s, nil
}

// fetch runs each collector once under an errgroup. Fetch errors become
// failed events; the group itself fails only on cancellation.
func fetch(ctx context.Context, reg *collectors.Registry, logger *slog.Logger) ([]app.DataUpdateEvent, error) {
	if reg == nil {
		return nil, nil
	}
	runner := collectors.NewRunner(reg, nil).WithLogger(logger)
	g, gctx := errgroup.WithContext(ctx)

	var (
		mu     sync.Mutex
		events []app.DataUpdateEvent
	)
	for _, name := range reg.List() {
		g.Go(func() error {
			data, err := runner.RunOnce(gctx, name)
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			mu.Lock()
			defer mu.Unlock()
			events = append(events, app.FromUpdate(collectors.Update{
				Source:    name,
				Data:      data,
				Error:     err,
				Timestamp: time.Now(),
			}))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Source < events[j].Source })
	return events, nil
}

func offlineEvents(opts Options) []app.DataUpdateEvent {
	now := opts.Now()
	data := opts.Data
	if data == nil {
		data = dataset.MustLoad()
	}
	pref := data.DefaultPrefecture()
	if p, ok := data.Prefecture(opts.Region); ok && opts.Region != "" {
		pref = p
	}
	events := []app.DataUpdateEvent{{
		Source:    geo.Name,
		Data:      geo.Location{Prefecture: pref, Via: geo.ViaDefault},
		Timestamp: now,
	}}
	for _, name := range opts.Skipped {
		events = append(events, app.DataUpdateEvent{Source: name, Err: ErrOffline, Timestamp: now})
	}
	return events
}

// Frame renders the widgets as one banner width cells wide.
func (s *Snapshot) Frame(width int) string {
	data := banner.BannerData{Theme: s.theme}
	for _, w := range s.widgets {
		minW, minH := w.MinSize()
		data.Widgets = append(data.Widgets, banner.WidgetData{
			ID:    w.ID(),
			Title: w.Title(),
			MinW:  minW,
			MinH:  minH,
			View:  w.View,
		})
	}
	return banner.Render(data, width)
}
