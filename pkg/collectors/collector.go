// Package collectors polls the dashboard's network sources. Each source
// (weather, fxrate, quake, news, geo) implements Collector; a Runner drives
// every registered collector on its own schedule and fans the results into
// one channel that the TUI drains.
package collectors

import (
	"context"
	"time"
)

// Collector is one network source.
type Collector interface {
	// Name is unique within a Registry and is the Source of every Update.
	Name() string

	// Collect fetches once. Consumers type-assert the result by Name.
	Collect(ctx context.Context) (interface{}, error)

	// Interval is the refresh period. Zero or less means fetch once.
	Interval() time.Duration

	// Healthy reports whether the last fetch succeeded.
	Healthy() bool
}

// Status is a Registry's record of one collector's fetches.
type Status struct {
	Name    string
	Healthy bool

	LastRun     time.Time
	LastSuccess time.Time
	LastError   error
	Latency     time.Duration

	Runs     int64
	Failures int64
}

// Fresh reports whether the last successful fetch is younger than maxAge.
func (s Status) Fresh(now time.Time, maxAge time.Duration) bool {
	return !s.LastSuccess.IsZero() && now.Sub(s.LastSuccess) < maxAge
}

// Update is one fetch result on its way to the TUI.
type Update struct {
	Source    string
	Data      interface{}
	Timestamp time.Time
	Error     error
}
