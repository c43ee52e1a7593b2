package collectors

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Result is one scripted outcome of a Stub.
type Result struct {
	Data interface{}
	Err  error
}

// Stub is a Collector that replays scripted results in place of a network
// source. Each Collect returns the next result; the last one repeats.
type Stub struct {
	name     string
	interval time.Duration

	mu      sync.Mutex
	script  []Result
	next    int
	healthy bool
	fn      func(ctx context.Context) (interface{}, error)

	calls atomic.Int64
}

// NewStub returns a stub that replays results in order. With no results it
// returns (nil, nil).
func NewStub(name string, interval time.Duration, results ...Result) *Stub {
	return &Stub{name: name, interval: interval, script: results, healthy: true}
}

// WithFunc replaces the script with fn.
func (s *Stub) WithFunc(fn func(ctx context.Context) (interface{}, error)) *Stub {
	s.mu.Lock()
	s.fn = fn
	s.mu.Unlock()
	return s
}

func (s *Stub) Name() string            { return s.name }
func (s *Stub) Interval() time.Duration { return s.interval }

func (s *Stub) Healthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthy
}

// Calls is how many times Collect has run.
func (s *Stub) Calls() int64 { return s.calls.Load() }

func (s *Stub) Collect(ctx context.Context) (interface{}, error) {
	s.calls.Add(1)

	s.mu.Lock()
	fn := s.fn
	var res Result
	if fn == nil && len(s.script) > 0 {
		res = s.script[s.next]
		if s.next < len(s.script)-1 {
			s.next++
		}
	}
	s.mu.Unlock()

	if fn != nil {
		res.Data, res.Err = fn(ctx)
	}

	s.mu.Lock()
	s.healthy = res.Err == nil
	s.mu.Unlock()
	return res.Data, res.Err
}

var _ Collector = (*Stub)(nil)
