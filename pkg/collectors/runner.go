package collectors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
)

// DefaultUpdateBufferSize is the recommended capacity of the updates channel.
const DefaultUpdateBufferSize = 64

// ErrCollectorNotFound is returned by RunOnce for an unregistered name.
var ErrCollectorNotFound = errors.New("collector not found")

// Runner drives every registered collector on its own goroutine. Each
// collector runs once immediately and then on its Interval; an Interval of
// zero or less means the collector runs exactly once. Results are fanned
// into a single updates channel.
type Runner struct {
	registry *Registry
	updates  chan<- Update
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewRunner creates a runner over r that publishes to updates.
func NewRunner(r *Registry, updates chan<- Update) *Runner {
	return &Runner{
		registry: r,
		updates:  updates,
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger used for collection failures.
func (rn *Runner) WithLogger(l *slog.Logger) *Runner {
	if l != nil {
		rn.logger = l
	}
	return rn
}

// Start launches one goroutine per registered collector. It returns
// immediately; call Stop to release the goroutines.
func (rn *Runner) Start(ctx context.Context) error {
	rn.mu.Lock()
	defer rn.mu.Unlock()

	if rn.started {
		return fmt.Errorf("runner already started")
	}
	rn.started = true

	ctx, rn.cancel = context.WithCancel(ctx)

	for _, name := range rn.registry.List() {
		c, ok := rn.registry.Get(name)
		if !ok {
			continue
		}
		rn.wg.Add(1)
		go rn.loop(ctx, c)
	}
	return nil
}

// Stop cancels all collector goroutines and waits for them to exit. It is
// safe to call more than once.
func (rn *Runner) Stop() {
	rn.mu.Lock()
	cancel := rn.cancel
	rn.cancel = nil
	rn.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	rn.wg.Wait()
}

// RunOnce runs the named collector synchronously, records its status, and
// returns the result without publishing it.
func (rn *Runner) RunOnce(ctx context.Context, name string) (interface{}, error) {
	c, ok := rn.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCollectorNotFound, name)
	}
	return rn.collect(ctx, c)
}

// StaleIntervals is how many polling intervals may pass without a
// successful fetch before Health reports the collector unhealthy.
const StaleIntervals = 3

// Health returns the health of every registered collector by name. A
// polling collector whose last success is older than StaleIntervals
// intervals counts as unhealthy even if its last run did not fail.
func (rn *Runner) Health() map[string]bool {
	now := time.Now()
	return lo.SliceToMap(rn.registry.AllStatus(), func(s Status) (string, bool) {
		return s.Name, s.Healthy && rn.fresh(s, now)
	})
}

func (rn *Runner) fresh(s Status, now time.Time) bool {
	c, ok := rn.registry.Get(s.Name)
	if !ok || c.Interval() <= 0 || s.Runs == 0 {
		return true
	}
	return s.Fresh(now, StaleIntervals*c.Interval())
}

func (rn *Runner) loop(ctx context.Context, c Collector) {
	defer rn.wg.Done()

	rn.publish(ctx, c)

	interval := c.Interval()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rn.publish(ctx, c)
		}
	}
}

func (rn *Runner) publish(ctx context.Context, c Collector) {
	if ctx.Err() != nil {
		return
	}

	data, err := rn.collect(ctx, c)
	if err != nil && ctx.Err() != nil {
		// Shutdown, not a failed fetch.
		return
	}

	u := Update{
		Source:    c.Name(),
		Data:      data,
		Timestamp: time.Now(),
		Error:     err,
	}

	select {
	case rn.updates <- u:
	default:
		rn.logger.Warn("update dropped, channel full", "source", u.Source)
	}
}

func (rn *Runner) collect(ctx context.Context, c Collector) (interface{}, error) {
	name := c.Name()
	start := time.Now()
	data, err := c.Collect(ctx)
	latency := time.Since(start)
	if latency <= 0 {
		latency = time.Nanosecond
	}

	rn.registry.record(name, start, latency, err)

	if err != nil {
		rn.logger.Warn("collection failed", "source", name, "error", err, "latency", latency)
	} else {
		rn.logger.Debug("collection complete", "source", name, "latency", latency)
	}
	return data, err
}
