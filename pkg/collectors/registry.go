package collectors

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
)

var (
	ErrDuplicateCollector = errors.New("collector already registered")
	ErrUnnamedCollector   = errors.New("collector has no name")
)

type entry struct {
	collector Collector
	status    Status
}

// Registry holds the enabled collectors and their fetch records. It is safe
// for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds c. Names must be non-empty and unique.
func (r *Registry) Register(c Collector) error {
	name := c.Name()
	if name == "" {
		return ErrUnnamedCollector
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCollector, name)
	}
	r.entries[name] = &entry{collector: c, status: Status{Name: name, Healthy: true}}
	return nil
}

func (r *Registry) Get(name string) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.collector, true
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.entries)
	slices.Sort(names)
	return names
}

// Status returns a copy of name's fetch record.
func (r *Registry) Status(name string) (Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return Status{}, false
	}
	return e.status, true
}

// AllStatus returns every fetch record, sorted by name.
func (r *Registry) AllStatus() []Status {
	return lo.FilterMap(r.List(), func(name string, _ int) (Status, bool) {
		return r.Status(name)
	})
}

// record notes the outcome of one fetch of name that began at start.
func (r *Registry) record(name string, start time.Time, latency time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return
	}
	s := &e.status
	s.Runs++
	s.LastRun = start
	s.Latency = latency
	s.LastError = err
	s.Healthy = err == nil
	if err != nil {
		s.Failures++
		return
	}
	s.LastSuccess = start
}
