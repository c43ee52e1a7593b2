// Package projection computes simulated counter values from elapsed time.
//
// A Spec pins a value to a base instant and a constant per-second rate. The
// projected value at any instant is recomputed from scratch as
// Value + RatePerSecond*(now-Base), so a counter never drifts no matter how
// irregularly its owner asks for it. Nothing in this package accumulates.
package projection

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidSpec is returned by New when the inputs cannot form a projection.
var ErrInvalidSpec = errors.New("invalid projection spec")

// Spec describes a linear projection. The zero value projects 0 forever.
type Spec struct {
	Base          time.Time
	Value         float64
	RatePerSecond float64
	Floor         *float64
	Ceiling       *float64
}

// Option configures a Spec during construction.
type Option func(*Spec)

// WithFloor clamps the projection from below.
func WithFloor(v float64) Option {
	return func(s *Spec) { s.Floor = &v }
}

// WithCeiling clamps the projection from above.
func WithCeiling(v float64) Option {
	return func(s *Spec) { s.Ceiling = &v }
}

// New validates and returns a Spec anchored at base.
func New(base time.Time, value, ratePerSecond float64, opts ...Option) (Spec, error) {
	s := Spec{Base: base, Value: value, RatePerSecond: ratePerSecond}
	for _, opt := range opts {
		opt(&s)
	}

	if !finite(value) {
		return Spec{}, fmt.Errorf("%w: base value %v is not finite", ErrInvalidSpec, value)
	}
	if !finite(ratePerSecond) {
		return Spec{}, fmt.Errorf("%w: rate %v is not finite", ErrInvalidSpec, ratePerSecond)
	}
	if s.Floor != nil && !finite(*s.Floor) {
		return Spec{}, fmt.Errorf("%w: floor %v is not finite", ErrInvalidSpec, *s.Floor)
	}
	if s.Ceiling != nil && !finite(*s.Ceiling) {
		return Spec{}, fmt.Errorf("%w: ceiling %v is not finite", ErrInvalidSpec, *s.Ceiling)
	}
	if s.Floor != nil && s.Ceiling != nil && *s.Floor > *s.Ceiling {
		return Spec{}, fmt.Errorf("%w: floor %v above ceiling %v", ErrInvalidSpec, *s.Floor, *s.Ceiling)
	}
	return s, nil
}

// Must is like New but panics on error. Intended for fixed baselines.
func Must(base time.Time, value, ratePerSecond float64, opts ...Option) Spec {
	s, err := New(base, value, ratePerSecond, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// At returns the projected value at now. Instants before Base extrapolate
// backwards along the same line, which keeps the result monotone.
func (s Spec) At(now time.Time) float64 {
	v := s.Value
	if s.RatePerSecond != 0 {
		v += s.RatePerSecond * s.Elapsed(now).Seconds()
	}
	return s.clamp(v)
}

// Elapsed returns now-Base.
func (s Spec) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.Base)
}

// Clamped reports whether the projection at now is pinned to a bound.
func (s Spec) Clamped(now time.Time) bool {
	raw := s.Value + s.RatePerSecond*s.Elapsed(now).Seconds()
	return raw != s.clamp(raw)
}

func (s Spec) clamp(v float64) float64 {
	if s.Floor != nil && v < *s.Floor {
		v = *s.Floor
	}
	if s.Ceiling != nil && v > *s.Ceiling {
		v = *s.Ceiling
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
