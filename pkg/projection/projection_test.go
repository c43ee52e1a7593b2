package projection

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBase = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDebtScenarioTenSeconds(t *testing.T) {
	s, err := New(testBase, 1_293_214_567_890_000, 1_000_000)
	require.NoError(t, err)

	got := s.At(testBase.Add(10 * time.Second))
	assert.Equal(t, float64(1_293_214_567_890_000+10_000_000), got)
}

func TestAtBaseIsExact(t *testing.T) {
	specs := []Spec{
		Must(testBase, 0, 0),
		Must(testBase, 1_293_214_567_890_000, 1_000_000),
		Must(testBase, 124_000_000, -0.2),
		Must(testBase, 71_707_000, -0.016, WithFloor(0)),
		Must(testBase, 1e-9, 3.3),
	}
	for _, s := range specs {
		assert.Equal(t, s.Value, s.At(testBase))
	}
}

func TestMonotoneNonDecreasing(t *testing.T) {
	s := Must(testBase, 9_000_000, 0.002)
	prev := s.At(testBase)
	for i := 1; i <= 500; i++ {
		now := testBase.Add(time.Duration(i) * 37 * time.Millisecond)
		v := s.At(now)
		require.GreaterOrEqual(t, v, prev, "step %d", i)
		prev = v
	}
}

func TestMonotoneNonIncreasing(t *testing.T) {
	s := Must(testBase, 122_950_000, -0.01902)
	prev := s.At(testBase)
	for i := 1; i <= 500; i++ {
		now := testBase.Add(time.Duration(i) * 3 * time.Hour)
		v := s.At(now)
		require.LessOrEqual(t, v, prev, "step %d", i)
		prev = v
	}
}

func TestMonotoneBeforeBase(t *testing.T) {
	s := Must(testBase, 100, 1)
	assert.Less(t, s.At(testBase.Add(-time.Minute)), s.At(testBase))
	assert.Equal(t, 40.0, s.At(testBase.Add(-time.Minute)))
}

func TestIdempotent(t *testing.T) {
	s := Must(testBase, 36_532_000, 0.006)
	now := testBase.Add(12345 * time.Millisecond)
	first := s.At(now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.At(now))
	}
}

func TestClampNeverEscapesBounds(t *testing.T) {
	s := Must(testBase, 959_502, -500, WithFloor(530_000), WithCeiling(959_502))
	for _, d := range []time.Duration{
		0,
		time.Second,
		time.Hour,
		24 * time.Hour * 365 * 100,
		-24 * time.Hour * 365 * 100,
	} {
		v := s.At(testBase.Add(d))
		assert.GreaterOrEqual(t, v, 530_000.0, "elapsed %v", d)
		assert.LessOrEqual(t, v, 959_502.0, "elapsed %v", d)
	}
	assert.True(t, s.Clamped(testBase.Add(24*time.Hour*365)))
	assert.False(t, s.Clamped(testBase.Add(time.Second)))
}

func TestNewRejectsInvalidInput(t *testing.T) {
	cases := map[string]struct {
		value, rate float64
		opts        []Option
	}{
		"nan value":     {value: math.NaN(), rate: 1},
		"inf rate":      {value: 1, rate: math.Inf(1)},
		"nan floor":     {value: 1, rate: 1, opts: []Option{WithFloor(math.NaN())}},
		"floor>ceiling": {value: 1, rate: 1, opts: []Option{WithFloor(10), WithCeiling(5)}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(testBase, tc.value, tc.rate, tc.opts...)
			require.ErrorIs(t, err, ErrInvalidSpec)
		})
	}
}

func TestMustPanics(t *testing.T) {
	assert.Panics(t, func() { Must(testBase, math.NaN(), 0) })
}

func TestRatio(t *testing.T) {
	workers := Must(testBase, 71_707_000, -0.016)
	elders := Must(testBase, 36_532_000, 0.006)
	assert.InDelta(t, 71_707_000.0/36_532_000.0, Ratio(workers, elders, testBase), 1e-12)
	assert.Equal(t, 0.0, Ratio(workers, Must(testBase, 0, 0), testBase))
}

func TestDailyClimbsWithinDay(t *testing.T) {
	loc := time.FixedZone("JST", 9*3600)
	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)
	s := Daily(noon, 140_000.0/365)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), s.Base)
	assert.InDelta(t, 140_000.0/365/2, s.At(noon), 1e-6)
	assert.Equal(t, 0.0, s.At(s.Base))
	assert.Equal(t, 140_000.0/365, s.At(s.Base.Add(30*time.Hour)))
}

func TestPerPeriodRate(t *testing.T) {
	s := PerPeriod(testBase, 124_000_000, -1, 5*time.Second)
	assert.InDelta(t, -0.2, s.RatePerSecond, 1e-12)
	assert.Equal(t, 124_000_000.0-2, s.At(testBase.Add(10*time.Second)))
	assert.InDelta(t, 124_000_000.0-0.4, s.At(testBase.Add(2*time.Second)), 1e-6, "partial step between boundaries")
}
