package collectors

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

var errUpstream = errors.New("upstream 503")

func newRunner(t *testing.T, buf int, cs ...Collector) (*Runner, <-chan Update) {
	t.Helper()
	reg := NewRegistry()
	for _, c := range cs {
		require.NoError(t, reg.Register(c))
	}
	updates := make(chan Update, buf)
	return NewRunner(reg, updates).WithLogger(quiet), updates
}

func receive(t *testing.T, updates <-chan Update) Update {
	t.Helper()
	select {
	case u := <-updates:
		return u
	case <-time.After(time.Second):
		t.Fatal("no update within 1s")
		return Update{}
	}
}

func TestRegister(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewStub("weather", time.Hour)))
	require.NoError(t, reg.Register(NewStub("fx", time.Hour)))
	require.NoError(t, reg.Register(NewStub("geo", 0)))

	assert.Equal(t, []string{"fx", "geo", "weather"}, reg.List())

	err := reg.Register(NewStub("fx", time.Minute))
	assert.ErrorIs(t, err, ErrDuplicateCollector)
	assert.ErrorIs(t, reg.Register(NewStub("", time.Minute)), ErrUnnamedCollector)

	c, ok := reg.Get("geo")
	require.True(t, ok)
	assert.Zero(t, c.Interval())

	_, ok = reg.Get("quakes")
	assert.False(t, ok)
	_, ok = reg.Status("quakes")
	assert.False(t, ok)
}

func TestRegistryRecord(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewStub("news", time.Hour)))

	s, ok := reg.Status("news")
	require.True(t, ok)
	assert.True(t, s.Healthy, "healthy before the first fetch")
	assert.Zero(t, s.Runs)

	t0 := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	reg.record("news", t0, 120*time.Millisecond, nil)
	reg.record("news", t0.Add(time.Hour), 80*time.Millisecond, errUpstream)
	reg.record("ghost", t0, time.Millisecond, nil)

	s, _ = reg.Status("news")
	assert.False(t, s.Healthy)
	assert.EqualValues(t, 2, s.Runs)
	assert.EqualValues(t, 1, s.Failures)
	assert.Equal(t, t0.Add(time.Hour), s.LastRun)
	assert.Equal(t, t0, s.LastSuccess)
	assert.Equal(t, 80*time.Millisecond, s.Latency)
	assert.ErrorIs(t, s.LastError, errUpstream)

	assert.True(t, s.Fresh(t0.Add(90*time.Minute), 2*time.Hour))
	assert.False(t, s.Fresh(t0.Add(3*time.Hour), 2*time.Hour))
	assert.False(t, Status{}.Fresh(t0, time.Hour))
}

func TestAllStatusSorted(t *testing.T) {
	reg := NewRegistry()
	for _, n := range []string{"quakes", "fx", "weather"} {
		require.NoError(t, reg.Register(NewStub(n, time.Minute)))
	}
	names := make([]string, 0, 3)
	for _, s := range reg.AllStatus() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"fx", "quakes", "weather"}, names)
	assert.Empty(t, NewRegistry().AllStatus())
}

func TestStubReplaysScript(t *testing.T) {
	ctx := context.Background()
	s := NewStub("fx", time.Hour, Result{Err: errUpstream}, Result{Data: 150.25})

	_, err := s.Collect(ctx)
	assert.ErrorIs(t, err, errUpstream)
	assert.False(t, s.Healthy())

	for i := 0; i < 2; i++ {
		data, err := s.Collect(ctx)
		require.NoError(t, err)
		assert.Equal(t, 150.25, data)
	}
	assert.True(t, s.Healthy())
	assert.EqualValues(t, 3, s.Calls())

	data, err := NewStub("empty", 0).Collect(ctx)
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestStubWithFunc(t *testing.T) {
	n := 0
	s := NewStub("quakes", time.Minute, Result{Data: "ignored"}).
		WithFunc(func(context.Context) (interface{}, error) {
			n++
			return n, nil
		})
	data, _ := s.Collect(context.Background())
	assert.Equal(t, 1, data)
	data, _ = s.Collect(context.Background())
	assert.Equal(t, 2, data)
}

func TestRunnerFetchesImmediately(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	wx := NewStub("weather", time.Hour, Result{Data: 21.5})
	runner, updates := newRunner(t, DefaultUpdateBufferSize, wx)
	require.NoError(t, runner.Start(context.Background()))
	defer runner.Stop()

	u := receive(t, updates)
	assert.Equal(t, "weather", u.Source)
	assert.Equal(t, 21.5, u.Data)
	assert.NoError(t, u.Error)
	assert.False(t, u.Timestamp.IsZero())
}

func TestRunnerPolls(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	q := NewStub("quakes", 10*time.Millisecond, Result{Data: "tick"})
	runner, updates := newRunner(t, DefaultUpdateBufferSize, q)
	require.NoError(t, runner.Start(context.Background()))
	for i := 0; i < 3; i++ {
		assert.Equal(t, "quakes", receive(t, updates).Source)
	}
	runner.Stop()
	assert.GreaterOrEqual(t, q.Calls(), int64(3))
}

func TestRunnerOneShot(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	g := NewStub("geo", 0, Result{Data: "Tokyo"})
	runner, updates := newRunner(t, DefaultUpdateBufferSize, g)
	require.NoError(t, runner.Start(context.Background()))

	assert.Equal(t, "Tokyo", receive(t, updates).Data)
	time.Sleep(50 * time.Millisecond)
	runner.Stop()

	assert.EqualValues(t, 1, g.Calls())
	assert.Empty(t, updates)
}

func TestRunnerKeepsPollingAfterFailure(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	fx := NewStub("fx", 10*time.Millisecond, Result{Err: errUpstream}, Result{Data: 149.8})
	runner, updates := newRunner(t, DefaultUpdateBufferSize, fx)
	require.NoError(t, runner.Start(context.Background()))
	defer runner.Stop()

	first := receive(t, updates)
	assert.ErrorIs(t, first.Error, errUpstream)
	assert.Nil(t, first.Data)

	second := receive(t, updates)
	assert.NoError(t, second.Error)
	assert.Equal(t, 149.8, second.Data)
}

func TestRunnerIndependentSources(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	runner, updates := newRunner(t, DefaultUpdateBufferSize,
		NewStub("weather", time.Hour, Result{Data: 1}),
		NewStub("fx", time.Hour, Result{Err: errUpstream}),
		NewStub("news", time.Hour, Result{Data: 3}),
	)
	require.NoError(t, runner.Start(context.Background()))
	defer runner.Stop()

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		seen[receive(t, updates).Source] = true
	}
	assert.Equal(t, map[string]bool{"weather": true, "fx": true, "news": true}, seen)
}

func TestRunnerStartTwice(t *testing.T) {
	runner, _ := newRunner(t, 1)
	require.NoError(t, runner.Start(context.Background()))
	defer runner.Stop()
	assert.Error(t, runner.Start(context.Background()))
}

func TestRunnerStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	runner, _ := newRunner(t, DefaultUpdateBufferSize, NewStub("news", 5*time.Millisecond))
	runner.Stop()
	require.NoError(t, runner.Start(context.Background()))
	runner.Stop()
	runner.Stop()
}

func TestRunnerDropsWhenChannelFull(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	runner, _ := newRunner(t, 0, NewStub("weather", time.Millisecond, Result{Data: 1}))
	require.NoError(t, runner.Start(context.Background()))
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		runner.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a full updates channel")
	}
}

func TestRunnerShutdownIsNotAFailure(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	started := make(chan struct{})
	slow := NewStub("news", time.Hour).WithFunc(func(ctx context.Context) (interface{}, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	runner, updates := newRunner(t, DefaultUpdateBufferSize, slow)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, runner.Start(ctx))
	<-started
	cancel()
	runner.Stop()

	assert.Empty(t, updates, "a fetch aborted by shutdown is not published")
}

func TestRunOnce(t *testing.T) {
	fx := NewStub("fx", time.Hour, Result{Data: 151.0}, Result{Err: errUpstream})
	runner, updates := newRunner(t, DefaultUpdateBufferSize, fx)

	data, err := runner.RunOnce(context.Background(), "fx")
	require.NoError(t, err)
	assert.Equal(t, 151.0, data)

	_, err = runner.RunOnce(context.Background(), "fx")
	assert.ErrorIs(t, err, errUpstream)

	_, err = runner.RunOnce(context.Background(), "bigmac")
	assert.ErrorIs(t, err, ErrCollectorNotFound)

	s, _ := runner.registry.Status("fx")
	assert.EqualValues(t, 2, s.Runs)
	assert.EqualValues(t, 1, s.Failures)
	assert.Positive(t, s.Latency)
	assert.Empty(t, updates, "RunOnce does not publish")

	assert.Equal(t, map[string]bool{"fx": false}, runner.Health())
}

func TestHealthFlagsStaleSource(t *testing.T) {
	quick := NewStub("quakes", time.Millisecond, Result{Data: "ok"})
	slow := NewStub("news", time.Hour, Result{Data: "ok"})
	once := NewStub("geo", 0, Result{Data: "ok"})
	runner, _ := newRunner(t, DefaultUpdateBufferSize, quick, slow, once)

	assert.Equal(t, map[string]bool{"quakes": true, "news": true, "geo": true}, runner.Health(),
		"collectors that never ran are healthy")

	for _, name := range []string{"quakes", "news", "geo"} {
		_, err := runner.RunOnce(context.Background(), name)
		require.NoError(t, err)
	}
	time.Sleep(10 * time.Millisecond)

	health := runner.Health()
	assert.False(t, health["quakes"], "no success for more than three intervals")
	assert.True(t, health["news"])
	assert.True(t, health["geo"], "one-shot collectors never go stale")
}
