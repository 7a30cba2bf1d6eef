package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/penwyp/go-phase-monitor/internal/core/phase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type engineFixture struct {
	clock    *clockwork.FakeClock
	fetcher  *scriptedFetcher
	selector *stubSelector
	surface  *recordingSurface
	engine   *Engine
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	config := &MonitorConfig{}
	require.NoError(t, config.Validate())

	f := &engineFixture{
		clock:    clockwork.NewFakeClockAt(epoch),
		fetcher:  &scriptedFetcher{},
		selector: &stubSelector{station: "A"},
		surface:  newRecordingSurface(),
	}
	f.engine = NewEngine(f.fetcher, f.selector, f.surface, f.clock, config)
	return f
}

// waitForLoops blocks until exactly one poller and one render ticker are armed
func (f *engineFixture) waitForLoops(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.clock.BlockUntilContext(ctx, 2))
}

func TestEngineRunsBothLoops(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newEngineFixture(t)
	f.fetcher.push(phase.Snapshot{"A": {phase.WorkTime: true}}, nil)

	f.engine.Start(context.Background())
	defer f.engine.Stop()
	f.waitForLoops(t)

	assert.Eventually(t, func() bool {
		f.clock.Advance(DefaultRenderInterval)
		return f.surface.activeOf("A", phase.WorkTime)
	}, 2*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		f.clock.Advance(DefaultRenderInterval)
		return f.surface.textOf("A", phase.WorkTime) != "00:00.0"
	}, 2*time.Second, 10*time.Millisecond)

	timers, ok := f.engine.Timers("A")
	require.True(t, ok)
	assert.True(t, timers[phase.WorkTime].Running)
	assert.Positive(t, f.engine.Health().TotalPolls)
	assert.Positive(t, f.surface.flushCount())
}

func TestEngineFirstPollAfterOneInterval(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newEngineFixture(t)
	f.fetcher.push(phase.Snapshot{"A": {}}, nil)

	f.engine.Start(context.Background())
	defer f.engine.Stop()
	f.waitForLoops(t)

	f.clock.Advance(DefaultPollInterval - time.Millisecond)
	assert.Never(t, func() bool { return f.fetcher.callCount() > 0 }, 50*time.Millisecond, 10*time.Millisecond)

	f.clock.Advance(time.Millisecond)
	assert.Eventually(t, func() bool { return f.fetcher.callCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestEngineRestartKeepsSinglePair(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newEngineFixture(t)
	f.fetcher.push(phase.Snapshot{"A": {}}, nil)
	ctx := context.Background()

	f.engine.Start(ctx)
	f.waitForLoops(t)
	f.engine.Start(ctx)
	f.waitForLoops(t)
	f.engine.Start(ctx)
	f.waitForLoops(t)

	assert.Equal(t, 3, f.engine.Generation())
	assert.True(t, f.engine.Running())

	// One interval means one fetch: a leftover poller would double it
	f.clock.Advance(DefaultPollInterval)
	assert.Eventually(t, func() bool { return f.fetcher.callCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Never(t, func() bool { return f.fetcher.callCount() > 1 }, 50*time.Millisecond, 10*time.Millisecond)

	f.engine.Stop()
	assert.False(t, f.engine.Running())
	assert.Equal(t, 3, f.engine.Generation())
}

func TestEngineStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newEngineFixture(t)
	f.engine.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	f.engine.Start(ctx)
	cancel()
	f.engine.Stop()
	f.engine.Stop()

	assert.False(t, f.engine.Running())
}

func TestEngineStoreSurvivesRestart(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newEngineFixture(t)
	f.fetcher.push(phase.Snapshot{"A": {phase.Return: true}}, nil)

	f.engine.Start(context.Background())
	f.waitForLoops(t)
	f.clock.Advance(DefaultPollInterval)
	require.Eventually(t, func() bool {
		timers, ok := f.engine.Timers("A")
		return ok && timers[phase.Return].Running
	}, 2*time.Second, 10*time.Millisecond)

	f.engine.Start(context.Background())
	defer f.engine.Stop()

	timers, ok := f.engine.Timers("A")
	require.True(t, ok)
	assert.True(t, timers[phase.Return].Running)
	assert.Equal(t, epoch.Add(DefaultPollInterval), timers[phase.Return].StartedAt)
}
