package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/penwyp/go-phase-monitor/internal/core/phase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func active(ids ...phase.PhaseID) map[phase.PhaseID]bool {
	out := make(map[phase.PhaseID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func TestStoreEnsure(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Has("A"))

	s.Ensure("A")
	require.True(t, s.Has("A"))

	timers, ok := s.Station("A")
	require.True(t, ok)
	assert.Len(t, timers, phase.Count())
	for _, id := range phase.All() {
		assert.Equal(t, PhaseTimer{}, timers[id], "phase %s must start stopped at zero", id)
	}

	// Ensure must not reset existing state
	_, err := s.Apply("A", active(phase.Return), at(1000))
	require.NoError(t, err)
	s.Ensure("A")
	got, err := s.Get("A", phase.Return)
	require.NoError(t, err)
	assert.True(t, got.Running)
}

func TestStoreGetErrors(t *testing.T) {
	s := NewStore()

	_, err := s.Get("missing", phase.Return)
	assert.ErrorIs(t, err, ErrStationNotFound)

	s.Ensure("A")
	_, err = s.Get("A", "VAR_Unknown")
	assert.ErrorIs(t, err, ErrUnknownPhase)

	_, ok := s.Station("missing")
	assert.False(t, ok)

	_, err = s.Apply("missing", active(phase.Return), at(0))
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestStoreStations(t *testing.T) {
	s := NewStore()
	s.Ensure("Station 2")
	s.Ensure("Station 1")
	s.Ensure("Station 2")
	assert.Equal(t, []phase.StationID{"Station 1", "Station 2"}, s.Stations())
}

func TestApplyReturnScenario(t *testing.T) {
	s := NewStore()
	s.Ensure("A")

	transitions, err := s.Apply("A", active(phase.Return), at(1000))
	require.NoError(t, err)
	require.Len(t, transitions, 1)
	assert.Equal(t, Transition{Phase: phase.Return, Kind: Started, At: at(1000)}, transitions[0])

	// Render at t=2000 mid-run
	mid, err := s.Get("A", phase.Return)
	require.NoError(t, err)
	assert.Equal(t, "00:01.0", FormatElapsed(mid.Current(at(2000))))

	transitions, err = s.Apply("A", active(), at(4500))
	require.NoError(t, err)
	require.Len(t, transitions, 1)
	assert.Equal(t, Stopped, transitions[0].Kind)
	assert.Equal(t, 3500*time.Millisecond, transitions[0].Run)

	got, err := s.Get("A", phase.Return)
	require.NoError(t, err)
	assert.False(t, got.Running)
	assert.True(t, got.StartedAt.IsZero())
	assert.Equal(t, 3500*time.Millisecond, got.Elapsed)

	// Stopped value stays frozen
	assert.Equal(t, 3500*time.Millisecond, got.Current(at(90_000)))
}

func TestApplyIdempotent(t *testing.T) {
	snapshots := []map[phase.PhaseID]bool{
		active(),
		active(phase.StartTime),
		active(phase.StartTime, phase.WorkTime),
		active(phase.WorkTime),
	}

	for i, snap := range snapshots {
		s := NewStore()
		s.Ensure("A")
		_, err := s.Apply("A", active(phase.StartTime, phase.Return), at(0))
		require.NoError(t, err)

		_, err = s.Apply("A", snap, at(1000))
		require.NoError(t, err)
		once, _ := s.Station("A")

		transitions, err := s.Apply("A", snap, at(1000))
		require.NoError(t, err)
		twice, _ := s.Station("A")

		assert.Empty(t, transitions, "snapshot %d", i)
		assert.Equal(t, once, twice, "snapshot %d", i)

		// Later repeats do not accumulate either
		_, err = s.Apply("A", snap, at(5000))
		require.NoError(t, err)
		later, _ := s.Station("A")
		for id, tm := range once {
			assert.Equal(t, tm.Elapsed, later[id].Elapsed, "snapshot %d phase %s", i, id)
		}
	}
}

func TestApplyRunResetLaw(t *testing.T) {
	s := NewStore()
	s.Ensure("A")

	_, _ = s.Apply("A", active(phase.WorkTime), at(0))
	_, _ = s.Apply("A", active(), at(7000))
	stopped, _ := s.Get("A", phase.WorkTime)
	require.Equal(t, 7*time.Second, stopped.Elapsed)

	_, _ = s.Apply("A", active(phase.WorkTime), at(9000))
	restarted, _ := s.Get("A", phase.WorkTime)
	assert.True(t, restarted.Running)
	assert.Equal(t, time.Duration(0), restarted.Elapsed)
	assert.Equal(t, at(9000), restarted.StartedAt)
	assert.Equal(t, time.Second, restarted.Current(at(10_000)))

	_, _ = s.Apply("A", active(), at(11_000))
	final, _ := s.Get("A", phase.WorkTime)
	assert.Equal(t, 2*time.Second, final.Elapsed, "second run must not include the first")
}

func TestApplyAccumulateOnStopLaw(t *testing.T) {
	s := NewStore()
	s.Ensure("A")

	_, _ = s.Apply("A", active(phase.StationTime), at(250))
	_, _ = s.Apply("A", active(), at(1750))

	got, _ := s.Get("A", phase.StationTime)
	assert.Equal(t, 1500*time.Millisecond, got.Elapsed)

	for _, ms := range []int{2000, 3000, 60_000} {
		_, _ = s.Apply("A", active(), at(ms))
		again, _ := s.Get("A", phase.StationTime)
		assert.Equal(t, got.Elapsed, again.Elapsed)
	}
}

func TestNonNegative(t *testing.T) {
	s := NewStore()
	s.Ensure("A")
	_, _ = s.Apply("A", active(phase.StartTime), at(5000))

	running, _ := s.Get("A", phase.StartTime)
	assert.Equal(t, time.Duration(0), running.Current(at(4000)), "reading before start clamps to zero")

	// Stop before the start instant
	transitions, err := s.Apply("A", active(), at(3000))
	require.NoError(t, err)
	require.Len(t, transitions, 1)
	assert.Equal(t, time.Duration(0), transitions[0].Run)

	stopped, _ := s.Get("A", phase.StartTime)
	assert.Equal(t, time.Duration(0), stopped.Elapsed)
	assert.Equal(t, "00:00.0", FormatElapsed(stopped.Current(at(3000))))
}

func TestApplyOnlyTouchesTargetStation(t *testing.T) {
	s := NewStore()
	s.Ensure("A")
	s.Ensure("B")

	_, _ = s.Apply("A", active(phase.Return), at(0))
	before, _ := s.Station("A")

	_, _ = s.Apply("B", active(), at(4000))
	_, _ = s.Apply("B", active(phase.Return), at(5000))

	after, _ := s.Station("A")
	assert.Equal(t, before, after)
}

func TestStationReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Ensure("A")

	timers, _ := s.Station("A")
	timers[phase.Return] = PhaseTimer{Running: true, StartedAt: at(1), Elapsed: time.Hour}

	got, _ := s.Get("A", phase.Return)
	assert.Equal(t, PhaseTimer{}, got)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	s.Ensure("A")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				_, _ = s.Apply("A", active(phase.All()...), at(i))
			} else {
				_, _ = s.Apply("A", active(), at(i))
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			timers, ok := s.Station("A")
			if !ok {
				continue
			}
			// A poll is applied to all phases at once
			first := timers[phase.StartTime].Running
			for _, tm := range timers {
				assert.Equal(t, first, tm.Running)
				assert.Equal(t, tm.Running, !tm.StartedAt.IsZero())
			}
		}
	}()
	wg.Wait()
}

func TestTransitionKindString(t *testing.T) {
	assert.Equal(t, "started", Started.String())
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "unknown", TransitionKind(9).String())
}
