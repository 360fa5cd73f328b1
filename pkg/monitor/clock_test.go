package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"kikostats/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource returns canned samples, optionally failing or panicking.
type scriptedSource struct {
	sample model.RawSample
	err    error
	panics bool
}

func (s *scriptedSource) Sample(ctx context.Context) (model.RawSample, error) {
	if s.panics {
		panic("source exploded")
	}
	return s.sample, s.err
}

func collectTicks(buffer int) (func(model.RawSample), chan model.RawSample) {
	ch := make(chan model.RawSample, buffer)
	return func(raw model.RawSample) {
		select {
		case ch <- raw:
		default:
		}
	}, ch
}

func waitForTick(t *testing.T, ch chan model.RawSample) model.RawSample {
	t.Helper()
	select {
	case raw := <-ch:
		return raw
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a sample tick")
		return model.RawSample{}
	}
}

// TestClock_RejectsNonPositiveInterval tests the interval contract.
func TestClock_RejectsNonPositiveInterval(t *testing.T) {
	clock := NewClock(&scriptedSource{}, func(model.RawSample) {})

	assert.Error(t, clock.Start(0))
	assert.Error(t, clock.Start(-time.Second))
	assert.False(t, clock.Running())
}

// TestClock_DeliversFirstSampleImmediately tests that the first tick does not
// wait a full period.
func TestClock_DeliversFirstSampleImmediately(t *testing.T) {
	sink, ticks := collectTicks(4)
	clock := NewClock(&scriptedSource{sample: model.RawSample{CPUPercent: 42, SystemAvailable: true}}, sink)

	require.NoError(t, clock.Start(time.Hour))
	defer clock.Stop()

	raw := waitForTick(t, ticks)
	assert.Equal(t, 42.0, raw.CPUPercent)
	assert.True(t, raw.SystemAvailable)
	assert.False(t, raw.Timestamp.IsZero())
}

// TestClock_StopIsIdempotent tests Stop on a stopped clock and double Stop.
func TestClock_StopIsIdempotent(t *testing.T) {
	sink, _ := collectTicks(4)
	clock := NewClock(&scriptedSource{}, sink)

	clock.Stop()

	require.NoError(t, clock.Start(time.Hour))
	assert.True(t, clock.Running())

	clock.Stop()
	assert.False(t, clock.Running())
	clock.Stop()
	assert.False(t, clock.Running())
}

// TestClock_RestartReplacesTimer tests that Start on a running clock does not
// leak the previous loop.
func TestClock_RestartReplacesTimer(t *testing.T) {
	sink, ticks := collectTicks(16)
	clock := NewClock(&scriptedSource{sample: model.RawSample{SystemAvailable: true}}, sink)

	require.NoError(t, clock.Start(time.Hour))
	waitForTick(t, ticks)
	require.NoError(t, clock.Start(time.Hour))
	waitForTick(t, ticks)

	assert.True(t, clock.Running())
	clock.Stop()
	assert.False(t, clock.Running())
}

// TestClock_SourceErrorDeliversUnavailableTick tests that a failing source
// still produces a tick with a timestamp and no availability.
func TestClock_SourceErrorDeliversUnavailableTick(t *testing.T) {
	sink, ticks := collectTicks(4)
	clock := NewClock(&scriptedSource{err: errors.New("probe failed")}, sink)

	require.NoError(t, clock.Start(time.Hour))
	defer clock.Stop()

	raw := waitForTick(t, ticks)
	assert.False(t, raw.SystemAvailable)
	assert.False(t, raw.GPUAvailable)
	assert.False(t, raw.Timestamp.IsZero())
}

// TestClock_SourcePanicDoesNotKillLoop tests panic recovery on the tick path.
func TestClock_SourcePanicDoesNotKillLoop(t *testing.T) {
	sink, ticks := collectTicks(4)
	clock := NewClock(&scriptedSource{panics: true}, sink)

	require.NoError(t, clock.Start(50 * time.Millisecond))
	defer clock.Stop()

	first := waitForTick(t, ticks)
	assert.False(t, first.SystemAvailable)

	// The loop survives the panic and keeps ticking
	second := waitForTick(t, ticks)
	assert.False(t, second.Timestamp.IsZero())
	assert.True(t, clock.Running())
}
