package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestRawSample_NormalizeDerivesPercents tests the percent derivations on the
// full-availability path.
func TestRawSample_NormalizeDerivesPercents(t *testing.T) {
	raw := RawSample{
		Timestamp:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		CPUPercent:      42.5,
		RAMUsedMB:       4096,
		RAMTotalMB:      16384,
		SystemAvailable: true,
		GPUUtilization:  77,
		GPUMemoryUsed:   1024,
		GPUMemoryTotal:  8192,
		GPUTemperature:  63,
		GPUPowerDraw:    180,
		GPUAvailable:    true,
	}

	sample := raw.Normalize()

	assert.Equal(t, raw.Timestamp, sample.Timestamp)
	assert.Equal(t, 42.5, sample.CPU.Value)
	assert.True(t, sample.CPU.Available)
	assert.Equal(t, 25.0, sample.RAM.Percent)
	assert.Equal(t, 13.0, sample.VRAM.Percent)
	assert.Equal(t, 77.0, sample.GPU.Value)
	assert.Equal(t, 63.0, sample.Temperature.Celsius)
	assert.InDelta(t, 70.0, sample.Temperature.Percent, 1e-9)
	assert.True(t, sample.Temperature.Available)
	assert.Equal(t, 180.0, sample.PowerDraw.Value)
}

// TestRawSample_NormalizeZeroTimestamp tests that a missing timestamp is
// filled in instead of passed through as the zero time.
func TestRawSample_NormalizeZeroTimestamp(t *testing.T) {
	raw := RawSample{SystemAvailable: true}
	sample := raw.Normalize()
	assert.False(t, sample.Timestamp.IsZero())
}

// TestRawSample_NormalizeUnavailableSubsystems tests that unavailable
// subsystems come out zeroed across the board.
func TestRawSample_NormalizeUnavailableSubsystems(t *testing.T) {
	raw := RawSample{
		CPUPercent:     99,
		RAMUsedMB:      1000,
		RAMTotalMB:     2000,
		GPUUtilization: 88,
		GPUMemoryUsed:  500,
		GPUMemoryTotal: 1000,
		GPUTemperature: 70,
	}

	sample := raw.Normalize()

	assert.Equal(t, Reading{}, sample.CPU)
	assert.Equal(t, MemoryReading{}, sample.RAM)
	assert.Equal(t, Reading{}, sample.GPU)
	assert.Equal(t, MemoryReading{}, sample.VRAM)
	assert.Equal(t, TemperatureReading{}, sample.Temperature)
	assert.Equal(t, Reading{}, sample.PowerDraw)
}

// TestRawSample_ZeroTemperatureReadsAsUnavailable tests the not-ready sensor
// case: GPU reporting fine but temperature exactly 0C.
func TestRawSample_ZeroTemperatureReadsAsUnavailable(t *testing.T) {
	raw := RawSample{
		GPUAvailable:   true,
		GPUTemperature: 0,
		GPUMemoryUsed:  100,
		GPUMemoryTotal: 1000,
	}

	sample := raw.Normalize()

	assert.False(t, sample.Temperature.Available)
	assert.True(t, sample.VRAM.Available)
}

func TestDerivePercent(t *testing.T) {
	assert.Equal(t, 50.0, DerivePercent(512, 1024))
	assert.Equal(t, 13.0, DerivePercent(1024, 8192)) // 12.5 rounds up
	assert.Equal(t, 0.0, DerivePercent(100, 0))
	assert.Equal(t, 0.0, DerivePercent(100, -5))
	assert.Equal(t, 100.0, DerivePercent(1024, 1024))
}

func TestDeriveTemperaturePercent(t *testing.T) {
	assert.Equal(t, 0.0, DeriveTemperaturePercent(0))
	assert.Equal(t, 0.0, DeriveTemperaturePercent(-3))
	assert.InDelta(t, 50.0, DeriveTemperaturePercent(45), 1e-9)
	assert.Equal(t, 100.0, DeriveTemperaturePercent(90))
	assert.Equal(t, 100.0, DeriveTemperaturePercent(120)) // clamped
}

// TestResourceSample_Metric tests the metric accessor against every series name.
func TestResourceSample_Metric(t *testing.T) {
	sample := ResourceSample{
		CPU:         Reading{Value: 1},
		GPU:         Reading{Value: 2},
		VRAM:        MemoryReading{Percent: 3},
		RAM:         MemoryReading{Percent: 4},
		Temperature: TemperatureReading{Percent: 5},
	}

	assert.Equal(t, 1.0, sample.Metric(MetricCPU))
	assert.Equal(t, 2.0, sample.Metric(MetricGPU))
	assert.Equal(t, 3.0, sample.Metric(MetricVRAM))
	assert.Equal(t, 4.0, sample.Metric(MetricRAM))
	assert.Equal(t, 5.0, sample.Metric(MetricTemp))
	assert.Equal(t, 0.0, sample.Metric(MetricKind("bogus")))
}

func TestUnavailableSample(t *testing.T) {
	sample := UnavailableSample()
	assert.False(t, sample.Timestamp.IsZero())
	assert.False(t, sample.CPU.Available)
	assert.False(t, sample.GPU.Available)
	assert.False(t, sample.RAM.Available)
	assert.False(t, sample.VRAM.Available)
	assert.False(t, sample.Temperature.Available)
}
