package monitor

import (
	"fmt"
	"testing"
	"time"

	"kikostats/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWithCPU(cpu float64) *model.ResourceSample {
	return &model.ResourceSample{
		Timestamp: time.Now(),
		CPU:       model.Reading{Value: cpu, Available: true},
	}
}

// TestNewHistoryStore tests construction and the size fallbacks.
func TestNewHistoryStore(t *testing.T) {
	h := NewHistoryStore(60, 10)
	require.NotNil(t, h)
	assert.Equal(t, 60, h.Size())
	assert.Equal(t, 0, h.Cursor())
	assert.Equal(t, uint64(0), h.Ticks())

	// Non-positive sizes fall back to defaults
	h = NewHistoryStore(0, -1)
	assert.Equal(t, DefaultHistorySize, h.Size())
}

// TestHistoryStore_CursorAdvances tests that the cursor equals N mod size
// after N appends.
func TestHistoryStore_CursorAdvances(t *testing.T) {
	h := NewHistoryStore(60, 10)

	for n := 1; n <= 150; n++ {
		h.Append(sampleWithCPU(float64(n)))
		assert.Equal(t, n%60, h.Cursor(), "cursor after %d appends", n)
		assert.Equal(t, uint64(n), h.Ticks())
	}
}

// TestHistoryStore_SeriesBeforeWrap tests that linearization only returns
// slots written so far before the ring wraps.
func TestHistoryStore_SeriesBeforeWrap(t *testing.T) {
	h := NewHistoryStore(60, 10)

	for n := 1; n <= 10; n++ {
		h.Append(sampleWithCPU(float64(n)))
	}

	series := h.Series(model.MetricCPU)
	require.Len(t, series, 10)
	for i, v := range series {
		assert.Equal(t, float64(i+1), v)
	}
}

// TestHistoryStore_SeriesAfterWrap tests oldest-first ordering across the
// wrap boundary.
func TestHistoryStore_SeriesAfterWrap(t *testing.T) {
	h := NewHistoryStore(60, 10)

	// 75 appends: the ring holds values 16..75, oldest first
	for n := 1; n <= 75; n++ {
		h.Append(sampleWithCPU(float64(n)))
	}

	series := h.Series(model.MetricCPU)
	require.Len(t, series, 60)
	assert.Equal(t, float64(16), series[0])
	assert.Equal(t, float64(75), series[59])
	for i, v := range series {
		assert.Equal(t, float64(16+i), v)
	}
}

// TestHistoryStore_SharedCursor tests that every metric advances together so
// slot i corresponds to the same tick across all five series.
func TestHistoryStore_SharedCursor(t *testing.T) {
	h := NewHistoryStore(60, 10)

	sample := &model.ResourceSample{
		CPU:         model.Reading{Value: 42, Available: true},
		GPU:         model.Reading{Value: 77, Available: true},
		VRAM:        model.MemoryReading{UsedMB: 1024, TotalMB: 8192, Percent: 13, Available: true},
		RAM:         model.MemoryReading{UsedMB: 4096, TotalMB: 16384, Percent: 25, Available: true},
		Temperature: model.TemperatureReading{Celsius: 45, Percent: 50, Available: true},
	}
	h.Append(sample)

	all := h.AllSeries()
	require.Len(t, all, 5)
	for _, kind := range model.CanonicalMetricOrder {
		require.Len(t, all[kind], 1, "series %s", kind)
	}
	assert.Equal(t, 42.0, all[model.MetricCPU][0])
	assert.Equal(t, 77.0, all[model.MetricGPU][0])
	assert.Equal(t, 13.0, all[model.MetricVRAM][0])
	assert.Equal(t, 25.0, all[model.MetricRAM][0])
	assert.Equal(t, 50.0, all[model.MetricTemp][0])
}

// TestHistoryStore_UnitLogBounded tests FIFO eviction at capacity.
func TestHistoryStore_UnitLogBounded(t *testing.T) {
	h := NewHistoryStore(60, 10)

	for n := 1; n <= 15; n++ {
		h.AppendUnit(model.UnitMetrics{UnitID: fmt.Sprintf("unit-%d", n)})
	}

	units := h.Units()
	require.Len(t, units, 10)
	assert.Equal(t, "unit-6", units[0].UnitID)
	assert.Equal(t, "unit-15", units[9].UnitID)
}

// TestHistoryStore_UnitsReturnsCopy tests that mutating the returned slice
// does not affect the log.
func TestHistoryStore_UnitsReturnsCopy(t *testing.T) {
	h := NewHistoryStore(60, 10)
	h.AppendUnit(model.UnitMetrics{UnitID: "a"})

	units := h.Units()
	units[0].UnitID = "mutated"

	assert.Equal(t, "a", h.Units()[0].UnitID)
}
