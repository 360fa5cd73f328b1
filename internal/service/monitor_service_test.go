package service

import (
	"context"
	"testing"

	"kikostats/internal/model"
	"kikostats/pkg/monitor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSample(cpu float64) model.ResourceSample {
	return model.ResourceSample{
		CPU:  model.Reading{Value: cpu, Available: true},
		GPU:  model.Reading{Value: 50, Available: true},
		RAM:  model.MemoryReading{UsedMB: 4096, TotalMB: 16384, Percent: 25, Available: true},
		VRAM: model.MemoryReading{UsedMB: 512, TotalMB: 8192, Percent: 6, Available: true},
		Temperature: model.TemperatureReading{
			Celsius: 63, Percent: 70, Available: true,
		},
	}
}

func TestRenderSampleText_AllAvailable(t *testing.T) {
	sample := testSample(42.0)
	text := RenderSampleText(&sample)

	assert.Equal(t, "CPU: 42.0% | RAM: 4.0 GB/16.0 GB (25.0%) | GPU: 50.0% | VRAM: 512 MB/8.0 GB (6.0%) | Temp: 63°C", text)
}

func TestRenderSampleText_PartialAvailability(t *testing.T) {
	sample := model.ResourceSample{
		CPU: model.Reading{Value: 10, Available: true},
	}
	assert.Equal(t, "CPU: 10.0%", RenderSampleText(&sample))
}

func TestRenderSampleText_NothingAvailable(t *testing.T) {
	sample := model.ResourceSample{}
	assert.Equal(t, "monitoring unavailable", RenderSampleText(&sample))
}

func TestFormatMemorySize(t *testing.T) {
	assert.Equal(t, "0 MB", FormatMemorySize(0))
	assert.Equal(t, "512 MB", FormatMemorySize(512))
	assert.Equal(t, "1023 MB", FormatMemorySize(1023))
	assert.Equal(t, "1.0 GB", FormatMemorySize(1024))
	assert.Equal(t, "1.5 GB", FormatMemorySize(1536))
	assert.Equal(t, "16.0 GB", FormatMemorySize(16384))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "0.0%", FormatPercentage(0))
	assert.Equal(t, "42.5%", FormatPercentage(42.5))
	assert.Equal(t, "100.0%", FormatPercentage(100))
}

// TestMonitorService_HistoryFiltersBySettings tests that disabled series are
// omitted from the view while the engine keeps recording everything.
func TestMonitorService_HistoryFiltersBySettings(t *testing.T) {
	engine := monitor.NewEngine(monitor.EngineConfig{HistorySize: 60, UnitLogSize: 10})
	svc := NewMonitorService(engine, nil)

	engine.IngestSample(testSample(42))
	engine.IngestSample(testSample(55))

	settings := &model.DisplaySettings{
		DisplayMode:    model.DisplayModeCombined,
		EnabledMetrics: []model.MetricKind{model.MetricCPU, model.MetricTemp},
		MetricOrder:    append([]model.MetricKind(nil), model.CanonicalMetricOrder...),
	}

	view := svc.History(context.Background(), settings)
	require.Len(t, view.Series, 2)
	assert.Equal(t, []float64{42, 55}, view.Series[model.MetricCPU])
	assert.Equal(t, []float64{70, 70}, view.Series[model.MetricTemp])
	assert.NotContains(t, view.Series, model.MetricGPU)
	assert.Equal(t, uint64(2), view.Ticks)
}

// TestMonitorService_HistoryUnfiltered tests the nil-settings passthrough.
func TestMonitorService_HistoryUnfiltered(t *testing.T) {
	engine := monitor.NewEngine(monitor.EngineConfig{HistorySize: 60, UnitLogSize: 10})
	svc := NewMonitorService(engine, nil)

	engine.IngestSample(testSample(33))

	view := svc.History(context.Background(), nil)
	assert.Len(t, view.Series, 5)
}

// TestMonitorService_CurrentStats tests the assembled live document before
// and after the first sample.
func TestMonitorService_CurrentStats(t *testing.T) {
	engine := monitor.NewEngine(monitor.EngineConfig{HistorySize: 60, UnitLogSize: 10})
	svc := NewMonitorService(engine, nil)

	stats := svc.CurrentStats(context.Background())
	assert.Equal(t, monitor.StateUninitialized, stats.State)
	assert.Equal(t, "monitoring unavailable", stats.Summary)
	assert.Equal(t, 0, stats.ActiveUnits)

	engine.IngestSample(testSample(42))
	engine.OnUnitStart(model.UnitStartEvent{UnitID: "u1"})

	stats = svc.CurrentStats(context.Background())
	assert.Equal(t, 42.0, stats.Sample.CPU.Value)
	assert.Equal(t, 1, stats.ActiveUnits)
	assert.Contains(t, stats.Summary, "CPU: 42.0%")
}

func TestMonitorService_RecentUnits(t *testing.T) {
	engine := monitor.NewEngine(monitor.EngineConfig{HistorySize: 60, UnitLogSize: 10})
	svc := NewMonitorService(engine, nil)

	engine.OnUnitStart(model.UnitStartEvent{UnitID: "u1"})
	engine.OnUnitEnd("u1")

	units := svc.RecentUnits(context.Background())
	require.Len(t, units, 1)
	assert.Equal(t, "u1", units[0].UnitID)
}
