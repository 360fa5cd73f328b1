package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kikostats/internal/model"
	"kikostats/pkg/config"
	"kikostats/pkg/logger"
	"kikostats/pkg/monitor"
)

// MonitorService exposes the attribution engine to the transport layer and
// owns interval changes. All reads go through the engine's accessors.
type MonitorService struct {
	engine *monitor.Engine
	source monitor.Source
}

// NewMonitorService creates a new monitor service
func NewMonitorService(engine *monitor.Engine, source monitor.Source) *MonitorService {
	return &MonitorService{
		engine: engine,
		source: source,
	}
}

// StatsDocument is the assembled live view returned by the current endpoint.
type StatsDocument struct {
	State       monitor.State        `json:"state"`
	Timestamp   time.Time            `json:"timestamp"`
	Sample      model.ResourceSample `json:"sample"`
	ActiveUnits int                  `json:"active_units"`
	Summary     string               `json:"summary"`
}

// Start begins sampling at the configured interval
func (s *MonitorService) Start(ctx context.Context) error {
	interval := config.GlobalConfig.Monitor.Interval()
	if err := s.engine.Start(s.source, interval); err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}
	logger.InfoCtx(ctx, "monitor started, interval: %s", interval)
	return nil
}

// Stop halts sampling. History and the completed-unit log remain readable.
func (s *MonitorService) Stop(ctx context.Context) {
	s.engine.Stop()
	logger.InfoCtx(ctx, "monitor stopped")
}

// SetInterval validates and applies a new sampling interval. The engine keeps
// its buffers; only the clock restarts.
func (s *MonitorService) SetInterval(ctx context.Context, interval time.Duration) error {
	if interval < config.MinInterval || interval > config.MaxInterval {
		return fmt.Errorf("interval %s out of range [%s, %s]", interval, config.MinInterval, config.MaxInterval)
	}
	if s.engine.State() != monitor.StateRunning {
		return fmt.Errorf("monitor is not running")
	}
	if err := s.engine.Start(s.source, interval); err != nil {
		return fmt.Errorf("failed to apply interval: %w", err)
	}
	logger.InfoCtx(ctx, "sampling interval changed to %s", interval)
	return nil
}

// State returns the engine lifecycle state
func (s *MonitorService) State() monitor.State {
	return s.engine.State()
}

// CurrentStats assembles the live stats document
func (s *MonitorService) CurrentStats(ctx context.Context) *StatsDocument {
	sample := s.engine.Current()
	return &StatsDocument{
		State:       s.engine.State(),
		Timestamp:   sample.Timestamp,
		Sample:      sample,
		ActiveUnits: s.engine.ActiveUnits(),
		Summary:     RenderSampleText(&sample),
	}
}

// History returns the metric series filtered and ordered by display settings.
// Disabled series are omitted; the engine still records them.
func (s *MonitorService) History(ctx context.Context, settings *model.DisplaySettings) monitor.HistoryView {
	view := s.engine.History()
	if settings == nil {
		return view
	}

	enabled := make(map[model.MetricKind]bool, len(settings.EnabledMetrics))
	for _, kind := range settings.EnabledMetrics {
		enabled[kind] = true
	}

	filtered := make(map[model.MetricKind][]float64, len(enabled))
	for _, kind := range settings.MetricOrder {
		if series, ok := view.Series[kind]; ok && enabled[kind] {
			filtered[kind] = series
		}
	}
	view.Series = filtered
	return view
}

// RecentUnits returns the bounded completed-unit log, newest last
func (s *MonitorService) RecentUnits(ctx context.Context) []model.UnitMetrics {
	return s.engine.CompletedLog()
}

// RenderSampleText formats a sample as a one-line human readable summary
func RenderSampleText(sample *model.ResourceSample) string {
	parts := make([]string, 0, 5)

	if sample.CPU.Available {
		parts = append(parts, fmt.Sprintf("CPU: %s", FormatPercentage(sample.CPU.Value)))
	}
	if sample.RAM.Available {
		parts = append(parts, fmt.Sprintf("RAM: %s/%s (%s)",
			FormatMemorySize(sample.RAM.UsedMB), FormatMemorySize(sample.RAM.TotalMB),
			FormatPercentage(sample.RAM.Percent)))
	}
	if sample.GPU.Available {
		parts = append(parts, fmt.Sprintf("GPU: %s", FormatPercentage(sample.GPU.Value)))
	}
	if sample.VRAM.Available {
		parts = append(parts, fmt.Sprintf("VRAM: %s/%s (%s)",
			FormatMemorySize(sample.VRAM.UsedMB), FormatMemorySize(sample.VRAM.TotalMB),
			FormatPercentage(sample.VRAM.Percent)))
	}
	if sample.Temperature.Available {
		parts = append(parts, fmt.Sprintf("Temp: %.0f°C", sample.Temperature.Celsius))
	}

	if len(parts) == 0 {
		return "monitoring unavailable"
	}
	return strings.Join(parts, " | ")
}

// FormatMemorySize renders a megabyte count as a human readable size
func FormatMemorySize(mb int64) string {
	if mb >= 1024 {
		return fmt.Sprintf("%.1f GB", float64(mb)/1024)
	}
	return fmt.Sprintf("%d MB", mb)
}

// FormatPercentage renders a percent value with one decimal place
func FormatPercentage(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}
