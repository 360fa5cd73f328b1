package model

import "time"

// UnitMetrics is the immutable summary of one completed execution unit.
// Produced exactly once per unit, at unit-end or at forced run-end cleanup.
type UnitMetrics struct {
	UnitID            string    `json:"unit_id"`
	RunID             string    `json:"run_id,omitempty"`
	TypeTag           string    `json:"unit_type,omitempty"`
	Label             string    `json:"label,omitempty"`
	StartedAt         time.Time `json:"started_at"`
	CompletedAt       time.Time `json:"completed_at"`
	DurationMs        float64   `json:"duration_ms"`
	AvgCPUPercent     float64   `json:"avg_cpu_percent"`
	MaxCPUPercent     float64   `json:"max_cpu_percent"`
	AvgGPUUtilization float64   `json:"avg_gpu_utilization"`
	MaxGPUUtilization float64   `json:"max_gpu_utilization"`
	PeakVRAMUsedMB    int64     `json:"peak_vram_used"`
	VRAMDeltaMB       int64     `json:"vram_delta"`
	SampleCount       int       `json:"sample_count"`
}

// UnitStartEvent is the inbound lifecycle event announcing a unit began executing.
type UnitStartEvent struct {
	UnitID  string `json:"unit_id" binding:"required"`
	RunID   string `json:"run_id,omitempty"`
	Label   string `json:"label,omitempty"`
	TypeTag string `json:"unit_type,omitempty"`
}

// RunSummary is emitted to observers when a run finishes, carrying the units
// flushed at run-end and the total wall time of the run.
type RunSummary struct {
	RunID           string        `json:"run_id"`
	CompletedAt     time.Time     `json:"completed_at"`
	TotalDuration   time.Duration `json:"-"`
	TotalDurationMs float64       `json:"total_duration_ms"`
	FlushedUnits    int           `json:"flushed_units"`
}
