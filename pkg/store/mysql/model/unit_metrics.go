package model

import "time"

// UnitMetricsRecord is the archived form of a completed unit's summary. The
// live engine keeps only the last few completions in memory; this table holds
// the long-term history.
type UnitMetricsRecord struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UnitID            string    `gorm:"column:unit_id;not null;index" json:"unit_id"`
	RunID             string    `gorm:"column:run_id;index" json:"run_id"`
	TypeTag           string    `gorm:"column:unit_type" json:"unit_type"`
	Label             string    `gorm:"column:label" json:"label"`
	StartedAt         time.Time `gorm:"column:started_at;not null;index" json:"started_at"`
	CompletedAt       time.Time `gorm:"column:completed_at;not null;index" json:"completed_at"`
	DurationMs        float64   `gorm:"column:duration_ms;not null" json:"duration_ms"`
	AvgCPUPercent     float64   `gorm:"column:avg_cpu_percent" json:"avg_cpu_percent"`
	MaxCPUPercent     float64   `gorm:"column:max_cpu_percent" json:"max_cpu_percent"`
	AvgGPUUtilization float64   `gorm:"column:avg_gpu_utilization" json:"avg_gpu_utilization"`
	MaxGPUUtilization float64   `gorm:"column:max_gpu_utilization" json:"max_gpu_utilization"`
	PeakVRAMUsedMB    int64     `gorm:"column:peak_vram_used_mb" json:"peak_vram_used"`
	VRAMDeltaMB       int64     `gorm:"column:vram_delta_mb" json:"vram_delta"`
	SampleCount       int       `gorm:"column:sample_count;not null;default:0" json:"sample_count"`
	CreatedAt         time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName returns the table name for UnitMetricsRecord
func (UnitMetricsRecord) TableName() string {
	return "unit_metrics_records"
}
