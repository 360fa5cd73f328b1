package mysql

import (
	"context"
	"fmt"
	"time"

	"kikostats/pkg/store/mysql/model"
)

// UnitMetricsRepository handles completed unit metrics persistence in MySQL
type UnitMetricsRepository struct {
	ds *Datastore
}

// NewUnitMetricsRepository creates a new unit metrics repository
func NewUnitMetricsRepository(ds *Datastore) *UnitMetricsRepository {
	return &UnitMetricsRepository{ds: ds}
}

// RecordUnitMetrics creates a new record when a unit completes
func (r *UnitMetricsRepository) RecordUnitMetrics(ctx context.Context, record *model.UnitMetricsRecord) error {
	return r.ds.DB(ctx).Create(record).Error
}

// GetLatestByUnitID retrieves the most recent record for a unit ID. A unit
// can appear more than once when it is re-executed across runs.
func (r *UnitMetricsRepository) GetLatestByUnitID(ctx context.Context, unitID string) (*model.UnitMetricsRecord, error) {
	var record model.UnitMetricsRecord
	err := r.ds.DB(ctx).
		Where("unit_id = ?", unitID).
		Order("completed_at DESC").
		First(&record).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get unit metrics record: %w", err)
	}
	return &record, nil
}

// ListUnitMetrics lists unit metrics records with filters
func (r *UnitMetricsRepository) ListUnitMetrics(ctx context.Context, filters map[string]interface{}, limit, offset int) ([]*model.UnitMetricsRecord, int64, error) {
	var records []*model.UnitMetricsRecord
	var total int64

	query := r.ds.DB(ctx).Model(&model.UnitMetricsRecord{})

	// Apply filters
	if runID, ok := filters["run_id"].(string); ok && runID != "" {
		query = query.Where("run_id = ?", runID)
	}
	if typeTag, ok := filters["unit_type"].(string); ok && typeTag != "" {
		query = query.Where("unit_type = ?", typeTag)
	}
	if startTime, ok := filters["start_time"].(time.Time); ok {
		query = query.Where("started_at >= ?", startTime)
	}
	if endTime, ok := filters["end_time"].(time.Time); ok {
		query = query.Where("completed_at <= ?", endTime)
	}

	// Get total count
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count unit metrics records: %w", err)
	}

	// Get records with pagination
	if err := query.Order("completed_at DESC").Limit(limit).Offset(offset).Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list unit metrics records: %w", err)
	}

	return records, total, nil
}

// RunAggregate summarizes a run from its archived unit records.
type RunAggregate struct {
	RunID           string  `json:"run_id"`
	UnitCount       int64   `json:"unit_count"`
	TotalDurationMs float64 `json:"total_duration_ms"`
	AvgCPUPercent   float64 `json:"avg_cpu_percent"`
	MaxCPUPercent   float64 `json:"max_cpu_percent"`
	AvgGPUPercent   float64 `json:"avg_gpu_utilization"`
	MaxGPUPercent   float64 `json:"max_gpu_utilization"`
	PeakVRAMUsedMB  int64   `json:"peak_vram_used"`
}

// GetRunAggregate computes aggregate statistics for a single run
func (r *UnitMetricsRepository) GetRunAggregate(ctx context.Context, runID string) (*RunAggregate, error) {
	var agg RunAggregate

	err := r.ds.DB(ctx).
		Model(&model.UnitMetricsRecord{}).
		Select(`run_id,
			COUNT(*) as unit_count,
			SUM(duration_ms) as total_duration_ms,
			AVG(avg_cpu_percent) as avg_cpu_percent,
			MAX(max_cpu_percent) as max_cpu_percent,
			AVG(avg_gpu_utilization) as avg_gpu_percent,
			MAX(max_gpu_utilization) as max_gpu_percent,
			MAX(peak_vram_used_mb) as peak_vram_used_mb`).
		Where("run_id = ?", runID).
		Group("run_id").
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate run %s: %w", runID, err)
	}
	return &agg, nil
}

// DeleteOldRecords deletes unit metrics records older than the specified time
func (r *UnitMetricsRepository) DeleteOldRecords(ctx context.Context, beforeTime time.Time) (int64, error) {
	result := r.ds.DB(ctx).
		Where("completed_at < ?", beforeTime).
		Delete(&model.UnitMetricsRecord{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old unit metrics records: %w", result.Error)
	}

	return result.RowsAffected, nil
}
