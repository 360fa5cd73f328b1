package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kikostats/internal/model"
	"kikostats/pkg/logger"
	"kikostats/pkg/queue"
	"kikostats/pkg/store/mysql"
	storemodel "kikostats/pkg/store/mysql/model"

	"github.com/hibiken/asynq"
)

// ArchiveService persists completed unit summaries to MySQL. It observes the
// engine and enqueues each completion, keeping database writes off the
// sampling hot path.
type ArchiveService struct {
	queue *queue.Manager
	repo  *mysql.UnitMetricsRepository
}

// NewArchiveService creates a new archive service
func NewArchiveService(queueManager *queue.Manager, repo *mysql.UnitMetricsRepository) *ArchiveService {
	return &ArchiveService{
		queue: queueManager,
		repo:  repo,
	}
}

// OnSample implements monitor.Observer. Samples are not archived.
func (s *ArchiveService) OnSample(sample model.ResourceSample) {}

// OnUnitComplete implements monitor.Observer by enqueueing the summary
func (s *ArchiveService) OnUnitComplete(metrics model.UnitMetrics) {
	ctx := context.Background()
	if err := s.queue.EnqueueUnitMetrics(ctx, &metrics); err != nil {
		logger.ErrorCtx(ctx, "failed to enqueue unit %s for archival: %v", metrics.UnitID, err)
	}
}

// OnRunComplete implements monitor.Observer
func (s *ArchiveService) OnRunComplete(summary model.RunSummary) {
	logger.Infof("run %s completed in %.1fms, flushed %d units",
		summary.RunID, summary.TotalDurationMs, summary.FlushedUnits)
}

// HandleArchiveTask processes a queued unit summary and writes it to MySQL
func (s *ArchiveService) HandleArchiveTask(ctx context.Context, task *asynq.Task) error {
	var metrics model.UnitMetrics
	if err := json.Unmarshal(task.Payload(), &metrics); err != nil {
		return fmt.Errorf("failed to unmarshal unit metrics payload: %w", err)
	}

	record := &storemodel.UnitMetricsRecord{
		UnitID:            metrics.UnitID,
		RunID:             metrics.RunID,
		TypeTag:           metrics.TypeTag,
		Label:             metrics.Label,
		StartedAt:         metrics.StartedAt,
		CompletedAt:       metrics.CompletedAt,
		DurationMs:        metrics.DurationMs,
		AvgCPUPercent:     metrics.AvgCPUPercent,
		MaxCPUPercent:     metrics.MaxCPUPercent,
		AvgGPUUtilization: metrics.AvgGPUUtilization,
		MaxGPUUtilization: metrics.MaxGPUUtilization,
		PeakVRAMUsedMB:    metrics.PeakVRAMUsedMB,
		VRAMDeltaMB:       metrics.VRAMDeltaMB,
		SampleCount:       metrics.SampleCount,
		CreatedAt:         time.Now(),
	}

	if err := s.repo.RecordUnitMetrics(ctx, record); err != nil {
		return fmt.Errorf("failed to archive unit %s: %w", metrics.UnitID, err)
	}

	logger.DebugCtx(ctx, "archived unit %s (run %s)", metrics.UnitID, metrics.RunID)
	return nil
}

// ListArchivedUnits lists archived unit records with filters
func (s *ArchiveService) ListArchivedUnits(ctx context.Context, filters map[string]interface{}, limit, offset int) ([]*storemodel.UnitMetricsRecord, int64, error) {
	records, total, err := s.repo.ListUnitMetrics(ctx, filters, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list archived units: %w", err)
	}
	return records, total, nil
}

// GetRunAggregate computes aggregate statistics for one run
func (s *ArchiveService) GetRunAggregate(ctx context.Context, runID string) (*mysql.RunAggregate, error) {
	return s.repo.GetRunAggregate(ctx, runID)
}

// GetLatestUnit returns the most recent archived record for a unit id. Units
// re-executed across runs appear once per completion; this picks the newest.
func (s *ArchiveService) GetLatestUnit(ctx context.Context, unitID string) (*storemodel.UnitMetricsRecord, error) {
	return s.repo.GetLatestByUnitID(ctx, unitID)
}

// PendingArchives reports how many completed units are still queued and not
// yet written to MySQL.
func (s *ArchiveService) PendingArchives() (int, error) {
	return s.queue.GetPendingCount()
}

// CleanupOldRecords removes archived records beyond the retention window
func (s *ArchiveService) CleanupOldRecords(ctx context.Context, retainDays int) error {
	cutoff := time.Now().AddDate(0, 0, -retainDays)
	deleted, err := s.repo.DeleteOldRecords(ctx, cutoff)
	if err != nil {
		logger.ErrorCtx(ctx, "failed to cleanup archived units: %v", err)
		return fmt.Errorf("failed to cleanup archived units: %w", err)
	}
	if deleted > 0 {
		logger.InfoCtx(ctx, "cleaned up %d archived unit records (older than %s)",
			deleted, cutoff.Format("2006-01-02"))
	}
	return nil
}
