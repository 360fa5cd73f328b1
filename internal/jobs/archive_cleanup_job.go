package jobs

import (
	"context"
	"time"

	"kikostats/internal/service"
	"kikostats/pkg/config"
)

// ArchiveCleanupJob prunes archived unit records beyond the retention window.
type ArchiveCleanupJob struct {
	archiveService *service.ArchiveService
}

// NewArchiveCleanupJob creates the archive cleanup job
func NewArchiveCleanupJob(archiveService *service.ArchiveService) *ArchiveCleanupJob {
	return &ArchiveCleanupJob{archiveService: archiveService}
}

func (j *ArchiveCleanupJob) Name() string {
	return "archive_cleanup"
}

func (j *ArchiveCleanupJob) Interval() time.Duration {
	return 24 * time.Hour
}

// AlignToInterval runs the cleanup at day boundaries instead of process start.
func (j *ArchiveCleanupJob) AlignToInterval() bool {
	return true
}

func (j *ArchiveCleanupJob) Run(ctx context.Context) error {
	return j.archiveService.CleanupOldRecords(ctx, config.GlobalConfig.Monitor.ArchiveRetainDays)
}
