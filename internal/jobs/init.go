package jobs

import (
	"context"
	"time"

	"dental-analytics/sheetbridge/internal/db/repositories"
	"dental-analytics/sheetbridge/internal/syncer"
)

// InitializeJobs starts the background full-sync job.
func InitializeJobs(
	ctx context.Context,
	orc *syncer.Orchestrator,
	runs *repositories.SyncRunRepository,
	tenants func(ctx context.Context) ([]string, error),
	interval time.Duration,
) *FullSyncJob {
	job := NewFullSyncJob(orc, runs, tenants)

	go job.RunScheduled(ctx, interval)

	return job
}
