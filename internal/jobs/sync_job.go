package jobs

import (
	"context"
	"log"
	"time"

	"dental-analytics/sheetbridge/internal/constants"
	"dental-analytics/sheetbridge/internal/db/repositories"
	"dental-analytics/sheetbridge/internal/headers"
	"dental-analytics/sheetbridge/internal/syncer"
)

// FullSyncJob runs the scheduled full sync for every configured tenant.
type FullSyncJob struct {
	orc     *syncer.Orchestrator
	runs    *repositories.SyncRunRepository
	tenants func(ctx context.Context) ([]string, error)
}

func NewFullSyncJob(
	orc *syncer.Orchestrator,
	runs *repositories.SyncRunRepository,
	tenants func(ctx context.Context) ([]string, error),
) *FullSyncJob {
	return &FullSyncJob{orc: orc, runs: runs, tenants: tenants}
}

// Run executes a full sync of both variants for all tenants. One tenant
// failing never stops the others.
func (j *FullSyncJob) Run(ctx context.Context) {
	start := time.Now()
	log.Printf("[FullSyncJob] Starting scheduled sync at %s", start.Format(time.RFC3339))

	tenantKeys, err := j.tenants(ctx)
	if err != nil {
		log.Printf("[FullSyncJob] Error listing tenants: %v", err)
		return
	}

	if len(tenantKeys) == 0 {
		log.Printf("[FullSyncJob] No tenants configured")
		return
	}

	for _, tenantKey := range tenantKeys {
		for _, variant := range []string{headers.VariantHygiene.Variant, headers.VariantFinancial.Variant} {
			result := j.orc.RunFullSync(ctx, tenantKey, variant, false)
			if result.Fatal != nil {
				log.Printf("[FullSyncJob] Tenant %s %s sync aborted: %v", tenantKey, variant, result.Fatal)
				continue
			}
			log.Printf("[FullSyncJob] Tenant %s %s: %s %s", tenantKey, variant, result.Status(), result.Summary())
		}
	}

	log.Printf("[FullSyncJob] Completed scheduled sync in %s", time.Since(start).Truncate(time.Millisecond))
}

// RunScheduled runs the sync job on a fixed interval until ctx is cancelled.
func (j *FullSyncJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start only if the last sync is older than the
	// interval, so restarts don't hammer the Sheets API.
	if j.shouldRunInitialSync(ctx, interval) {
		j.Run(ctx)
	}

	for {
		select {
		case <-ticker.C:
			j.Run(ctx)
		case <-ctx.Done():
			log.Printf("[FullSyncJob] Shutting down scheduled sync")
			return
		}
	}
}

func (j *FullSyncJob) shouldRunInitialSync(ctx context.Context, interval time.Duration) bool {
	tenantKeys, err := j.tenants(ctx)
	if err != nil || len(tenantKeys) == 0 {
		return false
	}

	for _, tenantKey := range tenantKeys {
		last, err := j.runs.GetLastRunTime(ctx, tenantKey, constants.SyncEventFullHygiene)
		if err != nil {
			log.Printf("[FullSyncJob] Error checking last run for %s: %v", tenantKey, err)
			return true
		}
		if last == nil || time.Since(*last) > interval {
			return true
		}
	}
	return false
}
