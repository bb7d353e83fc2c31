package repositories

import (
	"context"
	"errors"
	"time"

	"dental-analytics/sheetbridge/internal/models/entities"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// SyncRunRepository persists run summaries (the database half of the audit trail).
type SyncRunRepository struct {
	db *gormlib.DB
}

func NewSyncRunRepository(db *gormlib.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Record stores one completed run. Every run writes exactly one row,
// regardless of outcome.
func (r *SyncRunRepository) Record(ctx context.Context, run *entities.SyncRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	return r.db.WithContext(ctx).Create(run).Error
}

// GetLastRunTime retrieves the most recent run timestamp for a tenant and
// event. Used to decide whether an initial sync is due on service restart.
func (r *SyncRunRepository) GetLastRunTime(ctx context.Context, tenantKey, event string) (*time.Time, error) {
	var run entities.SyncRun

	err := r.db.WithContext(ctx).
		Where("tenant_key = ? AND event = ?", tenantKey, event).
		Order("created_at DESC").
		First(&run).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &run.CreatedAt, nil
}

// ListRecent returns the newest runs for a tenant, most recent first.
func (r *SyncRunRepository) ListRecent(ctx context.Context, tenantKey string, limit int) ([]entities.SyncRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var runs []entities.SyncRun
	err := r.db.WithContext(ctx).
		Where("tenant_key = ?", tenantKey).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error

	return runs, err
}
