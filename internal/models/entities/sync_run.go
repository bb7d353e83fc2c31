package entities

import "time"

// SyncRun is the durable record of one orchestrator invocation, mirrored
// into the audit sheet.
type SyncRun struct {
	ID              string    `gorm:"column:id;primaryKey"`
	TenantKey       string    `gorm:"column:tenant_key"`
	Event           string    `gorm:"column:event"`
	Status          string    `gorm:"column:status"`
	RowsProcessed   int       `gorm:"column:rows_processed"`
	RowsUpserted    int       `gorm:"column:rows_upserted"`
	RowsSkipped     int       `gorm:"column:rows_skipped"`
	SheetsProcessed int       `gorm:"column:sheets_processed"`
	DurationSeconds float64   `gorm:"column:duration_seconds"`
	Message         string    `gorm:"column:message"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

// TableName overrides the GORM default pluralization.
func (SyncRun) TableName() string {
	return "sync_runs"
}
