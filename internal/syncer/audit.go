package syncer

import (
	"context"
	"fmt"
	"log"
	"time"

	"dental-analytics/sheetbridge/internal/db/repositories"
	"dental-analytics/sheetbridge/internal/models/entities"
	"dental-analytics/sheetbridge/internal/sheets"
)

// AuditWriter appends one row per run to the audit log tab and mirrors it
// into sync_runs. Audit failures are logged, never propagated: the audit
// trail must not be able to fail a sync, and silent runs are disallowed the
// other way around.
type AuditWriter struct {
	sheets *sheets.Client
	runs   *repositories.SyncRunRepository
	tab    string
}

func NewAuditWriter(sheetsClient *sheets.Client, runs *repositories.SyncRunRepository, tab string) *AuditWriter {
	if tab == "" {
		tab = "Sync Log"
	}
	return &AuditWriter{sheets: sheetsClient, runs: runs, tab: tab}
}

// Write records the run summary. spreadsheetID may be empty when credential
// resolution failed before a spreadsheet was known; the database row is
// still written.
func (w *AuditWriter) Write(ctx context.Context, spreadsheetID string, result *RunResult) {
	attempted, _, upserted, skipped, _ := result.totals()

	run := &entities.SyncRun{
		ID:              result.RunID,
		TenantKey:       result.TenantKey,
		Event:           result.Event,
		Status:          result.Status(),
		RowsProcessed:   attempted,
		RowsUpserted:    upserted,
		RowsSkipped:     skipped,
		SheetsProcessed: len(result.Sheets),
		DurationSeconds: result.Duration.Seconds(),
		Message:         result.Summary(),
		CreatedAt:       result.StartedAt,
	}

	if w.runs != nil {
		if err := w.runs.Record(ctx, run); err != nil {
			log.Printf("[AuditWriter] Warning: failed to record sync run: %v", err)
		}
	}

	if w.sheets == nil || spreadsheetID == "" {
		return
	}

	row := []string{
		result.StartedAt.UTC().Format(time.RFC3339),
		result.Event,
		run.Status,
		fmt.Sprintf("%d", run.RowsProcessed),
		fmt.Sprintf("%d", run.SheetsProcessed),
		fmt.Sprintf("%.2f", run.DurationSeconds),
		run.Message,
	}

	if err := w.sheets.AppendRow(ctx, spreadsheetID, w.tab, row); err != nil {
		log.Printf("[AuditWriter] Warning: failed to append audit row: %v", err)
	}
}
