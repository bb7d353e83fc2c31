package syncer

import (
	"context"
	"fmt"
	"log"
	"time"

	"dental-analytics/sheetbridge/internal/cache"
	"dental-analytics/sheetbridge/internal/constants"
	"dental-analytics/sheetbridge/internal/headers"
	"dental-analytics/sheetbridge/internal/parser"

	"github.com/google/uuid"
)

// RowSyncer handles edit-triggered single-row syncs. It shares the run lock
// with the full sync and coalesces rapid successive edits to the same row: a
// human typing fires one event per keystroke-commit, so edits inside the
// debounce window wait it out and then sync the row's final contents.
type RowSyncer struct {
	orc      *Orchestrator
	debounce *cache.Service
	window   time.Duration
}

func NewRowSyncer(orc *Orchestrator, debounce *cache.Service, window time.Duration) *RowSyncer {
	if window <= 0 {
		window = 2 * time.Second
	}
	return &RowSyncer{orc: orc, debounce: debounce, window: window}
}

// RunSingleRowSync re-parses and re-upserts one edited row. The variant is
// inferred from which configured spreadsheet the edit came from.
func (s *RowSyncer) RunSingleRowSync(
	ctx context.Context,
	tenantKey, spreadsheetID, sheetName string,
	rowNumber int,
) (*RowSyncResult, error) {
	if rowNumber < 2 {
		// Row 1 is at or above the header in every sheet we sync.
		return &RowSyncResult{Tab: sheetName, RowNumber: rowNumber, Skipped: true, Reason: "header row edit"}, nil
	}
	if !IsMonthTab(sheetName) {
		return &RowSyncResult{Tab: sheetName, RowNumber: rowNumber, Skipped: true, Reason: "not a month tab"}, nil
	}

	debounceKey := fmt.Sprintf("edit:%s:%s:%d", spreadsheetID, sheetName, rowNumber)
	if s.debounce != nil && !s.debounce.Add(debounceKey, true, s.window) {
		// An edit to this row just synced. Hold until the window closes and
		// process with whatever the cell holds by then, so the last edit in
		// a rapid burst still lands instead of waiting for the next full
		// sync.
		timer := time.NewTimer(s.window)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
		s.debounce.Add(debounceKey, true, s.window)
	}

	start := time.Now()
	o := s.orc

	release, err := o.lock.Acquire(ctx, o.cfg.LockTimeout)
	if err != nil {
		return nil, err
	}
	defer release()

	variant, err := s.variantFor(ctx, tenantKey, spreadsheetID)
	if err != nil {
		return nil, err
	}

	creds, err := o.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	meta, err := o.sheets.GetMetadata(ctx, spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}
	loc := locationFor(meta.Properties.TimeZone)
	schema := headers.SchemaFor(variant)

	// The header row has to be re-read: a row number alone doesn't say which
	// column is which.
	headRange := fmt.Sprintf("%s!1:%d", sheetName, headerScanRows)
	topRows, err := o.sheets.GetValues(ctx, spreadsheetID, headRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read header rows: %w", err)
	}

	headerIdx, found := headers.DetectHeaderRow(topRows, schema)
	if !found {
		return &RowSyncResult{Tab: sheetName, RowNumber: rowNumber, Skipped: true, Reason: "no header row"}, nil
	}
	hm := headers.BuildHeaderMap(topRows[headerIdx], schema)
	if !hm.HasDate() {
		return &RowSyncResult{Tab: sheetName, RowNumber: rowNumber, Skipped: true, Reason: "no date column"}, nil
	}
	if rowNumber <= headerIdx+1 {
		return &RowSyncResult{Tab: sheetName, RowNumber: rowNumber, Skipped: true, Reason: "header row edit"}, nil
	}

	rowRange := fmt.Sprintf("%s!%d:%d", sheetName, rowNumber, rowNumber)
	rows, err := o.sheets.GetValues(ctx, spreadsheetID, rowRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited row: %w", err)
	}
	if len(rows) == 0 {
		return &RowSyncResult{Tab: sheetName, RowNumber: rowNumber, Skipped: true, Reason: "empty row"}, nil
	}

	rc := parser.RowContext{
		TenantID:   creds.TenantID,
		ProviderID: creds.ProviderID,
		SourceTab:  sheetName,
		Location:   loc,
	}

	res := parser.ParseRow(rows[0], hm, schema, rc)
	if res.Skipped {
		return &RowSyncResult{Tab: sheetName, RowNumber: rowNumber, Skipped: true, Reason: res.Reason}, nil
	}

	if err := o.upserter.UpsertRecord(ctx, res.Record, creds, false); err != nil {
		return nil, err
	}

	// Single-row syncs are audited like full runs: one entry, always.
	runResult := &RunResult{
		RunID:     uuid.NewString(),
		TenantKey: tenantKey,
		Event:     constants.SyncEventSingleRow,
		StartedAt: start,
		Duration:  time.Since(start),
		Sheets: []SheetResult{{
			Tab:       sheetName,
			Attempted: 1,
			Parsed:    1,
			Upserted:  1,
		}},
	}
	o.finish(ctx, o.resolver.AuditSpreadsheet(ctx, tenantKey, variant), runResult)

	log.Printf("[RowSync] Upserted row %d of %q for tenant %s in %s",
		rowNumber, sheetName, tenantKey, time.Since(start).Truncate(time.Millisecond))

	return &RowSyncResult{Tab: sheetName, RowNumber: rowNumber, Upserted: true}, nil
}

// headerScanRows mirrors the header detection bound.
const headerScanRows = 5

func (s *RowSyncer) variantFor(ctx context.Context, tenantKey, spreadsheetID string) (string, error) {
	for _, variant := range []string{headers.VariantHygiene.Variant, headers.VariantFinancial.Variant} {
		id, err := s.orc.resolver.SpreadsheetFor(ctx, tenantKey, variant)
		if err == nil && id == spreadsheetID {
			return variant, nil
		}
	}
	return "", fmt.Errorf("spreadsheet %s is not configured for tenant %s", spreadsheetID, tenantKey)
}
