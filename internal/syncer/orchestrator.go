package syncer

import (
	"context"
	"fmt"
	"log"
	"time"

	"dental-analytics/sheetbridge/internal/config"
	"dental-analytics/sheetbridge/internal/constants"
	"dental-analytics/sheetbridge/internal/credentials"
	"dental-analytics/sheetbridge/internal/headers"
	"dental-analytics/sheetbridge/internal/metrics"
	"dental-analytics/sheetbridge/internal/models/entities"
	"dental-analytics/sheetbridge/internal/parser"
	"dental-analytics/sheetbridge/internal/sheets"
	"dental-analytics/sheetbridge/internal/upsert"

	"github.com/google/uuid"
)

// Orchestrator drives a sync run: enumerate month tabs, read headers, parse
// rows, upsert batches, and write exactly one audit entry per run. Failures
// are contained at record and sheet granularity; only configuration errors
// abort a run.
type Orchestrator struct {
	sheets   *sheets.Client
	upserter *upsert.Client
	resolver *credentials.Resolver
	audit    *AuditWriter
	lock     *RunLock
	metrics  *metrics.Registry
	cfg      config.SyncConfig
}

func NewOrchestrator(
	sheetsClient *sheets.Client,
	upserter *upsert.Client,
	resolver *credentials.Resolver,
	audit *AuditWriter,
	lock *RunLock,
	reg *metrics.Registry,
	cfg config.SyncConfig,
) *Orchestrator {
	return &Orchestrator{
		sheets:   sheetsClient,
		upserter: upserter,
		resolver: resolver,
		audit:    audit,
		lock:     lock,
		metrics:  reg,
		cfg:      cfg,
	}
}

func eventFor(variant string) string {
	if variant == headers.VariantFinancial.Variant {
		return constants.SyncEventFullFinancial
	}
	return constants.SyncEventFullHygiene
}

// RunFullSync processes every month tab of the tenant's spreadsheet for one
// variant. It always returns a RunResult and always writes an audit entry,
// even when the run aborts.
func (o *Orchestrator) RunFullSync(ctx context.Context, tenantKey, variant string, dryRun bool) *RunResult {
	start := time.Now()
	event := eventFor(variant)

	result := &RunResult{
		RunID:     uuid.NewString(),
		TenantKey: tenantKey,
		Event:     event,
		StartedAt: start,
	}

	log.Printf("[FullSync] Starting %s for tenant %s at %s", event, tenantKey, start.Format(time.RFC3339))

	release, err := o.lock.Acquire(ctx, o.cfg.LockTimeout)
	if err != nil {
		result.Fatal = err
		result.Duration = time.Since(start)
		o.finish(ctx, "", result)
		return result
	}
	defer release()

	creds, err := o.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		result.Fatal = err
		result.Duration = time.Since(start)
		o.finish(ctx, "", result)
		return result
	}

	spreadsheetID, err := o.resolver.SpreadsheetFor(ctx, tenantKey, variant)
	if err != nil {
		result.Fatal = err
		result.Duration = time.Since(start)
		o.finish(ctx, "", result)
		return result
	}

	meta, err := o.sheets.GetMetadata(ctx, spreadsheetID)
	if err != nil {
		result.Fatal = fmt.Errorf("failed to read spreadsheet metadata: %w", err)
		result.Duration = time.Since(start)
		o.finish(ctx, spreadsheetID, result)
		return result
	}

	loc := locationFor(meta.Properties.TimeZone)
	schema := headers.SchemaFor(variant)

	for _, sheet := range meta.Sheets {
		tab := sheet.Properties.Title
		if !IsMonthTab(tab) {
			continue
		}

		sr := o.syncSheet(ctx, spreadsheetID, tab, schema, creds, loc, dryRun)
		result.addSheet(sr)

		if sr.Err != nil {
			// Failure isolation at sheet granularity: log and move on.
			log.Printf("[FullSync] Tenant %s: sheet %q failed: %v", tenantKey, tab, sr.Err)
		}
	}

	result.Duration = time.Since(start)
	o.finish(ctx, o.resolver.AuditSpreadsheet(ctx, tenantKey, variant), result)

	log.Printf("[FullSync] Completed %s for tenant %s in %s: %s",
		event, tenantKey, result.Duration.Truncate(time.Millisecond), result.Summary())

	return result
}

// syncSheet runs the reader → parser → upsert pipeline for one month tab.
func (o *Orchestrator) syncSheet(
	ctx context.Context,
	spreadsheetID, tab string,
	schema headers.FieldSchema,
	creds *credentials.SyncCredentials,
	loc *time.Location,
	dryRun bool,
) SheetResult {
	sr := SheetResult{Tab: tab}

	rows, err := o.sheets.GetValues(ctx, spreadsheetID, tab)
	if err != nil {
		sr.Err = fmt.Errorf("failed to read sheet values: %w", err)
		return sr
	}
	if len(rows) == 0 {
		sr.Empty = true
		return sr
	}

	headerIdx, found := headers.DetectHeaderRow(rows, schema)
	if !found {
		log.Printf("[FullSync] Sheet %q: no header row found, skipping", tab)
		sr.SkippedSheet = true
		return sr
	}

	hm := headers.BuildHeaderMap(rows[headerIdx], schema)
	if !hm.HasDate() {
		log.Printf("[FullSync] Sheet %q: no date column found, skipping", tab)
		sr.SkippedSheet = true
		return sr
	}

	rc := parser.RowContext{
		TenantID:   creds.TenantID,
		ProviderID: creds.ProviderID,
		SourceTab:  tab,
		Location:   loc,
	}

	var records []entities.ProductionRecord
	for _, row := range rows[headerIdx+1:] {
		sr.Attempted++

		res := parser.ParseRow(row, hm, schema, rc)
		if res.Skipped {
			sr.Skipped++
			continue
		}
		sr.Parsed++
		records = append(records, *res.Record)
	}

	if len(records) == 0 {
		return sr
	}

	batchRes, err := o.upserter.UpsertBatch(ctx, records, creds, dryRun)
	if err != nil {
		sr.Err = err
		sr.Failed += len(records)
		return sr
	}

	sr.Upserted = batchRes.Upserted
	sr.Failed += batchRes.Failed

	if o.metrics != nil {
		o.metrics.UpsertRetriesTotal.Add(float64(batchRes.Retries))
		o.metrics.RecordsUpsertedTotal.Add(float64(batchRes.Upserted))
		o.metrics.RecordsSkippedTotal.Add(float64(sr.Skipped))
	}

	return sr
}

// finish writes the audit entry and observes run metrics.
func (o *Orchestrator) finish(ctx context.Context, spreadsheetID string, result *RunResult) {
	o.audit.Write(ctx, spreadsheetID, result)

	if o.metrics != nil {
		o.metrics.SyncRunsTotal.WithLabelValues(result.Event, result.Status()).Inc()
		o.metrics.SyncRunDuration.WithLabelValues(result.Event).Observe(result.Duration.Seconds())
	}
}

// locationFor loads the spreadsheet's IANA timezone, falling back to UTC.
// Using the process timezone instead would shift dates near midnight.
func locationFor(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("[FullSync] Unknown spreadsheet timezone %q, using UTC", tz)
		return time.UTC
	}
	return loc
}
