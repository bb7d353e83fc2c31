// Command importer backfills production data from an exported .xlsx workbook
// through the same header-detection, parsing, and upsert pipeline the live
// sync uses. Intended for one-off historical loads where the workbook is no
// longer reachable through the Sheets API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"dental-analytics/sheetbridge/internal/cache"
	"dental-analytics/sheetbridge/internal/config"
	"dental-analytics/sheetbridge/internal/constants"
	"dental-analytics/sheetbridge/internal/credentials"
	"dental-analytics/sheetbridge/internal/db"
	"dental-analytics/sheetbridge/internal/db/repositories"
	"dental-analytics/sheetbridge/internal/headers"
	"dental-analytics/sheetbridge/internal/models/entities"
	"dental-analytics/sheetbridge/internal/parser"
	"dental-analytics/sheetbridge/internal/syncer"
	"dental-analytics/sheetbridge/internal/upsert"
)

func main() {
	var (
		file      = flag.String("file", "", "path to the exported .xlsx workbook")
		tenantKey = flag.String("tenant", "", "tenant key to sync as")
		variant   = flag.String("variant", "hygiene", "sync variant: hygiene or financial")
		timezone  = flag.String("timezone", "UTC", "workbook timezone (IANA name)")
		dryRun    = flag.Bool("dry-run", false, "parse and send with dryRun=true")
	)
	flag.Parse()

	if *file == "" || *tenantKey == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		log.Fatalf("Unknown timezone %q: %v", *timezone, err)
	}

	if err := db.InitPostgres(cfg.Postgres.DSN()); err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	gormDB, err := db.InitPostgresORM(cfg.Postgres.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to Postgres (ORM): %v", err)
	}
	runs := repositories.NewSyncRunRepository(gormDB)

	ctx := context.Background()
	start := time.Now()

	cacheSvc := cache.NewService(10*time.Minute, 15*time.Minute)
	resolver := credentials.NewResolver(
		repositories.NewPropertiesRepository(db.DB),
		repositories.NewMappingRepository(db.DB),
		cacheSvc,
		cfg.Sync,
	)

	creds, err := resolver.Resolve(ctx, *tenantKey)
	if err != nil {
		log.Fatalf("Failed to resolve credentials: %v", err)
	}

	policy := upsert.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.Sync.MaxAttempts
	policy.InitialDelay = cfg.Sync.InitialBackoff
	upserter := upsert.NewClient(cfg.Sync.BatchSize, policy)

	workbook, err := excelize.OpenFile(*file)
	if err != nil {
		log.Fatalf("Failed to open workbook: %v", err)
	}
	defer workbook.Close()

	schema := headers.SchemaFor(*variant)
	totalParsed, totalSkipped, totalUpserted, totalFailed := 0, 0, 0, 0
	sheetsProcessed := 0

	for _, tab := range workbook.GetSheetList() {
		if !syncer.IsMonthTab(tab) {
			continue
		}

		rows, err := workbook.GetRows(tab)
		if err != nil {
			log.Printf("[Importer] Sheet %q: failed to read rows: %v", tab, err)
			continue
		}
		if len(rows) == 0 {
			continue
		}

		headerIdx, found := headers.DetectHeaderRow(rows, schema)
		if !found {
			log.Printf("[Importer] Sheet %q: no header row found, skipping", tab)
			continue
		}
		hm := headers.BuildHeaderMap(rows[headerIdx], schema)
		if !hm.HasDate() {
			log.Printf("[Importer] Sheet %q: no date column found, skipping", tab)
			continue
		}

		rc := parser.RowContext{
			TenantID:   creds.TenantID,
			ProviderID: creds.ProviderID,
			SourceTab:  tab,
			Location:   loc,
		}

		var records []entities.ProductionRecord
		for _, row := range rows[headerIdx+1:] {
			res := parser.ParseRow(row, hm, schema, rc)
			if res.Skipped {
				totalSkipped++
				continue
			}
			totalParsed++
			records = append(records, *res.Record)
		}

		if len(records) == 0 {
			continue
		}

		sheetsProcessed++
		batchRes, err := upserter.UpsertBatch(ctx, records, creds, *dryRun)
		if err != nil {
			log.Printf("[Importer] Sheet %q: upsert failed: %v", tab, err)
			totalFailed += len(records)
			continue
		}
		totalUpserted += batchRes.Upserted
		totalFailed += batchRes.Failed
		log.Printf("[Importer] Sheet %q: parsed=%d upserted=%d failed=%d",
			tab, len(records), batchRes.Upserted, batchRes.Failed)
	}

	summary := fmt.Sprintf("parsed=%d skipped=%d upserted=%d failed=%d dryRun=%v",
		totalParsed, totalSkipped, totalUpserted, totalFailed, *dryRun)

	status := constants.RunStatusSuccess
	if totalFailed > 0 {
		status = constants.RunStatusPartial
	}
	if err := runs.Record(ctx, &entities.SyncRun{
		TenantKey:       *tenantKey,
		Event:           constants.SyncEventBackfill,
		Status:          status,
		RowsProcessed:   totalParsed + totalSkipped,
		RowsUpserted:    totalUpserted,
		RowsSkipped:     totalSkipped,
		SheetsProcessed: sheetsProcessed,
		DurationSeconds: time.Since(start).Seconds(),
		Message:         summary,
	}); err != nil {
		log.Printf("[Importer] Warning: failed to record run: %v", err)
	}

	fmt.Printf("Backfill complete: %s\n", summary)
}
