package parser

import (
	"fmt"
	"strings"
	"time"

	"dental-analytics/sheetbridge/internal/headers"
	"dental-analytics/sheetbridge/internal/models/entities"

	"github.com/google/uuid"
)

// recordNamespace seeds deterministic record IDs. Re-parsing the same logical
// row (tenant, provider, date, tab) must yield the same UUID so re-syncs
// upsert in place instead of duplicating.
var recordNamespace = uuid.MustParse("b7a9a1d4-3f62-4c1a-9e85-2d0c6f5a8e31")

// Result is the tagged outcome of parsing one row: either a record or a
// skip with its reason. Partial records are never produced.
type Result struct {
	Record  *entities.ProductionRecord
	Skipped bool
	Reason  string
}

func ok(rec *entities.ProductionRecord) Result {
	return Result{Record: rec}
}

func skipped(reason string) Result {
	return Result{Skipped: true, Reason: reason}
}

// RowContext carries the per-sheet inputs the parser tags records with.
type RowContext struct {
	TenantID   string
	ProviderID string
	SourceTab  string
	// Location is the spreadsheet's configured timezone, not the process
	// timezone; using the wrong one shifts dates by a day near midnight.
	Location *time.Location
}

// ParseRow converts one raw sheet row into a normalized record. A blank or
// unparseable date skips the row; that is the only required-field gate.
// Numeric fields are parsed independently: one bad cell nulls that field
// only, because sheets are filled in incrementally during the workday.
func ParseRow(row []string, hm headers.HeaderMap, schema headers.FieldSchema, rc RowContext) Result {
	rawDate := strings.TrimSpace(hm.Cell(row, headers.FieldDate))
	if rawDate == "" {
		return skipped("empty date cell")
	}

	date, err := ParseDate(rawDate, rc.Location)
	if err != nil {
		return skipped(fmt.Sprintf("unparseable date %q", rawDate))
	}

	rec := &entities.ProductionRecord{
		TenantID:   rc.TenantID,
		ProviderID: rc.ProviderID,
		Date:       date.Format("2006-01-02"),
		SourceTab:  rc.SourceTab,
	}

	for _, field := range schema.NumericFields() {
		raw := hm.Cell(row, field)
		rec.SetNumeric(field, ParseDecimal(raw))
	}

	if id := strings.TrimSpace(hm.Cell(row, headers.FieldUUID)); id != "" {
		rec.ID = id
	} else {
		rec.ID = DeterministicID(rc.TenantID, rc.ProviderID, rec.Date, rc.SourceTab)
	}

	return ok(rec)
}

// DeterministicID derives a stable UUID for a logical row so repeated syncs
// converge on the same remote record.
func DeterministicID(tenantID, providerID, isoDate, sourceTab string) string {
	key := strings.Join([]string{tenantID, providerID, isoDate, sourceTab}, "|")
	return uuid.NewSHA1(recordNamespace, []byte(key)).String()
}
