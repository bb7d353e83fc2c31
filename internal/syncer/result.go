package syncer

import (
	"fmt"
	"time"

	"dental-analytics/sheetbridge/internal/constants"
)

// SheetResult is the outcome of processing one month tab.
type SheetResult struct {
	Tab       string
	Attempted int
	Parsed    int
	Upserted  int
	Skipped   int
	Failed    int
	// Empty marks a tab with no rows at all, a normal state for months that
	// have not started yet.
	Empty bool
	// SkippedSheet marks a tab that had content we could not process, such
	// as a missing header row or no date column.
	SkippedSheet bool
	Err          error
}

// RunResult aggregates one orchestrator invocation.
type RunResult struct {
	RunID     string
	TenantKey string
	Event     string
	StartedAt time.Time
	Duration  time.Duration
	Sheets    []SheetResult
	// Fatal is set only for configuration-level failures that abort the run.
	Fatal error
}

func (r *RunResult) addSheet(sr SheetResult) {
	r.Sheets = append(r.Sheets, sr)
}

func (r *RunResult) totals() (attempted, parsed, upserted, skipped, failed int) {
	for _, s := range r.Sheets {
		attempted += s.Attempted
		parsed += s.Parsed
		upserted += s.Upserted
		skipped += s.Skipped
		failed += s.Failed
	}
	return
}

// Status classifies the run: ERROR when aborted, PARTIAL when any sheet or
// record failed, SUCCESS otherwise. Empty tabs do not count against the run.
func (r *RunResult) Status() string {
	if r.Fatal != nil {
		return constants.RunStatusError
	}
	for _, s := range r.Sheets {
		if s.SkippedSheet || s.Failed > 0 || s.Err != nil {
			return constants.RunStatusPartial
		}
	}
	return constants.RunStatusSuccess
}

// Summary renders the one-line message stored in the audit log.
func (r *RunResult) Summary() string {
	if r.Fatal != nil {
		return fmt.Sprintf("aborted: %v", r.Fatal)
	}

	attempted, parsed, upserted, skipped, failed := r.totals()
	return fmt.Sprintf("sheets=%d attempted=%d parsed=%d upserted=%d skipped=%d failed=%d",
		len(r.Sheets), attempted, parsed, upserted, skipped, failed)
}

// RowSyncResult is the outcome of an edit-triggered single-row sync.
type RowSyncResult struct {
	Tab       string
	RowNumber int
	Upserted  bool
	Skipped   bool
	Reason    string
}
