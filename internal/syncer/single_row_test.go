package syncer

import (
	"context"
	"testing"
	"time"

	"dental-analytics/sheetbridge/internal/cache"
	"dental-analytics/sheetbridge/internal/parser"
)

func newRowSyncer(f *fixture, window time.Duration) *RowSyncer {
	return NewRowSyncer(f.orc, cache.NewService(time.Minute, time.Minute), window)
}

func TestRunSingleRowSync_Upserts(t *testing.T) {
	f := newFixture(t, map[string][][]string{"Dec-24": monthRows()})
	rs := newRowSyncer(f, time.Minute)

	// Row 2 is the first data row below the header.
	res, err := rs.RunSingleRowSync(context.Background(), "clinic-a", "ss-hyg", "Dec-24", 2)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Upserted || res.Skipped {
		t.Fatalf("result = %+v, want upserted", res)
	}

	ids := f.upsertedIDs()
	if len(ids) != 1 {
		t.Fatalf("upserted records = %d, want 1", len(ids))
	}
	// The edited row converges on the same record a full sync would write.
	want := parser.DeterministicID("tenant-uuid", "provider-uuid", "2024-12-03", "Dec-24")
	if ids[0] != want {
		t.Errorf("record ID = %s, want %s", ids[0], want)
	}

	if len(f.appends) != 1 {
		t.Errorf("audit appends = %d, want 1", len(f.appends))
	}
}

func TestRunSingleRowSync_SkipsHeaderAndNonMonthTabs(t *testing.T) {
	f := newFixture(t, map[string][][]string{"Dec-24": monthRows()})
	rs := newRowSyncer(f, time.Minute)
	ctx := context.Background()

	tests := []struct {
		name  string
		sheet string
		row   int
	}{
		{"row one", "Dec-24", 1},
		{"header row", "Dec-24", 0},
		{"summary tab", "Summary", 3},
		{"audit tab", "Sync Log", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := rs.RunSingleRowSync(ctx, "clinic-a", "ss-hyg", tt.sheet, tt.row)
			if err != nil {
				t.Fatal(err)
			}
			if !res.Skipped {
				t.Errorf("result = %+v, want skipped", res)
			}
		})
	}

	if len(f.payloads) != 0 {
		t.Errorf("upsert calls = %d, want 0", len(f.payloads))
	}
}

func TestRunSingleRowSync_CoalescesRapidEdits(t *testing.T) {
	tabs := map[string][][]string{"Dec-24": monthRows()}
	f := newFixture(t, tabs)
	rs := newRowSyncer(f, 50*time.Millisecond)
	ctx := context.Background()

	first, err := rs.RunSingleRowSync(ctx, "clinic-a", "ss-hyg", "Dec-24", 2)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Upserted {
		t.Fatalf("first = %+v, want upserted", first)
	}

	// The user corrects the cell right after the first commit. The second
	// event falls inside the debounce window; it must wait it out and sync
	// the corrected value rather than dropping it on the floor.
	tabs["Dec-24"][1][1] = "9"

	second, err := rs.RunSingleRowSync(ctx, "clinic-a", "ss-hyg", "Dec-24", 2)
	if err != nil {
		t.Fatal(err)
	}
	if second.Skipped || !second.Upserted {
		t.Fatalf("second = %+v, want upserted after the window", second)
	}

	if len(f.payloads) != 2 {
		t.Fatalf("upsert calls = %d, want 2", len(f.payloads))
	}
	last := f.payloads[1]
	if len(last.Records) != 1 || last.Records[0].HoursWorked == nil {
		t.Fatalf("second payload = %+v, want one record with hours set", last)
	}
	if got := *last.Records[0].HoursWorked; got != 9 {
		t.Errorf("hours worked = %v, want the corrected value 9", got)
	}
}

func TestRunSingleRowSync_BlankRowSkipped(t *testing.T) {
	f := newFixture(t, map[string][][]string{"Dec-24": monthRows()})
	rs := newRowSyncer(f, time.Minute)

	// Row 4 is the trailing blank row.
	res, err := rs.RunSingleRowSync(context.Background(), "clinic-a", "ss-hyg", "Dec-24", 4)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Skipped {
		t.Errorf("result = %+v, want skipped", res)
	}
	if len(f.payloads) != 0 {
		t.Errorf("upsert calls = %d, want 0", len(f.payloads))
	}
}

func TestRunSingleRowSync_UnknownSpreadsheet(t *testing.T) {
	f := newFixture(t, map[string][][]string{"Dec-24": monthRows()})
	rs := newRowSyncer(f, time.Minute)

	_, err := rs.RunSingleRowSync(context.Background(), "clinic-a", "ss-other", "Dec-24", 2)
	if err == nil {
		t.Fatal("expected error for spreadsheet not configured for tenant")
	}
}
