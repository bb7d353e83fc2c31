package parser

import (
	"testing"
	"time"

	"dental-analytics/sheetbridge/internal/headers"
)

func hygieneContext() RowContext {
	return RowContext{
		TenantID:   "t1",
		ProviderID: "p1",
		SourceTab:  "Dec-24",
		Location:   time.UTC,
	}
}

func TestParseRow_EndToEnd(t *testing.T) {
	headerRow := []string{"Date", "Hours Worked", "Verified Production"}
	hm := headers.BuildHeaderMap(headerRow, headers.VariantHygiene)

	res := ParseRow([]string{"2024-12-03", "7.5", "1200.00"}, hm, headers.VariantHygiene, hygieneContext())
	if res.Skipped {
		t.Fatalf("Expected record, row skipped: %s", res.Reason)
	}

	rec := res.Record
	if rec.Date != "2024-12-03" {
		t.Errorf("Date = %q, want 2024-12-03", rec.Date)
	}
	if rec.TenantID != "t1" || rec.ProviderID != "p1" {
		t.Errorf("Tenant/provider = %q/%q, want t1/p1", rec.TenantID, rec.ProviderID)
	}
	if rec.SourceTab != "Dec-24" {
		t.Errorf("SourceTab = %q, want Dec-24", rec.SourceTab)
	}
	if rec.HoursWorked == nil || *rec.HoursWorked != 7.5 {
		t.Errorf("HoursWorked = %v, want 7.5", rec.HoursWorked)
	}
	if rec.VerifiedProduction == nil || *rec.VerifiedProduction != 1200.00 {
		t.Errorf("VerifiedProduction = %v, want 1200.00", rec.VerifiedProduction)
	}
	if rec.ID == "" {
		t.Error("Expected generated record ID")
	}
}

func TestParseRow_RequiredFieldGate(t *testing.T) {
	headerRow := []string{"Date", "Hours Worked"}
	hm := headers.BuildHeaderMap(headerRow, headers.VariantHygiene)

	tests := []struct {
		name string
		row  []string
	}{
		{"blank date", []string{"", "7.5"}},
		{"garbage date", []string{"not a date", "7.5"}},
		{"short row", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseRow(tt.row, hm, headers.VariantHygiene, hygieneContext())
			if !res.Skipped {
				t.Errorf("Expected row to be skipped, got record %+v", res.Record)
			}
		})
	}
}

func TestParseRow_PartialFieldTolerance(t *testing.T) {
	headerRow := []string{"Date", "Hours Worked", "Verified Production"}
	hm := headers.BuildHeaderMap(headerRow, headers.VariantHygiene)

	// Hours filled in, production not yet reported.
	res := ParseRow([]string{"2024-12-03", "7.5", ""}, hm, headers.VariantHygiene, hygieneContext())
	if res.Skipped {
		t.Fatalf("Expected record, row skipped: %s", res.Reason)
	}

	if res.Record.HoursWorked == nil || *res.Record.HoursWorked != 7.5 {
		t.Errorf("HoursWorked = %v, want 7.5", res.Record.HoursWorked)
	}
	if res.Record.VerifiedProduction != nil {
		t.Errorf("VerifiedProduction = %v, want nil for blank cell", *res.Record.VerifiedProduction)
	}
}

func TestParseRow_BadNumericNullsOnlyThatField(t *testing.T) {
	headerRow := []string{"Date", "Hours Worked", "Verified Production"}
	hm := headers.BuildHeaderMap(headerRow, headers.VariantHygiene)

	res := ParseRow([]string{"2024-12-03", "seven", "1200"}, hm, headers.VariantHygiene, hygieneContext())
	if res.Skipped {
		t.Fatalf("Expected record, row skipped: %s", res.Reason)
	}
	if res.Record.HoursWorked != nil {
		t.Errorf("HoursWorked = %v, want nil for unparseable cell", *res.Record.HoursWorked)
	}
	if res.Record.VerifiedProduction == nil || *res.Record.VerifiedProduction != 1200 {
		t.Errorf("VerifiedProduction = %v, want 1200", res.Record.VerifiedProduction)
	}
}

func TestParseRow_ZeroIsNotBlank(t *testing.T) {
	headerRow := []string{"Date", "Hours Worked"}
	hm := headers.BuildHeaderMap(headerRow, headers.VariantHygiene)

	res := ParseRow([]string{"2024-12-03", "0"}, hm, headers.VariantHygiene, hygieneContext())
	if res.Skipped {
		t.Fatalf("Expected record, row skipped: %s", res.Reason)
	}
	if res.Record.HoursWorked == nil || *res.Record.HoursWorked != 0 {
		t.Errorf("HoursWorked = %v, want explicit 0", res.Record.HoursWorked)
	}
}

func TestParseRow_DeterministicID(t *testing.T) {
	headerRow := []string{"Date", "Hours Worked"}
	hm := headers.BuildHeaderMap(headerRow, headers.VariantHygiene)
	row := []string{"2024-12-03", "7.5"}

	first := ParseRow(row, hm, headers.VariantHygiene, hygieneContext())
	second := ParseRow(row, hm, headers.VariantHygiene, hygieneContext())

	if first.Record.ID != second.Record.ID {
		t.Errorf("IDs differ across parses: %s vs %s", first.Record.ID, second.Record.ID)
	}

	// A different tab is a different logical row.
	other := hygieneContext()
	other.SourceTab = "Jan-25"
	third := ParseRow(row, hm, headers.VariantHygiene, other)
	if third.Record.ID == first.Record.ID {
		t.Error("Expected different ID for different source tab")
	}
}

func TestParseRow_ExplicitUUIDWins(t *testing.T) {
	headerRow := []string{"Date", "Hours Worked", "UUID"}
	hm := headers.BuildHeaderMap(headerRow, headers.VariantHygiene)

	res := ParseRow([]string{"2024-12-03", "7.5", "row-uuid-1"}, hm, headers.VariantHygiene, hygieneContext())
	if res.Record.ID != "row-uuid-1" {
		t.Errorf("ID = %q, want row-uuid-1", res.Record.ID)
	}
}

func TestParseDate_Layouts(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-12-03", "2024-12-03"},
		{"12/3/2024", "2024-12-03"},
		{"12/03/2024", "2024-12-03"},
		{"12/3/24", "2024-12-03"},
		{"Dec 3, 2024", "2024-12-03"},
		{"3 Dec 2024", "2024-12-03"},
		{"45629", "2024-12-03"}, // Sheets serial date
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDate(tt.raw, time.UTC)
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", tt.raw, err)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.raw, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestParseDate_UsesSheetTimezone(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	got, err := ParseDate("2024-12-03", chicago)
	if err != nil {
		t.Fatal(err)
	}
	if got.Location() != chicago {
		t.Errorf("Location = %v, want %v", got.Location(), chicago)
	}
	if got.Format("2006-01-02") != "2024-12-03" {
		t.Errorf("Date shifted: %s", got.Format("2006-01-02"))
	}
}

func TestParseDecimal(t *testing.T) {
	ptr := func(v float64) *float64 { return &v }

	tests := []struct {
		raw  string
		want *float64
	}{
		{"", nil},
		{"   ", nil},
		{"abc", nil},
		{"-", nil},
		{"0", ptr(0)},
		{"7.5", ptr(7.5)},
		{"$1,200.00", ptr(1200)},
		{"15%", ptr(15)},
		{"(350.25)", ptr(-350.25)},
		{"-42", ptr(-42)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseDecimal(tt.raw)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParseDecimal(%q) = %v, want nil", tt.raw, *got)
			case tt.want != nil && got == nil:
				t.Errorf("ParseDecimal(%q) = nil, want %v", tt.raw, *tt.want)
			case tt.want != nil && got != nil && *got != *tt.want:
				t.Errorf("ParseDecimal(%q) = %v, want %v", tt.raw, *got, *tt.want)
			}
		})
	}
}
