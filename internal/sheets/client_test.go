package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dental-analytics/sheetbridge/internal/constants"
	"dental-analytics/sheetbridge/internal/models/dtos"
)

func TestGetMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode(dtos.SpreadsheetMeta{
			SpreadsheetID: "ss-1",
			Properties:    dtos.SpreadsheetProp{Title: "Hygiene", TimeZone: "America/Chicago"},
			Sheets: []dtos.SheetEntry{
				{Properties: dtos.SheetProperties{SheetID: 0, Title: "Dec-24"}},
				{Properties: dtos.SheetProperties{SheetID: 1, Title: "Summary"}},
			},
		})
	}))
	defer server.Close()

	meta, err := NewClient(server.URL, "tok").GetMetadata(context.Background(), "ss-1")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Properties.TimeZone != "America/Chicago" {
		t.Errorf("TimeZone = %q", meta.Properties.TimeZone)
	}
	if len(meta.Sheets) != 2 || meta.Sheets[0].Properties.Title != "Dec-24" {
		t.Errorf("Sheets = %+v", meta.Sheets)
	}
}

func TestGetValues_CoercesCellTypes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(dtos.ValueRange{
			Range: "Dec-24",
			Values: [][]interface{}{
				{"Date", "Hours Worked", "Verified"},
				{"2024-12-03", 7.5, true},
				{"2024-12-04", nil, "1200"},
			},
		})
	}))
	defer server.Close()

	rows, err := NewClient(server.URL, "tok").GetValues(context.Background(), "ss-1", "Dec-24")
	if err != nil {
		t.Fatal(err)
	}

	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[1][1] != "7.5" {
		t.Errorf("numeric cell = %q, want 7.5", rows[1][1])
	}
	if rows[1][2] != "true" {
		t.Errorf("bool cell = %q, want true", rows[1][2])
	}
	if rows[2][1] != "" {
		t.Errorf("null cell = %q, want empty", rows[2][1])
	}
}

func TestAppendRow(t *testing.T) {
	var gotPath string
	var gotBody dtos.AppendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := NewClient(server.URL, "tok").AppendRow(context.Background(), "ss-1", "Sync Log",
		[]string{"2024-12-03T00:00:00Z", "HYGIENE_FULL_SYNC", "SUCCESS"})
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/spreadsheets/ss-1/values/Sync Log:append" {
		t.Errorf("path = %q", gotPath)
	}
	if len(gotBody.Values) != 1 || len(gotBody.Values[0]) != 3 {
		t.Fatalf("body values = %v", gotBody.Values)
	}
	if gotBody.Values[0][2] != "SUCCESS" {
		t.Errorf("status cell = %v", gotBody.Values[0][2])
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status   int
		wantCode string
	}{
		{http.StatusUnauthorized, constants.ErrCodeInvalidAPIKey},
		{http.StatusForbidden, constants.ErrCodeInvalidAPIKey},
		{http.StatusNotFound, constants.ErrCodeSpreadsheetMissing},
		{http.StatusTooManyRequests, constants.ErrCodeRateLimited},
		{http.StatusInternalServerError, constants.ErrCodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewClient(server.URL, "tok").GetValues(context.Background(), "ss-1", "Dec-24")
			var provErr *ProviderError
			if !errors.As(err, &provErr) {
				t.Fatalf("err = %v, want ProviderError", err)
			}
			if provErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", provErr.Code, tt.wantCode)
			}
		})
	}
}
