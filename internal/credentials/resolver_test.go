package credentials

import (
	"context"
	"errors"
	"testing"
	"time"

	"dental-analytics/sheetbridge/internal/cache"
	"dental-analytics/sheetbridge/internal/config"
	"dental-analytics/sheetbridge/internal/constants"
	"dental-analytics/sheetbridge/internal/db/repositories"
)

type stubProps struct {
	props map[string]string
	err   error
	calls int
}

func (s *stubProps) GetAll(_ context.Context, _ string) (map[string]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.props, nil
}

type stubMappings struct {
	ids map[string]string
}

func (s *stubMappings) Lookup(_ context.Context, _, externalID, entityType string) (string, error) {
	id, ok := s.ids[entityType+":"+externalID]
	if !ok {
		return "", repositories.ErrMappingNotFound
	}
	return id, nil
}

func fullProps() map[string]string {
	return map[string]string{
		PropEndpointURL:        "https://dash.example.com/ingest",
		PropAPIKey:             "key-1",
		PropDataSourceID:       "ds-1",
		PropTenantExternalID:   "CLINIC-7",
		PropProviderExternalID: "PROV-3",
		PropSpreadsheetHygiene: "ss-hyg",
	}
}

func newTestResolver(props *stubProps, mappings *stubMappings) *Resolver {
	return NewResolver(props, mappings, cache.NewService(time.Minute, time.Minute), config.SyncConfig{})
}

func TestResolve_Full(t *testing.T) {
	props := &stubProps{props: fullProps()}
	mappings := &stubMappings{ids: map[string]string{
		EntityTypeClinic + ":CLINIC-7":  "tenant-uuid",
		EntityTypeProvider + ":PROV-3": "provider-uuid",
	}}

	creds, err := newTestResolver(props, mappings).Resolve(context.Background(), "clinic-a")
	if err != nil {
		t.Fatal(err)
	}

	if creds.TenantID != "tenant-uuid" {
		t.Errorf("TenantID = %q, want mapped tenant-uuid", creds.TenantID)
	}
	if creds.ProviderID != "provider-uuid" {
		t.Errorf("ProviderID = %q, want mapped provider-uuid", creds.ProviderID)
	}
	if creds.EndpointURL != "https://dash.example.com/ingest" || creds.APIKey != "key-1" {
		t.Errorf("connection fields = %q/%q", creds.EndpointURL, creds.APIKey)
	}
	if creds.DataSourceID != "ds-1" {
		t.Errorf("DataSourceID = %q", creds.DataSourceID)
	}
}

func TestResolve_MissingConfig(t *testing.T) {
	tests := []struct {
		name   string
		remove string
	}{
		{"no api key", PropAPIKey},
		{"no endpoint", PropEndpointURL},
		{"no tenant code", PropTenantExternalID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fullProps()
			delete(p, tt.remove)

			_, err := newTestResolver(&stubProps{props: p}, &stubMappings{}).Resolve(context.Background(), "clinic-a")

			var resErr *ResolutionError
			if !errors.As(err, &resErr) || resErr.Code != constants.ErrCodeMissingConfig {
				t.Errorf("err = %v, want ResolutionError %s", err, constants.ErrCodeMissingConfig)
			}
		})
	}
}

func TestResolve_TenantMappingNotFound(t *testing.T) {
	props := &stubProps{props: fullProps()}
	// No clinic mapping seeded.
	mappings := &stubMappings{ids: map[string]string{}}

	_, err := newTestResolver(props, mappings).Resolve(context.Background(), "clinic-a")

	var resErr *ResolutionError
	if !errors.As(err, &resErr) || resErr.Code != constants.ErrCodeMappingNotFound {
		t.Errorf("err = %v, want ResolutionError %s", err, constants.ErrCodeMappingNotFound)
	}
}

func TestResolve_ProviderMappingDegrades(t *testing.T) {
	props := &stubProps{props: fullProps()}
	// Clinic resolves, provider code is stale.
	mappings := &stubMappings{ids: map[string]string{
		EntityTypeClinic + ":CLINIC-7": "tenant-uuid",
	}}

	creds, err := newTestResolver(props, mappings).Resolve(context.Background(), "clinic-a")
	if err != nil {
		t.Fatalf("stale provider mapping must not fail resolution: %v", err)
	}
	if creds.ProviderID != "" {
		t.Errorf("ProviderID = %q, want empty", creds.ProviderID)
	}
	if creds.TenantID != "tenant-uuid" {
		t.Errorf("TenantID = %q", creds.TenantID)
	}
}

func TestResolve_CachesUntilInvalidated(t *testing.T) {
	props := &stubProps{props: fullProps()}
	mappings := &stubMappings{ids: map[string]string{
		EntityTypeClinic + ":CLINIC-7": "tenant-uuid",
	}}
	r := newTestResolver(props, mappings)
	ctx := context.Background()

	if _, err := r.Resolve(ctx, "clinic-a"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(ctx, "clinic-a"); err != nil {
		t.Fatal(err)
	}
	if props.calls != 1 {
		t.Errorf("store calls = %d, want 1 (second hit cached)", props.calls)
	}

	r.Invalidate("clinic-a")
	if _, err := r.Resolve(ctx, "clinic-a"); err != nil {
		t.Fatal(err)
	}
	if props.calls != 2 {
		t.Errorf("store calls = %d, want 2 after invalidation", props.calls)
	}
}

func TestResolve_GlobalEndpointOverride(t *testing.T) {
	props := &stubProps{props: fullProps()}
	mappings := &stubMappings{ids: map[string]string{
		EntityTypeClinic + ":CLINIC-7": "tenant-uuid",
	}}
	cfg := config.SyncConfig{DashboardAPIURL: "https://staging.example.com/ingest"}
	r := NewResolver(props, mappings, cache.NewService(time.Minute, time.Minute), cfg)

	creds, err := r.Resolve(context.Background(), "clinic-a")
	if err != nil {
		t.Fatal(err)
	}
	if creds.EndpointURL != cfg.DashboardAPIURL {
		t.Errorf("EndpointURL = %q, want global override", creds.EndpointURL)
	}
}

func TestSpreadsheetFor(t *testing.T) {
	p := fullProps()
	p[PropSpreadsheetFinancial] = "ss-fin"
	r := newTestResolver(&stubProps{props: p}, &stubMappings{})
	ctx := context.Background()

	id, err := r.SpreadsheetFor(ctx, "clinic-a", "hygiene")
	if err != nil || id != "ss-hyg" {
		t.Errorf("hygiene = %q, %v", id, err)
	}
	id, err = r.SpreadsheetFor(ctx, "clinic-a", "financial")
	if err != nil || id != "ss-fin" {
		t.Errorf("financial = %q, %v", id, err)
	}
}

func TestAuditSpreadsheet_FallsBackToVariant(t *testing.T) {
	r := newTestResolver(&stubProps{props: fullProps()}, &stubMappings{})
	ctx := context.Background()

	if id := r.AuditSpreadsheet(ctx, "clinic-a", "hygiene"); id != "ss-hyg" {
		t.Errorf("fallback id = %q, want ss-hyg", id)
	}

	p := fullProps()
	p[PropAuditSpreadsheet] = "ss-audit"
	r = newTestResolver(&stubProps{props: p}, &stubMappings{})
	if id := r.AuditSpreadsheet(ctx, "clinic-a", "hygiene"); id != "ss-audit" {
		t.Errorf("dedicated id = %q, want ss-audit", id)
	}
}
