package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dental-analytics/sheetbridge/internal/cache"
	"dental-analytics/sheetbridge/internal/config"
	"dental-analytics/sheetbridge/internal/constants"
	"dental-analytics/sheetbridge/internal/db/repositories"
	"dental-analytics/sheetbridge/internal/logging"
)

// Property keys stored per tenant in sync_properties.
const (
	PropEndpointURL          = "endpoint_url"
	PropAPIKey               = "api_key"
	PropDataSourceID         = "data_source_id"
	PropTenantExternalID     = "tenant_external_id"
	PropProviderExternalID   = "provider_external_id"
	PropSpreadsheetHygiene   = "spreadsheet_hygiene"
	PropSpreadsheetFinancial = "spreadsheet_financial"
	PropAuditSpreadsheet     = "spreadsheet_audit"
)

// Mapping lookup dimensions.
const (
	MappingSystemName   = "dental_dashboard"
	EntityTypeClinic    = "clinic"
	EntityTypeProvider  = "provider"
	credentialsCacheTTL = 10 * time.Minute
)

// SyncCredentials is the resolved connection context for one sync run.
// ProviderID may be empty: the run then syncs without provider attribution.
type SyncCredentials struct {
	EndpointURL  string
	APIKey       string
	DataSourceID string
	TenantID     string
	ProviderID   string
}

// ResolutionError carries the config-level failure class for the audit log.
type ResolutionError struct {
	Code string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", constants.GetErrorMessage(e.Code), e.Err)
	}
	return constants.GetErrorMessage(e.Code)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// PropertiesStore is the tenant property lookup the resolver reads from.
type PropertiesStore interface {
	GetAll(ctx context.Context, tenantKey string) (map[string]string, error)
}

// MappingStore translates stable external codes into internal identifiers.
type MappingStore interface {
	Lookup(ctx context.Context, systemName, externalID, entityType string) (string, error)
}

// Resolver turns a tenant key into SyncCredentials, translating stable
// external codes into current database identifiers so that a reseed only
// requires repointing the mapping table.
type Resolver struct {
	props    PropertiesStore
	mappings MappingStore
	cache    *cache.Service
	cfg      config.SyncConfig
}

func NewResolver(
	props PropertiesStore,
	mappings MappingStore,
	c *cache.Service,
	cfg config.SyncConfig,
) *Resolver {
	return &Resolver{props: props, mappings: mappings, cache: c, cfg: cfg}
}

func credentialsCacheKey(tenantKey string) string {
	return "sync_credentials:" + tenantKey
}

// Resolve builds SyncCredentials for one tenant. Read-only; results are
// cached for the credential TTL so repeated triggers avoid store round trips.
func (r *Resolver) Resolve(ctx context.Context, tenantKey string) (*SyncCredentials, error) {
	val, err := r.cache.GetOrSet(credentialsCacheKey(tenantKey), credentialsCacheTTL, func() (any, error) {
		return r.resolve(ctx, tenantKey)
	})
	if err != nil {
		return nil, err
	}

	creds, ok := val.(*SyncCredentials)
	if !ok {
		return nil, errors.New("cache type assertion to *SyncCredentials failed")
	}
	return creds, nil
}

func (r *Resolver) resolve(ctx context.Context, tenantKey string) (*SyncCredentials, error) {
	props, err := r.props.GetAll(ctx, tenantKey)
	if err != nil {
		return nil, &ResolutionError{Code: constants.ErrCodeConnectionRefused, Err: err}
	}

	endpoint := props[PropEndpointURL]
	if r.cfg.DashboardAPIURL != "" {
		endpoint = r.cfg.DashboardAPIURL
	}

	apiKey := props[PropAPIKey]
	if endpoint == "" || apiKey == "" {
		return nil, &ResolutionError{
			Code: constants.ErrCodeMissingConfig,
			Err:  fmt.Errorf("tenant %q is missing endpoint_url or api_key", tenantKey),
		}
	}

	tenantExternal := props[PropTenantExternalID]
	if tenantExternal == "" {
		return nil, &ResolutionError{
			Code: constants.ErrCodeMissingConfig,
			Err:  fmt.Errorf("tenant %q has no tenant_external_id configured", tenantKey),
		}
	}

	tenantID, err := r.mappings.Lookup(ctx, MappingSystemName, tenantExternal, EntityTypeClinic)
	if err != nil {
		if errors.Is(err, repositories.ErrMappingNotFound) {
			return nil, &ResolutionError{
				Code: constants.ErrCodeMappingNotFound,
				Err:  fmt.Errorf("clinic code %q", tenantExternal),
			}
		}
		return nil, &ResolutionError{Code: constants.ErrCodeConnectionRefused, Err: err}
	}

	creds := &SyncCredentials{
		EndpointURL:  endpoint,
		APIKey:       apiKey,
		DataSourceID: props[PropDataSourceID],
		TenantID:     tenantID,
	}

	// Provider attribution is optional. A stale or missing provider mapping
	// degrades the run instead of failing it.
	if providerExternal := props[PropProviderExternalID]; providerExternal != "" {
		providerID, err := r.mappings.Lookup(ctx, MappingSystemName, providerExternal, EntityTypeProvider)
		if err != nil {
			logging.Warn("Provider mapping unresolved, syncing without provider attribution",
				"tenant_key", tenantKey,
				"provider_code", providerExternal,
				"error", err.Error(),
			)
		} else {
			creds.ProviderID = providerID
		}
	}

	return creds, nil
}

// SpreadsheetFor returns the configured spreadsheet ID for a sync variant.
func (r *Resolver) SpreadsheetFor(ctx context.Context, tenantKey, variant string) (string, error) {
	props, err := r.props.GetAll(ctx, tenantKey)
	if err != nil {
		return "", &ResolutionError{Code: constants.ErrCodeConnectionRefused, Err: err}
	}

	key := PropSpreadsheetHygiene
	if variant == "financial" {
		key = PropSpreadsheetFinancial
	}

	id := props[key]
	if id == "" {
		return "", &ResolutionError{
			Code: constants.ErrCodeMissingConfig,
			Err:  fmt.Errorf("tenant %q has no %s spreadsheet configured", tenantKey, variant),
		}
	}
	return id, nil
}

// AuditSpreadsheet returns the spreadsheet holding the audit log tab, falling
// back to the variant spreadsheet when none is configured separately.
func (r *Resolver) AuditSpreadsheet(ctx context.Context, tenantKey, variant string) string {
	props, err := r.props.GetAll(ctx, tenantKey)
	if err != nil {
		return ""
	}
	if id := props[PropAuditSpreadsheet]; id != "" {
		return id
	}
	id, _ := r.SpreadsheetFor(ctx, tenantKey, variant)
	return id
}

// Invalidate drops the cached credentials for a tenant after a mapping or
// property update.
func (r *Resolver) Invalidate(tenantKey string) {
	r.cache.Delete(credentialsCacheKey(tenantKey))
}
