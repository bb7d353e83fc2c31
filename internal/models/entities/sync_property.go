package entities

import "time"

// SyncProperty is one tenant-scoped configuration value, keyed the way the
// original property store was (endpoint_url, api_key, spreadsheet IDs, ...).
type SyncProperty struct {
	ID        string    `db:"id"`
	TenantKey string    `db:"tenant_key"` // stable external tenant code
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ExternalIDMapping translates a stable human-assigned code into the current
// internal database identifier. Operators update this table after a reseed
// and every dependent sync self-heals.
type ExternalIDMapping struct {
	ID         string    `db:"id"`
	SystemName string    `db:"system_name"`
	ExternalID string    `db:"external_id"`
	EntityType string    `db:"entity_type"`
	InternalID string    `db:"internal_id"`
	CreatedAt  time.Time `db:"created_at"`
}
