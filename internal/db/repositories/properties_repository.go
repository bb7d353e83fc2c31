package repositories

import (
	"context"

	"dental-analytics/sheetbridge/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

type PropertiesRepository struct {
	db *sqlx.DB
}

func NewPropertiesRepository(db *sqlx.DB) *PropertiesRepository {
	return &PropertiesRepository{db: db}
}

// GetAll returns every property for one tenant as a key/value map.
func (r *PropertiesRepository) GetAll(ctx context.Context, tenantKey string) (map[string]string, error) {
	const query = `
		SELECT id, tenant_key, key, value, updated_at
		FROM sync_properties
		WHERE tenant_key = $1
	`

	var rows []entities.SyncProperty
	if err := r.db.SelectContext(ctx, &rows, query, tenantKey); err != nil {
		return nil, err
	}

	props := make(map[string]string, len(rows))
	for _, row := range rows {
		props[row.Key] = row.Value
	}
	return props, nil
}

// ListTenants returns every tenant key with configured sync properties.
func (r *PropertiesRepository) ListTenants(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT tenant_key FROM sync_properties ORDER BY tenant_key`

	var keys []string
	if err := r.db.SelectContext(ctx, &keys, query); err != nil {
		return nil, err
	}
	return keys, nil
}

// Upsert writes one property value, used by the provisioning CLI path.
func (r *PropertiesRepository) Upsert(ctx context.Context, prop *entities.SyncProperty) error {
	const query = `
		INSERT INTO sync_properties (tenant_key, key, value, updated_at)
		VALUES (:tenant_key, :key, :value, now())
		ON CONFLICT (tenant_key, key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = now()
	`

	_, err := r.db.NamedExecContext(ctx, query, prop)
	return err
}
