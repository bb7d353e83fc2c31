package repositories

import (
	"context"
	"database/sql"
	"errors"

	"dental-analytics/sheetbridge/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// ErrMappingNotFound is returned when no row matches the lookup key.
var ErrMappingNotFound = errors.New("external identifier mapping not found")

type MappingRepository struct {
	db *sqlx.DB
}

func NewMappingRepository(db *sqlx.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

// Lookup translates a stable external code into the current internal ID.
func (r *MappingRepository) Lookup(ctx context.Context, systemName, externalID, entityType string) (string, error) {
	const query = `
		SELECT internal_id
		FROM external_id_mappings
		WHERE system_name = $1 AND external_id = $2 AND entity_type = $3
	`

	var internalID string
	err := r.db.GetContext(ctx, &internalID, query, systemName, externalID, entityType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMappingNotFound
		}
		return "", err
	}
	return internalID, nil
}

// Upsert registers or repoints a mapping, used after a database reseed.
func (r *MappingRepository) Upsert(ctx context.Context, m *entities.ExternalIDMapping) error {
	const query = `
		INSERT INTO external_id_mappings (system_name, external_id, entity_type, internal_id)
		VALUES (:system_name, :external_id, :entity_type, :internal_id)
		ON CONFLICT (system_name, external_id, entity_type) DO UPDATE
		SET internal_id = EXCLUDED.internal_id
	`

	_, err := r.db.NamedExecContext(ctx, query, m)
	return err
}
