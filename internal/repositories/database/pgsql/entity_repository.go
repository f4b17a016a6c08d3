package pgsql

import (
	"context"
	"errors"

	"github.com/heraerp/txn-ledger/internal/apperrors"
	"github.com/heraerp/txn-ledger/internal/core/domain"
	portsrepo "github.com/heraerp/txn-ledger/internal/core/ports/repositories"
	"github.com/heraerp/txn-ledger/internal/models"
	"github.com/heraerp/txn-ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEntityRepository struct {
	BaseRepository
}

// newPgxEntityRepository creates a new repository for business entity data.
func newPgxEntityRepository(pool *pgxpool.Pool) portsrepo.EntityRepositoryFacade {
	return &PgxEntityRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.EntityRepositoryFacade = (*PgxEntityRepository)(nil)

const entityColumns = `
	entity_id, organization_id, entity_type, entity_name, smart_code,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveEntity inserts a new entity row.
func (r *PgxEntityRepository) SaveEntity(ctx context.Context, entity domain.Entity) error {
	modelEntity := mapping.ToModelEntity(entity)
	query := `
		INSERT INTO core_entities (` + entityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelEntity.EntityID,
		modelEntity.OrganizationID,
		modelEntity.EntityType,
		modelEntity.EntityName,
		modelEntity.SmartCode,
		modelEntity.CreatedAt,
		modelEntity.CreatedBy,
		modelEntity.LastUpdatedAt,
		modelEntity.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert entity "+modelEntity.EntityID, err)
	}
	return nil
}

// FindEntityByID retrieves one entity by id.
func (r *PgxEntityRepository) FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	query := `
		SELECT ` + entityColumns + `
		FROM core_entities
		WHERE entity_id = $1;
	`
	var m models.Entity
	err := r.Pool.QueryRow(ctx, query, entityID).Scan(
		&m.EntityID,
		&m.OrganizationID,
		&m.EntityType,
		&m.EntityName,
		&m.SmartCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entity by ID "+entityID, err)
	}

	domainEntity := mapping.ToDomainEntity(m)
	return &domainEntity, nil
}

// FindEntitiesByIDs retrieves the given entities keyed by id. Missing ids are
// absent from the returned map.
func (r *PgxEntityRepository) FindEntitiesByIDs(ctx context.Context, entityIDs []string) (map[string]domain.Entity, error) {
	result := make(map[string]domain.Entity, len(entityIDs))
	if len(entityIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT ` + entityColumns + `
		FROM core_entities
		WHERE entity_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, entityIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entities by IDs", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Entity
		if err := rows.Scan(
			&m.EntityID,
			&m.OrganizationID,
			&m.EntityType,
			&m.EntityName,
			&m.SmartCode,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entity row", err)
		}
		domainEntity := mapping.ToDomainEntity(m)
		result[domainEntity.EntityID] = domainEntity
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entity rows", err)
	}

	return result, nil
}
