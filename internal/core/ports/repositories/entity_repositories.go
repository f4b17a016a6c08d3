package repositories

import (
	"context"

	"github.com/heraerp/txn-ledger/internal/core/domain"
)

// EntityReaderRepo defines read operations for business entities.
type EntityReaderRepo interface {
	// FindEntityByID retrieves one entity regardless of organization; the
	// caller decides how to treat cross-organization hits.
	FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error)

	// FindEntitiesByIDs retrieves the given entities keyed by id. Missing
	// ids are simply absent from the map.
	FindEntitiesByIDs(ctx context.Context, entityIDs []string) (map[string]domain.Entity, error)
}

// EntityWriterRepo defines write operations for business entities.
type EntityWriterRepo interface {
	SaveEntity(ctx context.Context, entity domain.Entity) error
}

// EntityRepositoryFacade combines all entity repository interfaces.
type EntityRepositoryFacade interface {
	EntityReaderRepo
	EntityWriterRepo
}
