package services

import (
	"context"

	"github.com/heraerp/txn-ledger/internal/core/domain"
	"github.com/heraerp/txn-ledger/internal/dto"
)

// EntitySvcFacade defines the minimal entity operations the ledger needs:
// registering entities and reading them back within an organization.
type EntitySvcFacade interface {
	CreateEntity(ctx context.Context, organizationID string, req dto.CreateEntityRequest, creatorUserID string) (*domain.Entity, error)
	GetEntityByID(ctx context.Context, organizationID, entityID string) (*domain.Entity, error)
}
