package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heraerp/txn-ledger/internal/apperrors"
	"github.com/heraerp/txn-ledger/internal/core/domain"
	portsrepo "github.com/heraerp/txn-ledger/internal/core/ports/repositories"
	portssvc "github.com/heraerp/txn-ledger/internal/core/ports/services"
	"github.com/heraerp/txn-ledger/internal/dto"
	"github.com/heraerp/txn-ledger/internal/middleware"
	"github.com/heraerp/txn-ledger/internal/utils/smartcode"
)

// entityService provides the minimal entity operations the ledger depends on.
type entityService struct {
	entityRepo portsrepo.EntityRepositoryFacade
}

// NewEntityService creates a new EntityService.
func NewEntityService(entityRepo portsrepo.EntityRepositoryFacade) portssvc.EntitySvcFacade {
	return &entityService{entityRepo: entityRepo}
}

var _ portssvc.EntitySvcFacade = (*entityService)(nil)

// CreateEntity registers a new business entity within an organization.
func (s *entityService) CreateEntity(ctx context.Context, organizationID string, req dto.CreateEntityRequest, creatorUserID string) (*domain.Entity, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateOrganizationID(organizationID); err != nil {
		return nil, err
	}
	if err := smartcode.Validate(req.SmartCode); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	now := time.Now().UTC()
	entity := domain.Entity{
		EntityID:       uuid.NewString(),
		OrganizationID: organizationID,
		EntityType:     req.EntityType,
		EntityName:     req.EntityName,
		SmartCode:      req.SmartCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.entityRepo.SaveEntity(ctx, entity); err != nil {
		logger.Error("Failed to save entity", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save entity: %w", err)
	}

	logger.Info("Entity created successfully", slog.String("entity_id", entity.EntityID), slog.String("entity_type", entity.EntityType))
	return &entity, nil
}

// GetEntityByID retrieves one entity scoped to the given organization. A hit
// in a different organization is indistinguishable from a miss.
func (s *entityService) GetEntityByID(ctx context.Context, organizationID, entityID string) (*domain.Entity, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateOrganizationID(organizationID); err != nil {
		return nil, err
	}

	entity, err := s.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entity by ID", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		}
		return nil, err
	}

	if entity.OrganizationID != organizationID {
		logger.Warn("Entity found but belongs to different organization", slog.String("entity_id", entityID))
		return nil, apperrors.ErrNotFound // Obscure existence
	}

	return entity, nil
}
