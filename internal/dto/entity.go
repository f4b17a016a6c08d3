package dto

import (
	"time"

	"github.com/heraerp/txn-ledger/internal/core/domain"
)

// CreateEntityRequest defines the data needed to register a business entity.
type CreateEntityRequest struct {
	EntityType string `json:"entity_type" binding:"required"`
	EntityName string `json:"entity_name" binding:"required"`
	SmartCode  string `json:"smart_code" binding:"required,smartcode"`
}

// EntityResponse defines the data returned for an entity.
type EntityResponse struct {
	EntityID       string    `json:"entity_id"`
	OrganizationID string    `json:"organization_id"`
	EntityType     string    `json:"entity_type"`
	EntityName     string    `json:"entity_name"`
	SmartCode      string    `json:"smart_code"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToEntityResponse converts a domain.Entity to its response DTO.
func ToEntityResponse(e *domain.Entity) EntityResponse {
	return EntityResponse{
		EntityID:       e.EntityID,
		OrganizationID: e.OrganizationID,
		EntityType:     e.EntityType,
		EntityName:     e.EntityName,
		SmartCode:      e.SmartCode,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.LastUpdatedAt,
	}
}
