package mapping

import (
	"github.com/heraerp/txn-ledger/internal/core/domain"
	"github.com/heraerp/txn-ledger/internal/models"
)

// ToModelEntity converts a domain Entity to a model Entity.
func ToModelEntity(d domain.Entity) models.Entity {
	return models.Entity{
		EntityID:       d.EntityID,
		OrganizationID: d.OrganizationID,
		EntityType:     d.EntityType,
		EntityName:     d.EntityName,
		SmartCode:      d.SmartCode,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntity converts a model Entity to a domain Entity.
func ToDomainEntity(m models.Entity) domain.Entity {
	return domain.Entity{
		EntityID:       m.EntityID,
		OrganizationID: m.OrganizationID,
		EntityType:     m.EntityType,
		EntityName:     m.EntityName,
		SmartCode:      m.SmartCode,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
