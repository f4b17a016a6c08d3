package mapping

import (
	"github.com/heraerp/txn-ledger/internal/core/domain"
	"github.com/heraerp/txn-ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
// Lines are mapped separately; the model row never carries them.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		OrganizationID:  d.OrganizationID,
		TransactionType: d.TransactionType,
		SmartCode:       d.SmartCode,
		TransactionDate: d.TransactionDate,
		SourceEntityID:  d.SourceEntityID,
		TargetEntityID:  d.TargetEntityID,
		TotalAmount:     d.TotalAmount,
		Status:          models.TransactionStatus(d.Status),
		BusinessContext: d.BusinessContext,
		Metadata:        d.Metadata,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		OrganizationID:  m.OrganizationID,
		TransactionType: m.TransactionType,
		SmartCode:       m.SmartCode,
		TransactionDate: m.TransactionDate,
		SourceEntityID:  m.SourceEntityID,
		TargetEntityID:  m.TargetEntityID,
		TotalAmount:     m.TotalAmount,
		Status:          domain.TransactionStatus(m.Status),
		BusinessContext: domain.Context(m.BusinessContext),
		Metadata:        domain.Context(m.Metadata),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransactionLine converts a domain line to a model line.
func ToModelTransactionLine(d domain.TransactionLine) models.TransactionLine {
	return models.TransactionLine{
		LineID:        d.LineID,
		TransactionID: d.TransactionID,
		LineNumber:    d.LineNumber,
		LineType:      d.LineType,
		SmartCode:     d.SmartCode,
		Description:   d.Description,
		EntityID:      d.EntityID,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		LineAmount:    d.LineAmount,
		DrCr:          string(d.DrCr),
	}
}

// ToDomainTransactionLine converts a model line to a domain line.
func ToDomainTransactionLine(m models.TransactionLine) domain.TransactionLine {
	return domain.TransactionLine{
		LineID:        m.LineID,
		TransactionID: m.TransactionID,
		LineNumber:    m.LineNumber,
		LineType:      m.LineType,
		SmartCode:     m.SmartCode,
		Description:   m.Description,
		EntityID:      m.EntityID,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		LineAmount:    m.LineAmount,
		DrCr:          domain.DrCr(m.DrCr),
	}
}

// ToDomainTransactionLineSlice converts a slice of model lines to domain lines.
func ToDomainTransactionLineSlice(ms []models.TransactionLine) []domain.TransactionLine {
	ds := make([]domain.TransactionLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionLine(m)
	}
	return ds
}
