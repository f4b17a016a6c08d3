package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusDraft     TransactionStatus = "DRAFT"
	StatusPending   TransactionStatus = "PENDING"
	StatusConfirmed TransactionStatus = "CONFIRMED"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusCancelled TransactionStatus = "CANCELLED"
	// StatusReversed marks an original transaction that has been reversed.
	StatusReversed TransactionStatus = "REVERSED"
	// StatusReversal marks a transaction that is itself the reversing
	// counterpart of an original.
	StatusReversal TransactionStatus = "REVERSAL"
)

// DrCr marks a line as a debit or credit for balance validation purposes.
type DrCr string

const (
	Debit  DrCr = "DR"
	Credit DrCr = "CR"
)

// Flip returns the opposite marker. Empty markers stay empty.
func (d DrCr) Flip() DrCr {
	switch d {
	case Debit:
		return Credit
	case Credit:
		return Debit
	default:
		return d
	}
}

// Metadata keys used for reversal linkage.
const (
	MetaReversalOf     = "reversal_of"
	MetaReversalReason = "reversal_reason"
)

// Transaction represents a single immutable business event scoped to one
// organization. Once created, its lines and core fields are never mutated;
// corrections are made exclusively by creating a new REVERSAL transaction
// that references the original.
type Transaction struct {
	TransactionID   string            `json:"transactionID"`
	OrganizationID  string            `json:"organizationID"`
	TransactionType string            `json:"transactionType"`
	SmartCode       string            `json:"smartCode"`
	TransactionDate time.Time         `json:"transactionDate"`
	SourceEntityID  *string           `json:"sourceEntityID,omitempty"`
	TargetEntityID  *string           `json:"targetEntityID,omitempty"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	Status          TransactionStatus `json:"status"`
	BusinessContext Context           `json:"businessContext,omitempty"`
	Metadata        Context           `json:"metadata,omitempty"`
	// Lines is nil when the transaction was read header-only; callers rely
	// on this to distinguish "not loaded" from "empty".
	Lines []TransactionLine `json:"lines,omitempty"`
	AuditFields
}

// ReversalOf returns the original transaction id this transaction reverses,
// or "" when it is not a reversal.
func (t *Transaction) ReversalOf() string {
	return t.Metadata.GetString(MetaReversalOf)
}

// TransactionLine is an ordered component of a transaction. Ordering by
// LineNumber is significant and preserved on read.
type TransactionLine struct {
	LineID        string          `json:"lineID"`
	TransactionID string          `json:"transactionID"`
	LineNumber    int             `json:"lineNumber"`
	LineType      string          `json:"lineType"`
	SmartCode     string          `json:"smartCode"`
	Description   string          `json:"description"`
	EntityID      *string         `json:"entityID,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	LineAmount    decimal.Decimal `json:"lineAmount"`
	// DrCr is set only on lines participating in double-entry balance
	// validation; unmarked lines are excluded from both sums.
	DrCr DrCr `json:"drCr,omitempty"`
}
