package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the lifecycle state of a transaction row.
type TransactionStatus string

const (
	Draft     TransactionStatus = "DRAFT"
	Pending   TransactionStatus = "PENDING"
	Confirmed TransactionStatus = "CONFIRMED"
	Completed TransactionStatus = "COMPLETED"
	Cancelled TransactionStatus = "CANCELLED"
	Reversed  TransactionStatus = "REVERSED"
	Reversal  TransactionStatus = "REVERSAL"
)

// Transaction mirrors a row in universal_transactions.
// business_context and metadata are stored as JSONB.
type Transaction struct {
	TransactionID   string                 `json:"transactionID"`
	OrganizationID  string                 `json:"organizationID"`
	TransactionType string                 `json:"transactionType"`
	SmartCode       string                 `json:"smartCode"`
	TransactionDate time.Time              `json:"transactionDate"`
	SourceEntityID  *string                `json:"sourceEntityID"`
	TargetEntityID  *string                `json:"targetEntityID"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	Status          TransactionStatus      `json:"status"`
	BusinessContext map[string]interface{} `json:"businessContext"`
	Metadata        map[string]interface{} `json:"metadata"`
	AuditFields
}

// TransactionLine mirrors a row in universal_transaction_lines.
type TransactionLine struct {
	LineID        string          `json:"lineID"`
	TransactionID string          `json:"transactionID"`
	LineNumber    int             `json:"lineNumber"`
	LineType      string          `json:"lineType"`
	SmartCode     string          `json:"smartCode"`
	Description   string          `json:"description"`
	EntityID      *string         `json:"entityID"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	LineAmount    decimal.Decimal `json:"lineAmount"`
	DrCr          string          `json:"drCr"` // "DR", "CR" or empty
}
