package dto

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/heraerp/txn-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Wire field names follow the legacy snake_case contract; existing consumers
// of the transaction API match on them.

// EmitLineInput defines one line of a transaction creation request.
type EmitLineInput struct {
	// LineNumber is optional; when omitted the store assigns sequential
	// order following the submitted position.
	LineNumber  *int            `json:"line_number" binding:"omitempty,gt=0"`
	LineType    string          `json:"line_type"`
	SmartCode   string          `json:"smart_code" binding:"required,smartcode"`
	Description string          `json:"description"`
	EntityID    *string         `json:"entity_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineAmount  decimal.Decimal `json:"line_amount"`
	DrCr        string          `json:"dr_cr" binding:"omitempty,oneof=DR CR"`
}

// EmitTransactionRequest defines the payload for creating a transaction.
type EmitTransactionRequest struct {
	TransactionType string          `json:"transaction_type" binding:"required"`
	SmartCode       string          `json:"smart_code" binding:"required,smartcode"`
	TransactionDate time.Time       `json:"transaction_date" binding:"required"`
	SourceEntityID  *string         `json:"source_entity_id"`
	TargetEntityID  *string         `json:"target_entity_id"`
	BusinessContext domain.Context  `json:"business_context"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	RequireBalance  bool            `json:"require_balance"`
	Lines           []EmitLineInput `json:"lines" binding:"dive"`
}

// EmitTransactionResponse carries the id of the newly created transaction.
type EmitTransactionResponse struct {
	TransactionID string `json:"transaction_id"`
}

// TransactionLineResponse defines the data returned for a transaction line.
type TransactionLineResponse struct {
	LineID      string          `json:"line_id"`
	LineNumber  int             `json:"line_number"`
	LineType    string          `json:"line_type"`
	SmartCode   string          `json:"smart_code"`
	Description string          `json:"description,omitempty"`
	EntityID    *string         `json:"entity_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineAmount  decimal.Decimal `json:"line_amount"`
	DrCr        string          `json:"dr_cr,omitempty"`
}

// TransactionResponse defines the data returned for a transaction. Lines is
// omitted entirely on header-only reads so callers can distinguish "not
// loaded" from "empty".
type TransactionResponse struct {
	TransactionID   string                    `json:"transaction_id"`
	OrganizationID  string                    `json:"organization_id"`
	TransactionType string                    `json:"transaction_type"`
	SmartCode       string                    `json:"smart_code"`
	TransactionDate time.Time                 `json:"transaction_date"`
	SourceEntityID  *string                   `json:"source_entity_id,omitempty"`
	TargetEntityID  *string                   `json:"target_entity_id,omitempty"`
	TotalAmount     decimal.Decimal           `json:"total_amount"`
	Status          string                    `json:"status"`
	BusinessContext domain.Context            `json:"business_context,omitempty"`
	Metadata        domain.Context            `json:"metadata,omitempty"`
	Lines           []TransactionLineResponse `json:"lines,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// MarshalJSON omits the lines field only when lines were not loaded. A loaded
// transaction with zero lines serializes them as an empty array, keeping
// header-only and empty reads distinguishable on the wire.
func (r TransactionResponse) MarshalJSON() ([]byte, error) {
	type alias TransactionResponse
	if r.Lines == nil {
		return json.Marshal(alias(r))
	}
	return json.Marshal(struct {
		alias
		Lines []TransactionLineResponse `json:"lines"`
	}{alias: alias(r), Lines: r.Lines})
}

// QueryTransactionsParams holds the AND-combined filters for the query
// operation. Dates are bound from RFC 3339 query parameters.
type QueryTransactionsParams struct {
	SourceEntityID  *string    `form:"source_entity_id"`
	TargetEntityID  *string    `form:"target_entity_id"`
	TransactionType *string    `form:"transaction_type"`
	SmartCodeLike   *string    `form:"smart_code_like"`
	DateFrom        *time.Time `form:"date_from" time_format:"2006-01-02T15:04:05Z07:00"`
	DateTo          *time.Time `form:"date_to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit           int        `form:"limit"`
	Offset          int        `form:"offset"`
	IncludeLines    bool       `form:"include_lines"`
}

// QueryTransactionsResponse carries one page of matches plus the total number
// of matching transactions for pagination.
type QueryTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// ReverseTransactionRequest defines the payload for reversing a transaction.
type ReverseTransactionRequest struct {
	SmartCode string `json:"smart_code" binding:"required,smartcode"`
	Reason    string `json:"reason" binding:"required"`
}

// ReverseTransactionResponse echoes the linkage created by a reversal.
type ReverseTransactionResponse struct {
	ReversalTransactionID string `json:"reversal_transaction_id"`
	OriginalTransactionID string `json:"original_transaction_id"`
	LinesReversed         int    `json:"lines_reversed"`
	ReversalReason        string `json:"reversal_reason"`
}

// ToTransactionLineResponse converts a domain line to its response DTO.
func ToTransactionLineResponse(l *domain.TransactionLine) TransactionLineResponse {
	return TransactionLineResponse{
		LineID:      l.LineID,
		LineNumber:  l.LineNumber,
		LineType:    l.LineType,
		SmartCode:   l.SmartCode,
		Description: l.Description,
		EntityID:    l.EntityID,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		LineAmount:  l.LineAmount,
		DrCr:        string(l.DrCr),
	}
}

// ToTransactionResponse converts a domain transaction to its response DTO.
// txn.Lines == nil yields a response without a lines field.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:   txn.TransactionID,
		OrganizationID:  txn.OrganizationID,
		TransactionType: txn.TransactionType,
		SmartCode:       txn.SmartCode,
		TransactionDate: txn.TransactionDate,
		SourceEntityID:  txn.SourceEntityID,
		TargetEntityID:  txn.TargetEntityID,
		TotalAmount:     txn.TotalAmount,
		Status:          string(txn.Status),
		BusinessContext: txn.BusinessContext,
		Metadata:        txn.Metadata,
		CreatedAt:       txn.CreatedAt,
		UpdatedAt:       txn.LastUpdatedAt,
	}
	if txn.Lines != nil {
		resp.Lines = make([]TransactionLineResponse, len(txn.Lines))
		for i := range txn.Lines {
			resp.Lines[i] = ToTransactionLineResponse(&txn.Lines[i])
		}
		// Callers rely on ascending line order regardless of how the store
		// returned the rows.
		sort.SliceStable(resp.Lines, func(i, j int) bool {
			return resp.Lines[i].LineNumber < resp.Lines[j].LineNumber
		})
	}
	return resp
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
