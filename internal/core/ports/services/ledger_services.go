package services

import (
	"context"

	"github.com/heraerp/txn-ledger/internal/core/domain"
	"github.com/heraerp/txn-ledger/internal/dto"
)

// LedgerReaderSvc defines read operations over the transaction ledger.
type LedgerReaderSvc interface {
	// GetTransactionByID retrieves one transaction. With includeLines set,
	// lines come back ascending by line number; without it the lines field
	// is absent, not merely unpopulated.
	GetTransactionByID(ctx context.Context, organizationID, transactionID string, includeLines bool) (*domain.Transaction, error)

	// QueryTransactions returns a page of transactions matching the
	// AND-combined filters, with total count semantics for pagination.
	QueryTransactions(ctx context.Context, organizationID string, params dto.QueryTransactionsParams) (*dto.QueryTransactionsResponse, error)
}

// LedgerWriterSvc defines the append-only write operations.
type LedgerWriterSvc interface {
	// EmitTransaction validates and persists a new transaction with its
	// lines as one atomic creation.
	EmitTransaction(ctx context.Context, organizationID string, req dto.EmitTransactionRequest, creatorUserID string) (*domain.Transaction, error)

	// ReverseTransaction creates the reversing counterpart of an existing
	// transaction and marks the original as reversed.
	ReverseTransaction(ctx context.Context, organizationID, transactionID string, req dto.ReverseTransactionRequest, userID string) (*dto.ReverseTransactionResponse, error)
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
