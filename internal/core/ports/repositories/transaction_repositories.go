package repositories

import (
	"context"
	"time"

	"github.com/heraerp/txn-ledger/internal/core/domain"
)

// TransactionFilter holds the AND-combined predicates for querying
// transactions within one organization.
type TransactionFilter struct {
	SourceEntityID  *string
	TargetEntityID  *string
	TransactionType *string
	// SmartCodeLike is a substring containment test, not a regex.
	SmartCodeLike *string
	DateFrom      *time.Time
	DateTo        *time.Time
	Limit         int
	Offset        int
	IncludeLines  bool
}

// TransactionReaderRepo defines read operations for transaction data.
type TransactionReaderRepo interface {
	// FindTransactionByID retrieves one transaction scoped to the given
	// organization. Lines are loaded ascending by line number when
	// includeLines is set; otherwise the Lines field is left nil.
	// A transaction belonging to a different organization is reported as
	// apperrors.ErrNotFound.
	FindTransactionByID(ctx context.Context, organizationID, transactionID string, includeLines bool) (*domain.Transaction, error)

	// QueryTransactions returns one page of matches plus the total number
	// of matching transactions.
	QueryTransactions(ctx context.Context, organizationID string, filter TransactionFilter) ([]domain.Transaction, int64, error)
}

// TransactionWriterRepo defines write operations for transaction data. The
// store is append-only: there is no update or delete.
type TransactionWriterRepo interface {
	// SaveTransaction persists a transaction and its lines atomically.
	SaveTransaction(ctx context.Context, txn domain.Transaction, lines []domain.TransactionLine) error

	// SaveReversal persists the reversal transaction with its lines and
	// marks the original as REVERSED, all within one database transaction.
	SaveReversal(ctx context.Context, reversal domain.Transaction, lines []domain.TransactionLine, originalTransactionID string, updatedBy string, updatedAt time.Time) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReaderRepo
	TransactionWriterRepo
}
