package ledger

import (
	"github.com/heraerp/txn-ledger/internal/apperrors"
	"github.com/heraerp/txn-ledger/internal/dto"
)

// Wire types shared with the server, aliased so SDK consumers can construct
// them without reaching into internal packages.
type (
	EmitLineInput              = dto.EmitLineInput
	EmitTransactionRequest     = dto.EmitTransactionRequest
	TransactionResponse        = dto.TransactionResponse
	TransactionLineResponse    = dto.TransactionLineResponse
	QueryTransactionsParams    = dto.QueryTransactionsParams
	QueryTransactionsResponse  = dto.QueryTransactionsResponse
	ReverseTransactionRequest  = dto.ReverseTransactionRequest
	ReverseTransactionResponse = dto.ReverseTransactionResponse
)

// Sentinel errors surfaced by the client; test with errors.Is.
var (
	ErrNotFound    = apperrors.ErrNotFound
	ErrValidation  = apperrors.ErrValidation
	ErrOrgMismatch = apperrors.ErrOrgMismatch
	ErrImbalanced  = apperrors.ErrImbalanced
	ErrConflict    = apperrors.ErrConflict
)
