package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heraerp/txn-ledger/internal/apperrors"
	"github.com/heraerp/txn-ledger/internal/core/domain"
	portsrepo "github.com/heraerp/txn-ledger/internal/core/ports/repositories"
	portssvc "github.com/heraerp/txn-ledger/internal/core/ports/services"
	"github.com/heraerp/txn-ledger/internal/dto"
	"github.com/heraerp/txn-ledger/internal/middleware"
	"github.com/heraerp/txn-ledger/internal/utils/accounting"
	"github.com/heraerp/txn-ledger/internal/utils/smartcode"
)

var (
	ErrReasonMissing      = errors.New("reversal reason is required and must be non-empty")
	ErrDuplicateLineNo    = errors.New("duplicate line_number within one transaction")
	ErrInvalidDateRange   = errors.New("date_from must not be after date_to")
	ErrAlreadyReversed    = errors.New("transaction has already been reversed")
	ErrReversalOfReversal = errors.New("cannot reverse a transaction that is itself a reversal")
)

const (
	defaultQueryLimit = 50
	maxQueryLimit     = 500
)

// ledgerService provides the transaction lifecycle operations: emit, read,
// query and reverse. The ledger is append-only; the only correction
// mechanism is a reversal.
type ledgerService struct {
	txnRepo    portsrepo.TransactionRepositoryFacade
	entityRepo portsrepo.EntityReaderRepo

	balanceTolerance       decimal.Decimal
	allowMultipleReversals bool
}

// LedgerOption configures optional ledger service behavior.
type LedgerOption func(*ledgerService)

// WithBalanceTolerance overrides the default tolerance used by the
// require_balance gate.
func WithBalanceTolerance(tolerance decimal.Decimal) LedgerOption {
	return func(s *ledgerService) {
		s.balanceTolerance = tolerance
	}
}

// WithMultipleReversals permits reversing a transaction that is already
// reversed (or is itself a reversal).
func WithMultipleReversals(allow bool) LedgerOption {
	return func(s *ledgerService) {
		s.allowMultipleReversals = allow
	}
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(txnRepo portsrepo.TransactionRepositoryFacade, entityRepo portsrepo.EntityReaderRepo, opts ...LedgerOption) portssvc.LedgerSvcFacade {
	s := &ledgerService{
		txnRepo:          txnRepo,
		entityRepo:       entityRepo,
		balanceTolerance: accounting.DefaultTolerance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func validateOrganizationID(organizationID string) error {
	if _, err := uuid.Parse(organizationID); err != nil {
		return fmt.Errorf("%w: organization_id must be a UUID", apperrors.ErrValidation)
	}
	return nil
}

// EmitTransaction validates and persists a new transaction with its lines as
// one atomic creation. Implements portssvc.LedgerWriterSvc.
func (s *ledgerService) EmitTransaction(ctx context.Context, organizationID string, req dto.EmitTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateOrganizationID(organizationID); err != nil {
		return nil, err
	}
	if err := smartcode.Validate(req.SmartCode); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if req.TransactionType == "" {
		return nil, fmt.Errorf("%w: transaction_type is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	transactionID := uuid.NewString()

	// Prepare domain lines. Omitted line numbers are assigned from the
	// submission position; duplicates within one transaction are rejected.
	domainLines := make([]domain.TransactionLine, len(req.Lines))
	seenLineNumbers := make(map[int]bool, len(req.Lines))
	for i, lineReq := range req.Lines {
		if err := smartcode.Validate(lineReq.SmartCode); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", apperrors.ErrValidation, i+1, err.Error())
		}

		lineNumber := i + 1
		if lineReq.LineNumber != nil {
			lineNumber = *lineReq.LineNumber
		}
		if seenLineNumbers[lineNumber] {
			return nil, fmt.Errorf("%w: line_number %d: %s", apperrors.ErrValidation, lineNumber, ErrDuplicateLineNo.Error())
		}
		seenLineNumbers[lineNumber] = true

		domainLines[i] = domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: transactionID,
			LineNumber:    lineNumber,
			LineType:      lineReq.LineType,
			SmartCode:     lineReq.SmartCode,
			Description:   lineReq.Description,
			EntityID:      lineReq.EntityID,
			Quantity:      lineReq.Quantity,
			UnitPrice:     lineReq.UnitPrice,
			LineAmount:    lineReq.LineAmount,
			DrCr:          domain.DrCr(lineReq.DrCr),
		}
	}

	// Every referenced entity must exist and belong to the transaction's
	// organization. Cross-organization references are a hard error.
	if err := s.validateEntityReferences(ctx, organizationID, req, domainLines); err != nil {
		logger.Warn("Entity reference validation failed", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}

	// Financial integrity gate, opt-in per request.
	if req.RequireBalance {
		if err := accounting.ValidateBalance(domainLines, s.balanceTolerance); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrImbalanced, err.Error())
		}
	}

	// The declared total wins; when absent it is computed from the lines.
	totalAmount := req.TotalAmount
	if totalAmount.IsZero() {
		for _, line := range domainLines {
			totalAmount = totalAmount.Add(line.LineAmount)
		}
	}

	domainTxn := domain.Transaction{
		TransactionID:   transactionID,
		OrganizationID:  organizationID,
		TransactionType: req.TransactionType,
		SmartCode:       req.SmartCode,
		TransactionDate: req.TransactionDate,
		SourceEntityID:  req.SourceEntityID,
		TargetEntityID:  req.TargetEntityID,
		TotalAmount:     totalAmount,
		Status:          domain.StatusCompleted,
		BusinessContext: req.BusinessContext,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, domainTxn, domainLines); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction emitted successfully",
		slog.String("transaction_id", transactionID),
		slog.String("smart_code", req.SmartCode),
		slog.Int("line_count", len(domainLines)))

	// Lines are fetched separately on read; the emit response carries the
	// header only.
	domainTxn.Lines = nil
	return &domainTxn, nil
}

// validateEntityReferences checks source, target and per-line entity ids
// against the entity store.
func (s *ledgerService) validateEntityReferences(ctx context.Context, organizationID string, req dto.EmitTransactionRequest, lines []domain.TransactionLine) error {
	entityIDs := make([]string, 0, len(lines)+2)
	if req.SourceEntityID != nil {
		entityIDs = append(entityIDs, *req.SourceEntityID)
	}
	if req.TargetEntityID != nil {
		entityIDs = append(entityIDs, *req.TargetEntityID)
	}
	for _, line := range lines {
		if line.EntityID != nil {
			entityIDs = append(entityIDs, *line.EntityID)
		}
	}
	if len(entityIDs) == 0 {
		return nil
	}

	uniqueIDs := uniqueStrings(entityIDs)
	entitiesMap, err := s.entityRepo.FindEntitiesByIDs(ctx, uniqueIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch referenced entities: %w", err)
	}

	for _, id := range uniqueIDs {
		entity, found := entitiesMap[id]
		if !found {
			return apperrors.NewNotFoundError("referenced entity " + id + " not found")
		}
		if entity.OrganizationID != organizationID {
			return fmt.Errorf("%w: entity %s", apperrors.ErrOrgMismatch, id)
		}
	}
	return nil
}

// GetTransactionByID retrieves one transaction. Implements
// portssvc.LedgerReaderSvc.
func (s *ledgerService) GetTransactionByID(ctx context.Context, organizationID, transactionID string, includeLines bool) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateOrganizationID(organizationID); err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, organizationID, transactionID, includeLines)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find transaction by ID", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	logger.Debug("Transaction retrieved successfully", slog.String("transaction_id", transactionID), slog.Bool("include_lines", includeLines))
	return txn, nil
}

// QueryTransactions returns a page of transactions matching the AND-combined
// filters. Implements portssvc.LedgerReaderSvc.
func (s *ledgerService) QueryTransactions(ctx context.Context, organizationID string, params dto.QueryTransactionsParams) (*dto.QueryTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateOrganizationID(organizationID); err != nil {
		return nil, err
	}
	if params.DateFrom != nil && params.DateTo != nil && params.DateFrom.After(*params.DateTo) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrInvalidDateRange.Error())
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	filter := portsrepo.TransactionFilter{
		SourceEntityID:  params.SourceEntityID,
		TargetEntityID:  params.TargetEntityID,
		TransactionType: params.TransactionType,
		SmartCodeLike:   params.SmartCodeLike,
		DateFrom:        params.DateFrom,
		DateTo:          params.DateTo,
		Limit:           limit,
		Offset:          offset,
		IncludeLines:    params.IncludeLines,
	}

	transactions, total, err := s.txnRepo.QueryTransactions(ctx, organizationID, filter)
	if err != nil {
		logger.Error("Failed to query transactions", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	resp := &dto.QueryTransactionsResponse{
		Transactions: dto.ToTransactionResponses(transactions),
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}

	logger.Info("Transactions queried successfully", slog.Int("count", len(transactions)), slog.Int64("total", total))
	return resp, nil
}

// ReverseTransaction creates the reversing counterpart of an existing
// transaction: line amounts negated, DR/CR flipped, line smart codes derived
// with the REVERSE segment, and the original marked REVERSED in the same
// store transaction. Implements portssvc.LedgerWriterSvc.
func (s *ledgerService) ReverseTransaction(ctx context.Context, organizationID, transactionID string, req dto.ReverseTransactionRequest, userID string) (*dto.ReverseTransactionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateOrganizationID(organizationID); err != nil {
		return nil, err
	}
	if err := smartcode.Validate(req.SmartCode); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrReasonMissing.Error())
	}

	// Never create an orphaned reversal: load the original first; a
	// cross-organization id fails exactly like a nonexistent one.
	original, err := s.txnRepo.FindTransactionByID(ctx, organizationID, transactionID, true)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Original transaction not found for reversal", slog.String("transaction_id", transactionID))
			return nil, err
		}
		logger.Error("Failed to fetch original transaction for reversal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve original transaction: %w", err)
	}

	if !s.allowMultipleReversals {
		if original.Status == domain.StatusReversed {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrAlreadyReversed.Error())
		}
		if original.Status == domain.StatusReversal {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrReversalOfReversal.Error())
		}
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()

	// Lines are the structural negation of the original's lines, with the
	// original line_number sequence preserved.
	reversalLines := make([]domain.TransactionLine, len(original.Lines))
	for i, origLine := range original.Lines {
		lineSmartCode, deriveErr := smartcode.DeriveReversal(origLine.SmartCode)
		if deriveErr != nil {
			lineSmartCode = req.SmartCode
		}
		description := "REVERSAL: " + origLine.Description
		if origLine.Description == "" {
			description = "REVERSAL of line " + origLine.LineID
		}
		reversalLines[i] = domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: reversalID,
			LineNumber:    origLine.LineNumber,
			LineType:      origLine.LineType,
			SmartCode:     lineSmartCode,
			Description:   description,
			EntityID:      origLine.EntityID,
			Quantity:      origLine.Quantity,
			UnitPrice:     origLine.UnitPrice,
			LineAmount:    origLine.LineAmount.Neg(),
			DrCr:          origLine.DrCr.Flip(),
		}
	}

	reversal := domain.Transaction{
		TransactionID:   reversalID,
		OrganizationID:  organizationID,
		TransactionType: original.TransactionType,
		SmartCode:       req.SmartCode,
		TransactionDate: now,
		SourceEntityID:  original.SourceEntityID,
		TargetEntityID:  original.TargetEntityID,
		TotalAmount:     original.TotalAmount.Neg(),
		Status:          domain.StatusReversal,
		BusinessContext: original.BusinessContext.Clone(),
		Metadata: domain.Context{
			domain.MetaReversalOf:     original.TransactionID,
			domain.MetaReversalReason: reason,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.txnRepo.SaveReversal(ctx, reversal, reversalLines, original.TransactionID, userID, now); err != nil {
		logger.Error("Failed to save reversal", slog.String("error", err.Error()), slog.String("original_transaction_id", original.TransactionID))
		return nil, fmt.Errorf("failed to save reversal: %w", err)
	}

	logger.Info("Transaction reversed successfully",
		slog.String("reversal_transaction_id", reversalID),
		slog.String("original_transaction_id", original.TransactionID),
		slog.Int("lines_reversed", len(reversalLines)))

	return &dto.ReverseTransactionResponse{
		ReversalTransactionID: reversalID,
		OriginalTransactionID: original.TransactionID,
		LinesReversed:         len(reversalLines),
		ReversalReason:        reason,
	}, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
