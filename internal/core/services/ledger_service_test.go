package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/heraerp/txn-ledger/internal/apperrors"
	"github.com/heraerp/txn-ledger/internal/core/domain"
	portsrepo "github.com/heraerp/txn-ledger/internal/core/ports/repositories"
	portssvc "github.com/heraerp/txn-ledger/internal/core/ports/services"
	"github.com/heraerp/txn-ledger/internal/core/services"
	"github.com/heraerp/txn-ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

// Ensure MockTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, organizationID, transactionID string, includeLines bool) (*domain.Transaction, error) {
	args := m.Called(ctx, organizationID, transactionID, includeLines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) QueryTransactions(ctx context.Context, organizationID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, lines []domain.TransactionLine) error {
	args := m.Called(ctx, txn, lines)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveReversal(ctx context.Context, reversal domain.Transaction, lines []domain.TransactionLine, originalTransactionID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, reversal, lines, originalTransactionID, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock EntityRepository ---
type MockEntityRepository struct {
	mock.Mock
}

var _ portsrepo.EntityRepositoryFacade = (*MockEntityRepository)(nil)

func (m *MockEntityRepository) FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entity), args.Error(1)
}

func (m *MockEntityRepository) FindEntitiesByIDs(ctx context.Context, entityIDs []string) (map[string]domain.Entity, error) {
	args := m.Called(ctx, entityIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Entity), args.Error(1)
}

func (m *MockEntityRepository) SaveEntity(ctx context.Context, entity domain.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockTxnRepo    *MockTransactionRepository
	mockEntityRepo *MockEntityRepository
	service        portssvc.LedgerSvcFacade
	organizationID string
	userID         string
	customer       domain.Entity
	supplier       domain.Entity
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockEntityRepo = new(MockEntityRepository)
	suite.service = services.NewLedgerService(suite.mockTxnRepo, suite.mockEntityRepo)

	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.customer = domain.Entity{
		EntityID:       uuid.NewString(),
		OrganizationID: suite.organizationID,
		EntityType:     "customer",
		EntityName:     "Mario's Restaurant",
		SmartCode:      "HERA.REST.CRM.CUST.PROF.V1",
	}
	suite.supplier = domain.Entity{
		EntityID:       uuid.NewString(),
		OrganizationID: suite.organizationID,
		EntityType:     "supplier",
		EntityName:     "Fresh Produce Co",
		SmartCode:      "HERA.REST.SCM.SUPP.PROF.V1",
	}
}

func (suite *LedgerServiceTestSuite) emitRequest() dto.EmitTransactionRequest {
	return dto.EmitTransactionRequest{
		TransactionType: "sale",
		SmartCode:       "HERA.REST.SALE.ORDER.CORE.V1",
		TransactionDate: time.Now().UTC(),
		SourceEntityID:  &suite.customer.EntityID,
		Lines: []dto.EmitLineInput{
			{SmartCode: "HERA.REST.SALE.LINE.ITEM.V1", LineAmount: decimal.NewFromInt(100), DrCr: "DR"},
			{SmartCode: "HERA.REST.SALE.LINE.ITEM.V1", LineAmount: decimal.NewFromInt(100), DrCr: "CR"},
		},
	}
}

// --- Emit ---

func (suite *LedgerServiceTestSuite) TestEmitTransaction_Success() {
	ctx := context.Background()
	req := suite.emitRequest()

	entitiesMap := map[string]domain.Entity{suite.customer.EntityID: suite.customer}
	suite.mockEntityRepo.On("FindEntitiesByIDs", ctx, []string{suite.customer.EntityID}).Return(entitiesMap, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("[]domain.TransactionLine")).Return(nil).Once()

	txn, err := suite.service.EmitTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(suite.organizationID, txn.OrganizationID)
	suite.Equal(domain.StatusCompleted, txn.Status)
	suite.Equal(suite.userID, txn.CreatedBy)
	suite.Nil(txn.Lines) // Emit returns the header only

	suite.mockEntityRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestEmitTransaction_AssignsLineNumbersFromPosition() {
	ctx := context.Background()
	req := suite.emitRequest()
	req.SourceEntityID = nil

	var savedLines []domain.TransactionLine
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("[]domain.TransactionLine")).
		Run(func(args mock.Arguments) {
			savedLines = args.Get(2).([]domain.TransactionLine)
		}).Return(nil).Once()

	_, err := suite.service.EmitTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(savedLines, 2)
	suite.Equal(1, savedLines[0].LineNumber)
	suite.Equal(2, savedLines[1].LineNumber)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestEmitTransaction_InvalidOrganizationID() {
	ctx := context.Background()

	_, err := suite.service.EmitTransaction(ctx, "not-a-uuid", suite.emitRequest(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestEmitTransaction_InvalidSmartCode() {
	ctx := context.Background()
	req := suite.emitRequest()
	req.SmartCode = "HERA.SALE.V1" // too few segments

	_, err := suite.service.EmitTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestEmitTransaction_DuplicateLineNumber() {
	ctx := context.Background()
	one := 1
	req := suite.emitRequest()
	req.SourceEntityID = nil
	req.Lines[0].LineNumber = &one
	req.Lines[1].LineNumber = &one

	_, err := suite.service.EmitTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "line_number")
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestEmitTransaction_Imbalanced() {
	ctx := context.Background()
	req := suite.emitRequest()
	req.SourceEntityID = nil
	req.RequireBalance = true
	req.Lines[1].LineAmount = decimal.NewFromInt(90) // 100 DR vs 90 CR

	_, err := suite.service.EmitTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrImbalanced)
	suite.Contains(err.Error(), "imbalanced")
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestEmitTransaction_BalancedWithinTolerance() {
	ctx := context.Background()
	req := suite.emitRequest()
	req.SourceEntityID = nil
	req.RequireBalance = true
	req.Lines[1].LineAmount = decimal.RequireFromString("99.995")

	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("[]domain.TransactionLine")).Return(nil).Once()

	_, err := suite.service.EmitTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestEmitTransaction_EntityNotFound() {
	ctx := context.Background()
	req := suite.emitRequest()

	suite.mockEntityRepo.On("FindEntitiesByIDs", ctx, []string{suite.customer.EntityID}).Return(map[string]domain.Entity{}, nil).Once()

	_, err := suite.service.EmitTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockEntityRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestEmitTransaction_EntityWrongOrganization() {
	ctx := context.Background()
	req := suite.emitRequest()

	foreign := suite.customer
	foreign.OrganizationID = uuid.NewString()
	entitiesMap := map[string]domain.Entity{foreign.EntityID: foreign}
	suite.mockEntityRepo.On("FindEntitiesByIDs", ctx, []string{suite.customer.EntityID}).Return(entitiesMap, nil).Once()

	_, err := suite.service.EmitTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOrgMismatch)
	suite.Contains(err.Error(), "ORG_MISMATCH")
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestEmitTransaction_TotalComputedFromLines() {
	ctx := context.Background()
	req := suite.emitRequest()
	req.SourceEntityID = nil
	req.Lines[0].DrCr = ""
	req.Lines[1].DrCr = ""
	req.Lines[1].LineAmount = decimal.NewFromInt(50)

	var savedTxn domain.Transaction
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("[]domain.TransactionLine")).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(1).(domain.Transaction)
		}).Return(nil).Once()

	_, err := suite.service.EmitTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(savedTxn.TotalAmount.Equal(decimal.NewFromInt(150)), "expected 150, got %s", savedTxn.TotalAmount)
}

func (suite *LedgerServiceTestSuite) TestEmitTransaction_DeclaredTotalWins() {
	ctx := context.Background()
	req := suite.emitRequest()
	req.SourceEntityID = nil
	req.TotalAmount = decimal.NewFromInt(999)

	var savedTxn domain.Transaction
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("[]domain.TransactionLine")).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(1).(domain.Transaction)
		}).Return(nil).Once()

	_, err := suite.service.EmitTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(savedTxn.TotalAmount.Equal(decimal.NewFromInt(999)))
}

// --- Read ---

func (suite *LedgerServiceTestSuite) TestGetTransactionByID_Success() {
	ctx := context.Background()
	txnID := uuid.NewString()
	expected := &domain.Transaction{
		TransactionID:  txnID,
		OrganizationID: suite.organizationID,
		SmartCode:      "HERA.REST.SALE.ORDER.CORE.V1",
		Status:         domain.StatusCompleted,
		Lines: []domain.TransactionLine{
			{LineID: uuid.NewString(), LineNumber: 1},
		},
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.organizationID, txnID, true).Return(expected, nil).Once()

	txn, err := suite.service.GetTransactionByID(ctx, suite.organizationID, txnID, true)

	suite.Require().NoError(err)
	suite.Equal(expected, txn)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestGetTransactionByID_NotFound() {
	ctx := context.Background()
	txnID := uuid.NewString()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.organizationID, txnID, false).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetTransactionByID(ctx, suite.organizationID, txnID, false)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// --- Query ---

func (suite *LedgerServiceTestSuite) TestQueryTransactions_Success() {
	ctx := context.Background()
	matches := []domain.Transaction{
		{TransactionID: uuid.NewString(), OrganizationID: suite.organizationID, Status: domain.StatusCompleted},
	}
	suite.mockTxnRepo.On("QueryTransactions", ctx, suite.organizationID, mock.AnythingOfType("repositories.TransactionFilter")).Return(matches, int64(1), nil).Once()

	resp, err := suite.service.QueryTransactions(ctx, suite.organizationID, dto.QueryTransactionsParams{})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Len(resp.Transactions, 1)
	suite.Equal(int64(1), resp.Total)
	suite.Equal(50, resp.Limit) // default page size
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestQueryTransactions_InvalidDateRange() {
	ctx := context.Background()
	from := time.Now()
	to := from.Add(-24 * time.Hour)

	_, err := suite.service.QueryTransactions(ctx, suite.organizationID, dto.QueryTransactionsParams{DateFrom: &from, DateTo: &to})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "QueryTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestQueryTransactions_LimitCapped() {
	ctx := context.Background()
	var usedFilter portsrepo.TransactionFilter
	suite.mockTxnRepo.On("QueryTransactions", ctx, suite.organizationID, mock.AnythingOfType("repositories.TransactionFilter")).
		Run(func(args mock.Arguments) {
			usedFilter = args.Get(2).(portsrepo.TransactionFilter)
		}).Return([]domain.Transaction{}, int64(0), nil).Once()

	_, err := suite.service.QueryTransactions(ctx, suite.organizationID, dto.QueryTransactionsParams{Limit: 10000})

	suite.Require().NoError(err)
	suite.Equal(500, usedFilter.Limit)
}

// --- Reverse ---

func (suite *LedgerServiceTestSuite) originalTransaction() *domain.Transaction {
	txnID := uuid.NewString()
	return &domain.Transaction{
		TransactionID:   txnID,
		OrganizationID:  suite.organizationID,
		TransactionType: "sale",
		SmartCode:       "HERA.REST.SALE.ORDER.CORE.V1",
		TransactionDate: time.Now().UTC().Add(-48 * time.Hour),
		TotalAmount:     decimal.NewFromInt(200),
		Status:          domain.StatusCompleted,
		BusinessContext: domain.Context{"table": "5"},
		Lines: []domain.TransactionLine{
			{LineID: uuid.NewString(), TransactionID: txnID, LineNumber: 1, SmartCode: "HERA.REST.SALE.LINE.ITEM.V1", Description: "Margherita", LineAmount: decimal.NewFromInt(200), DrCr: domain.Debit},
			{LineID: uuid.NewString(), TransactionID: txnID, LineNumber: 2, SmartCode: "HERA.REST.SALE.LINE.TAX.V1", LineAmount: decimal.NewFromInt(200), DrCr: domain.Credit},
		},
	}
}

func (suite *LedgerServiceTestSuite) TestReverseTransaction_Success() {
	ctx := context.Background()
	original := suite.originalTransaction()
	req := dto.ReverseTransactionRequest{
		SmartCode: "HERA.REST.SALE.ORDER.REVERSE.V1",
		Reason:    "customer refund",
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.organizationID, original.TransactionID, true).Return(original, nil).Once()

	var savedReversal domain.Transaction
	var savedLines []domain.TransactionLine
	suite.mockTxnRepo.On("SaveReversal", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("[]domain.TransactionLine"), original.TransactionID, suite.userID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			savedReversal = args.Get(1).(domain.Transaction)
			savedLines = args.Get(2).([]domain.TransactionLine)
		}).Return(nil).Once()

	resp, err := suite.service.ReverseTransaction(ctx, suite.organizationID, original.TransactionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Equal(original.TransactionID, resp.OriginalTransactionID)
	suite.Equal(savedReversal.TransactionID, resp.ReversalTransactionID)
	suite.Equal(2, resp.LinesReversed)
	suite.Equal("customer refund", resp.ReversalReason)

	// Header semantics
	suite.Equal(domain.StatusReversal, savedReversal.Status)
	suite.True(savedReversal.TotalAmount.Equal(decimal.NewFromInt(-200)))
	suite.Equal(original.TransactionID, savedReversal.Metadata[domain.MetaReversalOf])
	suite.Equal("customer refund", savedReversal.Metadata[domain.MetaReversalReason])
	suite.Equal(original.BusinessContext, savedReversal.BusinessContext)

	// Line semantics: amounts negated, DR/CR flipped, smart codes derived,
	// line numbers preserved
	suite.Require().Len(savedLines, 2)
	suite.Equal(1, savedLines[0].LineNumber)
	suite.True(savedLines[0].LineAmount.Equal(decimal.NewFromInt(-200)))
	suite.Equal(domain.Credit, savedLines[0].DrCr)
	suite.Equal("HERA.REST.SALE.LINE.REVERSE.V1", savedLines[0].SmartCode)
	suite.Equal(domain.Debit, savedLines[1].DrCr)
	suite.Contains(savedLines[0].Description, "REVERSAL")

	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReverseTransaction_ReasonMissing() {
	ctx := context.Background()
	req := dto.ReverseTransactionRequest{
		SmartCode: "HERA.REST.SALE.ORDER.REVERSE.V1",
		Reason:    "   ",
	}

	_, err := suite.service.ReverseTransaction(ctx, suite.organizationID, uuid.NewString(), req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindTransactionByID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReverseTransaction_OriginalNotFound() {
	ctx := context.Background()
	txnID := uuid.NewString()
	req := dto.ReverseTransactionRequest{
		SmartCode: "HERA.REST.SALE.ORDER.REVERSE.V1",
		Reason:    "duplicate entry",
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.organizationID, txnID, true).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ReverseTransaction(ctx, suite.organizationID, txnID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReverseTransaction_AlreadyReversed() {
	ctx := context.Background()
	original := suite.originalTransaction()
	original.Status = domain.StatusReversed
	req := dto.ReverseTransactionRequest{
		SmartCode: "HERA.REST.SALE.ORDER.REVERSE.V1",
		Reason:    "second attempt",
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.organizationID, original.TransactionID, true).Return(original, nil).Once()

	_, err := suite.service.ReverseTransaction(ctx, suite.organizationID, original.TransactionID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "already been reversed")
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReverseTransaction_OfReversalRejected() {
	ctx := context.Background()
	original := suite.originalTransaction()
	original.Status = domain.StatusReversal
	req := dto.ReverseTransactionRequest{
		SmartCode: "HERA.REST.SALE.ORDER.REVERSE.V1",
		Reason:    "undo the undo",
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.organizationID, original.TransactionID, true).Return(original, nil).Once()

	_, err := suite.service.ReverseTransaction(ctx, suite.organizationID, original.TransactionID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *LedgerServiceTestSuite) TestReverseTransaction_MultipleReversalsAllowed() {
	ctx := context.Background()
	suite.service = services.NewLedgerService(suite.mockTxnRepo, suite.mockEntityRepo, services.WithMultipleReversals(true))

	original := suite.originalTransaction()
	original.Status = domain.StatusReversed
	req := dto.ReverseTransactionRequest{
		SmartCode: "HERA.REST.SALE.ORDER.REVERSE.V1",
		Reason:    "partial refund correction",
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.organizationID, original.TransactionID, true).Return(original, nil).Once()
	suite.mockTxnRepo.On("SaveReversal", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("[]domain.TransactionLine"), original.TransactionID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := suite.service.ReverseTransaction(ctx, suite.organizationID, original.TransactionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReverseTransaction_RepoError() {
	ctx := context.Background()
	original := suite.originalTransaction()
	req := dto.ReverseTransactionRequest{
		SmartCode: "HERA.REST.SALE.ORDER.REVERSE.V1",
		Reason:    "bad posting",
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.organizationID, original.TransactionID, true).Return(original, nil).Once()
	suite.mockTxnRepo.On("SaveReversal", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("[]domain.TransactionLine"), original.TransactionID, suite.userID, mock.AnythingOfType("time.Time")).Return(assert.AnError).Once()

	_, err := suite.service.ReverseTransaction(ctx, suite.organizationID, original.TransactionID, req, suite.userID)

	suite.Require().Error(err)
	suite.Contains(err.Error(), assert.AnError.Error())
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
