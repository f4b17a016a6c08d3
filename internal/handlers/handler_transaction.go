package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/heraerp/txn-ledger/internal/apperrors"
	portssvc "github.com/heraerp/txn-ledger/internal/core/ports/services"
	"github.com/heraerp/txn-ledger/internal/dto"
	"github.com/heraerp/txn-ledger/internal/middleware"
)

// transactionHandler handles HTTP requests related to ledger transactions.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ledgerService portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{
		ledgerService: ledgerService,
	}
}

// emitTransaction godoc
// @Summary Emit a transaction with its lines
// @Description Creates a new immutable transaction as one atomic event
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   transaction body dto.EmitTransactionRequest true "Transaction and lines"
// @Success 201 {object} dto.EmitTransactionResponse
// @Failure 400 {object} map[string]string "Validation or balance failure"
// @Failure 409 {object} map[string]string "Organization mismatch"
// @Router /organizations/{organization_id}/transactions [post]
func (h *transactionHandler) emitTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	req := dto.EmitTransactionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for emitTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.ledgerService.EmitTransaction(c.Request.Context(), organizationID, req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrImbalanced):
			logger.Warn("Validation error emitting transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrOrgMismatch):
			logger.Warn("Organization mismatch emitting transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to emit transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to emit transaction"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.EmitTransactionResponse{TransactionID: txn.TransactionID})
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Retrieves one transaction, with lines ordered by line number unless include_lines=false
// @Tags transactions
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   transaction_id path string true "Transaction ID"
// @Param   include_lines query bool false "Include lines (default true)"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /organizations/{organization_id}/transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	transactionID := c.Param("transaction_id")

	includeLines := c.DefaultQuery("include_lines", "true") != "false"

	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), organizationID, transactionID, includeLines)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Transaction not found", slog.String("transaction_id", transactionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to get transaction from service", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// queryTransactions godoc
// @Summary Query transactions
// @Description Returns a page of transactions matching the AND-combined filters
// @Tags transactions
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   source_entity_id query string false "Filter by source entity"
// @Param   target_entity_id query string false "Filter by target entity"
// @Param   transaction_type query string false "Filter by transaction type"
// @Param   smart_code_like query string false "Substring match against smart code"
// @Param   date_from query string false "RFC3339 lower bound on transaction date"
// @Param   date_to query string false "RFC3339 upper bound on transaction date"
// @Param   limit query int false "Page size"
// @Param   offset query int false "Page offset"
// @Param   include_lines query bool false "Include lines"
// @Success 200 {object} dto.QueryTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid filters"
// @Router /organizations/{organization_id}/transactions [get]
func (h *transactionHandler) queryTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	params := dto.QueryTransactionsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query params for queryTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.ledgerService.QueryTransactions(c.Request.Context(), organizationID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error querying transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to query transactions in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// reverseTransaction godoc
// @Summary Reverse a transaction
// @Description Creates the reversing counterpart of an existing transaction and marks the original REVERSED
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   transaction_id path string true "Original transaction ID"
// @Param   reversal body dto.ReverseTransactionRequest true "Reversal smart code and reason"
// @Success 201 {object} dto.ReverseTransactionResponse
// @Failure 400 {object} map[string]string "Validation failure"
// @Failure 404 {object} map[string]string "Original transaction not found"
// @Failure 409 {object} map[string]string "Transaction already reversed"
// @Router /organizations/{organization_id}/transactions/{transaction_id}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	transactionID := c.Param("transaction_id")

	req := dto.ReverseTransactionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for reverseTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.ledgerService.ReverseTransaction(c.Request.Context(), organizationID, transactionID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error reversing transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Original transaction not found for reversal", slog.String("transaction_id", transactionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Reversal conflict", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to reverse transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse transaction"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RegisterTransactionRoutes registers transaction specific routes nested
// under a specific organization.
func RegisterTransactionRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)

	transactions := group.Group("/transactions")
	{
		transactions.POST("", h.emitTransaction)
		transactions.GET("", h.queryTransactions)
		transactions.GET("/:transaction_id", h.getTransaction)
		transactions.POST("/:transaction_id/reverse", h.reverseTransaction)
	}
}
