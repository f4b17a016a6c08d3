// Package ledger provides a Go client for the transaction ledger API.
//
// Every client is bound to a single organization; all reads and writes it
// performs are scoped to that organization on the server side as well.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/heraerp/txn-ledger/internal/apperrors"
	"github.com/heraerp/txn-ledger/internal/core/domain"
	"github.com/heraerp/txn-ledger/internal/dto"
	"github.com/heraerp/txn-ledger/internal/utils/accounting"
	"github.com/heraerp/txn-ledger/internal/utils/smartcode"
)

// ClientConfig represents the configuration for a ledger API client.
type ClientConfig struct {
	BaseURL        string
	OrganizationID string
	Token          string
	Timeout        time.Duration // Default: 30 seconds
	HTTPClient     *http.Client  // Optional; overrides Timeout when set
}

// Client is a transaction ledger API client bound to one organization.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	organizationID string
	token          string
}

// NewClient creates a new ledger API client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL cannot be empty", apperrors.ErrValidation)
	}
	if _, err := uuid.Parse(config.OrganizationID); err != nil {
		return nil, fmt.Errorf("%w: organization ID must be a valid UUID", apperrors.ErrValidation)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(config.BaseURL, "/"),
		organizationID: config.OrganizationID,
		token:          config.Token,
	}, nil
}

// SetToken sets the bearer token for API requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// OrganizationID returns the organization this client is bound to.
func (c *Client) OrganizationID() string {
	return c.organizationID
}

// Emit creates a new transaction together with all of its lines and returns
// the new transaction ID. Smart codes and balance requirements are checked
// locally before any request is dispatched.
func (c *Client) Emit(ctx context.Context, req dto.EmitTransactionRequest) (string, error) {
	if err := validateEmitRequest(req); err != nil {
		return "", err
	}

	var resp dto.EmitTransactionResponse
	if err := c.do(ctx, http.MethodPost, c.orgPath("/transactions"), req, &resp); err != nil {
		return "", err
	}
	return resp.TransactionID, nil
}

// Read retrieves a single transaction. When includeLines is true the lines
// are returned ordered by line number; otherwise only the header is fetched.
func (c *Client) Read(ctx context.Context, transactionID string, includeLines bool) (*dto.TransactionResponse, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction ID cannot be empty", apperrors.ErrValidation)
	}

	path := c.orgPath("/transactions/"+url.PathEscape(transactionID)) + "?include_lines=" + strconv.FormatBool(includeLines)
	var resp dto.TransactionResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Query returns a page of transactions matching the AND-combined filters.
func (c *Client) Query(ctx context.Context, params dto.QueryTransactionsParams) (*dto.QueryTransactionsResponse, error) {
	if params.DateFrom != nil && params.DateTo != nil && params.DateTo.Before(*params.DateFrom) {
		return nil, fmt.Errorf("%w: date_to must not precede date_from", apperrors.ErrValidation)
	}

	path := c.orgPath("/transactions") + "?" + encodeQueryParams(params)
	var resp dto.QueryTransactionsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reverse creates the reversing counterpart of an existing transaction.
// The reversal smart code and a non-empty reason are required and are
// validated locally before dispatch.
func (c *Client) Reverse(ctx context.Context, transactionID string, req dto.ReverseTransactionRequest) (*dto.ReverseTransactionResponse, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction ID cannot be empty", apperrors.ErrValidation)
	}
	if err := smartcode.Validate(req.SmartCode); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("%w: reversal reason cannot be empty", apperrors.ErrValidation)
	}

	var resp dto.ReverseTransactionResponse
	if err := c.do(ctx, http.MethodPost, c.orgPath("/transactions/"+url.PathEscape(transactionID)+"/reverse"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// validateEmitRequest applies the checks the server would reject anyway, so
// that obviously bad requests never leave the process.
func validateEmitRequest(req dto.EmitTransactionRequest) error {
	if err := smartcode.Validate(req.SmartCode); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if req.TransactionType == "" {
		return fmt.Errorf("%w: transaction type cannot be empty", apperrors.ErrValidation)
	}
	if req.TransactionDate.IsZero() {
		return fmt.Errorf("%w: transaction date cannot be empty", apperrors.ErrValidation)
	}

	seen := make(map[int]struct{}, len(req.Lines))
	balanceLines := make([]domain.TransactionLine, 0, len(req.Lines))
	for i, line := range req.Lines {
		if err := smartcode.Validate(line.SmartCode); err != nil {
			return fmt.Errorf("%w: line %d: %s", apperrors.ErrValidation, i+1, err.Error())
		}
		lineNumber := i + 1
		if line.LineNumber != nil {
			lineNumber = *line.LineNumber
		}
		if _, dup := seen[lineNumber]; dup {
			return fmt.Errorf("%w: duplicate line number %d", apperrors.ErrValidation, lineNumber)
		}
		seen[lineNumber] = struct{}{}
		balanceLines = append(balanceLines, domain.TransactionLine{
			LineAmount: line.LineAmount,
			DrCr:       domain.DrCr(line.DrCr),
		})
	}

	if req.RequireBalance {
		if err := accounting.ValidateBalance(balanceLines, accounting.DefaultTolerance); err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrImbalanced, err.Error())
		}
	}
	return nil
}

func encodeQueryParams(params dto.QueryTransactionsParams) string {
	values := url.Values{}
	if params.SourceEntityID != nil {
		values.Set("source_entity_id", *params.SourceEntityID)
	}
	if params.TargetEntityID != nil {
		values.Set("target_entity_id", *params.TargetEntityID)
	}
	if params.TransactionType != nil {
		values.Set("transaction_type", *params.TransactionType)
	}
	if params.SmartCodeLike != nil {
		values.Set("smart_code_like", *params.SmartCodeLike)
	}
	if params.DateFrom != nil {
		values.Set("date_from", params.DateFrom.Format(time.RFC3339))
	}
	if params.DateTo != nil {
		values.Set("date_to", params.DateTo.Format(time.RFC3339))
	}
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		values.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.IncludeLines {
		values.Set("include_lines", "true")
	}
	return values.Encode()
}

func (c *Client) orgPath(suffix string) string {
	return "/api/v1/organizations/" + url.PathEscape(c.organizationID) + suffix
}

// do performs one JSON request and decodes the response into out when out is
// non-nil. Non-2xx responses are turned into errors that wrap the matching
// sentinel from apperrors.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.parseError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// APIError is an error response returned by the ledger API.
type APIError struct {
	StatusCode int
	Message    string
	sentinel   error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ledger API error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap exposes the matching apperrors sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	return e.sentinel
}

// parseError parses an error response from the ledger API and classifies it
// against the apperrors sentinels.
func (c *Client) parseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "failed to read error response", sentinel: apperrors.ErrInternal}
	}

	var errResp struct {
		Error string `json:"error"`
	}
	message := string(body)
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		message = errResp.Error
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		sentinel:   classifyError(resp.StatusCode, message),
	}
}

func classifyError(statusCode int, message string) error {
	switch {
	case strings.Contains(message, "ORG_MISMATCH"):
		return apperrors.ErrOrgMismatch
	case strings.Contains(message, "imbalanced"):
		return apperrors.ErrImbalanced
	case statusCode == http.StatusNotFound || strings.Contains(message, "not found"):
		return apperrors.ErrNotFound
	case statusCode == http.StatusConflict:
		return apperrors.ErrConflict
	case statusCode == http.StatusBadRequest:
		return apperrors.ErrValidation
	default:
		return apperrors.ErrInternal
	}
}
