package ledger_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/heraerp/txn-ledger/pkg/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*ledger.Client, *httptest.Server, string) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	orgID := uuid.NewString()
	client, err := ledger.NewClient(ledger.ClientConfig{
		BaseURL:        server.URL,
		OrganizationID: orgID,
		Token:          "test-token",
	})
	require.NoError(t, err)
	return client, server, orgID
}

func validEmitRequest() ledger.EmitTransactionRequest {
	return ledger.EmitTransactionRequest{
		TransactionType: "sale",
		SmartCode:       "HERA.REST.SALE.ORDER.CORE.V1",
		TransactionDate: time.Now().UTC(),
		Lines: []ledger.EmitLineInput{
			{SmartCode: "HERA.REST.SALE.LINE.ITEM.V1", LineAmount: decimal.NewFromInt(100), DrCr: "DR"},
			{SmartCode: "HERA.REST.SALE.LINE.ITEM.V1", LineAmount: decimal.NewFromInt(100), DrCr: "CR"},
		},
	}
}

func TestNewClient_RequiresValidOrganizationID(t *testing.T) {
	_, err := ledger.NewClient(ledger.ClientConfig{
		BaseURL:        "http://localhost:8080",
		OrganizationID: "not-a-uuid",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestEmit_Success(t *testing.T) {
	var gotPath, gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"transaction_id": "txn-123"})
	})
	client, _, orgID := newTestClient(t, handler)

	txnID, err := client.Emit(context.Background(), validEmitRequest())

	require.NoError(t, err)
	assert.Equal(t, "txn-123", txnID)
	assert.Equal(t, "/api/v1/organizations/"+orgID+"/transactions", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestEmit_InvalidSmartCodeFailsBeforeDispatch(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	client, _, _ := newTestClient(t, handler)

	req := validEmitRequest()
	req.SmartCode = "hera.lowercase.v1"
	_, err := client.Emit(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrValidation)
	assert.Zero(t, atomic.LoadInt32(&calls), "no request should have been sent")
}

func TestEmit_ImbalancedFailsBeforeDispatch(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	client, _, _ := newTestClient(t, handler)

	req := validEmitRequest()
	req.RequireBalance = true
	req.Lines[1].LineAmount = decimal.NewFromInt(50)
	_, err := client.Emit(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrImbalanced)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestEmit_DuplicateLineNumbersFailBeforeDispatch(t *testing.T) {
	client, _, _ := newTestClient(t, http.NotFoundHandler())

	one := 1
	req := validEmitRequest()
	req.Lines[0].LineNumber = &one
	req.Lines[1].LineNumber = &one
	_, err := client.Emit(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestRead_HeaderOnly(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("include_lines"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transaction_id": "txn-1",
			"smart_code":     "HERA.REST.SALE.ORDER.CORE.V1",
			"status":         "COMPLETED",
		})
	})
	client, _, _ := newTestClient(t, handler)

	txn, err := client.Read(context.Background(), "txn-1", false)

	require.NoError(t, err)
	assert.Equal(t, "txn-1", txn.TransactionID)
	assert.Nil(t, txn.Lines, "header-only read must not materialize lines")
}

func TestRead_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "transaction not found"})
	})
	client, _, _ := newTestClient(t, handler)

	_, err := client.Read(context.Background(), "missing", true)

	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	assert.Contains(t, err.Error(), "not found")
}

func TestQuery_InvalidDateRangeFailsBeforeDispatch(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	client, _, _ := newTestClient(t, handler)

	from := time.Now()
	to := from.Add(-time.Hour)
	_, err := client.Query(context.Background(), ledger.QueryTransactionsParams{DateFrom: &from, DateTo: &to})

	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrValidation)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestQuery_EncodesFilters(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "sale", q.Get("transaction_type"))
		assert.Equal(t, "REVERSE", q.Get("smart_code_like"))
		assert.Equal(t, "25", q.Get("limit"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transactions": []interface{}{},
			"total":        0,
			"limit":        25,
			"offset":       0,
		})
	})
	client, _, _ := newTestClient(t, handler)

	txnType := "sale"
	marker := "REVERSE"
	resp, err := client.Query(context.Background(), ledger.QueryTransactionsParams{
		TransactionType: &txnType,
		SmartCodeLike:   &marker,
		Limit:           25,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Total)
}

func TestReverse_BlankReasonFailsBeforeDispatch(t *testing.T) {
	client, _, _ := newTestClient(t, http.NotFoundHandler())

	_, err := client.Reverse(context.Background(), "txn-1", ledger.ReverseTransactionRequest{
		SmartCode: "HERA.REST.SALE.ORDER.REVERSE.V1",
		Reason:    "   ",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestReverse_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/transactions/txn-1/reverse")
		var req ledger.ReverseTransactionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "wrong amount", req.Reason)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ledger.ReverseTransactionResponse{
			ReversalTransactionID: "txn-2",
			OriginalTransactionID: "txn-1",
			LinesReversed:         3,
			ReversalReason:        "wrong amount",
		})
	})
	client, _, _ := newTestClient(t, handler)

	resp, err := client.Reverse(context.Background(), "txn-1", ledger.ReverseTransactionRequest{
		SmartCode: "HERA.REST.SALE.ORDER.REVERSE.V1",
		Reason:    "wrong amount",
	})

	require.NoError(t, err)
	assert.Equal(t, "txn-2", resp.ReversalTransactionID)
	assert.Equal(t, 3, resp.LinesReversed)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		message    string
		sentinel   error
	}{
		{"org mismatch marker", http.StatusConflict, "ORG_MISMATCH: reference belongs to a different organization", ledger.ErrOrgMismatch},
		{"imbalanced marker", http.StatusBadRequest, "transaction is imbalanced: debit sum 100 does not match credit sum 50 (tolerance 0.01)", ledger.ErrImbalanced},
		{"not found status", http.StatusNotFound, "transaction not found", ledger.ErrNotFound},
		{"conflict status", http.StatusConflict, "transaction has already been reversed", ledger.ErrConflict},
		{"bad request", http.StatusBadRequest, "transaction_type is required", ledger.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				json.NewEncoder(w).Encode(map[string]string{"error": tt.message})
			})
			client, _, _ := newTestClient(t, handler)

			_, err := client.Read(context.Background(), "txn-x", true)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestFindByEntity_MergesAndDeduplicates(t *testing.T) {
	entityID := uuid.NewString()
	shared := map[string]interface{}{
		"transaction_id":   "txn-both",
		"transaction_date": time.Now().UTC().Format(time.RFC3339),
	}
	asSourceOnly := map[string]interface{}{
		"transaction_id":   "txn-source",
		"transaction_date": time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
	}
	asTargetOnly := map[string]interface{}{
		"transaction_id":   "txn-target",
		"transaction_date": time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339),
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var txns []map[string]interface{}
		switch {
		case q.Get("source_entity_id") == entityID:
			txns = []map[string]interface{}{shared, asSourceOnly}
		case q.Get("target_entity_id") == entityID:
			txns = []map[string]interface{}{shared, asTargetOnly}
		default:
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transactions": txns,
			"total":        len(txns),
			"limit":        50,
			"offset":       0,
		})
	})
	client, _, _ := newTestClient(t, handler)

	result, err := client.FindByEntity(context.Background(), entityID, ledger.QueryTransactionsParams{})

	require.NoError(t, err)
	require.Len(t, result, 3, "txn-both must appear exactly once")
	assert.Equal(t, "txn-both", result[0].TransactionID, "newest first")
}

func TestAuditTrail_LinksReversalsThroughMetadata(t *testing.T) {
	originalID := "txn-orig"
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("smart_code_like") == "REVERSE" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"transactions": []map[string]interface{}{
					{
						"transaction_id": "txn-rev",
						"smart_code":     "HERA.REST.SALE.ORDER.REVERSE.V1",
						"metadata":       map[string]string{"reversal_of": originalID, "reversal_reason": "refund"},
					},
					{
						"transaction_id": "txn-other-rev",
						"smart_code":     "HERA.REST.SALE.ORDER.REVERSE.V1",
						"metadata":       map[string]string{"reversal_of": "txn-unrelated"},
					},
				},
				"total":  2,
				"limit":  50,
				"offset": 0,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transaction_id": originalID,
			"status":         "REVERSED",
			"lines": []map[string]interface{}{
				{"line_id": "l1", "line_number": 1},
			},
		})
	})
	client, _, _ := newTestClient(t, handler)

	trail, err := client.AuditTrail(context.Background(), originalID)

	require.NoError(t, err)
	require.NotNil(t, trail.Original)
	assert.Equal(t, originalID, trail.Original.TransactionID)
	require.Len(t, trail.Reversals, 1)
	assert.Equal(t, "txn-rev", trail.Reversals[0].TransactionID)
	assert.True(t, trail.AuditComplete)
}

func TestAuditTrail_ScansAllCandidatePages(t *testing.T) {
	originalID := "txn-orig"
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("smart_code_like") != "REVERSE" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"transaction_id": originalID,
				"status":         "REVERSED",
				"lines": []map[string]interface{}{
					{"line_id": "l1", "line_number": 1},
				},
			})
			return
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		if offset == 0 {
			// A full first page of reversals linking to other transactions.
			page := make([]map[string]interface{}, 0, 100)
			for i := 0; i < 100; i++ {
				page = append(page, map[string]interface{}{
					"transaction_id": fmt.Sprintf("txn-unrelated-%d", i),
					"smart_code":     "HERA.REST.SALE.ORDER.REVERSE.V1",
					"metadata":       map[string]string{"reversal_of": "txn-other"},
				})
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"transactions": page,
				"total":        101,
				"limit":        100,
				"offset":       0,
			})
			return
		}
		// The linked reversal only appears on the second page.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transactions": []map[string]interface{}{
				{
					"transaction_id": "txn-rev",
					"smart_code":     "HERA.REST.SALE.ORDER.REVERSE.V1",
					"metadata":       map[string]string{"reversal_of": originalID, "reversal_reason": "refund"},
				},
			},
			"total":  101,
			"limit":  100,
			"offset": offset,
		})
	})
	client, _, _ := newTestClient(t, handler)

	trail, err := client.AuditTrail(context.Background(), originalID)

	require.NoError(t, err)
	require.Len(t, trail.Reversals, 1)
	assert.Equal(t, "txn-rev", trail.Reversals[0].TransactionID)
	assert.True(t, trail.AuditComplete)
}

func TestDeriveReversalSmartCode(t *testing.T) {
	derived, err := ledger.DeriveReversalSmartCode("HERA.REST.SALE.ORDER.CORE.V1")
	require.NoError(t, err)
	assert.Equal(t, "HERA.REST.SALE.ORDER.REVERSE.V1", derived)
}

func TestIsBalanced(t *testing.T) {
	balanced := []ledger.TransactionLineResponse{
		{LineAmount: decimal.NewFromInt(100), DrCr: "DR"},
		{LineAmount: decimal.NewFromInt(100), DrCr: "CR"},
	}
	assert.True(t, ledger.IsBalanced(balanced))

	imbalanced := []ledger.TransactionLineResponse{
		{LineAmount: decimal.NewFromInt(100), DrCr: "DR"},
		{LineAmount: decimal.NewFromInt(10), DrCr: "CR"},
	}
	assert.False(t, ledger.IsBalanced(imbalanced))
}
