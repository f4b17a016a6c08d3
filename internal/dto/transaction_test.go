package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/heraerp/txn-ledger/internal/core/domain"
	"github.com/heraerp/txn-ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTransactionResponse_SortsLinesAscending(t *testing.T) {
	txn := &domain.Transaction{
		TransactionID: "txn-1",
		Lines: []domain.TransactionLine{
			{LineID: "l3", LineNumber: 3},
			{LineID: "l1", LineNumber: 1},
			{LineID: "l2", LineNumber: 2},
		},
	}

	resp := dto.ToTransactionResponse(txn)

	require.Len(t, resp.Lines, 3)
	for i, want := range []int{1, 2, 3} {
		assert.Equal(t, want, resp.Lines[i].LineNumber)
	}
	assert.Equal(t, "l1", resp.Lines[0].LineID)
}

func TestTransactionResponse_LinesFieldPresence(t *testing.T) {
	headerOnly := dto.ToTransactionResponse(&domain.Transaction{TransactionID: "txn-1"})
	data, err := json.Marshal(headerOnly)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"lines"`)

	loadedEmpty := dto.ToTransactionResponse(&domain.Transaction{
		TransactionID: "txn-1",
		Lines:         []domain.TransactionLine{},
	})
	data, err = json.Marshal(loadedEmpty)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lines":[]`)
}
