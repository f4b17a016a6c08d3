package accounting_test

import (
	"testing"

	"github.com/heraerp/txn-ledger/internal/core/domain"
	"github.com/heraerp/txn-ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(amount float64, drcr domain.DrCr) domain.TransactionLine {
	return domain.TransactionLine{LineAmount: decimal.NewFromFloat(amount), DrCr: drcr}
}

func TestIsBalanced(t *testing.T) {
	tol := accounting.DefaultTolerance

	assert.True(t, accounting.IsBalanced([]domain.TransactionLine{
		line(100, domain.Debit),
		line(100, domain.Credit),
	}, tol))

	assert.False(t, accounting.IsBalanced([]domain.TransactionLine{
		line(100, domain.Debit),
		line(90, domain.Credit),
	}, tol))

	// Lines without a DR/CR marker are excluded from both sums.
	assert.True(t, accounting.IsBalanced([]domain.TransactionLine{
		line(50, ""),
	}, tol))

	// Differences within the tolerance pass.
	assert.True(t, accounting.IsBalanced([]domain.TransactionLine{
		line(100.009, domain.Debit),
		line(100, domain.Credit),
	}, tol))
	assert.False(t, accounting.IsBalanced([]domain.TransactionLine{
		line(100.02, domain.Debit),
		line(100, domain.Credit),
	}, tol))

	// Empty input balances trivially.
	assert.True(t, accounting.IsBalanced(nil, tol))
}

func TestValidateBalanceMessage(t *testing.T) {
	err := accounting.ValidateBalance([]domain.TransactionLine{
		line(100, domain.Debit),
		line(90, domain.Credit),
	}, accounting.DefaultTolerance)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "imbalanced")
}

func TestSumDrCr(t *testing.T) {
	debits, credits := accounting.SumDrCr([]domain.TransactionLine{
		line(10, domain.Debit),
		line(5, domain.Debit),
		line(12, domain.Credit),
		line(99, ""),
	})
	assert.True(t, debits.Equal(decimal.NewFromInt(15)))
	assert.True(t, credits.Equal(decimal.NewFromInt(12)))
}
