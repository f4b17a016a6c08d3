// Package accounting holds the pure double-entry calculations shared by the
// ledger service and the client SDK.
package accounting

import (
	"fmt"

	"github.com/heraerp/txn-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultTolerance is the maximum accepted absolute difference between debit
// and credit sums. Kept configurable because zero-decimal currencies may want
// a different value.
var DefaultTolerance = decimal.NewFromFloat(0.01)

// SumDrCr returns the debit and credit sums over lines. Lines without a DR/CR
// marker are excluded from both sums.
func SumDrCr(lines []domain.TransactionLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, line := range lines {
		switch line.DrCr {
		case domain.Debit:
			debits = debits.Add(line.LineAmount)
		case domain.Credit:
			credits = credits.Add(line.LineAmount)
		}
	}
	return debits, credits
}

// IsBalanced reports whether the debit and credit sums over lines differ by no
// more than tolerance. Lines lacking a DR/CR marker do not participate, so a
// set of entirely unmarked lines is balanced.
func IsBalanced(lines []domain.TransactionLine, tolerance decimal.Decimal) bool {
	debits, credits := SumDrCr(lines)
	return debits.Sub(credits).Abs().LessThanOrEqual(tolerance)
}

// ValidateBalance returns a descriptive error when lines do not balance within
// tolerance. The message carries the legacy "imbalanced" marker.
func ValidateBalance(lines []domain.TransactionLine, tolerance decimal.Decimal) error {
	debits, credits := SumDrCr(lines)
	if debits.Sub(credits).Abs().GreaterThan(tolerance) {
		return fmt.Errorf("transaction is imbalanced: debit sum %s does not match credit sum %s (tolerance %s)",
			debits.String(), credits.String(), tolerance.String())
	}
	return nil
}
