package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/heraerp/txn-ledger/internal/apperrors"
	"github.com/heraerp/txn-ledger/internal/core/domain"
	"github.com/heraerp/txn-ledger/internal/utils/accounting"
	"github.com/heraerp/txn-ledger/internal/utils/smartcode"
	"golang.org/x/sync/errgroup"
)

// ValidateSmartCode reports whether code is a well-formed smart code.
func ValidateSmartCode(code string) error {
	return smartcode.Validate(code)
}

// DeriveReversalSmartCode derives the reversal smart code for an original
// smart code by replacing its operation segment with REVERSE.
func DeriveReversalSmartCode(code string) (string, error) {
	return smartcode.DeriveReversal(code)
}

// IsBalanced reports whether the DR and CR line amounts cancel out within the
// default tolerance. Lines without a DR/CR marker are ignored.
func IsBalanced(lines []TransactionLineResponse) bool {
	return accounting.IsBalanced(toDomainLines(lines), accounting.DefaultTolerance)
}

func toDomainLines(lines []TransactionLineResponse) []domain.TransactionLine {
	out := make([]domain.TransactionLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.TransactionLine{
			LineAmount: l.LineAmount,
			DrCr:       domain.DrCr(l.DrCr),
		})
	}
	return out
}

// FindByEntity returns all transactions in which the entity participates as
// either source or target, deduplicated and ordered newest first. The two
// sides are queried concurrently. Filters other than the entity fields in
// params are applied to both queries.
func (c *Client) FindByEntity(ctx context.Context, entityID string, params QueryTransactionsParams) ([]TransactionResponse, error) {
	if entityID == "" {
		return nil, fmt.Errorf("%w: entity ID cannot be empty", apperrors.ErrValidation)
	}

	asSource := params
	asSource.SourceEntityID = &entityID
	asSource.TargetEntityID = nil

	asTarget := params
	asTarget.TargetEntityID = &entityID
	asTarget.SourceEntityID = nil

	var sourceResp, targetResp *QueryTransactionsResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sourceResp, err = c.Query(gctx, asSource)
		return err
	})
	g.Go(func() error {
		var err error
		targetResp, err = c.Query(gctx, asTarget)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	merged := make([]TransactionResponse, 0, len(sourceResp.Transactions)+len(targetResp.Transactions))
	for _, txn := range append(sourceResp.Transactions, targetResp.Transactions...) {
		if _, dup := seen[txn.TransactionID]; dup {
			continue
		}
		seen[txn.TransactionID] = struct{}{}
		merged = append(merged, txn)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TransactionDate.After(merged[j].TransactionDate)
	})
	return merged, nil
}

// AuditTrailResult is the reconstructed reversal history of one transaction.
type AuditTrailResult struct {
	Original      *TransactionResponse  `json:"original"`
	Reversals     []TransactionResponse `json:"reversals"`
	AuditComplete bool                  `json:"audit_complete"`
}

// auditTrailPageSize is the page size used when scanning reversal candidates.
const auditTrailPageSize = 100

// AuditTrail reconstructs the audit trail of a transaction: the original with
// its lines plus every reversal that links back to it through its metadata.
// The candidate scan pages through the full result set so reversals beyond
// the first page are never dropped.
func (c *Client) AuditTrail(ctx context.Context, transactionID string) (*AuditTrailResult, error) {
	original, err := c.Read(ctx, transactionID, true)
	if err != nil {
		return nil, err
	}

	// Reversals carry a REVERSE operation segment in their smart code, so a
	// substring query narrows the candidate set before the metadata check.
	reverseMarker := "REVERSE"
	params := QueryTransactionsParams{
		SmartCodeLike: &reverseMarker,
		IncludeLines:  true,
		Limit:         auditTrailPageSize,
	}

	reversals := make([]TransactionResponse, 0, 1)
	scanned := 0
	for {
		page, err := c.Query(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, txn := range page.Transactions {
			if txn.Metadata.GetString(domain.MetaReversalOf) == transactionID {
				reversals = append(reversals, txn)
			}
		}
		scanned += len(page.Transactions)
		// A short page also terminates the scan in case the total shrank
		// between requests.
		if len(page.Transactions) == 0 || int64(scanned) >= page.Total {
			break
		}
		params.Offset = scanned
	}

	return &AuditTrailResult{
		Original:      original,
		Reversals:     reversals,
		AuditComplete: true,
	}, nil
}
