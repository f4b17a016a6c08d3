package pgsql

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/heraerp/txn-ledger/internal/apperrors"
	"github.com/heraerp/txn-ledger/internal/core/domain"
	portsrepo "github.com/heraerp/txn-ledger/internal/core/ports/repositories"
	"github.com/heraerp/txn-ledger/internal/models"
	"github.com/heraerp/txn-ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction and line data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `
	transaction_id, organization_id, transaction_type, smart_code, transaction_date,
	source_entity_id, target_entity_id, total_amount, status,
	business_context, metadata,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `
	line_id, transaction_id, line_number, line_type, smart_code, description,
	entity_id, quantity, unit_price, line_amount, dr_cr`

// insertTransactionTx inserts one transaction header within tx.
func (r *PgxTransactionRepository) insertTransactionTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	modelTxn := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO universal_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		modelTxn.TransactionID,
		modelTxn.OrganizationID,
		modelTxn.TransactionType,
		modelTxn.SmartCode,
		modelTxn.TransactionDate,
		modelTxn.SourceEntityID,
		modelTxn.TargetEntityID,
		modelTxn.TotalAmount,
		modelTxn.Status,
		modelTxn.BusinessContext,
		modelTxn.Metadata,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+modelTxn.TransactionID, err)
	}
	return nil
}

// insertLinesTx batch-inserts the lines of one transaction within tx.
func (r *PgxTransactionRepository) insertLinesTx(ctx context.Context, tx pgx.Tx, transactionID string, lines []domain.TransactionLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO universal_transaction_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelTransactionLine(line)
		var drCr *string
		if modelLine.DrCr != "" {
			drCr = &modelLine.DrCr
		}
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.TransactionID,
			modelLine.LineNumber,
			modelLine.LineType,
			modelLine.SmartCode,
			modelLine.Description,
			modelLine.EntityID,
			modelLine.Quantity,
			modelLine.UnitPrice,
			modelLine.LineAmount,
			drCr,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for transaction "+transactionID, err)
	}
	return nil
}

// SaveTransaction persists a transaction and its lines atomically.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, lines []domain.TransactionLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once committed

	if err := r.insertTransactionTx(ctx, tx, txn); err != nil {
		return err
	}
	if err := r.insertLinesTx(ctx, tx, txn.TransactionID, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveReversal persists the reversal with its lines and flips the original's
// status to REVERSED within one database transaction.
func (r *PgxTransactionRepository) SaveReversal(ctx context.Context, reversal domain.Transaction, lines []domain.TransactionLine, originalTransactionID string, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertTransactionTx(ctx, tx, reversal); err != nil {
		return err
	}
	if err := r.insertLinesTx(ctx, tx, reversal.TransactionID, lines); err != nil {
		return err
	}

	statusQuery := `
		UPDATE universal_transactions
		SET status = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE transaction_id = $1 AND organization_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, statusQuery,
		originalTransactionID,
		reversal.OrganizationID,
		models.Reversed,
		updatedAt,
		updatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark transaction "+originalTransactionID+" as reversed", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction " + originalTransactionID + " not found for reversal")
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction scoped to an organization.
// Filtering by organization_id in the WHERE clause makes a cross-tenant hit
// indistinguishable from a nonexistent id.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, organizationID, transactionID string, includeLines bool) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM universal_transactions
		WHERE transaction_id = $1 AND organization_id = $2;
	`
	modelTxn, err := scanTransactionRow(r.Pool.QueryRow(ctx, query, transactionID, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	domainTxn := mapping.ToDomainTransaction(*modelTxn)
	if includeLines {
		lines, err := r.findLinesByTransactionID(ctx, transactionID)
		if err != nil {
			return nil, err
		}
		domainTxn.Lines = lines
	}
	return &domainTxn, nil
}

// findLinesByTransactionID retrieves all lines of a transaction ascending by
// line number.
func (r *PgxTransactionRepository) findLinesByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM universal_transaction_lines
		WHERE transaction_id = $1
		ORDER BY line_number ASC;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for transaction "+transactionID, err)
	}
	defer rows.Close()

	lines := []models.TransactionLine{}
	for rows.Next() {
		line, err := scanLineRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for transaction "+transactionID, err)
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for transaction "+transactionID, err)
	}

	return mapping.ToDomainTransactionLineSlice(lines), nil
}

// findLinesByTransactionIDs retrieves the lines for a list of transactions,
// grouped by transaction id, each group ascending by line number.
func (r *PgxTransactionRepository) findLinesByTransactionIDs(ctx context.Context, transactionIDs []string) (map[string][]domain.TransactionLine, error) {
	linesMap := make(map[string][]domain.TransactionLine, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return linesMap, nil
	}

	query := `
		SELECT ` + lineColumns + `
		FROM universal_transaction_lines
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, line_number ASC;
	`
	rows, err := r.Pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for transaction batch", err)
	}
	defer rows.Close()

	for rows.Next() {
		line, err := scanLineRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row during batch fetch", err)
		}
		domainLine := mapping.ToDomainTransactionLine(*line)
		linesMap[domainLine.TransactionID] = append(linesMap[domainLine.TransactionID], domainLine)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows during batch fetch", err)
	}

	return linesMap, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern escapes LIKE metacharacters so a caller-supplied filter
// matches as a literal substring. Backslash is the default escape character
// in PostgreSQL LIKE patterns.
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

// QueryTransactions returns a page of transactions matching the AND-combined
// filter, plus the total match count for pagination.
func (r *PgxTransactionRepository) QueryTransactions(ctx context.Context, organizationID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, int64, error) {
	whereClause := `WHERE organization_id = $1`
	args := []interface{}{organizationID}

	appendCondition := func(condition string, value interface{}) {
		args = append(args, value)
		whereClause += " AND " + condition + " $" + strconv.Itoa(len(args))
	}

	if filter.SourceEntityID != nil {
		appendCondition("source_entity_id =", *filter.SourceEntityID)
	}
	if filter.TargetEntityID != nil {
		appendCondition("target_entity_id =", *filter.TargetEntityID)
	}
	if filter.TransactionType != nil {
		appendCondition("transaction_type =", *filter.TransactionType)
	}
	if filter.SmartCodeLike != nil {
		// Substring containment, not a pattern.
		appendCondition("smart_code LIKE", "%"+escapeLikePattern(*filter.SmartCodeLike)+"%")
	}
	if filter.DateFrom != nil {
		appendCondition("transaction_date >=", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		appendCondition("transaction_date <=", *filter.DateTo)
	}

	countQuery := `SELECT COUNT(*) FROM universal_transactions ` + whereClause + `;`
	var total int64
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count transactions for organization "+organizationID, err)
	}

	// Stable ordering: newest business date first, creation time as the
	// tie-breaker.
	pageQuery := `
		SELECT ` + transactionColumns + `
		FROM universal_transactions ` + whereClause + `
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.Pool.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to query transactions for organization "+organizationID, err)
	}
	defer rows.Close()

	modelTxns := []models.Transaction{}
	for rows.Next() {
		modelTxn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan transaction row for organization "+organizationID, err)
		}
		modelTxns = append(modelTxns, *modelTxn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "error iterating transaction rows for organization "+organizationID, err)
	}

	domainTxns := make([]domain.Transaction, len(modelTxns))
	for i, m := range modelTxns {
		domainTxns[i] = mapping.ToDomainTransaction(m)
	}

	if filter.IncludeLines && len(domainTxns) > 0 {
		ids := make([]string, len(domainTxns))
		for i := range domainTxns {
			ids[i] = domainTxns[i].TransactionID
		}
		linesMap, err := r.findLinesByTransactionIDs(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range domainTxns {
			lines, ok := linesMap[domainTxns[i].TransactionID]
			if !ok {
				lines = []domain.TransactionLine{}
			}
			domainTxns[i].Lines = lines
		}
	}

	return domainTxns, total, nil
}

// scanTransactionRow scans one universal_transactions row.
func scanTransactionRow(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.OrganizationID,
		&m.TransactionType,
		&m.SmartCode,
		&m.TransactionDate,
		&m.SourceEntityID,
		&m.TargetEntityID,
		&m.TotalAmount,
		&m.Status,
		&m.BusinessContext,
		&m.Metadata,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// scanLineRow scans one universal_transaction_lines row.
func scanLineRow(row pgx.Row) (*models.TransactionLine, error) {
	var m models.TransactionLine
	var drCr *string
	err := row.Scan(
		&m.LineID,
		&m.TransactionID,
		&m.LineNumber,
		&m.LineType,
		&m.SmartCode,
		&m.Description,
		&m.EntityID,
		&m.Quantity,
		&m.UnitPrice,
		&m.LineAmount,
		&drCr,
	)
	if err != nil {
		return nil, err
	}
	if drCr != nil {
		m.DrCr = *drCr
	}
	return &m, nil
}
