package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankservice/internal/domain"
	"github.com/iho/bankservice/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. Records
// are insert-only; there is no update or delete path.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create appends a transaction record inside the transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO transactions (id, account_id, amount, fee, kind, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID,
		record.AccountID,
		decimalToNumeric(record.Amount),
		decimalToNumeric(record.Fee),
		string(record.Kind),
		timeToPgTimestamptz(record.CreatedAt),
	)

	return err
}

// ListByAccount retrieves an account's records, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TransactionRecord, error) {
	query := `
		SELECT id, account_id, amount, fee, kind, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.TransactionRecord
	for rows.Next() {
		var (
			record    domain.TransactionRecord
			amount    pgtype.Numeric
			fee       pgtype.Numeric
			kind      string
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(
			&record.ID,
			&record.AccountID,
			&amount,
			&fee,
			&kind,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		record.Amount = numericToDecimal(amount)
		record.Fee = numericToDecimal(fee)
		record.Kind = domain.TransactionKind(kind)
		record.CreatedAt = createdAt.Time

		records = append(records, &record)
	}

	return records, rows.Err()
}
