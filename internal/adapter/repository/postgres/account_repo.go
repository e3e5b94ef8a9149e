package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/bankservice/internal/domain"
	"github.com/iho/bankservice/internal/usecase"
)

const accountColumns = `
	a.id, a.user_id, a.balance, a.created_at, a.updated_at,
	i.id, i.type, i.number
`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts an account and, when present, its linked instrument.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var instrumentID *string
	if account.Instrument != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO instruments (id, type, number) VALUES ($1, $2, $3)`,
			account.Instrument.ID,
			string(account.Instrument.Type),
			account.Instrument.Number,
		)
		if err != nil {
			return err
		}
		instrumentID = &account.Instrument.ID
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO accounts (id, user_id, instrument_id, balance, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID,
		account.UserID,
		instrumentID,
		decimalToNumeric(account.Balance),
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts a
		LEFT JOIN instruments i ON i.id = a.instrument_id
		WHERE a.id = $1
	`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}

	return account, err
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock on the
// account row. The instrument row is not locked.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT ` + accountColumns + `
		FROM accounts a
		LEFT JOIN instruments i ON i.id = a.instrument_id
		WHERE a.id = $1
		FOR UPDATE OF a
	`

	account, err := scanAccount(pgxTx.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}

	return account, err
}

// GetByIDsForUpdate locks and retrieves multiple accounts. Rows are returned
// in id order, matching the caller's sorted lock order; missing ids are
// silently absent from the result.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT ` + accountColumns + `
		FROM accounts a
		LEFT JOIN instruments i ON i.id = a.instrument_id
		WHERE a.id = ANY($1)
		ORDER BY a.id
		FOR UPDATE OF a
	`

	rows, err := pgxTx.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// ListByUser retrieves all accounts owned by a user.
func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts a
		LEFT JOIN instruments i ON i.id = a.instrument_id
		WHERE a.user_id = $1
		ORDER BY a.created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateBalance writes the new balance of an account inside the transaction.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1`,
		id,
		decimalToNumeric(balance),
		timeToPgTimestamptz(updatedAt),
	)

	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		account          domain.Account
		balance          pgtype.Numeric
		createdAt        pgtype.Timestamptz
		updatedAt        pgtype.Timestamptz
		instrumentID     *string
		instrumentType   *string
		instrumentNumber *string
	)

	err := row.Scan(
		&account.ID,
		&account.UserID,
		&balance,
		&createdAt,
		&updatedAt,
		&instrumentID,
		&instrumentType,
		&instrumentNumber,
	)
	if err != nil {
		return nil, err
	}

	account.Balance = numericToDecimal(balance)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	if instrumentID != nil {
		account.Instrument = &domain.Instrument{
			ID:     *instrumentID,
			Type:   domain.InstrumentType(*instrumentType),
			Number: *instrumentNumber,
		}
	}

	return &account, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
