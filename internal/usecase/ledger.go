package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankservice/internal/domain"
)

// Ledger writes the append-only audit trail of completed transactions.
// Records are created inside the same unit of work as the balance mutation
// they document.
type Ledger struct {
	transactionRepo TransactionRepository
	idGen           IDGenerator
}

// NewLedger creates a new Ledger.
func NewLedger(transactionRepo TransactionRepository, idGen IDGenerator) *Ledger {
	return &Ledger{
		transactionRepo: transactionRepo,
		idGen:           idGen,
	}
}

// Record writes one transaction record for the given account, stamped with
// the current UTC time. The account itself is never mutated here.
func (l *Ledger) Record(ctx context.Context, tx Transaction, account *domain.Account, amount, fee decimal.Decimal, kind domain.TransactionKind) (*domain.TransactionRecord, error) {
	record := &domain.TransactionRecord{
		ID:        l.idGen.Generate(),
		AccountID: account.ID,
		Amount:    amount,
		Fee:       fee,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}

	if err := l.transactionRepo.Create(ctx, tx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// ListByAccount returns the recorded transactions for an account, newest
// first.
func (l *Ledger) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TransactionRecord, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return l.transactionRepo.ListByAccount(ctx, accountID, limit, offset)
}
