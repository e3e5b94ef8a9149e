package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger record.
type TransactionKind string

const (
	KindWithdrawal TransactionKind = "WITHDRAWAL"
	KindTransfer   TransactionKind = "TRANSFER"
)

// TransactionRecord is the immutable audit record of a completed balance
// mutation. Amount is the nominal transaction amount; Fee is tracked
// separately even though the account was debited amount + fee.
type TransactionRecord struct {
	ID        string
	AccountID string
	Amount    decimal.Decimal
	Fee       decimal.Decimal
	Kind      TransactionKind
	CreatedAt time.Time
}
