package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a customer bank account. The balance is only ever
// mutated by the transaction engine; the non-negative invariant is enforced
// there, not here, so it holds regardless of the storage technology.
type Account struct {
	ID         string
	UserID     string
	Balance    decimal.Decimal
	Instrument *Instrument
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
