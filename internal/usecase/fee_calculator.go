package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/iho/bankservice/internal/domain"
)

// FeeCalculator derives the fee owed for a transaction from the account's
// linked instrument. Credit card operations are charged a configurable
// percentage of the amount; everything else is free.
type FeeCalculator struct {
	creditCardRate decimal.Decimal
}

// NewFeeCalculator creates a new FeeCalculator with the given credit card
// fee rate (e.g. 0.01 for 1%).
func NewFeeCalculator(creditCardRate decimal.Decimal) *FeeCalculator {
	return &FeeCalculator{creditCardRate: creditCardRate}
}

// CalculateFee returns the fee for amount given the account's instrument.
// Accounts without a linked instrument are non-fee-bearing.
func (c *FeeCalculator) CalculateFee(amount decimal.Decimal, instrument *domain.Instrument) decimal.Decimal {
	if instrument != nil && instrument.Type == domain.InstrumentCredit {
		return amount.Mul(c.creditCardRate)
	}

	return decimal.Zero
}
