package domain

// InstrumentType classifies the payment instrument linked to an account.
type InstrumentType string

const (
	InstrumentDebit  InstrumentType = "DEBIT"
	InstrumentCredit InstrumentType = "CREDIT"
)

// Instrument is a payment card linked to an account. It is read-only from
// the engine's perspective and determines the fee policy.
type Instrument struct {
	ID     string
	Type   InstrumentType
	Number string
}
