package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/bankservice/internal/domain"
	"github.com/iho/bankservice/internal/usecase"
)

// WithdrawRequest represents a request to withdraw from an account.
type WithdrawRequest struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// Validate checks the request at the boundary. Amounts must be strictly
// positive before the engine ever sees them.
func (r *WithdrawRequest) Validate() error {
	if r.AccountID == "" {
		return domain.ErrMissingAccount
	}

	return domain.ValidateAmount(r.Amount)
}

// ToUseCaseInput converts to use case input.
func (r *WithdrawRequest) ToUseCaseInput() usecase.WithdrawInput {
	return usecase.WithdrawInput{
		AccountID: r.AccountID,
		Amount:    r.Amount,
	}
}

// TransferRequest represents a request to transfer between accounts.
type TransferRequest struct {
	SourceAccountID string          `json:"source_account_id"`
	TargetAccountID string          `json:"target_account_id"`
	Amount          decimal.Decimal `json:"amount"`
}

// Validate checks the request at the boundary.
func (r *TransferRequest) Validate() error {
	if r.SourceAccountID == "" || r.TargetAccountID == "" {
		return domain.ErrMissingAccount
	}

	return domain.ValidateAmount(r.Amount)
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		SourceAccountID: r.SourceAccountID,
		TargetAccountID: r.TargetAccountID,
		Amount:          r.Amount,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
