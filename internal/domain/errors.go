package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")

	// Transaction errors
	ErrSameAccount   = errors.New("cannot transfer to same account")
	ErrInvalidAmount = errors.New("amount must be positive")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)

// InsufficientBalanceError reports a debit that would drive an account
// balance negative. Attempted is the full amount the engine tried to debit
// (nominal amount plus fee); Balance is the balance before the attempt.
type InsufficientBalanceError struct {
	Attempted decimal.Decimal
	Balance   decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("cannot subtract %s: current balance %s, resulting balance would be negative",
		e.Attempted, e.Balance)
}

// Is makes the typed error match the ErrInsufficientBalance sentinel.
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
