package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankservice/internal/domain"
)

// TransactionEngine orchestrates withdrawals and transfers: authorization,
// fee computation, balance mutation and ledger write happen inside one
// database transaction. A failure at any step rolls everything back; the
// engine never retries on its own.
type TransactionEngine struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	ledger      *Ledger
	feeCalc     *FeeCalculator
	identity    IdentityContext
}

// NewTransactionEngine creates a new TransactionEngine.
func NewTransactionEngine(
	txManager TransactionManager,
	accountRepo AccountRepository,
	ledger *Ledger,
	feeCalc *FeeCalculator,
	identity IdentityContext,
) *TransactionEngine {
	return &TransactionEngine{
		txManager:   txManager,
		accountRepo: accountRepo,
		ledger:      ledger,
		feeCalc:     feeCalc,
		identity:    identity,
	}
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	AccountID string
	Amount    decimal.Decimal
}

// Withdraw debits the caller's account by amount plus fee and records the
// withdrawal. Returns the account with its updated balance.
func (e *TransactionEngine) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Account, error) {
	tx, err := e.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := e.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := e.identity.Authorize(ctx, account); err != nil {
		return nil, err
	}

	fee := e.feeCalc.CalculateFee(input.Amount, account.Instrument)
	total := input.Amount.Add(fee)

	newBalance, err := debit(account, total)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := e.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	if _, err := e.ledger.Record(ctx, tx, account, input.Amount, fee, domain.KindWithdrawal); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	account.UpdatedAt = now

	return account, nil
}

// TransferInput represents input for a transfer between two accounts.
type TransferInput struct {
	SourceAccountID string
	TargetAccountID string
	Amount          decimal.Decimal
}

// Transfer moves amount from the caller's source account to the target
// account. The fee is priced on the source's instrument only and debited
// only from the source; the target is credited the nominal amount. Both
// ledger records carry the same fee value for audit symmetry. Returns the
// source account with its updated balance.
func (e *TransactionEngine) Transfer(ctx context.Context, input TransferInput) (*domain.Account, error) {
	if input.SourceAccountID == input.TargetAccountID {
		return nil, domain.ErrSameAccount
	}

	tx, err := e.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock both rows in sorted id order so two opposite transfers cannot
	// deadlock each other.
	ids := []string{input.SourceAccountID, input.TargetAccountID}
	sort.Strings(ids)

	accounts, err := e.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	source := byID[input.SourceAccountID]
	if source == nil {
		return nil, fmt.Errorf("source %w", domain.ErrAccountNotFound)
	}

	// Only the debited side is ownership-checked; the target is not.
	if err := e.identity.Authorize(ctx, source); err != nil {
		return nil, err
	}

	target := byID[input.TargetAccountID]
	if target == nil {
		return nil, fmt.Errorf("target %w", domain.ErrAccountNotFound)
	}

	fee := e.feeCalc.CalculateFee(input.Amount, source.Instrument)
	total := input.Amount.Add(fee)

	sourceBalance, err := debit(source, total)
	if err != nil {
		return nil, err
	}
	targetBalance := target.Balance.Add(input.Amount)

	now := time.Now().UTC()
	if err := e.accountRepo.UpdateBalance(ctx, tx, source.ID, sourceBalance, now); err != nil {
		return nil, err
	}
	if err := e.accountRepo.UpdateBalance(ctx, tx, target.ID, targetBalance, now); err != nil {
		return nil, err
	}

	if _, err := e.ledger.Record(ctx, tx, source, input.Amount, fee, domain.KindTransfer); err != nil {
		return nil, err
	}
	if _, err := e.ledger.Record(ctx, tx, target, input.Amount, fee, domain.KindTransfer); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	source.Balance = sourceBalance
	source.UpdatedAt = now
	target.Balance = targetBalance
	target.UpdatedAt = now

	return source, nil
}

// debit returns the balance after subtracting total, rejecting any debit
// that would leave the account negative. The account is left untouched on
// rejection.
func debit(account *domain.Account, total decimal.Decimal) (decimal.Decimal, error) {
	newBalance := account.Balance.Sub(total)
	if newBalance.IsNegative() {
		return decimal.Decimal{}, &domain.InsufficientBalanceError{
			Attempted: total,
			Balance:   account.Balance,
		}
	}

	return newBalance, nil
}
