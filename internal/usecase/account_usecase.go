package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankservice/internal/domain"
)

// AccountUseCase handles read-side account operations for the caller.
type AccountUseCase struct {
	accountRepo AccountRepository
	ledger      *Ledger
	identity    IdentityContext
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, ledger *Ledger, identity IdentityContext, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		ledger:      ledger,
		identity:    identity,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	UserID         string
	OpeningBalance decimal.Decimal
	Instrument     *domain.Instrument
}

// CreateAccount creates a new account for a user.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if input.OpeningBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:         uc.idGen.Generate(),
		UserID:     input.UserID,
		Balance:    input.OpeningBalance,
		Instrument: input.Instrument,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// ListAccounts returns all accounts owned by the caller. A caller with no
// accounts is reported as not found, matching the API contract.
func (uc *AccountUseCase) ListAccounts(ctx context.Context) (*domain.User, []*domain.Account, error) {
	user, err := uc.identity.Current(ctx)
	if err != nil {
		return nil, nil, err
	}

	accounts, err := uc.accountRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	if len(accounts) == 0 {
		return nil, nil, fmt.Errorf("%w for user %s", domain.ErrAccountNotFound, user.ID)
	}

	return user, accounts, nil
}

// ListTransactions returns the ledger history of one of the caller's
// accounts. Ownership is checked before anything is read.
func (uc *AccountUseCase) ListTransactions(ctx context.Context, accountID string, limit, offset int) ([]*domain.TransactionRecord, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := uc.identity.Authorize(ctx, account); err != nil {
		return nil, err
	}

	return uc.ledger.ListByAccount(ctx, accountID, limit, offset)
}
