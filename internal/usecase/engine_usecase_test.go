package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankservice/internal/domain"
	"github.com/iho/bankservice/internal/identity"
	"github.com/iho/bankservice/internal/usecase"
	"github.com/iho/bankservice/internal/usecase/mocks"
)

const defaultFeeRate = "0.01"

type engineFixture struct {
	engine      *usecase.TransactionEngine
	accountRepo *mocks.MockAccountRepository
	txnRepo     *mocks.MockTransactionRepository
	txManager   *mocks.MockTransactionManager
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	accountRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	txManager := mocks.NewMockTransactionManager()
	ledger := usecase.NewLedger(txnRepo, mocks.NewMockIDGenerator())
	feeCalc := usecase.NewFeeCalculator(decimal.RequireFromString(defaultFeeRate))

	engine := usecase.NewTransactionEngine(txManager, accountRepo, ledger, feeCalc, usecase.NewRequestIdentity())

	return &engineFixture{
		engine:      engine,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		txManager:   txManager,
	}
}

func callerContext(userID string) context.Context {
	return identity.WithUser(context.Background(), &domain.User{ID: userID, Name: "Test User", Email: "test@example.com"})
}

func debitAccount(id, userID, balance string) *domain.Account {
	return &domain.Account{
		ID:      id,
		UserID:  userID,
		Balance: decimal.RequireFromString(balance),
		Instrument: &domain.Instrument{
			ID:     "inst-" + id,
			Type:   domain.InstrumentDebit,
			Number: "4111-1111",
		},
	}
}

func creditAccount(id, userID, balance string) *domain.Account {
	acc := debitAccount(id, userID, balance)
	acc.Instrument.Type = domain.InstrumentCredit
	return acc
}

func TestTransactionEngine_Withdraw_DebitCard(t *testing.T) {
	f := newEngineFixture(t)
	f.accountRepo.Put(debitAccount("acc-1", "user-1", "1000.00"))

	account, err := f.engine.Withdraw(callerContext("user-1"), usecase.WithdrawInput{
		AccountID: "acc-1",
		Amount:    decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !account.Balance.Equal(decimal.RequireFromString("900.00")) {
		t.Errorf("expected balance 900.00, got %s", account.Balance)
	}

	records := f.txnRepo.ByAccount("acc-1")
	if len(records) != 1 {
		t.Fatalf("expected exactly one ledger record, got %d", len(records))
	}
	if !records[0].Amount.Equal(decimal.RequireFromString("100.00")) || !records[0].Fee.IsZero() {
		t.Errorf("expected record amount 100.00 fee 0, got amount %s fee %s", records[0].Amount, records[0].Fee)
	}
	if records[0].Kind != domain.KindWithdrawal {
		t.Errorf("expected WITHDRAWAL record, got %s", records[0].Kind)
	}

	if !f.txManager.Last.Committed {
		t.Error("expected transaction to be committed")
	}
}

func TestTransactionEngine_Withdraw_CreditCardFee(t *testing.T) {
	f := newEngineFixture(t)
	f.accountRepo.Put(creditAccount("acc-1", "user-1", "2000.00"))

	account, err := f.engine.Withdraw(callerContext("user-1"), usecase.WithdrawInput{
		AccountID: "acc-1",
		Amount:    decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !account.Balance.Equal(decimal.RequireFromString("1899.00")) {
		t.Errorf("expected balance 1899.00 after 1%% fee, got %s", account.Balance)
	}

	records := f.txnRepo.ByAccount("acc-1")
	if len(records) != 1 {
		t.Fatalf("expected one ledger record, got %d", len(records))
	}
	if !records[0].Fee.Equal(decimal.RequireFromString("1.00")) {
		t.Errorf("expected fee 1.00, got %s", records[0].Fee)
	}
	if !records[0].Amount.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("expected record to keep nominal amount 100.00, got %s", records[0].Amount)
	}
}

func TestTransactionEngine_Withdraw_InsufficientBalance(t *testing.T) {
	f := newEngineFixture(t)
	f.accountRepo.Put(debitAccount("acc-1", "user-1", "1000.00"))

	_, err := f.engine.Withdraw(callerContext("user-1"), usecase.WithdrawInput{
		AccountID: "acc-1",
		Amount:    decimal.RequireFromString("2000.00"),
	})

	var insufficient *domain.InsufficientBalanceError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientBalanceError, got %v", err)
	}
	if !insufficient.Attempted.Equal(decimal.RequireFromString("2000.00")) {
		t.Errorf("expected attempted total 2000.00, got %s", insufficient.Attempted)
	}
	if !insufficient.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("expected balance 1000.00, got %s", insufficient.Balance)
	}

	account, _ := f.accountRepo.GetByID(context.Background(), "acc-1")
	if !account.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("expected balance unchanged at 1000.00, got %s", account.Balance)
	}
	if len(f.txnRepo.Records) != 0 {
		t.Errorf("expected no ledger records, got %d", len(f.txnRepo.Records))
	}
	if len(f.accountRepo.UpdateBalanceCalls) != 0 {
		t.Errorf("expected no balance writes, got %v", f.accountRepo.UpdateBalanceCalls)
	}
	if f.txManager.Last.Committed {
		t.Error("expected transaction not to be committed")
	}
	if !f.txManager.Last.RolledBack {
		t.Error("expected transaction to be rolled back")
	}
}

func TestTransactionEngine_Withdraw_AccountNotFound(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.engine.Withdraw(callerContext("user-1"), usecase.WithdrawInput{
		AccountID: "missing",
		Amount:    decimal.RequireFromString("10.00"),
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestTransactionEngine_Withdraw_Unauthorized(t *testing.T) {
	f := newEngineFixture(t)
	f.accountRepo.Put(debitAccount("acc-1", "user-1", "1000.00"))

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"different owner", callerContext("user-2")},
		{"no identity bound", context.Background()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Withdraw(tt.ctx, usecase.WithdrawInput{
				AccountID: "acc-1",
				Amount:    decimal.RequireFromString("10.00"),
			})
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
			if len(f.txnRepo.Records) != 0 {
				t.Errorf("expected no ledger records, got %d", len(f.txnRepo.Records))
			}
		})
	}
}

func TestTransactionEngine_Withdraw_LedgerFailureRollsBack(t *testing.T) {
	f := newEngineFixture(t)
	f.accountRepo.Put(debitAccount("acc-1", "user-1", "1000.00"))

	ledgerErr := errors.New("ledger write failed")
	f.txnRepo.CreateFunc = func(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error {
		return ledgerErr
	}

	_, err := f.engine.Withdraw(callerContext("user-1"), usecase.WithdrawInput{
		AccountID: "acc-1",
		Amount:    decimal.RequireFromString("100.00"),
	})
	if !errors.Is(err, ledgerErr) {
		t.Fatalf("expected ledger error to propagate, got %v", err)
	}

	if f.txManager.Last.Committed {
		t.Error("expected transaction not to be committed")
	}
	if !f.txManager.Last.RolledBack {
		t.Error("expected transaction to be rolled back")
	}
}

func TestTransactionEngine_Transfer_CreditSourceFee(t *testing.T) {
	f := newEngineFixture(t)
	f.accountRepo.Put(creditAccount("acc-src", "user-1", "2000.00"))
	f.accountRepo.Put(debitAccount("acc-dst", "user-2", "1000.00"))

	source, err := f.engine.Transfer(callerContext("user-1"), usecase.TransferInput{
		SourceAccountID: "acc-src",
		TargetAccountID: "acc-dst",
		Amount:          decimal.RequireFromString("200.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !source.Balance.Equal(decimal.RequireFromString("1798.00")) {
		t.Errorf("expected source balance 1798.00, got %s", source.Balance)
	}

	target, _ := f.accountRepo.GetByID(context.Background(), "acc-dst")
	if !target.Balance.Equal(decimal.RequireFromString("1200.00")) {
		t.Errorf("expected target balance 1200.00, got %s", target.Balance)
	}

	srcRecords := f.txnRepo.ByAccount("acc-src")
	dstRecords := f.txnRepo.ByAccount("acc-dst")
	if len(srcRecords) != 1 || len(dstRecords) != 1 {
		t.Fatalf("expected one record per side, got %d/%d", len(srcRecords), len(dstRecords))
	}

	// Both records carry the same fee even though only the source was
	// charged it.
	fee := decimal.RequireFromString("2.00")
	if !srcRecords[0].Fee.Equal(fee) || !dstRecords[0].Fee.Equal(fee) {
		t.Errorf("expected fee 2.00 on both records, got %s/%s", srcRecords[0].Fee, dstRecords[0].Fee)
	}
	if srcRecords[0].Kind != domain.KindTransfer || dstRecords[0].Kind != domain.KindTransfer {
		t.Errorf("expected TRANSFER records, got %s/%s", srcRecords[0].Kind, dstRecords[0].Kind)
	}
}

func TestTransactionEngine_Transfer_FeePricedOnSourceOnly(t *testing.T) {
	f := newEngineFixture(t)
	// Debit source, credit target: no fee despite the target's card type.
	f.accountRepo.Put(debitAccount("acc-src", "user-1", "500.00"))
	f.accountRepo.Put(creditAccount("acc-dst", "user-2", "0.00"))

	source, err := f.engine.Transfer(callerContext("user-1"), usecase.TransferInput{
		SourceAccountID: "acc-src",
		TargetAccountID: "acc-dst",
		Amount:          decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !source.Balance.Equal(decimal.RequireFromString("400.00")) {
		t.Errorf("expected source balance 400.00, got %s", source.Balance)
	}

	for _, record := range f.txnRepo.Records {
		if !record.Fee.IsZero() {
			t.Errorf("expected zero fee on record for %s, got %s", record.AccountID, record.Fee)
		}
	}
}

func TestTransactionEngine_Transfer_TargetNotFound(t *testing.T) {
	f := newEngineFixture(t)
	f.accountRepo.Put(debitAccount("acc-src", "user-1", "1000.00"))

	_, err := f.engine.Transfer(callerContext("user-1"), usecase.TransferInput{
		SourceAccountID: "acc-src",
		TargetAccountID: "acc-missing",
		Amount:          decimal.RequireFromString("100.00"),
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "target account not found") {
		t.Errorf("expected target-side message, got %q", err.Error())
	}

	source, _ := f.accountRepo.GetByID(context.Background(), "acc-src")
	if !source.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("expected source balance unchanged, got %s", source.Balance)
	}
	if len(f.txnRepo.Records) != 0 {
		t.Errorf("expected no ledger records, got %d", len(f.txnRepo.Records))
	}
}

func TestTransactionEngine_Transfer_SourceNotFound(t *testing.T) {
	f := newEngineFixture(t)
	f.accountRepo.Put(debitAccount("acc-dst", "user-2", "1000.00"))

	_, err := f.engine.Transfer(callerContext("user-1"), usecase.TransferInput{
		SourceAccountID: "acc-missing",
		TargetAccountID: "acc-dst",
		Amount:          decimal.RequireFromString("100.00"),
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "source account not found") {
		t.Errorf("expected source-side message, got %q", err.Error())
	}
}

func TestTransactionEngine_Transfer_UnauthorizedBeforeTargetLookup(t *testing.T) {
	f := newEngineFixture(t)
	f.accountRepo.Put(debitAccount("acc-src", "user-1", "1000.00"))

	// The target is missing AND the caller does not own the source; the
	// authorization failure must win because it is checked first.
	_, err := f.engine.Transfer(callerContext("user-2"), usecase.TransferInput{
		SourceAccountID: "acc-src",
		TargetAccountID: "acc-missing",
		Amount:          decimal.RequireFromString("100.00"),
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTransactionEngine_Transfer_InsufficientBalance(t *testing.T) {
	f := newEngineFixture(t)
	f.accountRepo.Put(creditAccount("acc-src", "user-1", "100.00"))
	f.accountRepo.Put(debitAccount("acc-dst", "user-2", "0.00"))

	// 100 + 1% fee exceeds the balance even though the nominal amount fits.
	_, err := f.engine.Transfer(callerContext("user-1"), usecase.TransferInput{
		SourceAccountID: "acc-src",
		TargetAccountID: "acc-dst",
		Amount:          decimal.RequireFromString("100.00"),
	})

	var insufficient *domain.InsufficientBalanceError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientBalanceError, got %v", err)
	}
	if !insufficient.Attempted.Equal(decimal.RequireFromString("101.00")) {
		t.Errorf("expected attempted total 101.00, got %s", insufficient.Attempted)
	}

	if len(f.accountRepo.UpdateBalanceCalls) != 0 {
		t.Errorf("expected no balance writes, got %v", f.accountRepo.UpdateBalanceCalls)
	}
	if len(f.txnRepo.Records) != 0 {
		t.Errorf("expected no ledger records, got %d", len(f.txnRepo.Records))
	}
}

func TestTransactionEngine_Transfer_SameAccount(t *testing.T) {
	f := newEngineFixture(t)
	f.accountRepo.Put(debitAccount("acc-1", "user-1", "1000.00"))

	_, err := f.engine.Transfer(callerContext("user-1"), usecase.TransferInput{
		SourceAccountID: "acc-1",
		TargetAccountID: "acc-1",
		Amount:          decimal.RequireFromString("100.00"),
	})
	if !errors.Is(err, domain.ErrSameAccount) {
		t.Fatalf("expected ErrSameAccount, got %v", err)
	}
}

func TestTransactionEngine_Transfer_TargetNotOwnershipChecked(t *testing.T) {
	f := newEngineFixture(t)
	f.accountRepo.Put(debitAccount("acc-src", "user-1", "1000.00"))
	f.accountRepo.Put(debitAccount("acc-dst", "user-9", "0.00"))

	// Crediting an account owned by someone else is allowed.
	if _, err := f.engine.Transfer(callerContext("user-1"), usecase.TransferInput{
		SourceAccountID: "acc-src",
		TargetAccountID: "acc-dst",
		Amount:          decimal.RequireFromString("50.00"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target, _ := f.accountRepo.GetByID(context.Background(), "acc-dst")
	if !target.Balance.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("expected target balance 50.00, got %s", target.Balance)
	}
}
