package dto

import (
	"time"

	"github.com/iho/bankservice/internal/domain"
)

// AccountDetailResponse represents one account in the caller's overview.
// Balances are rendered with two decimal places.
type AccountDetailResponse struct {
	AccountID      string `json:"account_id"`
	CardNumber     string `json:"card_number,omitempty"`
	CardType       string `json:"card_type,omitempty"`
	CurrentBalance string `json:"current_balance"`
}

// UserAccountResponse represents the caller and all their accounts.
type UserAccountResponse struct {
	UserName       string                  `json:"user_name"`
	UserEmail      string                  `json:"user_email"`
	AccountDetails []AccountDetailResponse `json:"account_details"`
}

// UserAccountFromDomain converts a user and their accounts to a response.
func UserAccountFromDomain(user *domain.User, accounts []*domain.Account) *UserAccountResponse {
	details := make([]AccountDetailResponse, len(accounts))
	for i, a := range accounts {
		detail := AccountDetailResponse{
			AccountID:      a.ID,
			CurrentBalance: a.Balance.StringFixed(2),
		}
		if a.Instrument != nil {
			detail.CardNumber = a.Instrument.Number
			detail.CardType = string(a.Instrument.Type)
		}
		details[i] = detail
	}

	return &UserAccountResponse{
		UserName:       user.Name,
		UserEmail:      user.Email,
		AccountDetails: details,
	}
}

// AccountResponse represents a single account after a transaction.
type AccountResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Balance:   a.Balance.StringFixed(2),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// TransactionResponse represents a ledger record in API responses.
type TransactionResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Amount    string    `json:"amount"`
	Fee       string    `json:"fee"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionFromDomain converts a domain record to a response.
func TransactionFromDomain(r *domain.TransactionRecord) *TransactionResponse {
	return &TransactionResponse{
		ID:        r.ID,
		AccountID: r.AccountID,
		Amount:    r.Amount.StringFixed(2),
		Fee:       r.Fee.StringFixed(2),
		Kind:      string(r.Kind),
		CreatedAt: r.CreatedAt,
	}
}

// TransactionsFromDomain converts domain records to responses.
func TransactionsFromDomain(records []*domain.TransactionRecord) []*TransactionResponse {
	result := make([]*TransactionResponse, len(records))
	for i, r := range records {
		result[i] = TransactionFromDomain(r)
	}
	return result
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
}
