package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankservice/internal/adapter/http/dto"
	"github.com/iho/bankservice/internal/usecase"
)

// AccountHandler handles account read endpoints.
type AccountHandler struct {
	accountUC *usecase.AccountUseCase
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC *usecase.AccountUseCase) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// List returns the caller's accounts with their instrument details.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	user, accounts, err := h.accountUC.ListAccounts(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserAccountFromDomain(user, accounts))
}

// ListTransactions returns the ledger history of one of the caller's accounts.
func (h *AccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	records, err := h.accountUC.ListTransactions(r.Context(), accountID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(records))
}
