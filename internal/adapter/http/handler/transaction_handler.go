package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/bankservice/internal/adapter/http/dto"
	"github.com/iho/bankservice/internal/domain"
	"github.com/iho/bankservice/internal/infrastructure/metrics"
	"github.com/iho/bankservice/internal/usecase"
)

// TransactionService is the slice of the engine the handler needs.
type TransactionService interface {
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Account, error)
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Account, error)
}

// TransactionHandler handles the money-moving HTTP requests.
type TransactionHandler struct {
	engine  TransactionService
	metrics *metrics.Metrics
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(engine TransactionService, m *metrics.Metrics) *TransactionHandler {
	return &TransactionHandler{
		engine:  engine,
		metrics: m,
	}
}

// Withdraw debits the caller's account.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid withdrawal request", err.Error())
		return
	}

	account, err := h.engine.Withdraw(r.Context(), req.ToUseCaseInput())
	if err != nil {
		h.metrics.TransactionErrors.WithLabelValues(errorType(err)).Inc()
		writeError(w, mapDomainError(err), "failed to withdraw", err.Error())

		return
	}

	h.metrics.WithdrawalsTotal.Inc()
	amount, _ := req.Amount.Float64()
	h.metrics.TransactionAmount.WithLabelValues(string(domain.KindWithdrawal)).Observe(amount)

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Transfer moves money from the caller's account to another.
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid transfer request", err.Error())
		return
	}

	source, err := h.engine.Transfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		h.metrics.TransactionErrors.WithLabelValues(errorType(err)).Inc()
		writeError(w, mapDomainError(err), "failed to transfer", err.Error())

		return
	}

	h.metrics.TransfersTotal.Inc()
	amount, _ := req.Amount.Float64()
	h.metrics.TransactionAmount.WithLabelValues(string(domain.KindTransfer)).Observe(amount)

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(source))
}

func errorType(err error) string {
	switch mapDomainError(err) {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusBadRequest:
		return "invalid"
	default:
		return "internal"
	}
}
