package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/bankservice/internal/adapter/http/dto"
	"github.com/iho/bankservice/internal/identity"
	"github.com/iho/bankservice/internal/infrastructure/auth"
	"github.com/iho/bankservice/internal/infrastructure/metrics"
	"github.com/iho/bankservice/internal/usecase"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userUC     *usecase.UserUseCase
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userUC *usecase.UserUseCase, jwtManager *auth.JWTManager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		userUC:     userUC,
		jwtManager: jwtManager,
		metrics:    m,
	}
}

// Login verifies credentials and issues a JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), usecase.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.metrics.AuthAttempts.WithLabelValues("failure").Inc()
		writeError(w, http.StatusUnauthorized, "invalid credentials", "")

		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	h.metrics.AuthAttempts.WithLabelValues("success").Inc()

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}

// GetCurrentUser returns the current authenticated user
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}
