package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankservice/internal/adapter/http/handler"
	apimiddleware "github.com/iho/bankservice/internal/adapter/http/middleware"
	"github.com/iho/bankservice/internal/domain"
	"github.com/iho/bankservice/internal/infrastructure/auth"
	"github.com/iho/bankservice/internal/infrastructure/metrics"
	"github.com/iho/bankservice/internal/usecase"
	"github.com/iho/bankservice/internal/usecase/mocks"
)

type routerFixture struct {
	cfg         RouterConfig
	accountRepo *mocks.MockAccountRepository
	jwtManager  *auth.JWTManager
}

func newRouterFixture(opts ...func(*RouterConfig)) *routerFixture {
	accountRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	userRepo := mocks.NewMockUserRepository()
	idGen := mocks.NewMockIDGenerator()

	ledger := usecase.NewLedger(txnRepo, idGen)
	feeCalc := usecase.NewFeeCalculator(decimal.RequireFromString("0.01"))
	requestIdentity := usecase.NewRequestIdentity()
	engine := usecase.NewTransactionEngine(mocks.NewMockTransactionManager(), accountRepo, ledger, feeCalc, requestIdentity)
	accountUC := usecase.NewAccountUseCase(accountRepo, ledger, requestIdentity, idGen)
	userUC := usecase.NewUserUseCase(userRepo, idGen)

	jwtManager := auth.NewJWTManager("test-secret", time.Minute)
	m := metrics.NewWith(prometheus.NewRegistry())

	cfg := RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(engine, m),
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager, m),
		HealthHandler:      &handler.HealthHandler{},
		JWTManager:         jwtManager,
		Metrics:            m,
		Logger:             zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &routerFixture{
		cfg:         cfg,
		accountRepo: accountRepo,
		jwtManager:  jwtManager,
	}
}

func (f *routerFixture) token(t *testing.T, userID string) string {
	t.Helper()

	token, err := f.jwtManager.Generate(&domain.User{ID: userID, Email: userID + "@example.com", Name: "Test"})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return token
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	f := newRouterFixture()
	router := NewRouter(f.cfg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	f := newRouterFixture(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	})
	router := NewRouter(f.cfg)

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_ProtectedRoutesRequireToken(t *testing.T) {
	f := newRouterFixture()
	router := NewRouter(f.cfg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestNewRouter_WithdrawEndToEnd(t *testing.T) {
	f := newRouterFixture()
	f.accountRepo.Put(&domain.Account{
		ID:      "acc-1",
		UserID:  "user-1",
		Balance: decimal.RequireFromString("1000.00"),
	})
	router := NewRouter(f.cfg)

	body := `{"account_id":"acc-1","amount":"100.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/withdraw", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token(t, "user-1"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Balance string `json:"balance"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Balance != "900.00" {
		t.Fatalf("expected balance 900.00, got %s", resp.Balance)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	f := newRouterFixture(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	})
	f.accountRepo.Put(&domain.Account{
		ID:      "acc-1",
		UserID:  "user-1",
		Balance: decimal.RequireFromString("1000.00"),
	})
	router := NewRouter(f.cfg)

	body := `{"account_id":"acc-1","amount":"10.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/withdraw", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token(t, "user-1"))
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	f := newRouterFixture()
	router := NewRouter(f.cfg)

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/me",
		"GET /api/v1/accounts/",
		"POST /api/v1/accounts/withdraw",
		"POST /api/v1/accounts/transfer",
		"GET /api/v1/accounts/{id}/transactions",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
