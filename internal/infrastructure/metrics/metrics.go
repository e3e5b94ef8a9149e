package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	WithdrawalsTotal  prometheus.Counter
	TransfersTotal    prometheus.Counter
	TransactionAmount *prometheus.HistogramVec
	TransactionErrors *prometheus.CounterVec
	FeesCharged       prometheus.Counter

	// Account metrics
	AccountsCreated prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates and registers all Prometheus metrics on the given
// registerer. Tests pass a fresh registry to avoid duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Transaction metrics
		WithdrawalsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankservice_withdrawals_total",
			Help: "Total number of completed withdrawals",
		}),
		TransfersTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankservice_transfers_total",
			Help: "Total number of completed transfers",
		}),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankservice_transaction_amount",
				Help:    "Transaction amounts by kind",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"kind"},
		),
		TransactionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankservice_transaction_errors_total",
				Help: "Total number of failed transactions by error type",
			},
			[]string{"error_type"},
		),
		FeesCharged: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankservice_fees_charged_total",
			Help: "Total number of transactions that carried a fee",
		}),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankservice_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankservice_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankservice_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Authentication metrics
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankservice_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankservice_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
