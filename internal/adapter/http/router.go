package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/pocketledger/internal/adapter/http/handler"
	"github.com/iho/pocketledger/internal/adapter/http/middleware"
	"github.com/iho/pocketledger/internal/infrastructure/metrics"
	"github.com/iho/pocketledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	HealthHandler   *handler.HealthHandler
	UserHandler     *handler.UserHandler
	CurrencyHandler *handler.CurrencyHandler
	RateHandler     *handler.RateHandler
	ExpenseHandler  *handler.ExpenseHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	// TokenVerifier enables bearer auth. When nil the acting user is read
	// from the X-User-ID header.
	TokenVerifier middleware.TokenVerifier

	// RateLimiter throttles the manual rate refresh.
	RateLimiter *middleware.RateLimiter

	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	r.Use(middleware.Recovery)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	authenticate := middleware.TrustedHeaderAuth
	if cfg.TokenVerifier != nil {
		authenticate = middleware.AuthMiddleware(cfg.TokenVerifier)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/currencies", cfg.CurrencyHandler.List)

		r.Route("/rates", func(r chi.Router) {
			r.Get("/", cfg.RateHandler.Current)
			r.Get("/convert", cfg.RateHandler.Convert)

			refresh := http.Handler(http.HandlerFunc(cfg.RateHandler.Refresh))
			if cfg.RateLimiter != nil {
				refresh = cfg.RateLimiter.Limit(refresh)
			}
			r.Method(http.MethodPost, "/refresh", refresh)
		})

		r.Post("/users", cfg.UserHandler.Create)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			// Idempotency middleware for mutating requests
			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
			}

			r.Get("/users/me", cfg.UserHandler.Me)
			r.Put("/users/me/currency", cfg.CurrencyHandler.ChangeUserCurrency)

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", cfg.ExpenseHandler.Create)
				r.Get("/", cfg.ExpenseHandler.List)
			})

			r.Post("/amounts/resolve", cfg.ExpenseHandler.Resolve)
		})
	})

	return r
}
