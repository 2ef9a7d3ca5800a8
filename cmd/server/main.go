package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iho/pocketledger/internal/adapter/feed"
	httpAdapter "github.com/iho/pocketledger/internal/adapter/http"
	"github.com/iho/pocketledger/internal/adapter/http/handler"
	"github.com/iho/pocketledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/pocketledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/pocketledger/internal/adapter/repository/redis"
	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/infrastructure/auth"
	"github.com/iho/pocketledger/internal/infrastructure/config"
	"github.com/iho/pocketledger/internal/infrastructure/eventpublisher"
	"github.com/iho/pocketledger/internal/infrastructure/logger"
	"github.com/iho/pocketledger/internal/infrastructure/metrics"
	"github.com/iho/pocketledger/internal/infrastructure/postgres"
	"github.com/iho/pocketledger/internal/infrastructure/ratesync"
	"github.com/iho/pocketledger/internal/infrastructure/redis"
	"github.com/iho/pocketledger/internal/usecase"
)

// limiterIdle is how long a client's rate limiter survives without requests.
const limiterIdle = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "pocketledger"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, appLog zerolog.Logger) error {
	registry := domain.NewCurrencyRegistry(cfg.DefaultCurrency)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Run migrations
	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		appLog.Info().Msg("migrations applied")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	appLog.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, redis.ClientConfig{
		URL:        cfg.RedisURL,
		PoolSize:   cfg.RedisPoolSize,
		Timeout:    cfg.RedisTimeout,
		ClientName: "pocketledger",
	})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	appLog.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool, postgresRepo.WithLockTimeout(cfg.DatabaseLockTimeout))
	userRepo := postgresRepo.NewUserRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository()
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	rateRepo := postgresRepo.NewRateSnapshotRepository(pool)
	retrier := postgresRepo.NewRetrier(logger.Component(appLog, "retrier"))
	idGen := postgresRepo.NewULIDGenerator()
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	snapshotCache := redisRepo.NewSnapshotCache(redisClient)

	sources, err := buildSources(cfg, registry)
	if err != nil {
		return err
	}

	// Initialize use cases
	rateUC := usecase.NewRateUseCase(usecase.RateUseCaseConfig{
		Sources:  sources,
		Repo:     rateRepo,
		Cache:    snapshotCache,
		CacheTTL: cfg.FXCacheTTL,
		Logger:   logger.Component(appLog, "rates"),
	})
	conversionUC := usecase.NewConversionUseCase(rateUC, registry)
	resolutionUC := usecase.NewAmountResolutionUseCase(userRepo, conversionUC, registry)
	userUC := usecase.NewUserUseCase(userRepo, registry, idGen)
	expenseUC := usecase.NewExpenseUseCase(txManager, userRepo, expenseRepo, resolutionUC, rateUC, registry, idGen)
	migrationUC := usecase.NewCurrencyMigrationUseCase(
		txManager, userRepo, ledgerRepo, outboxRepo, rateUC, registry, retrier, idGen,
	)

	// Background workers
	worker := ratesync.NewWorker(ratesync.Config{
		Refresher:       rateUC,
		Logger:          logger.Component(appLog, "ratesync"),
		Metrics:         m,
		Interval:        cfg.FXRefreshInterval,
		StartupAttempts: cfg.FXStartupRetryMax,
	})

	publisher, closePublisher, err := newPublisher(cfg, appLog)
	if err != nil {
		return err
	}
	defer closePublisher()

	outbox := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Logger:     logger.Component(appLog, "outbox"),
		Metrics:    m,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})

	// Initialize handlers
	var tokens *auth.JWTManager
	if cfg.AuthEnabled {
		tokens = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	routerCfg := httpAdapter.RouterConfig{
		HealthHandler:    handler.NewHealthHandler(handler.PostgresCheck(pool), handler.RedisCheck(redisClient)),
		CurrencyHandler:  handler.NewCurrencyHandler(registry, migrationUC, m),
		RateHandler:      handler.NewRateHandler(rateUC, worker, conversionUC, m),
		ExpenseHandler:   handler.NewExpenseHandler(expenseUC, resolutionUC, m),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      limiter,
		Metrics:          m,
		MetricsHandler:   metrics.Handler(reg),
		Logger:           logger.Component(appLog, "http"),
	}
	if tokens != nil {
		routerCfg.UserHandler = handler.NewUserHandler(userUC, registry, tokens)
		routerCfg.TokenVerifier = tokens
	} else {
		routerCfg.UserHandler = handler.NewUserHandler(userUC, registry, nil)
		appLog.Warn().Msg("bearer auth disabled, trusting X-User-ID header")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return ignoreCanceled(worker.Start(gctx)) })
	g.Go(func() error { return ignoreCanceled(outbox.Start(gctx)) })
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := limiter.CleanupLimiters(limiterIdle); n > 0 {
					appLog.Debug().Int("removed", n).Msg("dropped idle rate limiters")
				}
			}
		}
	})

	g.Go(func() error {
		appLog.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLog.Info().Msg("shutting down server...")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildSources creates the configured rate feeds in order.
func buildSources(cfg *config.Config, registry *domain.CurrencyRegistry) ([]usecase.RateSource, error) {
	urls := map[domain.RateSourceKind]string{
		domain.SourceECB: cfg.FXECBURL,
		domain.SourceCBR: cfg.FXCBRURL,
	}

	sources := make([]usecase.RateSource, 0, len(cfg.FXSources))
	for _, kind := range cfg.RateSources() {
		src, err := feed.NewSource(kind, feed.Options{
			URL:      urls[kind],
			Timeout:  cfg.FXFetchTimeout,
			Registry: registry,
		})
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return nil, errors.New("no rate sources configured")
	}
	return sources, nil
}

// newPublisher returns the AMQP publisher when AMQP_URL is set and a
// logging publisher otherwise.
func newPublisher(cfg *config.Config, appLog zerolog.Logger) (eventpublisher.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		return eventpublisher.NewLogPublisher(logger.Component(appLog, "events")), func() {}, nil
	}

	p, err := eventpublisher.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to amqp: %w", err)
	}

	return p, func() {
		if err := p.Close(); err != nil {
			appLog.Warn().Err(err).Msg("failed to close amqp publisher")
		}
	}, nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
