// Package ratesync keeps the rate snapshot store fresh.
package ratesync

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/infrastructure/metrics"
)

// Refresher acquires and stores a new snapshot.
type Refresher interface {
	RefreshRates(ctx context.Context) (*domain.RateSnapshot, error)
}

// Config for Worker.
type Config struct {
	Refresher Refresher
	Logger    zerolog.Logger
	Metrics   *metrics.Metrics // optional
	// Interval between scheduled refreshes.
	Interval time.Duration
	// StartupAttempts bounds the initial refresh. Values below 1 mean a
	// single attempt.
	StartupAttempts int
	// InitialBackoff is the first delay between startup attempts.
	InitialBackoff time.Duration
}

// Worker refreshes rates on startup and then on a fixed interval.
// Acquisition failures are logged and never stop it.
type Worker struct {
	refresher       Refresher
	logger          zerolog.Logger
	metrics         *metrics.Metrics
	interval        time.Duration
	startupAttempts int
	initialBackoff  time.Duration
	now             func() time.Time
}

// NewWorker creates a new Worker.
func NewWorker(cfg Config) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	if cfg.StartupAttempts < 1 {
		cfg.StartupAttempts = 1
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}

	return &Worker{
		refresher:       cfg.Refresher,
		logger:          cfg.Logger,
		metrics:         cfg.Metrics,
		interval:        cfg.Interval,
		startupAttempts: cfg.StartupAttempts,
		initialBackoff:  cfg.InitialBackoff,
		now:             time.Now,
	}
}

// Start runs the worker until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().
		Dur("interval", w.interval).
		Int("startup_attempts", w.startupAttempts).
		Msg("rate refresher started")

	if err := w.startup(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.logger.Error().Err(err).Msg("initial rate refresh failed, serving stored or fallback rates")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("rate refresher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.RefreshNow(ctx); err != nil {
				w.logger.Error().Err(err).Msg("scheduled rate refresh failed")
			}
		}
	}
}

func (w *Worker) startup(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.initialBackoff
	b.MaxElapsedTime = 0

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		_, err := w.RefreshNow(ctx)
		if err != nil && attempt < w.startupAttempts {
			w.logger.Warn().Err(err).Int("attempt", attempt).Msg("rate refresh failed, retrying")
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(w.startupAttempts-1)), ctx))
}

// RefreshNow runs one refresh and records its outcome.
func (w *Worker) RefreshNow(ctx context.Context) (*domain.RateSnapshot, error) {
	start := w.now()
	snapshot, err := w.refresher.RefreshRates(ctx)
	elapsed := w.now().Sub(start)

	if err != nil {
		w.observe("all", "error", elapsed)
		for _, kind := range failedSources(err) {
			w.logger.Error().Err(err).Str("source", kind).Msg("rate acquisition failed")
		}
		return nil, err
	}

	w.observe(string(snapshot.Source), "success", elapsed)
	if w.metrics != nil {
		w.metrics.RatesStored.WithLabelValues(string(snapshot.Source)).Add(float64(len(snapshot.Quotes())))
		w.metrics.SnapshotAge.Set(w.now().Sub(snapshot.AsOf).Seconds())
	}

	return snapshot, nil
}

func (w *Worker) observe(source, result string, elapsed time.Duration) {
	if w.metrics == nil {
		return
	}
	w.metrics.RateRefreshes.WithLabelValues(source, result).Inc()
	w.metrics.RateFetchDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

// failedSources lists the feeds named in an acquisition error, or "all"
// when it carries no per-source detail.
func failedSources(err error) []string {
	var kinds []string
	var walk func(error)
	walk = func(e error) {
		switch u := e.(type) {
		case *domain.SourceError:
			kinds = append(kinds, string(u.Source))
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)

	if len(kinds) == 0 {
		return []string{"all"}
	}
	return kinds
}
