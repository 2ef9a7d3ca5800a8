package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/iho/pocketledger/internal/domain"
)

// RateUseCase acquires rate tables from the configured feeds and serves
// the current snapshot to the rest of the service.
type RateUseCase struct {
	sources   []RateSource
	repo      RateSnapshotRepository
	cache     SnapshotCache
	cacheTTL  time.Duration
	preferred domain.CurrencyCode
	logger    zerolog.Logger
	group     singleflight.Group

	cacheMu    sync.Mutex
	generation uint64
}

// RateUseCaseConfig holds dependencies for NewRateUseCase.
type RateUseCaseConfig struct {
	// Sources are tried in order; the first non-empty table wins.
	Sources  []RateSource
	Repo     RateSnapshotRepository
	Cache    SnapshotCache // optional
	CacheTTL time.Duration
	Logger   zerolog.Logger
}

// NewRateUseCase creates a new RateUseCase. The preferred snapshot base
// is the pivot of the first configured source.
func NewRateUseCase(cfg RateUseCaseConfig) *RateUseCase {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultSnapshotCacheTTL
	}

	preferred := domain.USD
	if len(cfg.Sources) > 0 {
		preferred = cfg.Sources[0].Base()
	}

	return &RateUseCase{
		sources:   cfg.Sources,
		repo:      cfg.Repo,
		cache:     cfg.Cache,
		cacheTTL:  cfg.CacheTTL,
		preferred: preferred,
		logger:    cfg.Logger,
	}
}

// PreferredBase returns the base GetCurrentRates looks for first.
func (uc *RateUseCase) PreferredBase() domain.CurrencyCode {
	return uc.preferred
}

// RefreshRates fetches a table from the first source that answers and
// stores it. Storing is idempotent, so the call is safe to retry.
// Concurrent calls share a single fetch, which runs detached from any one
// caller's cancellation.
func (uc *RateUseCase) RefreshRates(ctx context.Context) (*domain.RateSnapshot, error) {
	v, err := uc.shared(ctx, "refresh", RateRefreshTimeout, func(ctx context.Context) (any, error) {
		return uc.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.RateSnapshot), nil
}

// shared runs fn once per key across concurrent callers. fn gets a
// context that outlives any single caller, bounded by timeout; each caller
// still stops waiting when its own ctx ends.
func (uc *RateUseCase) shared(
	ctx context.Context,
	key string,
	timeout time.Duration,
	fn func(context.Context) (any, error),
) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := uc.group.DoChan(key, func() (any, error) {
		runCtx, cancel := context.WithTimeout(detached, timeout)
		defer cancel()
		return fn(runCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (uc *RateUseCase) refresh(ctx context.Context) (*domain.RateSnapshot, error) {
	if len(uc.sources) == 0 {
		return nil, fmt.Errorf("%w: no rate sources configured", domain.ErrAcquisition)
	}

	var errs []error
	for _, src := range uc.sources {
		snapshot, err := src.Fetch(ctx)
		if err == nil && len(snapshot.Quotes()) == 0 {
			err = domain.ErrEmptyFeed
		}
		if err != nil {
			uc.logger.Warn().Err(err).Str("source", string(src.Kind())).Msg("rate source failed")
			errs = append(errs, &domain.SourceError{Source: src.Kind(), Err: err})
			continue
		}

		inserted, err := uc.repo.Store(ctx, snapshot)
		if err != nil {
			return nil, fmt.Errorf("storing %s snapshot: %w", src.Kind(), err)
		}

		uc.reprime(ctx)

		uc.logger.Info().
			Str("source", string(snapshot.Source)).
			Str("base", snapshot.Base.String()).
			Time("as_of", snapshot.AsOf).
			Int("quotes", len(snapshot.Quotes())).
			Int("inserted", inserted).
			Msg("rates refreshed")

		return snapshot, nil
	}

	return nil, fmt.Errorf("%w: %w", domain.ErrAcquisition, errors.Join(errs...))
}

// reprime replaces the cached snapshot after a store. Bumping the
// generation under cacheMu keeps loads that read the database before the
// store from writing their older snapshot back.
func (uc *RateUseCase) reprime(ctx context.Context) {
	if uc.cache == nil {
		return
	}

	latest, err := uc.repo.Latest(ctx, uc.preferred)

	uc.cacheMu.Lock()
	defer uc.cacheMu.Unlock()
	uc.generation++

	if err := uc.cache.InvalidateSnapshots(ctx); err != nil {
		uc.logger.Warn().Err(err).Msg("failed to invalidate snapshot cache")
	}
	if err != nil {
		uc.logger.Warn().Err(err).Msg("reloading snapshot after refresh failed, cache left empty")
		return
	}
	if err := uc.cache.SetSnapshot(ctx, uc.preferred, latest, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Msg("snapshot cache write failed")
	}
}

// GetCurrentRates returns the latest stored snapshot, or the static
// fallback table when nothing is stored or storage is unreachable. It
// never fails, so it only serves read paths. Callers must not mutate the
// returned snapshot.
func (uc *RateUseCase) GetCurrentRates(ctx context.Context) *domain.RateSnapshot {
	snapshot, err := uc.CurrentRatesStrict(ctx)
	if err != nil {
		uc.logger.Error().Err(err).Msg("loading latest snapshot failed, serving fallback table")
		return domain.FallbackSnapshot()
	}
	return snapshot
}

// CurrentRatesStrict returns the latest stored snapshot for write paths.
// The static fallback table is served only when nothing has ever been
// stored; storage errors and cancellation are returned.
func (uc *RateUseCase) CurrentRatesStrict(ctx context.Context) (*domain.RateSnapshot, error) {
	if uc.cache != nil {
		snapshot, err := uc.cache.GetSnapshot(ctx, uc.preferred)
		if err != nil {
			uc.logger.Warn().Err(err).Msg("snapshot cache read failed")
		}
		if snapshot != nil {
			return snapshot, nil
		}
	}

	uc.cacheMu.Lock()
	gen := uc.generation
	uc.cacheMu.Unlock()

	v, err := uc.shared(ctx, "latest:"+strconv.FormatUint(gen, 10), RateLoadTimeout, func(ctx context.Context) (any, error) {
		snapshot, err := uc.repo.Latest(ctx, uc.preferred)
		if err != nil {
			return nil, err
		}
		uc.prime(ctx, gen, snapshot)
		return snapshot, nil
	})
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return domain.FallbackSnapshot(), nil
	case err != nil:
		return nil, fmt.Errorf("loading latest snapshot: %w", err)
	}

	return v.(*domain.RateSnapshot), nil
}

// prime caches snapshot unless a refresh happened since it was read.
func (uc *RateUseCase) prime(ctx context.Context, gen uint64, snapshot *domain.RateSnapshot) {
	if uc.cache == nil {
		return
	}

	uc.cacheMu.Lock()
	defer uc.cacheMu.Unlock()
	if uc.generation != gen {
		return
	}
	if err := uc.cache.SetSnapshot(ctx, uc.preferred, snapshot, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Msg("snapshot cache write failed")
	}
}
