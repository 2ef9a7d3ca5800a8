package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

const snapshotPrefix = "fx:snapshot:"

// SnapshotCache implements usecase.SnapshotCache.
type SnapshotCache struct {
	cache *Cache
}

// NewSnapshotCache creates a new SnapshotCache.
func NewSnapshotCache(client redis.Cmdable) *SnapshotCache {
	return &SnapshotCache{cache: NewCache(client, snapshotPrefix)}
}

type cachedSnapshot struct {
	Base      string            `json:"base"`
	AsOf      string            `json:"as_of"`
	Source    string            `json:"source"`
	FetchedAt time.Time         `json:"fetched_at"`
	Rates     map[string]string `json:"rates"`
}

// GetSnapshot returns nil, nil on a miss.
func (c *SnapshotCache) GetSnapshot(ctx context.Context, base domain.CurrencyCode) (*domain.RateSnapshot, error) {
	raw, ok, err := c.cache.Get(ctx, base.String())
	if err != nil || !ok {
		return nil, err
	}

	var cached cachedSnapshot
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, fmt.Errorf("decoding cached snapshot: %w", err)
	}

	asOf, err := time.Parse(time.DateOnly, cached.AsOf)
	if err != nil {
		return nil, fmt.Errorf("decoding cached snapshot date: %w", err)
	}

	rates := make(map[domain.CurrencyCode]decimal.Decimal, len(cached.Rates))
	for code, v := range cached.Rates {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("decoding cached rate %s: %w", code, err)
		}
		rates[domain.CurrencyCode(code)] = d
	}

	return &domain.RateSnapshot{
		Base:      domain.CurrencyCode(cached.Base),
		AsOf:      asOf,
		Source:    domain.RateSourceKind(cached.Source),
		Rates:     rates,
		FetchedAt: cached.FetchedAt,
	}, nil
}

// SetSnapshot stores snapshot under base for ttl.
func (c *SnapshotCache) SetSnapshot(ctx context.Context, base domain.CurrencyCode, snapshot *domain.RateSnapshot, ttl time.Duration) error {
	cached := cachedSnapshot{
		Base:      snapshot.Base.String(),
		AsOf:      snapshot.AsOf.Format(time.DateOnly),
		Source:    string(snapshot.Source),
		FetchedAt: snapshot.FetchedAt,
		Rates:     make(map[string]string, len(snapshot.Rates)),
	}
	for code, rate := range snapshot.Rates {
		cached.Rates[code.String()] = rate.String()
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		return err
	}

	return c.cache.Set(ctx, base.String(), raw, ttl)
}

// InvalidateSnapshots drops every cached snapshot.
func (c *SnapshotCache) InvalidateSnapshots(ctx context.Context) error {
	return c.cache.Clear(ctx)
}
