package redis

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

func TestSnapshotCacheRoundTrip(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewSnapshotCache(client)
	ctx := context.Background()

	got, err := cache.GetSnapshot(ctx, domain.EUR)
	if err != nil || got != nil {
		t.Fatalf("expected miss, got %+v (%v)", got, err)
	}

	snap := &domain.RateSnapshot{
		Base:      domain.EUR,
		AsOf:      time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Source:    domain.SourceECB,
		FetchedAt: time.Date(2024, 5, 2, 16, 0, 0, 0, time.UTC),
		Rates: map[domain.CurrencyCode]decimal.Decimal{
			domain.USD: decimal.RequireFromString("1.0708"),
			domain.JPY: decimal.RequireFromString("164.62"),
		},
	}

	if err := cache.SetSnapshot(ctx, domain.EUR, snap, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if ttl := mr.TTL(snapshotPrefix + "EUR"); ttl != time.Minute {
		t.Fatalf("expected 1m TTL, got %s", ttl)
	}

	got, err = cache.GetSnapshot(ctx, domain.EUR)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if got.Base != domain.EUR || got.Source != domain.SourceECB || !got.AsOf.Equal(snap.AsOf) || !got.FetchedAt.Equal(snap.FetchedAt) {
		t.Fatalf("unexpected header %+v", got)
	}

	if !got.Rates[domain.JPY].Equal(decimal.RequireFromString("164.62")) || len(got.Rates) != 2 {
		t.Fatalf("unexpected rates %v", got.Rates)
	}
}

func TestSnapshotCacheInvalidate(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewSnapshotCache(client)
	ctx := context.Background()

	for _, base := range []domain.CurrencyCode{domain.EUR, domain.RUB} {
		if err := cache.SetSnapshot(ctx, base, domain.FallbackSnapshot(), time.Minute); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	if err := cache.InvalidateSnapshots(ctx); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	for _, base := range []domain.CurrencyCode{domain.EUR, domain.RUB} {
		if got, err := cache.GetSnapshot(ctx, base); got != nil || err != nil {
			t.Fatalf("expected %s to be gone, got %+v (%v)", base, got, err)
		}
	}
}

func TestSnapshotCacheCorruptEntry(t *testing.T) {
	client, mr := newTestRedisClient(t)

	if err := mr.Set(snapshotPrefix+"USD", "{not json"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := NewSnapshotCache(client).GetSnapshot(context.Background(), domain.USD); err == nil {
		t.Fatalf("expected decode error")
	}
}
