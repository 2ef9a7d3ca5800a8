package usecase

import "time"

const (
	// MigrationTimeout bounds one currency migration attempt, lock waits
	// included.
	MigrationTimeout = 10 * time.Second

	// WriteTimeout bounds a single expense write.
	WriteTimeout = 5 * time.Second

	// RateLoadTimeout bounds a shared load of the latest snapshot.
	RateLoadTimeout = 10 * time.Second

	// RateRefreshTimeout bounds a shared refresh across all sources.
	RateRefreshTimeout = time.Minute

	// DefaultSnapshotCacheTTL is used when no cache TTL is configured.
	DefaultSnapshotCacheTTL = 10 * time.Minute

	// IdempotencyKeyTTL is how long a completed response stays replayable.
	IdempotencyKeyTTL = 24 * time.Hour
)
