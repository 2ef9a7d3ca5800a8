package usecase

import (
	"context"
	"time"

	"github.com/iho/pocketledger/internal/domain"
)

// RateSnapshotRepository persists dated rate tables. Rows are append-only.
type RateSnapshotRepository interface {
	// Store inserts one row per quote and skips tuples that already
	// exist. It returns the number of rows actually inserted.
	Store(ctx context.Context, snapshot *domain.RateSnapshot) (int, error)
	// Latest returns the newest table for preferredBase, else the newest
	// table of any base, else domain.ErrSnapshotNotFound.
	Latest(ctx context.Context, preferredBase domain.CurrencyCode) (*domain.RateSnapshot, error)
}

// RateSource fetches one daily table from an external feed.
type RateSource interface {
	Kind() domain.RateSourceKind
	// Base is the pivot currency the feed is denominated in.
	Base() domain.CurrencyCode
	Fetch(ctx context.Context) (*domain.RateSnapshot, error)
}

// RatesProvider supplies the snapshot conversions run against.
type RatesProvider interface {
	// GetCurrentRates never fails; storage errors degrade to the static
	// fallback table. Read paths only.
	GetCurrentRates(ctx context.Context) *domain.RateSnapshot
	// CurrentRatesStrict falls back only when nothing is stored and
	// returns every other error. Write paths use it.
	CurrentRatesStrict(ctx context.Context) (*domain.RateSnapshot, error)
}

// SnapshotCache caches the latest snapshot per preferred base.
type SnapshotCache interface {
	// GetSnapshot returns nil, nil on a miss.
	GetSnapshot(ctx context.Context, base domain.CurrencyCode) (*domain.RateSnapshot, error)
	SetSnapshot(ctx context.Context, base domain.CurrencyCode, snapshot *domain.RateSnapshot, ttl time.Duration) error
	InvalidateSnapshots(ctx context.Context) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByIDForShare locks the user row against currency migration.
	GetByIDForShare(ctx context.Context, tx Transaction, id string) (*domain.User, error)
	// GetByIDForUpdate locks the user row exclusively.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.User, error)
	UpdateCurrency(ctx context.Context, tx Transaction, id string, currency domain.CurrencyCode, updatedAt time.Time) error
}

// LedgerRepository reads and rewrites every money column a user owns.
type LedgerRepository interface {
	ListMonetaryRows(ctx context.Context, tx Transaction, userID string) ([]domain.MonetaryRow, error)
	UpdateMonetaryRow(ctx context.Context, tx Transaction, userID string, row domain.MonetaryRow) error
}

// ExpenseRepository defines data access for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Expense, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) (int64, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete.
	Release(ctx context.Context, key string) error
}
