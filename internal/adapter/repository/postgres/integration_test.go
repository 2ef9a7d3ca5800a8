package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/pocketledger/internal/adapter/repository/postgres"
	"github.com/iho/pocketledger/internal/domain"
	infrapg "github.com/iho/pocketledger/internal/infrastructure/postgres"
	"github.com/iho/pocketledger/internal/usecase"
)

// newTestPool connects to POCKETLEDGER_TEST_DATABASE_URL, migrates it and
// empties every table.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dbURL := os.Getenv("POCKETLEDGER_TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("POCKETLEDGER_TEST_DATABASE_URL not set")
	}

	require.NoError(t, infrapg.RunMigrations(dbURL))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := infrapg.NewPoolWithConfig(ctx, infrapg.PoolConfig{DatabaseURL: dbURL})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE users, rate_snapshots, outbox_events CASCADE`)
	require.NoError(t, err)

	return pool
}

type staticSource struct {
	snapshot *domain.RateSnapshot
}

func (s staticSource) Kind() domain.RateSourceKind { return s.snapshot.Source }
func (s staticSource) Base() domain.CurrencyCode   { return s.snapshot.Base }
func (s staticSource) Fetch(context.Context) (*domain.RateSnapshot, error) {
	return s.snapshot, nil
}

func TestCurrencyLifecycle(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	registry := domain.NewCurrencyRegistry("USD")
	txManager := postgres.NewTxManager(pool)
	userRepo := postgres.NewUserRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()

	rateUC := usecase.NewRateUseCase(usecase.RateUseCaseConfig{
		Sources: []usecase.RateSource{staticSource{snapshot: &domain.RateSnapshot{
			Base:   domain.EUR,
			AsOf:   time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
			Source: domain.SourceECB,
			Rates: map[domain.CurrencyCode]decimal.Decimal{
				domain.USD: decimal.RequireFromString("1.07"),
				domain.KZT: decimal.RequireFromString("475"),
			},
		}}},
		Repo:   postgres.NewRateSnapshotRepository(pool),
		Logger: zerolog.Nop(),
	})
	_, err := rateUC.RefreshRates(ctx)
	require.NoError(t, err)

	conversionUC := usecase.NewConversionUseCase(rateUC, registry)
	resolutionUC := usecase.NewAmountResolutionUseCase(userRepo, conversionUC, registry)
	userUC := usecase.NewUserUseCase(userRepo, registry, idGen)
	expenseUC := usecase.NewExpenseUseCase(
		txManager, userRepo, postgres.NewExpenseRepository(pool), resolutionUC, rateUC, registry, idGen,
	)
	migrationUC := usecase.NewCurrencyMigrationUseCase(
		txManager, userRepo, postgres.NewLedgerRepository(), outboxRepo, rateUC, registry,
		postgres.NewRetrier(zerolog.Nop()), idGen,
	)

	user, err := userUC.CreateUser(ctx, usecase.CreateUserInput{Email: "ann@example.com", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, domain.USD, user.Currency)

	created, err := expenseUC.CreateExpense(ctx, usecase.CreateExpenseInput{
		UserID:   user.ID,
		Amount:   "10",
		Currency: "EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, "10.7", created.Expense.Amount.String())

	_, err = pool.Exec(ctx,
		`INSERT INTO debts (id, user_id, name, principal, balance) VALUES ($1, $2, 'car', 107, 53.50)`,
		idGen.Generate(), user.ID)
	require.NoError(t, err)

	result, err := migrationUC.MigrateUserCurrency(ctx, user.ID, "eur")
	require.NoError(t, err)
	assert.True(t, result.Migrated)
	assert.Equal(t, 2, result.RowsUpdated)

	views, err := expenseUC.ListExpenses(ctx, user.ID, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, domain.EUR, views[0].BaseCurrency)
	assert.Equal(t, "10", views[0].Expense.Amount.String())

	var principal, balance string
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT principal::text, balance::text FROM debts WHERE user_id = $1`, user.ID,
	).Scan(&principal, &balance))
	assert.Equal(t, "100.00", principal)
	assert.Equal(t, "50.00", balance)

	events, err := outboxRepo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeCurrencyMigrated, events[0].EventType)

	// Quotes for the same day are stored once.
	_, err = rateUC.RefreshRates(ctx)
	require.NoError(t, err)
	var snapshots int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM rate_snapshots`).Scan(&snapshots))
	assert.Equal(t, 2, snapshots)
}
