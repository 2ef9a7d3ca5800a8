package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

// CurrencyMigrationUseCase rewrites a user's whole ledger into a new base
// currency.
type CurrencyMigrationUseCase struct {
	txManager TransactionManager
	users     UserRepository
	ledger    LedgerRepository
	outbox    OutboxRepository
	rates     RatesProvider
	registry  *domain.CurrencyRegistry
	retrier   Retrier
	idGen     IDGenerator
}

// NewCurrencyMigrationUseCase creates a new CurrencyMigrationUseCase.
// outbox may be nil.
func NewCurrencyMigrationUseCase(
	txManager TransactionManager,
	users UserRepository,
	ledger LedgerRepository,
	outbox OutboxRepository,
	rates RatesProvider,
	registry *domain.CurrencyRegistry,
	retrier Retrier,
	idGen IDGenerator,
) *CurrencyMigrationUseCase {
	return &CurrencyMigrationUseCase{
		txManager: txManager,
		users:     users,
		ledger:    ledger,
		outbox:    outbox,
		rates:     rates,
		registry:  registry,
		retrier:   retrier,
		idGen:     idGen,
	}
}

// MigrationResult describes a finished migration.
type MigrationResult struct {
	UserID      string
	From        domain.CurrencyCode
	To          domain.CurrencyCode
	Rate        decimal.Decimal
	RowsUpdated int
	Migrated    bool
	AsOf        time.Time
	Source      domain.RateSourceKind
}

// MigrateUserCurrency converts every monetary row of the user into
// newCurrency and updates the user's currency, all in one transaction.
// Every row moves by the same rate pair taken from one snapshot. A
// missing rate rejects the migration before anything is written.
func (uc *CurrencyMigrationUseCase) MigrateUserCurrency(
	ctx context.Context,
	userID, newCurrency string,
) (*MigrationResult, error) {
	target, err := uc.registry.Parse(newCurrency)
	if err != nil {
		return nil, err
	}

	snapshot, err := uc.rates.CurrentRatesStrict(ctx)
	if err != nil {
		return nil, err
	}

	var result *MigrationResult
	err = uc.retrier.Retry(ctx, func() error {
		r, err := uc.migrate(ctx, userID, target, snapshot)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *CurrencyMigrationUseCase) migrate(
	ctx context.Context,
	userID string,
	target domain.CurrencyCode,
	snapshot *domain.RateSnapshot,
) (*MigrationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, MigrationTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	user, err := uc.users.GetByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	result := &MigrationResult{
		UserID: userID,
		From:   user.Currency,
		To:     target,
		Rate:   decimal.NewFromInt(1),
		AsOf:   snapshot.AsOf,
		Source: snapshot.Source,
	}

	if user.Currency == target {
		return result, nil
	}

	pair, err := snapshot.Pair(user.Currency, target)
	if err != nil {
		return nil, err
	}
	result.Rate = pair.Effective()

	rows, err := uc.ledger.ListMonetaryRows(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing monetary rows: %w", err)
	}

	for _, row := range rows {
		if err := uc.ledger.UpdateMonetaryRow(ctx, tx, userID, row.Rebase(pair)); err != nil {
			return nil, fmt.Errorf("rebasing %s %s: %w", row.Kind, row.ID, err)
		}
	}

	now := time.Now().UTC()
	if err := uc.users.UpdateCurrency(ctx, tx, userID, target, now); err != nil {
		return nil, fmt.Errorf("updating user currency: %w", err)
	}

	if uc.outbox != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   userID,
			AggregateType: domain.AggregateTypeUser,
			EventType:     domain.EventTypeCurrencyMigrated,
			Payload: domain.CurrencyMigratedEvent{
				UserID:       userID,
				FromCurrency: user.Currency.String(),
				ToCurrency:   target.String(),
				Rate:         result.Rate.String(),
				RowsUpdated:  len(rows),
				SnapshotAsOf: snapshot.AsOf.Format(time.DateOnly),
				Source:       string(snapshot.Source),
			}.ToMap(),
			CreatedAt: now,
		}
		if err := uc.outbox.Create(ctx, tx, event); err != nil {
			return nil, fmt.Errorf("recording migration event: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	result.RowsUpdated = len(rows)
	result.Migrated = true

	return result, nil
}
