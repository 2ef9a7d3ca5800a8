package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/usecase"
	"github.com/iho/pocketledger/internal/usecase/mocks"
)

// fakeLedgerDB is an in-memory store whose writes only become visible on
// Commit, so rollback behaviour can be asserted.
type fakeLedgerDB struct {
	users map[string]domain.User
	rows  []domain.MonetaryRow

	failOnExpenseUpdate int
	failBegin           []error
	expenseUpdates      int
	updateCalls         int
}

type fakeLedgerTx struct {
	db        *fakeLedgerDB
	users     map[string]domain.User
	rows      []domain.MonetaryRow
	committed bool
}

func newFakeLedgerDB(user domain.User, rows ...domain.MonetaryRow) *fakeLedgerDB {
	return &fakeLedgerDB{
		users: map[string]domain.User{user.ID: user},
		rows:  rows,
	}
}

func cloneRows(rows []domain.MonetaryRow) []domain.MonetaryRow {
	out := make([]domain.MonetaryRow, len(rows))
	for i, r := range rows {
		values := make(map[domain.MonetaryField]decimal.Decimal, len(r.Values))
		for k, v := range r.Values {
			values[k] = v
		}
		out[i] = domain.MonetaryRow{Kind: r.Kind, ID: r.ID, Values: values}
	}
	return out
}

func (db *fakeLedgerDB) Begin(context.Context) (usecase.Transaction, error) {
	if len(db.failBegin) > 0 {
		err := db.failBegin[0]
		db.failBegin = db.failBegin[1:]
		return nil, err
	}

	users := make(map[string]domain.User, len(db.users))
	for k, v := range db.users {
		users[k] = v
	}

	return &fakeLedgerTx{db: db, users: users, rows: cloneRows(db.rows)}, nil
}

func (tx *fakeLedgerTx) Commit(context.Context) error {
	tx.db.users = tx.users
	tx.db.rows = tx.rows
	tx.committed = true
	return nil
}

func (tx *fakeLedgerTx) Rollback(context.Context) error {
	return nil
}

func (db *fakeLedgerDB) Create(context.Context, *domain.User) error {
	return errors.New("not supported")
}

func (db *fakeLedgerDB) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (db *fakeLedgerDB) GetByIDForShare(ctx context.Context, tx usecase.Transaction, id string) (*domain.User, error) {
	return db.GetByIDForUpdate(ctx, tx, id)
}

func (db *fakeLedgerDB) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id string) (*domain.User, error) {
	u, ok := tx.(*fakeLedgerTx).users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (db *fakeLedgerDB) UpdateCurrency(_ context.Context, tx usecase.Transaction, id string, currency domain.CurrencyCode, updatedAt time.Time) error {
	ftx := tx.(*fakeLedgerTx)
	u := ftx.users[id]
	u.Currency = currency
	u.UpdatedAt = updatedAt
	ftx.users[id] = u
	return nil
}

func (db *fakeLedgerDB) ListMonetaryRows(_ context.Context, tx usecase.Transaction, _ string) ([]domain.MonetaryRow, error) {
	return cloneRows(tx.(*fakeLedgerTx).rows), nil
}

func (db *fakeLedgerDB) UpdateMonetaryRow(_ context.Context, tx usecase.Transaction, _ string, row domain.MonetaryRow) error {
	db.updateCalls++
	if row.Kind == domain.KindExpense {
		db.expenseUpdates++
		if db.expenseUpdates == db.failOnExpenseUpdate {
			return errors.New("disk full")
		}
	}

	ftx := tx.(*fakeLedgerTx)
	for i := range ftx.rows {
		if ftx.rows[i].Kind == row.Kind && ftx.rows[i].ID == row.ID {
			ftx.rows[i] = row
			return nil
		}
	}
	return fmt.Errorf("row %s/%s not found", row.Kind, row.ID)
}

func moneyRow(kind domain.RecordKind, id string, values ...string) domain.MonetaryRow {
	fields := domain.MonetaryFields[kind]
	row := domain.MonetaryRow{Kind: kind, ID: id, Values: map[domain.MonetaryField]decimal.Decimal{}}
	for i, v := range values {
		row.Values[fields[i]] = decimal.RequireFromString(v)
	}
	return row
}

func usdSnapshot() *domain.RateSnapshot {
	return &domain.RateSnapshot{
		Base:   domain.USD,
		AsOf:   time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Source: domain.SourceECB,
		Rates: map[domain.CurrencyCode]decimal.Decimal{
			domain.EUR: decimal.RequireFromString("0.92"),
			domain.RUB: decimal.RequireFromString("90"),
		},
	}
}

func newMigrationUseCase(db *fakeLedgerDB, rates usecase.RatesProvider, outbox usecase.OutboxRepository, retrier usecase.Retrier) *usecase.CurrencyMigrationUseCase {
	return usecase.NewCurrencyMigrationUseCase(
		db, db, db, outbox, rates,
		domain.NewCurrencyRegistry("USD"),
		retrier,
		mocks.NewMockIDGenerator(),
	)
}

func TestCurrencyMigration_ConvertsEveryRow(t *testing.T) {
	t.Parallel()

	db := newFakeLedgerDB(
		domain.User{ID: "u1", Currency: domain.USD},
		moneyRow(domain.KindExpense, "e1", "100.00"),
		moneyRow(domain.KindDebt, "d1", "1000", "250.50"),
		moneyRow(domain.KindCategory, "c1", "300"),
	)
	outbox := &mocks.MockOutboxRepository{}

	uc := newMigrationUseCase(db, &mocks.StaticRatesProvider{Snapshot: usdSnapshot()}, outbox, &mocks.MockRetrier{})

	result, err := uc.MigrateUserCurrency(context.Background(), "u1", "eur")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Migrated || result.RowsUpdated != 3 || result.From != domain.USD || result.To != domain.EUR {
		t.Fatalf("unexpected result %+v", result)
	}

	if !result.Rate.Equal(decimal.RequireFromString("0.92")) {
		t.Fatalf("expected rate 0.92, got %s", result.Rate)
	}

	if db.users["u1"].Currency != domain.EUR {
		t.Fatalf("expected user currency EUR, got %s", db.users["u1"].Currency)
	}

	want := map[string]string{
		"e1/amount":       "92",
		"d1/principal":    "920",
		"d1/balance":      "230.46",
		"c1/limit_amount": "276",
	}
	for _, row := range db.rows {
		for field, v := range row.Values {
			key := row.ID + "/" + string(field)
			if !v.Equal(decimal.RequireFromString(want[key])) {
				t.Fatalf("%s: expected %s, got %s", key, want[key], v)
			}
		}
	}

	if len(outbox.Events) != 1 || outbox.Events[0].EventType != domain.EventTypeCurrencyMigrated {
		t.Fatalf("expected one migration event, got %+v", outbox.Events)
	}
}

func TestCurrencyMigration_FailureLeavesLedgerUntouched(t *testing.T) {
	t.Parallel()

	rows := []domain.MonetaryRow{
		moneyRow(domain.KindExpense, "e1", "10"),
		moneyRow(domain.KindExpense, "e2", "20"),
		moneyRow(domain.KindExpense, "e3", "30"),
		moneyRow(domain.KindExpense, "e4", "40"),
		moneyRow(domain.KindExpense, "e5", "50"),
		moneyRow(domain.KindDebt, "d1", "500", "400"),
		moneyRow(domain.KindDebt, "d2", "600", "100"),
		moneyRow(domain.KindBudgetMonth, "b1", "3000"),
	}
	before := cloneRows(rows)

	db := newFakeLedgerDB(domain.User{ID: "u1", Currency: domain.USD}, rows...)
	db.failOnExpenseUpdate = 3
	outbox := &mocks.MockOutboxRepository{}

	uc := newMigrationUseCase(db, &mocks.StaticRatesProvider{Snapshot: usdSnapshot()}, outbox, &mocks.MockRetrier{})

	if _, err := uc.MigrateUserCurrency(context.Background(), "u1", "EUR"); err == nil {
		t.Fatal("expected migration to fail")
	}

	if db.users["u1"].Currency != domain.USD {
		t.Fatalf("user currency changed to %s", db.users["u1"].Currency)
	}

	for i, row := range db.rows {
		for field, v := range row.Values {
			if !v.Equal(before[i].Values[field]) {
				t.Fatalf("%s %s changed from %s to %s", row.Kind, row.ID, before[i].Values[field], v)
			}
		}
	}

	if len(outbox.Events) != 0 {
		t.Fatalf("expected no committed events, got %d", len(outbox.Events))
	}
}

func TestCurrencyMigration_MissingRateRejectsBeforeWriting(t *testing.T) {
	t.Parallel()

	db := newFakeLedgerDB(
		domain.User{ID: "u1", Currency: domain.USD},
		moneyRow(domain.KindExpense, "e1", "100"),
	)

	uc := newMigrationUseCase(db, &mocks.StaticRatesProvider{Snapshot: usdSnapshot()}, nil, &mocks.MockRetrier{})

	_, err := uc.MigrateUserCurrency(context.Background(), "u1", "KZT")
	if !errors.Is(err, domain.ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}

	if err.Error() != "no rate available for KZT" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if db.updateCalls != 0 {
		t.Fatalf("expected no row updates, got %d", db.updateCalls)
	}
}

func TestCurrencyMigration_SnapshotLoadErrorRejects(t *testing.T) {
	t.Parallel()

	db := newFakeLedgerDB(
		domain.User{ID: "u1", Currency: domain.USD},
		moneyRow(domain.KindExpense, "e1", "100.00"),
		moneyRow(domain.KindDebt, "d1", "1000", "250.50"),
	)
	outbox := &mocks.MockOutboxRepository{}
	loadErr := errors.New("loading latest snapshot: conn busy")

	// GetCurrentRates would serve the fallback table here, which has EUR.
	rates := &mocks.StaticRatesProvider{Snapshot: usdSnapshot(), Err: loadErr}
	uc := newMigrationUseCase(db, rates, outbox, &mocks.MockRetrier{})

	if _, err := uc.MigrateUserCurrency(context.Background(), "u1", "EUR"); !errors.Is(err, loadErr) {
		t.Fatalf("expected the load error, got %v", err)
	}

	if db.users["u1"].Currency != domain.USD || db.updateCalls != 0 || len(outbox.Events) != 0 {
		t.Fatalf("expected nothing written, got currency=%s updates=%d events=%d",
			db.users["u1"].Currency, db.updateCalls, len(outbox.Events))
	}
	if !db.rows[0].Values[domain.FieldAmount].Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expense changed to %s", db.rows[0].Values[domain.FieldAmount])
	}
}

func TestCurrencyMigration_PivotCurrencyNeedsNoRate(t *testing.T) {
	t.Parallel()

	snapshot := &domain.RateSnapshot{
		Base:  domain.RUB,
		Rates: map[domain.CurrencyCode]decimal.Decimal{domain.USD: decimal.RequireFromString("0.01")},
	}
	db := newFakeLedgerDB(
		domain.User{ID: "u1", Currency: domain.USD},
		moneyRow(domain.KindScheduleItem, "s1", "12.34"),
	)

	uc := newMigrationUseCase(db, &mocks.StaticRatesProvider{Snapshot: snapshot}, nil, &mocks.MockRetrier{})

	if _, err := uc.MigrateUserCurrency(context.Background(), "u1", "RUB"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := db.rows[0].Values[domain.FieldAmount]; !got.Equal(decimal.RequireFromString("1234")) {
		t.Fatalf("expected 1234, got %s", got)
	}
}

func TestCurrencyMigration_SameCurrencyIsNoop(t *testing.T) {
	t.Parallel()

	db := newFakeLedgerDB(domain.User{ID: "u1", Currency: domain.EUR}, moneyRow(domain.KindExpense, "e1", "5"))

	uc := newMigrationUseCase(db, &mocks.StaticRatesProvider{Snapshot: usdSnapshot()}, nil, &mocks.MockRetrier{})

	result, err := uc.MigrateUserCurrency(context.Background(), "u1", "eur")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Migrated || db.updateCalls != 0 {
		t.Fatalf("expected no-op, got %+v with %d updates", result, db.updateCalls)
	}
}

func TestCurrencyMigration_RejectsUnsupportedAndUnknownUser(t *testing.T) {
	t.Parallel()

	db := newFakeLedgerDB(domain.User{ID: "u1", Currency: domain.USD})
	uc := newMigrationUseCase(db, &mocks.StaticRatesProvider{Snapshot: usdSnapshot()}, nil, &mocks.MockRetrier{})

	if _, err := uc.MigrateUserCurrency(context.Background(), "u1", "DOGE"); !errors.Is(err, domain.ErrUnsupportedCurrency) {
		t.Fatalf("expected ErrUnsupportedCurrency, got %v", err)
	}

	if _, err := uc.MigrateUserCurrency(context.Background(), "ghost", "EUR"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCurrencyMigration_RetriesReuseOneSnapshot(t *testing.T) {
	t.Parallel()

	transient := errors.New("serialization failure")
	db := newFakeLedgerDB(domain.User{ID: "u1", Currency: domain.USD}, moneyRow(domain.KindExpense, "e1", "100"))
	db.failBegin = []error{transient}

	rates := &mocks.StaticRatesProvider{Snapshot: usdSnapshot()}
	attempts := 0
	retrier := &mocks.MockRetrier{
		RetryFunc: func(_ context.Context, op func() error) error {
			for {
				attempts++
				err := op()
				if !errors.Is(err, transient) {
					return err
				}
			}
		},
	}

	uc := newMigrationUseCase(db, rates, nil, retrier)

	if _, err := uc.MigrateUserCurrency(context.Background(), "u1", "EUR"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}

	if rates.Calls != 1 {
		t.Fatalf("expected one snapshot lookup, got %d", rates.Calls)
	}

	if !db.rows[0].Values[domain.FieldAmount].Equal(decimal.RequireFromString("92")) {
		t.Fatalf("expected 92, got %s", db.rows[0].Values[domain.FieldAmount])
	}
}
