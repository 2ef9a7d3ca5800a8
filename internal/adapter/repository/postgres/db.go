package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/usecase"
)

// DB is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txDB unwraps the pgx transaction behind a usecase.Transaction.
func txDB(tx usecase.Transaction) DB {
	return tx.(*Tx).PgxTx()
}

// Numeric columns are read as text so no precision is lost on the way
// into decimal.Decimal.
func parseNumeric(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing numeric %q: %w", s, err)
	}
	return d, nil
}

func parseNullableNumeric(s *string) (decimal.Decimal, bool, error) {
	if s == nil {
		return decimal.Zero, false, nil
	}

	d, err := parseNumeric(*s)
	if err != nil {
		return decimal.Zero, false, err
	}

	return d, true, nil
}
