package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

// RateSnapshotRepository implements usecase.RateSnapshotRepository on the
// append-only rate_snapshots table.
type RateSnapshotRepository struct {
	db DB
}

// NewRateSnapshotRepository creates a new RateSnapshotRepository.
func NewRateSnapshotRepository(db DB) *RateSnapshotRepository {
	return &RateSnapshotRepository{db: db}
}

const insertSnapshotQuery = `
	INSERT INTO rate_snapshots (base_currency, quote_currency, rate, as_of_date, source, fetched_at)
	SELECT $1, q.quote, q.rate::numeric, $2::date, $3, $4
	FROM unnest($5::text[], $6::text[]) AS q(quote, rate)
	ON CONFLICT (base_currency, quote_currency, as_of_date, source) DO NOTHING
`

// Store inserts one row per quote currency and returns how many were
// new. Rows already present for the same base, quote, date and source are
// left untouched.
func (r *RateSnapshotRepository) Store(ctx context.Context, snapshot *domain.RateSnapshot) (int, error) {
	quotes := snapshot.Quotes()
	if len(quotes) == 0 {
		return 0, domain.ErrEmptyFeed
	}

	codes := make([]string, 0, len(quotes))
	rates := make([]string, 0, len(quotes))
	for _, q := range quotes {
		rate, ok := snapshot.Rate(q)
		if !ok {
			continue
		}
		codes = append(codes, q.String())
		rates = append(rates, rate.String())
	}

	fetchedAt := snapshot.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	tag, err := r.db.Exec(ctx, insertSnapshotQuery,
		snapshot.Base.String(),
		snapshot.AsOf.Format(time.DateOnly),
		string(snapshot.Source),
		fetchedAt,
		codes,
		rates,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting rate snapshot: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// Snapshots with preferredBase win; otherwise the newest snapshot of any
// base is used.
const latestSnapshotQuery = `
	WITH latest AS (
		SELECT base_currency, source, as_of_date
		FROM rate_snapshots
		ORDER BY (base_currency = $1) DESC, as_of_date DESC, fetched_at DESC
		LIMIT 1
	)
	SELECT r.base_currency, r.source, r.as_of_date, r.fetched_at, r.quote_currency, r.rate::text
	FROM rate_snapshots r
	JOIN latest l USING (base_currency, source, as_of_date)
	ORDER BY r.quote_currency
`

// Latest returns the most recent snapshot, or domain.ErrSnapshotNotFound
// when the table is empty.
func (r *RateSnapshotRepository) Latest(ctx context.Context, preferredBase domain.CurrencyCode) (*domain.RateSnapshot, error) {
	rows, err := r.db.Query(ctx, latestSnapshotQuery, preferredBase.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshot *domain.RateSnapshot
	for rows.Next() {
		var (
			base, source, quote, rate string
			asOf, fetchedAt           time.Time
		)
		if err := rows.Scan(&base, &source, &asOf, &fetchedAt, &quote, &rate); err != nil {
			return nil, err
		}

		d, err := parseNumeric(rate)
		if err != nil {
			return nil, err
		}

		if snapshot == nil {
			snapshot = &domain.RateSnapshot{
				Base:   domain.CurrencyCode(base),
				AsOf:   asOf,
				Source: domain.RateSourceKind(source),
				Rates:  make(map[domain.CurrencyCode]decimal.Decimal),
			}
		}
		if fetchedAt.After(snapshot.FetchedAt) {
			snapshot.FetchedAt = fetchedAt
		}
		snapshot.Rates[domain.CurrencyCode(quote)] = d
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if snapshot == nil {
		return nil, domain.ErrSnapshotNotFound
	}

	return snapshot, nil
}
