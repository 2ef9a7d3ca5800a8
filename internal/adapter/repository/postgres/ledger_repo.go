package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/usecase"
)

// ledgerTable maps a record kind onto its table. Budget items have no
// user_id and are owned through their budget month.
type ledgerTable struct {
	kind    domain.RecordKind
	table   string
	viaLink bool
}

// ledgerTables is also the order rows are listed and locked in.
var ledgerTables = []ledgerTable{
	{kind: domain.KindCategory, table: "categories"},
	{kind: domain.KindExpense, table: "expenses"},
	{kind: domain.KindScheduleItem, table: "schedule_items"},
	{kind: domain.KindBudgetMonth, table: "budget_months"},
	{kind: domain.KindBudgetItem, table: "budget_items", viaLink: true},
	{kind: domain.KindDebt, table: "debts"},
}

func tableFor(kind domain.RecordKind) (ledgerTable, bool) {
	for _, t := range ledgerTables {
		if t.kind == kind {
			return t, true
		}
	}
	return ledgerTable{}, false
}

func (t ledgerTable) ownerClause(param string) string {
	if t.viaLink {
		return "budget_month_id IN (SELECT id FROM budget_months WHERE user_id = " + param + ")"
	}
	return "user_id = " + param
}

func (t ledgerTable) selectQuery() string {
	fields := domain.MonetaryFields[t.kind]
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, string(f)+"::text")
	}

	return fmt.Sprintf(
		"SELECT id, %s FROM %s WHERE %s ORDER BY id FOR UPDATE",
		strings.Join(cols, ", "), t.table, t.ownerClause("$1"),
	)
}

// LedgerRepository implements usecase.LedgerRepository over every table
// that stores money in the owner's base currency.
type LedgerRepository struct{}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

// ListMonetaryRows locks and returns every money-bearing row of the user.
func (r *LedgerRepository) ListMonetaryRows(ctx context.Context, tx usecase.Transaction, userID string) ([]domain.MonetaryRow, error) {
	db := txDB(tx)

	var out []domain.MonetaryRow
	for _, t := range ledgerTables {
		rows, err := r.listTable(ctx, db, t, userID)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", t.table, err)
		}
		out = append(out, rows...)
	}

	return out, nil
}

func (r *LedgerRepository) listTable(ctx context.Context, db DB, t ledgerTable, userID string) ([]domain.MonetaryRow, error) {
	fields := domain.MonetaryFields[t.kind]

	rows, err := db.Query(ctx, t.selectQuery(), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MonetaryRow
	for rows.Next() {
		var id string
		raw := make([]*string, len(fields))
		dest := make([]any, 0, len(fields)+1)
		dest = append(dest, &id)
		for i := range raw {
			dest = append(dest, &raw[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := domain.MonetaryRow{Kind: t.kind, ID: id, Values: make(map[domain.MonetaryField]decimal.Decimal, len(fields))}
		for i, f := range fields {
			d, ok, err := parseNullableNumeric(raw[i])
			if err != nil {
				return nil, err
			}
			if ok {
				row.Values[f] = d
			}
		}

		out = append(out, row)
	}

	return out, rows.Err()
}

// UpdateMonetaryRow writes the values present in row. Absent nullable
// columns are left as they are.
func (r *LedgerRepository) UpdateMonetaryRow(ctx context.Context, tx usecase.Transaction, userID string, row domain.MonetaryRow) error {
	t, ok := tableFor(row.Kind)
	if !ok {
		return fmt.Errorf("unknown record kind %q", row.Kind)
	}

	args := []any{row.ID, userID}
	var sets []string
	for _, f := range domain.MonetaryFields[row.Kind] {
		v, ok := row.Values[f]
		if !ok {
			continue
		}
		args = append(args, v.String())
		sets = append(sets, fmt.Sprintf("%s = $%d::numeric", f, len(args)))
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $1 AND %s",
		t.table, strings.Join(sets, ", "), t.ownerClause("$2"),
	)

	tag, err := txDB(tx).Exec(ctx, query, args...)
	if err != nil {
		return err
	}

	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%s %s: expected 1 row updated, got %d", row.Kind, row.ID, tag.RowsAffected())
	}

	return nil
}
