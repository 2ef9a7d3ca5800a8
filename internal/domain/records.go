package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind names a table holding money that belongs to a user.
type RecordKind string

const (
	KindCategory     RecordKind = "category"
	KindExpense      RecordKind = "expense"
	KindScheduleItem RecordKind = "schedule_item"
	KindBudgetMonth  RecordKind = "budget_month"
	KindBudgetItem   RecordKind = "budget_item"
	KindDebt         RecordKind = "debt"
)

// MonetaryField names a money column of a record kind.
type MonetaryField string

const (
	FieldLimitAmount   MonetaryField = "limit_amount"
	FieldAmount        MonetaryField = "amount"
	FieldPlannedIncome MonetaryField = "planned_income"
	FieldPlannedAmount MonetaryField = "planned_amount"
	FieldPrincipal     MonetaryField = "principal"
	FieldBalance       MonetaryField = "balance"
)

// MonetaryFields lists the money columns of every record kind.
var MonetaryFields = map[RecordKind][]MonetaryField{
	KindCategory:     {FieldLimitAmount},
	KindExpense:      {FieldAmount},
	KindScheduleItem: {FieldAmount},
	KindBudgetMonth:  {FieldPlannedIncome},
	KindBudgetItem:   {FieldPlannedAmount},
	KindDebt:         {FieldPrincipal, FieldBalance},
}

// MonetaryRow carries the money columns of one record. Nullable columns
// that are NULL are absent from Values.
type MonetaryRow struct {
	Kind   RecordKind
	ID     string
	Values map[MonetaryField]decimal.Decimal
}

// Rebase returns a copy of the row with every value converted through
// pair and rounded to MoneyScale.
func (r MonetaryRow) Rebase(pair RatePair) MonetaryRow {
	values := make(map[MonetaryField]decimal.Decimal, len(r.Values))
	for field, v := range r.Values {
		values[field] = RoundMoney(pair.Apply(v).Amount)
	}

	return MonetaryRow{Kind: r.Kind, ID: r.ID, Values: values}
}

// Expense is a single spending record stored in the owner's currency.
type Expense struct {
	ID          string
	UserID      string
	CategoryID  *string
	Amount      decimal.Decimal
	Description string
	SpentAt     time.Time
	CreatedAt   time.Time
}
