package postgres

import (
	"context"

	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/usecase"
)

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	db DB
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create inserts an expense within tx.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	query := `
		INSERT INTO expenses (id, user_id, category_id, amount, description, spent_at, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
	`

	_, err := txDB(tx).Exec(ctx, query,
		expense.ID,
		expense.UserID,
		expense.CategoryID,
		expense.Amount.String(),
		expense.Description,
		expense.SpentAt,
		expense.CreatedAt,
	)

	return err
}

// ListByUser returns the user's expenses, newest first.
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Expense, error) {
	query := `
		SELECT id, user_id, category_id, amount::text, description, spent_at, created_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY spent_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		var (
			e      domain.Expense
			amount string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.CategoryID, &amount, &e.Description, &e.SpentAt, &e.CreatedAt); err != nil {
			return nil, err
		}

		if e.Amount, err = parseNumeric(amount); err != nil {
			return nil, err
		}

		expenses = append(expenses, &e)
	}

	return expenses, rows.Err()
}
