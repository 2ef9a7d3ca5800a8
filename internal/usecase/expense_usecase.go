package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

// ExpenseUseCase handles expense business logic.
type ExpenseUseCase struct {
	txManager TransactionManager
	users     UserRepository
	expenses  ExpenseRepository
	resolver  *AmountResolutionUseCase
	rates     RatesProvider
	registry  *domain.CurrencyRegistry
	idGen     IDGenerator
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	txManager TransactionManager,
	users UserRepository,
	expenses ExpenseRepository,
	resolver *AmountResolutionUseCase,
	rates RatesProvider,
	registry *domain.CurrencyRegistry,
	idGen IDGenerator,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager: txManager,
		users:     users,
		expenses:  expenses,
		resolver:  resolver,
		rates:     rates,
		registry:  registry,
		idGen:     idGen,
	}
}

// CreateExpenseInput represents input for recording an expense.
type CreateExpenseInput struct {
	UserID      string
	Amount      any
	AmountLocal any
	AmountUSD   any
	Currency    string
	CategoryID  *string
	Description string
	SpentAt     *time.Time
}

// CreatedExpense is a stored expense plus how its amount was resolved.
type CreatedExpense struct {
	Expense    *domain.Expense
	Resolution *ResolvedAmount
}

// CreateExpense resolves the submitted amount into the user's base
// currency and stores the expense. The user row is share-locked for the
// duration so a concurrent currency migration cannot interleave.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, input CreateExpenseInput) (*CreatedExpense, error) {
	description, err := domain.ValidateDescription(input.Description)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, WriteTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	user, err := uc.users.GetByIDForShare(ctx, tx, input.UserID)
	if err != nil {
		return nil, err
	}

	resolved, err := uc.resolver.ResolveAgainstBase(ctx, user.Currency, ResolveAmountInput{
		UserID:      input.UserID,
		Amount:      input.Amount,
		AmountLocal: input.AmountLocal,
		AmountUSD:   input.AmountUSD,
		Currency:    input.Currency,
	})
	if err != nil {
		return nil, err
	}

	amount, ok := resolved.Amount.Decimal()
	if !ok {
		return nil, domain.ErrInvalidAmount
	}

	if err := domain.ValidateMoney(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	spentAt := now
	if input.SpentAt != nil {
		spentAt = input.SpentAt.UTC()
	}

	var categoryID *string
	if input.CategoryID != nil && strings.TrimSpace(*input.CategoryID) != "" {
		id := strings.TrimSpace(*input.CategoryID)
		categoryID = &id
	}

	expense := &domain.Expense{
		ID:          uc.idGen.Generate(),
		UserID:      user.ID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: description,
		SpentAt:     spentAt,
		CreatedAt:   now,
	}

	if err := uc.expenses.Create(ctx, tx, expense); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &CreatedExpense{Expense: expense, Resolution: resolved}, nil
}

// ExpenseView is an expense with its amount re-expressed for display.
type ExpenseView struct {
	Expense         *domain.Expense
	BaseCurrency    domain.CurrencyCode
	DisplayAmount   decimal.Decimal
	DisplayCurrency domain.CurrencyCode
	// Degraded is set when the requested display currency had no rate.
	Degraded bool
}

// ListExpenses returns the user's expenses converted to displayCurrency,
// or left in the base currency when displayCurrency is empty. When the
// snapshot lacks a rate the stored amount is shown in the base currency.
func (uc *ExpenseUseCase) ListExpenses(
	ctx context.Context,
	userID, displayCurrency string,
	limit, offset int,
) ([]ExpenseView, error) {
	limit, offset, err := domain.ValidatePagination(limit, offset)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	expenses, err := uc.expenses.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	display := user.Currency
	if strings.TrimSpace(displayCurrency) != "" {
		display = uc.registry.Normalize(displayCurrency)
	}

	snapshot := uc.rates.GetCurrentRates(ctx)

	views := make([]ExpenseView, 0, len(expenses))
	for _, e := range expenses {
		conv := domain.Convert(e.Amount, user.Currency, display, snapshot)

		degraded := display != user.Currency && !conv.Converted
		shownIn := display
		if degraded {
			shownIn = user.Currency
		}

		views = append(views, ExpenseView{
			Expense:         e,
			BaseCurrency:    user.Currency,
			DisplayAmount:   domain.RoundMoney(conv.Amount),
			DisplayCurrency: shownIn,
			Degraded:        degraded,
		})
	}

	return views, nil
}
