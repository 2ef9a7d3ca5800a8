package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/iho/pocketledger/internal/adapter/http/dto"
	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/infrastructure/metrics"
	"github.com/iho/pocketledger/internal/usecase"
)

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*usecase.CreatedExpense, error)
	ListExpenses(ctx context.Context, userID, displayCurrency string, limit, offset int) ([]usecase.ExpenseView, error)
}

// AmountResolver resolves submitted amounts into a user's base currency.
type AmountResolver interface {
	ResolveAmountBase(ctx context.Context, input usecase.ResolveAmountInput) (*usecase.ResolvedAmount, error)
}

// ExpenseHandler handles expense requests and amount previews.
type ExpenseHandler struct {
	expenses ExpenseService
	resolver AmountResolver
	observe  observer
}

// NewExpenseHandler creates a new ExpenseHandler. m may be nil.
func NewExpenseHandler(expenses ExpenseService, resolver AmountResolver, m *metrics.Metrics) *ExpenseHandler {
	return &ExpenseHandler{
		expenses: expenses,
		resolver: resolver,
		observe:  observer{m: m},
	}
}

// Create records an expense in the acting user's base currency.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.expenses.CreateExpense(r.Context(), req.ToUseCaseInput(userID))
	if errors.Is(err, domain.ErrInvalidAmount) {
		writeError(w, http.StatusBadRequest, "invalid amount", "")
		return
	}
	if err != nil {
		h.observe.missingRateOn(pathWrite, err)
		writeDomainError(w, "failed to create expense", err)
		return
	}

	h.observe.conversion(created.Resolution.InputCurrency, created.Resolution.BaseCurrency)

	writeJSON(w, http.StatusCreated, dto.CreatedExpenseFromUseCase(created))
}

// List returns the acting user's expenses, converted to ?currency when
// given.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	display := r.URL.Query().Get("currency")
	views, err := h.expenses.ListExpenses(
		r.Context(),
		userID,
		display,
		parseIntQuery(r, "limit", 50),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeDomainError(w, "failed to list expenses", err)
		return
	}

	if len(views) > 0 && views[0].Degraded {
		h.observe.missingRate(pathDisplay)
	}

	writeJSON(w, http.StatusOK, dto.ExpensesFromViews(views))
}

// Resolve previews how an amount would be stored without writing it.
func (h *ExpenseHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	var req dto.ResolveAmountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resolved, err := h.resolver.ResolveAmountBase(r.Context(), req.ToUseCaseInput(userID))
	if err != nil {
		h.observe.missingRateOn(pathWrite, err)
		writeDomainError(w, "failed to resolve amount", err)
		return
	}

	if !resolved.Amount.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid amount", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.ResolutionFromUseCase(resolved))
}
