package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/adapter/http/middleware"
	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/usecase"
)

type stubRates struct {
	snapshot *domain.RateSnapshot
}

func (s stubRates) GetCurrentRates(context.Context) *domain.RateSnapshot {
	if s.snapshot == nil {
		return domain.FallbackSnapshot()
	}
	return s.snapshot
}

type stubRefresher struct {
	snapshot *domain.RateSnapshot
	err      error
}

func (s stubRefresher) RefreshNow(context.Context) (*domain.RateSnapshot, error) {
	return s.snapshot, s.err
}

type stubConverter struct {
	fn func(amount decimal.Decimal, from, to string) usecase.DisplayConversion
}

func (s stubConverter) ConvertForDisplay(_ context.Context, amount decimal.Decimal, from, to string) usecase.DisplayConversion {
	return s.fn(amount, from, to)
}

type stubMigrator struct {
	result *usecase.MigrationResult
	err    error
	gotID  string
	gotCur string
}

func (s *stubMigrator) MigrateUserCurrency(_ context.Context, userID, currency string) (*usecase.MigrationResult, error) {
	s.gotID, s.gotCur = userID, currency
	return s.result, s.err
}

type stubUsers struct {
	user *domain.User
	err  error
	in   usecase.CreateUserInput
}

func (s *stubUsers) CreateUser(_ context.Context, in usecase.CreateUserInput) (*domain.User, error) {
	s.in = in
	return s.user, s.err
}

func (s *stubUsers) GetUser(_ context.Context, id string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubTokens struct{}

func (stubTokens) Generate(u *domain.User) (string, error) { return "token-" + u.ID, nil }

type stubExpenses struct {
	created *usecase.CreatedExpense
	views   []usecase.ExpenseView
	err     error
	in      usecase.CreateExpenseInput
	display string
}

func (s *stubExpenses) CreateExpense(_ context.Context, in usecase.CreateExpenseInput) (*usecase.CreatedExpense, error) {
	s.in = in
	return s.created, s.err
}

func (s *stubExpenses) ListExpenses(_ context.Context, _ string, display string, _, _ int) ([]usecase.ExpenseView, error) {
	s.display = display
	return s.views, s.err
}

type stubResolver struct {
	resolved *usecase.ResolvedAmount
	err      error
}

func (s stubResolver) ResolveAmountBase(context.Context, usecase.ResolveAmountInput) (*usecase.ResolvedAmount, error) {
	return s.resolved, s.err
}

// newRequest builds a request acting as userID, if set.
func newRequest(method, target, body, userID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	return req
}
