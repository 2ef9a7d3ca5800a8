package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/usecase"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	Symbol    string    `json:"symbol"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// Token is set on registration when bearer auth is enabled.
	Token string `json:"token,omitempty"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User, registry *domain.CurrencyRegistry) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Currency:  u.Currency.String(),
		Symbol:    registry.Symbol(u.Currency.String()),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CurrencyResponse is one supported currency.
type CurrencyResponse struct {
	Code    string `json:"code"`
	Symbol  string `json:"symbol"`
	Default bool   `json:"default,omitempty"`
}

// ListCurrenciesResponse lists the supported currencies.
type ListCurrenciesResponse struct {
	Currencies []CurrencyResponse `json:"currencies"`
	Default    string             `json:"default"`
}

// CurrenciesFromRegistry lists every code in registry.
func CurrenciesFromRegistry(registry *domain.CurrencyRegistry) ListCurrenciesResponse {
	def := registry.Default()
	codes := registry.Codes()

	out := ListCurrenciesResponse{
		Currencies: make([]CurrencyResponse, 0, len(codes)),
		Default:    def.String(),
	}
	for _, c := range codes {
		out.Currencies = append(out.Currencies, CurrencyResponse{
			Code:    c.String(),
			Symbol:  registry.Symbol(c.String()),
			Default: c == def,
		})
	}
	return out
}

// RatesResponse is a rate snapshot. Rates are units of quote per one
// unit of Base.
type RatesResponse struct {
	Base      string                     `json:"base"`
	AsOf      string                     `json:"asOf"`
	Source    string                     `json:"source"`
	FetchedAt *time.Time                 `json:"fetchedAt,omitempty"`
	Fallback  bool                       `json:"fallback"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

// RatesFromDomain converts a snapshot to a response.
func RatesFromDomain(s *domain.RateSnapshot) *RatesResponse {
	resp := &RatesResponse{
		Base:     s.Base.String(),
		AsOf:     s.AsOf.Format(time.DateOnly),
		Source:   string(s.Source),
		Fallback: s.IsFallback(),
		Rates:    make(map[string]decimal.Decimal, len(s.Rates)+1),
	}
	if !s.FetchedAt.IsZero() {
		fetched := s.FetchedAt
		resp.FetchedAt = &fetched
	}

	resp.Rates[s.Base.String()] = decimal.NewFromInt(1)
	for _, code := range s.Quotes() {
		rate, _ := s.Rate(code)
		resp.Rates[code.String()] = rate
	}
	return resp
}

// ConversionResponse is a display conversion.
type ConversionResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Rate     decimal.Decimal `json:"rate"`
	AsOf     string          `json:"asOf"`
	Source   string          `json:"source"`
	Degraded bool            `json:"degraded"`
}

// ConversionFromUseCase converts a display conversion to a response.
func ConversionFromUseCase(c usecase.DisplayConversion) *ConversionResponse {
	return &ConversionResponse{
		Amount:   domain.RoundMoney(c.Amount),
		From:     c.From.String(),
		To:       c.To.String(),
		Rate:     c.Rate,
		AsOf:     c.AsOf.Format(time.DateOnly),
		Source:   string(c.Source),
		Degraded: c.Degraded,
	}
}

// ResolutionResponse describes how a submitted amount was stored.
type ResolutionResponse struct {
	Amount        decimal.Decimal `json:"amount"`
	BaseCurrency  string          `json:"baseCurrency"`
	InputCurrency string          `json:"inputCurrency"`
	Rate          decimal.Decimal `json:"rate"`
	AsOf          string          `json:"asOf,omitempty"`
	Source        string          `json:"source,omitempty"`
}

// ResolutionFromUseCase converts a resolved amount. r must be valid.
func ResolutionFromUseCase(r *usecase.ResolvedAmount) *ResolutionResponse {
	amount, _ := r.Amount.Decimal()
	resp := &ResolutionResponse{
		Amount:        amount,
		BaseCurrency:  r.BaseCurrency.String(),
		InputCurrency: r.InputCurrency.String(),
		Rate:          r.Rate,
		Source:        string(r.Source),
	}
	if r.AsOf != nil {
		resp.AsOf = r.AsOf.Format(time.DateOnly)
	}
	return resp
}

// MigrationResponse reports a currency change.
type MigrationResponse struct {
	UserID      string          `json:"userId"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Rate        decimal.Decimal `json:"rate"`
	RowsUpdated int             `json:"rowsUpdated"`
	Migrated    bool            `json:"migrated"`
	AsOf        string          `json:"asOf"`
	Source      string          `json:"source"`
}

// MigrationFromUseCase converts a migration result to a response.
func MigrationFromUseCase(r *usecase.MigrationResult) *MigrationResponse {
	return &MigrationResponse{
		UserID:      r.UserID,
		From:        r.From.String(),
		To:          r.To.String(),
		Rate:        r.Rate,
		RowsUpdated: r.RowsUpdated,
		Migrated:    r.Migrated,
		AsOf:        r.AsOf.Format(time.DateOnly),
		Source:      string(r.Source),
	}
}

// ExpenseResponse represents an expense in API responses. Amount is in
// BaseCurrency; DisplayAmount is in DisplayCurrency.
type ExpenseResponse struct {
	ID              string          `json:"id"`
	CategoryID      *string         `json:"categoryId,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	BaseCurrency    string          `json:"baseCurrency"`
	DisplayAmount   decimal.Decimal `json:"displayAmount"`
	DisplayCurrency string          `json:"displayCurrency"`
	Description     string          `json:"description"`
	SpentAt         time.Time       `json:"spentAt"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ExpenseFromView converts a listed expense to a response.
func ExpenseFromView(v usecase.ExpenseView) *ExpenseResponse {
	return &ExpenseResponse{
		ID:              v.Expense.ID,
		CategoryID:      v.Expense.CategoryID,
		Amount:          v.Expense.Amount,
		BaseCurrency:    v.BaseCurrency.String(),
		DisplayAmount:   v.DisplayAmount,
		DisplayCurrency: v.DisplayCurrency.String(),
		Description:     v.Expense.Description,
		SpentAt:         v.Expense.SpentAt,
		CreatedAt:       v.Expense.CreatedAt,
	}
}

// CreateExpenseResponse is a stored expense plus its resolution.
type CreateExpenseResponse struct {
	Expense    *ExpenseResponse    `json:"expense"`
	Resolution *ResolutionResponse `json:"resolution"`
}

// CreatedExpenseFromUseCase converts a created expense to a response.
func CreatedExpenseFromUseCase(c *usecase.CreatedExpense) *CreateExpenseResponse {
	base := c.Resolution.BaseCurrency
	return &CreateExpenseResponse{
		Expense: ExpenseFromView(usecase.ExpenseView{
			Expense:         c.Expense,
			BaseCurrency:    base,
			DisplayAmount:   c.Expense.Amount,
			DisplayCurrency: base,
		}),
		Resolution: ResolutionFromUseCase(c.Resolution),
	}
}

// ListExpensesResponse represents a page of expenses.
type ListExpensesResponse struct {
	Expenses []*ExpenseResponse `json:"expenses"`
	Total    int                `json:"total"`
}

// ExpensesFromViews converts listed expenses to a response.
func ExpensesFromViews(views []usecase.ExpenseView) ListExpensesResponse {
	out := ListExpensesResponse{
		Expenses: make([]*ExpenseResponse, len(views)),
		Total:    len(views),
	}
	for i, v := range views {
		out.Expenses[i] = ExpenseFromView(v)
	}
	return out
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
