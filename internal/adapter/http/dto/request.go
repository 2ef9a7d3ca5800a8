package dto

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/iho/pocketledger/internal/usecase"
)

// DecodeJSON decodes a request body, keeping numbers as json.Number so
// amounts reach the resolver without float rounding.
func DecodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return err
	}
	return nil
}

// CreateUserRequest represents a request to register a user.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateUserRequest) ToUseCaseInput() usecase.CreateUserInput {
	return usecase.CreateUserInput{
		Email:    r.Email,
		Name:     r.Name,
		Currency: r.Currency,
	}
}

// ChangeCurrencyRequest asks to move a user's ledger to a new currency.
type ChangeCurrencyRequest struct {
	Currency string `json:"currency"`
}

// CreateExpenseRequest records an expense. Exactly one of the amount
// fields is expected; amountLocal and amountUSD are accepted from older
// clients.
type CreateExpenseRequest struct {
	Amount      any        `json:"amount"`
	AmountLocal any        `json:"amountLocal"`
	AmountUSD   any        `json:"amountUSD"`
	Currency    string     `json:"currency"`
	CategoryID  *string    `json:"categoryId"`
	Description string     `json:"description"`
	SpentAt     *time.Time `json:"spentAt"`
}

// ToUseCaseInput converts to use case input for userID.
func (r *CreateExpenseRequest) ToUseCaseInput(userID string) usecase.CreateExpenseInput {
	return usecase.CreateExpenseInput{
		UserID:      userID,
		Amount:      r.Amount,
		AmountLocal: r.AmountLocal,
		AmountUSD:   r.AmountUSD,
		Currency:    r.Currency,
		CategoryID:  r.CategoryID,
		Description: r.Description,
		SpentAt:     r.SpentAt,
	}
}

// ResolveAmountRequest previews how an amount would be stored.
type ResolveAmountRequest struct {
	Amount      any    `json:"amount"`
	AmountLocal any    `json:"amountLocal"`
	AmountUSD   any    `json:"amountUSD"`
	Currency    string `json:"currency"`
}

// ToUseCaseInput converts to use case input for userID.
func (r *ResolveAmountRequest) ToUseCaseInput(userID string) usecase.ResolveAmountInput {
	return usecase.ResolveAmountInput{
		UserID:      userID,
		Amount:      r.Amount,
		AmountLocal: r.AmountLocal,
		AmountUSD:   r.AmountUSD,
		Currency:    r.Currency,
	}
}
