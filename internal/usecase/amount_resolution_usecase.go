package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

// AmountResolutionUseCase turns a submitted amount and currency into the
// value stored in the acting user's base currency. Every write of a
// monetary field goes through it.
type AmountResolutionUseCase struct {
	users       UserRepository
	conversions *ConversionUseCase
	registry    *domain.CurrencyRegistry
}

// NewAmountResolutionUseCase creates a new AmountResolutionUseCase.
func NewAmountResolutionUseCase(
	users UserRepository,
	conversions *ConversionUseCase,
	registry *domain.CurrencyRegistry,
) *AmountResolutionUseCase {
	return &AmountResolutionUseCase{
		users:       users,
		conversions: conversions,
		registry:    registry,
	}
}

// ResolveAmountInput carries a raw submitted amount. The first non-nil of
// Amount, AmountLocal and AmountUSD is used.
type ResolveAmountInput struct {
	UserID      string
	Amount      any
	AmountLocal any
	AmountUSD   any
	Currency    string
}

// ResolvedAmount is the outcome of resolution. An invalid Amount means the
// input could not be parsed and the caller must reject the request.
type ResolvedAmount struct {
	Amount        domain.ParsedAmount
	BaseCurrency  domain.CurrencyCode
	InputCurrency domain.CurrencyCode
	Rate          decimal.Decimal
	AsOf          *time.Time
	Source        domain.RateSourceKind
}

// ResolveAmountBase looks up the user's base currency and resolves input
// against it.
func (uc *AmountResolutionUseCase) ResolveAmountBase(ctx context.Context, input ResolveAmountInput) (*ResolvedAmount, error) {
	user, err := uc.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return uc.ResolveAgainstBase(ctx, user.Currency, input)
}

// ResolveAgainstBase resolves input against an already known base
// currency, e.g. one read under a row lock.
func (uc *AmountResolutionUseCase) ResolveAgainstBase(
	ctx context.Context,
	base domain.CurrencyCode,
	input ResolveAmountInput,
) (*ResolvedAmount, error) {
	raw, legacyUSD := pickCandidate(input)

	amount, ok := domain.ParseAmount(raw).Decimal()
	if !ok {
		return &ResolvedAmount{Amount: domain.InvalidAmount(), BaseCurrency: base}, nil
	}

	currency := base
	switch {
	case strings.TrimSpace(input.Currency) != "":
		code, err := uc.registry.Parse(input.Currency)
		if err != nil {
			return nil, err
		}
		currency = code
	case legacyUSD:
		currency = domain.USD
	}

	if currency == base {
		return &ResolvedAmount{
			Amount:        domain.ValidAmount(domain.RoundMoney(amount)),
			BaseCurrency:  base,
			InputCurrency: currency,
			Rate:          decimal.NewFromInt(1),
		}, nil
	}

	conv, err := uc.conversions.ConvertToBase(ctx, amount, currency, base)
	if err != nil {
		return nil, err
	}

	asOf := conv.AsOf

	return &ResolvedAmount{
		Amount:        domain.ValidAmount(domain.RoundMoney(conv.Amount)),
		BaseCurrency:  base,
		InputCurrency: currency,
		Rate:          conv.Rate,
		AsOf:          &asOf,
		Source:        conv.Source,
	}, nil
}

// pickCandidate returns the first present amount field and whether it
// was the legacy USD field.
func pickCandidate(input ResolveAmountInput) (any, bool) {
	switch {
	case input.Amount != nil:
		return input.Amount, false
	case input.AmountLocal != nil:
		return input.AmountLocal, false
	case input.AmountUSD != nil:
		return input.AmountUSD, true
	default:
		return nil, false
	}
}
