package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

// ConversionUseCase converts amounts against the current snapshot.
type ConversionUseCase struct {
	rates    RatesProvider
	registry *domain.CurrencyRegistry
}

// NewConversionUseCase creates a new ConversionUseCase.
func NewConversionUseCase(rates RatesProvider, registry *domain.CurrencyRegistry) *ConversionUseCase {
	return &ConversionUseCase{rates: rates, registry: registry}
}

// BaseConversion is an amount expressed in a user's base currency along
// with the snapshot it was computed from.
type BaseConversion struct {
	Amount decimal.Decimal
	Rate   decimal.Decimal
	Base   domain.CurrencyCode
	AsOf   time.Time
	Source domain.RateSourceKind
}

// ConvertToBase converts amount into base using a fresh snapshot. A
// missing rate is an error wrapping domain.ErrRateUnavailable, and a
// snapshot that cannot be loaded is returned as an error too.
func (uc *ConversionUseCase) ConvertToBase(
	ctx context.Context,
	amount decimal.Decimal,
	currency, base domain.CurrencyCode,
) (*BaseConversion, error) {
	snapshot, err := uc.rates.CurrentRatesStrict(ctx)
	if err != nil {
		return nil, err
	}

	conv, err := domain.ConvertStrict(amount, currency, base, snapshot)
	if err != nil {
		return nil, err
	}

	return &BaseConversion{
		Amount: conv.Amount,
		Rate:   conv.Rate,
		Base:   base,
		AsOf:   snapshot.AsOf,
		Source: snapshot.Source,
	}, nil
}

// DisplayConversion is a non-persisting conversion for read paths.
type DisplayConversion struct {
	Amount   decimal.Decimal
	Rate     decimal.Decimal
	From     domain.CurrencyCode
	To       domain.CurrencyCode
	AsOf     time.Time
	Source   domain.RateSourceKind
	Degraded bool
}

// ConvertForDisplay converts amount for presentation. Unknown codes are
// normalized to the registry default and missing rates leave the amount
// unchanged with Degraded set.
func (uc *ConversionUseCase) ConvertForDisplay(ctx context.Context, amount decimal.Decimal, from, to string) DisplayConversion {
	snapshot := uc.rates.GetCurrentRates(ctx)
	fromCode := uc.registry.Normalize(from)
	toCode := uc.registry.Normalize(to)

	conv := domain.Convert(amount, fromCode, toCode, snapshot)

	return DisplayConversion{
		Amount:   conv.Amount,
		Rate:     conv.Rate,
		From:     fromCode,
		To:       toCode,
		AsOf:     snapshot.AsOf,
		Source:   snapshot.Source,
		Degraded: fromCode != toCode && !conv.Converted,
	}
}
