package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateSourceKind identifies the feed that produced a snapshot.
type RateSourceKind string

const (
	// SourceECB is the EUR-pivoted European Central Bank daily table.
	SourceECB RateSourceKind = "ecb"
	// SourceCBR is the RUB-pivoted Central Bank of Russia daily table.
	SourceCBR RateSourceKind = "cbr"
	// SourceFallback marks the static table served when nothing is stored.
	SourceFallback RateSourceKind = "fallback"
)

// ParseRateSourceKind parses a configured feed name.
func ParseRateSourceKind(s string) (RateSourceKind, error) {
	switch k := RateSourceKind(strings.ToLower(strings.TrimSpace(s))); k {
	case SourceECB, SourceCBR:
		return k, nil
	default:
		return "", fmt.Errorf("unknown rate source %q", s)
	}
}

// SourceError is a failure of one rate feed.
type SourceError struct {
	Source RateSourceKind
	Err    error
}

func (e *SourceError) Error() string { return string(e.Source) + ": " + e.Err.Error() }

func (e *SourceError) Unwrap() error { return e.Err }

var one = decimal.NewFromInt(1)

// RateSnapshot is one dated rate table from one source. Rates hold units
// of quote per one unit of Base; the base itself is implicit.
type RateSnapshot struct {
	Base      CurrencyCode
	AsOf      time.Time
	Source    RateSourceKind
	Rates     map[CurrencyCode]decimal.Decimal
	FetchedAt time.Time
}

// Rate returns the rate for code. The base always resolves to 1.
// Non-positive stored rates are treated as missing.
func (s *RateSnapshot) Rate(code CurrencyCode) (decimal.Decimal, bool) {
	if s == nil {
		return decimal.Zero, false
	}

	if code == s.Base {
		return one, true
	}

	r, ok := s.Rates[code]
	if !ok || !r.IsPositive() {
		return decimal.Zero, false
	}

	return r, true
}

// Quotes returns the quote currencies in lexical order, base excluded.
func (s *RateSnapshot) Quotes() []CurrencyCode {
	if s == nil {
		return nil
	}

	codes := make([]CurrencyCode, 0, len(s.Rates))
	for c := range s.Rates {
		if c != s.Base {
			codes = append(codes, c)
		}
	}

	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	return codes
}

// IsFallback reports whether the snapshot is the static table.
func (s *RateSnapshot) IsFallback() bool {
	return s != nil && s.Source == SourceFallback
}

// Pair resolves both legs of a conversion from the snapshot.
func (s *RateSnapshot) Pair(from, to CurrencyCode) (RatePair, error) {
	fromRate, ok := s.Rate(from)
	if !ok {
		return RatePair{}, fmt.Errorf("%w for %s", ErrRateUnavailable, from)
	}

	toRate, ok := s.Rate(to)
	if !ok {
		return RatePair{}, fmt.Errorf("%w for %s", ErrRateUnavailable, to)
	}

	return RatePair{From: from, To: to, FromRate: fromRate, ToRate: toRate}, nil
}

// RatePair is a resolved from/to leg pair taken from a single snapshot.
type RatePair struct {
	From     CurrencyCode
	To       CurrencyCode
	FromRate decimal.Decimal
	ToRate   decimal.Decimal
}

// Effective returns units of To per one unit of From.
func (p RatePair) Effective() decimal.Decimal {
	if p.From == p.To {
		return one
	}

	return p.ToRate.Div(p.FromRate)
}

// Apply converts amount through the pivot: amount / rate(from) * rate(to).
func (p RatePair) Apply(amount decimal.Decimal) Conversion {
	if p.From == p.To {
		return Conversion{Amount: amount, Rate: one}
	}

	return Conversion{
		Amount:    amount.Div(p.FromRate).Mul(p.ToRate),
		Rate:      p.Effective(),
		Converted: true,
	}
}

// Conversion is the outcome of converting an amount.
type Conversion struct {
	Amount decimal.Decimal
	Rate   decimal.Decimal
	// Converted is false for identity conversions and for conversions
	// that degraded because a rate was missing.
	Converted bool
}

// Convert converts amount from one currency to another using snapshot.
// Same-currency conversions and conversions with a missing rate return
// the amount unchanged with rate 1. Convert performs no I/O.
func Convert(amount decimal.Decimal, from, to CurrencyCode, snapshot *RateSnapshot) Conversion {
	if from == to {
		return Conversion{Amount: amount, Rate: one}
	}

	pair, err := snapshot.Pair(from, to)
	if err != nil {
		return Conversion{Amount: amount, Rate: one}
	}

	return pair.Apply(amount)
}

// ConvertStrict is Convert for write paths: a missing rate is an error
// wrapping ErrRateUnavailable instead of a silent no-op.
func ConvertStrict(amount decimal.Decimal, from, to CurrencyCode, snapshot *RateSnapshot) (Conversion, error) {
	if from == to {
		return Conversion{Amount: amount, Rate: one}, nil
	}

	pair, err := snapshot.Pair(from, to)
	if err != nil {
		return Conversion{}, err
	}

	return pair.Apply(amount), nil
}

// fallbackAsOf is the date the static table was compiled.
var fallbackAsOf = time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

// FallbackSnapshot returns the static USD-based table used when no
// snapshot has ever been stored. A fresh copy is returned on each call.
func FallbackSnapshot() *RateSnapshot {
	return &RateSnapshot{
		Base:   USD,
		AsOf:   fallbackAsOf,
		Source: SourceFallback,
		Rates: map[CurrencyCode]decimal.Decimal{
			EUR: decimal.RequireFromString("0.92"),
			KZT: decimal.RequireFromString("450"),
			RUB: decimal.RequireFromString("90"),
			GBP: decimal.RequireFromString("0.79"),
			CNY: decimal.RequireFromString("7.1"),
			JPY: decimal.RequireFromString("141"),
			CHF: decimal.RequireFromString("0.84"),
			TRY: decimal.RequireFromString("29.5"),
		},
		FetchedAt: fallbackAsOf,
	}
}
