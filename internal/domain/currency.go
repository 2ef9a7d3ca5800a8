package domain

import (
	"fmt"
	"sort"
	"strings"
)

// CurrencyCode is an upper-case ISO 4217 code from the supported set.
type CurrencyCode string

// Supported currencies.
const (
	USD CurrencyCode = "USD"
	EUR CurrencyCode = "EUR"
	KZT CurrencyCode = "KZT"
	RUB CurrencyCode = "RUB"
	GBP CurrencyCode = "GBP"
	CNY CurrencyCode = "CNY"
	JPY CurrencyCode = "JPY"
	CHF CurrencyCode = "CHF"
	TRY CurrencyCode = "TRY"
)

// String implements fmt.Stringer.
func (c CurrencyCode) String() string {
	return string(c)
}

// symbols maps every supported code to its display symbol. An empty
// symbol means the code itself is displayed.
var symbols = map[CurrencyCode]string{
	USD: "$",
	EUR: "€",
	KZT: "₸",
	RUB: "₽",
	GBP: "£",
	CNY: "¥",
	JPY: "¥",
	CHF: "",
	TRY: "₺",
}

// CurrencyRegistry answers questions about the supported currency set.
// Lookups are case-insensitive and ignore surrounding whitespace.
type CurrencyRegistry struct {
	fallback CurrencyCode
}

// NewCurrencyRegistry creates a registry whose Normalize degrades to
// fallback. An unsupported fallback is replaced with USD.
func NewCurrencyRegistry(fallback string) *CurrencyRegistry {
	code := CurrencyCode(canonical(fallback))
	if _, ok := symbols[code]; !ok {
		code = USD
	}

	return &CurrencyRegistry{fallback: code}
}

// Default returns the currency Normalize falls back to.
func (r *CurrencyRegistry) Default() CurrencyCode {
	return r.fallback
}

// Normalize upper-cases code and returns it when supported, otherwise
// the registry default. It never fails and is meant for display paths.
func (r *CurrencyRegistry) Normalize(code string) CurrencyCode {
	c := CurrencyCode(canonical(code))
	if _, ok := symbols[c]; ok {
		return c
	}

	return r.fallback
}

// Parse is the strict counterpart of Normalize used on storage paths.
func (r *CurrencyRegistry) Parse(code string) (CurrencyCode, error) {
	c := CurrencyCode(canonical(code))
	if _, ok := symbols[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}

	return c, nil
}

// IsSupported reports whether code names a supported currency.
func (r *CurrencyRegistry) IsSupported(code string) bool {
	_, ok := symbols[CurrencyCode(canonical(code))]
	return ok
}

// Symbol returns the display symbol for code, or the code itself when
// no symbol is registered.
func (r *CurrencyRegistry) Symbol(code string) string {
	c := canonical(code)
	if s := symbols[CurrencyCode(c)]; s != "" {
		return s
	}

	return c
}

// Codes returns the supported codes in lexical order.
func (r *CurrencyRegistry) Codes() []CurrencyCode {
	codes := make([]CurrencyCode, 0, len(symbols))
	for c := range symbols {
		codes = append(codes, c)
	}

	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	return codes
}

func canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
