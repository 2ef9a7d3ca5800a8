package domain

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for persisted money.
const MoneyScale = 2

// ParsedAmount is the result of coercing loosely typed input into a
// decimal. It is either Valid(decimal) or Invalid; the zero value is
// Invalid.
type ParsedAmount struct {
	value decimal.Decimal
	valid bool
}

// ValidAmount wraps d as a valid ParsedAmount.
func ValidAmount(d decimal.Decimal) ParsedAmount {
	return ParsedAmount{value: d, valid: true}
}

// InvalidAmount returns the Invalid variant.
func InvalidAmount() ParsedAmount {
	return ParsedAmount{}
}

// IsValid reports whether the amount holds a decimal.
func (p ParsedAmount) IsValid() bool {
	return p.valid
}

// Decimal returns the held decimal and whether it is valid.
func (p ParsedAmount) Decimal() (decimal.Decimal, bool) {
	return p.value, p.valid
}

// Or returns the held decimal, or fallback when invalid.
func (p ParsedAmount) Or(fallback decimal.Decimal) decimal.Decimal {
	if !p.valid {
		return fallback
	}

	return p.value
}

// String renders the amount, or "invalid".
func (p ParsedAmount) String() string {
	if !p.valid {
		return "invalid"
	}

	return p.value.String()
}

// ParseAmount accepts decimals, Go numeric types, json.Number and numeric
// strings. Anything else, including NaN, infinities, blanks and nil,
// yields InvalidAmount. It never panics.
func ParseAmount(v any) ParsedAmount {
	switch x := v.(type) {
	case nil:
		return InvalidAmount()
	case ParsedAmount:
		return x
	case decimal.Decimal:
		return ValidAmount(x)
	case *decimal.Decimal:
		if x == nil {
			return InvalidAmount()
		}
		return ValidAmount(*x)
	case decimal.NullDecimal:
		if !x.Valid {
			return InvalidAmount()
		}
		return ValidAmount(x.Decimal)
	case float64:
		return parseFloat(x)
	case float32:
		return parseFloat(float64(x))
	case int:
		return ValidAmount(decimal.NewFromInt(int64(x)))
	case int32:
		return ValidAmount(decimal.NewFromInt32(x))
	case int64:
		return ValidAmount(decimal.NewFromInt(x))
	case uint:
		return fromUint(uint64(x))
	case uint32:
		return fromUint(uint64(x))
	case uint64:
		return fromUint(x)
	case json.Number:
		return parseString(string(x))
	case string:
		return parseString(x)
	case *string:
		if x == nil {
			return InvalidAmount()
		}
		return parseString(*x)
	default:
		return InvalidAmount()
	}
}

// ToNumber coerces v to a float64 for display math, returning fallback
// when v cannot be parsed.
func ToNumber(v any, fallback float64) float64 {
	d, ok := ParseAmount(v).Decimal()
	if !ok {
		return fallback
	}

	f, _ := d.Float64()

	return f
}

// ToDecimal coerces v to a decimal suitable for storage, returning
// fallback when v cannot be parsed.
func ToDecimal(v any, fallback decimal.Decimal) decimal.Decimal {
	return ParseAmount(v).Or(fallback)
}

// RoundMoney rounds d half away from zero to MoneyScale digits.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

func parseFloat(f float64) ParsedAmount {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return InvalidAmount()
	}

	return ValidAmount(decimal.NewFromFloat(f))
}

func fromUint(u uint64) ParsedAmount {
	return ValidAmount(decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0))
}

func parseString(s string) ParsedAmount {
	s = strings.TrimSpace(s)
	if s == "" {
		return InvalidAmount()
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return InvalidAmount()
	}

	return ValidAmount(d)
}
