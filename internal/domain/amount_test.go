package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	str := "7.5"
	var nilDecimal *decimal.Decimal

	tests := []struct {
		name  string
		in    any
		valid bool
		want  string
	}{
		{"numeric string", "12.34", true, "12.34"},
		{"padded string", "  100 ", true, "100"},
		{"zero string", "0", true, "0"},
		{"garbage string", "abc", false, ""},
		{"blank string", "   ", false, ""},
		{"nan string", "NaN", false, ""},
		{"nil", nil, false, ""},
		{"float", 3.25, true, "3.25"},
		{"nan float", math.NaN(), false, ""},
		{"inf float", math.Inf(1), false, ""},
		{"int", 42, true, "42"},
		{"int64", int64(-5), true, "-5"},
		{"uint64", uint64(9), true, "9"},
		{"json number", json.Number("19.99"), true, "19.99"},
		{"decimal", decimal.RequireFromString("1.01"), true, "1.01"},
		{"nil decimal pointer", nilDecimal, false, ""},
		{"string pointer", &str, true, "7.5"},
		{"null decimal", decimal.NullDecimal{}, false, ""},
		{"bool", true, false, ""},
		{"slice", []int{1}, false, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.in)
			if got.IsValid() != tt.valid {
				t.Fatalf("valid = %v, want %v", got.IsValid(), tt.valid)
			}

			if !tt.valid {
				return
			}

			d, _ := got.Decimal()
			if !d.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("got %s, want %s", d, tt.want)
			}
		})
	}
}

func TestParsedAmount_ZeroValueIsInvalid(t *testing.T) {
	t.Parallel()

	var p ParsedAmount
	if p.IsValid() {
		t.Fatal("zero value must be invalid")
	}

	if p.String() != "invalid" {
		t.Fatalf("unexpected string %q", p.String())
	}

	if !p.Or(decimal.NewFromInt(3)).Equal(decimal.NewFromInt(3)) {
		t.Fatal("Or should return the fallback")
	}
}

func TestToNumber(t *testing.T) {
	t.Parallel()

	if got := ToNumber("2.5", 0); got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}

	if got := ToNumber("abc", 0); got != 0 {
		t.Fatalf("expected fallback 0, got %v", got)
	}

	if got := ToNumber(nil, -1); got != -1 {
		t.Fatalf("expected fallback -1, got %v", got)
	}

	if got := ToNumber(math.NaN(), 0); got != 0 {
		t.Fatalf("NaN must fall back, got %v", got)
	}
}

func TestToDecimal(t *testing.T) {
	t.Parallel()

	if got := ToDecimal("10.10", decimal.Zero); !got.Equal(decimal.RequireFromString("10.1")) {
		t.Fatalf("expected 10.1, got %s", got)
	}

	if got := ToDecimal(struct{}{}, decimal.Zero); !got.IsZero() {
		t.Fatalf("expected zero fallback, got %s", got)
	}
}

func TestRoundMoney(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"92":      "92",
		"1.005":   "1.01",
		"-1.005":  "-1.01",
		"2.344":   "2.34",
		"0.00499": "0",
	}

	for in, want := range tests {
		got := RoundMoney(decimal.RequireFromString(in))
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("RoundMoney(%s) = %s, want %s", in, got, want)
		}
	}
}
