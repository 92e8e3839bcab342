package utils

import (
	"math"
	"testing"
)

func TestParseAmbiguousNumber(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  float64
		ok    bool
	}{
		{"czech grouping", "1.234,56", 1234.56, true},
		{"english grouping", "1,234.56", 1234.56, true},
		{"lone comma decimal", "12,5", 12.5, true},
		{"lone dot decimal", "12.5", 12.5, true},
		{"plain integer", "255", 255, true},
		{"repeated comma grouping", "1,234,567", 1234567, true},
		{"repeated dot grouping", "1.234.567", 1234567, true},
		{"space grouping czech decimal", "10 255,00", 10255, true},
		{"nbsp grouping", "1 234,56", 1234.56, true},
		{"negative", "-255,50", -255.5, true},
		{"embedded text", "celkem 255,00", 255, true},
		{"empty", "", 0, false},
		{"no digits", "CZK", 0, false},
		{"dashes only", "--", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmbiguousNumber(tt.token)
			if ok != tt.ok {
				t.Fatalf("ParseAmbiguousNumber(%q) ok = %v, want %v", tt.token, ok, tt.ok)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseAmbiguousNumber(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestExtractCurrencyAndNumber(t *testing.T) {
	tests := []struct {
		token    string
		amount   float64
		currency string
		ok       bool
	}{
		{"255,00 CZK", 255, "CZK", true},
		{"CZK 255,00", 255, "CZK", true},
		{"$1,234.56", 1234.56, "USD", true},
		{"€99.90", 99.9, "EUR", true},
		{"1 000,00", 1000, "", true},
		{"EUR", 0, "EUR", false},
	}
	for _, tt := range tests {
		amount, currency, ok := ExtractCurrencyAndNumber(tt.token)
		if ok != tt.ok || currency != tt.currency {
			t.Errorf("ExtractCurrencyAndNumber(%q) = (%v, %q, %v), want (%v, %q, %v)",
				tt.token, amount, currency, ok, tt.amount, tt.currency, tt.ok)
			continue
		}
		if ok && math.Abs(amount-tt.amount) > 1e-9 {
			t.Errorf("ExtractCurrencyAndNumber(%q) amount = %v, want %v", tt.token, amount, tt.amount)
		}
	}
}
