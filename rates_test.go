package household

import (
	"errors"
	"testing"

	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
)

func TestRateResolver_Rate(t *testing.T) {
	r := NewRateResolver(NewMemory(testDataset()), nil)
	tests := []struct {
		currency string
		on       date.Date
		want     string
	}{
		{"USD", day("2024-07-01"), "1"},
		{"EUR", day("2024-07-01"), "1.20"},  // latest not after the date
		{"EUR", day("2024-06-01"), "1.20"},  // effective that day
		{"EUR", day("2024-05-31"), "1.10"},
		{"EUR", day("2023-12-15"), "1.05"},
		{"EUR", day("2025-03-01"), "1.20"},  // the inactive rate is ignored
		{"EUR", day("2023-01-01"), "1.08"},  // before every rate: default
		{"EUR", date.Date{}, "1.20"},        // now
		{"GBP", day("2024-07-01"), "1.27"},
	}
	for _, tt := range tests {
		t.Run(tt.currency+" "+tt.on.String(), func(t *testing.T) {
			got, err := r.Rate(ctx, tt.currency, tt.on)
			if err != nil {
				t.Fatalf("Rate() error = %v", err)
			}
			checkDecimal(t, "Rate()", got, tt.want)
		})
	}
}

func TestRateResolver_Unknown(t *testing.T) {
	r := NewRateResolver(NewMemory(testDataset()), map[string]decimal.Decimal{})
	_, err := r.Rate(ctx, "GBP", day("2024-07-01"))
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("Rate() error = %v, want a *ConfigurationError", err)
	}
	if got, want := cerr.Currency, "GBP"; got != want {
		t.Errorf("ConfigurationError.Currency = %q, want %q", got, want)
	}
}

func TestBuildRateMap(t *testing.T) {
	source := NewMemory(testDataset())
	tests := []struct {
		cutoff date.Date
		want   map[string]string
	}{
		{day("2024-03-01"), map[string]string{"USD": "1", "EUR": "1.10", "CNY": "0.14"}},
		{day("2024-12-31"), map[string]string{"USD": "1", "EUR": "1.20", "JPY": "0.0067"}},
		{day("2020-01-01"), map[string]string{"USD": "1", "EUR": "1.08"}},
		{date.Date{}, map[string]string{"EUR": "1.20"}},
	}
	for _, tt := range tests {
		t.Run(tt.cutoff.String(), func(t *testing.T) {
			m, err := BuildRateMap(ctx, source, tt.cutoff, nil)
			if err != nil {
				t.Fatalf("BuildRateMap() error = %v", err)
			}
			for currency, want := range tt.want {
				got, err := m.RateToUSD(currency)
				if err != nil {
					t.Fatalf("RateToUSD(%q) error = %v", currency, err)
				}
				checkDecimal(t, "RateToUSD("+currency+")", got, want)
			}
		})
	}
}

func TestRateMap_Immutable(t *testing.T) {
	source := NewMemory(testDataset())
	m, err := BuildRateMap(ctx, source, date.Date{}, nil)
	if err != nil {
		t.Fatalf("BuildRateMap() error = %v", err)
	}
	if err := source.SaveRates(ctx, []ExchangeRate{{Currency: "EUR", Effective: day("2024-10-01"), RateToUSD: dec("1.5"), Active: true}}); err != nil {
		t.Fatalf("SaveRates() error = %v", err)
	}
	got, _ := m.RateToUSD("EUR")
	checkDecimal(t, "RateToUSD(EUR) after a write", got, "1.20")

	rates := m.Rates()
	rates["EUR"] = dec("3")
	got, _ = m.RateToUSD("EUR")
	checkDecimal(t, "RateToUSD(EUR) after modifying Rates()", got, "1.20")
}

func TestRateMap_Unknown(t *testing.T) {
	m := NewRateMap(day("2024-12-31"), nil)
	_, err := m.RateToUSD("EUR")
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Errorf("RateToUSD(EUR) error = %v, want a *ConfigurationError", err)
	}
}
