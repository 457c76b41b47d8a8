package household

import (
	"context"
	"fmt"
	"maps"

	"github.com/etnz/household/date"
	"github.com/etnz/household/logger"
	"github.com/shopspring/decimal"
)

// RateMap is a snapshot of the rates to USD in effect at a cutoff date. It is built once for
// a batch of conversions and never modified.
//
// The snapshot is not atomic with respect to rate writes: rates stored while, or after, it is
// built are not in it, and two maps built concurrently for the same cutoff may differ. Each
// map is consistent with itself, which is all a single computation needs.
type RateMap struct {
	cutoff date.Date
	rates  map[string]decimal.Decimal
}

// BuildRateMap reads every active rate once, and keeps per currency the latest one effective
// not after cutoff. Currencies without such a rate take their fallback rate (DefaultRates for
// a nil fallback). USD is always 1. A zero cutoff keeps the latest rates.
func BuildRateMap(ctx context.Context, source RateSource, cutoff date.Date, fallback map[string]decimal.Decimal) (*RateMap, error) {
	all, err := source.ActiveRatesByDateDesc(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading exchange rates: %w", err)
	}
	if fallback == nil {
		fallback = DefaultRates()
	}

	rates := make(map[string]decimal.Decimal)
	for _, r := range all {
		if _, seen := rates[r.Currency]; seen {
			continue
		}
		if !cutoff.IsZero() && r.Effective.After(cutoff) {
			continue
		}
		rates[r.Currency] = r.RateToUSD
	}
	found := len(rates)
	for currency, rate := range fallback {
		if _, ok := rates[currency]; !ok {
			rates[currency] = rate
		}
	}
	rates[USD] = decimal.NewFromInt(1)

	log := logger.FromContext(ctx)
	log.Debug().Stringer("cutoff", cutoff).Int("rates", len(all)).
		Int("found", found).Int("currencies", len(rates)).Msg("built rate map")
	return &RateMap{cutoff: cutoff, rates: rates}, nil
}

// NewRateMap returns a map over fixed rates, USD being always 1.
func NewRateMap(cutoff date.Date, rates map[string]decimal.Decimal) *RateMap {
	m := maps.Clone(rates)
	if m == nil {
		m = make(map[string]decimal.Decimal)
	}
	m[USD] = decimal.NewFromInt(1)
	return &RateMap{cutoff: cutoff, rates: m}
}

// Cutoff returns the date the rates are in effect.
func (m *RateMap) Cutoff() date.Date { return m.cutoff }

// RateToUSD returns the rate of a currency, or a *ConfigurationError for an unknown one.
func (m *RateMap) RateToUSD(currency string) (decimal.Decimal, error) {
	rate, ok := m.rates[currency]
	if !ok {
		return decimal.Zero, &ConfigurationError{Currency: currency, Reason: fmt.Sprintf("no exchange rate on %v and no default rate", m.cutoff)}
	}
	return rate, nil
}

// Rates returns a copy of the snapshot.
func (m *RateMap) Rates() map[string]decimal.Decimal { return maps.Clone(m.rates) }
