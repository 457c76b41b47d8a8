package household

import (
	"context"
	"fmt"

	"github.com/etnz/household/date"
	"github.com/etnz/household/logger"
	"github.com/shopspring/decimal"
)

// USD is the reference currency of every exchange rate.
const USD = "USD"

// DefaultRates are the rates to USD used for a currency that has no exchange rate in effect.
func DefaultRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"CNY": decimal.RequireFromString("0.14"),
		"EUR": decimal.RequireFromString("1.08"),
		"GBP": decimal.RequireFromString("1.27"),
		"JPY": decimal.RequireFromString("0.0067"),
		"AUD": decimal.RequireFromString("0.65"),
		"CAD": decimal.RequireFromString("0.72"),
	}
}

// Converter gives the rate to USD of a currency, for a date implied by the converter.
type Converter interface {
	RateToUSD(currency string) (decimal.Decimal, error)
}

// RateResolver resolves the rate of a currency at a date, one lookup at a time.
type RateResolver struct {
	source   RateSource
	fallback map[string]decimal.Decimal
}

// NewRateResolver returns a resolver reading rates from source, and falling back on the
// fallback table. A nil fallback means DefaultRates.
func NewRateResolver(source RateSource, fallback map[string]decimal.Decimal) *RateResolver {
	if fallback == nil {
		fallback = DefaultRates()
	}
	return &RateResolver{source: source, fallback: fallback}
}

// Rate returns the rate to USD of currency in effect on a date: 1 for USD, the active rate
// with the latest effective date not after on, or the fallback rate. It fails with a
// *ConfigurationError when there is neither.
func (r *RateResolver) Rate(ctx context.Context, currency string, on date.Date) (decimal.Decimal, error) {
	if currency == USD {
		return decimal.NewFromInt(1), nil
	}
	rate, found, err := r.source.RateAsOf(ctx, currency, on)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reading rate of %s on %v: %w", currency, on, err)
	}
	if found {
		return rate.RateToUSD, nil
	}
	if d, ok := r.fallback[currency]; ok {
		log := logger.FromContext(ctx)
		log.Warn().Str("currency", currency).Stringer("on", on).
			Str("rate", d.String()).Msg("no exchange rate in effect, using the default rate")
		return d, nil
	}
	return decimal.Zero, &ConfigurationError{Currency: currency, Reason: fmt.Sprintf("no exchange rate on %v and no default rate", on)}
}

// At binds the resolver to a date.
func (r *RateResolver) At(ctx context.Context, on date.Date) Converter {
	return pointInTime{ctx: ctx, r: r, on: on}
}

type pointInTime struct {
	ctx context.Context
	r   *RateResolver
	on  date.Date
}

func (p pointInTime) RateToUSD(currency string) (decimal.Decimal, error) {
	return p.r.Rate(p.ctx, currency, p.on)
}
