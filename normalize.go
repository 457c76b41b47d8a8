package household

import (
	"github.com/shopspring/decimal"
)

// Normalize converts an amount from a source to a target currency: unchanged for the same
// currency, amount × rate(source) for USD, and amount × rate(source) / rate(target)
// otherwise. A zero target rate is a *ConfigurationError.
//
// The result is not rounded.
func Normalize(amount decimal.Decimal, source, target string, rates Converter) (decimal.Decimal, error) {
	if source == target {
		return amount, nil
	}
	from, err := rates.RateToUSD(source)
	if err != nil {
		return decimal.Zero, err
	}
	usd := amount.Mul(from)
	if target == USD {
		return usd, nil
	}
	to, err := rates.RateToUSD(target)
	if err != nil {
		return decimal.Zero, err
	}
	if to.IsZero() {
		return decimal.Zero, &ConfigurationError{Currency: target, Reason: "rate to USD is zero"}
	}
	return usd.Div(to), nil
}

// Convert returns m in another currency, see Normalize.
func (m Money) Convert(target string, rates Converter) (Money, error) {
	v, err := Normalize(m.value, m.cur, target, rates)
	if err != nil {
		return Money{}, err
	}
	return Money{value: v, cur: target}, nil
}
