package household

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a percentage, 12.5 meaning 12.5%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}

var hundred = decimal.NewFromInt(100)

// ratio returns num / den × 100 rounded to two decimals, and false when den is zero.
func ratio(num, den decimal.Decimal) (Percent, bool) {
	if den.IsZero() {
		return 0, false
	}
	return Percent(num.Div(den).Mul(hundred).Round(2).InexactFloat64()), true
}

// share is ratio with 0 for a zero denominator.
func share(num, den decimal.Decimal) Percent {
	p, _ := ratio(num, den)
	return p
}

// optionalRatio is ratio with nil for an undefined result.
func optionalRatio(num, den decimal.Decimal) *Percent {
	p, ok := ratio(num, den)
	if !ok {
		return nil
	}
	return &p
}
