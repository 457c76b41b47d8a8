package household

import (
	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
)

// Point is a value of a trend series.
type Point struct {
	Date   date.Date `json:"date"`
	Period string    `json:"period"`
	Label  string    `json:"label,omitempty"`
	Value  Money     `json:"value"`
}

// Series sums amounts per calendar period: per day, month ("2006-01") or year ("2006").
type Series struct {
	period   date.Period
	currency string
	label    string
	h        date.History[decimal.Decimal]
}

// NewSeries returns an empty series. The label identifies the account or category the series
// is about, if any.
func NewSeries(period date.Period, currency, label string) *Series {
	return &Series{period: period, currency: currency, label: label}
}

// Add adds an amount to the period containing on.
func (s *Series) Add(on date.Date, v decimal.Decimal) *Series {
	s.h.Merge(on.StartOf(s.period), v, decimal.Decimal.Add)
	return s
}

// Len returns the number of periods.
func (s *Series) Len() int { return s.h.Len() }

// Points returns one point per period in ascending order, dated at the start of the period.
func (s *Series) Points() []Point {
	points := make([]Point, 0, s.h.Len())
	for on, v := range s.h.Values() {
		points = append(points, Point{
			Date:   on,
			Period: s.period.Key(on),
			Label:  s.label,
			Value:  Money{value: Round(v), cur: s.currency},
		})
	}
	return points
}

// LastPerPeriod keeps the latest item of each period of an ascending series.
func LastPerPeriod[T any](period date.Period, items []T, on func(T) date.Date) []T {
	var kept []T
	for i, item := range items {
		if i+1 < len(items) && period.Key(on(items[i+1])) == period.Key(on(item)) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
