package household

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Share is one bucket of a breakdown.
type Share struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Value   Money   `json:"value"`
	Percent Percent `json:"percentage"`
}

// Breakdown is a total split into shares, largest first.
//
// Total and every share value are rounded to the cent separately, from exact amounts. The sum
// of the share values can therefore differ from Total by a few cents.
type Breakdown struct {
	Total  Money   `json:"total"`
	Shares []Share `json:"items"`
}

// Get returns the share of a bucket name.
func (b Breakdown) Get(name string) (Share, bool) {
	for _, s := range b.Shares {
		if s.Name == name {
			return s, true
		}
	}
	return Share{}, false
}

// tally sums amounts per bucket.
type tally struct {
	currency string
	keys     []string
	labels   map[string]string
	totals   map[string]decimal.Decimal
}

func newTally(currency string) *tally {
	return &tally{currency: currency, labels: map[string]string{}, totals: map[string]decimal.Decimal{}}
}

func (t *tally) add(name, label string, v decimal.Decimal) {
	total, ok := t.totals[name]
	if !ok {
		t.keys = append(t.keys, name)
		t.labels[name] = label
	}
	t.totals[name] = total.Add(v)
}

func (t *tally) total() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range t.totals {
		sum = sum.Add(v)
	}
	return sum
}

func (t *tally) get(name string) decimal.Decimal { return t.totals[name] }

// breakdown returns the shares of every bucket, percentages being relative to the sum of all
// buckets (0 when it is zero).
func (t *tally) breakdown() Breakdown { return t.breakdownOf(t.total(), nil) }

// breakdownOf returns the shares of the buckets kept by the filter (all for nil), with
// percentages relative to grand.
func (t *tally) breakdownOf(grand decimal.Decimal, keep func(decimal.Decimal) bool) Breakdown {
	b := Breakdown{Total: Money{value: Round(grand), cur: t.currency}, Shares: []Share{}}
	for _, name := range t.keys {
		v := t.totals[name]
		if keep != nil && !keep(v) {
			continue
		}
		b.Shares = append(b.Shares, Share{
			Name:    name,
			Label:   t.labels[name],
			Value:   Money{value: Round(v), cur: t.currency},
			Percent: share(v, grand),
		})
	}
	slices.SortStableFunc(b.Shares, func(x, y Share) int {
		if c := y.Value.value.Cmp(x.Value.value); c != 0 {
			return c
		}
		return cmp.Compare(x.Name, y.Name)
	})
	return b
}

// amounts returns the rounded totals per bucket.
func (t *tally) amounts() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(t.totals))
	for k, v := range t.totals {
		m[k] = Round(v)
	}
	return m
}
