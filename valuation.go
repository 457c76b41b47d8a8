package household

import (
	"cmp"
	"slices"

	"github.com/etnz/household/date"
)

// ValueAsOf selects the valuation representing an account on a date: the one with the latest
// date not after on, or the latest one when on is the zero date. Among valuations of the same
// date, the most recently created one (highest ID) wins.
//
// It returns false when no valuation qualifies; the account must then be left out of any
// aggregate for that date.
func ValueAsOf(records []Valuation, on date.Date) (Valuation, bool) {
	return history(records).ValueAsOf(on)
}

// history indexes valuations by date. Valuations are appended by increasing ID so that the
// most recent one of a day overwrites the others.
func history(records []Valuation) *date.History[Valuation] {
	sorted := slices.SortedFunc(slices.Values(records), func(a, b Valuation) int { return cmp.Compare(a.ID, b.ID) })
	h := new(date.History[Valuation])
	for _, v := range sorted {
		h.Append(v.Date, v)
	}
	return h
}
