package household

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
)

// NetWorthPoint is the net worth of a scope at a date.
type NetWorthPoint struct {
	Date        date.Date `json:"date"`
	Assets      Money     `json:"totalAssets"`
	Liabilities Money     `json:"totalLiabilities"`
	NetWorth    Money     `json:"netWorth"`
}

type netWorth struct{ assets, liabilities decimal.Decimal }

func (n netWorth) add(x netWorth) netWorth {
	return netWorth{n.assets.Add(x.assets), n.liabilities.Add(x.liabilities)}
}

// OverallTrend returns, for every date with a valuation in the range, the sum of the
// valuations recorded that date: assets, liabilities and net worth. In [All] mode each
// valuation is converted with the rate in effect on its own date. Only the last point of each
// keep period is returned; use date.Daily to keep them all.
func (a *Analyzer) OverallTrend(ctx context.Context, scope Scope, r date.Range, keep date.Period, currency string) ([]NetWorthPoint, error) {
	m, err := reporting(currency)
	if err != nil {
		return nil, err
	}
	assets, liabilities, err := a.accounts(ctx, scope)
	if err != nil {
		return nil, err
	}
	resolver := a.Resolver()
	var h date.History[netWorth]
	for _, acc := range slices.Concat(assets, liabilities) {
		if !m.convert && acc.Currency != m.target {
			continue
		}
		records, err := a.store.Valuations(ctx, acc.ID, r)
		if err != nil {
			return nil, fmt.Errorf("reading valuations of account %d: %w", acc.ID, err)
		}
		for on, v := range history(records).Values() {
			value, _, err := m.value(v.Amount, acc.Currency, resolver.At(ctx, on))
			if err != nil {
				return nil, fmt.Errorf("valuing account %d on %v: %w", acc.ID, on, err)
			}
			x := netWorth{assets: value}
			if acc.Kind == Liability {
				x = netWorth{liabilities: value}
			}
			h.Merge(on, x, netWorth.add)
		}
	}

	var points []NetWorthPoint
	for on, n := range h.Values() {
		points = append(points, NetWorthPoint{
			Date:        on,
			Assets:      Money{value: Round(n.assets), cur: m.target},
			Liabilities: Money{value: Round(n.liabilities), cur: m.target},
			NetWorth:    Money{value: Round(n.assets.Sub(n.liabilities)), cur: m.target},
		})
	}
	return LastPerPeriod(keep, points, func(p NetWorthPoint) date.Date { return p.Date }), nil
}

// AccountTrend returns the valuations of one account in the range, in its own currency, one
// point per date in ascending order.
func (a *Analyzer) AccountTrend(ctx context.Context, accountID int64, r date.Range) ([]Point, error) {
	acc, err := a.store.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	records, err := a.store.Valuations(ctx, accountID, r)
	if err != nil {
		return nil, fmt.Errorf("reading valuations of account %d: %w", accountID, err)
	}
	s := NewSeries(date.Daily, acc.Currency, acc.Name)
	for on, v := range history(records).Values() {
		s.Add(on, v.Amount)
	}
	return s.Points(), nil
}

// CategoryTrend returns one series per account of the given kind and type in a scope,
// labelled by account name: the last valuation of each period in the range. In [All] mode
// values are converted with the rate in effect on their date. Points are sorted by date, then
// label.
func (a *Analyzer) CategoryTrend(ctx context.Context, scope Scope, kind Kind, typ string, r date.Range, period date.Period, currency string) ([]Point, error) {
	m, err := reporting(currency)
	if err != nil {
		return nil, err
	}
	assets, liabilities, err := a.accounts(ctx, scope)
	if err != nil {
		return nil, err
	}
	accounts := assets
	if kind == Liability {
		accounts = liabilities
	}
	resolver := a.Resolver()
	var points []Point
	for _, acc := range accounts {
		if acc.Type != typ || (!m.convert && acc.Currency != m.target) {
			continue
		}
		records, err := a.store.Valuations(ctx, acc.ID, r)
		if err != nil {
			return nil, fmt.Errorf("reading valuations of account %d: %w", acc.ID, err)
		}
		h := history(records)
		var days []date.Date
		for on := range h.Values() {
			days = append(days, on)
		}
		s := NewSeries(period, m.target, acc.Name)
		for _, on := range LastPerPeriod(period, days, func(d date.Date) date.Date { return d }) {
			v, _ := h.Get(on)
			value, _, err := m.value(v.Amount, acc.Currency, resolver.At(ctx, on))
			if err != nil {
				return nil, fmt.Errorf("valuing account %d on %v: %w", acc.ID, on, err)
			}
			s.Add(on, value)
		}
		points = append(points, s.Points()...)
	}
	slices.SortStableFunc(points, func(x, y Point) int {
		if c := x.Date.Compare(y.Date); c != 0 {
			return c
		}
		return cmp.Compare(x.Label, y.Label)
	})
	return points, nil
}

// NetAssetCategoryTrend returns the net value of a net-asset category in a scope: for every
// date with a valuation in the range, the mapped assets valued that date minus the mapped
// liabilities valued that date. In [All] mode each valuation is converted with the rate in
// effect on its own date. Only the last date of each period is kept, the points are labelled
// with the category name.
//
// It returns a [NotFoundError] if no mapping table knows the category code.
func (a *Analyzer) NetAssetCategoryTrend(ctx context.Context, scope Scope, code string, r date.Range, period date.Period, currency string) ([]Point, error) {
	m, err := reporting(currency)
	if err != nil {
		return nil, err
	}
	mappings, err := a.mappings(ctx)
	if err != nil {
		return nil, err
	}
	if !mappings.has(code) {
		return nil, &NotFoundError{Kind: "net asset category", ID: code}
	}
	assets, liabilities, err := a.accounts(ctx, scope)
	if err != nil {
		return nil, err
	}
	resolver := a.Resolver()
	var h date.History[decimal.Decimal]
	for _, acc := range slices.Concat(assets, liabilities) {
		if !mappings.in(acc.Kind, acc.Type, code) || (!m.convert && acc.Currency != m.target) {
			continue
		}
		records, err := a.store.Valuations(ctx, acc.ID, r)
		if err != nil {
			return nil, fmt.Errorf("reading valuations of account %d: %w", acc.ID, err)
		}
		for on, v := range history(records).Values() {
			value, _, err := m.value(v.Amount, acc.Currency, resolver.At(ctx, on))
			if err != nil {
				return nil, fmt.Errorf("valuing account %d on %v: %w", acc.ID, on, err)
			}
			if acc.Kind == Liability {
				value = value.Neg()
			}
			h.Merge(on, value, decimal.Decimal.Add)
		}
	}

	var days []date.Date
	for on := range h.Values() {
		days = append(days, on)
	}
	s := NewSeries(period, m.target, mappings.name(code))
	for _, on := range LastPerPeriod(period, days, func(d date.Date) date.Date { return d }) {
		v, _ := h.Get(on)
		s.Add(on, v)
	}
	return s.Points(), nil
}
