package household

import (
	"context"
	"fmt"

	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
)

// snapshot is the valuation of every account of a scope on a date.
type snapshot struct {
	on          date.Date
	mode        mode
	assets      []position
	liabilities []position
}

// snapshot values the accounts of a scope on a date in a reporting currency. In All mode the
// amounts are converted with the rates in effect on that date.
func (a *Analyzer) snapshot(ctx context.Context, scope Scope, on date.Date, currency string) (*snapshot, error) {
	m, err := reporting(currency)
	if err != nil {
		return nil, err
	}
	var rates Converter
	if m.convert {
		if rates, err = a.RateMap(ctx, on); err != nil {
			return nil, err
		}
	}
	assets, liabilities, err := a.accounts(ctx, scope)
	if err != nil {
		return nil, err
	}
	s := &snapshot{on: on, mode: m}
	if s.assets, err = a.positions(ctx, assets, on, m, rates); err != nil {
		return nil, err
	}
	if s.liabilities, err = a.positions(ctx, liabilities, on, m, rates); err != nil {
		return nil, err
	}
	return s, nil
}

func sum(positions []position) decimal.Decimal {
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(p.Value)
	}
	return total
}

// latest returns the most recent valuation date used by the snapshot.
func (s *snapshot) latest() date.Date {
	var latest date.Date
	for _, ps := range [][]position{s.assets, s.liabilities} {
		for _, p := range ps {
			if p.Valuation.Date.After(latest) {
				latest = p.Valuation.Date
			}
		}
	}
	return latest
}

// withoutPrimaryResidence drops primary residences and the liabilities linked to them.
func (s *snapshot) withoutPrimaryResidence() {
	linked := make(map[int64]bool)
	var assets []position
	for _, p := range s.assets {
		if p.Account.PrimaryResidence {
			if p.Account.LinkedLiabilityID != 0 {
				linked[p.Account.LinkedLiabilityID] = true
			}
			continue
		}
		assets = append(assets, p)
	}
	var liabilities []position
	for _, p := range s.liabilities {
		if !linked[p.Account.ID] {
			liabilities = append(liabilities, p)
		}
	}
	s.assets, s.liabilities = assets, liabilities
}

// Summary is the net worth of a scope on a date.
type Summary struct {
	AsOf        date.Date `json:"asOfDate"`
	ActualDate  date.Date `json:"actualDate"`
	Currency    string    `json:"currency"`
	Assets      Breakdown `json:"assets"`
	Liabilities Breakdown `json:"liabilities"`
	NetWorth    Money     `json:"netWorth"`
}

// AssetSummary returns total assets and liabilities by type, and the net worth of a scope on a
// date. ActualDate is the date of the most recent valuation used. Primary residences and the
// liabilities linked to them can be left out.
func (a *Analyzer) AssetSummary(ctx context.Context, scope Scope, on date.Date, currency string, includePrimaryResidence bool) (Summary, error) {
	s, err := a.snapshot(ctx, scope, on, currency)
	if err != nil {
		return Summary{}, err
	}
	if !includePrimaryResidence {
		s.withoutPrimaryResidence()
	}
	return s.summary(), nil
}

func (s *snapshot) summary() Summary {
	assets, liabilities := byType(s.mode.target, s.assets), byType(s.mode.target, s.liabilities)
	return Summary{
		AsOf:        s.on,
		ActualDate:  s.latest(),
		Currency:    s.mode.target,
		Assets:      assets.breakdown(),
		Liabilities: liabilities.breakdown(),
		NetWorth:    Money{value: Round(assets.total().Sub(liabilities.total())), cur: s.mode.target},
	}
}

func byType(currency string, positions []position) *tally {
	t := newTally(currency)
	for _, p := range positions {
		t.add(p.Account.Type, TypeName(p.Account.Kind, p.Account.Type), p.Value)
	}
	return t
}

// Metrics are the health indicators of a scope on a date.
type Metrics struct {
	Summary

	DebtToAssetRatio Percent `json:"debtToAssetRatio"`
	Cash             Money   `json:"cashAmount"`
	LiquidityRatio   Percent `json:"liquidityRatio"`

	PreviousMonth         date.Date `json:"previousMonthDate"`
	PreviousMonthNetWorth Money     `json:"previousMonthNetWorth"`
	MonthlyChange         Money     `json:"monthlyChange"`
	MonthlyChangeRate     Percent   `json:"monthlyChangeRate"`

	PreviousYear         date.Date `json:"previousYearDate"`
	PreviousYearNetWorth Money     `json:"previousYearNetWorth"`
	YearlyChange         Money     `json:"yearlyChange"`
	YearlyChangeRate     Percent   `json:"yearlyChangeRate"`
}

// FinancialMetrics returns the debt-to-asset and liquidity ratios of a scope on a date (today
// for the zero date), and the change of its net worth over a month and a year. The change
// rates are scaled to 30 and 365 days respectively, based on the actual date of the previous
// valuations; they are 0 when the previous net worth is not positive.
func (a *Analyzer) FinancialMetrics(ctx context.Context, scope Scope, on date.Date, currency string) (Metrics, error) {
	if on.IsZero() {
		on = date.Today()
	}
	current, err := a.AssetSummary(ctx, scope, on, currency, true)
	if err != nil {
		return Metrics{}, err
	}
	m := Metrics{Summary: current}
	assets := current.Assets.Total.value
	m.DebtToAssetRatio = share(current.Liabilities.Total.value, assets)
	m.Cash = Money{value: decimal.Zero, cur: current.Currency}
	if cash, ok := current.Assets.Get(Cash); ok {
		m.Cash = cash.Value
	}
	m.LiquidityRatio = share(m.Cash.value, assets)

	m.PreviousMonth = on.ShiftMonth(-1)
	if m.PreviousMonthNetWorth, m.MonthlyChange, m.MonthlyChangeRate, err = a.netWorthChange(ctx, scope, current, m.PreviousMonth, currency, 30); err != nil {
		return Metrics{}, err
	}
	m.PreviousYear = on.ShiftMonth(-12)
	if m.PreviousYearNetWorth, m.YearlyChange, m.YearlyChangeRate, err = a.netWorthChange(ctx, scope, current, m.PreviousYear, currency, 365); err != nil {
		return Metrics{}, err
	}
	return m, nil
}

func (a *Analyzer) netWorthChange(ctx context.Context, scope Scope, current Summary, previousOn date.Date, currency string, days int) (previous, delta Money, rate Percent, err error) {
	before, err := a.AssetSummary(ctx, scope, previousOn, currency, true)
	if err != nil {
		return previous, delta, 0, fmt.Errorf("net worth on %v: %w", previousOn, err)
	}
	previous = before.NetWorth
	delta = current.NetWorth.Sub(previous)
	actual := current.AsOf.DaysSince(before.ActualDate)
	if previous.IsPositive() && !before.ActualDate.IsZero() && actual > 0 {
		raw := delta.value.Div(previous.value).Mul(hundred)
		rate = Percent(raw.Mul(decimal.NewFromInt(int64(days))).Div(decimal.NewFromInt(int64(actual))).Round(2).InexactFloat64())
	}
	return previous, delta, rate, nil
}
