package household

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
)

// All is the reporting currency selecting every account, amounts being converted to USD.
const All = "All"

// Analyzer computes the reports of a household from a Store.
//
// An Analyzer holds no state between calls: every call reads what it needs from the store
// and builds its own rate snapshot.
type Analyzer struct {
	store      Store
	fallback   map[string]decimal.Decimal
	realEstate string
	defaults   CategoryMappings
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithFallbackRates replaces the default rates used for currencies without exchange rate.
func WithFallbackRates(rates map[string]decimal.Decimal) Option {
	return func(a *Analyzer) { a.fallback = rates }
}

// WithRealEstateCategory sets the net-asset category code identifying real estate.
func WithRealEstateCategory(code string) Option {
	return func(a *Analyzer) { a.realEstate = code }
}

// WithMappings replaces the mappings used when the store defines none.
func WithMappings(m CategoryMappings) Option {
	return func(a *Analyzer) { a.defaults = m }
}

// NewAnalyzer returns an Analyzer reading from store.
func NewAnalyzer(store Store, opts ...Option) *Analyzer {
	a := &Analyzer{store: store, fallback: DefaultRates(), realEstate: DefaultRealEstateCategory, defaults: DefaultMappings()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Resolver returns a rate resolver over the analyzer's store.
func (a *Analyzer) Resolver() *RateResolver { return NewRateResolver(a.store, a.fallback) }

// RateMap builds the rate snapshot in effect at cutoff.
func (a *Analyzer) RateMap(ctx context.Context, cutoff date.Date) (*RateMap, error) {
	return BuildRateMap(ctx, a.store, cutoff, a.fallback)
}

// mode is a reporting currency resolved into its conversion rule.
type mode struct {
	target  string // currency of the reported amounts
	convert bool   // every currency converted to target, or only target kept
}

// reporting parses a reporting currency: "" or All (any case) convert everything to USD,
// otherwise only amounts in that currency are kept.
func reporting(currency string) (mode, error) {
	if currency == "" || strings.EqualFold(currency, All) {
		return mode{target: USD, convert: true}, nil
	}
	if err := validCurrency(currency); err != nil {
		return mode{}, err
	}
	return mode{target: currency}, nil
}

// key returns the currency key of persisted rows.
func (m mode) key() string {
	if m.convert {
		return All
	}
	return m.target
}

// value returns an amount in the reporting currency, and false when the amount is not part
// of the report.
func (m mode) value(amount decimal.Decimal, currency string, rates Converter) (decimal.Decimal, bool, error) {
	if !m.convert {
		return amount, currency == m.target, nil
	}
	v, err := Normalize(amount, currency, m.target, rates)
	if err != nil {
		return decimal.Zero, false, err
	}
	return v, true, nil
}

// position is an account with its selected valuation, in the reporting currency.
type position struct {
	Account   Account
	Valuation Valuation
	Value     decimal.Decimal
}

// positions values accounts on a date. Accounts without valuation, or outside the reporting
// currency, are left out.
func (a *Analyzer) positions(ctx context.Context, accounts []Account, on date.Date, m mode, rates Converter) ([]position, error) {
	var res []position
	for _, acc := range accounts {
		if !m.convert && acc.Currency != m.target {
			continue
		}
		records, err := a.store.Valuations(ctx, acc.ID, date.Until(on))
		if err != nil {
			return nil, fmt.Errorf("reading valuations of account %d: %w", acc.ID, err)
		}
		v, ok := ValueAsOf(records, on)
		if !ok {
			continue
		}
		value, _, err := m.value(v.Amount, acc.Currency, rates)
		if err != nil {
			return nil, fmt.Errorf("valuing account %d: %w", acc.ID, err)
		}
		res = append(res, position{Account: acc, Valuation: v, Value: value})
	}
	return res, nil
}

// valueOf returns the native value of one account on a date, zero when it has no valuation.
func (a *Analyzer) valueOf(ctx context.Context, accountID int64, on date.Date) (decimal.Decimal, bool, error) {
	records, err := a.store.Valuations(ctx, accountID, date.Until(on))
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("reading valuations of account %d: %w", accountID, err)
	}
	v, ok := ValueAsOf(records, on)
	return v.Amount, ok, nil
}

// accounts returns the active accounts of a scope, split by kind.
func (a *Analyzer) accounts(ctx context.Context, scope Scope) (assets, liabilities []Account, err error) {
	all, err := a.store.ActiveAccounts(ctx, scope)
	if err != nil {
		return nil, nil, fmt.Errorf("reading accounts: %w", err)
	}
	for _, acc := range all {
		if !acc.Active {
			continue
		}
		if acc.Kind == Liability {
			liabilities = append(liabilities, acc)
		} else {
			assets = append(assets, acc)
		}
	}
	return assets, liabilities, nil
}

// mappings returns the store mappings, or the analyzer's defaults when it has none.
func (a *Analyzer) mappings(ctx context.Context) (CategoryMappings, error) {
	m, err := a.store.CategoryMappings(ctx)
	if err != nil {
		return m, fmt.Errorf("reading category mappings: %w", err)
	}
	if m.IsEmpty() {
		return a.defaults, nil
	}
	return m, nil
}
