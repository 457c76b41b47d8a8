package household

import (
	"cmp"
	"context"
	"slices"

	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
)

// Allocation splits the total value of a set of accounts by category and by type.
type Allocation struct {
	AsOf       date.Date `json:"asOfDate"`
	Currency   string    `json:"currency"`
	ByCategory Breakdown `json:"byCategory"`
	ByType     Breakdown `json:"byType"`
}

// Total returns the total value allocated.
func (a Allocation) Total() Money { return a.ByType.Total }

// AssetAllocation splits the assets of a scope on a date by category and by asset type.
//
// With [All] every account is converted to USD at the rates in effect on that date; with a
// currency code only the accounts held in that currency are considered, without conversion.
// Accounts without valuation on that date are not part of the allocation.
func (a *Analyzer) AssetAllocation(ctx context.Context, scope Scope, on date.Date, currency string) (Allocation, error) {
	s, err := a.snapshot(ctx, scope, on, currency)
	if err != nil {
		return Allocation{}, err
	}
	return allocate(s.on, s.mode.target, s.assets), nil
}

// LiabilityAllocation splits the liabilities of a scope on a date by category and by
// liability type. See AssetAllocation.
func (a *Analyzer) LiabilityAllocation(ctx context.Context, scope Scope, on date.Date, currency string) (Allocation, error) {
	s, err := a.snapshot(ctx, scope, on, currency)
	if err != nil {
		return Allocation{}, err
	}
	return allocate(s.on, s.mode.target, s.liabilities), nil
}

func allocate(on date.Date, currency string, positions []position) Allocation {
	categories := newTally(currency)
	for _, p := range positions {
		c := p.Account.category()
		categories.add(c, c, p.Value)
	}
	return Allocation{
		AsOf:       on,
		Currency:   currency,
		ByCategory: categories.breakdown(),
		ByType:     byType(currency, positions).breakdown(),
	}
}

// NetAssetAllocation splits the net worth of a scope on a date by net-asset category: each
// category is worth its mapped assets minus its mapped liabilities. Only categories with a
// positive net value are reported, percentages are relative to their sum.
func (a *Analyzer) NetAssetAllocation(ctx context.Context, scope Scope, on date.Date, currency string) (Breakdown, error) {
	mappings, err := a.mappings(ctx)
	if err != nil {
		return Breakdown{}, err
	}
	s, err := a.snapshot(ctx, scope, on, currency)
	if err != nil {
		return Breakdown{}, err
	}
	t := netAssets(s.mode.target, mappings, s.assets, s.liabilities)
	positive := decimal.Zero
	for _, v := range t.totals {
		if v.IsPositive() {
			positive = positive.Add(v)
		}
	}
	return t.breakdownOf(positive, decimal.Decimal.IsPositive), nil
}

func netAssets(currency string, mappings CategoryMappings, assets, liabilities []position) *tally {
	t := newTally(currency)
	for _, p := range assets {
		for _, code := range mappings.categoriesOf(Asset, p.Account.Type) {
			t.add(code, mappings.name(code), p.Value)
		}
	}
	for _, p := range liabilities {
		for _, code := range mappings.categoriesOf(Liability, p.Account.Type) {
			t.add(code, mappings.name(code), p.Value.Neg())
		}
	}
	return t
}

// CurrencyNetWorth is the net worth held in one currency.
type CurrencyNetWorth struct {
	Currency    string  `json:"currency"`
	Assets      Money   `json:"assets"`
	Liabilities Money   `json:"liabilities"`
	NetWorth    Money   `json:"netWorth"`
	NetWorthUSD Money   `json:"netWorthUsd"`
	Percent     Percent `json:"percentage"`
}

// NetWorthByCurrency returns, for each currency held by a scope on a date, the assets,
// liabilities and net worth in that currency and the net worth in USD. Rows are sorted by USD
// net worth, largest first.
func (a *Analyzer) NetWorthByCurrency(ctx context.Context, scope Scope, on date.Date) ([]CurrencyNetWorth, error) {
	s, err := a.snapshot(ctx, scope, on, All)
	if err != nil {
		return nil, err
	}
	type acc struct{ assets, liabilities, usd decimal.Decimal }
	byCurrency := make(map[string]*acc)
	get := func(c string) *acc {
		if byCurrency[c] == nil {
			byCurrency[c] = &acc{}
		}
		return byCurrency[c]
	}
	total := decimal.Zero
	for _, p := range s.assets {
		x := get(p.Account.Currency)
		x.assets = x.assets.Add(p.Valuation.Amount)
		x.usd = x.usd.Add(p.Value)
		total = total.Add(p.Value)
	}
	for _, p := range s.liabilities {
		x := get(p.Account.Currency)
		x.liabilities = x.liabilities.Add(p.Valuation.Amount)
		x.usd = x.usd.Sub(p.Value)
		total = total.Sub(p.Value)
	}

	rows := make([]CurrencyNetWorth, 0, len(byCurrency))
	for c, x := range byCurrency {
		rows = append(rows, CurrencyNetWorth{
			Currency:    c,
			Assets:      Money{value: Round(x.assets), cur: c},
			Liabilities: Money{value: Round(x.liabilities), cur: c},
			NetWorth:    Money{value: Round(x.assets.Sub(x.liabilities)), cur: c},
			NetWorthUSD: Money{value: Round(x.usd), cur: USD},
			Percent:     share(x.usd, total),
		})
	}
	slices.SortFunc(rows, func(x, y CurrencyNetWorth) int {
		if c := y.NetWorthUSD.value.Cmp(x.NetWorthUSD.value); c != 0 {
			return c
		}
		return cmp.Compare(x.Currency, y.Currency)
	})
	return rows, nil
}

// NetWorthByTaxStatus splits the net worth of a scope on a date, in USD, by tax status. The
// liabilities are deducted from taxable assets first, then from tax free assets, and last
// from tax deferred assets. Only positive buckets are reported.
func (a *Analyzer) NetWorthByTaxStatus(ctx context.Context, scope Scope, on date.Date) (Breakdown, error) {
	s, err := a.snapshot(ctx, scope, on, All)
	if err != nil {
		return Breakdown{}, err
	}
	t := newTally(USD)
	for _, status := range deductionOrder {
		t.add(string(status), status.Name(), decimal.Zero)
	}
	for _, p := range s.assets {
		status := p.Account.taxStatus()
		t.add(string(status), status.Name(), p.Value)
	}
	remaining := sum(s.liabilities)
	for _, status := range deductionOrder {
		if !remaining.IsPositive() {
			break
		}
		bucket := t.get(string(status))
		if !bucket.IsPositive() {
			continue
		}
		deducted := decimal.Min(bucket, remaining)
		t.totals[string(status)] = bucket.Sub(deducted)
		remaining = remaining.Sub(deducted)
	}
	grand := decimal.Zero
	for _, v := range t.totals {
		if v.IsPositive() {
			grand = grand.Add(v)
		}
	}
	return t.breakdownOf(grand, decimal.Decimal.IsPositive), nil
}

// MemberNetWorth is the net worth of one family member.
type MemberNetWorth struct {
	UserID      int64   `json:"userId"`
	Assets      Money   `json:"assets"`
	Liabilities Money   `json:"liabilities"`
	NetWorth    Money   `json:"netWorth"`
	Percent     Percent `json:"percentage"`
}

// NetWorthByMember returns the net worth in USD of every member owning accounts in a family on
// a date, at the rates in effect on that date. Members whose net worth is zero are left out.
// Percentages are relative to the family net worth, rows are sorted by net worth, largest
// first.
func (a *Analyzer) NetWorthByMember(ctx context.Context, familyID int64, on date.Date) ([]MemberNetWorth, error) {
	s, err := a.snapshot(ctx, Scope{FamilyID: familyID}, on, All)
	if err != nil {
		return nil, err
	}
	type acc struct{ assets, liabilities decimal.Decimal }
	byMember := make(map[int64]*acc)
	get := func(user int64) *acc {
		if byMember[user] == nil {
			byMember[user] = &acc{}
		}
		return byMember[user]
	}
	for _, p := range s.assets {
		x := get(p.Account.UserID)
		x.assets = x.assets.Add(p.Value)
	}
	for _, p := range s.liabilities {
		x := get(p.Account.UserID)
		x.liabilities = x.liabilities.Add(p.Value)
	}
	total := sum(s.assets).Sub(sum(s.liabilities))

	rows := make([]MemberNetWorth, 0, len(byMember))
	for user, x := range byMember {
		nw := x.assets.Sub(x.liabilities)
		if Round(nw).IsZero() {
			continue
		}
		rows = append(rows, MemberNetWorth{
			UserID:      user,
			Assets:      Money{value: Round(x.assets), cur: USD},
			Liabilities: Money{value: Round(x.liabilities), cur: USD},
			NetWorth:    Money{value: Round(nw), cur: USD},
			Percent:     share(nw, total),
		})
	}
	slices.SortFunc(rows, func(x, y MemberNetWorth) int {
		if c := y.NetWorth.value.Cmp(x.NetWorth.value); c != 0 {
			return c
		}
		return cmp.Compare(x.UserID, y.UserID)
	})
	return rows, nil
}
