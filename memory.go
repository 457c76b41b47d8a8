package household

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/etnz/household/date"
)

// Memory is a Store holding a Dataset in memory.
type Memory struct {
	mu       sync.RWMutex
	data     Dataset
	summary  map[summaryKey]AnnualSummary
	expenses map[yearKey][]AnnualExpenseSummary
}

type yearKey struct {
	family int64
	year   int
}

type summaryKey struct {
	yearKey
	currency string
}

// NewMemory returns a store over a dataset. The dataset must not be modified afterwards.
func NewMemory(d *Dataset) *Memory {
	m := &Memory{summary: map[summaryKey]AnnualSummary{}, expenses: map[yearKey][]AnnualExpenseSummary{}}
	if d != nil {
		m.data = *d
	}
	return m
}

func (m *Memory) ActiveAccounts(ctx context.Context, scope Scope) ([]Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []Account
	for _, a := range m.data.Accounts {
		if a.Active && scope.Contains(a) {
			res = append(res, a)
		}
	}
	return res, nil
}

func (m *Memory) Account(ctx context.Context, id int64) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := slices.IndexFunc(m.data.Accounts, func(a Account) bool { return a.ID == id })
	if i < 0 {
		return Account{}, &NotFoundError{Kind: "account", ID: id}
	}
	return m.data.Accounts[i], nil
}

func (m *Memory) Valuations(ctx context.Context, accountID int64, r date.Range) ([]Valuation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []Valuation
	for _, v := range m.data.Valuations {
		if v.AccountID == accountID && r.Contains(v.Date) {
			res = append(res, v)
		}
	}
	return res, nil
}

func (m *Memory) ActiveRatesByDateDesc(ctx context.Context) ([]ExchangeRate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []ExchangeRate
	for _, r := range m.data.Rates {
		if r.Active {
			res = append(res, r)
		}
	}
	slices.SortStableFunc(res, func(a, b ExchangeRate) int { return b.Effective.Compare(a.Effective) })
	return res, nil
}

func (m *Memory) RateAsOf(ctx context.Context, currency string, on date.Date) (ExchangeRate, bool, error) {
	rates, _ := m.ActiveRatesByDateDesc(ctx)
	for _, r := range rates {
		if r.Currency == currency && (on.IsZero() || !r.Effective.After(on)) {
			return r, true, nil
		}
	}
	return ExchangeRate{}, false, nil
}

// SaveRates adds rates, replacing those with the same currency and effective date.
func (m *Memory) SaveRates(ctx context.Context, rates []ExchangeRate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rates {
		if err := r.validate(); err != nil {
			return err
		}
	}
	for _, r := range rates {
		m.data.Rates = slices.DeleteFunc(m.data.Rates, func(x ExchangeRate) bool {
			return x.Currency == r.Currency && x.Effective == r.Effective
		})
		m.data.Rates = append(m.data.Rates, r)
	}
	return nil
}

func between(p, from, to date.YearMonth) bool { return !p.Before(from) && !to.Before(p) }

func (m *Memory) Transactions(ctx context.Context, accountID int64, from, to date.YearMonth) ([]InvestmentTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []InvestmentTransaction
	for _, t := range m.data.Transactions {
		if t.AccountID == accountID && between(t.Period, from, to) {
			res = append(res, t)
		}
	}
	return res, nil
}

func (m *Memory) Entries(ctx context.Context, kind EntryKind, familyID int64, from, to date.YearMonth) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.data.Expenses
	if kind == Income {
		all = m.data.Incomes
	}
	var res []Entry
	for _, e := range all {
		if e.FamilyID == familyID && between(e.Period, from, to) {
			res = append(res, e)
		}
	}
	return res, nil
}

func (m *Memory) Categories(ctx context.Context, kind EntryKind) ([]Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if kind == Income {
		return slices.Clone(m.data.IncomeCategories), nil
	}
	return slices.Clone(m.data.ExpenseCategories), nil
}

func (m *Memory) BudgetLines(ctx context.Context, familyID int64, year int) ([]BudgetLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []BudgetLine
	for _, b := range m.data.Budget {
		if b.FamilyID == familyID && b.Year == year {
			res = append(res, b)
		}
	}
	return res, nil
}

func (m *Memory) CategoryMappings(ctx context.Context) (CategoryMappings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.Mappings, nil
}

func (m *Memory) AnnualSummary(ctx context.Context, familyID int64, year int, currency string) (AnnualSummary, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.summary[summaryKey{yearKey{familyID, year}, currency}]
	return s, ok, nil
}

func (m *Memory) ReplaceAnnualSummaries(ctx context.Context, familyID int64, year int, rows []AnnualSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	y := yearKey{familyID, year}
	for k := range m.summary {
		if k.yearKey == y {
			delete(m.summary, k)
		}
	}
	for _, r := range rows {
		m.summary[summaryKey{y, r.Currency}] = r
	}
	return nil
}

func (m *Memory) AnnualExpenseSummaries(ctx context.Context, familyID int64, year int) ([]AnnualExpenseSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.expenses[yearKey{familyID, year}]), nil
}

func (m *Memory) ReplaceAnnualExpenseSummaries(ctx context.Context, familyID int64, year int, rows []AnnualExpenseSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[yearKey{familyID, year}] = slices.Clone(rows)
	return nil
}

func (m *Memory) AnnualExpenseTotals(ctx context.Context, familyID int64) ([]AnnualExpenseSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []AnnualExpenseSummary
	for k, rows := range m.expenses {
		if k.family != familyID {
			continue
		}
		for _, r := range rows {
			if r.MajorID == 0 {
				res = append(res, r)
			}
		}
	}
	slices.SortFunc(res, func(a, b AnnualExpenseSummary) int { return cmp.Compare(a.Year, b.Year) })
	return res, nil
}

var _ Store = (*Memory)(nil)
