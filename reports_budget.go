package household

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
)

// BudgetRow compares the budget of a minor expense category with what was actually spent.
type BudgetRow struct {
	MajorID     int64       `json:"majorCategoryId"`
	MajorName   string      `json:"majorCategoryName"`
	MinorID     int64       `json:"minorCategoryId"`
	MinorName   string      `json:"minorCategoryName"`
	ExpenseType ExpenseType `json:"expenseType"`
	Budget      Money       `json:"budgetAmount"`
	Actual      Money       `json:"actualAmount"`
	Variance    Money       `json:"variance"`
	Rate        Percent     `json:"executionRate"`
}

// budgetKey identifies the spending of a minor category in one currency.
type budgetKey struct {
	minor    int64
	currency string
}

// BudgetExecution compares the budget lines of a family for a year with its expenses.
//
// Expenses are summed per minor category and currency. Every budget line gets a row with the
// actual spending under the same key, the variance (actual - budget) and the execution rate
// (actual / budget × 100, 0 when the budget is not positive). Spending without budget line
// gets a row with a zero budget. In [All] mode amounts are converted to USD with the rates of
// December 31st, otherwise only the lines and expenses in that currency are kept. Rows are
// sorted by major then minor category id.
func (a *Analyzer) BudgetExecution(ctx context.Context, familyID int64, year int, currency string) ([]BudgetRow, error) {
	m, err := reporting(currency)
	if err != nil {
		return nil, err
	}
	var rates Converter
	if m.convert {
		if rates, err = a.RateMap(ctx, date.YearEnd(year)); err != nil {
			return nil, err
		}
	}
	categories, err := a.categories(ctx, Expense)
	if err != nil {
		return nil, err
	}
	lines, err := a.store.BudgetLines(ctx, familyID, year)
	if err != nil {
		return nil, fmt.Errorf("reading %d budget: %w", year, err)
	}
	months := date.Months(year)
	entries, err := a.store.Entries(ctx, Expense, familyID, months[0], months[11])
	if err != nil {
		return nil, fmt.Errorf("reading %d expenses: %w", year, err)
	}

	actuals := make(map[budgetKey]decimal.Decimal)
	var keys []budgetKey
	for _, e := range entries {
		v, ok, err := m.value(e.Amount, e.Currency, rates)
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", e.ID, err)
		}
		if !ok {
			continue
		}
		k := budgetKey{e.MinorID, e.Currency}
		if _, seen := actuals[k]; !seen {
			keys = append(keys, k)
		}
		actuals[k] = actuals[k].Add(v)
	}

	row := func(minor int64, budget, actual decimal.Decimal) (BudgetRow, error) {
		c, ok := categories[minor]
		if !ok {
			return BudgetRow{}, &NotFoundError{Kind: "expense category", ID: minor}
		}
		r := BudgetRow{
			MajorID:     c.MajorID,
			MajorName:   c.MajorName,
			MinorID:     c.MinorID,
			MinorName:   c.MinorName,
			ExpenseType: c.ExpenseType,
			Budget:      Money{value: Round(budget), cur: m.target},
			Actual:      Money{value: Round(actual), cur: m.target},
			Variance:    Money{value: Round(actual.Sub(budget)), cur: m.target},
		}
		if budget.IsPositive() {
			r.Rate = share(actual, budget)
		}
		return r, nil
	}

	var rows []BudgetRow
	budgeted := make(map[budgetKey]bool)
	for _, l := range lines {
		budget, ok, err := m.value(l.Amount, l.Currency, rates)
		if err != nil {
			return nil, fmt.Errorf("budget of category %d: %w", l.MinorID, err)
		}
		if !ok {
			continue
		}
		k := budgetKey{l.MinorID, l.Currency}
		budgeted[k] = true
		r, err := row(l.MinorID, budget, actuals[k])
		if err != nil {
			return nil, fmt.Errorf("budget line: %w", err)
		}
		rows = append(rows, r)
	}
	for _, k := range keys {
		if budgeted[k] {
			continue
		}
		r, err := row(k.minor, decimal.Zero, actuals[k])
		if err != nil {
			return nil, fmt.Errorf("expense: %w", err)
		}
		rows = append(rows, r)
	}

	slices.SortStableFunc(rows, func(x, y BudgetRow) int {
		if c := cmp.Compare(x.MajorID, y.MajorID); c != 0 {
			return c
		}
		return cmp.Compare(x.MinorID, y.MinorID)
	})
	return rows, nil
}

// categories indexes the categories of a kind by minor category id.
func (a *Analyzer) categories(ctx context.Context, kind EntryKind) (map[int64]Category, error) {
	all, err := a.store.Categories(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("reading %s categories: %w", kind, err)
	}
	m := make(map[int64]Category, len(all))
	for _, c := range all {
		m[c.MinorID] = c
	}
	return m, nil
}
