package household

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/etnz/household/date"
	"github.com/etnz/household/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// valuedEntry is an entry with its category and its amount in the reporting currency.
type valuedEntry struct {
	Entry
	Category Category
	Value    decimal.Decimal
}

// entries reads the entries of a family between two months and values them in a reporting
// currency, converting with the rates of December 31st of the last month's year.
func (a *Analyzer) entries(ctx context.Context, kind EntryKind, familyID int64, from, to date.YearMonth, currency string) (mode, []valuedEntry, error) {
	m, err := reporting(currency)
	if err != nil {
		return m, nil, err
	}
	var rates Converter
	if m.convert {
		if rates, err = a.RateMap(ctx, date.YearEnd(to.Year)); err != nil {
			return m, nil, err
		}
	}
	categories, err := a.categories(ctx, kind)
	if err != nil {
		return m, nil, err
	}
	all, err := a.store.Entries(ctx, kind, familyID, from, to)
	if err != nil {
		return m, nil, fmt.Errorf("reading %s entries: %w", kind, err)
	}
	var res []valuedEntry
	for _, e := range all {
		v, ok, err := m.value(e.Amount, e.Currency, rates)
		if err != nil {
			return m, nil, fmt.Errorf("%s %d: %w", kind, e.ID, err)
		}
		if !ok {
			continue
		}
		c, found := categories[e.MinorID]
		if !found {
			return m, nil, &NotFoundError{Kind: kind.String() + " category", ID: e.MinorID}
		}
		res = append(res, valuedEntry{Entry: e, Category: c, Value: v})
	}
	return m, res, nil
}

func (a *Analyzer) yearEntries(ctx context.Context, kind EntryKind, familyID int64, year int, currency string) (mode, []valuedEntry, error) {
	months := date.Months(year)
	return a.entries(ctx, kind, familyID, months[0], months[11], currency)
}

// EntrySummary splits the expenses or incomes of a family for a year by major category.
// Share names are the major category ids.
func (a *Analyzer) EntrySummary(ctx context.Context, kind EntryKind, familyID int64, year int, currency string) (Breakdown, error) {
	m, entries, err := a.yearEntries(ctx, kind, familyID, year, currency)
	if err != nil {
		return Breakdown{}, err
	}
	t := newTally(m.target)
	for _, e := range entries {
		t.add(strconv.FormatInt(e.Category.MajorID, 10), e.Category.MajorName, e.Value)
	}
	return t.breakdown(), nil
}

// EntryMinorSummary splits the expenses or incomes of a family for a year, within one major
// category, by minor category. Share names are the minor category ids.
func (a *Analyzer) EntryMinorSummary(ctx context.Context, kind EntryKind, familyID int64, year int, majorID int64, currency string) (Breakdown, error) {
	m, entries, err := a.yearEntries(ctx, kind, familyID, year, currency)
	if err != nil {
		return Breakdown{}, err
	}
	t := newTally(m.target)
	for _, e := range entries {
		if e.Category.MajorID != majorID {
			continue
		}
		t.add(strconv.FormatInt(e.Category.MinorID, 10), e.Category.MinorName, e.Value)
	}
	return t.breakdown(), nil
}

// EntryMonthlyTrend returns the twelve monthly totals of the expenses or incomes of a family
// for a year, for one minor category or for all of them when minorID is 0.
func (a *Analyzer) EntryMonthlyTrend(ctx context.Context, kind EntryKind, familyID int64, year int, minorID int64, currency string) ([]Point, error) {
	m, entries, err := a.yearEntries(ctx, kind, familyID, year, currency)
	if err != nil {
		return nil, err
	}
	s := NewSeries(date.Monthly, m.target, "")
	for _, month := range date.Months(year) {
		s.Add(month.First(), decimal.Zero)
	}
	for _, e := range entries {
		if minorID != 0 && e.MinorID != minorID {
			continue
		}
		s.Add(e.Period.First(), e.Value)
	}
	return s.Points(), nil
}

// RecomputeAnnualExpenseSummary computes the expense rollup of a family for a year, one row
// per major category plus a total row (MajorID 0), and replaces the persisted rows with it.
//
// Base is the spending in FIXED_DAILY categories, Special in LARGE_IRREGULAR ones, and Actual
// their sum. Amounts are in USD at the rates of December 31st.
func (a *Analyzer) RecomputeAnnualExpenseSummary(ctx context.Context, familyID int64, year int) ([]AnnualExpenseSummary, error) {
	log := logger.WithFields(logger.FromContext(ctx), map[string]any{"run": uuid.NewString(), "family": familyID, "year": year})

	_, entries, err := a.yearEntries(ctx, Expense, familyID, year, All)
	if err != nil {
		log.Error().Err(err).Msg("annual expense recompute failed")
		return nil, err
	}
	total := AnnualExpenseSummary{FamilyID: familyID, Year: year, MajorName: Total}
	byMajor := make(map[int64]*AnnualExpenseSummary)
	for _, e := range entries {
		row, ok := byMajor[e.Category.MajorID]
		if !ok {
			row = &AnnualExpenseSummary{FamilyID: familyID, Year: year, MajorID: e.Category.MajorID, MajorName: e.Category.MajorName}
			byMajor[e.Category.MajorID] = row
		}
		for _, r := range []*AnnualExpenseSummary{row, &total} {
			if e.Category.ExpenseType == LargeIrregular {
				r.Special = r.Special.Add(e.Value)
			} else {
				r.Base = r.Base.Add(e.Value)
			}
		}
	}

	rows := make([]AnnualExpenseSummary, 0, len(byMajor)+1)
	for _, r := range byMajor {
		rows = append(rows, *r)
	}
	slices.SortFunc(rows, func(x, y AnnualExpenseSummary) int { return cmp.Compare(x.MajorID, y.MajorID) })
	rows = append(rows, total)
	for i := range rows {
		rows[i].Base, rows[i].Special = Round(rows[i].Base), Round(rows[i].Special)
		rows[i].Actual = rows[i].Base.Add(rows[i].Special)
	}

	if err := a.store.ReplaceAnnualExpenseSummaries(ctx, familyID, year, rows); err != nil {
		return nil, fmt.Errorf("replacing %d expense summaries: %w", year, err)
	}
	log.Info().Int("rows", len(rows)).Msg("annual expense summaries recomputed")
	return rows, nil
}

// ExpenseYear is the expense rollup of a major category, or of every category, for a year in
// a display currency.
type ExpenseYear struct {
	Year      int    `json:"year"`
	MajorID   int64  `json:"majorCategoryId,omitempty"`
	MajorName string `json:"majorCategoryName"`
	Base      Money  `json:"baseExpense"`
	Special   Money  `json:"specialExpense"`
	Actual    Money  `json:"actualExpense"`

	// Year over year changes, nil when the previous year is unknown or zero.
	BaseChange      *decimal.Decimal `json:"yoyBaseChange"`
	BaseChangePct   *Percent         `json:"yoyBaseChangePct"`
	ActualChange    *decimal.Decimal `json:"yoyActualChange"`
	ActualChangePct *Percent         `json:"yoyActualChangePct"`
}

// display converts a persisted USD rollup row to a display currency with the rates of the end
// of its year.
func (a *Analyzer) display(ctx context.Context, s AnnualExpenseSummary, currency string) (ExpenseYear, error) {
	m, err := reporting(currency)
	if err != nil {
		return ExpenseYear{}, err
	}
	var rates Converter = NewRateMap(date.YearEnd(s.Year), nil)
	if m.target != USD {
		if rates, err = a.RateMap(ctx, date.YearEnd(s.Year)); err != nil {
			return ExpenseYear{}, err
		}
	}
	y := ExpenseYear{Year: s.Year, MajorID: s.MajorID, MajorName: s.MajorName}
	for _, f := range []struct {
		dst *Money
		v   decimal.Decimal
	}{{&y.Base, s.Base}, {&y.Special, s.Special}, {&y.Actual, s.Actual}} {
		v, err := Normalize(f.v, USD, m.target, rates)
		if err != nil {
			return ExpenseYear{}, fmt.Errorf("expenses of %d: %w", s.Year, err)
		}
		*f.dst = Money{value: Round(v), cur: m.target}
	}
	return y, nil
}

// AnnualExpenses returns the persisted expense rollup of a family for a year, major categories
// first and the total row last, in a display currency ([All] meaning USD).
func (a *Analyzer) AnnualExpenses(ctx context.Context, familyID int64, year int, currency string) ([]ExpenseYear, error) {
	rows, err := a.store.AnnualExpenseSummaries(ctx, familyID, year)
	if err != nil {
		return nil, fmt.Errorf("reading %d expense summaries: %w", year, err)
	}
	slices.SortFunc(rows, func(x, y AnnualExpenseSummary) int {
		// the total row, 0, sorts last
		if (x.MajorID == 0) != (y.MajorID == 0) {
			if x.MajorID == 0 {
				return 1
			}
			return -1
		}
		return cmp.Compare(x.MajorID, y.MajorID)
	})
	res := make([]ExpenseYear, 0, len(rows))
	for _, r := range rows {
		y, err := a.display(ctx, r, currency)
		if err != nil {
			return nil, err
		}
		res = append(res, y)
	}
	return res, nil
}

// AnnualExpenseTrend returns the total expense rollup of the last limit years of a family
// (every year when limit is not positive), oldest first, with the changes from the previous
// listed year.
func (a *Analyzer) AnnualExpenseTrend(ctx context.Context, familyID int64, limit int, currency string) ([]ExpenseYear, error) {
	totals, err := a.store.AnnualExpenseTotals(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("reading expense summaries: %w", err)
	}
	slices.SortFunc(totals, func(x, y AnnualExpenseSummary) int { return cmp.Compare(y.Year, x.Year) })
	if limit > 0 && len(totals) > limit {
		totals = totals[:limit]
	}
	slices.Reverse(totals)

	res := make([]ExpenseYear, 0, len(totals))
	for i, s := range totals {
		y, err := a.display(ctx, s, currency)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			prev := res[i-1]
			y.BaseChange, y.BaseChangePct = yoy(y.Base.value, prev.Base.value)
			y.ActualChange, y.ActualChangePct = yoy(y.Actual.value, prev.Actual.value)
		}
		res = append(res, y)
	}
	return res, nil
}

// yoy is change with no result at all when the previous value is zero.
func yoy(current, previous decimal.Decimal) (*decimal.Decimal, *Percent) {
	if previous.IsZero() {
		return nil, nil
	}
	return change(current, &previous)
}
