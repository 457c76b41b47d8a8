package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/etnz/household"
	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func month(s string) date.YearMonth {
	m, err := date.ParseYearMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

func dataset() *household.Dataset {
	return &household.Dataset{
		Accounts: []household.Account{
			{ID: 1, UserID: 10, FamilyID: 1, Name: "Checking", Kind: household.Asset, Type: household.Cash, Currency: "USD", Active: true},
			{ID: 2, UserID: 11, FamilyID: 1, Name: "Card", Kind: household.Liability, Type: household.CreditCard, Currency: "EUR", Active: true},
			{ID: 3, UserID: 10, FamilyID: 1, Name: "Closed", Kind: household.Asset, Type: household.Cash, Currency: "USD"},
			{ID: 4, UserID: 10, FamilyID: 1, Name: "Brokerage", Kind: household.Asset, Type: household.Stocks, Currency: "USD", Active: true, Investment: true, TaxStatus: household.TaxFree},
		},
		Valuations: []household.Valuation{
			{ID: 1, AccountID: 1, Date: date.MustParse("2024-06-30"), Amount: dec("800")},
			{ID: 2, AccountID: 1, Date: date.MustParse("2024-12-31"), Amount: dec("1000")},
			{ID: 3, AccountID: 2, Date: date.MustParse("2024-12-31"), Amount: dec("100")},
			{ID: 4, AccountID: 4, Date: date.MustParse("2023-12-31"), Amount: dec("1000")},
			{ID: 5, AccountID: 4, Date: date.MustParse("2024-12-31"), Amount: dec("1300")},
		},
		Rates: []household.ExchangeRate{
			{Currency: "EUR", Effective: date.MustParse("2024-01-01"), RateToUSD: dec("1.10"), Active: true},
			{Currency: "EUR", Effective: date.MustParse("2024-06-01"), RateToUSD: dec("1.20"), Active: true},
			{Currency: "EUR", Effective: date.MustParse("2024-09-01"), RateToUSD: dec("2"), Active: false},
		},
		Transactions: []household.InvestmentTransaction{
			{ID: 1, AccountID: 4, Period: month("2024-05"), Type: household.Deposit, Amount: dec("200")},
		},
		ExpenseCategories: []household.Category{
			{MajorID: 1, MajorName: "Housing", MinorID: 11, MinorName: "Rent", ExpenseType: household.FixedDaily},
			{MajorID: 1, MajorName: "Housing", MinorID: 12, MinorName: "Roof", ExpenseType: household.LargeIrregular},
		},
		IncomeCategories: []household.Category{{MajorID: 100, MajorName: "Work", MinorID: 101, MinorName: "Salary"}},
		Expenses: []household.Entry{
			{ID: 1, FamilyID: 1, Period: month("2024-01"), MajorID: 1, MinorID: 11, Currency: "USD", Amount: dec("900")},
			{ID: 2, FamilyID: 1, Period: month("2024-07"), MajorID: 1, MinorID: 12, Currency: "EUR", Amount: dec("1000")},
			{ID: 3, FamilyID: 1, Period: month("2025-01"), MajorID: 1, MinorID: 11, Currency: "USD", Amount: dec("900")},
		},
		Incomes: []household.Entry{
			{ID: 1, FamilyID: 1, Period: month("2024-01"), MajorID: 100, MinorID: 101, Currency: "USD", Amount: dec("5000")},
		},
		Budget: []household.BudgetLine{
			{FamilyID: 1, Year: 2024, MinorID: 11, Currency: "USD", Amount: dec("1000")},
		},
	}
}

// newStore opens a fresh database loaded with the test dataset.
func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "household.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Import(context.Background(), dataset()))
	return s
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "household.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Import(context.Background(), dataset()))
	require.NoError(t, s.Close())

	// migrations are already applied
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	acc, err := s.Account(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Checking", acc.Name)
}

func TestStore_Accounts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	accounts, err := s.ActiveAccounts(ctx, household.Scope{FamilyID: 1})
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	require.Equal(t, household.Liability, accounts[1].Kind)
	require.Equal(t, household.TaxFree, accounts[2].TaxStatus)
	require.True(t, accounts[2].Investment)

	mine, err := s.ActiveAccounts(ctx, household.Scope{FamilyID: 1, UserID: 11})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Card", mine[0].Name)

	_, err = s.Account(ctx, 42)
	var nf *household.NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
}

func TestStore_Valuations(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	all, err := s.Valuations(ctx, 1, date.Range{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	until, err := s.Valuations(ctx, 1, date.Until(date.MustParse("2024-07-01")))
	require.NoError(t, err)
	require.Len(t, until, 1)
	require.True(t, until[0].Amount.Equal(dec("800")))
	require.Equal(t, date.MustParse("2024-06-30"), until[0].Date)

	year, err := s.Valuations(ctx, 4, date.Year(2024))
	require.NoError(t, err)
	require.Len(t, year, 1)
}

func TestStore_Rates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	rates, err := s.ActiveRatesByDateDesc(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	require.Equal(t, date.MustParse("2024-06-01"), rates[0].Effective)

	r, ok, err := s.RateAsOf(ctx, "EUR", date.MustParse("2024-05-31"))
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, r.RateToUSD.Equal(dec("1.10")))

	_, ok, err = s.RateAsOf(ctx, "EUR", date.MustParse("2023-12-31"))
	require.NoError(t, err)
	require.False(t, ok)

	latest, ok, err := s.RateAsOf(ctx, "EUR", date.Date{})
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, latest.RateToUSD.Equal(dec("1.20")), "inactive rates are ignored")

	require.NoError(t, s.SaveRates(ctx, []household.ExchangeRate{
		{Currency: "EUR", Effective: date.MustParse("2024-06-01"), RateToUSD: dec("1.25"), Active: true},
		{Currency: "GBP", Effective: date.MustParse("2024-06-01"), RateToUSD: dec("1.27"), Active: true},
	}))
	rates, err = s.ActiveRatesByDateDesc(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 3)
	r, _, err = s.RateAsOf(ctx, "EUR", date.Date{})
	require.NoError(t, err)
	require.True(t, r.RateToUSD.Equal(dec("1.25")))

	err = s.SaveRates(ctx, []household.ExchangeRate{{Currency: "EUR", Effective: date.MustParse("2024-07-01"), RateToUSD: dec("0")}})
	require.Error(t, err)
}

func TestStore_Entries(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	expenses, err := s.Entries(ctx, household.Expense, 1, month("2024-01"), month("2024-12"))
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	require.Equal(t, month("2024-07"), expenses[1].Period)

	incomes, err := s.Entries(ctx, household.Income, 1, month("2024-01"), month("2024-12"))
	require.NoError(t, err)
	require.Len(t, incomes, 1)

	categories, err := s.Categories(ctx, household.Expense)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, household.LargeIrregular, categories[1].ExpenseType)

	txs, err := s.Transactions(ctx, 4, month("2024-01"), month("2024-12"))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, household.Deposit, txs[0].Type)

	lines, err := s.BudgetLines(ctx, 1, 2024)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestStore_CategoryMappings(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	m, err := s.CategoryMappings(ctx)
	require.NoError(t, err)
	require.True(t, m.IsEmpty())

	d := &household.Dataset{Mappings: household.DefaultMappings()}
	require.NoError(t, s.Import(ctx, d))
	m, err = s.CategoryMappings(ctx)
	require.NoError(t, err)
	require.Equal(t, household.DefaultMappings(), m)
}

func TestStore_ReplaceSummaries(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	nw := dec("100")

	_, ok, err := s.AnnualSummary(ctx, 1, 2024, household.All)
	require.NoError(t, err)
	require.False(t, ok)

	rows := []household.AnnualSummary{
		{FamilyID: 1, Year: 2024, Currency: household.All, ReportingCurrency: "USD", NetWorth: nw, NetWorthChange: &nw},
		{FamilyID: 1, Year: 2024, Currency: "EUR", ReportingCurrency: "EUR", NetWorth: dec("90")},
	}
	require.NoError(t, s.ReplaceAnnualSummaries(ctx, 1, 2024, rows))
	got, ok, err := s.AnnualSummary(ctx, 1, 2024, household.All)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.NetWorth.Equal(nw))
	require.NotNil(t, got.NetWorthChange)

	// a replace drops the currencies no longer computed
	require.NoError(t, s.ReplaceAnnualSummaries(ctx, 1, 2024, rows[:1]))
	_, ok, err = s.AnnualSummary(ctx, 1, 2024, "EUR")
	require.NoError(t, err)
	require.False(t, ok)

	expenses := []household.AnnualExpenseSummary{
		{FamilyID: 1, Year: 2024, MajorID: 1, MajorName: "Housing", Base: dec("900"), Special: dec("1200"), Actual: dec("2100")},
		{FamilyID: 1, Year: 2024, MajorID: 0, MajorName: household.Total, Base: dec("900"), Special: dec("1200"), Actual: dec("2100")},
	}
	require.NoError(t, s.ReplaceAnnualExpenseSummaries(ctx, 1, 2024, expenses))
	require.NoError(t, s.ReplaceAnnualExpenseSummaries(ctx, 1, 2023, expenses[1:]))
	listed, err := s.AnnualExpenseSummaries(ctx, 1, 2024)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	totals, err := s.AnnualExpenseTotals(ctx, 1)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	require.Equal(t, 2023, totals[0].Year)
	require.True(t, totals[1].Actual.Equal(dec("2100")))
}

func TestStore_ImportInvalid(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	d := dataset()
	d.Accounts = nil
	d.Valuations = []household.Valuation{{ID: 99, AccountID: 42, Date: date.MustParse("2024-01-01"), Amount: dec("1")}}
	require.Error(t, s.Import(ctx, d))

	all, err := s.Valuations(ctx, 42, date.Range{})
	require.NoError(t, err)
	require.Empty(t, all)
}

// TestStore_Analyzer runs the analytics over the database.
func TestStore_Analyzer(t *testing.T) {
	ctx := context.Background()
	a := household.NewAnalyzer(newStore(t))

	s, err := a.AssetSummary(ctx, household.Scope{FamilyID: 1}, date.MustParse("2024-12-31"), household.All, true)
	require.NoError(t, err)
	// 1000 + 1300 - 100 EUR × 1.20
	require.True(t, s.NetWorth.Amount().Equal(dec("2180")), "got %v", s.NetWorth)

	r, err := a.InvestmentReturn(ctx, 4, 2024)
	require.NoError(t, err)
	require.True(t, r.Return.Gain.Equal(dec("100")), "got %v", r.Return.Gain)

	rows, err := a.BudgetExecution(ctx, 1, 2024, household.All)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, household.Percent(90), rows[0].Rate)

	summaries, err := a.RecomputeAnnualSummary(ctx, 1, 2024)
	require.NoError(t, err)
	require.NotEmpty(t, summaries)
	stored, err := a.AnnualSummary(ctx, 1, 2024, household.All)
	require.NoError(t, err)
	require.True(t, stored.NetWorth.Equal(dec("2180")))

	expenses, err := a.RecomputeAnnualExpenseSummary(ctx, 1, 2024)
	require.NoError(t, err)
	// 900 + 1000 EUR × 1.20
	require.True(t, expenses[len(expenses)-1].Actual.Equal(dec("2100")))
}
