package household

import (
	"context"
	"testing"

	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// usd returns the Money for a value in US dollars.
func usd(v float64) Money { return M(v, USD) }

// eur returns the Money for a value in euros.
func eur(v float64) Money { return M(v, "EUR") }

func day(s string) date.Date { return date.MustParse(s) }

func month(s string) date.YearMonth {
	m, err := date.ParseYearMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

const family = 1

var (
	year2023 = day("2023-12-31")
	year2024 = day("2024-12-31")
)

// testDataset is a family of two members with a house financed by a mortgage, a brokerage
// account in euros and a retirement fund opened in 2024.
func testDataset() *Dataset {
	return &Dataset{
		Accounts: []Account{
			{ID: 1, UserID: 10, FamilyID: family, Name: "Checking", Kind: Asset, Type: Cash, Category: "Bank", Currency: USD, Active: true},
			{ID: 2, UserID: 10, FamilyID: family, Name: "Brokerage", Kind: Asset, Type: Stocks, Currency: "EUR", Active: true, Investment: true},
			{ID: 3, UserID: 10, FamilyID: family, Name: "House", Kind: Asset, Type: RealEstate, Currency: USD, Active: true, Investment: true, PrimaryResidence: true, LinkedLiabilityID: 5},
			{ID: 4, UserID: 11, FamilyID: family, Name: "401k", Kind: Asset, Type: RetirementFund, Currency: USD, Active: true, Investment: true, TaxStatus: TaxDeferred},
			{ID: 5, UserID: 10, FamilyID: family, Name: "Mortgage", Kind: Liability, Type: Mortgage, Currency: USD, Active: true},
			{ID: 6, UserID: 11, FamilyID: family, Name: "Card", Kind: Liability, Type: CreditCard, Currency: "EUR", Active: true},
			{ID: 7, UserID: 10, FamilyID: family, Name: "Old savings", Kind: Asset, Type: Cash, Currency: USD},
			{ID: 8, UserID: 20, FamilyID: 2, Name: "Neighbour", Kind: Asset, Type: Cash, Currency: USD, Active: true},
		},
		Valuations: []Valuation{
			{ID: 1, AccountID: 1, Date: year2023, Amount: dec("1000")},
			{ID: 2, AccountID: 1, Date: day("2024-06-30"), Amount: dec("1500")},
			{ID: 3, AccountID: 1, Date: year2024, Amount: dec("2000")},
			{ID: 4, AccountID: 2, Date: year2023, Amount: dec("1000")},
			{ID: 5, AccountID: 2, Date: year2024, Amount: dec("1200")},
			{ID: 6, AccountID: 3, Date: year2023, Amount: dec("300000")},
			{ID: 7, AccountID: 3, Date: year2024, Amount: dec("320000")},
			{ID: 8, AccountID: 4, Date: year2024, Amount: dec("50000")},
			{ID: 9, AccountID: 5, Date: year2023, Amount: dec("200000")},
			{ID: 10, AccountID: 5, Date: year2024, Amount: dec("190000"), Principal: dec("10000"), Interest: dec("8000")},
			{ID: 11, AccountID: 6, Date: year2024, Amount: dec("500")},
			{ID: 12, AccountID: 7, Date: year2024, Amount: dec("9999")},
			{ID: 13, AccountID: 8, Date: year2024, Amount: dec("777")},
		},
		Rates: []ExchangeRate{
			{Currency: "EUR", Effective: day("2023-12-01"), RateToUSD: dec("1.05"), Active: true},
			{Currency: "EUR", Effective: day("2024-01-01"), RateToUSD: dec("1.10"), Active: true},
			{Currency: "EUR", Effective: day("2024-06-01"), RateToUSD: dec("1.20"), Active: true},
			{Currency: "EUR", Effective: day("2024-09-01"), RateToUSD: dec("9.99")},
		},
		Transactions: []InvestmentTransaction{
			{ID: 1, AccountID: 2, Period: month("2024-03"), Type: Deposit, Amount: dec("100")},
			{ID: 2, AccountID: 4, Period: month("2024-08"), Type: Withdrawal, Amount: dec("5000")},
			{ID: 3, AccountID: 4, Period: month("2024-12"), Type: Deposit, Amount: dec("45000")},
		},
		ExpenseCategories: []Category{
			{MajorID: 1, MajorName: "Housing", MinorID: 11, MinorName: "Rent", ExpenseType: FixedDaily},
			{MajorID: 1, MajorName: "Housing", MinorID: 12, MinorName: "Repairs", ExpenseType: LargeIrregular},
			{MajorID: 2, MajorName: "Food", MinorID: 21, MinorName: "Groceries", ExpenseType: FixedDaily},
			{MajorID: 2, MajorName: "Food", MinorID: 22, MinorName: "Dining", ExpenseType: FixedDaily},
		},
		IncomeCategories: []Category{
			{MajorID: 100, MajorName: "Work", MinorID: 101, MinorName: "Salary"},
		},
		Expenses: []Entry{
			{ID: 1, FamilyID: family, Period: month("2024-01"), MajorID: 1, MinorID: 11, Currency: USD, Amount: dec("1000")},
			{ID: 2, FamilyID: family, Period: month("2024-02"), MajorID: 1, MinorID: 11, Currency: USD, Amount: dec("1000")},
			{ID: 3, FamilyID: family, Period: month("2024-03"), MajorID: 1, MinorID: 12, Currency: USD, Amount: dec("5000")},
			{ID: 4, FamilyID: family, Period: month("2024-01"), MajorID: 2, MinorID: 21, Currency: "EUR", Amount: dec("300")},
			{ID: 5, FamilyID: family, Period: month("2024-02"), MajorID: 2, MinorID: 22, Currency: USD, Amount: dec("500")},
			{ID: 6, FamilyID: family, Period: month("2023-05"), MajorID: 2, MinorID: 21, Currency: USD, Amount: dec("200")},
			{ID: 7, FamilyID: 2, Period: month("2024-05"), MajorID: 2, MinorID: 21, Currency: USD, Amount: dec("1")},
		},
		Incomes: []Entry{
			{ID: 1, FamilyID: family, Period: month("2024-01"), MajorID: 100, MinorID: 101, Currency: USD, Amount: dec("8000")},
		},
		Budget: []BudgetLine{
			{FamilyID: family, Year: 2024, MinorID: 11, Currency: USD, Amount: dec("2400")},
			{FamilyID: family, Year: 2024, MinorID: 21, Currency: "EUR", Amount: dec("250")},
			{FamilyID: family, Year: 2024, MinorID: 22, Currency: USD, Amount: dec("0")},
		},
	}
}

// newTestAnalyzer returns an analyzer over the test dataset, modified by the edit functions.
func newTestAnalyzer(t *testing.T, edits ...func(*Dataset)) (*Analyzer, *Memory) {
	t.Helper()
	d := testDataset()
	for _, edit := range edits {
		edit(d)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("invalid test dataset: %v", err)
	}
	m := NewMemory(d)
	return NewAnalyzer(m), m
}

// shares returns the value of every share of a breakdown by name.
func shares(b Breakdown) map[string]Money {
	res := make(map[string]Money, len(b.Shares))
	for _, s := range b.Shares {
		res[s.Name] = s.Value
	}
	return res
}

func checkMoney(t *testing.T, what string, got, want Money) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %v %s, want %v %s", what, got.Amount(), got.Currency(), want.Amount(), want.Currency())
	}
}

func checkDecimal(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %v, want %s", what, got, want)
	}
}

var ctx = context.Background()
