package household

import (
	"context"

	"github.com/etnz/household/date"
)

// AccountSource reads accounts.
type AccountSource interface {
	// ActiveAccounts returns the active accounts of a scope, assets and liabilities.
	ActiveAccounts(ctx context.Context, scope Scope) ([]Account, error)
	// Account returns an account by id, or a *NotFoundError.
	Account(ctx context.Context, id int64) (Account, error)
}

// ValuationSource reads the valuations of an account.
type ValuationSource interface {
	// Valuations returns the valuations of an account whose date is in the range, in any
	// order.
	Valuations(ctx context.Context, accountID int64, r date.Range) ([]Valuation, error)
}

// RateSource reads exchange rates.
type RateSource interface {
	// ActiveRatesByDateDesc returns every active rate, latest effective date first.
	ActiveRatesByDateDesc(ctx context.Context) ([]ExchangeRate, error)
	// RateAsOf returns the active rate of a currency with the latest effective date not after
	// on. The zero date means no bound.
	RateAsOf(ctx context.Context, currency string, on date.Date) (ExchangeRate, bool, error)
}

// TransactionSource reads investment transactions.
type TransactionSource interface {
	// Transactions returns the transactions of an account with a period between from and to
	// included.
	Transactions(ctx context.Context, accountID int64, from, to date.YearMonth) ([]InvestmentTransaction, error)
}

// EntrySource reads expenses and incomes and their categories.
type EntrySource interface {
	Entries(ctx context.Context, kind EntryKind, familyID int64, from, to date.YearMonth) ([]Entry, error)
	Categories(ctx context.Context, kind EntryKind) ([]Category, error)
}

// BudgetSource reads budget lines.
type BudgetSource interface {
	BudgetLines(ctx context.Context, familyID int64, year int) ([]BudgetLine, error)
}

// MappingSource reads the category mapping tables.
type MappingSource interface {
	CategoryMappings(ctx context.Context) (CategoryMappings, error)
}

// SummaryStore reads and replaces the materialized annual summaries.
//
// Replace operations swap every row of a (family, year) at once: either all the new rows are
// visible, or the previous ones are left untouched.
type SummaryStore interface {
	AnnualSummary(ctx context.Context, familyID int64, year int, currency string) (AnnualSummary, bool, error)
	ReplaceAnnualSummaries(ctx context.Context, familyID int64, year int, rows []AnnualSummary) error
	AnnualExpenseSummaries(ctx context.Context, familyID int64, year int) ([]AnnualExpenseSummary, error)
	ReplaceAnnualExpenseSummaries(ctx context.Context, familyID int64, year int, rows []AnnualExpenseSummary) error
	// AnnualExpenseTotals returns the total rows (MajorID 0) of every year of a family.
	AnnualExpenseTotals(ctx context.Context, familyID int64) ([]AnnualExpenseSummary, error)
}

// Store is everything an Analyzer reads from, and the summaries it writes.
type Store interface {
	AccountSource
	ValuationSource
	RateSource
	TransactionSource
	EntrySource
	BudgetSource
	MappingSource
	SummaryStore
}
