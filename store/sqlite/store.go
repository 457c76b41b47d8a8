// Package sqlite is a household.Store backed by a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/household"
	"github.com/etnz/household/date"
	_ "modernc.org/sqlite"
)

// Store reads and writes a household database.
type Store struct {
	db *sql.DB
}

var _ household.Store = (*Store)(nil)

// Open opens the database file, creating it and its schema if needed.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// withTx runs fn in a transaction, rolled back when fn fails.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// query runs a query and scans every row.
func query[T any](ctx context.Context, db *sql.DB, scan func(*sql.Rows) (T, error), q string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

const accountColumns = `id, user_id, family_id, name, kind, type, category, currency, active,
	primary_residence, tax_status, investment, linked_liability_id`

func scanAccount(rows *sql.Rows) (household.Account, error) {
	var (
		a    household.Account
		kind string
		tax  string
	)
	err := rows.Scan(&a.ID, &a.UserID, &a.FamilyID, &a.Name, &kind, &a.Type, &a.Category, &a.Currency,
		&a.Active, &a.PrimaryResidence, &tax, &a.Investment, &a.LinkedLiabilityID)
	if err != nil {
		return a, err
	}
	a.TaxStatus = household.TaxStatus(tax)
	return a, a.Kind.UnmarshalText([]byte(kind))
}

func (s *Store) ActiveAccounts(ctx context.Context, scope household.Scope) ([]household.Account, error) {
	accounts, err := query(ctx, s.db, scanAccount, `SELECT `+accountColumns+` FROM accounts
		WHERE active = 1 AND family_id = ? AND (? = 0 OR user_id = ?) ORDER BY id`,
		scope.FamilyID, scope.UserID, scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *Store) Account(ctx context.Context, id int64) (household.Account, error) {
	accounts, err := query(ctx, s.db, scanAccount, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	if err != nil {
		return household.Account{}, fmt.Errorf("get account %d: %w", id, err)
	}
	if len(accounts) == 0 {
		return household.Account{}, &household.NotFoundError{Kind: "account", ID: id}
	}
	return accounts[0], nil
}

func (s *Store) Valuations(ctx context.Context, accountID int64, r date.Range) ([]household.Valuation, error) {
	from, to := r.From.String(), r.To.String()
	valuations, err := query(ctx, s.db, func(rows *sql.Rows) (v household.Valuation, err error) {
		err = rows.Scan(&v.ID, &v.AccountID, &v.Date, &v.Amount, &v.Principal, &v.Interest)
		return v, err
	}, `SELECT id, account_id, date, amount, principal, interest FROM valuations
		WHERE account_id = ? AND (? = '' OR date >= ?) AND (? = '' OR date <= ?) ORDER BY date, id`,
		accountID, from, from, to, to)
	if err != nil {
		return nil, fmt.Errorf("list valuations of account %d: %w", accountID, err)
	}
	return valuations, nil
}

func scanRate(rows *sql.Rows) (r household.ExchangeRate, err error) {
	err = rows.Scan(&r.Currency, &r.Effective, &r.RateToUSD, &r.Active)
	return r, err
}

func (s *Store) ActiveRatesByDateDesc(ctx context.Context) ([]household.ExchangeRate, error) {
	rates, err := query(ctx, s.db, scanRate, `SELECT currency, effective_date, rate_to_usd, active
		FROM exchange_rates WHERE active = 1 ORDER BY effective_date DESC, currency`)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	return rates, nil
}

func (s *Store) RateAsOf(ctx context.Context, currency string, on date.Date) (household.ExchangeRate, bool, error) {
	day := on.String()
	rates, err := query(ctx, s.db, scanRate, `SELECT currency, effective_date, rate_to_usd, active
		FROM exchange_rates WHERE active = 1 AND currency = ? AND (? = '' OR effective_date <= ?)
		ORDER BY effective_date DESC LIMIT 1`, currency, day, day)
	if err != nil {
		return household.ExchangeRate{}, false, fmt.Errorf("get %s rate: %w", currency, err)
	}
	if len(rates) == 0 {
		return household.ExchangeRate{}, false, nil
	}
	return rates[0], true, nil
}

func (s *Store) Transactions(ctx context.Context, accountID int64, from, to date.YearMonth) ([]household.InvestmentTransaction, error) {
	txs, err := query(ctx, s.db, func(rows *sql.Rows) (t household.InvestmentTransaction, err error) {
		err = rows.Scan(&t.ID, &t.AccountID, &t.Period, &t.Type, &t.Amount)
		return t, err
	}, `SELECT id, account_id, period, type, amount FROM investment_transactions
		WHERE account_id = ? AND period BETWEEN ? AND ? ORDER BY period, id`, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list transactions of account %d: %w", accountID, err)
	}
	return txs, nil
}

func (s *Store) Entries(ctx context.Context, kind household.EntryKind, familyID int64, from, to date.YearMonth) ([]household.Entry, error) {
	entries, err := query(ctx, s.db, func(rows *sql.Rows) (e household.Entry, err error) {
		err = rows.Scan(&e.ID, &e.FamilyID, &e.Period, &e.MajorID, &e.MinorID, &e.Currency, &e.Amount)
		return e, err
	}, `SELECT id, family_id, period, major_id, minor_id, currency, amount FROM entries
		WHERE kind = ? AND family_id = ? AND period BETWEEN ? AND ? ORDER BY period, id`,
		kind.String(), familyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list %s entries: %w", kind, err)
	}
	return entries, nil
}

func (s *Store) Categories(ctx context.Context, kind household.EntryKind) ([]household.Category, error) {
	categories, err := query(ctx, s.db, func(rows *sql.Rows) (c household.Category, err error) {
		var typ string
		err = rows.Scan(&c.MajorID, &c.MajorName, &c.MinorID, &c.MinorName, &typ)
		c.ExpenseType = household.ExpenseType(typ)
		return c, err
	}, `SELECT major_id, major_name, minor_id, minor_name, expense_type FROM categories
		WHERE kind = ? ORDER BY major_id, minor_id`, kind.String())
	if err != nil {
		return nil, fmt.Errorf("list %s categories: %w", kind, err)
	}
	return categories, nil
}

func (s *Store) BudgetLines(ctx context.Context, familyID int64, year int) ([]household.BudgetLine, error) {
	lines, err := query(ctx, s.db, func(rows *sql.Rows) (b household.BudgetLine, err error) {
		err = rows.Scan(&b.FamilyID, &b.Year, &b.MinorID, &b.Currency, &b.Amount)
		return b, err
	}, `SELECT family_id, year, minor_id, currency, amount FROM budget_lines
		WHERE family_id = ? AND year = ? ORDER BY minor_id, currency`, familyID, year)
	if err != nil {
		return nil, fmt.Errorf("list %d budget: %w", year, err)
	}
	return lines, nil
}

// CategoryMappings returns the stored mappings, empty when none were imported.
func (s *Store) CategoryMappings(ctx context.Context) (household.CategoryMappings, error) {
	var (
		m    household.CategoryMappings
		body string
	)
	err := s.db.QueryRowContext(ctx, `SELECT body FROM category_mappings WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("get category mappings: %w", err)
	}
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return m, fmt.Errorf("decode category mappings: %w", err)
	}
	return m, nil
}

func (s *Store) AnnualSummary(ctx context.Context, familyID int64, year int, currency string) (household.AnnualSummary, bool, error) {
	var (
		summary household.AnnualSummary
		body    string
	)
	err := s.db.QueryRowContext(ctx, `SELECT body FROM annual_summaries
		WHERE family_id = ? AND year = ? AND currency = ?`, familyID, year, currency).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return summary, false, nil
	}
	if err != nil {
		return summary, false, fmt.Errorf("get %d summary: %w", year, err)
	}
	if err := json.Unmarshal([]byte(body), &summary); err != nil {
		return summary, false, fmt.Errorf("decode %d summary: %w", year, err)
	}
	return summary, true, nil
}

func scanExpenseSummary(rows *sql.Rows) (e household.AnnualExpenseSummary, err error) {
	err = rows.Scan(&e.FamilyID, &e.Year, &e.MajorID, &e.MajorName, &e.Base, &e.Special, &e.Actual)
	return e, err
}

const expenseSummaryColumns = `family_id, year, major_id, major_name, base, special, actual`

func (s *Store) AnnualExpenseSummaries(ctx context.Context, familyID int64, year int) ([]household.AnnualExpenseSummary, error) {
	rows, err := query(ctx, s.db, scanExpenseSummary, `SELECT `+expenseSummaryColumns+`
		FROM annual_expense_summaries WHERE family_id = ? AND year = ? ORDER BY major_id`, familyID, year)
	if err != nil {
		return nil, fmt.Errorf("list %d expense summaries: %w", year, err)
	}
	return rows, nil
}

func (s *Store) AnnualExpenseTotals(ctx context.Context, familyID int64) ([]household.AnnualExpenseSummary, error) {
	rows, err := query(ctx, s.db, scanExpenseSummary, `SELECT `+expenseSummaryColumns+`
		FROM annual_expense_summaries WHERE family_id = ? AND major_id = 0 ORDER BY year`, familyID)
	if err != nil {
		return nil, fmt.Errorf("list expense totals: %w", err)
	}
	return rows, nil
}
