package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/etnz/household"
)

// ReplaceAnnualSummaries swaps every summary of a family and a year in one transaction.
func (s *Store) ReplaceAnnualSummaries(ctx context.Context, familyID int64, year int, rows []household.AnnualSummary) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM annual_summaries WHERE family_id = ? AND year = ?`, familyID, year); err != nil {
			return fmt.Errorf("delete %d summaries: %w", year, err)
		}
		for _, r := range rows {
			body, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("encode %d %s summary: %w", year, r.Currency, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO annual_summaries (family_id, year, currency, body)
				VALUES (?, ?, ?, ?)`, familyID, year, r.Currency, string(body)); err != nil {
				return fmt.Errorf("insert %d %s summary: %w", year, r.Currency, err)
			}
		}
		return nil
	})
}

// ReplaceAnnualExpenseSummaries swaps every expense summary of a family and a year in one
// transaction.
func (s *Store) ReplaceAnnualExpenseSummaries(ctx context.Context, familyID int64, year int, rows []household.AnnualExpenseSummary) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM annual_expense_summaries WHERE family_id = ? AND year = ?`, familyID, year); err != nil {
			return fmt.Errorf("delete %d expense summaries: %w", year, err)
		}
		for _, r := range rows {
			if _, err := tx.ExecContext(ctx, `INSERT INTO annual_expense_summaries (`+expenseSummaryColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?)`, familyID, year, r.MajorID, r.MajorName, r.Base, r.Special, r.Actual); err != nil {
				return fmt.Errorf("insert %d expense summary of %d: %w", year, r.MajorID, err)
			}
		}
		return nil
	})
}

// SaveRates adds rates, replacing those with the same currency and effective date.
func (s *Store) SaveRates(ctx context.Context, rates []household.ExchangeRate) error {
	if err := (&household.Dataset{Rates: rates}).Validate(); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error { return saveRates(ctx, tx, rates) })
}

func saveRates(ctx context.Context, tx *sql.Tx, rates []household.ExchangeRate) error {
	for _, r := range rates {
		_, err := tx.ExecContext(ctx, `INSERT INTO exchange_rates (currency, effective_date, rate_to_usd, active)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (currency, effective_date) DO UPDATE SET
			 rate_to_usd = excluded.rate_to_usd,
			 active = excluded.active`, r.Currency, r.Effective, r.RateToUSD, r.Active)
		if err != nil {
			return fmt.Errorf("save %s rate of %s: %w", r.Currency, r.Effective, err)
		}
	}
	return nil
}

// Import validates a dataset and writes it in one transaction. Records with the key of an
// existing one replace it.
func (s *Store) Import(ctx context.Context, d *household.Dataset) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid dataset: %w", err)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		exec := func(what string, q string, args ...any) error {
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("import %s: %w", what, err)
			}
			return nil
		}
		for _, a := range d.Accounts {
			if err := exec(fmt.Sprintf("account %d", a.ID), `INSERT OR REPLACE INTO accounts (`+accountColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				a.ID, a.UserID, a.FamilyID, a.Name, a.Kind.String(), a.Type, a.Category, a.Currency, a.Active,
				a.PrimaryResidence, string(a.TaxStatus), a.Investment, a.LinkedLiabilityID); err != nil {
				return err
			}
		}
		for _, v := range d.Valuations {
			if err := exec(fmt.Sprintf("valuation %d", v.ID), `INSERT OR REPLACE INTO valuations
				(id, account_id, date, amount, principal, interest) VALUES (?, ?, ?, ?, ?, ?)`,
				v.ID, v.AccountID, v.Date, v.Amount, v.Principal, v.Interest); err != nil {
				return err
			}
		}
		if err := saveRates(ctx, tx, d.Rates); err != nil {
			return err
		}
		for _, t := range d.Transactions {
			if err := exec(fmt.Sprintf("transaction %d", t.ID), `INSERT OR REPLACE INTO investment_transactions
				(id, account_id, period, type, amount) VALUES (?, ?, ?, ?, ?)`,
				t.ID, t.AccountID, t.Period, string(t.Type), t.Amount); err != nil {
				return err
			}
		}
		for kind, categories := range map[household.EntryKind][]household.Category{household.Expense: d.ExpenseCategories, household.Income: d.IncomeCategories} {
			for _, c := range categories {
				if err := exec(fmt.Sprintf("%s category %d", kind, c.MinorID), `INSERT OR REPLACE INTO categories
					(kind, major_id, major_name, minor_id, minor_name, expense_type) VALUES (?, ?, ?, ?, ?, ?)`,
					kind.String(), c.MajorID, c.MajorName, c.MinorID, c.MinorName, string(c.ExpenseType)); err != nil {
					return err
				}
			}
		}
		for kind, entries := range map[household.EntryKind][]household.Entry{household.Expense: d.Expenses, household.Income: d.Incomes} {
			for _, e := range entries {
				if err := exec(fmt.Sprintf("%s %d", kind, e.ID), `INSERT OR REPLACE INTO entries
					(kind, id, family_id, period, major_id, minor_id, currency, amount) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
					kind.String(), e.ID, e.FamilyID, e.Period, e.MajorID, e.MinorID, e.Currency, e.Amount); err != nil {
					return err
				}
			}
		}
		for _, b := range d.Budget {
			if err := exec(fmt.Sprintf("budget of %d", b.MinorID), `INSERT OR REPLACE INTO budget_lines
				(family_id, year, minor_id, currency, amount) VALUES (?, ?, ?, ?, ?)`,
				b.FamilyID, b.Year, b.MinorID, b.Currency, b.Amount); err != nil {
				return err
			}
		}
		if !d.Mappings.IsEmpty() {
			body, err := json.Marshal(d.Mappings)
			if err != nil {
				return fmt.Errorf("encode category mappings: %w", err)
			}
			if err := exec("category mappings", `INSERT OR REPLACE INTO category_mappings (id, body) VALUES (1, ?)`, string(body)); err != nil {
				return err
			}
		}
		return nil
	})
}
