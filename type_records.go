package household

import (
	"fmt"
	"strings"

	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
)

// Valuation is the value of an account at a date, in the account's currency.
//
// ID is a creation sequence: among valuations of the same account and date, the highest ID
// is the most recent one.
type Valuation struct {
	ID        int64           `json:"id"`
	AccountID int64           `json:"accountId"`
	Date      date.Date       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Principal decimal.Decimal `json:"principal,omitzero"`
	Interest  decimal.Decimal `json:"interest,omitzero"`
}

// ExchangeRate tells that one unit of Currency is worth RateToUSD USD from the Effective date
// on.
type ExchangeRate struct {
	Currency  string          `json:"currency"`
	Effective date.Date       `json:"effectiveDate"`
	RateToUSD decimal.Decimal `json:"rateToUsd"`
	Active    bool            `json:"active"`
}

// TransactionType is the direction of an investment transaction.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
)

// InvestmentTransaction is the money deposited in or withdrawn from an investment account
// during a month.
type InvestmentTransaction struct {
	ID        int64           `json:"id"`
	AccountID int64           `json:"accountId"`
	Period    date.YearMonth  `json:"period"`
	Type      TransactionType `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
}

// EntryKind distinguishes expenses from incomes.
type EntryKind int

const (
	Expense EntryKind = iota
	Income
)

func (k EntryKind) String() string {
	if k == Income {
		return "income"
	}
	return "expense"
}

// ExpenseType classifies expense minor categories.
type ExpenseType string

const (
	FixedDaily     ExpenseType = "FIXED_DAILY"
	LargeIrregular ExpenseType = "LARGE_IRREGULAR"
)

// Category is a minor expense or income category with its major category.
type Category struct {
	MajorID     int64       `json:"majorId"`
	MajorName   string      `json:"majorName"`
	MinorID     int64       `json:"minorId"`
	MinorName   string      `json:"minorName"`
	ExpenseType ExpenseType `json:"expenseType,omitempty"`
}

// Entry is an expense or an income of a family for a month.
type Entry struct {
	ID       int64           `json:"id"`
	FamilyID int64           `json:"familyId"`
	Period   date.YearMonth  `json:"period"`
	MajorID  int64           `json:"majorId"`
	MinorID  int64           `json:"minorId"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// BudgetLine is the amount a family plans to spend in a minor category during a year.
type BudgetLine struct {
	FamilyID int64           `json:"familyId"`
	Year     int             `json:"year"`
	MinorID  int64           `json:"minorId"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// ParsePeriod parses a "YYYY-MM" period.
func ParsePeriod(s string) (date.YearMonth, error) {
	m, err := date.ParseYearMonth(s)
	if err != nil {
		return m, &ValidationError{Field: "period", Value: s, Reason: "want YYYY-MM"}
	}
	return m, nil
}

// validCurrency checks an ISO-4217 like code.
func validCurrency(c string) error {
	if len(c) != 3 || strings.ToUpper(c) != c {
		return &ValidationError{Field: "currency", Value: c, Reason: "want a three letter upper case code"}
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return &ValidationError{Field: "currency", Value: c, Reason: "want a three letter upper case code"}
		}
	}
	return nil
}

func (t InvestmentTransaction) validate() error {
	if t.Type != Deposit && t.Type != Withdrawal {
		return &ValidationError{Field: "transaction type", Value: t.Type, Reason: "want DEPOSIT or WITHDRAWAL"}
	}
	if t.Amount.IsNegative() {
		return &ValidationError{Field: "transaction amount", Value: t.Amount, Reason: "must not be negative"}
	}
	return nil
}

func (r ExchangeRate) validate() error {
	if err := validCurrency(r.Currency); err != nil {
		return err
	}
	if !r.RateToUSD.IsPositive() {
		return &ValidationError{Field: "rate", Value: fmt.Sprintf("%s %s", r.Currency, r.RateToUSD), Reason: "must be positive"}
	}
	return nil
}
