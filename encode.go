package household

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Dataset is everything the analytics read, as exchanged in JSONL files.
type Dataset struct {
	Accounts          []Account
	Valuations        []Valuation
	Rates             []ExchangeRate
	Transactions      []InvestmentTransaction
	ExpenseCategories []Category
	IncomeCategories  []Category
	Expenses          []Entry
	Incomes           []Entry
	Budget            []BudgetLine
	Mappings          CategoryMappings
}

// RecordType identifies the kind of object on a line of a dataset file.
type RecordType string

const (
	RecAccount         RecordType = "account"
	RecValuation       RecordType = "valuation"
	RecRate            RecordType = "rate"
	RecTransaction     RecordType = "transaction"
	RecExpenseCategory RecordType = "expense-category"
	RecIncomeCategory  RecordType = "income-category"
	RecExpense         RecordType = "expense"
	RecIncome          RecordType = "income"
	RecBudget          RecordType = "budget"
	RecMappings        RecordType = "mappings"
)

// DecodeDataset reads a JSONL dataset: one object per line, its "record" field telling its
// type. Empty lines are skipped.
func DecodeDataset(r io.Reader) (*Dataset, error) {
	d := new(Dataset)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<20)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var identifier struct {
			Record RecordType `json:"record"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record on line %d: %w", n, err)
		}

		var err error
		switch identifier.Record {
		case RecAccount:
			d.Accounts, err = decodeAppend(line, d.Accounts)
		case RecValuation:
			d.Valuations, err = decodeAppend(line, d.Valuations)
		case RecRate:
			d.Rates, err = decodeAppend(line, d.Rates)
		case RecTransaction:
			d.Transactions, err = decodeAppend(line, d.Transactions)
		case RecExpenseCategory:
			d.ExpenseCategories, err = decodeAppend(line, d.ExpenseCategories)
		case RecIncomeCategory:
			d.IncomeCategories, err = decodeAppend(line, d.IncomeCategories)
		case RecExpense:
			d.Expenses, err = decodeAppend(line, d.Expenses)
		case RecIncome:
			d.Incomes, err = decodeAppend(line, d.Incomes)
		case RecBudget:
			d.Budget, err = decodeAppend(line, d.Budget)
		case RecMappings:
			err = json.Unmarshal(line, &d.Mappings)
		default:
			err = fmt.Errorf("unknown record type %q", identifier.Record)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return d, nil
}

func decodeAppend[T any](line []byte, list []T) ([]T, error) {
	var v T
	if err := json.Unmarshal(line, &v); err != nil {
		return list, err
	}
	return append(list, v), nil
}

// EncodeDataset writes a dataset in the format read by DecodeDataset.
func EncodeDataset(w io.Writer, d *Dataset) error {
	enc := json.NewEncoder(w)
	write := func(rec RecordType, v any) error {
		// merge the record type into the object's own fields.
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(b, &fields); err != nil {
			return err
		}
		fields["record"], _ = json.Marshal(rec)
		return enc.Encode(fields)
	}
	if !d.Mappings.IsEmpty() {
		if err := write(RecMappings, d.Mappings); err != nil {
			return err
		}
	}
	var errs []error
	for _, block := range []struct {
		rec  RecordType
		list []any
	}{
		{RecAccount, anys(d.Accounts)},
		{RecRate, anys(d.Rates)},
		{RecValuation, anys(d.Valuations)},
		{RecTransaction, anys(d.Transactions)},
		{RecExpenseCategory, anys(d.ExpenseCategories)},
		{RecIncomeCategory, anys(d.IncomeCategories)},
		{RecExpense, anys(d.Expenses)},
		{RecIncome, anys(d.Incomes)},
		{RecBudget, anys(d.Budget)},
	} {
		for _, v := range block.list {
			if err := write(block.rec, v); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", block.rec, err))
			}
		}
	}
	return errors.Join(errs...)
}

func anys[T any](list []T) []any {
	res := make([]any, len(list))
	for i, v := range list {
		res[i] = v
	}
	return res
}

// Validate checks the references and the values of a dataset, and returns every problem
// found.
func (d *Dataset) Validate() error {
	var errs []error
	accounts := make(map[int64]Account, len(d.Accounts))
	for _, a := range d.Accounts {
		if _, dup := accounts[a.ID]; dup {
			errs = append(errs, &ValidationError{Field: "account id", Value: a.ID, Reason: "duplicated"})
		}
		accounts[a.ID] = a
		if err := validCurrency(a.Currency); err != nil {
			errs = append(errs, fmt.Errorf("account %d: %w", a.ID, err))
		}
	}
	for _, a := range d.Accounts {
		if a.LinkedLiabilityID == 0 {
			continue
		}
		if l, ok := accounts[a.LinkedLiabilityID]; !ok || l.Kind != Liability {
			errs = append(errs, &NotFoundError{Kind: "linked liability", ID: a.LinkedLiabilityID})
		}
	}
	for _, v := range d.Valuations {
		if _, ok := accounts[v.AccountID]; !ok {
			errs = append(errs, fmt.Errorf("valuation %d: %w", v.ID, &NotFoundError{Kind: "account", ID: v.AccountID}))
		}
		if v.Date.IsZero() {
			errs = append(errs, &ValidationError{Field: "valuation date", Value: v.ID, Reason: "missing"})
		}
	}
	for _, r := range d.Rates {
		if err := r.validate(); err != nil {
			errs = append(errs, err)
		}
	}
	type flow struct {
		account int64
		period  string
		typ     TransactionType
	}
	flows := make(map[flow]bool)
	for _, t := range d.Transactions {
		if err := t.validate(); err != nil {
			errs = append(errs, fmt.Errorf("transaction %d: %w", t.ID, err))
		}
		if _, ok := accounts[t.AccountID]; !ok {
			errs = append(errs, fmt.Errorf("transaction %d: %w", t.ID, &NotFoundError{Kind: "account", ID: t.AccountID}))
		}
		k := flow{t.AccountID, t.Period.String(), t.Type}
		if flows[k] {
			errs = append(errs, &ValidationError{Field: "transaction", Value: t.ID, Reason: fmt.Sprintf("a second %s for account %d in %v", t.Type, t.AccountID, t.Period)})
		}
		flows[k] = true
	}
	for _, e := range d.entries() {
		if err := e.validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, e := range d.Expenses {
		if !slices.ContainsFunc(d.ExpenseCategories, func(c Category) bool { return c.MinorID == e.MinorID }) {
			errs = append(errs, fmt.Errorf("expense %d: %w", e.ID, &NotFoundError{Kind: "expense category", ID: e.MinorID}))
		}
	}
	for _, e := range d.Incomes {
		if !slices.ContainsFunc(d.IncomeCategories, func(c Category) bool { return c.MinorID == e.MinorID }) {
			errs = append(errs, fmt.Errorf("income %d: %w", e.ID, &NotFoundError{Kind: "income category", ID: e.MinorID}))
		}
	}
	for _, b := range d.Budget {
		if !slices.ContainsFunc(d.ExpenseCategories, func(c Category) bool { return c.MinorID == b.MinorID }) {
			errs = append(errs, fmt.Errorf("budget %d: %w", b.Year, &NotFoundError{Kind: "expense category", ID: b.MinorID}))
		}
		if err := validCurrency(b.Currency); err != nil {
			errs = append(errs, fmt.Errorf("budget %d: %w", b.Year, err))
		}
	}
	return errors.Join(errs...)
}

func (d *Dataset) entries() []Entry { return slices.Concat(d.Expenses, d.Incomes) }

func (e Entry) validate() error {
	if e.Period.IsZero() {
		return &ValidationError{Field: "period", Value: e.ID, Reason: "missing"}
	}
	if e.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Value: e.Amount, Reason: "must not be negative"}
	}
	return validCurrency(e.Currency)
}
