package household

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
)

// Return is the performance of an investment over a year.
//
// Gain is End - Begin - NetDeposits, and Rate relates it to the average capital employed,
// Begin + NetDeposits / 2. This is an approximation, not a time or money weighted return.
type Return struct {
	Begin          decimal.Decimal `json:"beginValue"`
	End            decimal.Decimal `json:"endValue"`
	Deposits       decimal.Decimal `json:"deposits"`
	Withdrawals    decimal.Decimal `json:"withdrawals"`
	NetDeposits    decimal.Decimal `json:"netDeposits"`
	Gain           decimal.Decimal `json:"return"`
	AverageCapital decimal.Decimal `json:"averageCapital"`
	Rate           Percent         `json:"returnRate"`
}

// CalculateReturn computes the return of an investment from its beginning and ending values
// and the money deposited and withdrawn in between. The rate is 0 when the average capital is
// not positive.
func CalculateReturn(begin, end, deposits, withdrawals decimal.Decimal) Return {
	r := Return{Begin: begin, End: end, Deposits: deposits, Withdrawals: withdrawals}
	r.NetDeposits = deposits.Sub(withdrawals)
	r.Gain = end.Sub(begin).Sub(r.NetDeposits)
	r.AverageCapital = begin.Add(r.NetDeposits.Div(decimal.NewFromInt(2)))
	if r.AverageCapital.IsPositive() {
		r.Rate = share(r.Gain, r.AverageCapital)
	}
	return r
}

func (r Return) rounded() Return {
	return Return{
		Begin:          Round(r.Begin),
		End:            Round(r.End),
		Deposits:       Round(r.Deposits),
		Withdrawals:    Round(r.Withdrawals),
		NetDeposits:    Round(r.NetDeposits),
		Gain:           Round(r.Gain),
		AverageCapital: Round(r.AverageCapital),
		Rate:           r.Rate,
	}
}

// InvestmentSummary is the return of an account, a category of accounts or the whole
// portfolio over a year.
type InvestmentSummary struct {
	Year      int    `json:"year"`
	AccountID int64  `json:"accountId,omitempty"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	Return
}

// Total is the name of the row summing every other row.
const Total = "Total"

// flows are the values and the money movements of one account over a year, in one currency.
type flows struct {
	begin, end, deposits, withdrawals decimal.Decimal
}

func (f flows) add(x flows) flows {
	return flows{f.begin.Add(x.begin), f.end.Add(x.end), f.deposits.Add(x.deposits), f.withdrawals.Add(x.withdrawals)}
}

func (f flows) calculate() Return { return CalculateReturn(f.begin, f.end, f.deposits, f.withdrawals) }

// investmentFlows measures an account over a year in the target currency, converting values
// with the rates of their date and transactions with the year-end rates.
//
// A real estate account financed by a linked mortgage is measured net of the mortgage, and the
// principal paid down during the year is a deposit (a withdrawal if the mortgage grew).
func (a *Analyzer) investmentFlows(ctx context.Context, acc Account, year int, target string, begin, end Converter) (flows, error) {
	prevYE, ye := date.YearEnd(year-1), date.YearEnd(year)
	var f flows
	var err error
	if f.begin, err = a.netValue(ctx, acc, prevYE, target, begin); err != nil {
		return f, err
	}
	if f.end, err = a.netValue(ctx, acc, ye, target, end); err != nil {
		return f, err
	}

	txs, err := a.store.Transactions(ctx, acc.ID, date.YearMonth{Year: year, Month: 1}, date.YearMonth{Year: year, Month: 12})
	if err != nil {
		return f, fmt.Errorf("reading transactions of account %d: %w", acc.ID, err)
	}
	deposits, withdrawals := decimal.Zero, decimal.Zero
	for _, t := range txs {
		if err := t.validate(); err != nil {
			return f, err
		}
		if t.Type == Deposit {
			deposits = deposits.Add(t.Amount)
		} else {
			withdrawals = withdrawals.Add(t.Amount)
		}
	}
	if f.deposits, err = Normalize(deposits, acc.Currency, target, end); err != nil {
		return f, err
	}
	if f.withdrawals, err = Normalize(withdrawals, acc.Currency, target, end); err != nil {
		return f, err
	}

	mortgage, ok, err := a.mortgageOf(ctx, acc)
	if err != nil || !ok {
		return f, err
	}
	before, _, err := a.valueOf(ctx, mortgage.ID, prevYE)
	if err != nil {
		return f, err
	}
	after, _, err := a.valueOf(ctx, mortgage.ID, ye)
	if err != nil {
		return f, err
	}
	paydown, err := Normalize(before.Sub(after), mortgage.Currency, target, end)
	if err != nil {
		return f, err
	}
	if paydown.IsPositive() {
		f.deposits = f.deposits.Add(paydown)
	} else {
		f.withdrawals = f.withdrawals.Sub(paydown)
	}
	return f, nil
}

// mortgageOf returns the liability financing a real estate account.
func (a *Analyzer) mortgageOf(ctx context.Context, acc Account) (Account, bool, error) {
	if acc.Type != RealEstate || acc.LinkedLiabilityID == 0 {
		return Account{}, false, nil
	}
	m, err := a.store.Account(ctx, acc.LinkedLiabilityID)
	if err != nil {
		return Account{}, false, fmt.Errorf("mortgage of account %d: %w", acc.ID, err)
	}
	return m, true, nil
}

// netValue returns the value of an account on a date in the target currency, net of its
// linked mortgage if any. Missing valuations count as zero.
func (a *Analyzer) netValue(ctx context.Context, acc Account, on date.Date, target string, rates Converter) (decimal.Decimal, error) {
	v, _, err := a.valueOf(ctx, acc.ID, on)
	if err != nil {
		return decimal.Zero, err
	}
	if v, err = Normalize(v, acc.Currency, target, rates); err != nil {
		return decimal.Zero, err
	}
	mortgage, ok, err := a.mortgageOf(ctx, acc)
	if err != nil || !ok {
		return v, err
	}
	owed, _, err := a.valueOf(ctx, mortgage.ID, on)
	if err != nil {
		return decimal.Zero, err
	}
	if owed, err = Normalize(owed, mortgage.Currency, target, rates); err != nil {
		return decimal.Zero, err
	}
	return v.Sub(owed), nil
}

// yearMaps returns the rate maps of the end of the previous year and of the year.
func (a *Analyzer) yearMaps(ctx context.Context, year int) (begin, end *RateMap, err error) {
	if begin, err = a.RateMap(ctx, date.YearEnd(year-1)); err != nil {
		return nil, nil, err
	}
	if end, err = a.RateMap(ctx, date.YearEnd(year)); err != nil {
		return nil, nil, err
	}
	return begin, end, nil
}

// InvestmentReturn returns the return of one account over a year, in its own currency.
func (a *Analyzer) InvestmentReturn(ctx context.Context, accountID int64, year int) (InvestmentSummary, error) {
	acc, err := a.store.Account(ctx, accountID)
	if err != nil {
		return InvestmentSummary{}, err
	}
	begin, end, err := a.yearMaps(ctx, year)
	if err != nil {
		return InvestmentSummary{}, err
	}
	f, err := a.investmentFlows(ctx, acc, year, acc.Currency, begin, end)
	if err != nil {
		return InvestmentSummary{}, err
	}
	return InvestmentSummary{Year: year, AccountID: acc.ID, Name: acc.Name, Currency: acc.Currency, Return: f.calculate().rounded()}, nil
}

// investments returns the active investment accounts of a family.
func (a *Analyzer) investments(ctx context.Context, familyID int64) ([]Account, error) {
	assets, _, err := a.accounts(ctx, Scope{FamilyID: familyID})
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(assets, func(acc Account) bool { return !acc.Investment }), nil
}

// InvestmentByAccount returns the return of every investment account of a family over a year
// in USD, followed by a Total row.
func (a *Analyzer) InvestmentByAccount(ctx context.Context, familyID int64, year int) ([]InvestmentSummary, error) {
	return a.investmentRows(ctx, familyID, year, func(acc Account) (int64, string) { return acc.ID, acc.Name })
}

// InvestmentByCategory returns the return of the investment accounts of a family over a year
// in USD, grouped by asset type, followed by a Total row.
func (a *Analyzer) InvestmentByCategory(ctx context.Context, familyID int64, year int) ([]InvestmentSummary, error) {
	return a.investmentRows(ctx, familyID, year, func(acc Account) (int64, string) { return 0, TypeName(acc.Kind, acc.Type) })
}

func (a *Analyzer) investmentRows(ctx context.Context, familyID int64, year int, group func(Account) (int64, string)) ([]InvestmentSummary, error) {
	accounts, err := a.investments(ctx, familyID)
	if err != nil {
		return nil, err
	}
	begin, end, err := a.yearMaps(ctx, year)
	if err != nil {
		return nil, err
	}

	type row struct {
		id   int64
		name string
		f    flows
	}
	var rows []*row
	var total flows
	for _, acc := range accounts {
		f, err := a.investmentFlows(ctx, acc, year, USD, begin, end)
		if err != nil {
			return nil, fmt.Errorf("return of account %d: %w", acc.ID, err)
		}
		total = total.add(f)
		id, name := group(acc)
		i := slices.IndexFunc(rows, func(r *row) bool { return r.id == id && r.name == name })
		if i < 0 {
			rows = append(rows, &row{id: id, name: name})
			i = len(rows) - 1
		}
		rows[i].f = rows[i].f.add(f)
	}
	slices.SortStableFunc(rows, func(x, y *row) int { return cmp.Compare(x.name, y.name) })

	res := make([]InvestmentSummary, 0, len(rows)+1)
	for _, r := range rows {
		res = append(res, InvestmentSummary{Year: year, AccountID: r.id, Name: r.name, Currency: USD, Return: r.f.calculate().rounded()})
	}
	res = append(res, InvestmentSummary{Year: year, Name: Total, Currency: USD, Return: total.calculate().rounded()})
	return res, nil
}

// MonthlyFlow is the money deposited and withdrawn during one month.
type MonthlyFlow struct {
	Period      date.YearMonth `json:"period"`
	Deposits    Money          `json:"deposits"`
	Withdrawals Money          `json:"withdrawals"`
	NetDeposits Money          `json:"netDeposits"`
}

// InvestmentMonthlyTrend returns the twelve months of deposits and withdrawals of an account
// over a year, in its own currency.
func (a *Analyzer) InvestmentMonthlyTrend(ctx context.Context, accountID int64, year int) ([]MonthlyFlow, error) {
	acc, err := a.store.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	months := date.Months(year)
	txs, err := a.store.Transactions(ctx, accountID, months[0], months[11])
	if err != nil {
		return nil, fmt.Errorf("reading transactions of account %d: %w", accountID, err)
	}
	deposits := NewSeries(date.Monthly, acc.Currency, acc.Name)
	withdrawals := NewSeries(date.Monthly, acc.Currency, acc.Name)
	for _, m := range months {
		deposits.Add(m.First(), decimal.Zero)
		withdrawals.Add(m.First(), decimal.Zero)
	}
	for _, t := range txs {
		if err := t.validate(); err != nil {
			return nil, err
		}
		if t.Type == Deposit {
			deposits.Add(t.Period.First(), t.Amount)
		} else {
			withdrawals.Add(t.Period.First(), t.Amount)
		}
	}
	in, out := deposits.Points(), withdrawals.Points()
	res := make([]MonthlyFlow, len(months))
	for i, m := range months {
		res[i] = MonthlyFlow{Period: m, Deposits: in[i].Value, Withdrawals: out[i].Value, NetDeposits: in[i].Value.Sub(out[i].Value)}
	}
	return res, nil
}

// AccountIncome is what one investment account earned during a month.
type AccountIncome struct {
	AccountID   int64  `json:"accountId"`
	Name        string `json:"name"`
	Change      Money  `json:"marketChange"`
	NetDeposits Money  `json:"netDeposits"`
	Income      Money  `json:"income"`
}

// MonthlyIncome is what the investments of a family earned during a month, in USD.
type MonthlyIncome struct {
	Period      date.YearMonth  `json:"period"`
	Change      Money           `json:"marketChange"`
	NetDeposits Money           `json:"netDeposits"`
	Income      Money           `json:"income"`
	Accounts    []AccountIncome `json:"accounts"`
}

// InvestmentIncome returns the investment income of a family for a month: the change of the
// market value of its investment accounts between the previous and the current month end,
// minus the money deposited during the month. Values are converted to USD with the rates of
// each month end, transactions with the rates of the first day of the month.
func (a *Analyzer) InvestmentIncome(ctx context.Context, familyID int64, period date.YearMonth) (MonthlyIncome, error) {
	accounts, err := a.investments(ctx, familyID)
	if err != nil {
		return MonthlyIncome{}, err
	}
	resolver := a.Resolver()
	before, after := period.Add(-1).Last(), period.Last()
	res := MonthlyIncome{Period: period, Accounts: []AccountIncome{}}
	change, netDeposits := decimal.Zero, decimal.Zero
	for _, acc := range accounts {
		start, err := a.netValue(ctx, acc, before, USD, resolver.At(ctx, before))
		if err != nil {
			return MonthlyIncome{}, err
		}
		end, err := a.netValue(ctx, acc, after, USD, resolver.At(ctx, after))
		if err != nil {
			return MonthlyIncome{}, err
		}
		txs, err := a.store.Transactions(ctx, acc.ID, period, period)
		if err != nil {
			return MonthlyIncome{}, fmt.Errorf("reading transactions of account %d: %w", acc.ID, err)
		}
		net := decimal.Zero
		for _, t := range txs {
			if t.Type == Deposit {
				net = net.Add(t.Amount)
			} else {
				net = net.Sub(t.Amount)
			}
		}
		if net, err = Normalize(net, acc.Currency, USD, resolver.At(ctx, period.First())); err != nil {
			return MonthlyIncome{}, err
		}
		delta := end.Sub(start)
		change, netDeposits = change.Add(delta), netDeposits.Add(net)
		res.Accounts = append(res.Accounts, AccountIncome{
			AccountID:   acc.ID,
			Name:        acc.Name,
			Change:      Money{value: Round(delta), cur: USD},
			NetDeposits: Money{value: Round(net), cur: USD},
			Income:      Money{value: Round(delta.Sub(net)), cur: USD},
		})
	}
	res.Change = Money{value: Round(change), cur: USD}
	res.NetDeposits = Money{value: Round(netDeposits), cur: USD}
	res.Income = Money{value: Round(change.Sub(netDeposits)), cur: USD}
	return res, nil
}
