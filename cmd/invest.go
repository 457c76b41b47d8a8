package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/household"
	"github.com/etnz/household/date"
	"github.com/etnz/household/renderer"
	"github.com/google/subcommands"
)

// investCmd holds the flags for the 'invest' subcommand.
type investCmd struct {
	year    int
	by      string
	account int64
	flows   bool
}

func (*investCmd) Name() string     { return "invest" }
func (*investCmd) Synopsis() string { return "display the returns of investment accounts" }
func (*investCmd) Usage() string {
	return `hh invest [-y <year>] [-by account|type] [-account <id> [-flows]]

  Displays the return of every investment account, or of every account type, over a
  year in USD. With -account, the return of a single account in its own currency, or
  its monthly deposits and withdrawals with -flows.
`
}

func (c *investCmd) SetFlags(f *flag.FlagSet) {
	yearFlag(f, &c.year)
	f.StringVar(&c.by, "by", "account", "Group by account or type")
	f.Int64Var(&c.account, "account", 0, "Report on a single investment account")
	f.BoolVar(&c.flows, "flows", false, "Show the monthly deposits and withdrawals of -account")
}

func (c *investCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := checkYear(c.year); err != nil {
		return usage(err)
	}
	if c.by != "account" && c.by != "type" {
		return usage(fmt.Errorf("invalid -by %q: want account or type", c.by))
	}
	if c.flows && c.account == 0 {
		return usage(fmt.Errorf("-flows requires -account"))
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		switch {
		case c.flows:
			acc, err := a.store.Account(ctx, c.account)
			if err != nil {
				return err
			}
			flows, err := a.analyzer.InvestmentMonthlyTrend(ctx, c.account, c.year)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderFlows(fmt.Sprintf("%s %d", acc.Name, c.year), flows))
		case c.account != 0:
			r, err := a.analyzer.InvestmentReturn(ctx, c.account, c.year)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderInvestments(fmt.Sprintf("%s %d", r.Name, c.year), []household.InvestmentSummary{r}))
		default:
			group := a.analyzer.InvestmentByAccount
			if c.by == "type" {
				group = a.analyzer.InvestmentByCategory
			}
			rows, err := group(ctx, a.cfg.FamilyID, c.year)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderInvestments(fmt.Sprintf("Investments %d", c.year), rows))
		}
		return nil
	})
}

// incomeCmd holds the flags for the 'income' subcommand.
type incomeCmd struct {
	month string
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "display the investment income of a month" }
func (*incomeCmd) Usage() string {
	return `hh income [-m <YYYY-MM>]

  Displays the market change of the investment accounts over a month, minus the money
  deposited in them, in USD.
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", date.MonthOf(date.Today()).Add(-1).String(), "Month of the report (default last month)")
}

func (c *incomeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParseYearMonth(c.month)
	if err != nil {
		return usage(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		income, err := a.analyzer.InvestmentIncome(ctx, a.cfg.FamilyID, period)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderIncome(income))
		return nil
	})
}
