package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/household"
	"github.com/etnz/household/renderer"
	"github.com/google/subcommands"
)

// budgetCmd holds the flags for the 'budget' subcommand.
type budgetCmd struct {
	year     int
	currency string
}

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "compare the budget with the expenses of a year" }
func (*budgetCmd) Usage() string {
	return `hh budget [-y <year>] [-c <currency>]

  Displays, for every budgeted expense category, the budget, the actual spending, the
  variance and the execution rate.
`
}

func (c *budgetCmd) SetFlags(f *flag.FlagSet) {
	yearFlag(f, &c.year)
	f.StringVar(&c.currency, "c", household.All, "Reporting currency: All or a currency code")
}

func (c *budgetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := checkYear(c.year); err != nil {
		return usage(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		rows, err := a.analyzer.BudgetExecution(ctx, a.cfg.FamilyID, c.year, c.currency)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderBudget(c.year, rows))
		return nil
	})
}

// expensesCmd holds the flags for the 'expenses' subcommand.
type expensesCmd struct {
	year      int
	currency  string
	income    bool
	major     int64
	minor     int64
	monthly   bool
	recompute bool
	trend     int
}

func (*expensesCmd) Name() string     { return "expenses" }
func (*expensesCmd) Synopsis() string { return "display expenses or incomes by category" }
func (*expensesCmd) Usage() string {
	return `hh expenses [-y <year>] [-c <currency>] [-income] [-major <id>] [-monthly [-minor <id>]]
hh expenses -recompute [-y <year>]
hh expenses -trend <years> [-c <currency>]

  Displays the expenses, or incomes, of a year by major category, or by minor category
  of one major category. With -monthly, the spending of every month of the year.
  With -recompute, the stored base and special expense rollups of the year are rebuilt.
  With -trend, the total rollups of the last years and their changes.
`
}

func (c *expensesCmd) SetFlags(f *flag.FlagSet) {
	yearFlag(f, &c.year)
	f.StringVar(&c.currency, "c", household.All, "Reporting currency: All or a currency code")
	f.BoolVar(&c.income, "income", false, "Report incomes instead of expenses")
	f.Int64Var(&c.major, "major", 0, "Split this major category by minor category")
	f.Int64Var(&c.minor, "minor", 0, "With -monthly, only this minor category")
	f.BoolVar(&c.monthly, "monthly", false, "Show the spending of every month")
	f.BoolVar(&c.recompute, "recompute", false, "Rebuild the stored expense rollups of the year")
	f.IntVar(&c.trend, "trend", 0, "Show the expense rollups of this many years")
}

func (c *expensesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := checkYear(c.year); err != nil {
		return usage(err)
	}
	if c.income && (c.recompute || c.trend != 0) {
		return usage(fmt.Errorf("-recompute and -trend only apply to expenses"))
	}
	kind, title := household.Expense, "Expenses"
	if c.income {
		kind, title = household.Income, "Incomes"
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		family := a.cfg.FamilyID
		switch {
		case c.recompute:
			if _, err := a.analyzer.RecomputeAnnualExpenseSummary(ctx, family, c.year); err != nil {
				return err
			}
			rows, err := a.analyzer.AnnualExpenses(ctx, family, c.year, c.currency)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderExpenses(fmt.Sprintf("Expenses %d", c.year), rows))
		case c.trend != 0:
			rows, err := a.analyzer.AnnualExpenseTrend(ctx, family, c.trend, c.currency)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderExpenses("Expense Trend", rows))
		case c.monthly:
			points, err := a.analyzer.EntryMonthlyTrend(ctx, kind, family, c.year, c.minor, c.currency)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderSeries(fmt.Sprintf("Monthly %s %d", title, c.year), points))
		case c.major != 0:
			b, err := a.analyzer.EntryMinorSummary(ctx, kind, family, c.year, c.major, c.currency)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderBreakdown(fmt.Sprintf("%s %d of category %d", title, c.year, c.major), b))
		default:
			b, err := a.analyzer.EntrySummary(ctx, kind, family, c.year, c.currency)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderBreakdown(fmt.Sprintf("%s %d", title, c.year), b))
		}
		return nil
	})
}
