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

// trendCmd holds the flags for the 'trend' subcommand.
type trendCmd struct {
	scope     scopeFlags
	from      string
	period    string
	account   int64
	typ       string
	liability bool
	category  string
}

func (*trendCmd) Name() string     { return "trend" }
func (*trendCmd) Synopsis() string {
	return "display the net worth, an account, an account type or a net asset category over time"
}
func (*trendCmd) Usage() string {
	return `hh trend [-from <date>] [-d <date>] [-p <period>] [-c <currency>] [-u <user>]
         [-account <id> | -type <type> [-liability] | -category <code>]

  Displays the net worth over time, the last point of each period. With -account, the
  valuations of one account in its own currency. With -type, one series per account of
  that type. With -category, the mapped assets minus the mapped liabilities of a net
  asset category, for instance REAL_ESTATE.
`
}

func (c *trendCmd) SetFlags(f *flag.FlagSet) {
	c.scope.register(f)
	f.StringVar(&c.from, "from", "", "Start date of the trend (default: no lower bound)")
	f.StringVar(&c.period, "p", date.Yearly.String(), "Keep the last point of each period (day, week, month, quarter, year)")
	f.Int64Var(&c.account, "account", 0, "Show the valuations of this account")
	f.StringVar(&c.typ, "type", "", "Show the accounts of this type, for instance CASH or MORTGAGE")
	f.BoolVar(&c.liability, "liability", false, "The -type is a liability type")
	f.StringVar(&c.category, "category", "", "Show the net value of this net asset category, for instance LIQUID")
}

func (c *trendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		return usage(err)
	}
	selected := 0
	for _, set := range []bool{c.account != 0, c.typ != "", c.category != ""} {
		if set {
			selected++
		}
	}
	if selected > 1 {
		return usage(fmt.Errorf("-account, -type and -category are exclusive"))
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		scope, on, err := c.scope.parse(a.cfg.FamilyID)
		if err != nil {
			return err
		}
		r := date.Until(on)
		if c.from != "" {
			if r.From, err = date.Parse(c.from); err != nil {
				return err
			}
		}

		switch {
		case c.account != 0:
			acc, err := a.store.Account(ctx, c.account)
			if err != nil {
				return err
			}
			points, err := a.analyzer.AccountTrend(ctx, c.account, r)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderSeries(fmt.Sprintf("%s (%s)", acc.Name, acc.Currency), points))
		case c.typ != "":
			kind := household.Asset
			if c.liability {
				kind = household.Liability
			}
			points, err := a.analyzer.CategoryTrend(ctx, scope, kind, c.typ, r, period, c.scope.currency)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderSeries(household.TypeName(kind, c.typ), points))
		case c.category != "":
			points, err := a.analyzer.NetAssetCategoryTrend(ctx, scope, c.category, r, period, c.scope.currency)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderSeries(fmt.Sprintf("Net Asset Category %s", c.category), points))
		default:
			points, err := a.analyzer.OverallTrend(ctx, scope, r, period, c.scope.currency)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderTrend(points))
		}
		return nil
	})
}
