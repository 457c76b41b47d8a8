package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/household"
	"github.com/etnz/household/renderer"
	"github.com/google/subcommands"
)

// annualCmd holds the flags for the 'annual' subcommand.
type annualCmd struct {
	year      int
	currency  string
	recompute bool
	from      int
}

func (*annualCmd) Name() string     { return "annual" }
func (*annualCmd) Synopsis() string { return "display or recompute the annual summary" }
func (*annualCmd) Usage() string {
	return `hh annual [-y <year>] [-c <currency>] [-recompute [-from <year>]]

  Displays the net worth summary at the end of a year and its changes from the previous
  year. With -recompute, the stored summaries of the years from -from to -y are rebuilt
  first, oldest first.
`
}

func (c *annualCmd) SetFlags(f *flag.FlagSet) {
	yearFlag(f, &c.year)
	f.StringVar(&c.currency, "c", household.All, "Reporting currency: All or a currency code")
	f.BoolVar(&c.recompute, "recompute", false, "Rebuild the stored summaries")
	f.IntVar(&c.from, "from", 0, "First year to rebuild (default -y)")
}

func (c *annualCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := checkYear(c.year); err != nil {
		return usage(err)
	}
	if c.from == 0 {
		c.from = c.year
	}
	if c.from > c.year {
		return usage(fmt.Errorf("-from %d is after -y %d", c.from, c.year))
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		family := a.cfg.FamilyID
		if c.recompute {
			for year := c.from; year <= c.year; year++ {
				if _, err := a.analyzer.RecomputeAnnualSummary(ctx, family, year); err != nil {
					return err
				}
			}
		}
		s, err := a.analyzer.AnnualSummary(ctx, family, c.year, c.currency)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderAnnual(s))
		return nil
	})
}
