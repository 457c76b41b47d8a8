package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/household/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	scope   scopeFlags
	primary bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display assets, liabilities and net worth" }
func (*summaryCmd) Usage() string {
	return `hh summary [-d <date>] [-c <currency>] [-u <user>] [-primary=false]

  Displays the assets and liabilities by type, and the net worth, on a date.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	c.scope.register(f)
	f.BoolVar(&c.primary, "primary", true, "Include the primary residence and its mortgage")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		scope, on, err := c.scope.parse(a.cfg.FamilyID)
		if err != nil {
			return err
		}
		s, err := a.analyzer.AssetSummary(ctx, scope, on, c.scope.currency, c.primary)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderSummary(s))
		return nil
	})
}

// metricsCmd holds the flags for the 'metrics' subcommand.
type metricsCmd struct {
	scope scopeFlags
}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "display financial health indicators" }
func (*metricsCmd) Usage() string {
	return `hh metrics [-d <date>] [-c <currency>] [-u <user>]

  Displays the debt to asset ratio, the liquidity ratio and the monthly and yearly
  net worth changes.
`
}

func (c *metricsCmd) SetFlags(f *flag.FlagSet) { c.scope.register(f) }

func (c *metricsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		scope, on, err := c.scope.parse(a.cfg.FamilyID)
		if err != nil {
			return err
		}
		m, err := a.analyzer.FinancialMetrics(ctx, scope, on, c.scope.currency)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderMetrics(m))
		return nil
	})
}

// allocationCmd holds the flags for the 'allocation' subcommand.
type allocationCmd struct {
	scope       scopeFlags
	liabilities bool
}

func (*allocationCmd) Name() string     { return "allocation" }
func (*allocationCmd) Synopsis() string { return "display the allocation of assets or liabilities" }
func (*allocationCmd) Usage() string {
	return `hh allocation [-d <date>] [-c <currency>] [-u <user>] [-liabilities]

  Displays the assets, or the liabilities, by category and by type.
`
}

func (c *allocationCmd) SetFlags(f *flag.FlagSet) {
	c.scope.register(f)
	f.BoolVar(&c.liabilities, "liabilities", false, "Allocate the liabilities instead of the assets")
}

func (c *allocationCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		scope, on, err := c.scope.parse(a.cfg.FamilyID)
		if err != nil {
			return err
		}
		allocate, title := a.analyzer.AssetAllocation, "Asset Allocation"
		if c.liabilities {
			allocate, title = a.analyzer.LiabilityAllocation, "Liability Allocation"
		}
		alloc, err := allocate(ctx, scope, on, c.scope.currency)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderAllocation(title, alloc))
		return nil
	})
}

// networthCmd holds the flags for the 'networth' subcommand.
type networthCmd struct {
	scope scopeFlags
	by    string
}

func (*networthCmd) Name() string     { return "networth" }
func (*networthCmd) Synopsis() string {
	return "split the net worth by category, currency, tax status or member"
}
func (*networthCmd) Usage() string {
	return `hh networth [-d <date>] [-c <currency>] [-u <user>] [-by category|currency|tax|member]

  Splits the net worth by net asset category, by currency, by tax status or by family
  member. The split by member is always in USD and covers the whole family.
`
}

func (c *networthCmd) SetFlags(f *flag.FlagSet) {
	c.scope.register(f)
	f.StringVar(&c.by, "by", "category", "Split by category, currency, tax or member")
}

func (c *networthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch c.by {
	case "category", "currency", "tax", "member":
	default:
		return usage(fmt.Errorf("invalid -by %q: want category, currency, tax or member", c.by))
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		scope, on, err := c.scope.parse(a.cfg.FamilyID)
		if err != nil {
			return err
		}
		switch c.by {
		case "currency":
			rows, err := a.analyzer.NetWorthByCurrency(ctx, scope, on)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderNetWorthByCurrency(rows))
		case "member":
			rows, err := a.analyzer.NetWorthByMember(ctx, scope.FamilyID, on)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderNetWorthByMember(on, rows))
		case "tax":
			b, err := a.analyzer.NetWorthByTaxStatus(ctx, scope, on)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderBreakdown(fmt.Sprintf("Net Worth by Tax Status on %s", on), b))
		default:
			b, err := a.analyzer.NetAssetAllocation(ctx, scope, on, c.scope.currency)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderBreakdown(fmt.Sprintf("Net Assets by Category on %s", on), b))
		}
		return nil
	})
}
