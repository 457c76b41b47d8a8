package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/household"
	"github.com/etnz/household/advisor"
	"github.com/etnz/household/date"
	"github.com/etnz/household/logger"
	"github.com/etnz/household/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// reviewCmd holds the flags for the 'review' subcommand.
type reviewCmd struct {
	year     int
	question string
	show     bool
}

func (*reviewCmd) Name() string     { return "review" }
func (*reviewCmd) Synopsis() string { return "ask Gemini to comment the reports of a year" }
func (*reviewCmd) Usage() string {
	return `hh review [-y <year>] [-q <question>] [-show]

  Sends the annual summary, the investment returns, the budget execution and the
  expense rollup of a year to Gemini and displays its commentary. The API key is read
  from GEMINI_API_KEY and the model from GEMINI_MODEL.
`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) {
	yearFlag(f, &c.year)
	f.StringVar(&c.question, "q", "", "Question to focus the review on")
	f.BoolVar(&c.show, "show", false, "Also display the reviewed reports")
}

func (c *reviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := checkYear(c.year); err != nil {
		return usage(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		reports, err := c.reports(ctx, a)
		if err != nil {
			return err
		}
		if c.show {
			printMarkdown(strings.Join(reports, "\n"))
		}

		client, err := genai.NewClient(ctx, nil)
		if err != nil {
			return fmt.Errorf("initializing Gemini's client: %w", err)
		}
		review, err := advisor.New(a.cfg.GeminiModel).Review(ctx, client, c.question, reports...)
		if err != nil {
			return err
		}
		printMarkdown(review)
		return nil
	})
}

// reports renders the reports of the year. Reports that cannot be computed are skipped.
func (c *reviewCmd) reports(ctx context.Context, a *app) ([]string, error) {
	log := logger.FromContext(ctx)
	family := a.cfg.FamilyID

	summary, err := a.analyzer.AnnualSummary(ctx, family, c.year, household.All)
	if err != nil {
		return nil, err
	}
	reports := []string{renderer.RenderAnnual(summary)}

	if m, err := a.analyzer.FinancialMetrics(ctx, household.Scope{FamilyID: family}, date.YearEnd(c.year), household.All); err != nil {
		log.Warn().Err(err).Msg("metrics skipped")
	} else {
		reports = append(reports, renderer.RenderMetrics(m))
	}
	if rows, err := a.analyzer.InvestmentByAccount(ctx, family, c.year); err != nil {
		log.Warn().Err(err).Msg("investments skipped")
	} else {
		reports = append(reports, renderer.RenderInvestments(fmt.Sprintf("Investments %d", c.year), rows))
	}
	if rows, err := a.analyzer.BudgetExecution(ctx, family, c.year, household.All); err != nil {
		log.Warn().Err(err).Msg("budget skipped")
	} else if len(rows) > 0 {
		reports = append(reports, renderer.RenderBudget(c.year, rows))
	}
	if rows, err := a.analyzer.AnnualExpenses(ctx, family, c.year, household.All); err != nil {
		log.Warn().Err(err).Msg("expenses skipped")
	} else if len(rows) > 0 {
		reports = append(reports, renderer.RenderExpenses(fmt.Sprintf("Expenses %d", c.year), rows))
	}
	return reports, nil
}
