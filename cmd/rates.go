package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/household"
	"github.com/etnz/household/date"
	"github.com/etnz/household/fxrates"
	"github.com/etnz/household/logger"
	"github.com/etnz/household/renderer"
	"github.com/google/subcommands"
)

// rateSaver is a store accepting new exchange rates.
type rateSaver interface {
	SaveRates(ctx context.Context, rates []household.ExchangeRate) error
}

// ratesCmd holds the flags for the 'rates' subcommand.
type ratesCmd struct {
	date       string
	fetch      string
	currencies string
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "display or fetch exchange rates" }
func (*ratesCmd) Usage() string {
	return `hh rates [-d <date>]
hh rates -fetch <date>[,<date>...] [-currencies <code>[,<code>...]]

  Displays the exchange rates used by the reports of a date. With -fetch, downloads the
  rates of the given dates and stores them. When the data comes from a -data file,
  fetched rates are printed as dataset records instead.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the rates, YYYY-MM-DD (default today)")
	f.StringVar(&c.fetch, "fetch", "", "Comma separated dates to fetch")
	f.StringVar(&c.currencies, "currencies", strings.Join(fxrates.DefaultCurrencies, ","), "Comma separated currencies to fetch")
}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.fetch == "" {
		on, err := parseDate(c.date)
		if err != nil {
			return usage(err)
		}
		return run(ctx, func(ctx context.Context, a *app) error {
			m, err := a.analyzer.RateMap(ctx, on)
			if err != nil {
				return err
			}
			printMarkdown(renderer.RenderRates(on, m.Rates()))
			return nil
		})
	}

	var dates []date.Date
	for _, s := range strings.Split(c.fetch, ",") {
		on, err := date.Parse(strings.TrimSpace(s))
		if err != nil {
			return usage(err)
		}
		dates = append(dates, on)
	}
	var currencies []string
	for _, s := range strings.Split(c.currencies, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			currencies = append(currencies, s)
		}
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		rates, err := fxrates.New(a.cfg.RatesAPI).FetchDates(ctx, dates, currencies...)
		if err != nil {
			return err
		}
		if a.cfg.DataPath != "" {
			return household.EncodeDataset(output, &household.Dataset{Rates: rates})
		}
		saver, ok := a.store.(rateSaver)
		if !ok {
			return errors.New("the store does not accept new rates")
		}
		if err := saver.SaveRates(ctx, rates); err != nil {
			return err
		}
		log := logger.FromContext(ctx)
		log.Info().Int("rates", len(rates)).Msg("exchange rates saved")
		fmt.Fprintf(output, "Saved %d exchange rates.\n", len(rates))
		return nil
	})
}
