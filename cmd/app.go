// Package cmd implements the hh command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/household"
	"github.com/etnz/household/config"
	"github.com/etnz/household/logger"
	"github.com/etnz/household/store/sqlite"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&summaryCmd{}, "net worth")
	c.Register(&allocationCmd{}, "net worth")
	c.Register(&networthCmd{}, "net worth")
	c.Register(&metricsCmd{}, "net worth")
	c.Register(&trendCmd{}, "net worth")
	c.Register(&annualCmd{}, "net worth")

	c.Register(&investCmd{}, "investments")
	c.Register(&incomeCmd{}, "investments")

	c.Register(&budgetCmd{}, "spending")
	c.Register(&expensesCmd{}, "spending")

	c.Register(&ratesCmd{}, "data")
	c.Register(&importCmd{}, "data")

	c.Register(&topicCmd{}, "help")
	c.Register(&reviewCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	envFile   = flag.String("env", "", "Path to a .env file (default ./.env when it exists)")
	dbPath    = flag.String("db", "", "SQLite database file (overrides "+config.EnvDB+")")
	dataPath  = flag.String("data", "", "JSONL dataset analysed in memory (overrides "+config.EnvData+")")
	ratesFile = flag.String("rates-file", "", "YAML fallback rates and mappings (overrides "+config.EnvRatesFile+")")
	logLevel  = flag.String("log-level", "", "debug, info, warn, error or disabled (overrides "+config.EnvLogLevel+")")
	familyID  = flag.Int64("family", 0, "Family to report on (overrides "+config.EnvFamily+")")
	raw       = flag.Bool("markdown", false, "Print reports as raw markdown")
)

// defaultDB is the database used when neither a database nor a dataset is configured.
const defaultDB = "household.db"

// app is what a subcommand needs to run.
type app struct {
	cfg      *config.Config
	store    household.Store
	analyzer *household.Analyzer
	close    func() error
}

// loadConfig reads the configuration and applies the global flags on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*envFile)
	if err != nil {
		return nil, err
	}
	if *dbPath != "" {
		cfg.DBPath, cfg.DataPath = *dbPath, ""
	}
	if *dataPath != "" {
		cfg.DataPath, cfg.DBPath = *dataPath, ""
	}
	if *ratesFile != "" {
		cfg.RatesFile = *ratesFile
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *familyID != 0 {
		cfg.FamilyID = *familyID
	}
	if cfg.DBPath == "" && cfg.DataPath == "" {
		cfg.DBPath = defaultDB
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// open loads the configuration, the logger, the store and the analyzer. The returned context
// carries the logger.
func open(ctx context.Context) (context.Context, *app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return ctx, nil, err
	}
	log := logger.New(cfg.LogLevel)
	ctx = logger.WithContext(ctx, log)

	a := &app{cfg: cfg, close: func() error { return nil }}
	if cfg.DataPath != "" {
		d, err := decodeFile(cfg.DataPath)
		if err != nil {
			return ctx, nil, err
		}
		if err := d.Validate(); err != nil {
			return ctx, nil, fmt.Errorf("invalid dataset %q: %w", cfg.DataPath, err)
		}
		a.store = household.NewMemory(d)
		log.Debug().Str("data", cfg.DataPath).Int("accounts", len(d.Accounts)).Msg("dataset loaded")
	} else {
		s, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return ctx, nil, err
		}
		a.store, a.close = s, s.Close
		log.Debug().Str("db", cfg.DBPath).Msg("database opened")
	}

	var opts []household.Option
	if cfg.RealEstateCategory != "" {
		opts = append(opts, household.WithRealEstateCategory(cfg.RealEstateCategory))
	}
	if cfg.RatesFile != "" {
		tables, err := config.LoadTables(cfg.RatesFile)
		if err != nil {
			a.close()
			return ctx, nil, err
		}
		rates, err := tables.Rates()
		if err != nil {
			a.close()
			return ctx, nil, err
		}
		if len(rates) > 0 {
			opts = append(opts, household.WithFallbackRates(rates))
		}
		if tables.Mappings != nil {
			opts = append(opts, household.WithMappings(*tables.Mappings))
		}
	}
	a.analyzer = household.NewAnalyzer(a.store, opts...)
	return ctx, a, nil
}

// decodeFile reads a JSONL dataset file.
func decodeFile(path string) (*household.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open dataset %q: %w", path, err)
	}
	defer f.Close()
	d, err := household.DecodeDataset(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode dataset %q: %w", path, err)
	}
	return d, nil
}

// run opens the application, calls fn and reports its error. Errors of the household package
// about the request itself are usage errors.
func run(ctx context.Context, fn func(context.Context, *app) error) subcommands.ExitStatus {
	ctx, a, err := open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if err := fn(ctx, a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var validation *household.ValidationError
		if errors.As(err, &validation) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// usage reports a flag error.
func usage(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitUsageError
}

// output is where reports are printed.
var output io.Writer = os.Stdout

// printMarkdown renders markdown for the terminal, or prints it as is when it cannot.
func printMarkdown(md string) {
	if *raw {
		fmt.Fprint(output, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(output, out)
			return
		}
	}
	fmt.Fprint(output, md)
}
