package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/household"
	"github.com/google/subcommands"
)

// importer is a store loading whole datasets.
type importer interface {
	Import(ctx context.Context, d *household.Dataset) error
}

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	check bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "load a JSONL dataset into the database" }
func (*importCmd) Usage() string {
	return `hh import [-n] <file.jsonl>...

  Validates the datasets and loads them into the SQLite database. Records with the same
  identifier are replaced. With -n, the datasets are only validated.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.check, "n", false, "Validate only, do not write anything")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return usage(errors.New("missing dataset file"))
	}
	if c.check {
		for _, path := range f.Args() {
			d, err := decodeFile(path)
			if err == nil {
				err = d.Validate()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
				return subcommands.ExitFailure
			}
			fmt.Fprintf(output, "%s: %d accounts, %d valuations, %d rates\n", path, len(d.Accounts), len(d.Valuations), len(d.Rates))
		}
		return subcommands.ExitSuccess
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		db, ok := a.store.(importer)
		if !ok {
			return errors.New("import needs a database, not a -data file")
		}
		for _, path := range f.Args() {
			d, err := decodeFile(path)
			if err != nil {
				return err
			}
			if err := db.Import(ctx, d); err != nil {
				return fmt.Errorf("importing %q: %w", path, err)
			}
			fmt.Fprintf(output, "Imported %s into %s.\n", path, a.cfg.DBPath)
		}
		return nil
	})
}
