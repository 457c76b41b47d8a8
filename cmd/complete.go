package cmd

import (
	"flag"

	"github.com/etnz/household"
	"github.com/etnz/household/docs"
	"github.com/etnz/household/fxrates"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// predictors of flags whose values are known, by flag name.
var predictors = map[string]complete.Predictor{
	"env":        predict.Files("*"),
	"db":         predict.Files("*.db"),
	"data":       predict.Files("*.jsonl"),
	"rates-file": predict.Files("*.yaml"),
	"log-level":  predict.Set{"debug", "info", "warn", "error", "disabled"},
	"c":          predict.Set(append([]string{household.All, household.USD}, fxrates.DefaultCurrencies...)),
	"p":          predict.Set{"daily", "weekly", "monthly", "quarterly", "yearly"},
	"by":         predict.Set{"account", "type", "category", "currency", "tax", "member"},
}

// Completion returns the shell completion of the commands registered in c, and of the global
// flags in top.
func Completion(c *subcommands.Commander, top *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(top),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		f := flag.NewFlagSet(sub.Name(), flag.ContinueOnError)
		sub.SetFlags(f)
		cmd := &complete.Command{Flags: flags(f)}
		switch sub.Name() {
		case "import":
			cmd.Args = predict.Files("*.jsonl")
		case "topic":
			cmd.Args = predict.Set(docs.List())
		}
		root.Sub[sub.Name()] = cmd
	})
	return root
}

func flags(f *flag.FlagSet) map[string]complete.Predictor {
	res := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			res[fl.Name] = predict.Nothing
			return
		}
		if p, ok := predictors[fl.Name]; ok {
			res[fl.Name] = p
			return
		}
		res[fl.Name] = predict.Something
	})
	return res
}
