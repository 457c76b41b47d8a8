// Command hh reports on the net worth, the investments and the spending of a household.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/household/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "hh")
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	// completion exits when the shell asks for it.
	cmd.Completion(commander, flag.CommandLine).Complete("hh")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
