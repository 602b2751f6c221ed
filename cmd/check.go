package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/gains"
	"github.com/etnz/gains/renderer"
	"github.com/google/subcommands"
)

// checkCmd holds the flags for the 'check' subcommand.
type checkCmd struct {
	input string
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validates a trade list" }
func (*checkCmd) Usage() string {
	return `cgt check [-i <trades.csv>]

  Validates the columns and fields of a trade list, and checks that no asset
  is sold in larger quantity than it was acquired. Prints the inventory of
  each asset.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", DefaultInput, "Trade list to read (CSV)")
}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %v\n", f.Args())
		return subcommands.ExitUsageError
	}
	settings, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	cfg := settings.Config()

	table, err := gains.ReadTableFile(c.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger, err := gains.Normalize(table, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := gains.CheckInventory(ledger.BuyEvents(), ledger.SellEvents(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.CheckMarkdown(ledger))
	return subcommands.ExitSuccess
}
