package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/gains"
	"github.com/google/subcommands"
)

// matchCmd holds the flags for the 'match' subcommand.
type matchCmd struct {
	input  string
	output string
	html   string
}

func (*matchCmd) Name() string     { return "match" }
func (*matchCmd) Synopsis() string { return "matches a trade list in the base currency, offline" }
func (*matchCmd) Usage() string {
	return `cgt match [-i <trades.csv>] [-o <report.xlsx>] [-html <report.html>]

  Matches every sell with the oldest buys of the same asset and totals the
  lots in the base currency only. No price service is called, holdings are
  reported at cost. The workbook is written only if -o is set.
`
}

func (c *matchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", DefaultInput, "Trade list to read (CSV)")
	f.StringVar(&c.output, "o", "", "Workbook to write (xlsx)")
	f.StringVar(&c.html, "html", "", "Also write the summary as an HTML file")
}

func (c *matchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %v\n", f.Args())
		return subcommands.ExitUsageError
	}
	settings, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	table, err := gains.ReadTableFile(c.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := gains.Compute(ctx, table, settings.Config(), nil, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching trades: %v\n", err)
		return subcommands.ExitFailure
	}
	return publish(report, c.output, c.html)
}
