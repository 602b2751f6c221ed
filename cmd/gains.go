package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/gains"
	"github.com/etnz/gains/renderer"
	"github.com/etnz/gains/workbook"
	"github.com/google/subcommands"
)

// Default file names.
const (
	DefaultInput  = "CoinTracking · Trade List.csv"
	DefaultOutput = "portfolio_data.xlsx"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	input   string
	output  string
	refs    string
	html    string
	offline bool
}

func (*gainsCmd) Name() string { return "gains" }
func (*gainsCmd) Synopsis() string {
	return "realized and unrealized gains of a trade list, first in first out"
}
func (*gainsCmd) Usage() string {
	return `cgt gains [-i <trades.csv>] [-o <report.xlsx>] [-refs BTC,ETH] [-html <report.html>] [-offline]

  Matches every sell with the oldest buys of the same asset, values each lot in
  the base currency and the reference currencies at the trade dates, values
  the remaining holdings at current prices, and writes the workbook.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", DefaultInput, "Trade list to read (CSV)")
	f.StringVar(&c.output, "o", DefaultOutput, "Workbook to write (xlsx)")
	f.StringVar(&c.refs, "refs", "", "Comma separated reference currencies, overrides the configuration")
	f.StringVar(&c.html, "html", "", "Also write the summary as an HTML file")
	f.BoolVar(&c.offline, "offline", false, "Do not call price services: base currency only, holdings at cost")
}

func (c *gainsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if c.refs != "" {
		cfg.References = parseCurrencies(c.refs)
	}

	table, err := gains.ReadTableFile(c.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	historical, current := settings.pricers(c.offline)
	report, err := gains.Compute(ctx, table, cfg, historical, current)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing gains: %v\n", err)
		return subcommands.ExitFailure
	}

	return publish(report, c.output, c.html)
}

// publish writes the workbook and the summary of report r. Empty names are
// skipped.
func publish(r *gains.Report, output, html string) subcommands.ExitStatus {
	md := renderer.GainsMarkdown(r)
	printMarkdown(md)

	if html != "" {
		if err := writeHTML(html, md); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if output != "" {
		if err := workbook.Save(output, r); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Successfully generated %s\n", output)
	}
	return subcommands.ExitSuccess
}
