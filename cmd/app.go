// Package cmd implements the CLI application to compute capital gains from a
// trade list.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	c.Register(&topicCmd{}, "")

	c.Register(&gainsCmd{}, "reports")
	c.Register(&matchCmd{}, "reports")
	c.Register(&checkCmd{}, "input")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "cgt.yaml", "Path to the configuration file (YAML). A missing file means default settings")
var envFile = flag.String("env", ".env", "Path to a dotenv file holding API keys. A missing file is ignored")
var Verbose = flag.Bool("v", false, "Log remote calls and warnings to stderr")

// setupLogging silences the standard logger unless -v is set.
func setupLogging() {
	if !*Verbose {
		log.SetOutput(io.Discard)
		return
	}
	log.SetFlags(log.Ltime)
}

// printMarkdown renders md on the terminal, or prints it raw if it cannot be
// rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// Complete handles shell completion requests for the binary name. It returns
// immediately when the process is not run for completion.
func Complete(name string) {
	input := predict.Files("*.csv")
	reportFlags := map[string]complete.Predictor{
		"i":    input,
		"o":    predict.Files("*.xlsx"),
		"html": predict.Files("*.html"),
	}
	gainsFlags := map[string]complete.Predictor{
		"refs":    predict.Set{"BTC", "ETH", "BTC,ETH"},
		"offline": predict.Nothing,
	}
	for k, v := range reportFlags {
		gainsFlags[k] = v
	}
	cmd := &complete.Command{
		Sub: map[string]*complete.Command{
			"gains": {Flags: gainsFlags},
			"match": {Flags: reportFlags},
			"check": {Flags: map[string]complete.Predictor{"i": input}},
			"help":  {Args: predict.Set{"gains", "match", "check", "topic"}},
			"topic": {Args: predict.Set{"*", "input", "matching", "reports", "config"}},
		},
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"env":    predict.Files("*"),
			"v":      predict.Nothing,
		},
	}
	cmd.Complete(name)
}
