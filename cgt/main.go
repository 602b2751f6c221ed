package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/gains/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	cmd.Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	cmd.Register(commander)

	flag.Parse()

	// unknown subcommands are delegated to a cgt-<subcommand> binary, if any.
	if sub := flag.Arg(0); sub != "" && !registered(commander, sub) {
		if found, code := cmd.RunExtension(sub, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}
