package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"tradeperf/internal/engine"

	"github.com/google/subcommands"
)

type matchesCmd struct {
	runFlags
}

func (*matchesCmd) Name() string     { return "matches" }
func (*matchesCmd) Synopsis() string { return "realized FIFO match events as CSV" }
func (*matchesCmd) Usage() string {
	return `tradeperf matches [-trades <file.csv>] [-from <date>] [-to <date>]

  Prints one CSV row per realized match event.
`
}

func (c *matchesCmd) SetFlags(f *flag.FlagSet) {
	c.runFlags.SetFlags(f)
}

func (c *matchesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	res, err := match(ctx, &c.runFlags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := engine.WriteMatchesCSV(os.Stdout, res.Events); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
