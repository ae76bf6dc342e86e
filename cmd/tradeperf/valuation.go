package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"tradeperf/internal/engine"

	"github.com/google/subcommands"
)

type valuationCmd struct {
	runFlags
}

func (*valuationCmd) Name() string     { return "valuation" }
func (*valuationCmd) Synopsis() string { return "portfolio value series as CSV" }
func (*valuationCmd) Usage() string {
	return `tradeperf valuation [-trades <file.csv>] [-policy <policy>] [-granularity <event|daily>] [-prices <source>]

  Prints the realized, unrealized and total portfolio value at every checkpoint.
`
}

func (c *valuationCmd) SetFlags(f *flag.FlagSet) {
	c.runFlags.SetFlags(f)
}

func (c *valuationCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	res, err := run(ctx, &c.runFlags, "", "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := engine.WriteValuationCSV(os.Stdout, res.Points); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
