package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"tradeperf/internal/engine"

	"github.com/google/subcommands"
)

type reportCmd struct {
	runFlags
	matchesFile   string
	valuationFile string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "realized and unrealized performance metrics" }
func (*reportCmd) Usage() string {
	return `tradeperf report [-trades <file.csv>] [-from <date>] [-to <date>] [-rf <rate>] [-policy <policy>] [-granularity <event|daily>] [-prices <source>]

  Matches trades FIFO, values the portfolio at every checkpoint and prints the metrics report.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.runFlags.SetFlags(f)
	f.StringVar(&c.matchesFile, "matches-out", "", "Also write match events to this CSV file")
	f.StringVar(&c.valuationFile, "valuation-out", "", "Also write the valuation series to this CSV file")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	res, err := run(ctx, &c.runFlags, c.matchesFile, c.valuationFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	engine.PrintReport(os.Stdout, res.Report)
	return subcommands.ExitSuccess
}
