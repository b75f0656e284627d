package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/cryptotax/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	year int
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "per-asset positions, profits and portfolio totals" }
func (*summaryCmd) Usage() string {
	return `clt summary [-year <year>]

  Imports the configured exchange exports, rebuilds every asset's open
  and closed positions, and prints the buy/sell overviews, position
  tables, current value, potential profit and the year's taxable profit,
  with portfolio totals and composition.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", time.Now().UTC().Year(), "Tax year to report taxable profit for")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	report := p.Report(c.year)
	printMarkdown(renderer.SummaryMarkdown(report))
	return subcommands.ExitSuccess
}
