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

// sellOptionsCmd holds the flags for the 'selloptions' subcommand.
type sellOptionsCmd struct {
	year int
}

func (*sellOptionsCmd) Name() string { return "selloptions" }
func (*sellOptionsCmd) Synopsis() string {
	return "how much of each asset can still be sold tax free"
}
func (*sellOptionsCmd) Usage() string {
	return `clt selloptions [-year <year>]

  Computes the combined realized taxable profit of the year, then
  allocates the remaining tax-free allowance across the open lots of
  each asset, oldest first. The allowance is shared account-wide: what
  one asset consumes is no longer available to the next.
`
}

func (c *sellOptionsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", time.Now().UTC().Year(), "Tax year the realized profit counts against")
}

func (c *sellOptionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	profitSoFar := p.TotalTaxableProfit(c.year)
	options := p.SellOptions(c.year, time.Now().UTC())
	printMarkdown(renderer.SellOptionsMarkdown(c.year, profitSoFar, p.Allowance(), options))

	for _, asset := range p.Assets() {
		if err := p.Err(asset); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s skipped: %v\n", asset, err)
		}
	}
	return subcommands.ExitSuccess
}
