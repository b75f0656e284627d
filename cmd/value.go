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

type valueCmd struct{}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "current portfolio value and composition" }
func (*valueCmd) Usage() string {
	return `clt value

  Values every asset's active amount at the current rate and prints the
  total with each asset's fractional share.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	report := p.Report(time.Now().UTC().Year())
	printMarkdown(renderer.ValueMarkdown(report))
	return subcommands.ExitSuccess
}
