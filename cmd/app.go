// Package cmd implements the CLI application to compute crypto capital
// gains and sell options.
package cmd

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cryptotax"
	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "cryptotax.yaml", "Path to the run configuration (YAML)")

// Commands lists the subcommands.
// A main package will range over Commands to register them.
var Commands = []subcommands.Command{
	&summaryCmd{},
	&sellOptionsCmd{},
	&valueCmd{},
	&rateCmd{},
}

// newResolver builds the price resolver from the run configuration.
func newResolver(cfg *cryptotax.Config) (*cryptotax.Resolver, error) {
	providers, err := cfg.Providers()
	if err != nil {
		return nil, err
	}
	return cryptotax.NewResolver(providers...), nil
}

// loadPortfolio builds the portfolio described by the run configuration:
// every export file is imported and every asset recomputed. Per-asset
// failures are carried in the portfolio, not returned.
func loadPortfolio() (*cryptotax.Portfolio, error) {
	cfg, err := cryptotax.LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	resolver, err := newResolver(cfg)
	if err != nil {
		return nil, err
	}
	p := cryptotax.NewPortfolio(cfg.Currency, cfg.Allowance, resolver, cfg.Assets...)
	if err := p.ImportDir(cfg.Exports); err != nil {
		return nil, err
	}
	p.Recompute()
	return p, nil
}

// printMarkdown renders a markdown report to the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// raw markdown is still readable
		fmt.Println(md)
		return
	}
	fmt.Println(out)
}
