package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptotax"
	"github.com/google/subcommands"
)

// rateCmd holds the flags for the 'rate' subcommand.
type rateCmd struct {
	date string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "resolve a conversion rate between two symbols" }
func (*rateCmd) Usage() string {
	return `clt rate [-date <timestamp>] <asset> [<currency>]

  Resolves the rate such that rate * amount_of_asset = amount_of_currency,
  trying each configured provider and bridging through fallback
  currencies when no direct pair exists. The currency defaults to the
  reporting currency.

Usage Examples:
$ clt rate ETH
$ clt rate -date "2021-03-14 09:26:00" BTC EUR
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Resolve the historical rate at this timestamp ("+cryptotax.TimeFormat+")")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	cfg, err := cryptotax.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	resolver, err := newResolver(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	asset := f.Arg(0)
	currency := cfg.Currency
	if f.NArg() == 2 {
		currency = f.Arg(1)
	}

	var rate float64
	if c.date == "" {
		rate, err = resolver.Convert(asset, currency)
	} else {
		var at, perr = cryptotax.ParseTime(c.date)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", perr)
			return subcommands.ExitUsageError
		}
		rate, err = resolver.ConvertAt(asset, currency, at)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("1 %s = %v %s\n", asset, rate, currency)
	return subcommands.ExitSuccess
}
