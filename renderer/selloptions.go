package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptotax"
)

// SellOptionsMarkdown renders how much of each asset can still be sold
// tax free this year, given the realized profit that seeds the shared
// allowance.
func SellOptionsMarkdown(year int, profitSoFar, allowance cryptotax.Money, options []cryptotax.SellOption) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Sell Options for %d\n\n", year)
	fmt.Fprintf(&b, "Realized taxable profit so far: %s of the %s allowance.\n\n", profitSoFar, allowance)

	fmt.Fprintln(&b, "| Asset | Long-Term (tax free) | Within Allowance | Profit | Proceeds |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, opt := range options {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			opt.Asset,
			opt.GenerallyTaxFree,
			opt.StillTaxFree,
			opt.NewProfit.SignedString(),
			opt.Proceeds,
		)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Amounts held beyond the holding period sell tax free regardless of the allowance.")
	fmt.Fprintln(&b, "Amounts within the allowance are a FIFO prefix of the open lots; selling newer lots first changes the figures.")
	return b.String()
}
