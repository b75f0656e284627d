// Package renderer turns report structs into markdown for the terminal.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptotax"
)

// overviewRows caps the trade history rows shown per asset; full
// histories belong in the export files, not on a terminal.
const overviewRows = 10

func SummaryMarkdown(report *cryptotax.PortfolioReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio Summary for %d\n\n", report.Year)

	for _, ar := range report.Assets {
		fmt.Fprintf(&b, "## %s\n\n", ar.Asset)
		if ar.Err != nil {
			fmt.Fprintf(&b, "computation halted: %v\n\n", ar.Err)
			continue
		}

		tradeTable(&b, "Buy Overview", ar.Buys)
		tradeTable(&b, "Sell Overview", ar.Sells)

		fmt.Fprintf(&b, "Active amount: %s\n\n", ar.ActiveAmount)

		openTable(&b, ar.Open)
		closedTable(&b, ar.Closed)

		fmt.Fprintf(&b, "| | |\n|:---|---:|\n")
		fmt.Fprintf(&b, "| Current value | %s |\n", ar.CurrentValue)
		fmt.Fprintf(&b, "| Potential profit | %s |\n", ar.PotentialProfit.SignedString())
		fmt.Fprintf(&b, "| Taxable profit %d | %s |\n\n", report.Year, ar.TaxableProfit.SignedString())
	}

	fmt.Fprint(&b, "## Totals\n\n")
	fmt.Fprintf(&b, "| | |\n|:---|---:|\n")
	fmt.Fprintf(&b, "| Total value | %s |\n", report.TotalValue)
	fmt.Fprintf(&b, "| Total potential profit | %s |\n", report.TotalPotentialProfit.SignedString())
	fmt.Fprintf(&b, "| Total taxable profit %d | %s |\n\n", report.Year, report.TotalTaxableProfit.SignedString())

	compositionTable(&b, report)
	return b.String()
}

func tradeTable(b *strings.Builder, title string, trades []cryptotax.TradeRecord) {
	if len(trades) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	fmt.Fprintln(b, "| Date (UTC) | Amount | Total |")
	fmt.Fprintln(b, "|:---|---:|---:|")
	for i, t := range trades {
		if i == overviewRows {
			fmt.Fprintf(b, "| … %d more | | |\n", len(trades)-overviewRows)
			break
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", t.Time.Format(cryptotax.TimeFormat), t.Amount, t.Value)
	}
	fmt.Fprintln(b)
}

func openTable(b *strings.Builder, open []cryptotax.Lot) {
	if len(open) == 0 {
		return
	}
	fmt.Fprint(b, "### Open Positions\n\n")
	fmt.Fprintln(b, "| Acquired (UTC) | Amount | Unit Cost |")
	fmt.Fprintln(b, "|:---|---:|---:|")
	for _, lot := range open {
		fmt.Fprintf(b, "| %s | %s | %s |\n", lot.Time.Format(cryptotax.TimeFormat), lot.Amount, lot.UnitCost)
	}
	fmt.Fprintln(b)
}

func closedTable(b *strings.Builder, closed []cryptotax.ClosedPosition) {
	if len(closed) == 0 {
		return
	}
	fmt.Fprint(b, "### Closed Positions\n\n")
	fmt.Fprintln(b, "| Acquired (UTC) | Disposed (UTC) | Held (days) | Amount | Profit/Loss |")
	fmt.Fprintln(b, "|:---|:---|---:|---:|---:|")
	for _, pos := range closed {
		fmt.Fprintf(b, "| %s | %s | %.1f | %s | %s |\n",
			pos.AcquiredAt.Format(cryptotax.TimeFormat),
			pos.DisposedAt.Format(cryptotax.TimeFormat),
			pos.HoldingDays,
			pos.Amount,
			pos.Profit().SignedString(),
		)
	}
	fmt.Fprintln(b)
}

func compositionTable(b *strings.Builder, report *cryptotax.PortfolioReport) {
	if len(report.Composition) == 0 {
		return
	}
	fmt.Fprint(b, "## Composition\n\n")
	fmt.Fprintln(b, "| Asset | Value | Share |")
	fmt.Fprintln(b, "|:---|---:|---:|")
	for _, ar := range report.Assets {
		if ar.Err != nil {
			continue
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", ar.Asset, ar.CurrentValue, report.Composition[ar.Asset])
	}
	fmt.Fprintln(b)
}
