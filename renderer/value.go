package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptotax"
)

// ValueMarkdown renders the portfolio's current value and composition.
func ValueMarkdown(report *cryptotax.PortfolioReport) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Portfolio Value\n\n")
	fmt.Fprintf(&b, "Total value: %s\n\n", report.TotalValue)

	compositionTable(&b, report)

	for _, ar := range report.Assets {
		if ar.Err != nil {
			fmt.Fprintf(&b, "%s computation halted: %v\n\n", ar.Asset, ar.Err)
		}
	}
	return b.String()
}
