package cryptotax

import "time"

// HoldingPeriodDays is the holding period beyond which a disposal is
// exempt from taxation. Disposals held for at most this many days are
// short-term and taxable.
const HoldingPeriodDays = 365

// DefaultAllowance is the annual account-wide tax-free profit threshold.
const DefaultAllowance = 600

// TaxableProfit sums the profit of the closed positions disposed of in
// the given year after a short-term holding period. Losses reduce the
// total; there is no loss ring-fencing.
func (l *Ledger) TaxableProfit(year int) Money {
	var profit Money
	for _, pos := range l.closed {
		if pos.DisposedAt.Year() == year && pos.HoldingDays <= HoldingPeriodDays {
			profit = profit.Add(pos.Profit())
		}
	}
	return profit
}

// SellOption reports how much of an asset can still be disposed of
// without incurring tax.
type SellOption struct {
	Asset string

	// GenerallyTaxFree is the amount held beyond the holding period,
	// sellable tax free regardless of price or allowance.
	GenerallyTaxFree Quantity

	// StillTaxFree is the short-term amount whose unrealized profit still
	// fits in the allowance.
	StillTaxFree Quantity

	// NewProfit is the profit a sale of StillTaxFree would realize.
	NewProfit Money

	// Proceeds is the value of StillTaxFree at the current price.
	Proceeds Money
}

// TaxFreeAmount walks the open lots oldest first and reports how much can
// still be sold tax free, given the taxable profit already realized
// account-wide this year and the current unit price.
//
// Lots held beyond the holding period are unconditionally exempt and
// counted separately. Short-term lots are granted whole while their
// unrealized profit keeps the running total below the allowance; the
// first lot that would reach it is granted fractionally and the walk
// stops, so only a contiguous FIFO prefix is ever reported tax free.
func (l *Ledger) TaxFreeAmount(profitSoFar, allowance, price Money, now time.Time) SellOption {
	opt := SellOption{Asset: l.asset}

	for _, lot := range l.open {
		if daysBetween(now, lot.Time) > HoldingPeriodDays {
			opt.GenerallyTaxFree = opt.GenerallyTaxFree.Add(lot.Amount)
			continue
		}

		potential := price.Mul(lot.Amount).Sub(lot.Cost())
		if profitSoFar.Add(opt.NewProfit).Add(potential).LessThan(allowance) {
			opt.StillTaxFree = opt.StillTaxFree.Add(lot.Amount)
			opt.NewProfit = opt.NewProfit.Add(potential)
			continue
		}

		// This lot reaches the allowance: grant the fraction that fills
		// the remaining budget, then stop.
		stillAllowed := allowance.Sub(profitSoFar).Sub(opt.NewProfit)
		if stillAllowed.IsPositive() {
			opt.StillTaxFree = opt.StillTaxFree.Add(stillAllowed.DivPrice(price.Sub(lot.UnitCost)))
			opt.NewProfit = opt.NewProfit.Add(stillAllowed)
		}
		break
	}

	opt.Proceeds = price.Mul(opt.StillTaxFree)
	return opt
}
