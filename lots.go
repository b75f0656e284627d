package cryptotax

import (
	"fmt"
	"time"
)

// Lot represents a single purchase of an asset, tracked until disposal.
type Lot struct {
	Time     time.Time
	Amount   Quantity
	UnitCost Money // reporting-currency cost of one unit
}

// Cost returns the total cost of the lot (amount * unit cost).
func (l Lot) Cost() Money { return l.UnitCost.Mul(l.Amount) }

// ClosedPosition records a disposal matched against one or more lots.
// It is immutable once emitted.
type ClosedPosition struct {
	AcquiredAt  time.Time
	DisposedAt  time.Time
	HoldingDays float64
	Amount      Quantity
	Proceeds    Money
	CostBasis   Money
}

// Profit returns proceeds minus cost basis.
func (c ClosedPosition) Profit() Money { return c.Proceeds.Sub(c.CostBasis) }

// lots is a FIFO queue of open lots, oldest first.
type lots []Lot

// consume matches one sell against the front of the queue. It accumulates
// lots until the sell amount is covered, removes the fully absorbed lots,
// shrinks the last lot touched to the unconsumed remainder, and returns
// the remaining queue with the closed position.
//
// The acquisition date attributed to the disposal is the date of the last
// lot touched, not the first. Downstream tax figures depend on that exact
// attribution, so it must not be changed to the oldest consumed lot.
func (l lots) consume(sell TradeRecord) (lots, ClosedPosition, error) {
	var accumulated Quantity
	last := -1
	for i, lot := range l {
		accumulated = accumulated.Add(lot.Amount)
		if !accumulated.LessThan(sell.Amount) {
			last = i
			break
		}
	}
	if last < 0 {
		return l, ClosedPosition{}, fmt.Errorf("selling %s on %s but only %s acquired: %w",
			sell.Amount, sell.Time.Format(TimeFormat), accumulated, ErrInsufficientLots)
	}

	remainder := accumulated.Sub(sell.Amount)

	var costBasis Money
	for _, lot := range l[:last] {
		costBasis = costBasis.Add(lot.Cost())
	}
	costBasis = costBasis.Add(l[last].UnitCost.Mul(l[last].Amount.Sub(remainder)))

	closed := ClosedPosition{
		AcquiredAt:  l[last].Time,
		DisposedAt:  sell.Time,
		HoldingDays: daysBetween(l[last].Time, sell.Time),
		Amount:      sell.Amount,
		Proceeds:    sell.Value,
		CostBasis:   costBasis,
	}

	if remainder.IsPositive() {
		l[last].Amount = remainder
		return l[last:], closed, nil
	}
	return l[last+1:], closed, nil
}

// total returns the sum of the open amounts.
func (l lots) total() Quantity {
	var t Quantity
	for _, lot := range l {
		t = t.Add(lot.Amount)
	}
	return t
}

// cost returns the sum of the open lots' costs.
func (l lots) cost() Money {
	var c Money
	for _, lot := range l {
		c = c.Add(lot.Cost())
	}
	return c
}
