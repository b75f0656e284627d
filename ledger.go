package cryptotax

import (
	"fmt"
	"slices"
	"sort"
)

// Ledger holds the full trade history of one asset and the open and
// closed positions derived from it.
//
// Derived state is rebuilt from scratch by Recompute; it must be re-run
// whenever the history changes before any derived query is trusted.
type Ledger struct {
	asset string

	buys  []TradeRecord
	sells []TradeRecord

	open   lots
	closed []ClosedPosition
}

// NewLedger creates an empty ledger for one asset.
func NewLedger(asset string) *Ledger {
	return &Ledger{asset: asset}
}

// Asset returns the asset symbol this ledger tracks.
func (l *Ledger) Asset() string { return l.asset }

// Append records trades in import order. Chronological order is not
// required; Recompute sorts the histories.
func (l *Ledger) Append(side Side, records ...TradeRecord) error {
	for _, rec := range records {
		if !rec.Amount.IsPositive() {
			return fmt.Errorf("%s of %s %s on %s: amount must be positive",
				side, rec.Amount, l.asset, rec.Time.Format(TimeFormat))
		}
		switch side {
		case Buy:
			l.buys = append(l.buys, rec)
		case Sell:
			l.sells = append(l.sells, rec)
		default:
			return fmt.Errorf("order type %q: %w", side, ErrUnknownOrderSide)
		}
	}
	return nil
}

// Buys returns the buy history in its current order.
func (l *Ledger) Buys() []TradeRecord { return slices.Clone(l.buys) }

// Sells returns the sell history in its current order.
func (l *Ledger) Sells() []TradeRecord { return slices.Clone(l.sells) }

// Recompute rebuilds the open-lot queue and the closed-position log from
// the full trade history. It is idempotent and all-or-nothing: on error
// the derived state is cleared, so a half-matched queue can never be read.
//
// Each buy becomes an open lot in chronological order; each sell consumes
// lots from the front of the queue (FIFO). Timestamp ties keep their
// insertion order.
func (l *Ledger) Recompute() error {
	sort.SliceStable(l.buys, func(i, j int) bool { return l.buys[i].Time.Before(l.buys[j].Time) })
	sort.SliceStable(l.sells, func(i, j int) bool { return l.sells[i].Time.Before(l.sells[j].Time) })

	l.open = nil
	l.closed = nil

	open := make(lots, 0, len(l.buys))
	for _, buy := range l.buys {
		open = append(open, Lot{Time: buy.Time, Amount: buy.Amount, UnitCost: buy.UnitCost()})
	}

	closed := make([]ClosedPosition, 0, len(l.sells))
	for _, sell := range l.sells {
		var pos ClosedPosition
		var err error
		open, pos, err = open.consume(sell)
		if err != nil {
			return fmt.Errorf("%s: %w", l.asset, err)
		}
		closed = append(closed, pos)
	}

	l.open = open
	l.closed = closed
	return nil
}

// OpenPositions returns the unconsumed lots in FIFO order.
func (l *Ledger) OpenPositions() []Lot { return slices.Clone(l.open) }

// ClosedPositions returns the disposals in disposal order.
func (l *Ledger) ClosedPositions() []ClosedPosition { return slices.Clone(l.closed) }

// ActiveAmount returns the total bought minus the total sold.
//
// After a successful Recompute it reconciles with the sum of the open-lot
// amounts.
func (l *Ledger) ActiveAmount() Quantity {
	var amount Quantity
	for _, buy := range l.buys {
		amount = amount.Add(buy.Amount)
	}
	for _, sell := range l.sells {
		amount = amount.Sub(sell.Amount)
	}
	return amount
}

// CurrentValue returns the open amount valued at the given unit price.
func (l *Ledger) CurrentValue(price Money) Money {
	return price.Mul(l.open.total())
}

// PotentialProfit returns the unrealized profit of the open lots at the
// given unit price.
func (l *Ledger) PotentialProfit(price Money) Money {
	return l.CurrentValue(price).Sub(l.open.cost())
}
