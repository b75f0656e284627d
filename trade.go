package cryptotax

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TimeFormat is the naive timestamp format used by exchange exports.
const TimeFormat = "2006-01-02 15:04:05"

// Side identifies the direction of a trade record.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide parses an order type from an exchange export. Exports are
// inconsistent about casing ("BUY", "Sell", "buy").
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return "", fmt.Errorf("order type %q: %w", s, ErrUnknownOrderSide)
	}
}

// TradeRecord is one normalized exchange trade: an asset amount traded
// against a counter value already expressed in the reporting currency.
type TradeRecord struct {
	Time   time.Time
	Amount Quantity // asset amount, strictly positive
	Value  Money    // counter value in the reporting currency
}

// UnitCost returns the reporting-currency cost of one unit of the asset.
func (t TradeRecord) UnitCost() Money { return t.Value.Div(t.Amount) }

// ParseTime parses a naive exchange timestamp. A bare date is accepted and
// taken at midnight.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(TimeFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q want format %q: %w", s, TimeFormat, err)
	}
	return t, nil
}

// MustParseTime is like ParseTime but panics on error.
func MustParseTime(s string) time.Time {
	t, err := ParseTime(s)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// daysBetween returns the absolute distance between two instants in days.
func daysBetween(a, b time.Time) float64 {
	return math.Abs(a.Sub(b).Hours() / 24)
}
