package cryptotax

import "time"

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// T is a helper for test to parse a trade timestamp from const
func T(s string) time.Time { return MustParseTime(s) }

// trade is a helper for test to create a trade record from consts
func trade(ts string, amount, value float64) TradeRecord {
	return TradeRecord{Time: T(ts), Amount: Q(amount), Value: EUR(value)}
}
