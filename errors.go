package cryptotax

import "errors"

// Sentinel errors for the failure kinds the engine can report. They are
// always wrapped with context (asset, symbol, date) and matched with
// errors.Is.
var (
	// ErrRateNotFound is reported when no provider, directly or through a
	// fallback bridge, can convert a pair.
	ErrRateNotFound = errors.New("rate not found")

	// ErrNoHistoricalData is reported when a provider has no price sample
	// in the requested historical window.
	ErrNoHistoricalData = errors.New("no historical data")

	// ErrInvalidPrice is reported when a provider returns a non-positive
	// price.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInsufficientLots is reported when a sell consumes more than the
	// open lots hold, i.e. more was sold than was ever acquired.
	ErrInsufficientLots = errors.New("insufficient lots")

	// ErrUnknownOrderSide is reported by the import boundary for an order
	// type that is neither a buy nor a sell.
	ErrUnknownOrderSide = errors.New("unknown order side")

	// ErrUnsupportedFormat is reported by the import boundary for a file
	// format it cannot parse.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
