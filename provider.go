package cryptotax

import "time"

// Provider is one independent price source. Each provider has its own
// pair naming convention and its own designated fallback currency for
// bridging conversions that have no direct pair.
type Provider interface {
	Name() string

	// Symbol returns the provider's own name for the pair whose first leg
	// is base and second leg is quote.
	Symbol(base, quote string) string

	// Has reports whether the symbol is listed on the provider.
	Has(symbol string) bool

	// Fallback returns the provider's fallback currency.
	Fallback() string

	// Spot returns the current price of the symbol.
	Spot(symbol string) (float64, error)

	// Historical returns the earliest price sample in the window
	// [from, to); it fails with ErrNoHistoricalData when the window holds
	// no sample.
	Historical(symbol string, from, to time.Time) (float64, error)
}
