package cryptotax

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// rateKey identifies one resolved conversion. A zero instant is a spot
// conversion.
type rateKey struct {
	base, quote string
	at          int64
}

// Resolver converts between an asset and a currency (or any pair) across
// multiple price providers, tried in fixed priority order, with
// fallback-currency bridging when no direct pair is listed.
//
// Resolved rates are memoized by (base, quote, instant), so repeated
// lookups within one computation pass hit the providers only once. The
// cache is safe for concurrent use; the providers are read-only after
// construction.
type Resolver struct {
	providers []Provider

	mu   sync.Mutex
	memo map[rateKey]float64
}

// NewResolver creates a resolver trying the given providers in order.
// The first provider is the canonical one: fallback bridges pin their
// second leg to it, which bounds the search to a single bridge level.
func NewResolver(providers ...Provider) *Resolver {
	return &Resolver{
		providers: providers,
		memo:      make(map[rateKey]float64),
	}
}

// Convert resolves the current rate such that
// rate * amount_of_asset = amount_of_currency.
func (r *Resolver) Convert(asset, currency string) (float64, error) {
	return r.resolve(asset, currency, time.Time{})
}

// ConvertAt is Convert at a given past instant, using the earliest price
// sample each provider has in the minute before it.
func (r *Resolver) ConvertAt(asset, currency string, at time.Time) (float64, error) {
	return r.resolve(asset, currency, at)
}

func (r *Resolver) resolve(base, quote string, at time.Time) (float64, error) {
	if base == quote {
		return 1, nil
	}

	key := rateKey{base: base, quote: quote}
	if !at.IsZero() {
		key.at = at.Unix()
	}
	r.mu.Lock()
	rate, hit := r.memo[key]
	r.mu.Unlock()
	if hit {
		return rate, nil
	}

	// Direct pair, each provider in priority order.
	for _, p := range r.providers {
		rate, ok, err := r.direct(p, base, quote, at)
		if err != nil {
			return 0, err
		}
		if ok {
			return r.remember(key, rate), nil
		}
	}

	// No direct pair anywhere: bridge through each provider's fallback
	// currency. The second leg is pinned to the canonical provider, so a
	// bridge never opens another bridge.
	for _, p := range r.providers {
		fallback := p.Fallback()
		if base == fallback || quote == fallback {
			continue
		}
		leg1, ok := r.probe(p, base, fallback, at)
		if !ok {
			continue
		}
		leg2, ok := r.probe(r.providers[0], fallback, quote, at)
		if !ok {
			continue
		}
		return r.remember(key, leg1*leg2), nil
	}

	if at.IsZero() {
		return 0, fmt.Errorf("no symbol defined for combination of %s and %s: %w", base, quote, ErrRateNotFound)
	}
	return 0, fmt.Errorf("no symbol defined for combination of %s and %s on %s: %w",
		base, quote, at.Format(TimeFormat), ErrRateNotFound)
}

// direct tries the provider's own symbols for the pair, quote-led first.
// A quote-led match prices the quote in base units, so the rate is
// inverted. ok is false when the provider lists neither symbol.
func (r *Resolver) direct(p Provider, base, quote string, at time.Time) (rate float64, ok bool, err error) {
	if sym := p.Symbol(quote, base); p.Has(sym) {
		price, err := r.fetch(p, sym, at)
		if err != nil {
			return 0, true, err
		}
		return 1 / price, true, nil
	}
	if sym := p.Symbol(base, quote); p.Has(sym) {
		price, err := r.fetch(p, sym, at)
		if err != nil {
			return 0, true, err
		}
		return price, true, nil
	}
	return 0, false, nil
}

// probe is direct in probe mode: a failed fetch is swallowed so the
// caller can try the next bridge combination.
func (r *Resolver) probe(p Provider, base, quote string, at time.Time) (float64, bool) {
	rate, ok, err := r.direct(p, base, quote, at)
	if err != nil {
		log.Printf("bridge leg %s/%s on %s failed (trying next): %v", base, quote, p.Name(), err)
		return 0, false
	}
	return rate, ok
}

// fetch reads one price from the provider, spot or historical, and
// rejects non-positive values.
func (r *Resolver) fetch(p Provider, symbol string, at time.Time) (float64, error) {
	var price float64
	var err error
	if at.IsZero() {
		price, err = p.Spot(symbol)
	} else {
		price, err = p.Historical(symbol, at.Add(-time.Minute), at)
	}
	if err != nil {
		return 0, fmt.Errorf("provider %s, symbol %s: %w", p.Name(), symbol, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("provider %s returned %v for %s: %w", p.Name(), price, symbol, ErrInvalidPrice)
	}
	return price, nil
}

func (r *Resolver) remember(key rateKey, rate float64) float64 {
	r.mu.Lock()
	r.memo[key] = rate
	r.mu.Unlock()
	return rate
}
