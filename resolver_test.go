package cryptotax

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// fakeProvider is an in-memory Provider for resolver tests. Pairs are
// named by plain concatenation.
type fakeProvider struct {
	name     string
	fallback string
	spot     map[string]float64
	hist     map[string]map[int64]float64 // symbol -> unix second -> price
	broken   map[string]bool              // symbols whose fetch fails

	fetches int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Symbol(base, quote string) string { return base + quote }

func (p *fakeProvider) Fallback() string { return p.fallback }

func (p *fakeProvider) Has(symbol string) bool {
	if p.broken[symbol] {
		return true
	}
	if _, ok := p.spot[symbol]; ok {
		return true
	}
	_, ok := p.hist[symbol]
	return ok
}

func (p *fakeProvider) Spot(symbol string) (float64, error) {
	p.fetches++
	if p.broken[symbol] {
		return 0, fmt.Errorf("%s is down", p.name)
	}
	price, ok := p.spot[symbol]
	if !ok {
		return 0, fmt.Errorf("%s does not list %s", p.name, symbol)
	}
	return price, nil
}

func (p *fakeProvider) Historical(symbol string, from, to time.Time) (float64, error) {
	p.fetches++
	if p.broken[symbol] {
		return 0, fmt.Errorf("%s is down", p.name)
	}
	for ts, price := range p.hist[symbol] {
		at := time.Unix(ts, 0).UTC()
		if !at.Before(from) && at.Before(to) {
			return price, nil
		}
	}
	return 0, fmt.Errorf("no sample for %s: %w", symbol, ErrNoHistoricalData)
}

func TestResolver_Convert_Direct(t *testing.T) {
	p := &fakeProvider{name: "p1", fallback: "BUSD", spot: map[string]float64{"ETHEUR": 2000}}
	r := NewResolver(p)

	rate, err := r.Convert("ETH", "EUR")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if rate != 2000 {
		t.Errorf("rate = %v, want 2000", rate)
	}
}

// A currency-led symbol prices the currency in asset units: the rate is
// inverted.
func TestResolver_Convert_Inverse(t *testing.T) {
	p := &fakeProvider{name: "p1", fallback: "BUSD", spot: map[string]float64{"EURETH": 0.0005}}
	r := NewResolver(p)

	rate, err := r.Convert("ETH", "EUR")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if rate != 1/0.0005 {
		t.Errorf("rate = %v, want %v", rate, 1/0.0005)
	}
}

func TestResolver_Convert_Identity(t *testing.T) {
	r := NewResolver(&fakeProvider{name: "p1", fallback: "BUSD"})
	rate, err := r.Convert("EUR", "EUR")
	if err != nil || rate != 1 {
		t.Errorf("Convert(EUR, EUR) = %v, %v, want 1, nil", rate, err)
	}
}

func TestResolver_Convert_ProviderPriority(t *testing.T) {
	p1 := &fakeProvider{name: "p1", fallback: "BUSD", spot: map[string]float64{"ETHEUR": 2000}}
	p2 := &fakeProvider{name: "p2", fallback: "USD", spot: map[string]float64{"ETHEUR": 1999}}
	r := NewResolver(p1, p2)

	rate, err := r.Convert("ETH", "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if rate != 2000 {
		t.Errorf("rate = %v, want the first provider's 2000", rate)
	}
	if p2.fetches != 0 {
		t.Errorf("second provider was queried %d times, want 0", p2.fetches)
	}
}

func TestResolver_Convert_FallbackBridge(t *testing.T) {
	// no direct ETHEUR anywhere; ETH→BUSD on p1, BUSD→EUR on the
	// canonical provider (p1 itself here)
	p := &fakeProvider{name: "p1", fallback: "BUSD", spot: map[string]float64{
		"ETHBUSD": 2400,
		"BUSDEUR": 0.8,
	}}
	r := NewResolver(p)

	rate, err := r.Convert("ETH", "EUR")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if rate != 2400*0.8 {
		t.Errorf("rate = %v, want %v", rate, 2400*0.8)
	}
}

// The bridge's second leg is pinned to the canonical (first) provider.
func TestResolver_Convert_BridgeSecondLegPinned(t *testing.T) {
	p1 := &fakeProvider{name: "canonical", fallback: "BUSD", spot: map[string]float64{"USDEUR": 0.9}}
	p2 := &fakeProvider{name: "p2", fallback: "USD", spot: map[string]float64{"ETHUSD": 3000}}
	r := NewResolver(p1, p2)

	rate, err := r.Convert("ETH", "EUR")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if rate != 3000*0.9 {
		t.Errorf("rate = %v, want %v", rate, 3000*0.9)
	}
}

// A failing bridge leg is probed, not raised: the next combination is
// tried, and only full exhaustion reports ErrRateNotFound.
func TestResolver_Convert_BridgeProbeSwallowsFailure(t *testing.T) {
	p1 := &fakeProvider{name: "p1", fallback: "BUSD",
		spot:   map[string]float64{"USDEUR": 0.9},
		broken: map[string]bool{"ETHBUSD": true}}
	p2 := &fakeProvider{name: "p2", fallback: "USD", spot: map[string]float64{"ETHUSD": 3000}}
	r := NewResolver(p1, p2)

	rate, err := r.Convert("ETH", "EUR")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if rate != 3000*0.9 {
		t.Errorf("rate = %v, want the second bridge %v", rate, 3000*0.9)
	}
}

func TestResolver_Convert_RateNotFound(t *testing.T) {
	p1 := &fakeProvider{name: "p1", fallback: "BUSD", spot: map[string]float64{"BTCBUSD": 40000}}
	p2 := &fakeProvider{name: "p2", fallback: "USD"}
	r := NewResolver(p1, p2)

	_, err := r.Convert("ETH", "EUR")
	if !errors.Is(err, ErrRateNotFound) {
		t.Fatalf("Convert() error = %v, want ErrRateNotFound", err)
	}
}

// A listed symbol whose fetch fails is not probe territory: the error
// propagates to the caller.
func TestResolver_Convert_DirectFailurePropagates(t *testing.T) {
	p := &fakeProvider{name: "p1", fallback: "BUSD", broken: map[string]bool{"ETHEUR": true}}
	r := NewResolver(p)

	_, err := r.Convert("ETH", "EUR")
	if err == nil || errors.Is(err, ErrRateNotFound) {
		t.Fatalf("Convert() error = %v, want the provider failure", err)
	}
}

func TestResolver_Convert_InvalidPrice(t *testing.T) {
	p := &fakeProvider{name: "p1", fallback: "BUSD", spot: map[string]float64{"ETHEUR": 0}}
	r := NewResolver(p)

	_, err := r.Convert("ETH", "EUR")
	if !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("Convert() error = %v, want ErrInvalidPrice", err)
	}
}

func TestResolver_ConvertAt_Window(t *testing.T) {
	at := T("2021-03-14 09:26:00")
	p := &fakeProvider{name: "p1", fallback: "BUSD", hist: map[string]map[int64]float64{
		"ETHEUR": {at.Add(-30 * time.Second).Unix(): 1800},
	}}
	r := NewResolver(p)

	rate, err := r.ConvertAt("ETH", "EUR", at)
	if err != nil {
		t.Fatalf("ConvertAt() error = %v", err)
	}
	if rate != 1800 {
		t.Errorf("rate = %v, want 1800", rate)
	}
}

func TestResolver_ConvertAt_NoHistoricalData(t *testing.T) {
	at := T("2021-03-14 09:26:00")
	p := &fakeProvider{name: "p1", fallback: "BUSD", hist: map[string]map[int64]float64{
		// outside [at-60s, at)
		"ETHEUR": {at.Add(-2 * time.Minute).Unix(): 1800},
	}}
	r := NewResolver(p)

	_, err := r.ConvertAt("ETH", "EUR", at)
	if !errors.Is(err, ErrNoHistoricalData) {
		t.Fatalf("ConvertAt() error = %v, want ErrNoHistoricalData", err)
	}
}

func TestResolver_Convert_Memoized(t *testing.T) {
	p := &fakeProvider{name: "p1", fallback: "BUSD", spot: map[string]float64{"ETHEUR": 2000}}
	r := NewResolver(p)

	for i := 0; i < 5; i++ {
		if _, err := r.Convert("ETH", "EUR"); err != nil {
			t.Fatal(err)
		}
	}
	if p.fetches != 1 {
		t.Errorf("provider fetched %d times for the same rate, want 1", p.fetches)
	}

	// a different instant is a different key, so the provider is hit again
	r.ConvertAt("ETH", "EUR", T("2021-03-14 09:26:00"))
	if p.fetches != 2 {
		t.Errorf("provider fetched %d times, want 2 after a historical lookup", p.fetches)
	}
}
