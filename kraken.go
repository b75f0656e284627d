package cryptotax

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// krakenBaseURL can be overridden in tests.
var krakenBaseURL = "https://api.kraken.com"

// Kraken resolves prices from the Kraken public API. Pairs are named by
// the exchange's altnames, which keep a few legacy asset codes (XBT for
// BTC, XDG for DOGE); USD is the designated fallback currency.
type Kraken struct {
	client  *http.Client
	symbols map[string]bool
}

// krakenAsset maps a common asset code to Kraken's legacy code.
func krakenAsset(asset string) string {
	switch asset = strings.ToUpper(asset); asset {
	case "BTC":
		return "XBT"
	case "DOGE":
		return "XDG"
	default:
		return asset
	}
}

// NewKraken creates the provider and fetches the exchange's pair
// listing through the daily disk cache.
func NewKraken() (*Kraken, error) {
	addr := krakenBaseURL + "/0/public/AssetPairs"

	var content struct {
		Error  []string `json:"error"`
		Result map[string]struct {
			Altname string `json:"altname"`
		} `json:"result"`
	}
	if err := jwget(daily(), addr, &content); err != nil {
		return nil, fmt.Errorf("cannot list kraken pairs: %w", err)
	}
	if len(content.Error) > 0 {
		return nil, fmt.Errorf("cannot list kraken pairs: %s", strings.Join(content.Error, "; "))
	}

	symbols := make(map[string]bool, len(content.Result))
	for _, pair := range content.Result {
		symbols[pair.Altname] = true
	}
	return &Kraken{client: new(http.Client), symbols: symbols}, nil
}

// NewKrakenWithSymbols creates the provider with a pinned pair listing,
// for offline runs and tests.
func NewKrakenWithSymbols(symbols ...string) *Kraken {
	k := &Kraken{client: new(http.Client), symbols: make(map[string]bool, len(symbols))}
	for _, s := range symbols {
		k.symbols[s] = true
	}
	return k
}

func (k *Kraken) Name() string { return "kraken" }

func (k *Kraken) Symbol(base, quote string) string {
	return krakenAsset(base) + krakenAsset(quote)
}

func (k *Kraken) Has(symbol string) bool { return k.symbols[symbol] }

func (k *Kraken) Fallback() string { return "USD" }

// Spot returns the last traded price of the pair.
func (k *Kraken) Spot(symbol string) (float64, error) {
	addr := krakenBaseURL + "/0/public/Ticker?pair=" + symbol

	// The result is keyed by kraken's internal pair name, not the
	// requested one, so the key is wildcarded away.
	var jobj any
	if err := jwget(k.client, addr, &jobj); err != nil {
		return 0, fmt.Errorf("cannot get kraken ticker for %q: %w", symbol, err)
	}
	if err := krakenError(jobj); err != nil {
		return 0, fmt.Errorf("cannot get kraken ticker for %q: %w", symbol, err)
	}

	jval, err := jsonpath.Get("$.result.*.c[0]", jobj)
	if err != nil {
		return 0, fmt.Errorf("cannot parse kraken ticker for %q: %w", symbol, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	last, ok := jval.(string)
	if !ok {
		return 0, fmt.Errorf("cannot parse kraken ticker for %q: last price is %v, not a string", symbol, jval)
	}
	price, err := strconv.ParseFloat(last, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse kraken price %q for %q: %w", last, symbol, err)
	}
	return price, nil
}

// Historical returns the open price of the earliest 1-minute OHLC tick
// in [from, to).
func (k *Kraken) Historical(symbol string, from, to time.Time) (float64, error) {
	addr := fmt.Sprintf("%s/0/public/OHLC?pair=%s&interval=1&since=%d", krakenBaseURL, symbol, from.Unix()-1)

	var content struct {
		Error  []string       `json:"error"`
		Result map[string]any `json:"result"`
	}
	if err := jwget(k.client, addr, &content); err != nil {
		return 0, fmt.Errorf("cannot get kraken ohlc for %q: %w", symbol, err)
	}
	if len(content.Error) > 0 {
		return 0, fmt.Errorf("cannot get kraken ohlc for %q: %s", symbol, strings.Join(content.Error, "; "))
	}

	// The result holds the tick rows under the pair name and a "last"
	// cursor beside them.
	for key, val := range content.Result {
		if key == "last" {
			continue
		}
		rows, ok := val.([]any)
		if !ok {
			continue
		}
		for _, row := range rows {
			tick, ok := row.([]any)
			if !ok || len(tick) < 2 {
				continue
			}
			ts, ok := tick[0].(float64)
			if !ok {
				continue
			}
			at := time.Unix(int64(ts), 0).UTC()
			if at.Before(from) || !at.Before(to) {
				continue
			}
			open, ok := tick[1].(string)
			if !ok {
				return 0, fmt.Errorf("cannot parse kraken tick for %q: open is %v, not a string", symbol, tick[1])
			}
			price, err := strconv.ParseFloat(open, 64)
			if err != nil {
				return 0, fmt.Errorf("cannot parse kraken open price %q for %q: %w", open, symbol, err)
			}
			return price, nil
		}
	}
	return 0, fmt.Errorf("kraken has no sample for %s in [%s, %s): %w",
		symbol, from.Format(TimeFormat), to.Format(TimeFormat), ErrNoHistoricalData)
}

// krakenError extracts the API error list present in every kraken payload.
func krakenError(jobj any) error {
	jval, err := jsonpath.Get("$.error", jobj)
	if err != nil {
		return nil
	}
	jlist, ok := jval.([]any)
	if !ok || len(jlist) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(jlist))
	for _, m := range jlist {
		msgs = append(msgs, fmt.Sprint(m))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
