package cryptotax

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// binanceBaseURL can be overridden in tests.
var binanceBaseURL = "https://api.binance.com"

// Binance resolves prices from the Binance public market-data API.
// Pairs are named by plain concatenation ("ETHEUR"); BUSD is the
// designated fallback currency for bridging.
type Binance struct {
	client  *http.Client
	symbols map[string]bool
}

// NewBinance creates the provider and fetches the exchange's symbol
// listing. The listing changes rarely and is fetched through the daily
// disk cache.
func NewBinance() (*Binance, error) {
	addr := binanceBaseURL + "/api/v3/exchangeInfo"

	// that's the part of the payload we care about
	var content struct {
		Symbols []struct {
			Symbol string `json:"symbol"`
		} `json:"symbols"`
	}
	if err := jwget(daily(), addr, &content); err != nil {
		return nil, fmt.Errorf("cannot list binance symbols: %w", err)
	}

	symbols := make(map[string]bool, len(content.Symbols))
	for _, s := range content.Symbols {
		symbols[s.Symbol] = true
	}
	return &Binance{client: new(http.Client), symbols: symbols}, nil
}

// NewBinanceWithSymbols creates the provider with a pinned symbol
// listing, for offline runs and tests.
func NewBinanceWithSymbols(symbols ...string) *Binance {
	b := &Binance{client: new(http.Client), symbols: make(map[string]bool, len(symbols))}
	for _, s := range symbols {
		b.symbols[s] = true
	}
	return b
}

func (b *Binance) Name() string { return "binance" }

func (b *Binance) Symbol(base, quote string) string {
	return strings.ToUpper(base) + strings.ToUpper(quote)
}

func (b *Binance) Has(symbol string) bool { return b.symbols[symbol] }

func (b *Binance) Fallback() string { return "BUSD" }

// Spot returns the last traded price of the symbol.
func (b *Binance) Spot(symbol string) (float64, error) {
	addr := binanceBaseURL + "/api/v3/ticker/price?symbol=" + symbol

	var content struct {
		Price string `json:"price"`
	}
	if err := jwget(b.client, addr, &content); err != nil {
		return 0, fmt.Errorf("cannot get binance ticker for %q: %w", symbol, err)
	}
	price, err := strconv.ParseFloat(content.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse binance price %q for %q: %w", content.Price, symbol, err)
	}
	return price, nil
}

// Historical returns the open price of the earliest 1-minute kline in
// [from, to).
func (b *Binance) Historical(symbol string, from, to time.Time) (float64, error) {
	addr := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=1m&startTime=%d&endTime=%d&limit=1",
		binanceBaseURL, symbol, from.UnixMilli(), to.UnixMilli()-1)

	// klines come as rows of mixed scalars: [openTime, "open", "high", ...]
	var jobj any
	if err := jwget(b.client, addr, &jobj); err != nil {
		return 0, fmt.Errorf("cannot get binance klines for %q: %w", symbol, err)
	}
	if rows, ok := jobj.([]any); !ok || len(rows) == 0 {
		return 0, fmt.Errorf("binance has no sample for %s in [%s, %s): %w",
			symbol, from.Format(TimeFormat), to.Format(TimeFormat), ErrNoHistoricalData)
	}

	jval, err := jsonpath.Get("$[0][1]", jobj)
	if err != nil {
		return 0, fmt.Errorf("cannot parse binance kline for %q: %w", symbol, err)
	}
	open, ok := jval.(string)
	if !ok {
		return 0, fmt.Errorf("cannot parse binance kline for %q: open is %v, not a string", symbol, jval)
	}
	price, err := strconv.ParseFloat(open, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse binance open price %q for %q: %w", open, symbol, err)
	}
	return price, nil
}
