package cryptotax

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeExport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenExport_UnsupportedFormat(t *testing.T) {
	_, err := OpenExport("trades.xlsx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("OpenExport(.xlsx) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestCSVExport_KrakenDialect(t *testing.T) {
	path := writeExport(t, "trades.csv", ""+
		"txid,pair,time,type,price,cost,fee,vol\n"+
		"X1,XETHZEUR,2021-03-14 09:26:00.1234,buy,1800,900.0,1.5,0.5\n"+
		"X2,XXBTZEUR,2021-06-01 12:00:00.0000,sell,40000,20000,10,0.5\n")

	src, err := OpenExport(path)
	if err != nil {
		t.Fatal(err)
	}
	records, err := src.Records()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	want := Record{Time: "2021-03-14 09:26:00", Pair: "ETHEUR", Side: Buy, Amount: 0.5, Value: 900}
	if records[0] != want {
		t.Errorf("records[0] = %+v, want %+v", records[0], want)
	}
	want = Record{Time: "2021-06-01 12:00:00", Pair: "BTCEUR", Side: Sell, Amount: 0.5, Value: 20000}
	if records[1] != want {
		t.Errorf("records[1] = %+v, want %+v", records[1], want)
	}
}

// Convert exports stack three rows per trade: the trade row, a blank row,
// and a short row carrying the timestamp in the pair column.
func TestCSVExport_BinanceConvert(t *testing.T) {
	path := writeExport(t, "convert.csv", ""+
		"Pair,Type,Final Amount,Amount\n"+
		"ETH/EUR,BUY,0.5 ETH,900 EUR\n"+
		",,,\n"+
		"2021-03-14 09:26:00\n")

	src, err := OpenExport(path)
	if err != nil {
		t.Fatal(err)
	}
	records, err := src.Records()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}

	want := Record{Time: "2021-03-14 09:26:00", Pair: "ETHEUR", Side: Buy, Amount: 0.5, Value: 900}
	if records[0] != want {
		t.Errorf("records[0] = %+v, want %+v", records[0], want)
	}
}

func TestCSVExport_UnknownOrderSide(t *testing.T) {
	path := writeExport(t, "trades.csv", ""+
		"txid,pair,time,type,cost,vol\n"+
		"X1,ETHEUR,2021-03-14 09:26:00,staking,900,0.5\n")

	src, err := OpenExport(path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = src.Records()
	if !errors.Is(err, ErrUnknownOrderSide) {
		t.Fatalf("Records() error = %v, want ErrUnknownOrderSide", err)
	}
}

func TestLedger_ImportRecords(t *testing.T) {
	at := T("2021-03-14 09:26:00")
	r := NewResolver(&fakeProvider{name: "test", fallback: "BUSD", hist: map[string]map[int64]float64{
		"USDEUR": {at.Add(-10 * time.Second).Unix(): 0.9},
	}})

	records := []Record{
		{Time: "2021-03-14 09:26:00", Pair: "ETHUSD", Side: Buy, Amount: 2, Value: 1000},
		{Time: "2021-03-14 09:26:00", Pair: "BTCEUR", Side: Buy, Amount: 1, Value: 40000},
	}

	l := NewLedger("ETH")
	if err := l.ImportRecords(records, r, "EUR"); err != nil {
		t.Fatal(err)
	}

	buys := l.Buys()
	if len(buys) != 1 {
		t.Fatalf("len(buys) = %d, want 1 (foreign pairs skipped)", len(buys))
	}
	// 1000 USD at 0.9 USDEUR
	if !buys[0].Value.Equal(EUR(900)) {
		t.Errorf("imported value = %s, want 900 EUR", buys[0].Value)
	}
	if !buys[0].Amount.Equal(Q(2)) {
		t.Errorf("imported amount = %s, want 2", buys[0].Amount)
	}
}

func TestLedger_ImportFile(t *testing.T) {
	path := writeExport(t, "trades.csv", ""+
		"txid,pair,time,type,price,cost,fee,vol\n"+
		"X1,ETHEUR,2021-03-14 09:26:00.1234,buy,1800,900.0,1.5,0.5\n")

	l := NewLedger("ETH")
	if err := l.ImportFile(path, NewResolver(), "EUR"); err != nil {
		t.Fatal(err)
	}
	if err := l.Recompute(); err != nil {
		t.Fatal(err)
	}
	open := l.OpenPositions()
	if len(open) != 1 || !open[0].Amount.Equal(Q(0.5)) {
		t.Fatalf("open = %+v, want one lot of 0.5", open)
	}
}
