package cryptotax

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// this file contains the import boundary: exchange export files are
// turned into normalized records, and normalized records are appended to
// a ledger's trade history.

// Record is one normalized trade at the import boundary. The value is
// still expressed in the pair's counter currency; conversion into the
// reporting currency happens on append.
type Record struct {
	Time   string // naive timestamp, exchange format
	Pair   string // cleaned pair, e.g. "ETHEUR"
	Side   Side
	Amount float64 // asset amount
	Value  float64 // counter amount in the pair's counter currency
}

// RecordSource yields the normalized records of one exchange export.
// Each export dialect (column names, merged rows, pair spellings) is one
// implementation.
type RecordSource interface {
	Records() ([]Record, error)
}

// OpenExport returns the record source for an export file, selected by
// extension.
func OpenExport(path string) (RecordSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return &csvExport{path: path}, nil
	default:
		return nil, fmt.Errorf("file format of %s not supported for import: %w", path, ErrUnsupportedFormat)
	}
}

// Column synonyms across the known exchange export dialects (Binance
// trade and convert exports, Kraken trade exports). Order matters: the
// first synonym present in the header wins.
var (
	dateSynonyms   = []string{"Pair", "Date(UTC)", "time"}
	pairSynonyms   = []string{"Pair", "Price", "pair"}
	sideSynonyms   = []string{"Type", "type"}
	amountSynonyms = []string{"Filled", "Final Amount", "vol"}
	valueSynonyms  = []string{"Total", "Amount", "cost"}
)

// csvExport reads a CSV exchange export with header-synonym discovery.
type csvExport struct {
	path string
}

func (s *csvExport) Records() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("cannot open export %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read export %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	dateCol, ok := findColumn(header, dateSynonyms)
	if !ok {
		return nil, fmt.Errorf("cannot find a date column in %s (want one of %v)", s.path, dateSynonyms)
	}
	pairCol, ok := findColumn(header, pairSynonyms)
	if !ok {
		return nil, fmt.Errorf("cannot find a pair column in %s (want one of %v)", s.path, pairSynonyms)
	}
	amountCol, ok := findColumn(header, amountSynonyms)
	if !ok {
		return nil, fmt.Errorf("cannot find an amount column in %s (want one of %v)", s.path, amountSynonyms)
	}
	valueCol, ok := findColumn(header, valueSynonyms)
	if !ok {
		return nil, fmt.Errorf("cannot find a total column in %s (want one of %v)", s.path, valueSynonyms)
	}
	sideCol, hasSide := findColumn(header, sideSynonyms)

	// Binance convert exports stack three rows per trade and keep the
	// timestamp in the pair column two rows below the pair cell.
	dateOffset := 0
	if dateCol == pairCol {
		dateOffset = 2
	}

	var records []Record
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if pairCol >= len(row) {
			continue
		}
		pair := cleanPair(row[pairCol])
		if pair == "" {
			continue
		}
		// ragged rows (convert exports stack short timestamp rows) are
		// not trades
		if amountCol >= len(row) || valueCol >= len(row) || (hasSide && sideCol >= len(row)) {
			continue
		}

		if i+dateOffset >= len(rows) || dateCol >= len(rows[i+dateOffset]) {
			continue
		}
		// strip fractional seconds
		timestamp, _, _ := strings.Cut(strings.TrimSpace(rows[i+dateOffset][dateCol]), ".")

		amount, err := leadingFloat(row[amountCol])
		if err != nil {
			return nil, fmt.Errorf("row %d of %s: %w", i+1, s.path, err)
		}
		value, err := leadingFloat(row[valueCol])
		if err != nil {
			return nil, fmt.Errorf("row %d of %s: %w", i+1, s.path, err)
		}

		// an export with no order type column only holds buys
		side := Buy
		if hasSide {
			side, err = ParseSide(row[sideCol])
			if err != nil {
				return nil, fmt.Errorf("row %d of %s: %w", i+1, s.path, err)
			}
		}

		records = append(records, Record{
			Time:   timestamp,
			Pair:   pair,
			Side:   side,
			Amount: amount,
			Value:  value,
		})
	}
	return records, nil
}

// findColumn returns the index of the first synonym present in the header.
func findColumn(header []string, synonyms []string) (int, bool) {
	for _, name := range synonyms {
		for i, col := range header {
			if strings.TrimSpace(col) == name {
				return i, true
			}
		}
	}
	return 0, false
}

// cleanPair normalizes a pair cell: slashes removed, Kraken's legacy
// codes rewritten, and only the last space-separated token kept.
func cleanPair(s string) string {
	s = strings.ReplaceAll(s, "/", "")
	s = strings.ReplaceAll(s, "XETHZ", "ETH")
	s = strings.ReplaceAll(s, "XXBTZ", "BTC")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// leadingFloat parses the leading number of a cell like "0.5 ETH".
func leadingFloat(s string) (float64, error) {
	first, _, _ := strings.Cut(strings.TrimSpace(s), " ")
	v, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse number %q: %w", s, err)
	}
	return v, nil
}

// ImportRecords appends the records that involve the ledger's asset.
// The pair's counter currency is inferred by removing the asset from the
// pair; counter values not already in the reporting currency are
// converted at the trade's timestamp.
//
// Recompute must be run after importing before derived state is read.
func (l *Ledger) ImportRecords(records []Record, resolver *Resolver, currency string) error {
	for _, rec := range records {
		if !strings.Contains(rec.Pair, l.asset) {
			continue
		}
		counter := strings.Replace(rec.Pair, l.asset, "", 1)

		t, err := ParseTime(rec.Time)
		if err != nil {
			return fmt.Errorf("%s: %w", l.asset, err)
		}

		factor := 1.0
		if counter != currency {
			factor, err = resolver.ConvertAt(counter, currency, t)
			if err != nil {
				return fmt.Errorf("%s: converting %s total on %s: %w", l.asset, counter, rec.Time, err)
			}
		}

		trade := TradeRecord{Time: t, Amount: Q(rec.Amount), Value: M(rec.Value*factor, currency)}
		if err := l.Append(rec.Side, trade); err != nil {
			return err
		}
	}
	return nil
}

// ImportFile imports one export file into the ledger.
func (l *Ledger) ImportFile(path string, resolver *Resolver, currency string) error {
	src, err := OpenExport(path)
	if err != nil {
		return err
	}
	records, err := src.Records()
	if err != nil {
		return err
	}
	return l.ImportRecords(records, resolver, currency)
}
