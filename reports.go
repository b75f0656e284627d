package cryptotax

// AssetReport is the reportable state of one asset after recomputation.
// A non-nil Err means the asset's computation halted; its other fields
// are then zero and must not be trusted.
type AssetReport struct {
	Asset string

	Buys  []TradeRecord
	Sells []TradeRecord

	Open   []Lot
	Closed []ClosedPosition

	ActiveAmount    Quantity
	CurrentValue    Money
	PotentialProfit Money
	TaxableProfit   Money

	Err error
}

// PortfolioReport combines the per-asset reports with the
// portfolio-wide totals and composition.
type PortfolioReport struct {
	Year     int
	Currency string

	Assets []AssetReport

	TotalValue           Money
	TotalPotentialProfit Money
	TotalTaxableProfit   Money

	// Composition maps each asset to its fractional share of the total
	// value.
	Composition map[string]Percent
}

// Report values every asset at the current rate and assembles the
// portfolio report for a tax year. A failed price lookup halts only the
// asset it belongs to.
func (p *Portfolio) Report(year int) *PortfolioReport {
	report := &PortfolioReport{
		Year:        year,
		Currency:    p.currency,
		Composition: make(map[string]Percent),
	}

	for _, asset := range p.assets {
		ledger := p.ledgers[asset]

		if !p.valid(asset) {
			report.Assets = append(report.Assets, AssetReport{Asset: asset, Err: p.Err(asset)})
			continue
		}
		price, err := p.CurrentPrice(asset)
		if err != nil {
			p.fail(asset, err)
			report.Assets = append(report.Assets, AssetReport{Asset: asset, Err: err})
			continue
		}

		ar := AssetReport{
			Asset:           asset,
			Buys:            ledger.Buys(),
			Sells:           ledger.Sells(),
			Open:            ledger.OpenPositions(),
			Closed:          ledger.ClosedPositions(),
			ActiveAmount:    ledger.ActiveAmount(),
			CurrentValue:    ledger.CurrentValue(price),
			PotentialProfit: ledger.PotentialProfit(price),
			TaxableProfit:   ledger.TaxableProfit(year),
		}
		report.Assets = append(report.Assets, ar)

		report.TotalValue = report.TotalValue.Add(ar.CurrentValue)
		report.TotalPotentialProfit = report.TotalPotentialProfit.Add(ar.PotentialProfit)
		report.TotalTaxableProfit = report.TotalTaxableProfit.Add(ar.TaxableProfit)
	}

	for _, ar := range report.Assets {
		if ar.Err != nil || report.TotalValue.IsZero() {
			continue
		}
		share := ar.CurrentValue.AsFloat() / report.TotalValue.AsFloat()
		report.Composition[ar.Asset] = Percent(100 * share)
	}
	return report
}
