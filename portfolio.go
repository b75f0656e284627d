package cryptotax

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Portfolio combines the per-asset ledgers with the shared price
// resolver and the account-wide tax-free allowance.
//
// A failing asset halts only its own computation: its error is recorded
// and every other asset remains independently valid and reportable.
type Portfolio struct {
	currency  string
	allowance Money
	resolver  *Resolver

	assets  []string
	ledgers map[string]*Ledger
	errs    map[string]error
}

// NewPortfolio creates a portfolio tracking the given assets in the
// given reporting currency.
func NewPortfolio(currency string, allowance float64, resolver *Resolver, assets ...string) *Portfolio {
	p := &Portfolio{
		currency:  currency,
		allowance: M(allowance, currency),
		resolver:  resolver,
		assets:    assets,
		ledgers:   make(map[string]*Ledger, len(assets)),
		errs:      make(map[string]error),
	}
	for _, asset := range assets {
		p.ledgers[asset] = NewLedger(asset)
	}
	return p
}

// Assets returns the tracked asset symbols in configuration order.
func (p *Portfolio) Assets() []string { return p.assets }

// Currency returns the reporting currency.
func (p *Portfolio) Currency() string { return p.currency }

// Allowance returns the annual account-wide tax-free allowance.
func (p *Portfolio) Allowance() Money { return p.allowance }

// Ledger returns the ledger of an asset, or nil if the asset is not tracked.
func (p *Portfolio) Ledger(asset string) *Ledger { return p.ledgers[asset] }

// Err returns the error that halted an asset's computation, if any.
func (p *Portfolio) Err(asset string) error { return p.errs[asset] }

// fail records an asset's computation failure.
func (p *Portfolio) fail(asset string, err error) { p.errs[asset] = err }

// valid reports whether the asset's derived state is trustworthy.
func (p *Portfolio) valid(asset string) bool { return p.errs[asset] == nil }

// ImportDir imports every export file of a directory into every ledger.
// Each file is read once; its records are distributed to all assets.
func (p *Portfolio) ImportDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot read exports directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		log.Printf("importing %s", path)
		src, err := OpenExport(path)
		if err != nil {
			return err
		}
		records, err := src.Records()
		if err != nil {
			return err
		}
		for _, asset := range p.assets {
			if !p.valid(asset) {
				continue
			}
			if err := p.ledgers[asset].ImportRecords(records, p.resolver, p.currency); err != nil {
				p.fail(asset, err)
			}
		}
	}
	return nil
}

// Recompute rebuilds the derived state of every asset from its full
// trade history. Per-asset failures are recorded, not propagated.
func (p *Portfolio) Recompute() {
	for _, asset := range p.assets {
		if !p.valid(asset) {
			continue
		}
		if err := p.ledgers[asset].Recompute(); err != nil {
			p.fail(asset, err)
		}
	}
}

// CurrentPrice returns the current unit price of an asset in the
// reporting currency.
func (p *Portfolio) CurrentPrice(asset string) (Money, error) {
	rate, err := p.resolver.Convert(asset, p.currency)
	if err != nil {
		return Money{}, err
	}
	return M(rate, p.currency), nil
}

// TotalTaxableProfit sums the taxable profit of the year across all
// valid assets. It seeds the allowance allocation: the allowance is a
// single account-wide budget, so the combined realized profit must be
// known before any per-asset tax-free amount is computed.
func (p *Portfolio) TotalTaxableProfit(year int) Money {
	profit := M(0, p.currency)
	for _, asset := range p.assets {
		if !p.valid(asset) {
			continue
		}
		profit = profit.Add(p.ledgers[asset].TaxableProfit(year))
	}
	return profit
}

// SellOptions reports, per asset, how much can still be sold tax free
// this year. The running budget starts at the combined realized taxable
// profit and grows with the unrealized profit already granted to earlier
// assets, so the shared allowance is never allocated twice.
func (p *Portfolio) SellOptions(year int, now time.Time) []SellOption {
	budget := p.TotalTaxableProfit(year)

	options := make([]SellOption, 0, len(p.assets))
	for _, asset := range p.assets {
		if !p.valid(asset) {
			continue
		}
		price, err := p.CurrentPrice(asset)
		if err != nil {
			p.fail(asset, err)
			continue
		}
		opt := p.ledgers[asset].TaxFreeAmount(budget, p.allowance, price, now)
		budget = budget.Add(opt.NewProfit)
		options = append(options, opt)
	}
	return options
}
