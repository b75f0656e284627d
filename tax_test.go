package cryptotax

import "testing"

func TestLedger_TaxableProfit_YearAndHoldingFilter(t *testing.T) {
	ledger := NewLedger("ETH")
	ledger.Append(Buy,
		trade("2019-06-01 10:00:00", 1, 100), // held > 365 days when sold in 2021
		trade("2021-01-01 10:00:00", 1, 200),
		trade("2021-02-01 10:00:00", 1, 400),
		trade("2020-03-01 10:00:00", 1, 100), // sold within 2020
	)
	ledger.Append(Sell,
		trade("2020-06-01 10:00:00", 1, 150),
		trade("2021-03-01 10:00:00", 1, 250),
	)
	if err := ledger.Recompute(); err != nil {
		t.Fatal(err)
	}

	// FIFO: the 2020 sale consumes the 2019-06-01 lot, held 366 days
	// (leap year), long-term, excluded even from 2020. The 2021 sale
	// consumes the 2020-03-01 lot, held 365 days exactly: short-term,
	// profit 250-100=150.
	got := ledger.TaxableProfit(2021)
	if !got.Equal(EUR(150)) {
		t.Errorf("TaxableProfit(2021) = %s, want 150", got)
	}
	if got := ledger.TaxableProfit(2020); !got.IsZero() {
		t.Errorf("TaxableProfit(2020) = %s, want 0 (long-term disposal)", got)
	}
}

func TestLedger_TaxableProfit_LossesReduce(t *testing.T) {
	ledger := NewLedger("ETH")
	ledger.Append(Buy,
		trade("2021-01-01 10:00:00", 1, 100),
		trade("2021-01-02 10:00:00", 1, 100),
	)
	ledger.Append(Sell,
		trade("2021-02-01 10:00:00", 1, 180), // +80
		trade("2021-03-01 10:00:00", 1, 70),  // -30
	)
	if err := ledger.Recompute(); err != nil {
		t.Fatal(err)
	}
	if got := ledger.TaxableProfit(2021); !got.Equal(EUR(50)) {
		t.Errorf("TaxableProfit(2021) = %s, want 50", got)
	}
}

func TestLedger_TaxFreeAmount_PartialAllocation(t *testing.T) {
	now := T("2021-06-01 10:00:00")
	ledger := NewLedger("ETH")
	// one open lot: amount 5, unit cost 10, potential profit 50 at price 20
	ledger.Append(Buy, trade("2021-01-01 10:00:00", 5, 50))
	if err := ledger.Recompute(); err != nil {
		t.Fatal(err)
	}

	opt := ledger.TaxFreeAmount(EUR(590), EUR(600), EUR(20), now)

	// still_allowed = 10, fraction = 10 / (20 - 10) = 1 unit
	if !opt.StillTaxFree.Equal(Q(1)) {
		t.Errorf("StillTaxFree = %s, want 1", opt.StillTaxFree)
	}
	if !opt.NewProfit.Equal(EUR(10)) {
		t.Errorf("NewProfit = %s, want 10 (capped at still_allowed)", opt.NewProfit)
	}
	if !opt.Proceeds.Equal(EUR(20)) {
		t.Errorf("Proceeds = %s, want 20", opt.Proceeds)
	}
}

func TestLedger_TaxFreeAmount_LongTermExempt(t *testing.T) {
	now := T("2021-06-01 10:00:00")
	ledger := NewLedger("ETH")
	ledger.Append(Buy,
		trade("2019-01-01 10:00:00", 4, 40),  // long-term, exempt whatever the price
		trade("2021-05-01 10:00:00", 2, 100), // short-term
	)
	if err := ledger.Recompute(); err != nil {
		t.Fatal(err)
	}

	opt := ledger.TaxFreeAmount(EUR(0), EUR(600), EUR(1000), now)

	if !opt.GenerallyTaxFree.Equal(Q(4)) {
		t.Errorf("GenerallyTaxFree = %s, want 4", opt.GenerallyTaxFree)
	}
	// the long-term lot contributes no profit to the allowance walk: the
	// short-term lot's potential (2*1000-100=1900) overflows alone
	if opt.StillTaxFree.GreaterThan(Q(2)) {
		t.Errorf("StillTaxFree = %s includes the exempt lot", opt.StillTaxFree)
	}
	if !opt.NewProfit.Equal(EUR(600)) {
		t.Errorf("NewProfit = %s, want the full 600 allowance", opt.NewProfit)
	}
}

// Only a contiguous FIFO prefix of the open lots is granted: once a lot
// reaches the allowance the walk stops, even if a later lot would fit.
func TestLedger_TaxFreeAmount_PrefixOnly(t *testing.T) {
	now := T("2021-06-01 10:00:00")
	ledger := NewLedger("ETH")
	ledger.Append(Buy,
		trade("2021-01-01 10:00:00", 1, 10),  // potential 90 at price 100
		trade("2021-02-01 10:00:00", 10, 10), // potential 990: overflows
		trade("2021-03-01 10:00:00", 1, 200), // would fit (loss), must not be evaluated
	)
	if err := ledger.Recompute(); err != nil {
		t.Fatal(err)
	}

	opt := ledger.TaxFreeAmount(EUR(0), EUR(600), EUR(100), now)

	// lot 1 whole (1 unit, profit 90); lot 2 partially:
	// still_allowed = 510, fraction = 510 / (100 - 1) of a unit
	want := Q(1).Add(EUR(510).DivPrice(EUR(99)))
	if !opt.StillTaxFree.Equal(want) {
		t.Errorf("StillTaxFree = %s, want %s", opt.StillTaxFree, want)
	}
	if !opt.NewProfit.Equal(EUR(600)) {
		t.Errorf("NewProfit = %s, want 600", opt.NewProfit)
	}
}

func TestLedger_TaxFreeAmount_ExhaustedBudget(t *testing.T) {
	now := T("2021-06-01 10:00:00")
	ledger := NewLedger("ETH")
	ledger.Append(Buy, trade("2021-01-01 10:00:00", 5, 50))
	if err := ledger.Recompute(); err != nil {
		t.Fatal(err)
	}

	opt := ledger.TaxFreeAmount(EUR(600), EUR(600), EUR(20), now)
	if !opt.StillTaxFree.IsZero() {
		t.Errorf("StillTaxFree = %s, want 0 when the allowance is spent", opt.StillTaxFree)
	}
	if !opt.NewProfit.IsZero() {
		t.Errorf("NewProfit = %s, want 0", opt.NewProfit)
	}
}
