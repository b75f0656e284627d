// Package cryptotax computes realized and unrealized capital gains for
// crypto asset holdings from exchange trade records, using strict
// first-in-first-out lot accounting, and derives the taxable profit under
// a holding-period exemption with a shared annual tax-free allowance.
//
// The core functionalities include:
//   - Position Engine: FIFO-matching a chronological sequence of buy and
//     sell records into the remaining open lots and a log of closed
//     (disposed) lots, per asset.
//   - Tax Calculation: filtering closed lots to the short-term disposals
//     of a tax year, and allocating the account-wide tax-free allowance
//     across the FIFO prefix of open lots.
//   - Price Resolution: converting between an asset and the reporting
//     currency (spot or historical) across multiple price providers, with
//     fallback-currency bridging when no direct pair exists.
//   - Portfolio Aggregation: combining per-asset results into total
//     value, composition and the shared realized profit that seeds the
//     allowance allocation.
//
// This package serves as the foundational logic for the `clt` command-line
// tool. All derived state is rebuilt in memory from the full trade history
// on every run; nothing is persisted between runs.
package cryptotax
