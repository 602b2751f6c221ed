// Package gains computes realized and unrealized capital gains for a ledger of
// asset trades.
//
// Disposals are matched against prior acquisitions of the same asset in strict
// chronological order (first-in, first-out): every sell consumes the earliest
// eligible buy first. The result is a set of matched lots, each carrying its
// cost basis and proceeds in a base fiat currency and in any number of
// reference currencies, plus yearly and per-asset totals.
//
// The computation runs as a pipeline:
//   - Normalize: validates and types the raw trade table into a [Ledger].
//   - Match: pairs [Event] sells with [Event] buys into [MatchedLot] records,
//     leaving unconsumed buys as residual holdings.
//   - Valuer: converts lots into reference currencies using historical rates,
//     and values holdings at current prices.
//   - RealizedTotals / HoldingTotals: groups lots into [Totals] tables.
//
// [Compute] runs the whole pipeline and returns a [Report].
package gains
