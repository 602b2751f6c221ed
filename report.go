package gains

import (
	"context"
	"fmt"
)

// Report holds every table of a gains computation.
type Report struct {
	Input      *Table
	Ledger     *Ledger
	Currencies []string // reporting currencies, base first
	Match      *MatchResult

	Realized          *Totals
	RealizedPerUnit   *Totals
	Unrealized        *Totals
	UnrealizedPerUnit *Totals

	// Warnings lists the holdings that could not be valued at current prices.
	Warnings []Warning
}

// Base returns the base currency of the report.
func (r *Report) Base() string { return r.Ledger.Base }

// Compute runs the whole pipeline on a raw trade table.
//
// Without a historical pricer the report is in the base currency only.
// Without a current pricer holdings are reported at cost, with no current
// value.
func Compute(ctx context.Context, t *Table, cfg Config, historical HistoricalPricer, current CurrentPricer) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if historical == nil {
		cfg.References = nil
	}

	ledger, err := Normalize(t, cfg)
	if err != nil {
		return nil, err
	}

	match, err := Match(ledger.BuyEvents(), ledger.SellEvents(), ledger.Base, cfg)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Input:      t,
		Ledger:     ledger,
		Currencies: cfg.Currencies(ledger.Base),
		Match:      match,
	}
	valuer := NewValuer(ledger.Base, cfg, historical, current)
	if err := valuer.Convert(ctx, match.Lots); err != nil {
		return nil, err
	}
	if err := valuer.Convert(ctx, match.Holdings); err != nil {
		return nil, err
	}

	r.Realized = RealizedTotals(match.Lots, r.Currencies)
	r.RealizedPerUnit = r.Realized.PerUnit()

	r.Unrealized = HoldingTotals(match.Holdings, r.Currencies)
	if current != nil {
		r.Warnings = valuer.ValueHoldings(ctx, r.Unrealized)
	}
	r.Unrealized.WithTotal()
	r.UnrealizedPerUnit = r.Unrealized.PerUnit()
	return r, nil
}
