package renderer

import (
	"strconv"

	"github.com/etnz/gains"
	"github.com/shopspring/decimal"
)

// Gains is the view of a gains report.
type Gains struct {
	Base       string
	Currencies []string // reporting currencies, base first
	Trades     int
	Lots       int
	Priced     bool // holdings are valued at current prices

	Realized   []TotalsRow
	Unrealized []TotalsRow
	Warnings   []string
}

// TotalsRow is one aggregate row, amounts formatted. Cost and Value are in
// the base currency, Gains has one entry per reporting currency.
type TotalsRow struct {
	Year     string
	Asset    string
	Quantity string
	Cost     string
	Value    string
	Gains    []string
	Total    bool
}

// NewGains returns the view of report r.
func NewGains(r *gains.Report) *Gains {
	g := &Gains{
		Base:       r.Base(),
		Currencies: r.Currencies,
		Trades:     len(r.Ledger.Trades),
		Lots:       len(r.Match.Lots),
		Priced:     len(r.Warnings) > 0 || hasValue(r.Unrealized, r.Base()),
	}
	g.Realized = g.rows(r.Realized)
	g.Unrealized = g.rows(r.Unrealized)
	for _, w := range r.Warnings {
		g.Warnings = append(g.Warnings, w.String())
	}
	return g
}

// hasValue tells if any holding has a current value in cur.
func hasValue(t *gains.Totals, cur string) bool {
	if t == nil {
		return false
	}
	for _, row := range t.Rows {
		if _, ok := row.Sell[cur]; ok && !row.Total {
			return true
		}
	}
	return false
}

func (g *Gains) rows(t *gains.Totals) []TotalsRow {
	if t == nil {
		return nil
	}
	var rows []TotalsRow
	for _, r := range t.Rows {
		if r.Total && len(t.Rows) == 1 {
			continue // nothing to total
		}
		row := TotalsRow{
			Asset: r.Currency,
			Cost:  amount(r.Buy, g.Base, (gains.Money).String),
			Value: amount(r.Sell, g.Base, (gains.Money).String),
			Total: r.Total,
		}
		if r.Year != nil {
			row.Year = strconv.Itoa(*r.Year)
		}
		if r.Quantity != nil {
			row.Quantity = r.Quantity.String()
		}
		for _, cur := range g.Currencies {
			row.Gains = append(row.Gains, amount(r.Gain, cur, (gains.Money).SignedString))
		}
		rows = append(rows, row)
	}
	return rows
}

// amount formats the amount of cur in v, "n/a" if there is none.
func amount(v map[string]decimal.Decimal, cur string, format func(gains.Money) string) string {
	d, ok := v[cur]
	if !ok {
		return "n/a"
	}
	return format(gains.M(d, cur))
}
