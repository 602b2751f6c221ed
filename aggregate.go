package gains

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// AggregateRow sums the lots of one group.
type AggregateRow struct {
	Year     *int             // sell year, nil for holdings and for the total row
	Currency string           // asset, "" for the total row
	Quantity *decimal.Decimal // nil for the total row: quantities of distinct assets do not add up

	// Buy, Sell and Gain hold the summed values per reporting currency.
	Buy  map[string]decimal.Decimal
	Sell map[string]decimal.Decimal
	Gain map[string]decimal.Decimal

	Total bool
}

func (r AggregateRow) quantity() decimal.Decimal {
	if r.Quantity == nil {
		return decimal.Zero
	}
	return *r.Quantity
}

// computeGains sets Gain to Sell - Buy for every currency valued on both
// sides.
func (r *AggregateRow) computeGains(currencies []string) {
	for _, cur := range currencies {
		buy, ok := r.Buy[cur]
		if !ok {
			continue
		}
		sell, ok := r.Sell[cur]
		if !ok {
			continue
		}
		r.Gain[cur] = sell.Sub(buy)
	}
}

// Totals is a table of aggregated lots.
type Totals struct {
	Currencies []string // reporting currencies, column order
	Rows       []AggregateRow
}

// RealizedTotals groups realized lots by sell year and currency, ordered by
// year then currency, and appends the total row.
func RealizedTotals(lots []MatchedLot, currencies []string) *Totals {
	type key struct {
		year int
		cur  string
	}
	t := &Totals{Currencies: currencies}
	index := make(map[key]int)
	for _, lot := range lots {
		if !lot.Realized() {
			continue
		}
		k := key{lot.SellYear(), lot.Currency}
		i, exists := index[k]
		if !exists {
			year := k.year
			i = len(t.Rows)
			index[k] = i
			t.Rows = append(t.Rows, newRow(&year, k.cur))
		}
		t.Rows[i].addLot(lot)
	}
	slices.SortFunc(t.Rows, func(a, b AggregateRow) int {
		return cmp.Or(cmp.Compare(*a.Year, *b.Year), cmp.Compare(a.Currency, b.Currency))
	})
	for i := range t.Rows {
		t.Rows[i].computeGains(currencies)
	}
	return t.WithTotal()
}

// HoldingTotals groups residual holdings by currency, ordered by currency.
// Only the buy side is set: current values come from
// [Valuer.ValueHoldings]. The total row is not appended, see
// [Totals.WithTotal].
func HoldingTotals(holdings []MatchedLot, currencies []string) *Totals {
	t := &Totals{Currencies: currencies}
	index := make(map[string]int)
	for _, lot := range holdings {
		if lot.Realized() {
			continue
		}
		i, exists := index[lot.Currency]
		if !exists {
			i = len(t.Rows)
			index[lot.Currency] = i
			t.Rows = append(t.Rows, newRow(nil, lot.Currency))
		}
		t.Rows[i].addLot(lot)
	}
	slices.SortFunc(t.Rows, func(a, b AggregateRow) int { return cmp.Compare(a.Currency, b.Currency) })
	return t
}

// WithTotal appends the total row, summing every value column, unless t
// already has one.
func (t *Totals) WithTotal() *Totals {
	if _, ok := t.Total(); ok {
		return t
	}
	total := newRow(nil, "")
	total.Total = true
	for _, row := range t.Rows {
		values(total.Buy).add(row.Buy)
		values(total.Sell).add(row.Sell)
		values(total.Gain).add(row.Gain)
	}
	t.Rows = append(t.Rows, total)
	return t
}

// Total returns the total row, if any.
func (t *Totals) Total() (AggregateRow, bool) {
	for _, row := range t.Rows {
		if row.Total {
			return row, true
		}
	}
	return AggregateRow{}, false
}

// PerUnit returns a copy of t where every value is divided by the row
// quantity. The total row is left out.
func (t *Totals) PerUnit() *Totals {
	u := &Totals{Currencies: t.Currencies}
	for _, row := range t.Rows {
		if row.Total || row.Quantity == nil {
			continue
		}
		q := *row.Quantity
		u.Rows = append(u.Rows, AggregateRow{
			Year:     row.Year,
			Currency: row.Currency,
			Quantity: row.Quantity,
			Buy:      perUnit(row.Buy, q),
			Sell:     perUnit(row.Sell, q),
			Gain:     perUnit(row.Gain, q),
		})
	}
	return u
}

func perUnit(v map[string]decimal.Decimal, quantity decimal.Decimal) map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal, len(v))
	if quantity.IsZero() {
		return result
	}
	for cur, amount := range v {
		result[cur] = amount.Div(quantity)
	}
	return result
}

func newRow(year *int, cur string) AggregateRow {
	return AggregateRow{
		Year:     year,
		Currency: cur,
		Buy:      make(map[string]decimal.Decimal),
		Sell:     make(map[string]decimal.Decimal),
		Gain:     make(map[string]decimal.Decimal),
	}
}

func (r *AggregateRow) addLot(lot MatchedLot) {
	q := r.quantity().Add(lot.Quantity)
	r.Quantity = &q
	values(r.Buy).add(lot.BuyValue)
	values(r.Sell).add(lot.SellValue)
}

// values holds one amount per currency code.
type values map[string]decimal.Decimal

// add accumulates every amount of v into m.
func (m values) add(v values) {
	for cur, amount := range v {
		m[cur] = m[cur].Add(amount)
	}
}
