package gains

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
)

// Trade is one typed row of the trade list.
type Trade struct {
	Row  int    // 1-based data row in the input, the header excluded
	Kind string // free-form label, "Trade", "Income", "Gift/Tip" ...

	BuyQuantity  decimal.Decimal
	BuyCurrency  string
	BuyValue     decimal.Decimal // value of the buy side in the base currency
	SellQuantity decimal.Decimal
	SellCurrency string
	SellValue    decimal.Decimal // value of the sell side in the base currency

	Exchange string
	Comment  string
	Date     time.Time

	// BuyTradeValue and SellTradeValue are the primary trade values of each
	// side in the base currency, see [Trade.derive].
	BuyTradeValue  decimal.Decimal
	SellTradeValue decimal.Decimal

	BuyIsFiat  bool
	SellIsFiat bool
}

// Ledger is the normalized trade list.
type Ledger struct {
	Base   string // base currency, upper-case
	Trades []Trade

	precision int32
}

// Normalize validates and types a raw trade table.
//
// It fails with a *ConfigurationError if no base currency can be found, with
// a *SchemaError if required columns are missing, and with every *FormatError
// found in the table (aggregated) if fields cannot be parsed.
func Normalize(t *Table, cfg Config) (*Ledger, error) {
	columns := NormalizeColumns(t.Header)
	base, err := BaseCurrency(columns, cfg)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(columns, base); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	buyValueColumn := colBuyValue + strings.ToLower(base)
	sellValueColumn := colSellValue + strings.ToLower(base)

	ledger := &Ledger{Base: base, precision: cfg.Precision}
	var errs *multierror.Error
	for i, record := range t.Rows {
		row := i + 1
		if len(record) != len(t.Header) {
			errs = multierror.Append(errs, &FormatError{Row: row, Value: strings.Join(record, ","),
				Err: fmt.Errorf("%d fields, want %d", len(record), len(t.Header))})
			continue
		}
		p := fieldParser{row: row, record: record, index: index, round: cfg.round}

		tr := Trade{
			Row:          row,
			Kind:         p.text(colType),
			BuyQuantity:  p.quantity(colBuy),
			BuyCurrency:  strings.ToUpper(p.text(colBuyCurrency)),
			BuyValue:     p.number(buyValueColumn),
			SellQuantity: p.quantity(colSell),
			SellCurrency: strings.ToUpper(p.text(colSellCurrency)),
			SellValue:    p.number(sellValueColumn),
			Exchange:     p.text(colExchange),
			Comment:      p.text(colComment),
			Date:         p.date(colTradeDate),
		}
		if p.errs != nil {
			errs = multierror.Append(errs, p.errs...)
			continue
		}
		tr.BuyIsFiat = cfg.IsFiat(tr.BuyCurrency)
		tr.SellIsFiat = cfg.IsFiat(tr.SellCurrency)
		tr.derive(base)
		ledger.Trades = append(ledger.Trades, tr)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return ledger, nil
}

// derive sets the primary trade value of each side.
//
// When the sell side has no value the buy side value is used for both sides.
// Otherwise a side denominated in the base currency is worth its own
// quantity, and any other side is worth the sell value.
func (t *Trade) derive(base string) {
	if t.SellValue.IsZero() {
		t.BuyTradeValue = t.BuyValue
		t.SellTradeValue = t.BuyValue
		return
	}
	t.BuyTradeValue = sideValue(t.BuyQuantity, t.BuyCurrency, t.SellValue, base)
	t.SellTradeValue = sideValue(t.SellQuantity, t.SellCurrency, t.SellValue, base)
}

func sideValue(quantity decimal.Decimal, currency string, value decimal.Decimal, base string) decimal.Decimal {
	if strings.EqualFold(currency, base) {
		return quantity
	}
	return value
}

// fieldParser reads typed fields of a record and collects the errors.
type fieldParser struct {
	row    int
	record []string
	index  map[string]int
	round  func(decimal.Decimal) decimal.Decimal
	errs   []error
}

func (p *fieldParser) text(column string) string {
	return strings.TrimSpace(p.record[p.index[column]])
}

// number parses a decimal field, '-' and empty fields are zero.
func (p *fieldParser) number(column string) decimal.Decimal {
	raw := p.text(column)
	if raw == "" || raw == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		p.errs = append(p.errs, &FormatError{Row: p.row, Column: column, Value: raw, Err: fmt.Errorf("not a number")})
		return decimal.Zero
	}
	return p.round(d)
}

// quantity parses a number field that cannot be negative.
func (p *fieldParser) quantity(column string) decimal.Decimal {
	d := p.number(column)
	if d.IsNegative() {
		p.errs = append(p.errs, &FormatError{Row: p.row, Column: column, Value: p.text(column), Err: fmt.Errorf("negative quantity")})
		return decimal.Zero
	}
	return d
}

func (p *fieldParser) date(column string) time.Time {
	raw := p.text(column)
	d, err := ParseTradeDate(raw)
	if err != nil {
		p.errs = append(p.errs, &FormatError{Row: p.row, Column: column, Value: raw, Err: err})
	}
	return d
}
