// Package workbook writes a gains report as an xlsx workbook.
package workbook

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/etnz/gains"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names, in workbook order.
const (
	InputSheet             = "input"
	MatchSheet             = "buy_and_sell_match"
	RealizedSheet          = "realized_totals"
	RealizedPerUnitSheet   = "realized_totals_per_unit"
	UnrealizedSheet        = "unrealized_totals"
	UnrealizedPerUnitSheet = "unrealized_totals_per_unit"
)

// Display rounding of values.
const (
	ValuePlaces   = 2
	PerUnitPlaces = 8
)

// TotalLabel labels the total row of the totals sheets.
const TotalLabel = "Total"

// sheet is the content of a single worksheet.
type sheet struct {
	name   string
	header []string
	rows   [][]any
}

// Build returns the workbook of report r. The caller must close it.
func Build(r *gains.Report) (*excelize.File, error) {
	sheets := []sheet{
		inputSheet(r.Input),
		matchSheet(r.Match, r.Currencies),
		totalsSheet(RealizedSheet, r.Realized, true, ValuePlaces),
		totalsSheet(RealizedPerUnitSheet, r.RealizedPerUnit, true, PerUnitPlaces),
		totalsSheet(UnrealizedSheet, r.Unrealized, false, ValuePlaces),
		totalsSheet(UnrealizedPerUnitSheet, r.UnrealizedPerUnit, false, PerUnitPlaces),
	}

	f := excelize.NewFile()
	for i, s := range sheets {
		var err error
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), s.name)
		} else {
			_, err = f.NewSheet(s.name)
		}
		if err == nil {
			err = write(f, s)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("cannot write sheet %q: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write writes the workbook of report r to w.
func Write(w io.Writer, r *gains.Report) error {
	f, err := Build(r)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Save writes the workbook of report r to the file name.
func Save(name string, r *gains.Report) error {
	f, err := Build(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(name); err != nil {
		return fmt.Errorf("cannot save workbook %q: %w", name, err)
	}
	return nil
}

// write fills a worksheet and formats it: column width from the header,
// autofilter over the data and a frozen header row.
func write(f *excelize.File, s sheet) error {
	header := make([]any, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	if len(s.header) == 0 {
		return nil
	}

	for i, h := range s.header {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, col, col, float64(len(h)+2)); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(s.header), max(len(s.rows), 1)+1)
	if err != nil {
		return err
	}
	if err := f.AutoFilter(s.name, "A1:"+last, nil); err != nil {
		return err
	}
	return f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// inputSheet is the raw input, header untouched.
func inputSheet(t *gains.Table) sheet {
	s := sheet{name: InputSheet}
	if t == nil {
		return s
	}
	s.header = t.Header
	for _, record := range t.Rows {
		row := make([]any, len(record))
		for i, field := range record {
			row[i] = field
		}
		s.rows = append(s.rows, row)
	}
	return s
}

// valueColumns returns the value columns of every reporting currency.
func valueColumns(currencies []string) []string {
	var columns []string
	for _, cur := range currencies {
		cur = strings.ToLower(cur)
		columns = append(columns, "buy_value_"+cur, "sell_value_"+cur, "gain_loss_"+cur)
	}
	return columns
}

// matchSheet lists every realized lot and holding, the most recent disposals
// first and holdings last.
func matchSheet(m *gains.MatchResult, currencies []string) sheet {
	s := sheet{name: MatchSheet}
	s.header = append([]string{"currency", "quantity", "buy_date", "sell_date"}, valueColumns(currencies)...)
	s.header = append(s.header, "buy_exchange", "sell_exchange", "buy_comment", "sell_comment")
	if m == nil {
		return s
	}

	lots := m.All()
	slices.SortStableFunc(lots, func(a, b gains.MatchedLot) int {
		switch {
		case a.SellDate == nil && b.SellDate != nil:
			return 1
		case a.SellDate != nil && b.SellDate == nil:
			return -1
		case a.SellDate != nil && b.SellDate != nil:
			if c := b.SellDate.Compare(*a.SellDate); c != 0 {
				return c
			}
		}
		return b.BuyDate.Compare(a.BuyDate)
	})

	for _, lot := range lots {
		row := []any{lot.Currency, float(lot.Quantity, ValuePlaces), lot.BuyDate, date(lot.SellDate)}
		for _, cur := range currencies {
			gain, ok := lot.GainLoss(cur)
			row = append(row,
				value(lot.BuyValue, cur, ValuePlaces),
				value(lot.SellValue, cur, ValuePlaces),
				optional(gain, ok, ValuePlaces),
			)
		}
		row = append(row, lot.BuyExchange, lot.SellExchange, lot.BuyComment, lot.SellComment)
		s.rows = append(s.rows, row)
	}
	return s
}

// totalsSheet lists aggregate rows, by sell year and currency if byYear,
// by currency otherwise.
func totalsSheet(name string, t *gains.Totals, byYear bool, places int32) sheet {
	s := sheet{name: name}
	if byYear {
		s.header = append(s.header, "sell_year")
	}
	s.header = append(s.header, "currency", "quantity")
	if t == nil {
		return s
	}
	s.header = append(s.header, valueColumns(t.Currencies)...)

	for _, r := range t.Rows {
		var row []any
		switch {
		case r.Total:
			row = append(row, TotalLabel)
			if byYear {
				row = append(row, nil)
			}
		case byYear:
			row = append(row, *r.Year, r.Currency)
		default:
			row = append(row, r.Currency)
		}
		if r.Quantity == nil {
			row = append(row, nil)
		} else {
			row = append(row, float(*r.Quantity, places))
		}
		for _, cur := range t.Currencies {
			row = append(row,
				value(r.Buy, cur, places),
				value(r.Sell, cur, places),
				value(r.Gain, cur, places),
			)
		}
		s.rows = append(s.rows, row)
	}
	return s
}

// float rounds d for display.
func float(d decimal.Decimal, places int32) float64 { return d.Round(places).InexactFloat64() }

// value returns the rounded value of cur in v, or an empty cell.
func value(v map[string]decimal.Decimal, cur string, places int32) any {
	d, ok := v[cur]
	return optional(d, ok, places)
}

func optional(d decimal.Decimal, ok bool, places int32) any {
	if !ok {
		return nil
	}
	return float(d, places)
}

func date(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
