package gains

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoPriceData is wrapped by price services when they answer but have no
// data for the requested currency pair.
var ErrNoPriceData = errors.New("no price data")

// ConfigurationError is returned when the input has no buy value column in a
// supported fiat currency.
type ConfigurationError struct {
	Candidates []string // buy value columns found in the input
	Accepted   []string // fiat codes a base currency can be chosen from
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("the input does not have a buy value column in a supported fiat currency (found %s); provide a buy value column in one of: %s",
		orNone(e.Candidates), strings.Join(e.Accepted, ", "))
}

// SchemaError is returned when required columns are missing from the input.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("the input is missing the required column(s): %s", strings.Join(e.Missing, ", "))
}

// FormatError is returned for an input field that cannot be parsed.
type FormatError struct {
	Row    int    // 1-based data row, the header excluded
	Column string // "" when the whole row is malformed
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: cannot parse %q: %v", e.Row, e.Value, e.Err)
	}
	return fmt.Sprintf("row %d, column %q: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// InsufficientInventoryError is returned when a sell cannot be matched with a
// prior buy, either because more units are sold than ever acquired, or
// because the earliest remaining buy happens after the sell.
type InsufficientInventoryError struct {
	Currency    string
	SellDate    time.Time  // zero when the totals check failed
	NextBuyDate *time.Time // nearest later buy, nil if none
	Sold        decimal.Decimal
	Acquired    decimal.Decimal
}

func (e *InsufficientInventoryError) Error() string {
	if e.SellDate.IsZero() {
		return fmt.Sprintf("the units sold of %s (%s) exceed the units acquired (%s)", e.Currency, e.Sold, e.Acquired)
	}
	next := "none"
	if e.NextBuyDate != nil {
		next = FormatTradeDate(*e.NextBuyDate)
	}
	return fmt.Sprintf("sell of %s on %s cannot be matched with a buy: the closest buy occurred at a later date: %s",
		e.Currency, FormatTradeDate(e.SellDate), next)
}

// PriceLookupError is returned when a historical exchange rate cannot be
// obtained for a realized lot.
type PriceLookupError struct {
	From, To string
	At       time.Time
	NoData   bool // the service answered without data for this pair
	Err      error
}

func (e *PriceLookupError) Error() string {
	if e.NoData {
		return fmt.Sprintf("cannot convert %s to %s at %s: the price service has no data for this pair, select a different reference currency: %v",
			e.From, e.To, FormatTradeDate(e.At), e.Err)
	}
	return fmt.Sprintf("cannot retrieve the historical price of %s in %s at %s: %v", e.From, e.To, FormatTradeDate(e.At), e.Err)
}

func (e *PriceLookupError) Unwrap() error { return e.Err }

func orNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
