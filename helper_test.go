package gains

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// D is a helper for test to create decimals from const.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// T is a helper for test to create trade dates from const.
func T(s string) time.Time { return MustParseTradeDate(s) }

// USD is a helper for test to create usd values.
func USD(s string) map[string]decimal.Decimal { return map[string]decimal.Decimal{"USD": D(s)} }

// decimalComparer compares decimals by value, 1.0 equals 1.
var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// buy returns a buy event of quantity q of cur for value v at date.
func buy(seq int, cur, q, v, date string) Event {
	return Event{Currency: cur, Quantity: D(q), Value: D(v), Date: T(date), Seq: seq}
}

// sell returns a sell event of quantity q of cur for value v at date.
func sell(seq int, cur, q, v, date string) Event {
	return Event{Currency: cur, Quantity: D(q), Value: D(v), Date: T(date), Seq: seq}
}

// gift returns a gift sell event.
func gift(seq int, cur, q, date string) Event {
	e := sell(seq, cur, q, "0", date)
	e.Comment = DefaultGiftComment
	return e
}

// readTable parses a CSV table, failing the test on error.
func readTable(t *testing.T, content string) *Table {
	t.Helper()
	table, err := ReadTable(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ReadTable() unexpected error: %v", err)
	}
	return table
}

const header = `"Type","Buy","Cur.","Buy value in USD","Sell","Cur.","Sell value in USD","Exchange","Comment","Trade Date"`
