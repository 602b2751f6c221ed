package gains

import (
	"fmt"
	"strings"
	"time"
)

// TradeDateFormat is the format of the trade_date column.
const TradeDateFormat = "02.01.2006 15:04"

// tradeDateLayout also accepts days, months and hours without a leading zero.
const tradeDateLayout = "2.1.2006 15:04"

// ParseTradeDate parses a trade date in [TradeDateFormat], in UTC. Leading
// zeros are optional.
func ParseTradeDate(str string) (time.Time, error) {
	t, err := time.Parse(tradeDateLayout, strings.TrimSpace(str))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid trade date %q want format %q", str, "dd.mm.yyyy hh:mm")
	}
	return t, nil
}

// FormatTradeDate formats t in [TradeDateFormat].
func FormatTradeDate(t time.Time) string { return t.Format(TradeDateFormat) }

// MustParseTradeDate is like ParseTradeDate but panics on error.
func MustParseTradeDate(str string) time.Time {
	t, err := ParseTradeDate(str)
	if err != nil {
		panic(err.Error())
	}
	return t
}
