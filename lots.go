package gains

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchedLot is a quantity of an asset paired between a buy and a sell.
//
// A lot without SellDate is a residual holding: acquired quantity still held
// at the end of the ledger.
type MatchedLot struct {
	Currency string
	Quantity decimal.Decimal
	BuyDate  time.Time
	SellDate *time.Time

	// BuyValue and SellValue hold the value of each side per reporting
	// currency. A holding has no sell values.
	BuyValue  map[string]decimal.Decimal
	SellValue map[string]decimal.Decimal

	BuyExchange  string
	SellExchange string
	BuyComment   string
	SellComment  string
}

// Realized reports whether the lot was disposed of.
func (l MatchedLot) Realized() bool { return l.SellDate != nil }

// SellYear returns the year of the disposal, 0 for a holding.
func (l MatchedLot) SellYear() int {
	if l.SellDate == nil {
		return 0
	}
	return l.SellDate.Year()
}

// GainLoss returns the gain (or loss, if negative) of the lot in currency
// cur. It is false if either side has no value in cur.
func (l MatchedLot) GainLoss(cur string) (decimal.Decimal, bool) {
	buy, ok := l.BuyValue[cur]
	if !ok {
		return decimal.Zero, false
	}
	sell, ok := l.SellValue[cur]
	if !ok {
		return decimal.Zero, false
	}
	return sell.Sub(buy), true
}

// holding converts a residual buy into a lot without sell side.
func holding(buy *Event, base string) MatchedLot {
	return MatchedLot{
		Currency:    buy.Currency,
		Quantity:    buy.Quantity,
		BuyDate:     buy.Date,
		BuyValue:    map[string]decimal.Decimal{base: buy.Value},
		SellValue:   map[string]decimal.Decimal{},
		BuyExchange: buy.Exchange,
		BuyComment:  buy.Comment,
	}
}
