package gains

import (
	"container/heap"
	"slices"

	"github.com/shopspring/decimal"
)

// MatchResult is the outcome of matching sells against buys.
type MatchResult struct {
	// Lots are the realized lots, in matching order.
	Lots []MatchedLot
	// Gifts are lots consumed by gift sells. They are not reported as
	// disposals but account for the inventory they removed.
	Gifts []MatchedLot
	// Holdings are the residual buys, by currency then in matching order.
	Holdings []MatchedLot
}

// All returns the realized lots followed by the holdings.
func (r *MatchResult) All() []MatchedLot {
	return append(slices.Clone(r.Lots), r.Holdings...)
}

// CheckInventory fails with an *InsufficientInventoryError if, for any
// currency, more units are sold than acquired.
func CheckInventory(buys, sells []Event, cfg Config) error {
	acquired := make(map[string]decimal.Decimal)
	for _, b := range buys {
		acquired[b.Currency] = acquired[b.Currency].Add(b.Quantity)
	}
	sold := make(map[string]decimal.Decimal)
	var currencies []string
	for _, s := range sells {
		if _, exists := sold[s.Currency]; !exists {
			currencies = append(currencies, s.Currency)
		}
		sold[s.Currency] = sold[s.Currency].Add(s.Quantity)
	}
	slices.Sort(currencies)

	for _, cur := range currencies {
		s, a := cfg.round(sold[cur]), cfg.round(acquired[cur])
		if s.GreaterThan(a) {
			return &InsufficientInventoryError{Currency: cur, Sold: s, Acquired: a}
		}
	}
	return nil
}

// Match pairs every sell with the earliest eligible buys of the same
// currency, first in, first out.
//
// Sells are processed in (date, input order). Each one consumes the buys of
// its currency in the same order, splitting a buy when it is larger than
// what remains to be sold. The value of each matched side is the
// proportional slice of that side's remaining value. Sells whose comment is
// the gift comment consume inventory but produce no realized lot.
//
// buys and sells are not modified. Values of the resulting lots are
// expressed in base.
func Match(buys, sells []Event, base string, cfg Config) (*MatchResult, error) {
	if err := CheckInventory(buys, sells, cfg); err != nil {
		return nil, err
	}

	// working copies, indexed by currency.
	pending := make(map[string]*eventQueue)
	for _, b := range buys {
		q, exists := pending[b.Currency]
		if !exists {
			q = &eventQueue{}
			pending[b.Currency] = q
		}
		*q = append(*q, &b)
	}
	for _, q := range pending {
		heap.Init(q)
	}
	disposals := make(eventQueue, 0, len(sells))
	for _, s := range sells {
		disposals = append(disposals, &s)
	}
	heap.Init(&disposals)

	result := &MatchResult{}
	for disposals.Len() > 0 {
		sell := disposals.peek()

		acquisitions := pending[sell.Currency]
		if acquisitions == nil || acquisitions.Len() == 0 {
			return nil, &InsufficientInventoryError{Currency: sell.Currency, SellDate: sell.Date}
		}
		buy := acquisitions.peek()
		if buy.Date.After(sell.Date) {
			next := buy.Date
			return nil, &InsufficientInventoryError{Currency: sell.Currency, SellDate: sell.Date, NextBuyDate: &next}
		}

		quantity := decimal.Min(buy.Quantity, sell.Quantity)
		buyValue := matchedValue(quantity, buy, cfg)
		sellValue := matchedValue(quantity, sell, cfg)

		sellDate := sell.Date
		lot := MatchedLot{
			Currency:     sell.Currency,
			Quantity:     quantity,
			BuyDate:      buy.Date,
			SellDate:     &sellDate,
			BuyValue:     map[string]decimal.Decimal{base: buyValue},
			SellValue:    map[string]decimal.Decimal{base: sellValue},
			BuyExchange:  buy.Exchange,
			SellExchange: sell.Exchange,
			BuyComment:   buy.Comment,
			SellComment:  sell.Comment,
		}
		if cfg.isGift(sell.Comment) {
			result.Gifts = append(result.Gifts, lot)
		} else {
			result.Lots = append(result.Lots, lot)
		}

		if consume(buy, quantity, buyValue, cfg) {
			heap.Pop(acquisitions)
		}
		if consume(sell, quantity, sellValue, cfg) {
			heap.Pop(&disposals)
		}
	}

	currencies := make([]string, 0, len(pending))
	for cur := range pending {
		currencies = append(currencies, cur)
	}
	slices.Sort(currencies)
	for _, cur := range currencies {
		q := *pending[cur]
		remaining := slices.Clone(q)
		slices.SortFunc(remaining, func(a, b *Event) int {
			if a.before(b) {
				return -1
			}
			if b.before(a) {
				return 1
			}
			return 0
		})
		for _, buy := range remaining {
			result.Holdings = append(result.Holdings, holding(buy, base))
		}
	}
	return result, nil
}

// matchedValue returns the share of e's value matching quantity units.
// A fully consumed event yields all its remaining value.
func matchedValue(quantity decimal.Decimal, e *Event, cfg Config) decimal.Decimal {
	if quantity.Equal(e.Quantity) {
		return e.Value
	}
	return cfg.round(quantity.Mul(e.Value).Div(e.Quantity))
}

// consume removes quantity and value from e, and reports whether e is
// exhausted.
func consume(e *Event, quantity, value decimal.Decimal, cfg Config) bool {
	e.Quantity = cfg.round(e.Quantity.Sub(quantity))
	e.Value = cfg.round(e.Value.Sub(value))
	return e.Quantity.IsZero()
}
