package gains

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is one side of a trade on a non-fiat asset: a buy (acquisition) or a
// sell (disposal).
//
// The matching engine consumes events by decrementing Quantity and Value in
// place.
type Event struct {
	Currency string
	Quantity decimal.Decimal
	Value    decimal.Decimal // in the base currency
	Exchange string
	Comment  string
	Date     time.Time
	Seq      int // input order, breaks ties between equal dates
}

// before is the matching order: date first, then input order.
func (e *Event) before(x *Event) bool {
	if !e.Date.Equal(x.Date) {
		return e.Date.Before(x.Date)
	}
	return e.Seq < x.Seq
}

// BuyEvents returns the acquisitions of the ledger: every non-fiat, non-zero
// buy side.
func (l *Ledger) BuyEvents() []Event {
	var events []Event
	for _, t := range l.Trades {
		if t.BuyIsFiat || t.BuyQuantity.IsZero() {
			continue
		}
		events = append(events, Event{
			Currency: t.BuyCurrency,
			Quantity: t.BuyQuantity.Round(l.precision),
			Value:    t.BuyTradeValue.Round(l.precision),
			Exchange: t.Exchange,
			Comment:  t.Comment,
			Date:     t.Date,
			Seq:      t.Row,
		})
	}
	return events
}

// SellEvents returns the disposals of the ledger: every non-fiat, non-zero
// sell side.
func (l *Ledger) SellEvents() []Event {
	var events []Event
	for _, t := range l.Trades {
		if t.SellIsFiat || t.SellQuantity.IsZero() {
			continue
		}
		events = append(events, Event{
			Currency: t.SellCurrency,
			Quantity: t.SellQuantity.Round(l.precision),
			Value:    t.SellTradeValue.Round(l.precision),
			Exchange: t.Exchange,
			Comment:  t.Comment,
			Date:     t.Date,
			Seq:      t.Row,
		})
	}
	return events
}

// eventQueue is a min-heap of events in matching order.
type eventQueue []*Event

func (q eventQueue) Len() int           { return len(q) }
func (q eventQueue) Less(i, j int) bool { return q[i].before(q[j]) }
func (q eventQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x any)        { *q = append(*q, x.(*Event)) }
func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// peek returns the first event in matching order.
func (q eventQueue) peek() *Event { return q[0] }
