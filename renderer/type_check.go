package renderer

import (
	"slices"

	"github.com/etnz/gains"
	"github.com/shopspring/decimal"
)

// Check is the view of a validated trade list: the inventory of each asset.
type Check struct {
	Base   string
	Trades int
	Assets []Inventory
}

// Inventory is the units of one asset acquired, disposed of and still held.
type Inventory struct {
	Asset    string
	Acquired string
	Disposed string
	Held     string
}

// NewCheck returns the view of ledger l.
func NewCheck(l *gains.Ledger) *Check {
	acquired := make(map[string]decimal.Decimal)
	disposed := make(map[string]decimal.Decimal)
	var assets []string
	track := func(events []gains.Event, sums map[string]decimal.Decimal) {
		for _, e := range events {
			if _, ok := acquired[e.Currency]; !ok {
				if _, ok := disposed[e.Currency]; !ok {
					assets = append(assets, e.Currency)
				}
			}
			sums[e.Currency] = sums[e.Currency].Add(e.Quantity)
		}
	}
	track(l.BuyEvents(), acquired)
	track(l.SellEvents(), disposed)
	slices.Sort(assets)

	c := &Check{Base: l.Base, Trades: len(l.Trades)}
	for _, asset := range assets {
		c.Assets = append(c.Assets, Inventory{
			Asset:    asset,
			Acquired: acquired[asset].String(),
			Disposed: disposed[asset].String(),
			Held:     acquired[asset].Sub(disposed[asset]).String(),
		})
	}
	return c
}

// CheckMarkdown renders the inventory of ledger l.
func CheckMarkdown(l *gains.Ledger) string {
	return RenderCheck(NewCheck(l))
}
