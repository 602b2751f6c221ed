package gains

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// HistoricalPricer returns the exchange rate between two currencies at a
// given time: the price of one unit of from, in to.
type HistoricalPricer interface {
	HistoricalRate(ctx context.Context, from, to string, at time.Time) (decimal.Decimal, error)
}

// CurrentPricer returns current asset prices.
type CurrentPricer interface {
	// Identifiers returns the service identifier of each known asset symbol,
	// symbols are lower-case.
	Identifiers(ctx context.Context) (map[string]string, error)
	// CurrentPrice returns the current price of the asset id in currency to.
	CurrentPrice(ctx context.Context, id, to string) (decimal.Decimal, error)
}

// Warning is a non-fatal valuation problem: the holding value it concerns
// was set to zero.
type Warning struct {
	Currency  string // asset
	Reference string // reporting currency, "" if all are concerned
	Reason    string
}

func (w Warning) String() string {
	if w.Reference == "" {
		return fmt.Sprintf("%s has no current price (%s), it will have a current value of zero", w.Currency, w.Reason)
	}
	return fmt.Sprintf("%s has no current price in %s (%s), it will have a current value of zero", w.Currency, w.Reference, w.Reason)
}

// Valuer converts lots and holdings into the reporting currencies.
type Valuer struct {
	Base       string
	Currencies []string // reporting currencies, base first
	Historical HistoricalPricer
	Current    CurrentPricer
	Workers    int
}

// NewValuer returns a Valuer for the reporting currencies of base under cfg.
func NewValuer(base string, cfg Config, historical HistoricalPricer, current CurrentPricer) *Valuer {
	return &Valuer{
		Base:       strings.ToUpper(base),
		Currencies: cfg.Currencies(base),
		Historical: historical,
		Current:    current,
		Workers:    max(cfg.Workers, 1),
	}
}

// conversion is a single value to compute: one side of one lot in one
// reporting currency.
type conversion struct {
	lot    int
	sell   bool
	cur    string
	at     time.Time
	amount decimal.Decimal // in the base currency
	result decimal.Decimal
}

// Convert fills the value of each lot side in every non-base reporting
// currency, using the historical rate at that side's own date.
//
// A lot of currency X is worth its own quantity in X. Any error from the
// historical pricer is fatal and returned as a *PriceLookupError.
func (v *Valuer) Convert(ctx context.Context, lots []MatchedLot) error {
	var jobs []*conversion
	for i := range lots {
		lot := &lots[i]
		for _, cur := range v.Currencies[1:] {
			if strings.EqualFold(lot.Currency, cur) {
				lot.BuyValue[cur] = lot.Quantity
				if lot.Realized() {
					lot.SellValue[cur] = lot.Quantity
				}
				continue
			}
			jobs = append(jobs, &conversion{lot: i, cur: cur, at: lot.BuyDate, amount: lot.BuyValue[v.Base]})
			if lot.Realized() {
				jobs = append(jobs, &conversion{lot: i, sell: true, cur: cur, at: *lot.SellDate, amount: lot.SellValue[v.Base]})
			}
		}
	}
	if len(jobs) > 0 && v.Historical == nil {
		return fmt.Errorf("no historical price service to convert %s into %s", v.Base, strings.Join(v.Currencies[1:], ", "))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(v.Workers)
	for _, job := range jobs {
		g.Go(func() error {
			rate, err := v.Historical.HistoricalRate(ctx, v.Base, job.cur, job.at)
			if err != nil {
				var perr *PriceLookupError
				if errors.As(err, &perr) {
					return err
				}
				return &PriceLookupError{From: v.Base, To: job.cur, At: job.at, NoData: errors.Is(err, ErrNoPriceData), Err: err}
			}
			job.result = job.amount.Mul(rate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, job := range jobs {
		if job.sell {
			lots[job.lot].SellValue[job.cur] = job.result
		} else {
			lots[job.lot].BuyValue[job.cur] = job.result
		}
	}
	return nil
}

// quote is the current value of one holding row in one reporting currency.
type quote struct {
	row    int
	cur    string
	id     string
	result decimal.Decimal
	warn   *Warning
}

// ValueHoldings sets the current value (sell side) and gain of each holding
// row of t, in every reporting currency.
//
// Current prices are best effort: an asset unknown to the price service, or
// a failed lookup, is valued at zero and reported as a Warning.
func (v *Valuer) ValueHoldings(ctx context.Context, t *Totals) []Warning {
	var warnings []Warning
	ids, err := v.Current.Identifiers(ctx)
	if err != nil {
		log.Printf("cannot retrieve asset identifiers: %v", err)
		ids = nil
	}

	var quotes []*quote
	for i := range t.Rows {
		row := &t.Rows[i]
		if row.Total {
			continue
		}
		id, known := ids[strings.ToLower(row.Currency)]
		if !known {
			reason := "unknown to the price service"
			if err != nil {
				reason = "price service unavailable"
			}
			warnings = append(warnings, Warning{Currency: row.Currency, Reason: reason})
		}
		for _, cur := range v.Currencies {
			q := &quote{row: i, cur: cur, id: id}
			switch {
			case strings.EqualFold(row.Currency, cur):
				q.result = row.quantity()
			case !known:
				q.result = decimal.Zero
			default:
				quotes = append(quotes, q)
				continue
			}
			row.Sell[cur] = q.result
		}
	}

	var g errgroup.Group
	g.SetLimit(v.Workers)
	for _, q := range quotes {
		g.Go(func() error {
			price, err := v.Current.CurrentPrice(ctx, q.id, q.cur)
			if err != nil {
				q.warn = &Warning{Currency: t.Rows[q.row].Currency, Reference: q.cur, Reason: err.Error()}
				return nil
			}
			q.result = t.Rows[q.row].quantity().Mul(price)
			return nil
		})
	}
	g.Wait()

	for _, q := range quotes {
		t.Rows[q.row].Sell[q.cur] = q.result
		if q.warn != nil {
			warnings = append(warnings, *q.warn)
		}
	}
	for i := range t.Rows {
		t.Rows[i].computeGains(v.Currencies)
	}
	for _, w := range warnings {
		log.Println("warning:", w)
	}
	return warnings
}
