package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/gains"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// CryptoCompareURL is the public CryptoCompare data API.
const CryptoCompareURL = "https://min-api.cryptocompare.com/data/"

// CryptoCompare retrieves historical exchange rates from the CryptoCompare
// hourly history API.
type CryptoCompare struct {
	baseURL string
	fetch   *fetcher
	memo    *cache.Cache
	flight  singleflight.Group // concurrent lookups of the same key share one request
}

// NewCryptoCompare returns a client for the API at baseURL (CryptoCompareURL
// if empty). apiKey is optional.
func NewCryptoCompare(baseURL, apiKey string, opts Options) *CryptoCompare {
	if baseURL == "" {
		baseURL = CryptoCompareURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	f := newFetcher(opts, true, successful)
	if apiKey != "" {
		f.header.Set("Authorization", "Apikey "+apiKey)
	}
	return &CryptoCompare{
		baseURL: baseURL,
		fetch:   f,
		memo:    cache.New(cache.NoExpiration, 0),
	}
}

// successful tells if a dumped response holds data: CryptoCompare answers
// 200 with an error payload for unknown pairs, those must not be cached.
func successful(dump []byte) bool {
	return bytes.Contains(dump, []byte(`"Response":"Success"`))
}

// HistoricalRate returns the price of one unit of from in to at time at: the
// mean of the hourly closes around at.
func (c *CryptoCompare) HistoricalRate(ctx context.Context, from, to string, at time.Time) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	key := fmt.Sprintf("%s/%s@%d", from, to, at.Unix())
	if v, found := c.memo.Get(key); found {
		return v.(decimal.Decimal), nil
	}
	v, err, _ := c.flight.Do(key, func() (any, error) {
		if v, found := c.memo.Get(key); found {
			return v, nil
		}
		rate, err := c.histohour(ctx, from, to, at)
		if err != nil {
			return nil, err
		}
		c.memo.Set(key, rate, cache.NoExpiration)
		return rate, nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

// histohour queries the mean hourly close of from in to at time at.
func (c *CryptoCompare) histohour(ctx context.Context, from, to string, at time.Time) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("fsym", from)
	q.Set("tsym", to)
	q.Set("limit", "1")
	q.Set("toTs", strconv.FormatInt(at.Unix(), 10))
	addr := c.baseURL + "histohour?" + q.Encode()

	var jobj any
	if err := c.fetch.jwget(ctx, addr, &jobj); err != nil {
		return decimal.Zero, fmt.Errorf("cannot retrieve %s/%s at %s: %w", from, to, at.Format(time.RFC3339), err)
	}

	status, _ := jsonpath.Get("$.Response", jobj)
	if status != "Success" {
		msg, _ := jsonpath.Get("$.Message", jobj)
		return decimal.Zero, fmt.Errorf("cannot convert %s to %s: %w (%v)", from, to, gains.ErrNoPriceData, msg)
	}

	jval, err := jsonpath.Get("$.Data[*].close", jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error parsing %s/%s: %w", from, to, err)
	}
	closes, ok := jval.([]any)
	if !ok || len(closes) == 0 {
		return decimal.Zero, fmt.Errorf("cannot convert %s to %s: %w (empty history)", from, to, gains.ErrNoPriceData)
	}
	sum := decimal.Zero
	for _, v := range closes {
		d, err := toDecimal(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid close price for %s/%s: %w", from, to, err)
		}
		sum = sum.Add(d)
	}
	return sum.Div(decimal.NewFromInt(int64(len(closes)))), nil
}

// toDecimal converts a decoded JSON value, number or string, into a decimal.
func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case json.Number:
		return decimal.NewFromString(x.String())
	case string:
		return decimal.NewFromString(x)
	case float64:
		return decimal.NewFromFloat(x), nil
	default:
		return decimal.Zero, fmt.Errorf("unexpected value %v (%T)", v, v)
	}
}
