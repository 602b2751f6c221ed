package pricing

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// CoinMarketCapURL is the public CoinMarketCap ticker API.
const CoinMarketCapURL = "https://api.coinmarketcap.com/v1/"

// DefaultOverrides are symbols the ticker list maps to the wrong asset.
func DefaultOverrides() map[string]string {
	return map[string]string{"cpc": "cpchain"}
}

// CoinMarketCap retrieves current asset prices from the CoinMarketCap ticker
// API. Current prices are never cached.
type CoinMarketCap struct {
	baseURL   string
	overrides map[string]string
	fetch     *fetcher
}

// NewCoinMarketCap returns a client for the API at baseURL (CoinMarketCapURL
// if empty). overrides replace the identifiers of some symbols.
func NewCoinMarketCap(baseURL string, overrides map[string]string, opts Options) *CoinMarketCap {
	if baseURL == "" {
		baseURL = CoinMarketCapURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &CoinMarketCap{
		baseURL:   baseURL,
		overrides: overrides,
		fetch:     newFetcher(opts, false, nil),
	}
}

// Identifiers returns the asset id of every symbol listed by the ticker,
// both lower-cased.
func (c *CoinMarketCap) Identifiers(ctx context.Context) (map[string]string, error) {
	var coins []struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
	}
	if err := c.fetch.jwget(ctx, c.baseURL+"ticker/?limit=0", &coins); err != nil {
		return nil, fmt.Errorf("cannot retrieve coin identifiers: %w", err)
	}
	ids := make(map[string]string, len(coins)+len(c.overrides))
	for _, coin := range coins {
		ids[strings.ToLower(coin.Symbol)] = strings.ToLower(coin.ID)
	}
	for symbol, id := range c.overrides {
		ids[strings.ToLower(symbol)] = strings.ToLower(id)
	}
	return ids, nil
}

// CurrentPrice returns the current price of asset id in currency to.
func (c *CoinMarketCap) CurrentPrice(ctx context.Context, id, to string) (decimal.Decimal, error) {
	to = strings.ToLower(to)
	addr := c.baseURL + "ticker/" + url.PathEscape(id) + "/?convert=" + url.QueryEscape(to)

	var jobj any
	if err := c.fetch.jwget(ctx, addr, &jobj); err != nil {
		return decimal.Zero, fmt.Errorf("cannot retrieve the price of %s: %w", id, err)
	}
	path := fmt.Sprintf("$[0].price_%s", to)
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error parsing the price of %s: %q %w", id, path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	if jval == nil {
		return decimal.Zero, fmt.Errorf("no %s price for %s", to, id)
	}
	price, err := toDecimal(jval)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s price for %s: %w", to, id, err)
	}
	return price, nil
}
