package gains

import (
	"slices"
	"strings"
)

// required column names, the value columns are suffixed by the base currency.
const (
	colType         = "type"
	colBuy          = "buy"
	colBuyCurrency  = "buy_currency"
	colBuyValue     = "buy_value_"
	colSell         = "sell"
	colSellCurrency = "sell_currency"
	colSellValue    = "sell_value_"
	colExchange     = "exchange"
	colComment      = "comment"
	colTradeDate    = "trade_date"
)

// NormalizeColumns returns the canonical names of a raw header.
//
// Names are trimmed, lower-cased, spaces become '_' and the "in" infix is
// dropped, so that "Buy value in USD" becomes "buy_value_usd". A column
// starting with "Cur." names the currency of the previous column and becomes
// "<previous>_currency".
func NormalizeColumns(header []string) []string {
	columns := make([]string, 0, len(header))
	previous := ""
	for _, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		name = strings.ReplaceAll(name, " ", "_")
		name = strings.ReplaceAll(name, "_in_", "_")
		if strings.HasPrefix(name, "cur.") {
			name = previous + "_currency"
		}
		columns = append(columns, name)
		previous = name
	}
	return columns
}

// BaseCurrency returns the base currency of a normalized header: the fiat
// currency of a buy_value_<code> column. When several qualify the last one
// wins.
func BaseCurrency(columns []string, cfg Config) (string, error) {
	var base string
	var candidates []string
	for _, column := range columns {
		if !strings.HasPrefix(column, colBuyValue) {
			continue
		}
		candidates = append(candidates, column)
		code := strings.ToUpper(strings.TrimPrefix(column, colBuyValue))
		if cfg.IsFiat(code) {
			base = code
		}
	}
	if base == "" {
		return "", &ConfigurationError{Candidates: candidates, Accepted: slices.Clone(cfg.Fiat)}
	}
	return base, nil
}

// requiredColumns lists the columns the normalizer needs for a base currency.
func requiredColumns(base string) []string {
	base = strings.ToLower(base)
	return []string{
		colType, colBuy, colBuyCurrency, colBuyValue + base,
		colSell, colSellCurrency, colSellValue + base,
		colExchange, colComment, colTradeDate,
	}
}

// checkColumns returns a *SchemaError listing every required column absent
// from columns.
func checkColumns(columns []string, base string) error {
	var missing []string
	for _, name := range requiredColumns(base) {
		if !slices.Contains(columns, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
