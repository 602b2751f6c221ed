package gains

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of fractional digits every quantity and value
// is rounded to.
const DefaultPrecision = 8

// DefaultGiftComment marks a sell that removes inventory without being
// reported as a disposal.
const DefaultGiftComment = "gift"

// DefaultFiatCurrencies returns the fiat currency codes a base currency can be
// chosen from.
func DefaultFiatCurrencies() []string {
	return []string{
		"AED", "ARS", "AUD", "BRL", "CAD", "CHF", "CLP", "CNY", "CZK", "DKK", "EUR", "GBP",
		"HKD", "HUF", "IDR", "ILS", "INR", "JPY", "KRW", "MXN", "MYR", "NOK", "NZD", "PHP",
		"PKR", "PLN", "RON", "RUB", "SEK", "SGD", "THB", "TRY", "TWD", "UAH", "USD", "ZAR",
	}
}

// Config holds the explicit parameters of a gains computation.
type Config struct {
	// Fiat lists the currency codes considered fiat. Fiat sides of a trade
	// never become buy or sell events.
	Fiat []string
	// References lists the currencies reported next to the base currency.
	References []string
	// Precision is the number of fractional digits kept after every operation.
	Precision int32
	// GiftComment is compared case-insensitively to sell comments.
	GiftComment string
	// Workers bounds the number of concurrent price lookups.
	Workers int
}

// DefaultConfig returns the configuration used by the cgt command when nothing
// is overridden.
func DefaultConfig() Config {
	return Config{
		Fiat:        DefaultFiatCurrencies(),
		References:  []string{"BTC", "ETH"},
		Precision:   DefaultPrecision,
		GiftComment: DefaultGiftComment,
		Workers:     4,
	}
}

// Validate checks the configuration for inconsistencies.
func (c Config) Validate() error {
	if len(c.Fiat) == 0 {
		return fmt.Errorf("no fiat currency configured")
	}
	for _, code := range c.Fiat {
		if money.GetCurrency(strings.ToUpper(code)) == nil {
			return fmt.Errorf("invalid fiat currency %q: not an ISO 4217 code", code)
		}
	}
	for _, code := range c.References {
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("empty reference currency")
		}
	}
	if c.Precision < 0 || c.Precision > 16 {
		return fmt.Errorf("invalid precision %d: must be between 0 and 16", c.Precision)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers %d: must be at least 1", c.Workers)
	}
	return nil
}

// IsFiat reports whether code is one of the configured fiat currencies.
func (c Config) IsFiat(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	return slices.ContainsFunc(c.Fiat, func(f string) bool { return strings.ToUpper(f) == code })
}

// Currencies returns the reporting currencies: base first, then every
// reference currency once, upper-cased.
func (c Config) Currencies(base string) []string {
	base = strings.ToUpper(base)
	currencies := []string{base}
	for _, code := range c.References {
		code = strings.ToUpper(strings.TrimSpace(code))
		if !slices.Contains(currencies, code) {
			currencies = append(currencies, code)
		}
	}
	return currencies
}

// isGift reports whether a sell comment marks a gift.
func (c Config) isGift(comment string) bool {
	return c.GiftComment != "" && strings.EqualFold(comment, c.GiftComment)
}

func (c Config) round(d decimal.Decimal) decimal.Decimal { return d.Round(c.Precision) }
