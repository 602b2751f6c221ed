package gains

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeColumns(t *testing.T) {
	header := []string{"Type", "Buy", "Cur.", "Buy value in USD", "Sell", "Cur.", "Sell value in USD", " Exchange ", "Comment", "Trade Date"}
	want := []string{"type", "buy", "buy_currency", "buy_value_usd", "sell", "sell_currency", "sell_value_usd", "exchange", "comment", "trade_date"}
	if diff := cmp.Diff(want, NormalizeColumns(header)); diff != "" {
		t.Errorf("NormalizeColumns() mismatch (-want +got):\n%s", diff)
	}
}

func TestBaseCurrency(t *testing.T) {
	cfg := DefaultConfig()
	testCases := []struct {
		name    string
		columns []string
		want    string
		err     bool
	}{
		{"usd", []string{"buy", "buy_value_usd"}, "USD", false},
		{"btc is not fiat", []string{"buy_value_btc", "buy_value_eur"}, "EUR", false},
		{"last one wins", []string{"buy_value_usd", "buy_value_eur"}, "EUR", false},
		{"none", []string{"buy_value_btc"}, "", true},
		{"empty", nil, "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BaseCurrency(tc.columns, cfg)
			if tc.err {
				var cerr *ConfigurationError
				if !errors.As(err, &cerr) {
					t.Fatalf("BaseCurrency() error = %v, want a ConfigurationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BaseCurrency() unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("BaseCurrency() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBaseCurrency_Error(t *testing.T) {
	_, err := BaseCurrency([]string{"buy_value_btc"}, DefaultConfig())
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("BaseCurrency() error = %v, want a ConfigurationError", err)
	}
	if diff := cmp.Diff([]string{"buy_value_btc"}, cerr.Candidates); diff != "" {
		t.Errorf("Candidates mismatch (-want +got):\n%s", diff)
	}
	if len(cerr.Accepted) != len(DefaultFiatCurrencies()) {
		t.Errorf("Accepted = %v, want every fiat currency", cerr.Accepted)
	}
}

func TestCheckColumns(t *testing.T) {
	columns := []string{"type", "buy", "buy_currency", "buy_value_usd", "sell", "sell_value_usd", "trade_date"}
	err := checkColumns(columns, "USD")
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("checkColumns() error = %v, want a SchemaError", err)
	}
	want := []string{"sell_currency", "exchange", "comment"}
	if diff := cmp.Diff(want, serr.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
}
