package gains

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/go-multierror"
)

func TestReadTable(t *testing.T) {
	table := readTable(t, "\ufeff"+header+"\n"+`"Trade","1","BTC","100","100","USD","100","Kraken","","01.01.2017 10:00"`+"\n")
	if table.Header[0] != "Type" {
		t.Errorf("Header[0] = %q, want the byte order mark removed", table.Header[0])
	}
	if len(table.Rows) != 1 {
		t.Errorf("Rows = %d, want 1", len(table.Rows))
	}

	if _, err := ReadTable(strings.NewReader(header + "\n" + `"Trade","1","BTC"` + "\n")); err == nil {
		t.Error("ReadTable() of a ragged row: want an error")
	}
	if _, err := ReadTable(strings.NewReader("")); err == nil {
		t.Error("ReadTable() of an empty input: want an error")
	}
	if _, err := ReadTable(errorsReader{}); err == nil {
		t.Error("ReadTable() of a failing reader: want an error")
	}
}

type errorsReader struct{}

func (errorsReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestNormalize(t *testing.T) {
	table := readTable(t, header+`
"Trade","10","BTC","1000","1000","USD","1000","Kraken","first","01.01.2017 10:00"
"Trade","100","XRP","-","2","eth","250","Binance","","01.05.2018 10:00"
"Income","0.5","BTC","3000","-","","-","","","01.06.2018 10:00"
"Trade","6000","USD","6000","12","BTC","6000.123456789","Kraken","","01.02.2018 10:00"
`)
	ledger, err := Normalize(table, DefaultConfig())
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}
	if ledger.Base != "USD" {
		t.Errorf("Base = %q, want USD", ledger.Base)
	}

	want := []Trade{
		{
			Row: 1, Kind: "Trade",
			BuyQuantity: D("10"), BuyCurrency: "BTC", BuyValue: D("1000"),
			SellQuantity: D("1000"), SellCurrency: "USD", SellValue: D("1000"),
			Exchange: "Kraken", Comment: "first", Date: T("01.01.2017 10:00"),
			BuyTradeValue: D("1000"), SellTradeValue: D("1000"),
			SellIsFiat: true,
		},
		{
			// crypto to crypto: both sides are worth the sell value.
			Row: 2, Kind: "Trade",
			BuyQuantity: D("100"), BuyCurrency: "XRP", BuyValue: D("0"),
			SellQuantity: D("2"), SellCurrency: "ETH", SellValue: D("250"),
			Exchange: "Binance", Date: T("01.05.2018 10:00"),
			BuyTradeValue: D("250"), SellTradeValue: D("250"),
		},
		{
			// no sell value: both sides use the buy value.
			Row: 3, Kind: "Income",
			BuyQuantity: D("0.5"), BuyCurrency: "BTC", BuyValue: D("3000"),
			SellQuantity: D("0"), SellCurrency: "", SellValue: D("0"),
			Date:          T("01.06.2018 10:00"),
			BuyTradeValue: D("3000"), SellTradeValue: D("3000"),
		},
		{
			// base side is worth its own quantity, values rounded to 8 digits.
			Row: 4, Kind: "Trade",
			BuyQuantity: D("6000"), BuyCurrency: "USD", BuyValue: D("6000"),
			SellQuantity: D("12"), SellCurrency: "BTC", SellValue: D("6000.12345679"),
			Exchange: "Kraken", Date: T("01.02.2018 10:00"),
			BuyTradeValue: D("6000"), SellTradeValue: D("6000.12345679"),
			BuyIsFiat: true,
		},
	}
	if diff := cmp.Diff(want, ledger.Trades, decimalComparer); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}

	buys := ledger.BuyEvents()
	wantBuys := []Event{
		{Currency: "BTC", Quantity: D("10"), Value: D("1000"), Exchange: "Kraken", Comment: "first", Date: T("01.01.2017 10:00"), Seq: 1},
		{Currency: "XRP", Quantity: D("100"), Value: D("250"), Exchange: "Binance", Date: T("01.05.2018 10:00"), Seq: 2},
		{Currency: "BTC", Quantity: D("0.5"), Value: D("3000"), Date: T("01.06.2018 10:00"), Seq: 3},
	}
	if diff := cmp.Diff(wantBuys, buys, decimalComparer); diff != "" {
		t.Errorf("BuyEvents() mismatch (-want +got):\n%s", diff)
	}
	sells := ledger.SellEvents()
	wantSells := []Event{
		{Currency: "ETH", Quantity: D("2"), Value: D("250"), Exchange: "Binance", Date: T("01.05.2018 10:00"), Seq: 2},
		{Currency: "BTC", Quantity: D("12"), Value: D("6000.12345679"), Exchange: "Kraken", Date: T("01.02.2018 10:00"), Seq: 4},
	}
	if diff := cmp.Diff(wantSells, sells, decimalComparer); diff != "" {
		t.Errorf("SellEvents() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_FormatErrors(t *testing.T) {
	table := readTable(t, header+`
"Trade","ten","BTC","1000","1000","USD","1000","Kraken","","01.01.2017 10:00"
"Trade","1","BTC","1000","-3","USD","1000","Kraken","","01.01.2017 10:00"
"Trade","1","BTC","1000","1000","USD","1000","Kraken","","2017-01-01"
`)
	// tables built by hand are not checked by ReadTable.
	table.Rows = append(table.Rows, []string{"Trade", "1"})
	_, err := Normalize(table, DefaultConfig())
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("Normalize() error = %v, want aggregated errors", err)
	}
	var got []FormatError
	for _, e := range merr.Errors {
		var ferr *FormatError
		if !errors.As(e, &ferr) {
			t.Fatalf("Normalize() error %v, want a FormatError", e)
		}
		got = append(got, *ferr)
	}
	want := []FormatError{
		{Row: 1, Column: "buy", Value: "ten"},
		{Row: 2, Column: "sell", Value: "-3"},
		{Row: 3, Column: "trade_date", Value: "2017-01-01"},
		{Row: 4, Value: "Trade,1"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(FormatError{}, "Err")); diff != "" {
		t.Errorf("FormatErrors mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_Schema(t *testing.T) {
	table := readTable(t, `"Type","Buy","Cur.","Buy value in USD","Trade Date"`+"\n")
	_, err := Normalize(table, DefaultConfig())
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("Normalize() error = %v, want a SchemaError", err)
	}
	if len(serr.Missing) != 5 {
		t.Errorf("Missing = %v, want 5 columns", serr.Missing)
	}
}
