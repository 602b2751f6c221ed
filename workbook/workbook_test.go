package workbook

import (
	"bytes"
	"context"
	"testing"

	"github.com/etnz/gains"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func sampleReport(t *testing.T) *gains.Report {
	t.Helper()
	table, err := gains.ReadTableFile("../testdata/trades.csv")
	if err != nil {
		t.Fatalf("ReadTableFile() unexpected error: %v", err)
	}
	r, err := gains.Compute(context.Background(), table, gains.DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}
	return r
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleReport(t)); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() unexpected error: %v", err)
	}
	defer f.Close()

	wantSheets := []string{InputSheet, MatchSheet, RealizedSheet, RealizedPerUnitSheet, UnrealizedSheet, UnrealizedPerUnitSheet}
	if diff := cmp.Diff(wantSheets, f.GetSheetList()); diff != "" {
		t.Errorf("GetSheetList() mismatch (-want +got):\n%s", diff)
	}

	testCases := []struct {
		sheet string
		rows  int // header included
		// want are the leading cells of some rows, by row index
		want map[int][]string
	}{
		{
			sheet: InputSheet,
			rows:  7,
			want: map[int][]string{
				0: {"Type", "Buy", "Cur.", "Buy value in USD"},
				5: {"Gift/Tip", "-", "", "0", "2", "ETH"},
			},
		},
		{
			sheet: MatchSheet,
			rows:  7,
			want: map[int][]string{
				0: {"currency", "quantity", "buy_date", "sell_date", "buy_value_usd", "sell_value_usd", "gain_loss_usd", "buy_exchange"},
				1: {"ETH", "2"},
				2: {"BTC", "2"},
				3: {"BTC", "10"},
				4: {"XRP", "100"},
				5: {"BTC", "3"},
				6: {"ETH", "16"},
			},
		},
		{
			sheet: RealizedSheet,
			rows:  4,
			want: map[int][]string{
				0: {"sell_year", "currency", "quantity", "buy_value_usd", "sell_value_usd", "gain_loss_usd"},
				1: {"2018", "BTC", "12", "2000", "6000", "4000"},
				2: {"2018", "ETH", "2", "20", "250", "230"},
				3: {"Total", "", "", "2020", "6250", "4230"},
			},
		},
		{
			sheet: RealizedPerUnitSheet,
			rows:  3,
			want: map[int][]string{
				1: {"2018", "BTC", "12", "166.66666667", "500", "333.33333333"},
			},
		},
		{
			sheet: UnrealizedSheet,
			rows:  5,
			want: map[int][]string{
				0: {"currency", "quantity", "buy_value_usd"},
				1: {"BTC", "3", "1500"},
				4: {"Total", "", "1910"},
			},
		},
		{
			sheet: UnrealizedPerUnitSheet,
			rows:  4,
			want: map[int][]string{
				1: {"BTC", "3", "500"},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.sheet, func(t *testing.T) {
			rows, err := f.GetRows(tc.sheet)
			if err != nil {
				t.Fatalf("GetRows() unexpected error: %v", err)
			}
			if len(rows) != tc.rows {
				t.Fatalf("GetRows() = %d rows, want %d", len(rows), tc.rows)
			}
			for i, want := range tc.want {
				got := rows[i]
				if len(got) > len(want) {
					got = got[:len(want)]
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
				}
			}
		})
	}
}

func TestWrite_Format(t *testing.T) {
	f, err := Build(sampleReport(t))
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	defer f.Close()

	width, err := f.GetColWidth(MatchSheet, "E")
	if err != nil {
		t.Fatalf("GetColWidth() unexpected error: %v", err)
	}
	if want := float64(len("buy_value_usd") + 2); width != want {
		t.Errorf("GetColWidth(%q) = %v, want %v", "E", width, want)
	}

	panes, err := f.GetPanes(MatchSheet)
	if err != nil {
		t.Fatalf("GetPanes() unexpected error: %v", err)
	}
	if !panes.Freeze || panes.YSplit != 1 {
		t.Errorf("GetPanes() = %+v, want the header row frozen", panes)
	}
}
