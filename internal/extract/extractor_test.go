package extract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/envreport/sitesummary/internal/sheet"
	"github.com/envreport/sitesummary/internal/window"
)

// Mirrors a real monitoring workbook: title rows, parameter header on the
// fifth row, a Units meta row, then dated measurements.
func qualityGrid() sheet.Grid {
	return sheet.FromRows([][]string{
		{"Ferndale Lagoon WWTP"},
		{"Sample Results"},
		{""},
		{""},
		{"Date", "CBOD5", "TSS", "TKN", "Units"},
		{"Units", "mg/L", "mg/L", "mg/L", ""},
		{"31-Dec-23", "9.9", "12.0", "4.4"},
		{"03-Jan-24", "3.1", "8.0", "1.4"},
		{"10-Jan-24", "2.8", "7.5", "1.2"},
		{"17-Jan-24", "24.5", "9.0", "1.6"},
		{"24-Jan-24", "3.0", "n/a", "1.1"},
		{"07-Feb-24", "2.6", "6.8", "1.3"},
		{"14-Feb-24", "2.9", "7.1", "1.2"},
		{"21-Feb-24", "3.2", "7.7", "1.5"},
		{"28-Feb-24", "2.7", "6.5", "1.0"},
	})
}

func TestExtract_EndToEnd(t *testing.T) {
	t.Parallel()

	win := window.Lookback(2024, 2, 2) // Jan+Feb 2024
	res := Extract("Biofilter Effluent", qualityGrid(), win)
	if res.Skip != SkipNone {
		t.Fatalf("unexpected skip: %s", res.Skip)
	}
	data := res.Data

	wantHeaders := []string{"Date", "CBOD5", "TSS", "TKN"}
	if len(data.Table.Headers) != len(wantHeaders) {
		t.Fatalf("headers = %v", data.Table.Headers)
	}
	for i, h := range wantHeaders {
		if data.Table.Headers[i] != h {
			t.Fatalf("headers = %v", data.Table.Headers)
		}
	}

	// 8 rows inside the window; the 31-Dec-23 row is one day before the
	// window start and must not appear anywhere.
	if len(data.Table.Rows) != 8 {
		t.Fatalf("rows = %d: %v", len(data.Table.Rows), data.Table.Rows)
	}
	for _, row := range data.Table.Rows {
		if row[0] == "31-Dec-23" {
			t.Fatalf("out-of-window row leaked into table")
		}
	}

	if len(data.OxygenSeries) != 2 {
		t.Fatalf("oxygen series = %d", len(data.OxygenSeries))
	}
	if len(data.NitroSeries) != 1 || data.NitroSeries[0].Label != "TKN" {
		t.Fatalf("nitrogen series = %+v", data.NitroSeries)
	}

	cbod := data.OxygenSeries[0]
	if cbod.Label != "CBOD5" || len(cbod.Points) != 8 {
		t.Fatalf("cbod series = %+v", cbod)
	}
	for _, p := range cbod.Points {
		if p.When.Year() == 2023 {
			t.Fatalf("out-of-window point leaked into series: %+v", p)
		}
	}

	// "n/a" is omitted, never zero-filled.
	tss := data.OxygenSeries[1]
	if tss.Label != "TSS" || len(tss.Points) != 7 {
		t.Fatalf("tss series = %+v", tss)
	}
	for _, p := range tss.Points {
		if p.Value == 0 {
			t.Fatalf("non-numeric cell was zero-filled")
		}
	}
}

// Workbooks written with date-typed cells must extract the same as workbooks
// with date strings.
func TestExtract_NativeDateCells(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	name := "Raw Sewage"
	f.SetSheetName("Sheet1", name)
	headers := []interface{}{"Date", "CBOD5", "TSS", "TKN"}
	for c, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(name, cell, h); err != nil {
			t.Fatal(err)
		}
	}
	rows := [][]interface{}{
		{time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC), 3.1, 8.0, 1.4},
		{time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), 2.8, 7.5, 1.2},
		{time.Date(2024, time.January, 17, 0, 0, 0, 0, time.UTC), 3.4, 9.0, 1.6},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(name, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "native.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	wb, err := sheet.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()
	g, err := wb.Grid(name)
	if err != nil {
		t.Fatal(err)
	}

	res := Extract(name, g, window.Lookback(2024, 1, 6))
	if res.Skip != SkipNone {
		t.Fatalf("unexpected skip: %s", res.Skip)
	}
	if len(res.Data.Table.Rows) != 3 {
		t.Fatalf("rows = %v", res.Data.Table.Rows)
	}
	if got := res.Data.Table.Rows[0][0]; got != "03-Jan-24" {
		t.Fatalf("first date = %q", got)
	}
	cbod := res.Data.OxygenSeries[0]
	if len(cbod.Points) != 3 || !cbod.Points[0].When.Equal(time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("cbod series = %+v", cbod)
	}
}

func TestExtract_SeriesSortedWhenRowsOutOfOrder(t *testing.T) {
	t.Parallel()

	g := sheet.FromRows([][]string{
		{"Date", "CBOD5", "TSS"},
		{"15-Jan-24", "3.0", "7.0"},
		{"02-Jan-24", "2.0", "6.0"},
		{"29-Jan-24", "4.0", "8.0"},
	})
	res := Extract("Raw Sewage", g, window.Lookback(2024, 1, 1))
	if res.Skip != SkipNone {
		t.Fatalf("unexpected skip: %s", res.Skip)
	}
	pts := res.Data.OxygenSeries[0].Points
	for i := 1; i < len(pts); i++ {
		if pts[i].When.Before(pts[i-1].When) {
			t.Fatalf("series not sorted: %+v", pts)
		}
	}
}

func TestExtract_SkipReasons(t *testing.T) {
	t.Parallel()

	win := window.Lookback(2024, 1, 6)

	noAnchor := sheet.FromRows([][]string{{"notes only"}, {"nothing tabular"}})
	if res := Extract("Notes", noAnchor, win); res.Skip != SkipNoAnchor {
		t.Fatalf("skip = %q", res.Skip)
	}

	noDates := sheet.FromRows([][]string{
		{"Date", "CBOD5", "TSS"},
		{"pending", "3.1", "8.0"},
	})
	if res := Extract("Empty", noDates, win); res.Skip != SkipNoDates {
		t.Fatalf("skip = %q", res.Skip)
	}

	outside := sheet.FromRows([][]string{
		{"Date", "CBOD5", "TSS"},
		{"03-Jan-22", "3.1", "8.0"},
	})
	if res := Extract("Old", outside, win); res.Skip != SkipEmptyWindow {
		t.Fatalf("skip = %q", res.Skip)
	}

	noNumeric := sheet.FromRows([][]string{
		{"Date", "CBOD5", "TSS"},
		{"03-Jan-24", "n/a", "pending"},
	})
	if res := Extract("Dry", noNumeric, win); res.Skip != SkipNoColumns {
		t.Fatalf("skip = %q", res.Skip)
	}
}
