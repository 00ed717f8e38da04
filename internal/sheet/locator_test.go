package sheet

import "testing"

var testKeywords = []string{"cbod", "tss", "tkn", "tan", "no3", "no2", "tn", "bod", "tp"}

func TestFindHeaderRow(t *testing.T) {
	t.Parallel()

	g := FromRows([][]string{
		{"Ferndale WWTP"},
		{"Monitoring results"},
		{"Date", "cBOD5 (mg/L)", "TSS (mg/L)", "TKN"},
		{"1-Jan-24", "3.1", "5.0", "1.2"},
	})
	row, ok := FindHeaderRow(g, testKeywords)
	if !ok || row != 2 {
		t.Fatalf("header row = %d, %v", row, ok)
	}
}

func TestFindHeaderRow_NotFound(t *testing.T) {
	t.Parallel()

	g := FromRows([][]string{
		{"Notes"},
		{"nothing", "useful", "here"},
	})
	if row, ok := FindHeaderRow(g, testKeywords); ok {
		t.Fatalf("unexpected header row %d", row)
	}
}

func TestFindHeaderRow_SingleHitNotEnough(t *testing.T) {
	t.Parallel()

	g := FromRows([][]string{
		{"mentions TSS once", "but", "nothing else"},
	})
	if row, ok := FindHeaderRow(g, testKeywords); ok {
		t.Fatalf("unexpected header row %d", row)
	}
}

func TestFindDateColumn_HeaderPreferred(t *testing.T) {
	t.Parallel()

	g := FromRows([][]string{
		{"", "Sample Date", "cBOD5"},
		{"", "1-Jan-24", "3.1"},
	})
	col, ok := FindDateColumn(g)
	if !ok || col != 1 {
		t.Fatalf("date column = %d, %v", col, ok)
	}
}

func TestFindDateColumn_DensityFallback(t *testing.T) {
	t.Parallel()

	g := FromRows([][]string{
		{"label", "n/a", "1-Jan-24"},
		{"label", "<2", "8-Jan-24"},
		{"label", "n/a", "15-Jan-24"},
	})
	col, ok := FindDateColumn(g)
	if !ok || col != 2 {
		t.Fatalf("date column = %d, %v", col, ok)
	}
}

func TestFindDateColumn_NoDates(t *testing.T) {
	t.Parallel()

	g := FromRows([][]string{
		{"a", "b"},
		{"c", "d"},
	})
	if col, ok := FindDateColumn(g); ok {
		t.Fatalf("unexpected date column %d", col)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	if got := Normalize("cBOD5 (mg/L)"); got != "cbod5mgl" {
		t.Fatalf("Normalize = %q", got)
	}
	if got := Normalize("  TKN  "); got != "tkn" {
		t.Fatalf("Normalize = %q", got)
	}
}
