package extract

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/envreport/sitesummary/internal/sheet"
	"github.com/envreport/sitesummary/internal/window"
)

const tableDateLayout = "02-Jan-06"

// Point is one dated measurement.
type Point struct {
	When  time.Time
	Value float64
}

// Series is one parameter's time-ordered measurements inside the reporting
// window.
type Series struct {
	Label  string
	Points []Point
}

// Table is the flat render-ready view of all in-window rows and kept columns.
type Table struct {
	Headers []string
	Rows    [][]string
}

// SkipReason explains why a worksheet contributed nothing. A skipped sheet is
// an expected outcome, not an error; the batch moves on.
type SkipReason string

const (
	SkipNone        SkipReason = ""
	SkipNoAnchor    SkipReason = "no parameter header row or date column"
	SkipNoDates     SkipReason = "no dated rows"
	SkipEmptyWindow SkipReason = "no rows inside the reporting window"
	SkipNoColumns   SkipReason = "no parameter columns with numeric data in window"
)

// SheetData is everything extracted from one qualifying worksheet.
type SheetData struct {
	Sheet        string
	Anchor       sheet.Anchor
	Table        Table
	OxygenSeries []Series
	NitroSeries  []Series
}

// Result pairs a worksheet with either its extracted data or a skip reason.
type Result struct {
	Sheet string
	Data  *SheetData
	Skip  SkipReason
}

// Meta rows directly under the header (units, regulatory objective/limit
// rows) are not data and are skipped before the date scan starts.
var metaRowKeywords = []string{"units", "cofa", "eca", "objective", "limit"}

// Extract runs the full pipeline on one worksheet: locate anchors, normalize
// row dates, classify columns, build the window-restricted table and series.
func Extract(sheetName string, g sheet.Grid, win window.Window) Result {
	anchor, ok := sheet.FindAnchor(g, ParameterKeywords)
	if !ok {
		return Result{Sheet: sheetName, Skip: SkipNoAnchor}
	}

	startRow := anchor.HeaderRow + 1
	for i := 0; i < 2; i++ {
		if rowMentionsMeta(g, startRow) {
			startRow++
		}
	}

	// All dated rows, in sheet order.
	var dates []time.Time
	var rowIdx []int
	for r := startRow; r < g.Rows(); r++ {
		if dt, ok := sheet.ParseDateCell(g.Cell(r, anchor.DateCol)); ok {
			dates = append(dates, dt)
			rowIdx = append(rowIdx, r)
		}
	}
	if len(dates) == 0 {
		return Result{Sheet: sheetName, Skip: SkipNoDates}
	}

	var inWin []int
	for i, dt := range dates {
		if win.Contains(dt) {
			inWin = append(inWin, i)
		}
	}
	if len(inWin) == 0 {
		return Result{Sheet: sheetName, Skip: SkipEmptyWindow}
	}

	// Keep only classified columns that hold at least one numeric value
	// inside the window; a column of dates but no data makes empty charts.
	type keptColumn struct {
		col   int
		label string
		group Group
	}
	var kept []keptColumn
	for c := 0; c < g.Cols(); c++ {
		if c == anchor.DateCol {
			continue
		}
		raw := g.Cell(anchor.HeaderRow, c)
		group, keep := Classify(raw)
		if !keep {
			continue
		}
		hasNumeric := false
		for _, i := range inWin {
			if _, err := strconv.ParseFloat(g.Cell(rowIdx[i], c), 64); err == nil {
				hasNumeric = true
				break
			}
		}
		if !hasNumeric {
			continue
		}
		kept = append(kept, keptColumn{col: c, label: strings.TrimSpace(raw), group: group})
	}
	if len(kept) == 0 {
		return Result{Sheet: sheetName, Skip: SkipNoColumns}
	}

	data := &SheetData{Sheet: sheetName, Anchor: anchor}

	data.Table.Headers = append(data.Table.Headers, "Date")
	for _, k := range kept {
		data.Table.Headers = append(data.Table.Headers, k.label)
	}
	for _, i := range inWin {
		row := []string{dates[i].Format(tableDateLayout)}
		for _, k := range kept {
			row = append(row, formatCell(g.Cell(rowIdx[i], k.col)))
		}
		data.Table.Rows = append(data.Table.Rows, row)
	}

	for _, k := range kept {
		var pts []Point
		for _, i := range inWin {
			v, err := strconv.ParseFloat(g.Cell(rowIdx[i], k.col), 64)
			if err != nil {
				continue
			}
			pts = append(pts, Point{When: dates[i], Value: v})
		}
		if len(pts) == 0 {
			continue
		}
		// Source rows can be out of order.
		sort.SliceStable(pts, func(a, b int) bool { return pts[a].When.Before(pts[b].When) })
		s := Series{Label: k.label, Points: pts}
		switch k.group {
		case GroupOxygenDemand:
			data.OxygenSeries = append(data.OxygenSeries, s)
		case GroupNitrogen:
			data.NitroSeries = append(data.NitroSeries, s)
		}
	}

	return Result{Sheet: sheetName, Data: data}
}

func rowMentionsMeta(g sheet.Grid, row int) bool {
	if row >= g.Rows() {
		return false
	}
	var b strings.Builder
	for c := 0; c < g.Cols(); c++ {
		b.WriteString(strings.ToLower(g.Cell(row, c)))
		b.WriteByte(' ')
	}
	return sheet.ContainsAny(b.String(), metaRowKeywords)
}

func formatCell(raw string) string {
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return raw
}
