package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/envreport/sitesummary/internal/sheet"
)

// Flow sheets follow a different convention than the parameter sheets: a
// literal "Date" label row in the first column, a terminating "Average" row,
// and one measurement column per instrument.

const (
	SkipNoDateRow SkipReason = "no Date row in first column"
	SkipNoAvgRow  SkipReason = "no Average row below the Date row"
)

var pumpHeader = regexp.MustCompile(`(?i)^pump\s*\d`)

// FlowData is everything extracted from one flow worksheet.
type FlowData struct {
	Sheet      string
	Table      Table
	Points     []Point   // dated flow values
	Values     []float64 // every numeric flow value in the span, dated or not
	Exceeding  []Point   // dated values above the capacity threshold
	ExceedN    int       // all values above threshold, dated or not
	Highlights [][2]int  // table cells (row, col) holding exceeding values
}

// FlowResult pairs a flow worksheet with its data or a skip reason.
type FlowResult struct {
	Sheet string
	Data  *FlowData
	Skip  SkipReason
}

// ExtractFlow pulls the daily-flow table and series out of one flow sheet.
// A capacity of zero means no threshold is known and nothing is flagged.
func ExtractFlow(sheetName string, g sheet.Grid, capacity float64) FlowResult {
	dateRow, avgRow, ok := findFlowSpan(g)
	if !ok {
		if dateRow < 0 {
			return FlowResult{Sheet: sheetName, Skip: SkipNoDateRow}
		}
		return FlowResult{Sheet: sheetName, Skip: SkipNoAvgRow}
	}

	keep := flowColumns(g, dateRow, avgRow)
	if len(keep) == 0 {
		return FlowResult{Sheet: sheetName, Skip: SkipNoColumns}
	}

	flowCol, flowTableIdx := pickFlowColumn(g, dateRow, keep)

	data := &FlowData{Sheet: sheetName}
	for r := dateRow; r <= avgRow; r++ {
		var row []string
		for _, c := range keep {
			row = append(row, formatFlowCell(g.Cell(r, c)))
		}
		data.Table.Rows = append(data.Table.Rows, row)
	}
	if len(data.Table.Rows) > 0 {
		data.Table.Headers = data.Table.Rows[0]
		data.Table.Rows = data.Table.Rows[1:]
	}

	for r := dateRow; r <= avgRow; r++ {
		v, err := strconv.ParseFloat(g.Cell(r, flowCol), 64)
		if err != nil {
			continue
		}
		dt, dated := sheet.ParseDateCell(g.Cell(r, 0))
		data.Values = append(data.Values, v)
		if dated {
			data.Points = append(data.Points, Point{When: dt, Value: v})
		}
		if capacity > 0 && v > capacity {
			data.ExceedN++
			if dated {
				data.Exceeding = append(data.Exceeding, Point{When: dt, Value: v})
			}
			// Table rows start one past the header row.
			data.Highlights = append(data.Highlights, [2]int{r - dateRow - 1, flowTableIdx})
		}
	}

	return FlowResult{Sheet: sheetName, Data: data}
}

// Average returns the mean of every numeric flow value in the span.
func (d *FlowData) Average() (float64, bool) {
	if len(d.Values) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range d.Values {
		sum += v
	}
	return sum / float64(len(d.Values)), true
}

func findFlowSpan(g sheet.Grid) (dateRow, avgRow int, ok bool) {
	dateRow, avgRow = -1, -1
	for r := 0; r < g.Rows(); r++ {
		if strings.EqualFold(strings.TrimSpace(g.Cell(r, 0)), "date") {
			dateRow = r
			break
		}
	}
	if dateRow < 0 {
		return -1, -1, false
	}
	for r := dateRow + 1; r < g.Rows(); r++ {
		var b strings.Builder
		for c := 0; c < g.Cols(); c++ {
			b.WriteString(strings.ToLower(g.Cell(r, c)))
			b.WriteByte(' ')
		}
		if strings.Contains(b.String(), "average") {
			avgRow = r
			break
		}
	}
	if avgRow < 0 {
		return dateRow, -1, false
	}
	return dateRow, avgRow, true
}

// flowColumns keeps columns up to the first "daily" header (total daily flow
// excepted), drops per-pump counters, and requires some data in the span.
func flowColumns(g sheet.Grid, dateRow, avgRow int) []int {
	var keep []int
	for c := 0; c < g.Cols(); c++ {
		header := strings.ToLower(strings.TrimSpace(g.Cell(dateRow, c)))
		if strings.Contains(header, "daily") && !strings.HasPrefix(header, "total daily flow") {
			break
		}
		if pumpHeader.MatchString(header) {
			continue
		}
		hasData := false
		for r := dateRow; r <= avgRow; r++ {
			if g.Cell(r, c) != "" {
				hasData = true
				break
			}
		}
		if hasData {
			keep = append(keep, c)
		}
	}
	return keep
}

// pickFlowColumn prefers the column headed exactly "Flow"; otherwise the last
// kept column carries the meter total.
func pickFlowColumn(g sheet.Grid, dateRow int, keep []int) (col, tableIdx int) {
	for i, c := range keep {
		if strings.EqualFold(strings.TrimSpace(g.Cell(dateRow, c)), "flow") {
			return c, i
		}
	}
	return keep[len(keep)-1], len(keep) - 1
}

func formatFlowCell(raw string) string {
	if dt, ok := sheet.ParseDateCell(raw); ok && !isMetaNumber(raw) {
		return dt.Format(tableDateLayout)
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return raw
}

// isMetaNumber keeps plain numeric cells out of the date formatter: a raw
// float is a measurement, not a serial date, everywhere except the date
// column, and the flow table formats by cell without column context.
func isMetaNumber(raw string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return err == nil
}
