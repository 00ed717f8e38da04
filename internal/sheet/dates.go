package sheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Ordered to match the report convention: day-first abbreviated forms are the
// common case, month-first US forms are the last resort.
var dateLayouts = []string{
	"2-Jan-2006",
	"2-Jan-06",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2/1/2006",
	"1/2/2006",
}

// Labels that show up in the date column of real sheets but are not dates.
var metaLabels = map[string]struct{}{
	"units":          {},
	"average":        {},
	"median":         {},
	"cofa objective": {},
	"eca objective":  {},
	"cofa limit":     {},
	"eca limit":      {},
}

// Excel's 1900 date system counts days from this epoch (serial 1 is
// 1900-01-01, with the historical leap-year bug folded in).
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDateCell converts a raw cell value into a timestamp, or reports that
// the cell holds no date. Spreadsheet tools encode dates inconsistently, so
// the fallback chain is: known meta label, formatted string, 1900-system
// serial number, manual epoch offset.
func ParseDateCell(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if _, meta := metaLabels[strings.ToLower(s)]; meta {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, false
	}
	if serial < 1 {
		// Pure time-of-day value.
		return time.Time{}, false
	}
	if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
		return t.UTC(), true
	}
	return serialEpoch.Add(time.Duration(serial * 24 * float64(time.Hour))), true
}
