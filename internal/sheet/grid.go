package sheet

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Grid is read-only access to one worksheet's cells. Indices are zero-based.
// The extraction pipeline is written against this interface so it can run on
// any tabular source, not just an excelize workbook.
type Grid interface {
	Rows() int
	Cols() int
	Cell(row, col int) string
}

type rowsGrid struct {
	rows [][]string
	cols int
}

// FromRows wraps a ragged row matrix as a Grid.
func FromRows(rows [][]string) Grid {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return &rowsGrid{rows: rows, cols: cols}
}

func (g *rowsGrid) Rows() int { return len(g.rows) }
func (g *rowsGrid) Cols() int { return g.cols }

func (g *rowsGrid) Cell(row, col int) string {
	if row < 0 || row >= len(g.rows) {
		return ""
	}
	r := g.rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Workbook wraps an open spreadsheet file.
type Workbook struct {
	file *excelize.File
}

func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{file: f}, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Grid materializes one worksheet. Cells are read raw, not through their
// number formats, so date-typed cells surface as serial values the date
// normalizer can decode regardless of display style.
func (w *Workbook) Grid(name string) (Grid, error) {
	rows, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return FromRows(rows), nil
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize lowercases a header token and strips everything that is not a
// letter or digit, so "cBOD5 (mg/L)" and "CBOD5" compare equal.
func Normalize(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}

// ContainsAny reports whether s contains any of the keywords.
func ContainsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
