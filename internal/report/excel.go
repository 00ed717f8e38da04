package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RunInfo is the metadata written to the workbook's summary sheet.
type RunInfo struct {
	Site        string
	Person      string
	Period      string
	Threshold   string
	Exceedances int
}

// ExcelRenderer writes the extracted tables to a companion workbook: one
// summary sheet plus one sheet per table.
type ExcelRenderer struct{}

func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{}
}

func (r *ExcelRenderer) Render(doc *Document, info RunInfo) ([]byte, error) {
	file := excelize.NewFile()

	const summarySheet = "Summary"
	file.SetSheetName("Sheet1", summarySheet)

	set := func(sheet, cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	tables := doc.Tables()

	set(summarySheet, "A1", "Report")
	set(summarySheet, "B1", doc.Title)
	set(summarySheet, "A2", "Site")
	set(summarySheet, "B2", info.Site)
	set(summarySheet, "A3", "Assigned to")
	set(summarySheet, "B3", info.Person)
	set(summarySheet, "A4", "Period")
	set(summarySheet, "B4", info.Period)
	set(summarySheet, "A5", "Capacity threshold")
	set(summarySheet, "B5", info.Threshold)
	set(summarySheet, "A6", "Exceedances")
	set(summarySheet, "B6", info.Exceedances)
	set(summarySheet, "A7", "Extracted tables")
	set(summarySheet, "B7", len(tables))
	_ = file.SetColWidth(summarySheet, "A", "A", 22)
	_ = file.SetColWidth(summarySheet, "B", "B", 40)

	redFont, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "FF0000"}})
	if err != nil {
		return nil, err
	}

	used := map[string]struct{}{summarySheet: {}}
	for _, nt := range tables {
		sheetName := buildSheetName(nt.Name, used)
		used[sheetName] = struct{}{}
		if _, err := file.NewSheet(sheetName); err != nil {
			return nil, err
		}

		for c, h := range nt.Table.Headers {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			set(sheetName, cell, h)
		}
		for ri, row := range nt.Table.Rows {
			for ci, v := range row {
				cell, _ := excelize.CoordinatesToCellName(ci+1, ri+2)
				set(sheetName, cell, v)
			}
		}
		for _, h := range nt.Highlights {
			cell, _ := excelize.CoordinatesToCellName(h[1]+1, h[0]+2)
			_ = file.SetCellStyle(sheetName, cell, cell, redFont)
		}
		if len(nt.Table.Headers) > 0 {
			last, _ := excelize.ColumnNumberToName(len(nt.Table.Headers))
			_ = file.SetColWidth(sheetName, "A", last, 14)
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Worksheet names cap at 31 characters and must be unique; collisions get a
// numeric suffix.
func buildSheetName(name string, used map[string]struct{}) string {
	base := sanitizeSheetName(name)
	if len(base) > 31 {
		base = base[:31]
	}

	candidate := base
	counter := 2
	for {
		if _, exists := used[candidate]; !exists {
			return candidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > 31 {
			trimmed = trimmed[:31-len(suffix)]
		}
		candidate = trimmed + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Extract"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return "Extract"
	}
	return value
}
