package report

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer turns a Document into a PDF using the core Helvetica fonts.
type PDFRenderer struct {
	fontName string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{fontName: "Helvetica"}
}

func (r *PDFRenderer) Render(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(r.fontName, "B", 18)
	pdf.CellFormat(0, 12, doc.Title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, b := range doc.blocks {
		switch b.kind {
		case blockHeading:
			r.heading(pdf, b.text, b.level)
		case blockParagraph:
			pdf.SetFont(r.fontName, "", 11)
			pdf.MultiCell(0, 5.5, b.text, "", "L", false)
			pdf.Ln(1)
		case blockTable:
			r.table(pdf, b.table.Headers, b.table.Rows, b.highlights)
			pdf.Ln(3)
		case blockPageBreak:
			pdf.AddPage()
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) heading(pdf *gofpdf.Fpdf, text string, level int) {
	size := 14.0
	if level >= 2 {
		size = 12
	}
	pdf.Ln(2)
	pdf.SetFont(r.fontName, "B", size)
	pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
}

func (r *PDFRenderer) table(pdf *gofpdf.Fpdf, headers []string, rows [][]string, highlights [][2]int) {
	if len(headers) == 0 {
		return
	}

	marked := make(map[[2]int]struct{}, len(highlights))
	for _, h := range highlights {
		marked[h] = struct{}{}
	}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right
	colW := usable / float64(len(headers))

	pdf.SetFont(r.fontName, "B", 9)
	for _, h := range headers {
		pdf.CellFormat(colW, 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(r.fontName, "", 9)
	for ri, row := range rows {
		for ci := 0; ci < len(headers); ci++ {
			cell := ""
			if ci < len(row) {
				cell = row[ci]
			}
			if _, hot := marked[[2]int{ri, ci}]; hot {
				pdf.SetTextColor(200, 0, 0)
			}
			align := "R"
			if ci == 0 {
				align = "L"
			}
			pdf.CellFormat(colW, 6, cell, "1", 0, align, false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(-1)
	}
}
