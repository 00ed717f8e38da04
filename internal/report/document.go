// Package report holds the in-memory report document assembled by the
// extraction passes, and the renderers that turn it into artifacts.
package report

import "github.com/envreport/sitesummary/internal/extract"

type blockKind int

const (
	blockHeading blockKind = iota
	blockParagraph
	blockTable
	blockPageBreak
)

type block struct {
	kind       blockKind
	level      int
	text       string
	table      extract.Table
	highlights [][2]int
}

// Chart is a named dataset handed to downstream chart tooling; nothing in
// this package renders it.
type Chart struct {
	Title  string
	Series []extract.Series
}

// Document is an ordered list of content blocks. The passes append to it in
// report order: narrative first, then extracted tables and summaries.
type Document struct {
	Title  string
	blocks []block
	charts []Chart
}

func New(title string) *Document {
	return &Document{Title: title}
}

func (d *Document) AddHeading(text string, level int) {
	d.blocks = append(d.blocks, block{kind: blockHeading, level: level, text: text})
}

func (d *Document) AddParagraph(text string) {
	d.blocks = append(d.blocks, block{kind: blockParagraph, text: text})
}

// AddTable appends a table; highlights are (row, col) data cells rendered as
// exceedances.
func (d *Document) AddTable(name string, t extract.Table, highlights [][2]int) {
	d.blocks = append(d.blocks, block{kind: blockTable, text: name, table: t, highlights: highlights})
}

func (d *Document) AddPageBreak() {
	d.blocks = append(d.blocks, block{kind: blockPageBreak})
}

func (d *Document) AddChart(title string, series []extract.Series) {
	d.charts = append(d.charts, Chart{Title: title, Series: series})
}

// Paragraphs returns every paragraph in document order. The threshold pass
// reads the capacity out of narrative already written by the base builder.
func (d *Document) Paragraphs() []string {
	var out []string
	for _, b := range d.blocks {
		if b.kind == blockParagraph {
			out = append(out, b.text)
		}
	}
	return out
}

// InsertParagraphAfter places text directly after the first paragraph or
// heading matched by the predicate. It reports whether a match was found;
// callers append at the end when none is.
func (d *Document) InsertParagraphAfter(match func(string) bool, text string) bool {
	for i, b := range d.blocks {
		if b.kind != blockParagraph && b.kind != blockHeading {
			continue
		}
		if !match(b.text) {
			continue
		}
		ins := block{kind: blockParagraph, text: text}
		d.blocks = append(d.blocks[:i+1], append([]block{ins}, d.blocks[i+1:]...)...)
		return true
	}
	return false
}

// NamedTable is one extracted table with its section name, for the workbook
// renderer.
type NamedTable struct {
	Name       string
	Table      extract.Table
	Highlights [][2]int
}

func (d *Document) Tables() []NamedTable {
	var out []NamedTable
	for _, b := range d.blocks {
		if b.kind == blockTable {
			out = append(out, NamedTable{Name: b.text, Table: b.table, Highlights: b.highlights})
		}
	}
	return out
}

func (d *Document) Charts() []Chart {
	return d.charts
}
