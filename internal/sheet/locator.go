package sheet

import "strings"

const (
	headerScanRows = 80
	headerScanCols = 80
	dateScanRows   = 60
	dateScanCols   = 60
	dateScoreRows  = 40
)

// Anchor locates a worksheet's tabular data: the parameter header row and the
// date column, both zero-based.
type Anchor struct {
	HeaderRow int
	DateCol   int
}

// FindHeaderRow scans for the first row where at least two cells contain a
// parameter keyword after normalization.
func FindHeaderRow(g Grid, keywords []string) (int, bool) {
	maxR := min(g.Rows(), headerScanRows)
	maxC := min(g.Cols(), headerScanCols)
	for r := 0; r < maxR; r++ {
		hits := 0
		for c := 0; c < maxC; c++ {
			tok := Normalize(g.Cell(r, c))
			if tok == "" {
				continue
			}
			if ContainsAny(tok, keywords) {
				hits++
			}
		}
		if hits >= 2 {
			return r, true
		}
	}
	return 0, false
}

// FindDateColumn prefers the first cell whose text mentions "date". When no
// such cell exists it scores every column by how many of its leading rows
// parse as a date and picks the best; a column with no parseable dates at all
// never qualifies, so a sheet without dates is skipped instead of guessed at.
func FindDateColumn(g Grid) (int, bool) {
	maxR := min(g.Rows(), dateScanRows)
	maxC := min(g.Cols(), dateScanCols)
	for r := 0; r < maxR; r++ {
		for c := 0; c < maxC; c++ {
			if strings.Contains(strings.ToLower(g.Cell(r, c)), "date") {
				return c, true
			}
		}
	}

	bestCol, bestScore := 0, 0
	scoreRows := min(g.Rows(), dateScoreRows)
	for c := 0; c < maxC; c++ {
		score := 0
		for r := 0; r < scoreRows; r++ {
			if _, ok := ParseDateCell(g.Cell(r, c)); ok {
				score++
			}
		}
		if score > bestScore {
			bestScore, bestCol = score, c
		}
	}
	if bestScore == 0 {
		return 0, false
	}
	return bestCol, true
}

// FindAnchor locates both anchors; a worksheet missing either is not
// extractable.
func FindAnchor(g Grid, keywords []string) (Anchor, bool) {
	headerRow, ok := FindHeaderRow(g, keywords)
	if !ok {
		return Anchor{}, false
	}
	dateCol, ok := FindDateColumn(g)
	if !ok {
		return Anchor{}, false
	}
	return Anchor{HeaderRow: headerRow, DateCol: dateCol}, true
}
