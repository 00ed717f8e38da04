package extract

import "github.com/envreport/sitesummary/internal/sheet"

// Group routes a parameter column into one of the two chart families.
type Group int

const (
	GroupUnclassified Group = iota
	GroupOxygenDemand       // cBOD / BOD / TSS family
	GroupNitrogen           // nitrogen species family
)

func (g Group) String() string {
	switch g {
	case GroupOxygenDemand:
		return "cBOD/BOD/TSS"
	case GroupNitrogen:
		return "Nitrogen Species"
	default:
		return "Unclassified"
	}
}

// Classification rules are data, not conditionals: fixed keyword sets matched
// against normalized header text.
var (
	// ParameterKeywords drive header-row location: a row mentioning at
	// least two of these is the parameter header.
	ParameterKeywords = []string{
		"cbod", "cbod5", "tss", "tp", "tan", "tkn", "no3", "no2", "tn", "bod", "bod5",
	}

	oxygenKeywords   = []string{"cbod5", "bod5", "tss", "cbod", "bod"}
	nitrogenKeywords = []string{"tkn", "tan", "no2", "no3", "tn"}

	// Columns carrying units, regulatory objectives/limits, aggregates or
	// authorization codes are never data columns.
	excludeKeywords = []string{"units", "objective", "limit", "average", "median", "cofa", "eca"}
)

// Classify maps a raw header to its parameter group. The second return is
// false for headers that must be discarded outright: empty, the date column,
// an excluded meta column, or a parameter outside both families.
func Classify(rawHeader string) (Group, bool) {
	norm := sheet.Normalize(rawHeader)
	if norm == "" || norm == "date" {
		return GroupUnclassified, false
	}
	if sheet.ContainsAny(norm, excludeKeywords) {
		return GroupUnclassified, false
	}
	if sheet.ContainsAny(norm, oxygenKeywords) {
		return GroupOxygenDemand, true
	}
	if sheet.ContainsAny(norm, nitrogenKeywords) {
		return GroupNitrogen, true
	}
	return GroupUnclassified, false
}
