// Package threshold extracts a site's rated capacity from report narrative
// text and classifies flow values against it.
package threshold

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Capacity phrasings vary between permits; the number is always a
// comma-grouped quantity followed by the L/day unit.
var capacityPattern = regexp.MustCompile(
	`(?i)(?:peak rated capacity|peak design daily flow rated capacity of)\s*.*?([\d,]+(?:\.\d+)?)\s*L/day`,
)

// ExtractCapacity scans narrative paragraphs for a rated-capacity phrase and
// returns the first quantity found.
func ExtractCapacity(paragraphs []string) (float64, bool) {
	for _, p := range paragraphs {
		m := capacityPattern.FindStringSubmatch(p)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

// Exceeds reports whether a single value is over the capacity.
func Exceeds(value, capacity float64) bool {
	return value > capacity
}

// ClassifyAverage bands the series average against the capacity: below 90%
// is "well within", 90% through 100% inclusive is "close to", anything over
// is "above".
func ClassifyAverage(avg, capacity float64) string {
	switch {
	case avg < 0.9*capacity:
		return "well within"
	case avg <= capacity:
		return "close to"
	default:
		return "above"
	}
}

// Summary builds the narrative exceedance sentence for a flow series.
func Summary(exceedCount int, capacity, avg float64) string {
	return fmt.Sprintf(
		"%d day(s) exceeded the peak rated capacity of %s L/day. The average daily flow remained %s the anticipated range.",
		exceedCount, groupThousands(int64(capacity)), ClassifyAverage(avg, capacity),
	)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		return "-" + out
	}
	return out
}
