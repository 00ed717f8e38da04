package extract

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		header string
		group  Group
		keep   bool
	}{
		{"cBOD5 (mg/L)", GroupOxygenDemand, true},
		{"BOD", GroupOxygenDemand, true},
		{"TSS", GroupOxygenDemand, true},
		{"TKN", GroupNitrogen, true},
		{"TAN (mg/L)", GroupNitrogen, true},
		{"NO3-N", GroupNitrogen, true},
		{"Units", GroupUnclassified, false},
		{"ECA Objective", GroupUnclassified, false},
		{"CofA Limit", GroupUnclassified, false},
		{"Average", GroupUnclassified, false},
		{"Date", GroupUnclassified, false},
		{"", GroupUnclassified, false},
		{"pH", GroupUnclassified, false},
		{"Temperature", GroupUnclassified, false},
	}
	for _, c := range cases {
		group, keep := Classify(c.header)
		if group != c.group || keep != c.keep {
			t.Fatalf("Classify(%q) = %v, %v; want %v, %v", c.header, group, keep, c.group, c.keep)
		}
	}
}
