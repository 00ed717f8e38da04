package report

import (
	"strings"
	"testing"

	"github.com/envreport/sitesummary/internal/extract"
)

func TestDocument_ParagraphsInOrder(t *testing.T) {
	t.Parallel()

	d := New("Cedar Grove")
	d.AddParagraph("Assigned to: R. Patel")
	d.AddHeading("Results and Discussion", 1)
	d.AddParagraph("The system has a peak rated capacity of 50,000 L/day.")

	got := d.Paragraphs()
	if len(got) != 2 || !strings.Contains(got[1], "50,000") {
		t.Fatalf("paragraphs = %v", got)
	}
}

func TestDocument_InsertParagraphAfter(t *testing.T) {
	t.Parallel()

	d := New("Cedar Grove")
	d.AddParagraph("intro")
	d.AddHeading("Flow Discharged to the Subsurface Disposal System", 2)
	d.AddParagraph("tail")

	ok := d.InsertParagraphAfter(func(s string) bool {
		return strings.Contains(strings.ToLower(s), "subsurface")
	}, "2 day(s) exceeded the peak rated capacity of 50,000 L/day.")
	if !ok {
		t.Fatalf("no insertion point found")
	}

	got := d.Paragraphs()
	if len(got) != 3 || !strings.Contains(got[1], "exceeded") {
		t.Fatalf("paragraphs = %v", got)
	}
}

func TestDocument_InsertParagraphAfter_NoMatch(t *testing.T) {
	t.Parallel()

	d := New("Cedar Grove")
	d.AddParagraph("intro")
	if d.InsertParagraphAfter(func(string) bool { return false }, "x") {
		t.Fatalf("unexpected insertion")
	}
}

func TestBuildSheetName(t *testing.T) {
	t.Parallel()

	used := map[string]struct{}{}
	first := buildSheetName("Raw Sewage — Jan 24", used)
	used[first] = struct{}{}
	second := buildSheetName("Raw Sewage — Jan 24", used)
	if first == second {
		t.Fatalf("collision not resolved: %q", second)
	}
	if !strings.HasSuffix(second, "-2") {
		t.Fatalf("second = %q", second)
	}

	long := buildSheetName(strings.Repeat("Polisher Effluent ", 5), used)
	if len(long) > 31 {
		t.Fatalf("sheet name too long: %q", long)
	}

	if got := buildSheetName("a/b:c", used); strings.ContainsAny(got, "/:") {
		t.Fatalf("unsanitized name %q", got)
	}
}

func TestExcelRenderer_Render(t *testing.T) {
	t.Parallel()

	d := New("Summary - Cedar Grove - March 2024")
	d.AddTable("Biofilter Effluent", extract.Table{
		Headers: []string{"Date", "CBOD5"},
		Rows:    [][]string{{"03-Jan-24", "3.1"}},
	}, nil)

	out, err := NewExcelRenderer().Render(d, RunInfo{
		Site:   "Cedar Grove",
		Person: "R. Patel",
		Period: "January 2024 - March 2024",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 {
		t.Fatalf("empty workbook")
	}
}

func TestPDFRenderer_Render(t *testing.T) {
	t.Parallel()

	d := New("Summary - Cedar Grove - March 2024")
	d.AddParagraph("Assigned to: R. Patel")
	d.AddHeading("Appendix A: Tables & Series", 1)
	d.AddTable("Raw Sewage", extract.Table{
		Headers: []string{"Date", "CBOD5", "TSS"},
		Rows:    [][]string{{"03-Jan-24", "3.1", "8"}, {"10-Jan-24", "2.8", "7.5"}},
	}, [][2]int{{1, 2}})
	d.AddPageBreak()
	d.AddParagraph("closing note")

	out, err := NewPDFRenderer().Render(d)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 {
		t.Fatalf("empty pdf")
	}
}
