package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRegistry(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sites.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	path := writeRegistry(t, `[
		{"site": "Cedar Grove", "person": "R. Patel", "months": ["March", "July", "November"]},
		{"site": "Millbrook", "months": ["June"], "excel": "millbrook-lagoon.xlsx"}
	]`)

	sites, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(sites) != 2 {
		t.Fatalf("sites = %d", len(sites))
	}
	if sites[0].Excel != "Cedar Grove.xlsx" {
		t.Fatalf("default excel = %q", sites[0].Excel)
	}
	if sites[1].Person != "Unassigned" {
		t.Fatalf("default person = %q", sites[1].Person)
	}
	if sites[1].Excel != "millbrook-lagoon.xlsx" {
		t.Fatalf("explicit excel = %q", sites[1].Excel)
	}
}

func TestLoad_RejectsBadMonth(t *testing.T) {
	t.Parallel()

	path := writeRegistry(t, `[{"site": "Cedar Grove", "months": ["Mayvember"]}]`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for invalid month")
	}
}

func TestScheduledFor(t *testing.T) {
	t.Parallel()

	s := Site{Name: "Cedar Grove", Months: []string{"March", "July", "November"}}
	if !s.ScheduledFor(7) {
		t.Fatalf("expected July scheduled")
	}
	if s.ScheduledFor(5) {
		t.Fatalf("May should not be scheduled")
	}
}

func TestWorkbookPath_StemFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "CEDAR GROVE.xlsx"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := Site{Name: "Cedar Grove", Excel: "Cedar Grove.xlsx"}
	got, ok := s.WorkbookPath(dir)
	if !ok || filepath.Base(got) != "CEDAR GROVE.xlsx" {
		t.Fatalf("workbook = %q, %v", got, ok)
	}
}
