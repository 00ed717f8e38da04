// Package registry loads the site registry: which sites exist, who reports
// on them, which months they are visited, and where their workbooks live.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/envreport/sitesummary/internal/calendar"
)

// Site is one registry record. Months is the ordered visit schedule and may
// wrap across a year boundary.
type Site struct {
	Name   string   `json:"site"`
	Person string   `json:"person"`
	Months []string `json:"months"`
	Excel  string   `json:"excel,omitempty"`
	Notes  []string `json:"notes,omitempty"`
}

// Load reads and validates the registry file.
func Load(path string) ([]Site, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site registry: %w", err)
	}
	var sites []Site
	if err := json.Unmarshal(raw, &sites); err != nil {
		return nil, fmt.Errorf("parse site registry %s: %w", path, err)
	}
	for i := range sites {
		if sites[i].Name == "" {
			return nil, fmt.Errorf("site registry %s: entry %d has no site name", path, i)
		}
		if sites[i].Excel == "" {
			sites[i].Excel = sites[i].Name + ".xlsx"
		}
		if strings.TrimSpace(sites[i].Person) == "" {
			sites[i].Person = "Unassigned"
		}
		for _, m := range sites[i].Months {
			if _, ok := calendar.Number(m); !ok {
				return nil, fmt.Errorf("site registry %s: site %q has invalid month %q", path, sites[i].Name, m)
			}
		}
	}
	return sites, nil
}

// ScheduledFor reports whether the site is visited in the given month.
func (s Site) ScheduledFor(month int) bool {
	for _, m := range s.Months {
		if n, ok := calendar.Number(m); ok && n == month {
			return true
		}
	}
	return false
}

// WorkbookPath resolves the site's spreadsheet under baseDir: the explicit
// filename when it exists, otherwise any workbook whose stem matches the
// configured name or the site name.
func (s Site) WorkbookPath(baseDir string) (string, bool) {
	explicit := filepath.Join(baseDir, s.Excel)
	if _, err := os.Stat(explicit); err == nil {
		return explicit, true
	}

	stem := strings.ToLower(strings.TrimSuffix(s.Excel, filepath.Ext(s.Excel)))
	matches, _ := filepath.Glob(filepath.Join(baseDir, "*.xls*"))
	for _, p := range matches {
		name := strings.ToLower(strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)))
		if name == stem || name == strings.ToLower(s.Name) {
			return p, true
		}
	}
	return "", false
}
