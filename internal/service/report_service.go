package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/envreport/sitesummary/internal/calendar"
	"github.com/envreport/sitesummary/internal/config"
	"github.com/envreport/sitesummary/internal/extract"
	"github.com/envreport/sitesummary/internal/model"
	"github.com/envreport/sitesummary/internal/registry"
	"github.com/envreport/sitesummary/internal/report"
	"github.com/envreport/sitesummary/internal/sheet"
	"github.com/envreport/sitesummary/internal/threshold"
	"github.com/envreport/sitesummary/internal/window"
)

type PDFRenderer interface {
	Render(doc *report.Document) ([]byte, error)
}

type ExcelRenderer interface {
	Render(doc *report.Document, info report.RunInfo) ([]byte, error)
}

// RunStore records finished runs. It is nil when no database is configured.
type RunStore interface {
	Insert(ctx context.Context, run model.ReportRun) error
	ListRecent(ctx context.Context, limit int) ([]model.ReportRun, error)
}

type ReportService struct {
	cfg   *config.Config
	log   zerolog.Logger
	pdf   PDFRenderer
	excel ExcelRenderer
	runs  RunStore
}

func NewReportService(cfg *config.Config, log zerolog.Logger, pdf PDFRenderer, excel ExcelRenderer, runs RunStore) *ReportService {
	return &ReportService{cfg: cfg, log: log, pdf: pdf, excel: excel, runs: runs}
}

// WorkbookInput drives one report: one workbook, one resolved month window
// (selected reporting month last), and the site narrative.
type WorkbookInput struct {
	WorkbookPath string
	Window       window.Window
	Site         string
	Person       string
	Notes        []string
	OutputPDF    string
}

// RunResult is the outcome of one generated report.
type RunResult struct {
	Run     model.ReportRun
	Skipped []string
}

// The paragraph the flow summary is inserted after, when present.
var flowHeadingPattern = regexp.MustCompile(
	`(?i)^flow\s+discharged\s+to\s+(?:the\s+)?subsurface\s+(?:disposal|dispersal)\s+system$`,
)

// GenerateWorkbook runs both extraction passes over one workbook and renders
// the report artifacts. Order matters: the base narrative is written first,
// the capacity threshold is read back out of it, and only then are series
// extracted and flagged.
func (s *ReportService) GenerateWorkbook(ctx context.Context, input WorkbookInput) (*RunResult, error) {
	if len(input.Window) == 0 {
		return nil, fmt.Errorf("%w: empty month window", ErrInvalidInput)
	}
	if input.WorkbookPath == "" {
		return nil, fmt.Errorf("%w: workbook path is required", ErrInvalidInput)
	}

	selected := input.Window[len(input.Window)-1]
	site := input.Site
	if site == "" {
		base := filepath.Base(input.WorkbookPath)
		site = strings.TrimSuffix(base, filepath.Ext(base))
	}
	person := input.Person
	if person == "" {
		person = "Unassigned"
	}

	runID := uuid.New()
	log := s.log.With().
		Str("run_id", runID.String()).
		Str("site", site).
		Int("month", selected.Month).
		Int("year", selected.Year).
		Logger()

	// Base document. The narrative must exist before threshold extraction.
	doc := report.New(site)
	doc.AddParagraph(fmt.Sprintf("Assigned to: %s", person))
	doc.AddParagraph(fmt.Sprintf("Reporting Month: %s %d", selected.Name(), selected.Year))
	doc.AddHeading("Results and Discussion", 1)
	for _, note := range input.Notes {
		doc.AddParagraph(note)
	}

	capacity, hasCapacity := threshold.ExtractCapacity(doc.Paragraphs())
	if hasCapacity {
		log.Info().Float64("capacity_l_day", capacity).Msg("capacity threshold found in narrative")
	} else {
		log.Info().Msg("no capacity threshold in narrative, exceedance flagging disabled")
	}

	wb, err := sheet.Open(input.WorkbookPath)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	result := &RunResult{}
	sheetCount := 0
	exceedances := 0

	sheetCount += s.qualityPass(log, doc, wb, selected, result)
	exceedances += s.flowPass(log, doc, wb, input.Window, capacity, hasCapacity, result)

	doc.AddHeading("Appendix C: Site Notes", 1)

	pdfPath := input.OutputPDF
	if pdfPath == "" {
		pdfPath = filepath.Join(s.cfg.Report.ProductDir,
			fmt.Sprintf("Summary - %s - %s %d.pdf", site, selected.Name(), selected.Year))
	}
	workbookOut := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".xlsx"

	info := report.RunInfo{
		Site:        site,
		Person:      person,
		Period:      periodLabel(input.Window),
		Threshold:   "none",
		Exceedances: exceedances,
	}
	if hasCapacity {
		info.Threshold = fmt.Sprintf("%.0f L/day", capacity)
	}

	if err := s.writeArtifact(pdfPath, func() ([]byte, error) { return s.pdf.Render(doc) }); err != nil {
		return nil, err
	}
	if err := s.writeArtifact(workbookOut, func() ([]byte, error) { return s.excel.Render(doc, info) }); err != nil {
		return nil, err
	}
	log.Info().Str("pdf", pdfPath).Str("workbook", workbookOut).
		Int("sheets", sheetCount).Int("exceedances", exceedances).
		Msg("report generated")

	run := model.ReportRun{
		ID:              runID,
		Site:            site,
		Person:          person,
		Month:           selected.Month,
		Year:            selected.Year,
		SheetCount:      sheetCount,
		ExceedanceCount: exceedances,
		PDFPath:         pdfPath,
		WorkbookPath:    workbookOut,
		CreatedAt:       time.Now().UTC(),
	}
	if hasCapacity {
		run.Threshold = &capacity
	}
	if s.runs != nil {
		if err := s.runs.Insert(ctx, run); err != nil {
			log.Error().Err(err).Msg("recording run failed")
		}
	}

	result.Run = run
	return result, nil
}

// qualityPass extracts the parameter tables and chart series from the
// process-stage sheets, over the fixed lookback window ending at the
// reporting month. It stops after the final/polisher effluent sheet.
func (s *ReportService) qualityPass(log zerolog.Logger, doc *report.Document, wb *sheet.Workbook, selected window.Month, result *RunResult) int {
	win := window.Lookback(selected.Year, selected.Month, s.cfg.Report.LookbackMonths)

	doc.AddPageBreak()
	doc.AddHeading("Appendix A: Sample Tables & Series", 1)

	count := 0
	first := true
	for _, name := range wb.SheetNames() {
		lname := strings.ToLower(name)
		isFinal := sheet.ContainsAny(lname, s.cfg.Report.FinalKeywords)
		if !isFinal && !sheet.ContainsAny(lname, s.cfg.Report.StageKeywords) {
			continue
		}

		g, err := wb.Grid(name)
		if err != nil {
			log.Warn().Err(err).Str("sheet", name).Msg("sheet unreadable")
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: unreadable", name))
			continue
		}

		res := extract.Extract(name, g, win)
		if res.Skip != extract.SkipNone {
			log.Debug().Str("sheet", name).Str("reason", string(res.Skip)).Msg("sheet skipped")
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %s", name, res.Skip))
		} else {
			if !first {
				doc.AddPageBreak()
			}
			first = false
			title := trimSiteCode(name)
			doc.AddHeading(title, 2)
			doc.AddTable(title, res.Data.Table, nil)
			if len(res.Data.OxygenSeries) > 0 {
				doc.AddChart(fmt.Sprintf("%s - cBOD/BOD/TSS (Last %d Months)", title, len(win)), res.Data.OxygenSeries)
			}
			if len(res.Data.NitroSeries) > 0 {
				doc.AddChart(fmt.Sprintf("%s - Nitrogen Species (Last %d Months)", title, len(win)), res.Data.NitroSeries)
			}
			count++
		}

		if isFinal {
			break
		}
	}
	return count
}

// flowPass extracts the daily-flow tables for every month in the window and
// writes the exceedance summary against the narrative capacity threshold.
func (s *ReportService) flowPass(log zerolog.Logger, doc *report.Document, wb *sheet.Workbook, win window.Window, capacity float64, hasCapacity bool, result *RunResult) int {
	total := 0
	for _, m := range win {
		token := fmt.Sprintf("%s %02d", calendar.Name(m.Month)[:3], m.Year%100)
		var matching []string
		for _, name := range wb.SheetNames() {
			if strings.Contains(strings.ToLower(name), strings.ToLower(token)) {
				matching = append(matching, name)
			}
		}
		if len(matching) == 0 {
			log.Info().Str("token", token).Msg("no flow sheet for month")
			continue
		}

		doc.AddPageBreak()
		doc.AddHeading(fmt.Sprintf("Appendix B: Flow Data - %s %d", m.Name(), m.Year), 1)

		for _, name := range matching {
			g, err := wb.Grid(name)
			if err != nil {
				log.Warn().Err(err).Str("sheet", name).Msg("sheet unreadable")
				result.Skipped = append(result.Skipped, fmt.Sprintf("%s: unreadable", name))
				continue
			}

			flowCap := 0.0
			if hasCapacity {
				flowCap = capacity
			}
			res := extract.ExtractFlow(name, g, flowCap)
			if res.Skip != extract.SkipNone {
				log.Debug().Str("sheet", name).Str("reason", string(res.Skip)).Msg("flow sheet skipped")
				result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %s", name, res.Skip))
				continue
			}

			doc.AddHeading(name, 2)
			doc.AddTable(name, res.Data.Table, res.Data.Highlights)
			if len(res.Data.Points) > 0 {
				doc.AddChart(fmt.Sprintf("%s flow data", m.Name()), []extract.Series{
					{Label: "Flow", Points: res.Data.Points},
				})
			}

			if avg, ok := res.Data.Average(); ok && hasCapacity {
				sentence := threshold.Summary(res.Data.ExceedN, capacity, avg)
				if !doc.InsertParagraphAfter(matchesFlowHeading, sentence) {
					doc.AddParagraph(sentence)
				}
				total += res.Data.ExceedN
			}
		}
	}
	return total
}

// GenerateBatch produces a report for every registry site scheduled in the
// given month. Per-site failures are logged and skipped; the batch carries on.
func (s *ReportService) GenerateBatch(ctx context.Context, month, year int) ([]RunResult, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1-12", ErrInvalidInput)
	}
	if year < 1 {
		return nil, fmt.Errorf("%w: year is required", ErrInvalidInput)
	}

	sites, err := registry.Load(filepath.Join(s.cfg.Report.BaseDir, s.cfg.Report.SitesFile))
	if err != nil {
		return nil, err
	}

	monthName := calendar.Name(month)
	var results []RunResult
	for _, site := range sites {
		if !site.ScheduledFor(month) {
			continue
		}
		wbPath, ok := site.WorkbookPath(s.cfg.Report.BaseDir)
		if !ok {
			s.log.Warn().Str("site", site.Name).Msg("workbook not found, site skipped")
			continue
		}

		win := window.FromSchedule(site.Months, month, year)
		outDir := filepath.Join(s.cfg.Report.ProductDir,
			fmt.Sprintf("%s - %s %d", site.Person, monthName, year))
		outPDF := filepath.Join(outDir,
			fmt.Sprintf("Summary - %s - %s %d.pdf", site.Name, monthName, year))

		res, err := s.GenerateWorkbook(ctx, WorkbookInput{
			WorkbookPath: wbPath,
			Window:       win,
			Site:         site.Name,
			Person:       site.Person,
			Notes:        site.Notes,
			OutputPDF:    outPDF,
		})
		if err != nil {
			s.log.Error().Err(err).Str("site", site.Name).Msg("site report failed")
			continue
		}
		results = append(results, *res)
	}

	if len(results) == 0 {
		return nil, ErrNoSites
	}
	return results, nil
}

// ListRuns exposes the run history; empty when no store is configured.
func (s *ReportService) ListRuns(ctx context.Context, limit int) ([]model.ReportRun, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.ListRecent(ctx, limit)
}

// Sites loads the registry for API listing.
func (s *ReportService) Sites() ([]registry.Site, error) {
	return registry.Load(filepath.Join(s.cfg.Report.BaseDir, s.cfg.Report.SitesFile))
}

func (s *ReportService) writeArtifact(path string, render func() ([]byte, error)) error {
	content, err := render()
	if err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func matchesFlowHeading(text string) bool {
	return flowHeadingPattern.MatchString(strings.TrimSpace(text))
}

// Sheet names usually lead with a short site code; headings drop it.
func trimSiteCode(sheetName string) string {
	if i := strings.Index(sheetName, " "); i > 0 {
		return sheetName[i+1:]
	}
	return sheetName
}

func periodLabel(win window.Window) string {
	first, last := win[0], win[len(win)-1]
	if first == last {
		return fmt.Sprintf("%s %d", first.Name(), first.Year)
	}
	return fmt.Sprintf("%s %d - %s %d", first.Name(), first.Year, last.Name(), last.Year)
}

// MonthsToWindow assigns years to a contiguous run of month numbers ending
// in the given year, decrementing the year when the run wraps through
// December. The CLI's months_csv carries no years of its own. Input given
// out of order is sorted first; only a run already in calendar order may
// wrap, since sorting cannot recover wrap intent from a jumbled sequence.
func MonthsToWindow(months []int, year int) (window.Window, error) {
	if len(months) == 0 {
		return nil, fmt.Errorf("%w: at least one month is required", ErrInvalidInput)
	}
	for _, m := range months {
		if m < 1 || m > 12 {
			return nil, fmt.Errorf("%w: month %d out of range", ErrInvalidInput, m)
		}
	}

	run := months
	if !contiguousRun(run) {
		run = append([]int(nil), months...)
		sort.Ints(run)
		if !contiguousRun(run) {
			return nil, fmt.Errorf("%w: months %v are not a contiguous calendar run", ErrInvalidInput, months)
		}
	}

	win := make(window.Window, len(run))
	y := year
	win[len(run)-1] = window.Month{Year: y, Month: run[len(run)-1]}
	for i := len(run) - 2; i >= 0; i-- {
		if run[i] > run[i+1] {
			y--
		}
		win[i] = window.Month{Year: y, Month: run[i]}
	}
	return win, nil
}

// contiguousRun reports whether each month directly follows its predecessor
// on the calendar, December wrapping to January.
func contiguousRun(months []int) bool {
	for i := 1; i < len(months); i++ {
		if months[i] != months[i-1]%12+1 {
			return false
		}
	}
	return true
}
