package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/envreport/sitesummary/internal/auth"
	"github.com/envreport/sitesummary/internal/config"
	"github.com/envreport/sitesummary/internal/db"
	httphandler "github.com/envreport/sitesummary/internal/http"
	"github.com/envreport/sitesummary/internal/http/middleware"
	"github.com/envreport/sitesummary/internal/logger"
	"github.com/envreport/sitesummary/internal/report"
	"github.com/envreport/sitesummary/internal/repository"
	"github.com/envreport/sitesummary/internal/service"
)

const usage = `usage:
  sitesummary <workbook.xlsx> <months_csv> <year> [output.pdf]
  sitesummary batch <month> <year>
  sitesummary serve

months_csv is an ordered run of month numbers ending in the reporting
month, e.g. 11,12,1 for a report covering November through January.`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	var runs service.RunStore
	if cfg.DB.DSN != "" {
		database, err := db.New(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		runs = repository.NewRunRepository(database)
	}

	svc := service.NewReportService(cfg, log, report.NewPDFRenderer(), report.NewExcelRenderer(), runs)

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	switch args[0] {
	case "serve":
		runServe(cfg, log, svc)
	case "batch":
		runBatch(log, svc, args[1:])
	default:
		runSingle(log, svc, args)
	}
}

func runServe(cfg *config.Config, log zerolog.Logger, svc *service.ReportService) {
	if err := cfg.ValidateServe(); err != nil {
		log.Fatal().Err(err).Msg("invalid serve configuration")
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(svc, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting site summary service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func runBatch(log zerolog.Logger, svc *service.ReportService, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	month, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid month %q\n", args[0])
		os.Exit(2)
	}
	year, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid year %q\n", args[1])
		os.Exit(2)
	}

	results, err := svc.GenerateBatch(context.Background(), month, year)
	if err != nil {
		log.Fatal().Err(err).Msg("batch failed")
	}
	for _, res := range results {
		fmt.Printf("%s: %s\n", res.Run.Site, res.Run.PDFPath)
	}
}

func runSingle(log zerolog.Logger, svc *service.ReportService, args []string) {
	if len(args) < 3 || len(args) > 4 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	workbook := args[0]
	months, err := parseMonths(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid months %q: %v\n", args[1], err)
		os.Exit(2)
	}
	year, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid year %q\n", args[2])
		os.Exit(2)
	}

	win, err := service.MonthsToWindow(months, year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	input := service.WorkbookInput{WorkbookPath: workbook, Window: win}
	if len(args) == 4 {
		input.OutputPDF = args[3]
	}

	res, err := svc.GenerateWorkbook(context.Background(), input)
	if err != nil {
		log.Fatal().Err(err).Msg("report failed")
	}
	fmt.Printf("%s\n%s\n", res.Run.PDFPath, res.Run.WorkbookPath)
	for _, skipped := range res.Skipped {
		fmt.Printf("skipped %s\n", skipped)
	}
}

func parseMonths(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	months := make([]int, 0, len(parts))
	for _, p := range parts {
		m, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q is not a month number", p)
		}
		months = append(months, m)
	}
	return months, nil
}
