package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/envreport/sitesummary/internal/http/middleware"
	"github.com/envreport/sitesummary/internal/service"
)

type Handler struct {
	reports *service.ReportService
	log     zerolog.Logger
}

func NewHandler(reports *service.ReportService, log zerolog.Logger) *Handler {
	return &Handler{reports: reports, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/reports/batch", h.generateBatch)
	protected.GET("/sites", h.listSites)
	protected.GET("/runs", h.listRuns)
}

type generateBatchRequest struct {
	Month int `json:"month" binding:"required"`
	Year  int `json:"year" binding:"required"`
}

type runSummary struct {
	ID           string   `json:"id"`
	Site         string   `json:"site"`
	Person       string   `json:"person"`
	PDFPath      string   `json:"pdf_path"`
	WorkbookPath string   `json:"workbook_path"`
	SheetCount   int      `json:"sheet_count"`
	Exceedances  int      `json:"exceedances"`
	Skipped      []string `json:"skipped,omitempty"`
}

func (h *Handler) generateBatch(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req generateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.reports.GenerateBatch(c.Request.Context(), req.Month, req.Year)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.log.Info().Str("user", principal.UserID).
		Int("month", req.Month).Int("year", req.Year).
		Int("reports", len(results)).Msg("batch generated")

	summaries := make([]runSummary, 0, len(results))
	for _, res := range results {
		summaries = append(summaries, runSummary{
			ID:           res.Run.ID.String(),
			Site:         res.Run.Site,
			Person:       res.Run.Person,
			PDFPath:      res.Run.PDFPath,
			WorkbookPath: res.Run.WorkbookPath,
			SheetCount:   res.Run.SheetCount,
			Exceedances:  res.Run.ExceedanceCount,
			Skipped:      res.Skipped,
		})
	}
	c.JSON(http.StatusOK, gin.H{"reports": summaries})
}

func (h *Handler) listSites(c *gin.Context) {
	sites, err := h.reports.Sites()
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sites": sites})
}

func (h *Handler) listRuns(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	runs, err := h.reports.ListRuns(c.Request.Context(), limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoSites):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
