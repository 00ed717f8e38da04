package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/envreport/sitesummary/internal/model"
)

type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Insert(ctx context.Context, run model.ReportRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO report_runs
			(id, site, person, month, year, sheet_count, exceedance_count, threshold, pdf_path, workbook_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Site, run.Person, run.Month, run.Year,
		run.SheetCount, run.ExceedanceCount, run.Threshold,
		run.PDFPath, run.WorkbookPath).Error
}

func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]model.ReportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []model.ReportRun
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, site, person, month, year, sheet_count, exceedance_count,
		       threshold, pdf_path, workbook_path, created_at
		FROM report_runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit).Scan(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
