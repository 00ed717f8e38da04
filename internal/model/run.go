package model

import (
	"time"

	"github.com/google/uuid"
)

// ReportRun records one generated report in the optional run history. Only
// run metadata is stored; extracted series and tables are per-run and never
// cached.
type ReportRun struct {
	ID              uuid.UUID
	Site            string
	Person          string
	Month           int
	Year            int
	SheetCount      int
	ExceedanceCount int
	Threshold       *float64
	PDFPath         string
	WorkbookPath    string
	CreatedAt       time.Time
}
