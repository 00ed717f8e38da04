package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS report_runs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		site VARCHAR(128) NOT NULL,
		person VARCHAR(128) NOT NULL,
		month SMALLINT NOT NULL,
		year SMALLINT NOT NULL,
		sheet_count INT NOT NULL DEFAULT 0,
		exceedance_count INT NOT NULL DEFAULT 0,
		threshold NUMERIC(18,2),
		pdf_path TEXT NOT NULL,
		workbook_path TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_report_runs_site ON report_runs (site);`,
	`CREATE INDEX IF NOT EXISTS idx_report_runs_period ON report_runs (year, month);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
