package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS analyses (
		id                 UUID PRIMARY KEY,
		filename           TEXT,
		pollution_level    TEXT NOT NULL,
		confidence         NUMERIC(4,2) NOT NULL,
		dominant_color     TEXT NOT NULL,
		avg_hue            INT,
		avg_saturation     NUMERIC(6,3),
		avg_brightness     NUMERIC(6,3),
		contamination_type TEXT,
		metrics            JSONB,
		analyzed_at        TIMESTAMPTZ NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_pollution_level ON analyses(pollution_level);`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_analyzed_at ON analyses(analyzed_at);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
