package db

import (
	"database/sql"
)

// MigrateUp creates the summaries schema. All statements are idempotent so
// the migration can run on every startup.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS summaries (
    id                 SERIAL PRIMARY KEY,
    doc_id             UUID NOT NULL UNIQUE,
    filename           TEXT NOT NULL,
    summary            TEXT NOT NULL,
    insights           JSONB NOT NULL DEFAULT '[]',
    template           VARCHAR(50) NOT NULL DEFAULT 'general',
    file_size          BIGINT NOT NULL DEFAULT 0,
    processing_time_ms BIGINT NOT NULL DEFAULT 0,
    chunks_count       INTEGER NOT NULL DEFAULT 0,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		// history listing orders by created_at DESC
		`CREATE INDEX IF NOT EXISTS idx_summaries_created_at ON summaries(created_at DESC)`,
		// stats endpoint groups by template
		`CREATE INDEX IF NOT EXISTS idx_summaries_template ON summaries(template)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown rolls back the summaries schema.
// Use with caution: this deletes all stored summaries.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_summaries_template`,
		`DROP INDEX IF EXISTS idx_summaries_created_at`,
		`DROP TABLE IF EXISTS summaries CASCADE`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
