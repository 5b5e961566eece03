package models

import (
	"database/sql"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// DDLCreateDiagnosticsTable holds one row per failed backend request.
const DDLCreateDiagnosticsTable = `
CREATE TABLE IF NOT EXISTS diagnostics (
    id           VARCHAR PRIMARY KEY,
    occurred_at  TIMESTAMP NOT NULL,
    session_id   VARCHAR,
    endpoint     VARCHAR NOT NULL,
    url          VARCHAR,
    status_code  INTEGER DEFAULT 0,
    message      VARCHAR NOT NULL
);
`

// migrateDB runs all migrations on a single database
func migrateDB(db *sql.DB) error {
	if _, err := db.Exec(DDLCreateDiagnosticsTable); err != nil {
		return serr.Wrap(err, "failed to create diagnostics table")
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_diagnostics_occurred_at ON diagnostics(occurred_at)",
		"CREATE INDEX IF NOT EXISTS idx_diagnostics_endpoint ON diagnostics(endpoint)",
	}
	for _, idxSQL := range indexes {
		if _, err := db.Exec(idxSQL); err != nil {
			// Lookups still work without the index
			logger.LogErr(err, "failed to create index", "sql", idxSQL)
		}
	}

	return nil
}
