package models

import (
	"database/sql"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// Journal is the DuckDB-backed diagnostics journal.
// Request failures are appended here so an operator can inspect them
// after the fact; nothing in the journal is ever shown to the searching user.
type Journal struct {
	db   *sql.DB
	path string
	mu   sync.Mutex // serialize writes, DuckDB allows a single writer
}

// OpenJournal opens (or creates) the journal at path.
// DuckDB's go driver uses an empty string for an in-memory database.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, serr.Wrap(err, "failed to open diagnostics database")
	}
	// Keep one connection so an in-memory database is not split across the pool
	db.SetMaxOpenConns(1)

	if err := migrateDB(db); err != nil {
		db.Close()
		return nil, serr.Wrap(err, "failed to migrate diagnostics database")
	}

	where := path
	if where == "" {
		where = "memory"
	}
	logger.Info("Diagnostics journal ready", "location", where)

	return &Journal{db: db, path: path}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
