package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rohanthewiz/serr"
)

// Diagnostic records a single failed request to the search backend.
type Diagnostic struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	SessionID  string    `json:"session_id,omitempty"`
	Endpoint   string    `json:"endpoint"`
	URL        string    `json:"url,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Message    string    `json:"message"`
}

// DefaultDiagnosticsLimit caps Recent when the caller passes no limit.
const DefaultDiagnosticsLimit = 50

// Append stores a diagnostic. ID and OccurredAt are filled in when missing.
func (j *Journal) Append(d Diagnostic) (Diagnostic, error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.OccurredAt.IsZero() {
		d.OccurredAt = time.Now().UTC()
	}
	if d.Endpoint == "" {
		return d, serr.New("diagnostic endpoint is required")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`
		INSERT INTO diagnostics (id, occurred_at, session_id, endpoint, url, status_code, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.OccurredAt, nullString(d.SessionID), d.Endpoint, nullString(d.URL), d.StatusCode, d.Message,
	)
	if err != nil {
		return d, serr.Wrap(err, "failed to insert diagnostic")
	}
	return d, nil
}

// Recent returns the newest diagnostics first.
func (j *Journal) Recent(limit int) ([]Diagnostic, error) {
	if limit <= 0 {
		limit = DefaultDiagnosticsLimit
	}

	rows, err := j.db.Query(`
		SELECT id, occurred_at, session_id, endpoint, url, status_code, message
		FROM diagnostics
		ORDER BY occurred_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, serr.Wrap(err, "failed to query diagnostics")
	}
	defer rows.Close()

	out := make([]Diagnostic, 0, limit)
	for rows.Next() {
		var d Diagnostic
		var sessionID, url sql.NullString
		var status sql.NullInt64
		if err := rows.Scan(&d.ID, &d.OccurredAt, &sessionID, &d.Endpoint, &url, &status, &d.Message); err != nil {
			return nil, serr.Wrap(err, "failed to scan diagnostic")
		}
		d.SessionID = sessionID.String
		d.URL = url.String
		d.StatusCode = int(status.Int64)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.Wrap(err, "failed to iterate diagnostics")
	}
	return out, nil
}

// Count returns the number of stored diagnostics.
func (j *Journal) Count() (int, error) {
	var n int
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM diagnostics`).Scan(&n); err != nil {
		return 0, serr.Wrap(err, "failed to count diagnostics")
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
