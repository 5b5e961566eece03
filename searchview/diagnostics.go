package searchview

import (
	"context"
	"strconv"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"

	"solrview/metrics"
	"solrview/models"
)

// Recorder logs failed backend requests and, when a journal is attached, stores them
type Recorder struct {
	journal *models.Journal
}

// NewRecorder builds a recorder; a nil journal means log only
func NewRecorder(journal *models.Journal) *Recorder {
	return &Recorder{journal: journal}
}

// Record implements Diagnostics
func (r *Recorder) Record(_ context.Context, d models.Diagnostic) {
	metrics.DiagnosticsTotal.WithLabelValues(d.Endpoint).Inc()

	logger.LogErr(serr.New(d.Message), "backend request failed",
		"endpoint", d.Endpoint,
		"url", d.URL,
		"status", strconv.Itoa(d.StatusCode),
		"session_id", d.SessionID,
	)

	if r.journal == nil {
		return
	}
	if _, err := r.journal.Append(d); err != nil {
		logger.LogErr(err, "failed to journal diagnostic", "endpoint", d.Endpoint)
	}
}
