package api

import (
	"net/http"
	"strconv"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"

	"solrview/models"
)

// DiagnosticsOutput is the body of GET /api/v1/diagnostics
type DiagnosticsOutput struct {
	Diagnostics []models.Diagnostic `json:"diagnostics"`
	Total       int                 `json:"total"`
}

// ListDiagnostics handles GET /api/v1/diagnostics?limit=
// Newest first. Without a journal the list is empty.
func (h *Handlers) ListDiagnostics(ctx rweb.Context) error {
	if h.Journal == nil {
		return writeSuccess(ctx, http.StatusOK, DiagnosticsOutput{Diagnostics: []models.Diagnostic{}})
	}

	limit := models.DefaultDiagnosticsLimit
	if limitStr := ctx.Request().QueryParam("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 {
			return writeError(ctx, http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	list, err := h.Journal.Recent(limit)
	if err != nil {
		logger.LogErr(serr.Wrap(err, "failed to list diagnostics"), "database error")
		return writeError(ctx, http.StatusInternalServerError, "database error")
	}
	total, err := h.Journal.Count()
	if err != nil {
		logger.LogErr(serr.Wrap(err, "failed to count diagnostics"), "database error")
		return writeError(ctx, http.StatusInternalServerError, "database error")
	}

	return writeSuccess(ctx, http.StatusOK, DiagnosticsOutput{Diagnostics: list, Total: total})
}
