package web

import (
	"net/http"
	"strings"

	"github.com/rohanthewiz/rweb"

	"solrview/models"
	"solrview/web/api"
	"solrview/web/pages/search"
)

func renderPage(ctx rweb.Context, h *api.Handlers) error {
	v, err := h.View(ctx)
	if v == nil {
		return err
	}

	var authors []string
	if v.Variant().AuthorDropdown() {
		authors = v.AuthorOptions()
	}

	ctx.Response().SetHeader("Content-Type", "text/html; charset=utf-8")
	return ctx.WriteHTML(search.NewPage(v.Snapshot(), authors).Render())
}

// renderResultsPartial serves the results grid. The ETag follows the result set
// and theme, so a client that already shows them gets a 304.
func renderResultsPartial(ctx rweb.Context, h *api.Handlers) error {
	v, err := h.View(ctx)
	if v == nil {
		return err
	}

	snap := v.Snapshot()
	etag := `"` + snap.Fingerprint + "-" + string(snap.Theme) + `"`
	ctx.Response().SetHeader("ETag", etag)
	ctx.Response().SetHeader("Cache-Control", "no-cache")

	if etagMatches(ctx.Request().Header("If-None-Match"), etag) {
		ctx.SetStatus(http.StatusNotModified)
		return nil
	}

	ctx.Response().SetHeader("Content-Type", "text/html; charset=utf-8")
	return ctx.WriteHTML(search.ResultsFragment(snap))
}

func renderSuggestionsPartial(ctx rweb.Context, h *api.Handlers) error {
	field, err := models.ParseField(ctx.Request().QueryParam("field"))
	if err != nil || !field.Suggestible() {
		ctx.SetStatus(http.StatusBadRequest)
		return ctx.WriteJSON(api.APIResponse{Success: false, Error: "field must be author or title"})
	}

	v, err := h.View(ctx)
	if v == nil {
		return err
	}

	ctx.Response().SetHeader("Content-Type", "text/html; charset=utf-8")
	ctx.Response().SetHeader("Cache-Control", "no-store")
	return ctx.WriteHTML(search.SuggestionsFragment(v.Snapshot(), field))
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
