package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"

	"solrview/models"
	"solrview/searchview"
)

// Handlers serve the view API for the request's session
type Handlers struct {
	Store   *searchview.Store
	Journal *models.Journal // nil when diagnostics are not journaled
}

// FieldInput is the body of the field and suggestion endpoints
type FieldInput struct {
	Value string `json:"value"`
}

// ViewOutput is the JSON view of a session
type ViewOutput struct {
	models.Snapshot
	AuthorOptions []string `json:"author_options,omitempty"`
}

// View resolves the session's view, answering the request itself on failure
func (h *Handlers) View(ctx rweb.Context) (*searchview.View, error) {
	v, err := h.Store.Get(SessionID(ctx))
	if err != nil {
		logger.LogErr(serr.Wrap(err, "failed to resolve session view"), "session error")
		return nil, writeError(ctx, http.StatusServiceUnavailable, "search view unavailable")
	}
	return v, nil
}

// GetView handles GET /api/v1/view
// Answers with a msgpack snapshot when the client sends X-Body-Encoding: msgpack.
func (h *Handlers) GetView(ctx rweb.Context) error {
	v, err := h.View(ctx)
	if v == nil {
		return err
	}
	return h.writeView(ctx, http.StatusOK, v)
}

// SetField handles PUT /api/v1/view/fields/:field
func (h *Handlers) SetField(ctx rweb.Context) error {
	field, err := models.ParseField(ctx.Request().Param("field"))
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	var input FieldInput
	if err := json.Unmarshal(ctx.Request().Body(), &input); err != nil {
		logger.LogErr(serr.Wrap(err, "failed to decode request body"), "invalid JSON")
		return writeError(ctx, http.StatusBadRequest, "invalid JSON body")
	}

	v, err := h.View(ctx)
	if v == nil {
		return err
	}

	if err := v.SetField(field, input.Value); err != nil {
		return writeViewError(ctx, err)
	}
	return h.writeView(ctx, http.StatusOK, v)
}

// SelectSuggestion handles POST /api/v1/view/suggestions/:field/select
func (h *Handlers) SelectSuggestion(ctx rweb.Context) error {
	field, err := models.ParseField(ctx.Request().Param("field"))
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	var input FieldInput
	if err := json.Unmarshal(ctx.Request().Body(), &input); err != nil {
		logger.LogErr(serr.Wrap(err, "failed to decode request body"), "invalid JSON")
		return writeError(ctx, http.StatusBadRequest, "invalid JSON body")
	}

	v, err := h.View(ctx)
	if v == nil {
		return err
	}

	if err := v.SelectSuggestion(field, input.Value); err != nil {
		return writeViewError(ctx, err)
	}
	return h.writeView(ctx, http.StatusOK, v)
}

// ToggleTheme handles POST /api/v1/view/theme
func (h *Handlers) ToggleTheme(ctx rweb.Context) error {
	v, err := h.View(ctx)
	if v == nil {
		return err
	}

	if _, err := v.ToggleTheme(); err != nil {
		return writeViewError(ctx, err)
	}
	return h.writeView(ctx, http.StatusOK, v)
}

// PreviewQuery handles GET /api/v1/query?author=&title=&category=
// It builds the query string without touching any view.
func (h *Handlers) PreviewQuery(ctx rweb.Context) error {
	f := models.Fields{
		Author:   ctx.Request().QueryParam("author"),
		Title:    ctx.Request().QueryParam("title"),
		Category: ctx.Request().QueryParam("category"),
	}
	q := models.BuildQuery(f)
	return writeSuccess(ctx, http.StatusOK, map[string]interface{}{
		"query":  q,
		"search": !f.IsEmpty(),
		"params": models.SearchParams(q).Encode(),
	})
}

func (h *Handlers) writeView(ctx rweb.Context, status int, v *searchview.View) error {
	snap := v.Snapshot()

	if ctx.Request().Header(models.MsgPackEncodingHeader) == models.MsgPackEncodingValue {
		resp, err := snap.ToMsgPackResponse()
		if err != nil {
			logger.LogErr(err, "failed to encode snapshot")
			return writeError(ctx, http.StatusInternalServerError, "failed to encode view")
		}
		return writeSuccess(ctx, status, resp)
	}

	out := ViewOutput{Snapshot: snap}
	if v.Variant().AuthorDropdown() {
		out.AuthorOptions = v.AuthorOptions()
	}
	return writeSuccess(ctx, status, out)
}

// writeViewError maps view errors onto statuses
func writeViewError(ctx rweb.Context, err error) error {
	switch {
	case errors.Is(err, searchview.ErrThemeFixed), errors.Is(err, searchview.ErrSuggestionsDisabled):
		return writeError(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, searchview.ErrUnknownAuthorOption), errors.Is(err, searchview.ErrFieldNotSuggestible):
		return writeError(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, searchview.ErrClosed):
		return writeError(ctx, http.StatusGone, err.Error())
	}
	logger.LogErr(err, "view update failed")
	return writeError(ctx, http.StatusInternalServerError, "view update failed")
}
