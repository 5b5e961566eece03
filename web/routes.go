package web

import (
	"github.com/rohanthewiz/rweb"

	"solrview/web/api"
)

// setupRoutes configures all application routes
func setupRoutes(s *rweb.Server, h *api.Handlers) {
	// Page routes - HTML responses
	s.Get("/", func(ctx rweb.Context) error {
		return renderPage(ctx, h)
	})
	s.Get("/partials/results", func(ctx rweb.Context) error {
		return renderResultsPartial(ctx, h)
	})
	s.Get("/partials/suggestions", func(ctx rweb.Context) error {
		return renderSuggestionsPartial(ctx, h)
	})

	// View change events for the session
	s.Get("/events", func(ctx rweb.Context) error {
		return streamEvents(s, ctx, h)
	})

	s.Get("/health", func(ctx rweb.Context) error {
		return ctx.WriteJSON(api.APIResponse{Success: true, Data: map[string]string{"status": "ok"}})
	})

	// API v1 routes - JSON responses
	s.Get("/api/v1/view", h.GetView)                                     // Snapshot of the session's view
	s.Put("/api/v1/view/fields/:field", h.SetField)                      // Set author, title or category
	s.Post("/api/v1/view/suggestions/:field/select", h.SelectSuggestion) // Pick a suggestion
	s.Post("/api/v1/view/theme", h.ToggleTheme)                          // Toggle light/dark
	s.Get("/api/v1/query", h.PreviewQuery)                               // Query string preview
	s.Get("/api/v1/diagnostics", h.ListDiagnostics)                      // Recent backend failures
}
