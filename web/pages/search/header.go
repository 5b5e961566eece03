package search

import (
	"github.com/rohanthewiz/element"

	"solrview/models"
	"solrview/web/pages/comps"
	"solrview/web/pages/theme"
)

// Header shows the title and, where the variant allows it, the theme toggle
type Header struct {
	Variant models.Variant
	Styles  theme.StyleTable
}

func (h Header) Render(b *element.Builder) (x any) {
	b.Div("id", "header", "style", h.Styles.Style(theme.Header)).R(
		element.RenderComponents(b, comps.Heading{Title: models.AppTitle}),
		func() (x any) {
			if h.Variant.ThemeToggle() {
				b.Button("type", "button", "id", "theme-toggle", "style", h.Styles.Style(theme.Button),
					"onclick", "solrview.toggleTheme()").T("Toggle Theme")
			}
			return
		}(),
	)
	return
}
