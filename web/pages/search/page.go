// Package search renders the book search page and its partials.
package search

import (
	"strconv"

	"github.com/rohanthewiz/element"

	"solrview/models"
	"solrview/web/pages/shared"
	"solrview/web/pages/theme"
)

// Page is the full search page for one view snapshot
type Page struct {
	shared.Page
	Snapshot      models.Snapshot
	AuthorOptions []string
}

// NewPage builds the page for snap
func NewPage(snap models.Snapshot, authorOptions []string) Page {
	return Page{
		Page:          shared.Page{Title: models.AppTitle, Theme: snap.Theme},
		Snapshot:      snap,
		AuthorOptions: authorOptions,
	}
}

// Render generates the complete HTML document
func (p Page) Render() string {
	styles := theme.For(p.Snapshot.Theme)
	b := element.NewBuilder()

	b.Html("lang", "en").R(
		element.RenderComponents(b, p.Head()),
		b.Body("class", theme.BodyClass(p.Snapshot.Theme), "style", "margin:0",
			"data-variant", string(p.Snapshot.Variant),
			"data-revision", strconv.FormatUint(p.Snapshot.Revision, 10)).R(
			b.Div("id", "app", "style", styles.Style(theme.AppContainer)).R(
				element.RenderComponents(b,
					Header{Variant: p.Snapshot.Variant, Styles: styles},
					SearchBar{
						Variant:       p.Snapshot.Variant,
						Fields:        p.Snapshot.Fields,
						Suggestions:   p.Snapshot.Suggestions,
						AuthorOptions: p.AuthorOptions,
						Styles:        styles,
					},
					Results{Docs: p.Snapshot.Results, Styles: styles},
					p.Footer(),
				),
			),
			b.Script("src", "/static/js/app.js?v="+shared.AssetVersion).R(),
		),
	)

	return b.String()
}
