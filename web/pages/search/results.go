package search

import (
	"github.com/rohanthewiz/element"

	"solrview/models"
	"solrview/web/pages/theme"
)

// Results is the card grid, or the empty notice
type Results struct {
	Docs   []models.Document
	Styles theme.StyleTable
}

func (r Results) Render(b *element.Builder) (x any) {
	b.Div("id", "results", "style", r.Styles.Style(theme.ResultsContainer)).R(
		func() (x any) {
			if len(r.Docs) == 0 {
				b.Div("class", "no-results", "style", r.Styles.Style(theme.NoResults)).T(models.NoResultsText)
				return
			}
			for _, doc := range r.Docs {
				element.RenderComponents(b, Card{Doc: doc, Styles: r.Styles})
			}
			return
		}(),
	)
	return
}

// Card renders one document
type Card struct {
	Doc    models.Document
	Styles theme.StyleTable
}

func (c Card) Render(b *element.Builder) (x any) {
	b.Div("class", "result-card", "style", c.Styles.Style(theme.ResultCard)).R(
		b.H3("class", "result-title", "style", c.Styles.Style(theme.ResultTitle)).T(clean(c.Doc.DisplayTitle())),
		element.ForEach(c.Doc.CardLines(), func(line models.CardLine) {
			b.Wrap(func() {
				b.P().R(
					b.Span("class", "card-label", "style", "font-weight:700").T(line.Label),
					b.T(" "+clean(line.Value)),
				)
			})
		}),
	)
	return
}

// ResultsFragment renders just the grid, for partial refreshes
func ResultsFragment(snap models.Snapshot) string {
	b := element.NewBuilder()
	element.RenderComponents(b, Results{Docs: snap.Results, Styles: theme.For(snap.Theme)})
	return b.String()
}
