package search

import (
	"strconv"

	"github.com/rohanthewiz/element"

	"solrview/models"
	"solrview/web/pages/theme"
)

// Suggestions is the dropdown under a field. An empty list renders nothing.
type Suggestions struct {
	Field  models.Field
	Items  []string
	Styles theme.StyleTable
}

func (s Suggestions) Render(b *element.Builder) (x any) {
	if len(s.Items) == 0 {
		return
	}
	b.Ul("class", "suggestions", "data-field", string(s.Field), "style", s.Styles.Style(theme.Suggestions)).R(
		func() (x any) {
			for i, item := range s.Items {
				b.Li("class", "suggestion", "data-field", string(s.Field), "data-index", strconv.Itoa(i),
					"data-value", clean(item), "style", s.Styles.Style(theme.SuggestionItem)).T(clean(item))
			}
			return
		}(),
	)
	return
}

// SuggestionsFragment renders the dropdown for one field
func SuggestionsFragment(snap models.Snapshot, field models.Field) string {
	b := element.NewBuilder()
	element.RenderComponents(b, Suggestions{
		Field:  field,
		Items:  snap.SuggestionsFor(field),
		Styles: theme.For(snap.Theme),
	})
	return b.String()
}
