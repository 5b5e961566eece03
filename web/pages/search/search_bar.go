package search

import (
	"fmt"

	"github.com/rohanthewiz/element"

	"solrview/models"
	"solrview/web/pages/theme"
)

// searchIconSVG is the magnifier drawn inside each input
const searchIconSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20" fill="none" viewBox="0 0 24 24" stroke="currentColor" style="%s"><path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M11 18a7 7 0 100-14 7 7 0 000 14zm0 0l7 7"/></svg>`

// SearchBar holds the three field inputs
type SearchBar struct {
	Variant       models.Variant
	Fields        models.Fields
	Suggestions   map[models.Field][]string
	AuthorOptions []string
	Styles        theme.StyleTable
}

func (s SearchBar) Render(b *element.Builder) (x any) {
	b.Div("id", "search-bar", "style", s.Styles.Style(theme.InputContainer)).R(
		element.ForEach(models.SearchFields, func(field models.Field) {
			b.Wrap(func() {
				s.renderField(b, field)
			})
		}),
	)
	return
}

func (s SearchBar) renderField(b *element.Builder, field models.Field) {
	b.Div("class", "input-wrapper", "style", s.Styles.Style(theme.InputWrapper)).R(
		func() (x any) {
			if field == models.FieldAuthor && s.Variant.AuthorDropdown() {
				s.renderAuthorSelect(b)
				return
			}
			b.Input("type", "text", "id", "field-"+string(field), "name", string(field),
				"class", "search-field", "data-field", string(field),
				"placeholder", "Search by "+string(field)+"...",
				"value", clean(s.Fields.Get(field)),
				"autocomplete", "off",
				"style", s.Styles.Style(theme.Input))
			b.T(fmt.Sprintf(searchIconSVG, s.Styles.Style(theme.Icon)))
			return
		}(),
		func() (x any) {
			if s.Variant.Suggestions() && field.Suggestible() {
				b.Div("id", "suggestions-"+string(field), "class", "suggestions-slot").R(
					element.RenderComponents(b, Suggestions{
						Field:  field,
						Items:  s.Suggestions[field],
						Styles: s.Styles,
					}),
				)
			}
			return
		}(),
	)
}

func (s SearchBar) renderAuthorSelect(b *element.Builder) {
	current := s.Fields.Author
	b.Select("id", "field-author", "name", "author", "class", "search-field", "data-field", "author",
		"style", s.Styles.Style(theme.Input)).R(
		b.Option("value", "").T("Select an author..."),
		element.ForEach(s.AuthorOptions, func(author string) {
			b.Wrap(func() {
				if author == current {
					b.Option("value", clean(author), "selected", "selected").T(clean(author))
				} else {
					b.Option("value", clean(author)).T(clean(author))
				}
			})
		}),
	)
}
