package shared

import "github.com/rohanthewiz/element"

// AssetVersion busts browser caches when the embedded assets change
const AssetVersion = "1"

// Head renders <head> with the stylesheet
type Head struct {
	Title string
}

func (h Head) Render(b *element.Builder) any {
	b.Head().R(
		b.Meta("charset", "UTF-8"),
		b.Meta("name", "viewport", "content", "width=device-width, initial-scale=1.0"),
		b.Title().T(h.Title),
		b.Link("rel", "stylesheet", "href", "/static/css/app.css?v="+AssetVersion),
	)
	return nil
}
