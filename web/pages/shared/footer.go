package shared

import (
	"github.com/rohanthewiz/element"

	"solrview/web/pages/theme"
)

// Footer links the operator views
type Footer struct {
	Styles theme.StyleTable
}

func (f Footer) Render(b *element.Builder) any {
	b.Footer("style", f.Styles.Style(theme.Footer)).R(
		b.P("style", f.Styles.Style(theme.FooterText)).R(
			b.T("Results served by Apache Solr &middot; "),
			b.A("href", "/api/v1/diagnostics", "style", "color:inherit").T("diagnostics"),
		),
	)
	return nil
}
