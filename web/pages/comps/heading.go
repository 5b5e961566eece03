package comps

import "github.com/rohanthewiz/element"

// Heading is the page title line
type Heading struct {
	Title string
	Style string
}

func (h Heading) Render(b *element.Builder) (x any) {
	b.H2("style", h.Style).T(h.Title)
	return
}
