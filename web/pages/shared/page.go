// Package shared contains components used by every page.
package shared

import (
	"solrview/models"
	"solrview/web/pages/theme"
)

// Page is embedded by full pages for the head and footer
type Page struct {
	Title string
	Theme models.Theme
}

// Head returns the document head component
func (p Page) Head() Head {
	return Head{Title: p.Title}
}

// Footer returns the page footer styled for the current theme
func (p Page) Footer() Footer {
	return Footer{Styles: theme.For(p.Theme)}
}
