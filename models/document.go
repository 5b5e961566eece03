package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rohanthewiz/serr"
)

// Display fallbacks used by every front-end.
const (
	UnknownAuthor = "Unknown"
	NoCategory    = "Uncategorized"
	NoResultsText = "No results found"
	PublishedYes  = "Yes"
	PublishedNo   = "No"
	DisplayJoiner = ", "
	AppTitle      = "Solr Book Search"
)

// StringList decodes either a JSON string or an array of strings.
// Solr returns single-valued fields as scalars and multi-valued fields
// as arrays, and the schema of the index is not under our control.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = StringList{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return serr.Wrap(err, "expected a string or an array of strings")
	}
	*s = many
	return nil
}

// Flag decodes either a JSON boolean or an array of booleans (first element wins).
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = false
		return nil
	}

	var one bool
	if err := json.Unmarshal(data, &one); err == nil {
		*f = Flag(one)
		return nil
	}

	var many []bool
	if err := json.Unmarshal(data, &many); err != nil {
		return serr.Wrap(err, "expected a boolean or an array of booleans")
	}
	*f = Flag(len(many) > 0 && many[0])
	return nil
}

// Document is one search hit as returned in response.docs.
// Every attribute is optional.
type Document struct {
	Title     StringList `json:"title,omitempty" msgpack:"title,omitempty"`
	Author    StringList `json:"author,omitempty" msgpack:"author,omitempty"`
	Category  StringList `json:"category,omitempty" msgpack:"category,omitempty"`
	Published Flag       `json:"published" msgpack:"published"`
}

// DisplayTitle is the first title string, or empty when there is none.
func (d Document) DisplayTitle() string {
	if len(d.Title) == 0 {
		return ""
	}
	return d.Title[0]
}

// DisplayAuthors joins all authors, falling back to UnknownAuthor.
func (d Document) DisplayAuthors() string {
	if len(d.Author) == 0 {
		return UnknownAuthor
	}
	return strings.Join(d.Author, DisplayJoiner)
}

// DisplayCategories joins all categories, falling back to NoCategory.
func (d Document) DisplayCategories() string {
	if len(d.Category) == 0 {
		return NoCategory
	}
	return strings.Join(d.Category, DisplayJoiner)
}

// DisplayPublished renders the published flag as Yes/No.
func (d Document) DisplayPublished() string {
	if d.Published {
		return PublishedYes
	}
	return PublishedNo
}

// CardLine is one labelled row under a result card's title
type CardLine struct {
	Label string
	Value string
}

// CardLines lists the rows every front-end shows under the title.
func (d Document) CardLines() []CardLine {
	return []CardLine{
		{Label: "Author:", Value: d.DisplayAuthors()},
		{Label: "Category:", Value: d.DisplayCategories()},
		{Label: "Published:", Value: d.DisplayPublished()},
	}
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Response struct {
		NumFound int        `json:"numFound"`
		Docs     []Document `json:"docs"`
	} `json:"response"`
}

// SuggestionsResponse is the body of GET /suggestions.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}
