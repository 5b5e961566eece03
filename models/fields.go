package models

import (
	"strings"

	"github.com/rohanthewiz/serr"
)

// Field names one of the searchable document attributes.
// The string value doubles as the Solr field name in query terms.
type Field string

const (
	FieldAuthor   Field = "author"
	FieldTitle    Field = "title"
	FieldCategory Field = "category"
)

// SearchFields lists the fields in query order.
// BuildQuery relies on this order, so do not reorder.
var SearchFields = []Field{FieldAuthor, FieldTitle, FieldCategory}

// ParseField converts user or URL input into a Field.
func ParseField(s string) (Field, error) {
	switch Field(strings.ToLower(strings.TrimSpace(s))) {
	case FieldAuthor:
		return FieldAuthor, nil
	case FieldTitle:
		return FieldTitle, nil
	case FieldCategory:
		return FieldCategory, nil
	}
	return "", serr.New("unknown field: " + s)
}

// Suggestible reports whether the suggestions endpoint accepts this field.
func (f Field) Suggestible() bool {
	return f == FieldAuthor || f == FieldTitle
}

// Label is the human facing name of the field
func (f Field) Label() string {
	switch f {
	case FieldAuthor:
		return "Author"
	case FieldTitle:
		return "Title"
	case FieldCategory:
		return "Category"
	}
	return string(f)
}

// Fields holds the three query inputs. Zero value is the empty query.
type Fields struct {
	Author   string `json:"author" msgpack:"author"`
	Title    string `json:"title" msgpack:"title"`
	Category string `json:"category" msgpack:"category"`
}

// Get returns the value of a single field.
func (f Fields) Get(field Field) string {
	switch field {
	case FieldAuthor:
		return f.Author
	case FieldTitle:
		return f.Title
	case FieldCategory:
		return f.Category
	}
	return ""
}

// Set assigns the value of a single field. Unknown fields are ignored.
func (f *Fields) Set(field Field, value string) {
	switch field {
	case FieldAuthor:
		f.Author = value
	case FieldTitle:
		f.Title = value
	case FieldCategory:
		f.Category = value
	}
}

// IsEmpty is true when no field holds a value.
// Whitespace counts as a value, matching what the user typed.
func (f Fields) IsEmpty() bool {
	return f.Author == "" && f.Title == "" && f.Category == ""
}
