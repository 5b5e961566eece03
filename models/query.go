package models

import (
	"net/url"
	"strings"
)

// QueryJoiner separates field terms in the boolean query.
const QueryJoiner = " AND "

// BuildQuery joins the non-empty fields as field:value terms in the
// order author, title, category. Empty fields are omitted entirely,
// so an empty Fields yields an empty string.
func BuildQuery(f Fields) string {
	terms := make([]string, 0, len(SearchFields))
	for _, field := range SearchFields {
		value := f.Get(field)
		if value == "" {
			continue
		}
		terms = append(terms, string(field)+":"+value)
	}
	return strings.Join(terms, QueryJoiner)
}

// SearchParams returns the URL-encoded query parameters for the /search endpoint.
func SearchParams(query string) url.Values {
	return url.Values{"q": {query}}
}

// SuggestionParams returns the query parameters for the /suggestions endpoint.
// The value is sent raw (no field:value wrapping).
func SuggestionParams(field Field, value string) url.Values {
	return url.Values{
		"q":     {value},
		"field": {string(field)},
	}
}
