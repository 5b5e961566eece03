package search

import "github.com/microcosm-cc/bluemonday"

// strict strips every tag and escapes what is left, so backend and user
// strings are safe as element text and attribute values
var strict = bluemonday.StrictPolicy()

func clean(s string) string {
	return strict.Sanitize(s)
}
