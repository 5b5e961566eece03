package backend

import (
	"strings"

	"github.com/rohanthewiz/serr"
	"github.com/xeipuuv/gojsonschema"
)

// Solr returns single-valued fields as scalars and multi-valued ones as arrays,
// so both shapes are accepted here and normalised while decoding.
const searchResponseSchema = `{
  "type": "object",
  "required": ["response"],
  "properties": {
    "response": {
      "type": "object",
      "properties": {
        "docs": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "title":     {"$ref": "#/definitions/strings"},
              "author":    {"$ref": "#/definitions/strings"},
              "category":  {"$ref": "#/definitions/strings"},
              "published": {"$ref": "#/definitions/flag"}
            }
          }
        }
      }
    }
  },
  "definitions": {
    "strings": {
      "oneOf": [
        {"type": "string"},
        {"type": "array", "items": {"type": "string"}},
        {"type": "null"}
      ]
    },
    "flag": {
      "oneOf": [
        {"type": "boolean"},
        {"type": "array", "items": {"type": "boolean"}},
        {"type": "null"}
      ]
    }
  }
}`

const suggestionsResponseSchema = `{
  "type": "object",
  "properties": {
    "suggestions": {
      "oneOf": [
        {"type": "array", "items": {"type": "string"}},
        {"type": "null"}
      ]
    }
  }
}`

// validator checks a response body against a compiled schema
type validator struct {
	schema *gojsonschema.Schema
}

func mustCompile(src string) validator {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(serr.Wrap(err, "invalid built-in response schema"))
	}
	return validator{schema: s}
}

var (
	searchValidator      = mustCompile(searchResponseSchema)
	suggestionsValidator = mustCompile(suggestionsResponseSchema)
)

func (v validator) validate(body []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return serr.Wrap(err, "response body is not valid JSON")
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return serr.New("response does not match schema: " + strings.Join(msgs, "; "))
}
