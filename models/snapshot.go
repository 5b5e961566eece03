package models

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"
)

// Snapshot is an immutable copy of a view's state, safe to hand to
// renderers and serializers while the view keeps changing.
type Snapshot struct {
	SessionID   string             `json:"session_id,omitempty" msgpack:"session_id,omitempty"`
	Variant     Variant            `json:"variant" msgpack:"variant"`
	Theme       Theme              `json:"theme" msgpack:"theme"`
	Fields      Fields             `json:"fields" msgpack:"fields"`
	Query       string             `json:"query" msgpack:"query"`
	Results     []Document         `json:"results" msgpack:"results"`
	Suggestions map[Field][]string `json:"suggestions" msgpack:"suggestions"`
	// Revision increases on every observable state change.
	Revision uint64 `json:"revision" msgpack:"revision"`
	// ResultsRevision increases only when the result set is replaced or cleared.
	ResultsRevision uint64 `json:"results_revision" msgpack:"results_revision"`
	// Fingerprint identifies the result set content; used as the results ETag.
	Fingerprint string `json:"fingerprint" msgpack:"fingerprint"`
}

// SuggestionsFor returns the suggestion list of a single field (never nil).
func (s Snapshot) SuggestionsFor(field Field) []string {
	if list, ok := s.Suggestions[field]; ok && list != nil {
		return list
	}
	return []string{}
}

// HasResults is false when the "No results found" placeholder applies.
func (s Snapshot) HasResults() bool {
	return len(s.Results) > 0
}

// FingerprintDocuments hashes a result set with BLAKE2b-256 and returns the
// first 16 bytes in hex. Equal result sets always produce equal fingerprints.
func FingerprintDocuments(docs []Document) string {
	if docs == nil {
		docs = []Document{}
	}
	// Marshalling a slice of plain structs cannot fail.
	data, _ := json.Marshal(docs)
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
