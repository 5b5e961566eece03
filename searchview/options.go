package searchview

import (
	"context"
	"strings"

	"github.com/rohanthewiz/serr"

	"solrview/models"
)

// Searcher is the backend the view talks to
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Document, error)
	Suggest(ctx context.Context, field models.Field, value string) ([]string, error)
}

// Diagnostics receives one record per failed backend request
type Diagnostics interface {
	Record(ctx context.Context, d models.Diagnostic)
}

// Sequencing decides which of several overlapping responses is applied
type Sequencing string

const (
	// SequencingLatest applies only the response to the newest request of its kind
	SequencingLatest Sequencing = "latest"
	// SequencingArrival applies responses in whatever order they arrive
	SequencingArrival Sequencing = "arrival"
)

// ParseSequencing accepts "latest", "arrival" or empty (latest)
func ParseSequencing(s string) (Sequencing, error) {
	switch Sequencing(strings.ToLower(strings.TrimSpace(s))) {
	case "", SequencingLatest:
		return SequencingLatest, nil
	case SequencingArrival:
		return SequencingArrival, nil
	}
	return "", serr.New("unknown sequencing mode: " + s)
}

// DefaultAuthorOptions populate the author dropdown when none are configured
var DefaultAuthorOptions = []string{
	"J.K. Rowling",
	"J.R.R. Tolkien",
	"George R.R. Martin",
	"Stephen King",
	"Agatha Christie",
}

// Options configures a View
type Options struct {
	Variant    models.Variant
	Sequencing Sequencing
	// ClearOnEmpty overrides the variant default when set
	ClearOnEmpty *bool
	// AuthorOptions restrict the author field in the suggest variant
	AuthorOptions []string
	SessionID     string
	Diagnostics   Diagnostics
}

func (o Options) clearOnEmpty() bool {
	if o.ClearOnEmpty != nil {
		return *o.ClearOnEmpty
	}
	return o.Variant.ClearsOnEmpty()
}

func (o Options) authorOptions() []string {
	if len(o.AuthorOptions) > 0 {
		return append([]string(nil), o.AuthorOptions...)
	}
	return append([]string(nil), DefaultAuthorOptions...)
}
