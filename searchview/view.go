package searchview

import (
	"context"
	"errors"
	"sync"

	"solrview/models"
)

var (
	ErrClosed              = errors.New("search view is closed")
	ErrThemeFixed          = errors.New("theme is fixed in this variant")
	ErrSuggestionsDisabled = errors.New("suggestions are not available in this variant")
	ErrUnknownAuthorOption = errors.New("author is not one of the configured options")
	ErrFieldNotSuggestible = errors.New("field has no suggestions")
)

// changeBuffer is the capacity of each subscriber channel
const changeBuffer = 64

// searchChange asks the search subscriber to run one query
type searchChange struct {
	query string
	gen   uint64
}

// suggestChange asks the suggestion subscriber to run one lookup
type suggestChange struct {
	field models.Field
	value string
	gen   uint64
}

// View holds one user's search state.
// Field edits go in through SetField; front-ends read Snapshot and wait on Subscribe.
type View struct {
	searcher   Searcher
	diag       Diagnostics
	variant    models.Variant
	sequencing Sequencing
	clearEmpty bool
	authors    []string
	sessionID  string

	ctx    context.Context
	cancel context.CancelFunc

	mu              sync.Mutex
	closed          bool
	fields          models.Fields
	theme           models.Theme
	results         []models.Document
	fingerprint     string
	suggestions     map[models.Field][]string
	searchGen       uint64
	suggestGen      map[models.Field]uint64
	revision        uint64
	resultsRevision uint64

	searchCh  chan searchChange
	suggestCh chan suggestChange
	pending   sync.WaitGroup // outstanding backend requests
	workers   sync.WaitGroup // subscriber goroutines

	listenMu        sync.Mutex
	listeners       map[int]chan Event
	nextListener    int
	listenersClosed bool
}

// New creates a view and starts its subscriber goroutines
func New(searcher Searcher, opts Options) (*View, error) {
	if searcher == nil {
		return nil, errors.New("searcher is required")
	}
	if opts.Variant == "" {
		opts.Variant = models.VariantClassic
	}
	seq := opts.Sequencing
	if seq == "" {
		seq = SequencingLatest
	}
	diag := opts.Diagnostics
	if diag == nil {
		diag = NewRecorder(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	v := &View{
		searcher:    searcher,
		diag:        diag,
		variant:     opts.Variant,
		sequencing:  seq,
		clearEmpty:  opts.clearOnEmpty(),
		authors:     opts.authorOptions(),
		sessionID:   opts.SessionID,
		ctx:         ctx,
		cancel:      cancel,
		theme:       opts.Variant.InitialTheme(),
		results:     []models.Document{},
		fingerprint: models.FingerprintDocuments(nil),
		suggestions: make(map[models.Field][]string),
		suggestGen:  make(map[models.Field]uint64),
		searchCh:    make(chan searchChange, changeBuffer),
		suggestCh:   make(chan suggestChange, changeBuffer),
		listeners:   make(map[int]chan Event),
	}

	v.workers.Add(2)
	go v.runSearches()
	go v.runSuggestions()

	return v, nil
}

// Variant reports which variant the view runs as
func (v *View) Variant() models.Variant {
	return v.variant
}

// AuthorOptions lists the dropdown choices of the suggest variant
func (v *View) AuthorOptions() []string {
	return append([]string(nil), v.authors...)
}

// SetField changes one field. A change that leaves any field non-empty issues a search;
// in the suggest variant a non-empty author or title also issues a suggestion lookup.
func (v *View) SetField(field models.Field, value string) error {
	if err := v.checkAuthor(field, value); err != nil {
		return err
	}
	return v.setField(field, value, v.variant.Suggestions() && field.Suggestible())
}

// SelectSuggestion sets field to a suggestion verbatim and clears that field's list.
// An author suggestion must still be one of the dropdown options.
func (v *View) SelectSuggestion(field models.Field, value string) error {
	if !v.variant.Suggestions() {
		return ErrSuggestionsDisabled
	}
	if !field.Suggestible() {
		return ErrFieldNotSuggestible
	}
	if err := v.checkAuthor(field, value); err != nil {
		return err
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	v.suggestGen[field]++
	hadSuggestions := len(v.suggestions[field]) > 0
	delete(v.suggestions, field)
	if hadSuggestions {
		v.revision++
	}
	rev := v.revision
	v.mu.Unlock()

	if hadSuggestions {
		v.publish(Event{Kind: EventSuggestions, Field: field, Revision: rev})
	}
	return v.setField(field, value, false)
}

// ToggleTheme flips light and dark. Fields and results are untouched.
func (v *View) ToggleTheme() (models.Theme, error) {
	if !v.variant.ThemeToggle() {
		return v.Theme(), ErrThemeFixed
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return "", ErrClosed
	}
	v.theme = v.theme.Toggled()
	v.revision++
	theme, rev := v.theme, v.revision
	v.mu.Unlock()

	v.publish(Event{Kind: EventTheme, Revision: rev})
	return theme, nil
}

// Theme returns the current theme
func (v *View) Theme() models.Theme {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.theme
}

// Snapshot copies the full view state
func (v *View) Snapshot() models.Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	suggestions := make(map[models.Field][]string, len(v.suggestions))
	for f, list := range v.suggestions {
		suggestions[f] = append([]string(nil), list...)
	}

	return models.Snapshot{
		SessionID:       v.sessionID,
		Variant:         v.variant,
		Theme:           v.theme,
		Fields:          v.fields,
		Query:           models.BuildQuery(v.fields),
		Results:         append([]models.Document{}, v.results...),
		Suggestions:     suggestions,
		Revision:        v.revision,
		ResultsRevision: v.resultsRevision,
		Fingerprint:     v.fingerprint,
	}
}

// WaitIdle blocks until no backend request is outstanding or ctx is done.
// Call it after the edits whose effects are awaited.
func (v *View) WaitIdle(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		v.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the subscribers, abandons in-flight requests and closes all listeners
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	close(v.searchCh)
	close(v.suggestCh)
	v.mu.Unlock()

	v.cancel()
	v.workers.Wait()
	v.pending.Wait()
	v.closeListeners()
}

// checkAuthor rejects a dropdown author that is not one of the options
func (v *View) checkAuthor(field models.Field, value string) error {
	if field == models.FieldAuthor && v.variant.AuthorDropdown() && value != "" && !v.isAuthorOption(value) {
		return ErrUnknownAuthorOption
	}
	return nil
}

func (v *View) isAuthorOption(value string) bool {
	for _, a := range v.authors {
		if a == value {
			return true
		}
	}
	return false
}

// setField applies a field edit and queues the requests it implies
func (v *View) setField(field models.Field, value string, fetchSuggestions bool) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if v.fields.Get(field) == value {
		v.mu.Unlock()
		return nil
	}

	v.fields.Set(field, value)
	v.revision++
	rev := v.revision
	events := []Event{{Kind: EventFields, Field: field, Revision: rev}}

	if v.fields.IsEmpty() {
		// A pending search must not repopulate cleared results
		v.searchGen++
		if v.clearEmpty && len(v.results) > 0 {
			v.setResultsLocked([]models.Document{})
			events = append(events, Event{Kind: EventResults, Revision: v.revision})
		}
	} else {
		v.searchGen++
		v.pending.Add(1)
		v.searchCh <- searchChange{query: models.BuildQuery(v.fields), gen: v.searchGen}
	}

	if fetchSuggestions && value != "" {
		v.suggestGen[field]++
		v.pending.Add(1)
		v.suggestCh <- suggestChange{field: field, value: value, gen: v.suggestGen[field]}
	}
	v.mu.Unlock()

	for _, e := range events {
		v.publish(e)
	}
	return nil
}

// setResultsLocked replaces the result set; v.mu must be held
func (v *View) setResultsLocked(docs []models.Document) {
	v.results = docs
	v.fingerprint = models.FingerprintDocuments(docs)
	v.revision++
	v.resultsRevision++
}
