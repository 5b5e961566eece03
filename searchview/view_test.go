package searchview_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"solrview/backend"
	"solrview/models"
	"solrview/searchview"
)

type suggestCall struct {
	field models.Field
	value string
}

// fakeSearcher answers every query with one document titled after the query.
// Queries with a gate block until the gate is closed.
type fakeSearcher struct {
	mu        sync.Mutex
	searches  []string
	suggests  []suggestCall
	gates     map[string]chan struct{}
	searchErr error
	suggestFn func(field models.Field, value string) ([]string, error)
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{gates: make(map[string]chan struct{})}
}

func (f *fakeSearcher) gate(query string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := make(chan struct{})
	f.gates[query] = g
	return g
}

func (f *fakeSearcher) failSearches(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchErr = err
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]models.Document, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	g := f.gates[query]
	err := f.searchErr
	f.mu.Unlock()

	if g != nil {
		select {
		case <-g:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []models.Document{{Title: models.StringList{query}}}, nil
}

func (f *fakeSearcher) Suggest(_ context.Context, field models.Field, value string) ([]string, error) {
	f.mu.Lock()
	f.suggests = append(f.suggests, suggestCall{field, value})
	fn := f.suggestFn
	f.mu.Unlock()

	if fn != nil {
		return fn(field, value)
	}
	return []string{value + " one", value + " two"}, nil
}

func (f *fakeSearcher) searchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

func (f *fakeSearcher) suggestCalls() []suggestCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]suggestCall(nil), f.suggests...)
}

type fakeRecorder struct {
	mu    sync.Mutex
	diags []models.Diagnostic
}

func (r *fakeRecorder) Record(_ context.Context, d models.Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diags = append(r.diags, d)
}

func (r *fakeRecorder) all() []models.Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Diagnostic(nil), r.diags...)
}

func newView(t *testing.T, f *fakeSearcher, opts searchview.Options) (*searchview.View, *fakeRecorder) {
	t.Helper()
	rec := &fakeRecorder{}
	opts.Diagnostics = rec
	v, err := searchview.New(f, opts)
	if err != nil {
		t.Fatalf("failed to create view: %v", err)
	}
	t.Cleanup(v.Close)
	return v, rec
}

func waitIdle(t *testing.T, v *searchview.View) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := v.WaitIdle(ctx); err != nil {
		t.Fatalf("view did not go idle: %v", err)
	}
}

// waitFor reads events until one of kind arrives
func waitFor(t *testing.T, events <-chan searchview.Event, kind searchview.EventKind) searchview.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e, ok := <-events:
			if !ok {
				t.Fatalf("event channel closed while waiting for %s", kind)
			}
			if e.Kind == kind {
				return e
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s event", kind)
		}
	}
}

func TestSearchReplacesResults(t *testing.T) {
	f := newFakeSearcher()
	v, rec := newView(t, f, searchview.Options{})

	if err := v.SetField(models.FieldAuthor, "King"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if err := v.SetField(models.FieldCategory, "Horror"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	waitIdle(t, v)

	snap := v.Snapshot()
	if snap.Query != "author:King AND category:Horror" {
		t.Errorf("query = %q", snap.Query)
	}
	if len(snap.Results) != 1 || snap.Results[0].DisplayTitle() != "author:King AND category:Horror" {
		t.Errorf("results = %+v", snap.Results)
	}
	calls := f.searchCalls()
	if len(calls) != 2 || calls[0] != "author:King" {
		t.Errorf("search calls = %v", calls)
	}
	if len(rec.all()) != 0 {
		t.Errorf("unexpected diagnostics: %+v", rec.all())
	}
}

func TestEmptyFieldsIssueNoRequest(t *testing.T) {
	f := newFakeSearcher()
	v, _ := newView(t, f, searchview.Options{})

	// Unchanged value is not a change
	if err := v.SetField(models.FieldTitle, ""); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if err := v.SetField(models.FieldTitle, "It"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if err := v.SetField(models.FieldTitle, ""); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	waitIdle(t, v)

	calls := f.searchCalls()
	if len(calls) != 1 || calls[0] != "title:It" {
		t.Errorf("expected exactly one search for title:It, got %v", calls)
	}
}

func TestFailedSearchKeepsResults(t *testing.T) {
	f := newFakeSearcher()
	v, rec := newView(t, f, searchview.Options{SessionID: "s-1"})

	if err := v.SetField(models.FieldTitle, "Dune"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	waitIdle(t, v)
	before := v.Snapshot()

	f.failSearches(&backend.RequestFailure{
		Endpoint:   backend.EndpointSearch,
		URL:        "http://backend/search?q=title%3ADune+Messiah",
		StatusCode: 503,
		Err:        errors.New("unavailable"),
	})
	if err := v.SetField(models.FieldTitle, "Dune Messiah"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	waitIdle(t, v)

	after := v.Snapshot()
	if after.Fingerprint != before.Fingerprint || after.ResultsRevision != before.ResultsRevision {
		t.Errorf("results changed after a failed search")
	}

	diags := rec.all()
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.Endpoint != backend.EndpointSearch || d.StatusCode != 503 || d.SessionID != "s-1" {
		t.Errorf("unexpected diagnostic: %+v", d)
	}
	if len(f.searchCalls()) != 2 {
		t.Errorf("failed search must not be retried, calls = %v", f.searchCalls())
	}
}

func TestClearingFieldsPerVariant(t *testing.T) {
	testCases := []struct {
		name        string
		variant     models.Variant
		override    *bool
		wantCleared bool
	}{
		{"classic keeps stale results", models.VariantClassic, nil, false},
		{"suggest clears results", models.VariantSuggest, nil, true},
		{"classic with override clears", models.VariantClassic, boolPtr(true), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeSearcher()
			v, _ := newView(t, f, searchview.Options{Variant: tc.variant, ClearOnEmpty: tc.override})

			if err := v.SetField(models.FieldCategory, "Fantasy"); err != nil {
				t.Fatalf("SetField: %v", err)
			}
			waitIdle(t, v)
			if err := v.SetField(models.FieldCategory, ""); err != nil {
				t.Fatalf("SetField: %v", err)
			}
			waitIdle(t, v)

			snap := v.Snapshot()
			if cleared := !snap.HasResults(); cleared != tc.wantCleared {
				t.Errorf("cleared = %v; want %v", cleared, tc.wantCleared)
			}
			if len(f.searchCalls()) != 1 {
				t.Errorf("expected one search, got %v", f.searchCalls())
			}
		})
	}
}

func TestSequencing(t *testing.T) {
	testCases := []struct {
		name       string
		sequencing searchview.Sequencing
		want       string
	}{
		{"latest discards slow stale response", searchview.SequencingLatest, "title:ab"},
		{"arrival lets the last arrival win", searchview.SequencingArrival, "title:a"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeSearcher()
			slow := f.gate("title:a")
			v, _ := newView(t, f, searchview.Options{Sequencing: tc.sequencing})

			events, unsubscribe := v.Subscribe()
			defer unsubscribe()

			if err := v.SetField(models.FieldTitle, "a"); err != nil {
				t.Fatalf("SetField: %v", err)
			}
			if err := v.SetField(models.FieldTitle, "ab"); err != nil {
				t.Fatalf("SetField: %v", err)
			}

			// The fast response lands first
			waitFor(t, events, searchview.EventResults)
			if got := v.Snapshot().Results[0].DisplayTitle(); got != "title:ab" {
				t.Fatalf("first applied result = %q", got)
			}

			close(slow)
			waitIdle(t, v)

			if got := v.Snapshot().Results[0].DisplayTitle(); got != tc.want {
				t.Errorf("final result = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestSuggestVariantTitleSuggestions(t *testing.T) {
	f := newFakeSearcher()
	v, _ := newView(t, f, searchview.Options{Variant: models.VariantSuggest})

	if err := v.SetField(models.FieldTitle, "Harry P"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	waitIdle(t, v)

	calls := f.suggestCalls()
	if len(calls) != 1 || calls[0].field != models.FieldTitle || calls[0].value != "Harry P" {
		t.Fatalf("suggest calls = %+v", calls)
	}
	if got := v.Snapshot().SuggestionsFor(models.FieldTitle); len(got) != 2 || got[0] != "Harry P one" {
		t.Fatalf("suggestions = %v", got)
	}

	if err := v.SelectSuggestion(models.FieldTitle, "Harry P two"); err != nil {
		t.Fatalf("SelectSuggestion: %v", err)
	}
	waitIdle(t, v)

	snap := v.Snapshot()
	if snap.Fields.Title != "Harry P two" {
		t.Errorf("title = %q; want the literal suggestion", snap.Fields.Title)
	}
	if len(snap.SuggestionsFor(models.FieldTitle)) != 0 {
		t.Errorf("suggestions should be cleared after selection")
	}
	if len(f.suggestCalls()) != 1 {
		t.Errorf("selecting must not fetch more suggestions, calls = %+v", f.suggestCalls())
	}
	searches := f.searchCalls()
	if searches[len(searches)-1] != "title:Harry P two" {
		t.Errorf("selection did not trigger a search, calls = %v", searches)
	}
}

func TestSuggestVariantAuthorDropdown(t *testing.T) {
	f := newFakeSearcher()
	v, _ := newView(t, f, searchview.Options{
		Variant:       models.VariantSuggest,
		AuthorOptions: []string{"Frank Herbert", "Ursula K. Le Guin"},
	})

	if err := v.SetField(models.FieldAuthor, "Somebody Else"); !errors.Is(err, searchview.ErrUnknownAuthorOption) {
		t.Errorf("expected ErrUnknownAuthorOption, got %v", err)
	}
	if err := v.SetField(models.FieldAuthor, "Frank Herbert"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if err := v.SetField(models.FieldCategory, "Science Fiction"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	waitIdle(t, v)

	calls := f.suggestCalls()
	if len(calls) != 1 || calls[0].field != models.FieldAuthor || calls[0].value != "Frank Herbert" {
		t.Errorf("suggest calls = %+v", calls)
	}
	if len(v.AuthorOptions()) != 2 {
		t.Errorf("author options = %v", v.AuthorOptions())
	}
}

func TestSelectedAuthorSuggestionMustBeAnOption(t *testing.T) {
	f := newFakeSearcher()
	v, _ := newView(t, f, searchview.Options{
		Variant:       models.VariantSuggest,
		AuthorOptions: []string{"Frank Herbert", "Ursula K. Le Guin"},
	})

	if err := v.SetField(models.FieldAuthor, "Frank Herbert"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	waitIdle(t, v)

	before := v.Snapshot()
	if got := before.SuggestionsFor(models.FieldAuthor); len(got) != 2 {
		t.Fatalf("author suggestions = %v", got)
	}

	err := v.SelectSuggestion(models.FieldAuthor, "Frank Herbert one")
	if !errors.Is(err, searchview.ErrUnknownAuthorOption) {
		t.Fatalf("expected ErrUnknownAuthorOption, got %v", err)
	}
	after := v.Snapshot()
	if after.Fields.Author != "Frank Herbert" {
		t.Errorf("author = %q; a rejected suggestion must not be stored", after.Fields.Author)
	}
	if len(after.SuggestionsFor(models.FieldAuthor)) != 2 {
		t.Errorf("a rejected suggestion must leave the list alone, got %v", after.SuggestionsFor(models.FieldAuthor))
	}

	if err := v.SelectSuggestion(models.FieldAuthor, "Ursula K. Le Guin"); err != nil {
		t.Fatalf("SelectSuggestion of an option: %v", err)
	}
	waitIdle(t, v)
	if got := v.Snapshot().Fields.Author; got != "Ursula K. Le Guin" {
		t.Errorf("author = %q", got)
	}
}

func TestSuggestionFailureKeepsPriorList(t *testing.T) {
	f := newFakeSearcher()
	v, rec := newView(t, f, searchview.Options{Variant: models.VariantSuggest})

	if err := v.SetField(models.FieldTitle, "Dune"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	waitIdle(t, v)
	prior := v.Snapshot().SuggestionsFor(models.FieldTitle)

	f.mu.Lock()
	f.suggestFn = func(models.Field, string) ([]string, error) {
		return nil, &backend.RequestFailure{Endpoint: backend.EndpointSuggestions, Err: errors.New("down")}
	}
	f.mu.Unlock()

	if err := v.SetField(models.FieldTitle, "Dune M"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	waitIdle(t, v)

	got := v.Snapshot().SuggestionsFor(models.FieldTitle)
	if len(got) != len(prior) || got[0] != prior[0] {
		t.Errorf("suggestions changed after failure: %v -> %v", prior, got)
	}
	diags := rec.all()
	if len(diags) != 1 || diags[0].Endpoint != backend.EndpointSuggestions {
		t.Errorf("expected one suggestions diagnostic, got %+v", diags)
	}
}

func TestClassicHasNoSuggestions(t *testing.T) {
	f := newFakeSearcher()
	v, _ := newView(t, f, searchview.Options{})

	if err := v.SetField(models.FieldTitle, "Emma"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	waitIdle(t, v)

	if len(f.suggestCalls()) != 0 {
		t.Errorf("classic variant fetched suggestions: %+v", f.suggestCalls())
	}
	if err := v.SelectSuggestion(models.FieldTitle, "Emma"); !errors.Is(err, searchview.ErrSuggestionsDisabled) {
		t.Errorf("expected ErrSuggestionsDisabled, got %v", err)
	}
}

func TestThemeToggleIsPresentational(t *testing.T) {
	f := newFakeSearcher()
	v, _ := newView(t, f, searchview.Options{})

	if err := v.SetField(models.FieldTitle, "Emma"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	waitIdle(t, v)
	before := v.Snapshot()
	if before.Theme != models.ThemeLight {
		t.Fatalf("classic should start light, got %s", before.Theme)
	}

	theme, err := v.ToggleTheme()
	if err != nil {
		t.Fatalf("ToggleTheme: %v", err)
	}
	waitIdle(t, v)
	after := v.Snapshot()

	if theme != models.ThemeDark || after.Theme != models.ThemeDark {
		t.Errorf("theme = %s", after.Theme)
	}
	if after.Fields != before.Fields || after.Fingerprint != before.Fingerprint {
		t.Errorf("theme toggle changed fields or results")
	}
	if len(f.searchCalls()) != 1 {
		t.Errorf("theme toggle issued a search")
	}

	sv, _ := newView(t, f, searchview.Options{Variant: models.VariantSuggest})
	if _, err := sv.ToggleTheme(); !errors.Is(err, searchview.ErrThemeFixed) {
		t.Errorf("expected ErrThemeFixed, got %v", err)
	}
	if sv.Theme() != models.ThemeDark {
		t.Errorf("suggest variant should be dark")
	}
}

func TestCloseStopsView(t *testing.T) {
	f := newFakeSearcher()
	f.gate("title:forever")
	v, rec := newView(t, f, searchview.Options{})

	events, _ := v.Subscribe()
	if err := v.SetField(models.FieldTitle, "forever"); err != nil {
		t.Fatalf("SetField: %v", err)
	}

	v.Close()

	if err := v.SetField(models.FieldTitle, "again"); !errors.Is(err, searchview.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	for range events {
	}
	if len(rec.all()) != 0 {
		t.Errorf("requests abandoned by Close should not be reported: %+v", rec.all())
	}
}

func boolPtr(b bool) *bool { return &b }
