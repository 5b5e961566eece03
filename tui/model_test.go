package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solrview/models"
	"solrview/searchview"
)

// echoSearcher returns one document titled with the query, and two completions.
// Author completions come from authors when it is set.
type echoSearcher struct {
	authors []string
}

func (echoSearcher) Search(_ context.Context, query string) ([]models.Document, error) {
	return []models.Document{{Title: models.StringList{query}, Author: models.StringList{"Frank Herbert"}}}, nil
}

func (e echoSearcher) Suggest(_ context.Context, field models.Field, value string) ([]string, error) {
	if field == models.FieldAuthor && e.authors != nil {
		return e.authors, nil
	}
	return []string{value + " one", value + " two"}, nil
}

func newTestModel(t *testing.T, variant models.Variant) *Model {
	t.Helper()
	return newModelWith(t, echoSearcher{}, variant)
}

func newModelWith(t *testing.T, searcher echoSearcher, variant models.Variant) *Model {
	t.Helper()
	view, err := searchview.New(searcher, searchview.Options{
		Variant:       variant,
		AuthorOptions: []string{"Frank Herbert", "Ursula K. Le Guin"},
	})
	require.NoError(t, err)
	t.Cleanup(view.Close)

	return New(view)
}

// settle waits for outstanding requests and feeds the model a change event
func settle(t *testing.T, m *Model) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, m.view.WaitIdle(ctx))
	m.Update(eventMsg(searchview.Event{Kind: searchview.EventResults}))
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func key(m *Model, k tea.KeyType) {
	m.Update(tea.KeyMsg{Type: k})
}

func TestEmptyViewShowsNotice(t *testing.T) {
	m := newTestModel(t, models.VariantClassic)

	out := m.View()
	assert.Contains(t, out, models.AppTitle)
	assert.Contains(t, out, models.NoResultsText)
	assert.Contains(t, out, "ctrl+t: theme")
}

func TestTypingRunsSearch(t *testing.T) {
	m := newTestModel(t, models.VariantClassic)

	key(m, tea.KeyTab) // author -> title
	typeText(m, "Dune")
	settle(t, m)

	assert.Equal(t, "Dune", m.snap.Fields.Title)
	out := m.View()
	assert.Contains(t, out, "title:Dune")
	assert.Contains(t, out, "Author: Frank Herbert")
	assert.Contains(t, out, "Published: No")
	assert.NotContains(t, out, models.NoResultsText)
}

func TestFocusWraps(t *testing.T) {
	m := newTestModel(t, models.VariantClassic)

	key(m, tea.KeyShiftTab)
	assert.Equal(t, models.FieldCategory, m.focusedField())
	key(m, tea.KeyTab)
	assert.Equal(t, models.FieldAuthor, m.focusedField())
}

func TestThemeToggle(t *testing.T) {
	m := newTestModel(t, models.VariantClassic)
	typeText(m, "King")
	settle(t, m)
	before := m.snap

	key(m, tea.KeyCtrlT)

	assert.Equal(t, models.ThemeDark, m.snap.Theme)
	assert.Equal(t, before.Fields, m.snap.Fields)
	assert.Equal(t, before.Fingerprint, m.snap.Fingerprint)
	assert.Contains(t, m.View(), "[dark]")
	assert.Empty(t, m.status)
}

func TestSuggestVariant(t *testing.T) {
	m := newTestModel(t, models.VariantSuggest)

	t.Run("theme is fixed", func(t *testing.T) {
		key(m, tea.KeyCtrlT)
		assert.Equal(t, models.ThemeDark, m.snap.Theme)
		assert.Equal(t, searchview.ErrThemeFixed.Error(), m.status)
	})

	t.Run("arrows cycle the author options", func(t *testing.T) {
		key(m, tea.KeyRight)
		assert.Equal(t, "Frank Herbert", m.snap.Fields.Author)
		key(m, tea.KeyRight)
		assert.Equal(t, "Ursula K. Le Guin", m.snap.Fields.Author)
		key(m, tea.KeyRight)
		assert.Equal(t, "", m.snap.Fields.Author)
		key(m, tea.KeyLeft)
		assert.Equal(t, "Ursula K. Le Guin", m.snap.Fields.Author)
		assert.Contains(t, m.View(), "< Ursula K. Le Guin >")
	})

	t.Run("typed author text is ignored", func(t *testing.T) {
		typeText(m, "zz")
		assert.Equal(t, "Ursula K. Le Guin", m.snap.Fields.Author)
	})

	t.Run("title suggestions can be picked", func(t *testing.T) {
		key(m, tea.KeyTab)
		typeText(m, "Dune")
		settle(t, m)
		m.Update(eventMsg(searchview.Event{Kind: searchview.EventSuggestions, Field: models.FieldTitle}))

		require.Equal(t, []string{"Dune one", "Dune two"}, m.snap.SuggestionsFor(models.FieldTitle))
		assert.Contains(t, m.View(), "Dune one")

		key(m, tea.KeyDown)
		key(m, tea.KeyDown)
		assert.Contains(t, m.View(), "> Dune two")
		key(m, tea.KeyEnter)

		assert.Equal(t, "Dune two", m.snap.Fields.Title)
		assert.Equal(t, "Dune two", m.inputs[1].Value())
		assert.Empty(t, m.snap.SuggestionsFor(models.FieldTitle))
	})
}

func TestAuthorSuggestionsCanBePicked(t *testing.T) {
	m := newModelWith(t, echoSearcher{authors: []string{"Ursula K. Le Guin", "Frank Herbert"}}, models.VariantSuggest)

	key(m, tea.KeyRight)
	settle(t, m)
	m.Update(eventMsg(searchview.Event{Kind: searchview.EventSuggestions, Field: models.FieldAuthor}))

	require.Equal(t, "Frank Herbert", m.snap.Fields.Author)
	require.Equal(t, []string{"Ursula K. Le Guin", "Frank Herbert"}, m.snap.SuggestionsFor(models.FieldAuthor))

	key(m, tea.KeyDown)
	assert.Equal(t, "Frank Herbert", m.snap.Fields.Author, "down moves through the list instead of cycling")
	assert.Contains(t, m.View(), "> Ursula K. Le Guin")

	key(m, tea.KeyEnter)
	assert.Equal(t, "Ursula K. Le Guin", m.snap.Fields.Author)
	assert.Empty(t, m.snap.SuggestionsFor(models.FieldAuthor))
	assert.Empty(t, m.status)

	// left/right keep cycling from the picked option
	key(m, tea.KeyLeft)
	assert.Equal(t, "Frank Herbert", m.snap.Fields.Author)
}

func TestUnknownAuthorSuggestionIsRejected(t *testing.T) {
	m := newModelWith(t, echoSearcher{authors: []string{"Nobody Listed"}}, models.VariantSuggest)

	key(m, tea.KeyRight)
	settle(t, m)
	m.Update(eventMsg(searchview.Event{Kind: searchview.EventSuggestions, Field: models.FieldAuthor}))
	require.Equal(t, []string{"Nobody Listed"}, m.snap.SuggestionsFor(models.FieldAuthor))

	key(m, tea.KeyDown)
	key(m, tea.KeyEnter)

	assert.Equal(t, "Frank Herbert", m.snap.Fields.Author)
	assert.Equal(t, searchview.ErrUnknownAuthorOption.Error(), m.status)
}

func TestViewClosedQuits(t *testing.T) {
	m := newTestModel(t, models.VariantClassic)
	m.view.Close()

	msg := waitForEvent(m.events)()
	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRenderCardsGrid(t *testing.T) {
	docs := []models.Document{
		{Title: models.StringList{"A1"}},
		{Title: models.StringList{"A2"}},
		{Title: models.StringList{"A3"}},
		{Title: models.StringList{"A4"}},
	}

	out := RenderCards(docs, StylesFor(models.ThemeLight), 120)

	var firstRow string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "A1") {
			firstRow = line
			break
		}
	}
	require.NotEmpty(t, firstRow)
	assert.Contains(t, firstRow, "A2")
	assert.Contains(t, firstRow, "A3")
	assert.NotContains(t, firstRow, "A4")
	assert.Contains(t, out, "A4")
	assert.Equal(t, 4, strings.Count(out, "Category: Uncategorized"))
}
