// Package tui drives a search view from the terminal with bubbletea.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rohanthewiz/serr"

	"solrview/models"
	"solrview/searchview"
)

const (
	gridColumns  = 3
	gridGap      = 2
	defaultWidth = 100
)

// eventMsg carries a view change into the update loop
type eventMsg searchview.Event

// viewClosedMsg is sent once the view stops publishing
type viewClosedMsg struct{}

// Model is the terminal front-end of one view. It does not own the view.
type Model struct {
	view   *searchview.View
	events <-chan searchview.Event
	stop   func()

	inputs     []textinput.Model // one per models.SearchFields entry
	focus      int
	authorIdx  int // -1 while no author is selected
	suggestIdx int // -1 while no suggestion is highlighted
	snap       models.Snapshot
	width      int
	status     string
}

// New subscribes to view and builds the model
func New(view *searchview.View) *Model {
	events, stop := view.Subscribe()
	m := &Model{
		view:       view,
		events:     events,
		stop:       stop,
		authorIdx:  -1,
		suggestIdx: -1,
		snap:       view.Snapshot(),
	}

	for _, field := range models.SearchFields {
		ti := textinput.New()
		ti.Placeholder = "Search by " + string(field) + "..."
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.SetValue(m.snap.Fields.Get(field))
		m.inputs = append(m.inputs, ti)
	}
	m.inputs[0].Focus()
	return m
}

// Run shows the model full screen until the user quits
func Run(view *searchview.View) error {
	m := New(view)
	defer m.stop()

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return serr.Wrap(err, "terminal UI failed")
	}
	return nil
}

// waitForEvent blocks on the next view change
func waitForEvent(events <-chan searchview.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return viewClosedMsg{}
		}
		return eventMsg(e)
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.events))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case eventMsg:
		if msg.Kind == searchview.EventSuggestions {
			m.suggestIdx = -1
		}
		m.refresh()
		return m, waitForEvent(m.events)

	case viewClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		return tea.Quit
	case "tab":
		return m.setFocus(m.focus + 1)
	case "shift+tab":
		return m.setFocus(m.focus - 1)
	case "ctrl+t":
		if _, err := m.view.ToggleTheme(); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
		m.refresh()
		return nil
	}

	field := m.focusedField()
	variant := m.view.Variant()

	if field == models.FieldAuthor && variant.AuthorDropdown() {
		// up/down belong to the suggestion list once it has entries
		listed := variant.Suggestions() && len(m.snap.SuggestionsFor(field)) > 0
		switch msg.String() {
		case "left":
			m.cycleAuthor(-1)
			return nil
		case "right":
			m.cycleAuthor(1)
			return nil
		case "up":
			if !listed {
				m.cycleAuthor(-1)
				return nil
			}
		case "down":
			if !listed {
				m.cycleAuthor(1)
				return nil
			}
		case "enter":
		default:
			return nil
		}
	}

	if variant.Suggestions() && field.Suggestible() {
		items := m.snap.SuggestionsFor(field)
		switch msg.String() {
		case "up":
			if len(items) > 0 {
				m.suggestIdx = (m.suggestIdx - 1 + len(items)) % len(items)
			}
			return nil
		case "down":
			if len(items) > 0 {
				m.suggestIdx = (m.suggestIdx + 1) % len(items)
			}
			return nil
		case "enter":
			if m.suggestIdx >= 0 && m.suggestIdx < len(items) {
				m.pick(field, items[m.suggestIdx])
			}
			return nil
		}
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		m.apply(field, after)
	}
	return cmd
}

func (m *Model) focusedField() models.Field {
	return models.SearchFields[m.focus]
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	m.inputs[m.focus].Blur()
	m.focus = ((i % n) + n) % n
	m.suggestIdx = -1
	return m.inputs[m.focus].Focus()
}

// cycleAuthor steps through the dropdown options, with "none" between the last and first
func (m *Model) cycleAuthor(delta int) {
	options := m.view.AuthorOptions()
	n := len(options) + 1
	m.authorIdx = ((m.authorIdx+1+delta)%n+n)%n - 1

	value := ""
	if m.authorIdx >= 0 {
		value = options[m.authorIdx]
	}
	m.apply(models.FieldAuthor, value)
}

func (m *Model) apply(field models.Field, value string) {
	if err := m.view.SetField(field, value); err != nil {
		m.status = err.Error()
	} else {
		m.status = ""
	}
	m.refresh()
}

func (m *Model) pick(field models.Field, value string) {
	if err := m.view.SelectSuggestion(field, value); err != nil {
		m.status = err.Error()
		return
	}
	for i, f := range models.SearchFields {
		if f == field {
			m.inputs[i].SetValue(value)
			m.inputs[i].CursorEnd()
		}
	}
	if field == models.FieldAuthor && m.view.Variant().AuthorDropdown() {
		m.authorIdx = -1
		for i, option := range m.view.AuthorOptions() {
			if option == value {
				m.authorIdx = i
			}
		}
	}
	m.suggestIdx = -1
	m.status = ""
	m.refresh()
}

func (m *Model) refresh() {
	m.snap = m.view.Snapshot()
	if m.suggestIdx >= len(m.snap.SuggestionsFor(m.focusedField())) {
		m.suggestIdx = -1
	}
}

func (m *Model) View() string {
	s := StylesFor(m.snap.Theme)
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	header := models.AppTitle
	if m.view.Variant().ThemeToggle() {
		header += "  [" + string(m.snap.Theme) + "]"
	}

	sections := []string{s.Header.Render(header)}
	for i, field := range models.SearchFields {
		sections = append(sections, m.renderField(s, i, field, width))
	}
	sections = append(sections, "", RenderCards(m.snap.Results, s, width))
	if m.status != "" {
		sections = append(sections, s.Status.Render(m.status))
	}
	sections = append(sections, "", s.Help.Render(m.helpText()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderField(s Styles, i int, field models.Field, width int) string {
	box := s.Input
	if i == m.focus {
		box = s.FocusedInput
	}
	inputWidth := min(width-4, 60)

	var content string
	if field == models.FieldAuthor && m.view.Variant().AuthorDropdown() {
		content = "< Select an author... >"
		if m.snap.Fields.Author != "" {
			content = "< " + m.snap.Fields.Author + " >"
		}
	} else {
		content = m.inputs[i].View()
	}

	parts := []string{s.Label.Render(field.Label()), box.Width(inputWidth).Render(content)}

	if m.view.Variant().Suggestions() && i == m.focus {
		for j, item := range m.snap.SuggestionsFor(field) {
			if j == m.suggestIdx {
				parts = append(parts, s.Selected.Render("> "+item))
			} else {
				parts = append(parts, s.Suggestion.Render(item))
			}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) helpText() string {
	help := []string{"tab/shift+tab: field"}
	if m.view.Variant().AuthorDropdown() {
		help = append(help, "left/right: author")
	}
	if m.view.Variant().Suggestions() {
		help = append(help, "up/down/enter: suggestion")
	}
	if m.view.Variant().ThemeToggle() {
		help = append(help, "ctrl+t: theme")
	}
	help = append(help, "esc: quit")
	return strings.Join(help, " • ")
}

// RenderCards lays docs out in a three column grid, or the empty notice
func RenderCards(docs []models.Document, s Styles, width int) string {
	if len(docs) == 0 {
		return s.NoResults.Width(width).Render(models.NoResultsText)
	}

	// border and padding take four cells per card
	cardWidth := max((width-gridGap*(gridColumns-1))/gridColumns-4, 16)

	var rows []string
	for start := 0; start < len(docs); start += gridColumns {
		end := min(start+gridColumns, len(docs))
		var cells []string
		for i, doc := range docs[start:end] {
			if i > 0 {
				cells = append(cells, strings.Repeat(" ", gridGap))
			}
			cells = append(cells, renderCard(doc, s, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(doc models.Document, s Styles, width int) string {
	lines := []string{s.CardTitle.Render(doc.DisplayTitle())}
	for _, line := range doc.CardLines() {
		lines = append(lines, s.CardLabel.Render(line.Label)+" "+line.Value)
	}
	return s.Card.Width(width).Render(strings.Join(lines, "\n"))
}
