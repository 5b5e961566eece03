// Package shell is a line mode front-end for a search view.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"

	"solrview/models"
	"solrview/searchview"
)

const (
	prompt          = "solrview> "
	completeTimeout = 2 * time.Second
	// DefaultWait bounds how long a command waits for the backend
	DefaultWait = 15 * time.Second
)

var commands = []string{"author", "title", "category", "clear", "pick", "theme", "show", "query", "help", "quit"}

const helpText = `Commands:
  author <value>      set the author field
  title <value>       set the title field
  category <value>    set the category field
  clear [field]       clear one field, or all of them
  pick <field> <n>    select suggestion n of a field
  theme               toggle light/dark
  show                print the fields, query and results
  query               print the current query string
  help                this text
  quit                leave the shell
Tab after "title " or "author " completes from the suggestions endpoint.`

// Shell runs commands against one view
type Shell struct {
	view      *searchview.View
	suggester searchview.Searcher
	out       io.Writer
	wait      time.Duration
}

// New creates a shell. suggester backs tab completion and may be nil.
func New(view *searchview.View, suggester searchview.Searcher, out io.Writer) *Shell {
	return &Shell{view: view, suggester: suggester, out: out, wait: DefaultWait}
}

// Run reads commands until quit, ctrl+c or EOF.
// History is loaded from and saved to historyPath when it is set.
func (s *Shell) Run(historyPath string) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(s.Complete)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Fprintf(s.out, "%s (%s). Type help for commands.\n", models.AppTitle, s.view.Variant())

	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}
			return serr.Wrap(err, "failed to read input")
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		quit, err := s.Execute(input)
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
		if quit {
			break
		}
	}

	if historyPath != "" {
		f, err := os.Create(historyPath)
		if err != nil {
			logger.LogErr(serr.Wrap(err, "failed to save history"), "shell history", "path", historyPath)
			return nil
		}
		defer f.Close()
		_, _ = line.WriteHistory(f)
	}
	return nil
}

// Execute runs a single command line. quit is true for quit and exit.
func (s *Shell) Execute(input string) (quit bool, err error) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(input), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "author", "title", "category":
		field, _ := models.ParseField(cmd)
		if err := s.view.SetField(field, rest); err != nil {
			return false, err
		}
		s.settle()
		s.showResults()
	case "clear":
		return false, s.clear(rest)
	case "pick":
		return false, s.pick(rest)
	case "theme":
		t, err := s.view.ToggleTheme()
		if err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "theme:", t)
	case "show":
		s.show()
	case "query":
		fmt.Fprintln(s.out, s.view.Snapshot().Query)
	default:
		return false, serr.New("unknown command: " + cmd + " (try help)")
	}
	return false, nil
}

func (s *Shell) clear(arg string) error {
	fields := models.SearchFields
	if arg != "" {
		field, err := models.ParseField(arg)
		if err != nil {
			return err
		}
		fields = []models.Field{field}
	}

	for _, field := range fields {
		if err := s.view.SetField(field, ""); err != nil {
			return err
		}
	}
	s.settle()
	s.showResults()
	return nil
}

func (s *Shell) pick(args string) error {
	name, num, ok := strings.Cut(args, " ")
	if !ok {
		return serr.New("usage: pick <field> <n>")
	}
	field, err := models.ParseField(name)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return serr.New("suggestion number must be an integer")
	}

	items := s.view.Snapshot().SuggestionsFor(field)
	if n < 1 || n > len(items) {
		return serr.New(fmt.Sprintf("no suggestion %d for %s (%d available)", n, field, len(items)))
	}

	if err := s.view.SelectSuggestion(field, items[n-1]); err != nil {
		return err
	}
	s.settle()
	s.showResults()
	return nil
}

// settle waits for the requests the last edit queued
func (s *Shell) settle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.wait)
	defer cancel()
	if err := s.view.WaitIdle(ctx); err != nil {
		fmt.Fprintln(s.out, "still waiting on the search service; results may be stale")
	}
}

func (s *Shell) show() {
	snap := s.view.Snapshot()
	fmt.Fprintf(s.out, "variant: %s  theme: %s\n", snap.Variant, snap.Theme)
	for _, field := range models.SearchFields {
		fmt.Fprintf(s.out, "%-9s %s\n", field.Label()+":", snap.Fields.Get(field))
	}
	fmt.Fprintln(s.out, "query:   ", snap.Query)
	s.showResults()
}

func (s *Shell) showResults() {
	snap := s.view.Snapshot()
	RenderCards(s.out, snap.Results)

	if !snap.Variant.Suggestions() {
		return
	}
	for _, field := range models.SearchFields {
		items := snap.SuggestionsFor(field)
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(s.out, "%s suggestions:\n", field.Label())
		for i, item := range items {
			fmt.Fprintf(s.out, "  %d) %s\n", i+1, item)
		}
	}
}

// Complete offers command names, and suggestions after "title " or "author "
func (s *Shell) Complete(line string) []string {
	cmd, rest, hasArg := strings.Cut(line, " ")
	if !hasArg {
		var out []string
		for _, c := range commands {
			if strings.HasPrefix(c, strings.ToLower(cmd)) {
				out = append(out, c+" ")
			}
		}
		return out
	}

	field, err := models.ParseField(cmd)
	if err != nil || !field.Suggestible() || s.suggester == nil || strings.TrimSpace(rest) == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), completeTimeout)
	defer cancel()

	items, err := s.suggester.Suggest(ctx, field, rest)
	if err != nil {
		logger.LogErr(err, "completion lookup failed", "field", string(field))
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, cmd+" "+item)
	}
	return out
}

// RenderCards prints docs as numbered text cards, or the empty notice
func RenderCards(w io.Writer, docs []models.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, models.NoResultsText)
		return
	}
	for i, doc := range docs {
		fmt.Fprintf(w, "[%d] %s\n", i+1, doc.DisplayTitle())
		for _, line := range doc.CardLines() {
			fmt.Fprintf(w, "    %s %s\n", line.Label, line.Value)
		}
	}
}
