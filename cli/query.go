package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rohanthewiz/serr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"solrview/backend"
	"solrview/models"
	"solrview/shell"
)

var (
	queryFields  models.Fields
	queryJSON    bool
	queryTimeout time.Duration
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run one search and print the results",
	Long: `Run one search against the backend and print the results as cards.

Examples:
  solrview query --author "Stephen King"
  solrview query --title "Go in Action" --category Programming --json`,
	RunE: runQuery,
}

func init() {
	addFieldFlags(queryCmd.Flags(), &queryFields)
	queryCmd.Flags().BoolVarP(&queryJSON, "json", "j", false, "print the documents as JSON")
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", 30*time.Second, "request timeout")
}

// addFieldFlags binds one flag per search field
func addFieldFlags(fs *pflag.FlagSet, f *models.Fields) {
	fs.StringVarP(&f.Author, "author", "a", "", "author to search for")
	fs.StringVarP(&f.Title, "title", "t", "", "title to search for")
	fs.StringVar(&f.Category, "category", "", "category to search for")
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryFields.IsEmpty() {
		return serr.New("at least one of --author, --title or --category is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newBackend(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return printQuery(ctx, os.Stdout, client, queryFields, queryJSON)
}

func printQuery(ctx context.Context, w io.Writer, client *backend.Client, fields models.Fields, asJSON bool) error {
	q := models.BuildQuery(fields)
	docs, err := client.Search(ctx, q)
	if err != nil {
		return err
	}

	if asJSON {
		out, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return serr.Wrap(err, "failed to encode results")
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	fmt.Fprintln(w, "query:", q)
	shell.RenderCards(w, docs)
	return nil
}
