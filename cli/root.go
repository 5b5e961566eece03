// Package cli holds the solrview commands.
package cli

import (
	"github.com/google/uuid"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
	"github.com/spf13/cobra"

	"solrview/backend"
	"solrview/config"
	"solrview/models"
	"solrview/searchview"
)

var (
	configPath   string
	variantFlag  string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "solrview",
	Short: "Solr book search front-ends",
	Long: `solrview searches a Solr book index by author, title and category.

It ships a web page (serve), a terminal UI (tui), a line mode shell (shell),
a one-shot search (query) and the small proxy that fronts Solr (proxy).
Settings come from solrview.yaml, .env and SOLRVIEW_* variables.`,
	SilenceUsage: true,
}

// Execute runs the command line
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $"+config.EnvConfigPath+" or ./"+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&variantFlag, "variant", "", "front-end variant: classic|suggest")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug|info|warn|error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(proxyCmd)
	rootCmd.AddCommand(queryCmd)
}

// loadConfig reads the config, applies the global flags and sets the log level
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if variantFlag != "" {
		cfg.Variant = variantFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, serr.Wrap(err, "invalid command line flags")
	}

	logger.SetLogLevel(cfg.LogLevel)
	return cfg, nil
}

func newBackend(cfg *config.Config) (*backend.Client, error) {
	return backend.NewClient(backend.Options{
		Origin:  cfg.Backend.Origin,
		Timeout: cfg.Backend.Timeout,
	})
}

// localView is a single view for the terminal front-ends
type localView struct {
	view    *searchview.View
	client  *backend.Client
	journal *models.Journal
}

func openLocalView(cfg *config.Config) (*localView, error) {
	client, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	journal, err := models.OpenJournal(cfg.Diagnostics.DBPath)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.ViewOptions(searchview.NewRecorder(journal))
	if err != nil {
		journal.Close()
		return nil, err
	}
	opts.SessionID = uuid.New().String()

	view, err := searchview.New(client, opts)
	if err != nil {
		journal.Close()
		return nil, err
	}
	return &localView{view: view, client: client, journal: journal}, nil
}

func (l *localView) Close() {
	l.view.Close()
	if err := l.journal.Close(); err != nil {
		logger.LogErr(err, "failed to close diagnostics journal")
	}
}
