package cli

import (
	"context"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/spf13/cobra"

	"solrview/metrics"
	"solrview/models"
	"solrview/searchview"
	"solrview/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search page",
	Long: `Serve the search page. Every browser session gets its own view;
idle sessions are dropped after web.session_ttl.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := newBackend(cfg)
	if err != nil {
		return err
	}

	journal, err := models.OpenJournal(cfg.Diagnostics.DBPath)
	if err != nil {
		return err
	}
	defer journal.Close()

	base, err := cfg.ViewOptions(searchview.NewRecorder(journal))
	if err != nil {
		return err
	}

	store := searchview.NewStore(func(sessionID string) (*searchview.View, error) {
		opts := base
		opts.SessionID = sessionID
		return searchview.New(client, opts)
	}, cfg.Web.SessionTTL)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go store.Run(ctx)
	go func() {
		if err := metrics.Serve(ctx, cfg.Metrics.Port); err != nil {
			logger.LogErr(err, "metrics listener stopped")
		}
	}()

	logger.Info("Search view configured", "variant", string(base.Variant), "backend", client.Origin())

	srv := web.NewServer(rweb.ServerOptions{
		Address: cfg.Web.Address,
		Verbose: cfg.Web.Verbose,
	}, web.Deps{Store: store, Journal: journal, RateLimit: cfg.Web.RateLimit})
	return web.Run(srv, cfg.Web.Address)
}
