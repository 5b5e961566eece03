package cli

import (
	"context"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/spf13/cobra"

	"solrview/metrics"
	"solrview/solrproxy"
)

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Serve /search and /suggestions in front of Solr",
	Long: `Serve the backend the search view talks to.

  GET /search?q=             -> <solr_url>/select (q defaults to *:*)
  GET /suggestions?q=&field= -> <solr_url>/suggest with the <field>Suggester dictionary`,
	RunE: runProxy,
}

func runProxy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := solrproxy.New(solrproxy.Options{
		SolrURL: cfg.Proxy.SolrURL,
		Rows:    cfg.Proxy.Rows,
		QueryOp: cfg.Proxy.QueryOp,
		Timeout: cfg.Proxy.Timeout,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := metrics.Serve(ctx, cfg.Metrics.Port); err != nil {
			logger.LogErr(err, "metrics listener stopped")
		}
	}()

	srv := solrproxy.NewServer(rweb.ServerOptions{
		Address: cfg.Proxy.Address,
		Verbose: cfg.Web.Verbose,
	}, p)
	return solrproxy.Run(srv, cfg.Proxy.Address, cfg.Proxy.SolrURL)
}
