package web

import (
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"

	"solrview/models"
	"solrview/searchview"
	"solrview/web/api"
)

// Deps are the services the routes read from
type Deps struct {
	Store   *searchview.Store
	Journal *models.Journal
	// RateLimit is requests per minute per client; 0 turns limiting off
	RateLimit int
}

// NewServer creates and configures the RWeb server
func NewServer(opts rweb.ServerOptions, deps Deps) *rweb.Server {
	s := rweb.NewServer(opts)

	// Apply middleware
	s.Use(rweb.RequestInfo)          // Logs request info
	s.Use(CorsMiddleware)            // Custom CORS middleware
	s.Use(SessionMiddleware)         // Session management
	s.Use(SecurityHeadersMiddleware) // Security headers
	if deps.RateLimit > 0 {
		s.Use(RateLimitMiddleware(deps.RateLimit))
	}
	s.Use(LoggingMiddleware) // Request logging and metrics

	setupRoutes(s, &api.Handlers{Store: deps.Store, Journal: deps.Journal})

	// Serve static files using embedded FS
	SetupStaticFiles(s)

	return s
}

// NewTestServer builds a server for integration tests: no rate limiting,
// options (dynamic port, ReadyChan) supplied by the caller.
func NewTestServer(opts rweb.ServerOptions, deps Deps) *rweb.Server {
	deps.RateLimit = 0
	return NewServer(opts, deps)
}

// Run starts the server
func Run(s *rweb.Server, address string) error {
	logger.Info("SolrView web server starting on", "address", address)
	return s.Run()
}
