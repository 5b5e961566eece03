// Package solrproxy serves the /search and /suggestions endpoints the view
// consumes, in front of a Solr core.
package solrproxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"

	"solrview/metrics"
	"solrview/models"
)

const (
	// DefaultQuery matches every document
	DefaultQuery = "*:*"
	maxBodyBytes = 8 << 20
)

// Options locate the Solr core and shape the forwarded queries
type Options struct {
	SolrURL    string // core URL, e.g. http://localhost:8983/solr/jcg1
	Rows       int
	QueryOp    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Proxy forwards requests to Solr
type Proxy struct {
	solr    string
	rows    int
	queryOp string
	client  *http.Client
}

// New validates opts and builds a proxy
func New(opts Options) (*Proxy, error) {
	core := strings.TrimRight(strings.TrimSpace(opts.SolrURL), "/")
	u, err := url.Parse(core)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, serr.New("solr url must be an absolute http(s) URL: " + opts.SolrURL)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	rows := opts.Rows
	if rows <= 0 {
		rows = 10
	}
	queryOp := strings.ToUpper(opts.QueryOp)
	if queryOp == "" {
		queryOp = "OR"
	}

	return &Proxy{solr: core, rows: rows, queryOp: queryOp, client: client}, nil
}

// SelectURL is the upstream URL a /search?q= request is forwarded to
func (p *Proxy) SelectURL(q string) string {
	if q == "" {
		q = DefaultQuery
	}
	params := url.Values{}
	params.Set("q", q)
	params.Set("wt", "json")
	params.Set("q.op", p.queryOp)
	params.Set("rows", strconv.Itoa(p.rows))
	return p.solr + "/select?" + params.Encode()
}

// SuggestURL is the upstream URL a /suggestions request is forwarded to
func (p *Proxy) SuggestURL(field models.Field, q string) string {
	params := url.Values{}
	params.Set("suggest", "true")
	params.Set("suggest.q", q)
	params.Set("suggest.dictionary", dictionary(field))
	params.Set("wt", "json")
	return p.solr + "/suggest?" + params.Encode()
}

func dictionary(field models.Field) string {
	return string(field) + "Suggester"
}

// NewServer creates the rweb server for the proxy
func NewServer(opts rweb.ServerOptions, p *Proxy) *rweb.Server {
	s := rweb.NewServer(opts)

	s.Use(rweb.RequestInfo)
	s.Use(corsMiddleware)

	s.Get("/search", p.Search)
	s.Get("/suggestions", p.Suggestions)
	s.Get("/health", func(ctx rweb.Context) error {
		return ctx.WriteJSON(map[string]string{"status": "ok", "solr": p.solr})
	})
	return s
}

// corsMiddleware opens the proxy to any origin
func corsMiddleware(c rweb.Context) error {
	c.Response().SetHeader("Access-Control-Allow-Origin", "*")
	c.Response().SetHeader("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Response().SetHeader("Access-Control-Allow-Headers", "Content-Type")

	if c.Request().Method() == "OPTIONS" {
		c.SetStatus(http.StatusOK)
		return nil
	}
	return c.Next()
}

// Search handles GET /search?q= by relaying Solr's select response
func (p *Proxy) Search(ctx rweb.Context) error {
	status, body, err := p.forward("search", p.SelectURL(ctx.Request().QueryParam("q")))
	if err != nil {
		return writeUpstreamError(ctx, err)
	}

	ctx.SetStatus(status)
	ctx.Response().SetHeader("Content-Type", "application/json")
	return ctx.Bytes(body)
}

// suggestReply is the part of a Solr suggest response the proxy reads
type suggestReply struct {
	Suggest map[string]map[string]struct {
		NumFound    int `json:"numFound"`
		Suggestions []struct {
			Term string `json:"term"`
		} `json:"suggestions"`
	} `json:"suggest"`
}

// Suggestions handles GET /suggestions?q=&field= and answers {"suggestions":[...]}
func (p *Proxy) Suggestions(ctx rweb.Context) error {
	field, err := models.ParseField(ctx.Request().QueryParam("field"))
	if err != nil || !field.Suggestible() {
		ctx.SetStatus(http.StatusBadRequest)
		return ctx.WriteJSON(map[string]string{"error": "field must be author or title"})
	}

	q := ctx.Request().QueryParam("q")
	if q == "" {
		return ctx.WriteJSON(models.SuggestionsResponse{Suggestions: []string{}})
	}

	status, body, err := p.forward("suggestions", p.SuggestURL(field, q))
	if err != nil {
		return writeUpstreamError(ctx, err)
	}
	if status < 200 || status > 299 {
		ctx.SetStatus(status)
		ctx.Response().SetHeader("Content-Type", "application/json")
		return ctx.Bytes(body)
	}

	var reply suggestReply
	if err := json.Unmarshal(body, &reply); err != nil {
		logger.LogErr(serr.Wrap(err, "failed to decode solr suggest reply"), "proxy error")
		ctx.SetStatus(http.StatusBadGateway)
		return ctx.WriteJSON(map[string]string{"error": "unreadable suggest reply"})
	}

	return ctx.WriteJSON(models.SuggestionsResponse{Suggestions: reply.terms(dictionary(field))})
}

// terms flattens one dictionary's suggestions, dropping duplicates
func (r suggestReply) terms(dict string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, byQuery := range r.Suggest[dict] {
		for _, s := range byQuery.Suggestions {
			if s.Term == "" || seen[s.Term] {
				continue
			}
			seen[s.Term] = true
			out = append(out, s.Term)
		}
	}
	return out
}

// forward performs the upstream GET and returns its status and body
func (p *Proxy) forward(endpoint, upstream string) (int, []byte, error) {
	resp, err := p.client.Get(upstream)
	if err != nil {
		metrics.ProxyUpstreamTotal.WithLabelValues(endpoint, "error").Inc()
		return 0, nil, serr.Wrap(err, "solr request failed")
	}
	defer resp.Body.Close()

	metrics.ProxyUpstreamTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, serr.Wrap(err, "failed to read solr response")
	}
	logger.Debug("Proxied solr request", "endpoint", endpoint, "status", resp.StatusCode)
	return resp.StatusCode, body, nil
}

func writeUpstreamError(ctx rweb.Context, err error) error {
	logger.LogErr(err, "proxy error")
	ctx.SetStatus(http.StatusBadGateway)
	return ctx.WriteJSON(map[string]string{"error": "search service unavailable"})
}

// Run starts the proxy server
func Run(s *rweb.Server, address, solr string) error {
	logger.Info("Solr proxy starting", "address", address, "solr", solr)
	return s.Run()
}
