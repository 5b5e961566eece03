package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"solrview/metrics"
	"solrview/models"
)

var tracer = otel.Tracer("solrview/backend")

// maxBodyBytes bounds how much of a response body is read
const maxBodyBytes = 8 << 20

// Options configures a Client
type Options struct {
	// Origin is the scheme://host[:port] the /search and /suggestions paths hang off
	Origin string
	// Timeout of zero means no client-imposed deadline
	Timeout time.Duration
	// HTTPClient overrides the default client (tests)
	HTTPClient *http.Client
}

// Client talks to the search backend over HTTP
type Client struct {
	origin     string
	httpClient *http.Client
}

// NewClient validates the origin and builds a client
func NewClient(opts Options) (*Client, error) {
	origin := strings.TrimRight(strings.TrimSpace(opts.Origin), "/")
	if origin == "" {
		return nil, serr.New("backend origin is required")
	}
	u, err := url.Parse(origin)
	if err != nil {
		return nil, serr.Wrap(err, "invalid backend origin")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, serr.New("backend origin must be http or https: " + origin)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{origin: origin, httpClient: hc}, nil
}

// Origin returns the normalised backend origin
func (c *Client) Origin() string {
	return c.origin
}

// SearchURL is the full URL a query is sent to
func (c *Client) SearchURL(query string) string {
	return c.origin + "/search?" + models.SearchParams(query).Encode()
}

// SuggestionsURL is the full URL a suggestion lookup is sent to
func (c *Client) SuggestionsURL(field models.Field, value string) string {
	return c.origin + "/suggestions?" + models.SuggestionParams(field, value).Encode()
}

// Search runs query and returns response.docs in backend order
func (c *Client) Search(ctx context.Context, query string) ([]models.Document, error) {
	ctx, span := tracer.Start(ctx, "backend.search", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("search.query", query))

	reqURL := c.SearchURL(query)
	body, err := c.get(ctx, EndpointSearch, reqURL, searchValidator)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search_failed")
		return nil, err
	}

	var resp models.SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		err = &RequestFailure{Endpoint: EndpointSearch, URL: reqURL, StatusCode: http.StatusOK,
			Err: serr.Wrap(err, "failed to decode search response")}
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode_failed")
		return nil, err
	}

	docs := resp.Response.Docs
	if docs == nil {
		docs = []models.Document{}
	}
	span.SetAttributes(attribute.Int("search.docs", len(docs)))
	logger.Debug("Search completed", "query", query, "docs", len(docs))
	return docs, nil
}

// Suggest looks up completions for value in field.
// An absent suggestions key yields an empty list.
func (c *Client) Suggest(ctx context.Context, field models.Field, value string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "backend.suggestions", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("suggest.field", string(field)),
		attribute.String("suggest.q", value),
	)

	reqURL := c.SuggestionsURL(field, value)
	body, err := c.get(ctx, EndpointSuggestions, reqURL, suggestionsValidator)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "suggestions_failed")
		return nil, err
	}

	var resp models.SuggestionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		err = &RequestFailure{Endpoint: EndpointSuggestions, URL: reqURL, StatusCode: http.StatusOK,
			Err: serr.Wrap(err, "failed to decode suggestions response")}
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode_failed")
		return nil, err
	}

	if resp.Suggestions == nil {
		return []string{}, nil
	}
	return resp.Suggestions, nil
}

// get performs one GET and returns the validated body
func (c *Client) get(ctx context.Context, endpoint, reqURL string, v validator) (body []byte, err error) {
	started := time.Now()
	defer func() { metrics.ObserveBackend(endpoint, started, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &RequestFailure{Endpoint: endpoint, URL: reqURL, Err: serr.Wrap(err, "failed to create request")}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestFailure{Endpoint: endpoint, URL: reqURL, Err: serr.Wrap(err, "request failed")}
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &RequestFailure{Endpoint: endpoint, URL: reqURL, StatusCode: resp.StatusCode,
			Err: serr.Wrap(err, "failed to read response body")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestFailure{Endpoint: endpoint, URL: reqURL, StatusCode: resp.StatusCode,
			Err: serr.New(fmt.Sprintf("unexpected status %d", resp.StatusCode))}
	}

	if err := v.validate(body); err != nil {
		return nil, &RequestFailure{Endpoint: endpoint, URL: reqURL, StatusCode: resp.StatusCode, Err: err}
	}
	return body, nil
}
