package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// Outcome labels for BackendRequestsTotal
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	BackendRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solrview_backend_requests_total",
		Help: "Total number of requests sent to the search backend",
	}, []string{"endpoint", "outcome"})

	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solrview_backend_request_duration_seconds",
		Help:    "Duration of search backend requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	StaleResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solrview_stale_responses_total",
		Help: "Responses discarded because a newer request superseded them",
	}, []string{"kind"})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solrview_diagnostics_total",
		Help: "Failed backend requests reported as diagnostics",
	}, []string{"endpoint"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solrview_http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"method", "path"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solrview_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "solrview_active_sessions",
		Help: "Number of live search view sessions",
	})

	ProxyUpstreamTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solrview_proxy_upstream_requests_total",
		Help: "Requests the Solr proxy forwarded upstream",
	}, []string{"endpoint", "status"})
)

// ObserveBackend records one backend round trip
func ObserveBackend(endpoint string, started time.Time, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	BackendRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

// ObserveHTTP records one served request
func ObserveHTTP(method, path string, started time.Time) {
	HTTPRequestsTotal.WithLabelValues(method, path).Inc()
	HTTPRequestDuration.WithLabelValues(path).Observe(time.Since(started).Seconds())
}

// Serve exposes /metrics on its own port until ctx is done.
// A port of zero disables the listener.
func Serve(ctx context.Context, port int) error {
	if port <= 0 {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Metrics listener starting", "port", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return serr.Wrap(err, "metrics listener failed")
	}
	return nil
}
