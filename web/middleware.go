package web

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"golang.org/x/time/rate"

	"solrview/metrics"
	"solrview/web/api"
)

// SessionHeader lets non-browser clients pick their session without cookies
const SessionHeader = "X-Session-ID"

// newSessionKey marks a request whose session id was minted by SessionMiddleware
const newSessionKey = "session_new"

// CorsMiddleware handles CORS headers for cross-origin requests
func CorsMiddleware(c rweb.Context) error {
	c.Response().SetHeader("Access-Control-Allow-Origin", "*")
	c.Response().SetHeader("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
	c.Response().SetHeader("Access-Control-Allow-Headers", "Content-Type, X-Requested-With, X-Body-Encoding, "+SessionHeader)

	// Handle preflight OPTIONS requests
	if c.Request().Method() == "OPTIONS" {
		c.SetStatus(http.StatusOK)
		return nil
	}

	return c.Next()
}

// SessionMiddleware gives every request a session id.
// An explicit header wins over the cookie; anything that is not a uuid is replaced.
func SessionMiddleware(c rweb.Context) error {
	if id := c.Request().Header(SessionHeader); validSessionID(id) {
		c.Set(api.SessionKey, id)
		return c.Next()
	}

	cookieValue, err := c.GetCookie("session_id")
	if err == nil && validSessionID(cookieValue) {
		c.Set(api.SessionKey, cookieValue)
		return c.Next()
	}

	// No usable session - start one
	sessionID := uuid.New().String()
	if err := c.SetCookie("session_id", sessionID); err != nil {
		logger.LogErr(err, "failed to set session cookie")
	}
	c.Set(api.SessionKey, sessionID)
	c.Set(newSessionKey, true)

	return c.Next()
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware(c rweb.Context) error {
	c.Response().SetHeader("X-Content-Type-Options", "nosniff")
	c.Response().SetHeader("X-Frame-Options", "DENY")
	c.Response().SetHeader("Referrer-Policy", "strict-origin-when-cross-origin")

	// Card and field styling is inline
	csp := []string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data:",
		"connect-src 'self'",
	}
	c.Response().SetHeader("Content-Security-Policy", strings.Join(csp, "; "))

	return c.Next()
}

// RateLimitMiddleware allows each client requestsPerMinute with an equal burst.
// Clients are told apart by limiterKey.
func RateLimitMiddleware(requestsPerMinute int) rweb.Handler {
	limiters := newClientLimiters(requestsPerMinute)

	return func(c rweb.Context) error {
		sessionID := api.SessionID(c)
		if minted, _ := c.Get(newSessionKey).(bool); minted {
			sessionID = ""
		}
		key := limiterKey(c.Request().Header("X-Forwarded-For"), c.Request().Header("X-Real-IP"), sessionID)

		if !limiters.allow(key, time.Now()) {
			logger.Info("Rate limit exceeded", "client", key)
			c.SetStatus(http.StatusTooManyRequests)
			return c.WriteJSON(api.APIResponse{Success: false, Error: "rate limit exceeded"})
		}
		return c.Next()
	}
}

// limiterKey picks the bucket for a request: the first forwarded address,
// then X-Real-IP, then the session the client presented.
// Requests with none of these share the anonymous bucket.
func limiterKey(forwardedFor, realIP, sessionID string) string {
	if first, _, _ := strings.Cut(forwardedFor, ","); strings.TrimSpace(first) != "" {
		return "ip:" + strings.TrimSpace(first)
	}
	if ip := strings.TrimSpace(realIP); ip != "" {
		return "ip:" + ip
	}
	if sessionID != "" {
		return "session:" + sessionID
	}
	return "anonymous"
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters keeps one token bucket per client, forgetting idle clients
type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	swept   time.Time
}

func newClientLimiters(perMinute int) *clientLimiters {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &clientLimiters{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   perMinute,
	}
}

func (l *clientLimiters) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) > time.Minute {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > 3*time.Minute {
				delete(l.clients, k)
			}
		}
		l.swept = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// LoggingMiddleware provides detailed request logging
func LoggingMiddleware(c rweb.Context) error {
	start := time.Now()

	logger.Debug("Request started",
		"method", c.Request().Method(),
		"path", c.Request().Path(),
		"ip", c.Request().Header("X-Forwarded-For"),
	)

	err := c.Next()

	metrics.ObserveHTTP(c.Request().Method(), routeLabel(c.Request().Path()), start)
	logger.Debug("Request completed",
		"method", c.Request().Method(),
		"path", c.Request().Path(),
		"duration", time.Since(start),
		"error", err,
	)

	return err
}

// routeLabel folds parameterised paths so metric label sets stay bounded
func routeLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/static/"):
		return "/static/*"
	case strings.HasPrefix(path, "/api/v1/view/fields/"):
		return "/api/v1/view/fields/:field"
	case strings.HasPrefix(path, "/api/v1/view/suggestions/"):
		return "/api/v1/view/suggestions/:field/select"
	}
	return path
}

func validSessionID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
