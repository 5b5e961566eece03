package searchview

import (
	"context"
	"sync"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"

	"solrview/metrics"
)

// DefaultSessionTTL is how long an untouched session survives
const DefaultSessionTTL = 30 * time.Minute

// Factory builds the view for a new session
type Factory func(sessionID string) (*View, error)

type storeEntry struct {
	view     *View
	lastSeen time.Time
}

// Store keeps one View per session and evicts idle ones
type Store struct {
	factory Factory
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*storeEntry
	closed  bool
}

// NewStore creates a session store. A ttl of zero uses DefaultSessionTTL.
func NewStore(factory Factory, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{
		factory: factory,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*storeEntry),
	}
}

// Get returns the session's view, creating it on first use
func (s *Store) Get(sessionID string) (*View, error) {
	if sessionID == "" {
		return nil, serr.New("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if e, ok := s.entries[sessionID]; ok {
		e.lastSeen = s.now()
		return e.view, nil
	}

	v, err := s.factory(sessionID)
	if err != nil {
		return nil, serr.Wrap(err, "failed to create search view")
	}
	s.entries[sessionID] = &storeEntry{view: v, lastSeen: s.now()}
	metrics.ActiveSessions.Set(float64(len(s.entries)))
	logger.Debug("Search view created", "session_id", sessionID)
	return v, nil
}

// Lookup returns an existing view without creating one
func (s *Store) Lookup(sessionID string) (*View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.view, true
}

// Len reports the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep closes sessions idle since before now-ttl and returns how many went.
// A session with a live subscriber counts as seen.
func (s *Store) Sweep(now time.Time) int {
	var expired []*View

	s.mu.Lock()
	for id, e := range s.entries {
		if e.view.hasListeners() {
			e.lastSeen = now
			continue
		}
		if now.Sub(e.lastSeen) > s.ttl {
			expired = append(expired, e.view)
			delete(s.entries, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.entries)))
	s.mu.Unlock()

	for _, v := range expired {
		v.Close()
	}
	if len(expired) > 0 {
		logger.Info("Evicted idle search sessions", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			s.Sweep(t)
		}
	}
}

// Close closes every view; later Gets fail
func (s *Store) Close() {
	s.mu.Lock()
	views := make([]*View, 0, len(s.entries))
	for id, e := range s.entries {
		views = append(views, e.view)
		delete(s.entries, id)
	}
	s.closed = true
	metrics.ActiveSessions.Set(0)
	s.mu.Unlock()

	for _, v := range views {
		v.Close()
	}
}
