package web

import (
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"

	"solrview/searchview"
	"solrview/web/api"
)

const (
	// sseBuffer bounds how far a slow browser can fall behind before events are dropped
	sseBuffer = 16
	// sseKeepAlive is the interval between keepalive payloads
	sseKeepAlive = 15 * time.Second
	// sseMaxStalls is how many keepalives in a row may find the stream full before it is dropped
	sseMaxStalls = 3
)

// streamEvents relays the session view's change events over SSE.
// Payloads are "results", "theme", "fields:<field>", "suggestions:<field>" or "ping".
func streamEvents(s *rweb.Server, ctx rweb.Context, h *api.Handlers) error {
	v, err := h.View(ctx)
	if v == nil {
		return err
	}

	events, unsubscribe := v.Subscribe()
	eventsCh := make(chan interface{}, sseBuffer)
	go relayEvents(events, unsubscribe, eventsCh, sseKeepAlive)

	logger.Info("SSE connection established", "session_id", api.SessionID(ctx))
	return s.SetupSSE(ctx, eventsCh)
}

// relayEvents copies view events to out until the view closes or nobody drains out.
// A stream stays subscribed, and so keeps its session alive, only while it is read.
func relayEvents(events <-chan searchview.Event, unsubscribe func(), out chan<- interface{}, keepAlive time.Duration) {
	defer close(out)
	defer unsubscribe()

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	stalls := 0
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			select {
			case out <- e.String():
			default:
			}
		case <-ticker.C:
			select {
			case out <- "ping":
				stalls = 0
			default:
				stalls++
				if stalls >= sseMaxStalls {
					logger.Debug("Dropping unread SSE stream")
					return
				}
			}
		}
	}
}
