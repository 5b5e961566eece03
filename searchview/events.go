package searchview

import "solrview/models"

// EventKind names the part of the view that changed
type EventKind string

const (
	EventFields      EventKind = "fields"
	EventResults     EventKind = "results"
	EventSuggestions EventKind = "suggestions"
	EventTheme       EventKind = "theme"
)

// Event tells listeners to re-read the snapshot
type Event struct {
	Kind     EventKind
	Field    models.Field // set for EventSuggestions and EventFields
	Revision uint64
}

// String is the SSE payload for the event
func (e Event) String() string {
	if e.Field != "" {
		return string(e.Kind) + ":" + string(e.Field)
	}
	return string(e.Kind)
}

const listenerBuffer = 16

// Subscribe returns a channel of change events and a function to stop receiving them.
// Slow listeners miss events rather than blocking the view.
func (v *View) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, listenerBuffer)

	v.listenMu.Lock()
	if v.listenersClosed {
		v.listenMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := v.nextListener
	v.nextListener++
	v.listeners[id] = ch
	v.listenMu.Unlock()

	return ch, func() {
		v.listenMu.Lock()
		defer v.listenMu.Unlock()
		if c, ok := v.listeners[id]; ok {
			delete(v.listeners, id)
			close(c)
		}
	}
}

// hasListeners reports whether anything is subscribed, such as an open event stream
func (v *View) hasListeners() bool {
	v.listenMu.Lock()
	defer v.listenMu.Unlock()
	return len(v.listeners) > 0
}

func (v *View) publish(e Event) {
	v.listenMu.Lock()
	defer v.listenMu.Unlock()

	for _, ch := range v.listeners {
		select {
		case ch <- e:
		default:
		}
	}
}

func (v *View) closeListeners() {
	v.listenMu.Lock()
	defer v.listenMu.Unlock()

	for id, ch := range v.listeners {
		delete(v.listeners, id)
		close(ch)
	}
	v.listenersClosed = true
}
