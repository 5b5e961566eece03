package web

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rohanthewiz/rweb"

	"solrview/models"
	"solrview/searchview"
)

type nopSearcher struct{}

func (nopSearcher) Search(context.Context, string) ([]models.Document, error) { return nil, nil }

func (nopSearcher) Suggest(context.Context, models.Field, string) ([]string, error) { return nil, nil }

func TestLimiterKey(t *testing.T) {
	tests := []struct {
		name                          string
		forwardedFor, realIP, session string
		want                          string
	}{
		{"forwarded chain uses the client", "203.0.113.7, 10.0.0.1", "10.0.0.1", "s1", "ip:203.0.113.7"},
		{"real ip", "", " 198.51.100.2 ", "s1", "ip:198.51.100.2"},
		{"session when no address", "", "", "s1", "session:s1"},
		{"blank forwarded entry", " ,10.0.0.1", "", "s2", "session:s2"},
		{"nothing known", "", "", "", "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := limiterKey(tt.forwardedFor, tt.realIP, tt.session); got != tt.want {
				t.Errorf("limiterKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientLimitersSeparateKeys(t *testing.T) {
	l := newClientLimiters(2)
	now := time.Now()

	for i := 0; i < 2; i++ {
		if !l.allow("session:a", now) {
			t.Fatalf("request %d for a rejected within burst", i+1)
		}
	}
	if l.allow("session:a", now) {
		t.Error("third request for a should be limited")
	}
	if !l.allow("session:b", now) {
		t.Error("b must not share a's bucket")
	}
}

func TestRateLimitPerSession(t *testing.T) {
	journal, err := models.OpenJournal("")
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	defer journal.Close()

	store := searchview.NewStore(func(id string) (*searchview.View, error) {
		return searchview.New(nopSearcher{}, searchview.Options{SessionID: id})
	}, time.Minute)
	defer store.Close()

	readyChan := make(chan struct{}, 1)
	srv := NewServer(rweb.ServerOptions{ReadyChan: readyChan, Address: "localhost:"},
		Deps{Store: store, Journal: journal, RateLimit: 2})
	go func() {
		_ = srv.Run()
	}()
	<-readyChan

	baseURL := fmt.Sprintf("http://localhost:%s", srv.GetListenPort())
	client := &http.Client{Timeout: 5 * time.Second}

	get := func(sessionID string) int {
		req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/view", nil)
		if err != nil {
			t.Fatalf("failed to build request: %v", err)
		}
		if sessionID != "" {
			req.Header.Set(SessionHeader, sessionID)
		}
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	a, b := uuid.New().String(), uuid.New().String()
	for i := 0; i < 2; i++ {
		if code := get(a); code != http.StatusOK {
			t.Fatalf("session a request %d: status %d", i+1, code)
		}
	}
	if code := get(a); code != http.StatusTooManyRequests {
		t.Errorf("session a over its limit: status %d, want 429", code)
	}
	if code := get(b); code != http.StatusOK {
		t.Errorf("session b limited by session a: status %d", code)
	}

	// cookie-less requests get a fresh session each time and share one bucket
	for i := 0; i < 2; i++ {
		if code := get(""); code != http.StatusOK {
			t.Fatalf("anonymous request %d: status %d", i+1, code)
		}
	}
	if code := get(""); code != http.StatusTooManyRequests {
		t.Errorf("anonymous requests over the limit: status %d, want 429", code)
	}
}

func TestRelayEventsForwardsAndStopsWhenUnread(t *testing.T) {
	events := make(chan searchview.Event, 4)
	unsubscribed := make(chan struct{})
	out := make(chan interface{}, 1)

	go relayEvents(events, func() { close(unsubscribed) }, out, 5*time.Millisecond)

	events <- searchview.Event{Kind: searchview.EventFields, Field: models.FieldTitle}
	for got := range out {
		if got == "fields:title" {
			break
		}
		if got != "ping" {
			t.Fatalf("relayed %v, want fields:title", got)
		}
	}

	// out is never read again: keepalives fill it and the relay gives up
	select {
	case <-unsubscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("relay kept an unread stream subscribed")
	}
	for range out {
	}
}

func TestRelayEventsEndsWithView(t *testing.T) {
	events := make(chan searchview.Event)
	unsubscribed := make(chan struct{})
	out := make(chan interface{}, sseBuffer)

	go relayEvents(events, func() { close(unsubscribed) }, out, time.Hour)
	close(events)

	select {
	case <-unsubscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop after the view closed")
	}
	if _, open := <-out; open {
		t.Error("out should be closed")
	}
}
