package searchview_test

import (
	"errors"
	"testing"
	"time"

	"solrview/searchview"
)

func TestStoreReusesAndEvicts(t *testing.T) {
	f := newFakeSearcher()
	created := 0
	store := searchview.NewStore(func(id string) (*searchview.View, error) {
		created++
		return searchview.New(f, searchview.Options{SessionID: id})
	}, time.Minute)
	defer store.Close()

	a1, err := store.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	a2, _ := store.Get("a")
	if a1 != a2 || created != 1 {
		t.Errorf("expected the same view for one session")
	}
	if _, err := store.Get("b"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("Len = %d", store.Len())
	}

	if n := store.Sweep(time.Now()); n != 0 {
		t.Errorf("fresh sessions evicted: %d", n)
	}
	if n := store.Sweep(time.Now().Add(2 * time.Minute)); n != 2 {
		t.Errorf("expected 2 evictions, got %d", n)
	}
	if _, ok := store.Lookup("a"); ok {
		t.Error("evicted session still present")
	}
	if err := a1.SetField("title", "x"); !errors.Is(err, searchview.ErrClosed) {
		t.Errorf("evicted view should be closed, got %v", err)
	}
}

func TestStoreKeepsSubscribedSessions(t *testing.T) {
	f := newFakeSearcher()
	store := searchview.NewStore(func(id string) (*searchview.View, error) {
		return searchview.New(f, searchview.Options{SessionID: id})
	}, time.Minute)
	defer store.Close()

	v, err := store.Get("streaming")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	events, unsubscribe := v.Subscribe()

	start := time.Now()
	if n := store.Sweep(start.Add(2 * time.Minute)); n != 0 {
		t.Fatalf("subscribed session evicted: %d", n)
	}
	if n := store.Sweep(start.Add(4 * time.Minute)); n != 0 {
		t.Fatalf("subscribed session evicted on a later sweep: %d", n)
	}
	if err := v.SetField("title", "x"); err != nil {
		t.Errorf("view closed under a live subscriber: %v", err)
	}

	unsubscribe()
	for range events {
	}

	// idle time counts from the last sweep that saw the subscriber
	if n := store.Sweep(start.Add(4*time.Minute + 30*time.Second)); n != 0 {
		t.Errorf("session evicted before its ttl ran out: %d", n)
	}
	if n := store.Sweep(start.Add(6 * time.Minute)); n != 1 {
		t.Errorf("expected the unsubscribed session to be evicted, got %d", n)
	}
}

func TestStoreFactoryError(t *testing.T) {
	store := searchview.NewStore(func(string) (*searchview.View, error) {
		return nil, errors.New("no backend")
	}, 0)

	if _, err := store.Get("a"); err == nil {
		t.Error("expected factory error")
	}
	if _, err := store.Get(""); err == nil {
		t.Error("expected error for empty session id")
	}

	store.Close()
	if _, err := store.Get("a"); !errors.Is(err, searchview.ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
}
