package wizard

import (
	"context"
	"testing"
	"time"
)

func TestSessionsGetReusesWizard(t *testing.T) {
	f := newFixture(t)
	s := NewSessions(f.svc.Catalog, f.svc.Preferences, testLogger(), nil, time.Minute)

	a := s.Get("chat-1")
	if s.Get("chat-1") != a {
		t.Fatal("expected the same wizard for the same key")
	}
	if s.Get("chat-2") == a {
		t.Fatal("expected separate wizards per key")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", s.Len())
	}

	fresh := s.Reset("chat-1")
	if fresh == a {
		t.Fatal("reset returned the old wizard")
	}
	if !s.Delete("chat-1") || s.Delete("chat-1") {
		t.Fatal("unexpected delete result")
	}
	if _, ok := s.Lookup("chat-1"); ok {
		t.Fatal("deleted session still present")
	}
}

func TestSessionsEvictIdle(t *testing.T) {
	f := newFixture(t)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	s := NewSessions(f.svc.Catalog, f.svc.Preferences, testLogger(), nil, 10*time.Minute, WithClock(now))
	s.now = now

	old := s.Get("old")
	s.Get("stale")
	clock = clock.Add(8 * time.Minute)
	_, _ = old.Next(context.Background())
	s.Get("new")

	clock = clock.Add(5 * time.Minute)
	if n := s.Evict(); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if _, ok := s.Lookup("old"); !ok {
		t.Fatal("recently used session evicted")
	}

	clock = clock.Add(time.Hour)
	if n := s.Evict(); n != 2 {
		t.Fatalf("expected 2 evictions, got %d", n)
	}
}

func TestJanitorStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	s := NewSessions(f.svc.Catalog, f.svc.Preferences, testLogger(), nil, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.StartJanitor(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
