package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/metrics"
)

// Sessions keeps one wizard per session key. Telegram uses the chat id,
// the HTTP API a generated UUID.
type Sessions struct {
	catalog Catalog
	prefs   Preferences
	logger  *logrus.Logger
	metrics *metrics.Metrics
	idle    time.Duration
	opts    []Option
	now     func() time.Time

	mu      sync.Mutex
	wizards map[string]*Wizard
}

// NewSessions creates an empty registry. Wizards idle for longer than
// idleTimeout are dropped by the janitor.
func NewSessions(catalog Catalog, prefs Preferences, logger *logrus.Logger, m *metrics.Metrics, idleTimeout time.Duration, opts ...Option) *Sessions {
	return &Sessions{
		catalog: catalog,
		prefs:   prefs,
		logger:  logger,
		metrics: m,
		idle:    idleTimeout,
		opts:    append([]Option{WithMetrics(m)}, opts...),
		now:     time.Now,
		wizards: map[string]*Wizard{},
	}
}

// Get returns the wizard for key, creating a fresh one when needed
func (s *Sessions) Get(key string) *Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wizards[key]; ok {
		return w
	}
	w := New(s.catalog, s.prefs, s.logger, s.opts...)
	s.wizards[key] = w
	s.metrics.SetSessions(len(s.wizards))
	return w
}

// Lookup returns an existing wizard
func (s *Sessions) Lookup(key string) (*Wizard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wizards[key]
	return w, ok
}

// Reset replaces the wizard for key with a fresh one
func (s *Sessions) Reset(key string) *Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := New(s.catalog, s.prefs, s.logger, s.opts...)
	s.wizards[key] = w
	s.metrics.SetSessions(len(s.wizards))
	return w
}

// Delete drops the wizard for key and reports whether it existed
func (s *Sessions) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.wizards[key]
	delete(s.wizards, key)
	s.metrics.SetSessions(len(s.wizards))
	return ok
}

// Len returns the number of live sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.wizards)
}

// Evict drops every wizard idle for longer than the idle timeout and
// returns how many were removed
func (s *Sessions) Evict() int {
	cutoff := s.now().Add(-s.idle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, w := range s.wizards {
		if w.LastUsed().Before(cutoff) {
			delete(s.wizards, key)
			removed++
		}
	}
	s.metrics.SetSessions(len(s.wizards))
	return removed
}

// StartJanitor evicts idle sessions every interval. It blocks until the
// context is cancelled, so it should be launched in a separate goroutine.
func (s *Sessions) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Session janitor started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Session janitor stopped")
			return
		case <-ticker.C:
			if n := s.Evict(); n > 0 {
				s.logger.WithField("evicted", n).Debug("Evicted idle wizard sessions")
			}
		}
	}
}
