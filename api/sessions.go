package api

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/jobwizard/diagnostics"
	"github.com/pevans/jobwizard/wizard"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// TrailFactory returns the query trail of a new session.
type TrailFactory func(id uuid.UUID) diagnostics.Log

// InMemoryTrails keeps every session's trail in memory.
func InMemoryTrails(uuid.UUID) diagnostics.Log {
	return diagnostics.NewTrail()
}

// StoreTrails keeps session trails in store.
func StoreTrails(store *diagnostics.Store, logger *zap.Logger) TrailFactory {
	return func(id uuid.UUID) diagnostics.Log {
		return diagnostics.NewSessionLog(store, id, logger)
	}
}

// DefaultIdleTimeout is how long a session may go unused before Expire
// removes it.
const DefaultIdleTimeout = 24 * time.Hour

type sessionEntry struct {
	mu   sync.Mutex
	sess *wizard.Session
	// lastUsed is in Unix nanoseconds.
	lastUsed atomic.Int64
}

func (e *sessionEntry) touch(now time.Time) {
	e.lastUsed.Store(now.UnixNano())
}

// Sessions holds the wizard sessions of the API. Actions on one session are
// serialized; different sessions proceed independently.
type Sessions struct {
	mu          sync.RWMutex
	entries     map[uuid.UUID]*sessionEntry
	newTrail    TrailFactory
	idleTimeout time.Duration
	now         func() time.Time
}

// NewSessions creates an empty session registry. A nil factory keeps trails
// in memory.
func NewSessions(newTrail TrailFactory) *Sessions {
	if newTrail == nil {
		newTrail = InMemoryTrails
	}
	return &Sessions{
		entries:     make(map[uuid.UUID]*sessionEntry),
		newTrail:    newTrail,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
	}
}

// WithIdleTimeout sets how long a session may stay unused. Zero or less
// keeps sessions until they are deleted.
func (s *Sessions) WithIdleTimeout(d time.Duration) *Sessions {
	s.idleTimeout = d
	return s
}

// Create registers a new session and runs fn on it.
func (s *Sessions) Create(fn func(*wizard.Session)) uuid.UUID {
	id := uuid.New()
	entry := &sessionEntry{sess: wizard.NewSession(id, s.newTrail(id))}
	entry.touch(s.now())

	entry.mu.Lock()
	defer entry.mu.Unlock()

	s.mu.Lock()
	s.entries[id] = entry
	s.mu.Unlock()

	fn(entry.sess)
	return id
}

// With runs fn with exclusive access to the session.
func (s *Sessions) With(id uuid.UUID, fn func(*wizard.Session) error) error {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	defer func() { entry.touch(s.now()) }()
	return fn(entry.sess)
}

// Delete removes the session and clears its trail.
func (s *Sessions) Delete(id uuid.UUID) error {
	s.mu.Lock()
	entry, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.sess.Trail.Reset()
	return nil
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Expire removes the sessions that have been idle longer than the idle
// timeout and clears their trails. Sessions busy with an action are kept.
// It returns the number of sessions removed.
func (s *Sessions) Expire() int {
	if s.idleTimeout <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTimeout).UnixNano()

	var expired []*sessionEntry
	s.mu.Lock()
	for id, entry := range s.entries {
		if entry.lastUsed.Load() >= cutoff || !entry.mu.TryLock() {
			continue
		}
		delete(s.entries, id)
		expired = append(expired, entry)
	}
	s.mu.Unlock()

	for _, entry := range expired {
		entry.sess.Trail.Reset()
		entry.mu.Unlock()
	}
	return len(expired)
}

// Run calls Expire every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Expire(); n > 0 {
				logger.Info("expired idle sessions", zap.Int("count", n), zap.Int("remaining", s.Len()))
			}
		}
	}
}
