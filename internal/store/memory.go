package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sofialabs/sofia/pkg/errors"
	"github.com/sofialabs/sofia/pkg/types"
)

// Config bounds the in-memory store. The zero value keeps sessions for the
// process lifetime, unbounded.
type Config struct {
	// MaxSessions evicts the least recently updated session when a create
	// would exceed the cap. Zero means no cap.
	MaxSessions int

	// IdleTTL drops sessions not updated within the window. Zero disables
	// the janitor.
	IdleTTL time.Duration

	// SweepInterval is how often the janitor scans. Defaults to one minute
	// when IdleTTL is set.
	SweepInterval time.Duration
}

// entry pairs a session with its own lock so operations on distinct sessions
// never contend once the map lookup is done.
type entry struct {
	mu      sync.Mutex
	session *types.Session
}

// MemoryStore is the in-memory SessionStore.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	maxSessions int
	idleTTL     time.Duration

	sweeper  *time.Ticker
	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

var _ SessionStore = (*MemoryStore)(nil)

// NewMemoryStore builds a store with the given bounds and starts the idle
// janitor when IdleTTL is set.
func NewMemoryStore(cfg Config) *MemoryStore {
	s := &MemoryStore{
		sessions:    make(map[string]*entry),
		maxSessions: cfg.MaxSessions,
		idleTTL:     cfg.IdleTTL,
		stop:        make(chan struct{}),
		now:         time.Now,
	}

	if cfg.IdleTTL > 0 {
		interval := cfg.SweepInterval
		if interval <= 0 {
			interval = time.Minute
		}
		s.sweeper = time.NewTicker(interval)
		go s.sweepLoop()
	}
	return s
}

// GetOrCreate implements SessionStore.
func (s *MemoryStore) GetOrCreate(_ context.Context, id string) (*types.Session, error) {
	if id != "" {
		if sess, err := s.get(id); err == nil {
			return sess, nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	} else if e, ok := s.sessions[id]; ok {
		// Lost the race against a concurrent create.
		return cloneLocked(e), nil
	}

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.evictOldest(len(s.sessions) - s.maxSessions + 1)
	}

	sess := types.NewSession(id)
	sess.CreatedAt = s.now()
	sess.UpdatedAt = sess.CreatedAt
	s.sessions[id] = &entry{session: sess}
	return sess.Clone(), nil
}

// Get implements SessionStore.
func (s *MemoryStore) Get(_ context.Context, id string) (*types.Session, error) {
	return s.get(id)
}

func (s *MemoryStore) get(id string) (*types.Session, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewSessionNotFoundError(id)
	}
	return cloneLocked(e), nil
}

// Update implements SessionStore.
func (s *MemoryStore) Update(_ context.Context, id string, fn func(*types.Session) error) error {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return errors.NewSessionNotFoundError(id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.session); err != nil {
		return err
	}
	e.session.UpdatedAt = s.now()
	return nil
}

// Delete implements SessionStore.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// List implements SessionStore.
func (s *MemoryStore) List(_ context.Context) ([]*types.Session, error) {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]*types.Session, 0, len(entries))
	for _, e := range entries {
		out = append(out, cloneLocked(e))
	}
	return out, nil
}

// Len implements SessionStore.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the janitor. The store stays usable, it just no longer sweeps.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() {
		if s.sweeper != nil {
			s.sweeper.Stop()
		}
		close(s.stop)
	})
	return nil
}

func (s *MemoryStore) sweepLoop() {
	for {
		select {
		case <-s.sweeper.C:
			s.evictIdle()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) evictIdle() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := e.session.UpdatedAt.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(s.sessions, id)
		}
	}
}

// evictOldest drops the n least recently updated sessions. Caller holds the
// map write lock.
func (s *MemoryStore) evictOldest(n int) {
	for ; n > 0; n-- {
		var oldestID string
		var oldestAt time.Time
		for id, e := range s.sessions {
			e.mu.Lock()
			at := e.session.UpdatedAt
			e.mu.Unlock()
			if oldestID == "" || at.Before(oldestAt) {
				oldestID, oldestAt = id, at
			}
		}
		if oldestID == "" {
			return
		}
		delete(s.sessions, oldestID)
	}
}

func cloneLocked(e *entry) *types.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone()
}
