// Package session holds the per-upload interactive state: the loaded base
// table and the active filters. State lives in an explicit store passed to
// the web layer, never in package globals, so the pipeline stays testable
// without an HTTP harness.
package session

import (
	"sync"
	"time"

	"bankdash/internal/table"

	"github.com/google/uuid"
)

// Session is one user's exploration of one uploaded file. The base table is
// shared with the parse cache and never mutated; every filter change
// recomputes the view from it.
type Session struct {
	ID         string
	ContentKey string

	mu       sync.Mutex
	base     *table.Table
	filters  []table.FilterSpec
	lastSeen time.Time
}

// Base returns the loaded, unfiltered table.
func (s *Session) Base() *table.Table {
	return s.base
}

// SetFilters replaces the active filter set. Specs are validated by their
// constructors before they reach the session.
func (s *Session) SetFilters(specs []table.FilterSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = append([]table.FilterSpec(nil), specs...)
}

// Filters returns a copy of the active filter set.
func (s *Session) Filters() []table.FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]table.FilterSpec(nil), s.filters...)
}

// View applies the active filters to the base table and returns the derived
// view. Each interaction recomputes in full; the base stays untouched.
func (s *Session) View() (*table.Table, error) {
	return table.Apply(s.base, s.Filters())
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Store is a mutex-guarded session registry with a TTL sweep. Idle sessions
// expire; a new upload simply creates a new session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
	closed   sync.Once
}

// NewStore creates a store whose sweep loop expires sessions idle longer
// than ttl, checking every sweepEvery. Call Close to stop the loop.
func NewStore(ttl, sweepEvery time.Duration) *Store {
	st := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go st.sweep(sweepEvery)
	return st
}

// Create registers a new session for a loaded table.
func (st *Store) Create(base *table.Table, contentKey string) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		ContentKey: contentKey,
		base:       base,
		lastSeen:   time.Now(),
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the session by ID and marks it active.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		s.touch(time.Now())
	}
	return s, ok
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Close stops the sweep loop.
func (st *Store) Close() {
	st.closed.Do(func() { close(st.done) })
}

func (st *Store) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-st.done:
			return
		case now := <-ticker.C:
			st.expire(now)
		}
	}
}

func (st *Store) expire(now time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		if s.idleSince(now) > st.ttl {
			delete(st.sessions, id)
		}
	}
}
