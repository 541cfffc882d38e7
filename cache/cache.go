// Package cache holds per-stream analysis results between the SSE run and
// the Excel download. Sessions are in-memory only and expire on a timer.
package cache

import (
	"sync"
	"time"

	"github.com/use-agent/ratescope/models"
)

// session holds one stream's URLs and the results collected so far.
type session struct {
	urls      []string
	results   []models.ParsedFields
	createdAt time.Time
}

// Store is the session store. It is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*session
	ttl         time.Duration
	maxSessions int
}

// New creates a Store. A background goroutine evicts sessions older than
// ttl every five minutes.
func New(ttl time.Duration, maxSessions int) *Store {
	s := &Store{
		sessions:    make(map[string]*session),
		ttl:         ttl,
		maxSessions: maxSessions,
	}
	go s.cleanupLoop()
	return s
}

// Create registers a new session for the given URL list. At capacity, one
// random session is evicted to make room (map iteration is random in Go).
func (s *Store) Create(id string, urls []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.maxSessions {
		for k := range s.sessions {
			delete(s.sessions, k)
			break
		}
	}

	s.sessions[id] = &session{
		urls:      append([]string(nil), urls...),
		createdAt: time.Now(),
	}
}

// Append records one successful result for the session, in arrival order.
// Unknown sessions are ignored (expired mid-stream).
func (s *Store) Append(id string, fields models.ParsedFields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.results = append(sess.results, fields)
	}
}

// Get returns the session's URLs and results, and whether it exists.
func (s *Store) Get(id string) ([]string, []models.ParsedFields, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil, false
	}
	return sess.urls, sess.results, true
}

// Delete removes the session. Deleting a missing session is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// cleanupLoop evicts expired sessions every 5 minutes.
func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-s.ttl)
		s.mu.Lock()
		for id, sess := range s.sessions {
			if sess.createdAt.Before(cutoff) {
				delete(s.sessions, id)
			}
		}
		s.mu.Unlock()
	}
}
