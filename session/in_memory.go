// Package session provides SessionStore implementations for keeping one
// SessionState per user.
package session

import (
	"fmt"
	"sync"

	"github.com/hupe1980/caremesh/core"
)

// InMemoryStore is a volatile SessionStore keeping session states in a
// process-local map. It is safe for concurrent access and best suited for
// tests or single-process deployments. The stored *SessionState is shared by
// design: planner and handlers mutate the same state through its own
// mutex-guarded methods.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.SessionState
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.SessionState)}
}

// Create registers a new session state. Creating an existing id is an error;
// schedules are seeded once at session start.
func (s *InMemoryStore) Create(id string, profile core.UserProfile, entries ...core.ScheduleEntry) (*core.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[id]; exists {
		return nil, fmt.Errorf("session %s already exists", id)
	}
	state := core.NewSessionState(id, profile, entries...)
	s.sessions[id] = state
	return state, nil
}

// Get returns the session state for the id.
func (s *InMemoryStore) Get(id string) (*core.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return state, nil
}
