// Package knowledge provides KnowledgeStore implementations supplying
// contextual task information to handlers.
package knowledge

import (
	"context"
	"strings"
	"sync"
)

// NoDataText is returned by Lookup when no stored entry matches the query.
// Absence of data is a handled branch, never an error.
const NoDataText = "Retrieved: No critical information found for that query."

// InMemoryStore is a naive process-local KnowledgeStore. Lookup performs a
// case-insensitive substring match of stored keys against the query, suitable
// for tests, demos and single-process deployments; swap for a retrieval
// backend for production use.
//
// Concurrency: protected by RWMutex.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
	order   []string
}

// NewInMemoryStore creates an empty in-memory knowledge store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]string)}
}

// Store registers content under the given key, overwriting any previous
// value. Keys keep first-seen order for deterministic lookup precedence.
func (s *InMemoryStore) Store(_ context.Context, key, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = content
	return nil
}

// Lookup returns the content of the first key contained in the query
// (case-insensitive), or NoDataText when nothing matches.
func (s *InMemoryStore) Lookup(_ context.Context, query string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lower := strings.ToLower(query)
	for _, key := range s.order {
		if strings.Contains(lower, strings.ToLower(key)) {
			return s.entries[key]
		}
	}
	return NoDataText
}
