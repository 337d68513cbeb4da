package testutil

import (
	"context"
	"sync"
)

// RecorderNotifier records every notification message and reports a
// configurable delivery result. Safe for concurrent use.
type RecorderNotifier struct {
	mu       sync.Mutex
	messages []string

	// Fail makes Notify report delivery failure while still recording.
	Fail bool
}

// NewRecorderNotifier creates a succeeding recorder.
func NewRecorderNotifier() *RecorderNotifier { return &RecorderNotifier{} }

// Notify implements core.Notifier.
func (n *RecorderNotifier) Notify(_ context.Context, message string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return !n.Fail
}

// Messages returns a copy of the recorded messages.
func (n *RecorderNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}

// Count returns the number of recorded notifications.
func (n *RecorderNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}
