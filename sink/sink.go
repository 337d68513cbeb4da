// Package sink provides Sink implementations for the output-only user-facing
// channel carrying reminders and responses.
package sink

import (
	"fmt"
	"io"
	"sync"
)

// WriterSink emits messages to an io.Writer (stdout in the examples, a voice
// or UI gateway in a real deployment). Safe for concurrent use.
type WriterSink struct {
	mu     sync.Mutex
	out    io.Writer
	prefix string
}

// NewWriterSink creates a sink writing to out with an optional line prefix.
func NewWriterSink(out io.Writer, prefix string) *WriterSink {
	return &WriterSink{out: out, prefix: prefix}
}

// Emit implements core.Sink. Write errors are swallowed; the channel has no
// acknowledgment contract.
func (s *WriterSink) Emit(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.out, "%s%s\n", s.prefix, text)
}

// BufferSink records emitted messages for inspection in tests. Safe for
// concurrent use.
type BufferSink struct {
	mu       sync.Mutex
	messages []string
}

// NewBufferSink creates an empty capture sink.
func NewBufferSink() *BufferSink { return &BufferSink{} }

// Emit implements core.Sink.
func (s *BufferSink) Emit(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, text)
}

// Messages returns a copy of everything emitted so far.
func (s *BufferSink) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}
