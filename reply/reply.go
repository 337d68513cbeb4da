// Package reply provides ReplySource implementations feeding user replies to
// health handlers. Sources deliver at most one reply per schedule entry; the
// handler races the returned channel against its timeout, so a source that
// stays silent produces the timeout path.
package reply

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/caremesh/core"
)

// ScriptedSource answers from a canned per-time-key script, optionally after
// a delay. Time keys without a script entry never deliver, which drives the
// handler into its timeout branch. Safe for concurrent use.
type ScriptedSource struct {
	mu      sync.RWMutex
	replies map[core.TimeKey]string
	delay   time.Duration
}

// NewScriptedSource creates an empty scripted source.
func NewScriptedSource() *ScriptedSource {
	return &ScriptedSource{replies: make(map[core.TimeKey]string)}
}

// Script registers the reply delivered for the given time key.
func (s *ScriptedSource) Script(key core.TimeKey, reply string) *ScriptedSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[key] = reply
	return s
}

// SetDelay delays every scripted delivery by d, letting tests exercise the
// race between reply arrival and handler timeout.
func (s *ScriptedSource) SetDelay(d time.Duration) *ScriptedSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
	return s
}

// Replies implements core.ReplySource.
func (s *ScriptedSource) Replies(ctx context.Context, entry core.ScheduleEntry) <-chan string {
	ch := make(chan string, 1)

	s.mu.RLock()
	text, ok := s.replies[entry.TimeKey]
	delay := s.delay
	s.mu.RUnlock()

	if !ok {
		// No script for this slot: stay silent and let the handler time out.
		close(ch)
		return ch
	}

	if delay == 0 {
		ch <- text
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		select {
		case <-ctx.Done():
		case <-time.After(delay):
			ch <- text
		}
	}()
	return ch
}

// ChannelSource forwards replies pushed by an external producer (UI, voice
// gateway). Each Replies call drains the next pushed reply.
type ChannelSource struct {
	in chan string
}

// NewChannelSource creates a source with the given buffer size.
func NewChannelSource(buffer int) *ChannelSource {
	return &ChannelSource{in: make(chan string, buffer)}
}

// Push enqueues a reply for the next awaiting handler. It reports false when
// the buffer is full.
func (s *ChannelSource) Push(text string) bool {
	select {
	case s.in <- text:
		return true
	default:
		return false
	}
}

// Replies implements core.ReplySource. The wait ends with ctx: a cancelled
// waiter stops listening, and a reply drained in the instant of cancellation
// is re-enqueued so the next waiter receives it instead of a dead channel.
func (s *ChannelSource) Replies(ctx context.Context, _ core.ScheduleEntry) <-chan string {
	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		select {
		case <-ctx.Done():
		case text, ok := <-s.in:
			if !ok {
				return
			}
			select {
			case <-ctx.Done():
				s.Push(text)
			default:
				ch <- text
			}
		}
	}()
	return ch
}
