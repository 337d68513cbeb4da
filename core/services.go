package core

import "context"

// KnowledgeStore supplies best-effort contextual information for a task.
// Lookup never fails from the caller's perspective: an absent entry yields a
// neutral "no data" string rather than an error.
type KnowledgeStore interface {
	Lookup(ctx context.Context, query string) string
	Store(ctx context.Context, key, content string) error
}

// Notifier delivers a caregiver escalation message. The returned boolean
// reports delivery success; callers treat false as non-fatal (the attempt is
// best-effort within this design).
type Notifier interface {
	Notify(ctx context.Context, message string) bool
}

// Sink is the output-only user-facing channel for reminders and responses.
// There is no acknowledgment contract.
type Sink interface {
	Emit(text string)
}

// ReplySource yields user replies for a schedule entry. The returned channel
// delivers at most one reply for the entry; handlers race it against their
// timeout. A source that will never answer may return a channel that stays
// open and silent, or close it without sending.
type ReplySource interface {
	Replies(ctx context.Context, entry ScheduleEntry) <-chan string
}
