package core

import (
	"fmt"
	"strings"
	"time"
)

// TimeKey is the canonical "HH:MM" key identifying a slot in a daily schedule.
// Keys are unique within a day.
type TimeKey string

// NewTimeKey derives the schedule key for the given instant.
func NewTimeKey(t time.Time) TimeKey { return TimeKey(t.Format("15:04")) }

// ParseTimeKey validates and normalizes a textual key such as "8:00" into the
// canonical zero-padded form.
func ParseTimeKey(s string) (TimeKey, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		t, err = time.Parse("3:04", s)
	}
	if err != nil {
		return "", fmt.Errorf("invalid time key %q: %w", s, err)
	}
	return NewTimeKey(t), nil
}

// Priority is the qualitative urgency class of a schedule entry. It determines
// which handler processes the entry.
type Priority int

const (
	// PriorityLow marks informational entries handled outside the
	// compliance protocol.
	PriorityLow Priority = iota
	// PriorityHigh marks health-relevant entries routed to the health handler.
	PriorityHigh
	// PriorityCritical marks entries whose miss triggers caregiver escalation.
	PriorityCritical
)

// String returns the canonical upper-case label for the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "LOW"
	case PriorityHigh:
		return "HIGH"
	case PriorityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParsePriority converts a case-insensitive label into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return PriorityLow, nil
	case "HIGH":
		return PriorityHigh, nil
	case "CRITICAL":
		return PriorityCritical, nil
	default:
		return 0, fmt.Errorf("unknown priority %q", s)
	}
}

// IsHealth reports whether entries of this priority participate in the
// compliance / escalation protocol.
func (p Priority) IsHealth() bool { return p == PriorityHigh || p == PriorityCritical }

// EntryStatus is the lifecycle state of a schedule entry. A PENDING entry
// transitions to exactly one terminal state per simulated day; it is never
// deleted and never re-enters PENDING.
type EntryStatus int

const (
	// StatusPending marks an entry awaiting its time slot.
	StatusPending EntryStatus = iota
	// StatusCompleted marks an entry processed without escalation.
	StatusCompleted
	// StatusMissedEscalated marks an entry whose reply window elapsed and
	// whose miss was escalated to a caregiver. Terminal.
	StatusMissedEscalated
)

// String returns the canonical label for the status.
func (s EntryStatus) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusCompleted:
		return "COMPLETED"
	case StatusMissedEscalated:
		return "MISSED_ESCALATED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the status admits no further transitions.
func (s EntryStatus) Terminal() bool { return s != StatusPending }

// ScheduleEntry is one time-keyed obligation in a daily schedule. Status is
// mutated only through SessionState after a handler completes.
type ScheduleEntry struct {
	TimeKey  TimeKey     `json:"time_key" yaml:"time"`
	Task     string      `json:"task" yaml:"task"`
	Priority Priority    `json:"priority" yaml:"-"`
	Status   EntryStatus `json:"status" yaml:"-"`
}
