package core

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// UserProfile carries identifying and health context for the person a
// session belongs to.
type UserProfile struct {
	Name        string `json:"name" yaml:"name"`
	HealthNotes string `json:"health_notes" yaml:"health_notes"`
}

// EscalationRecord is one append-only entry in a session's escalation log.
type EscalationRecord struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	TimeKey TimeKey   `json:"time_key"`
	Task    string    `json:"task"`
	Message string    `json:"message"`
}

// String renders the timestamped log line used by the end-of-run summary.
func (r EscalationRecord) String() string {
	return fmt.Sprintf("%s - %s", r.Time.Format("15:04"), r.Message)
}

// SessionState is the shared mutable record for one simulation run: a user
// profile, the day's schedule entries and an ordered, append-only escalation
// log. It is safe for concurrent access.
//
// Contract:
//   - Entry statuses transition PENDING -> {COMPLETED, MISSED_ESCALATED} at
//     most once; transitions out of a terminal status are rejected
//   - Entries / EscalationLog return defensive copies in insertion order
//   - Clone performs deep copies for safe divergence
//
// The planner owns the state for the lifetime of a run; handlers receive a
// reference to read and update it, never to replace it.
type SessionState struct {
	id      string
	profile UserProfile
	entries map[TimeKey]*ScheduleEntry
	order   []TimeKey
	log     []EscalationRecord
	created time.Time
	updated time.Time
	mu      sync.RWMutex
}

// NewSessionState creates a session for the given user with the provided
// schedule entries. Entry order is preserved for summaries; duplicate time
// keys keep the first occurrence.
func NewSessionState(id string, profile UserProfile, entries ...ScheduleEntry) *SessionState {
	now := time.Now()
	s := &SessionState{
		id:      id,
		profile: profile,
		entries: make(map[TimeKey]*ScheduleEntry, len(entries)),
		created: now,
		updated: now,
	}
	for _, e := range entries {
		if _, exists := s.entries[e.TimeKey]; exists {
			continue
		}
		entry := e
		entry.Status = StatusPending
		s.entries[entry.TimeKey] = &entry
		s.order = append(s.order, entry.TimeKey)
	}
	return s
}

// ID returns the session identifier.
func (s *SessionState) ID() string { return s.id }

// Profile returns the user profile for this session.
func (s *SessionState) Profile() UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Entry returns the schedule entry for the key and whether one exists. The
// returned value is a copy; use the Mark* methods to transition status.
func (s *SessionState) Entry(key TimeKey) (ScheduleEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return ScheduleEntry{}, false
	}
	return *e, true
}

// Entries returns a defensive copy of all schedule entries in insertion order.
func (s *SessionState) Entries() []ScheduleEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ScheduleEntry, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.entries[key])
	}
	return out
}

// MarkCompleted transitions the entry to COMPLETED. It returns an error if
// the key is unknown or the entry already reached a terminal status,
// enforcing the at-most-once transition invariant.
func (s *SessionState) MarkCompleted(key TimeKey) error {
	return s.transition(key, StatusCompleted, nil)
}

// MarkMissedEscalated transitions the entry to MISSED_ESCALATED and appends
// the given record to the escalation log in the same critical section.
func (s *SessionState) MarkMissedEscalated(key TimeKey, rec EscalationRecord) error {
	return s.transition(key, StatusMissedEscalated, &rec)
}

func (s *SessionState) transition(key TimeKey, to EntryStatus, rec *EscalationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return fmt.Errorf("no schedule entry at %s", key)
	}
	if e.Status.Terminal() {
		return fmt.Errorf("entry at %s already %s", key, e.Status)
	}
	e.Status = to
	if rec != nil {
		if rec.ID == "" {
			rec.ID = NewID()
		}
		s.log = append(s.log, *rec)
	}
	s.updated = time.Now()
	return nil
}

// EscalationLog returns a defensive copy of the escalation records in
// append order.
func (s *SessionState) EscalationLog() []EscalationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]EscalationRecord, len(s.log))
	copy(out, s.log)
	return out
}

// Clone returns a deep copy of the session state safe for independent
// mutation.
func (s *SessionState) Clone() *SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &SessionState{
		id:      s.id,
		profile: s.profile,
		entries: make(map[TimeKey]*ScheduleEntry, len(s.entries)),
		order:   make([]TimeKey, len(s.order)),
		log:     make([]EscalationRecord, len(s.log)),
		created: s.created,
		updated: s.updated,
	}
	for k, e := range s.entries {
		entry := *e
		clone.entries[k] = &entry
	}
	copy(clone.order, s.order)
	copy(clone.log, s.log)
	return clone
}

// Summary renders the end-of-run report: every schedule entry in insertion
// order followed by the escalation log.
func (s *SessionState) Summary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var b strings.Builder
	b.WriteString("Daily Schedule Status:\n")
	for _, key := range s.order {
		e := s.entries[key]
		fmt.Fprintf(&b, "  %s  %-40s %-8s %s\n", e.TimeKey, e.Task, e.Priority, e.Status)
	}
	b.WriteString("Escalation Log:\n")
	if len(s.log) == 0 {
		b.WriteString("  (empty)\n")
	}
	for _, rec := range s.log {
		fmt.Fprintf(&b, "  %s\n", rec)
	}
	return b.String()
}

// SessionStore persists session states for multi-user deployments.
type SessionStore interface {
	Create(id string, profile UserProfile, entries ...ScheduleEntry) (*SessionState, error)
	Get(id string) (*SessionState, error)
}
