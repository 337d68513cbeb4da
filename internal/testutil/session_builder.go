package testutil

import "github.com/hupe1980/caremesh/core"

// SessionBuilder accumulates schedule entries and profile fields to build a
// SessionState fixture.
type SessionBuilder struct {
	id      string
	profile core.UserProfile
	entries []core.ScheduleEntry
}

// NewSessionBuilder creates a builder with a default profile.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{
		id:      id,
		profile: core.UserProfile{Name: "Mr. David", HealthNotes: "Low-sodium diet, allergic to penicillin"},
	}
}

// WithProfile overrides the user profile.
func (b *SessionBuilder) WithProfile(profile core.UserProfile) *SessionBuilder {
	b.profile = profile
	return b
}

// WithEntry appends one schedule entry.
func (b *SessionBuilder) WithEntry(key core.TimeKey, task string, priority core.Priority) *SessionBuilder {
	b.entries = append(b.entries, core.ScheduleEntry{TimeKey: key, Task: task, Priority: priority})
	return b
}

// WithReferenceSchedule appends the canonical three-entry day used across
// the end-to-end tests.
func (b *SessionBuilder) WithReferenceSchedule() *SessionBuilder {
	return b.
		WithEntry("08:00", "Medication: Blood Pressure Med", core.PriorityCritical).
		WithEntry("10:30", "Activity: Walk 15 minutes", core.PriorityLow).
		WithEntry("15:00", "Medication: Vitamin D", core.PriorityHigh)
}

// Build constructs the SessionState.
func (b *SessionBuilder) Build() *core.SessionState {
	return core.NewSessionState(b.id, b.profile, b.entries...)
}
