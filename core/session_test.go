package core

import (
	"testing"
	"time"
)

func testEntries() []ScheduleEntry {
	return []ScheduleEntry{
		{TimeKey: "08:00", Task: "Medication: Blood Pressure Med", Priority: PriorityCritical},
		{TimeKey: "10:30", Task: "Activity: Walk 15 minutes", Priority: PriorityLow},
		{TimeKey: "15:00", Task: "Medication: Vitamin D", Priority: PriorityHigh},
	}
}

func TestSessionState_EntriesAreCopies(t *testing.T) {
	s := NewSessionState("s1", UserProfile{Name: "Mr. David"}, testEntries()...)

	entries := s.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	entries[0].Status = StatusCompleted
	if e, _ := s.Entry("08:00"); e.Status != StatusPending {
		t.Error("mutating the returned slice must not affect internal state")
	}
}

func TestSessionState_AtMostOnceTransition(t *testing.T) {
	s := NewSessionState("s1", UserProfile{}, testEntries()...)

	if err := s.MarkCompleted("15:00"); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	if err := s.MarkCompleted("15:00"); err == nil {
		t.Error("second transition should be rejected")
	}
	if err := s.MarkMissedEscalated("15:00", EscalationRecord{}); err == nil {
		t.Error("transition out of terminal status should be rejected")
	}
	if err := s.MarkCompleted("23:59"); err == nil {
		t.Error("unknown key should be rejected")
	}
}

func TestSessionState_MissedAppendsEscalationRecord(t *testing.T) {
	s := NewSessionState("s1", UserProfile{}, testEntries()...)

	rec := EscalationRecord{
		Time:    time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		TimeKey: "08:00",
		Task:    "Medication: Blood Pressure Med",
		Message: "Medication: Blood Pressure Med missed.",
	}
	if err := s.MarkMissedEscalated("08:00", rec); err != nil {
		t.Fatalf("MarkMissedEscalated: %v", err)
	}

	log := s.EscalationLog()
	if len(log) != 1 {
		t.Fatalf("expected 1 escalation record, got %d", len(log))
	}
	if log[0].ID == "" {
		t.Error("record should receive a generated ID")
	}
	if got, want := log[0].String(), "08:00 - Medication: Blood Pressure Med missed."; got != want {
		t.Errorf("record line = %q, want %q", got, want)
	}

	e, _ := s.Entry("08:00")
	if e.Status != StatusMissedEscalated {
		t.Errorf("status = %s, want MISSED_ESCALATED", e.Status)
	}
}

func TestSessionState_DuplicateKeysKeepFirst(t *testing.T) {
	s := NewSessionState("s1", UserProfile{},
		ScheduleEntry{TimeKey: "08:00", Task: "first", Priority: PriorityHigh},
		ScheduleEntry{TimeKey: "08:00", Task: "second", Priority: PriorityLow},
	)
	e, ok := s.Entry("08:00")
	if !ok || e.Task != "first" {
		t.Errorf("expected first entry to win, got %+v", e)
	}
	if len(s.Entries()) != 1 {
		t.Errorf("expected 1 entry, got %d", len(s.Entries()))
	}
}

func TestSessionState_Clone(t *testing.T) {
	s := NewSessionState("s1", UserProfile{Name: "Mr. David"}, testEntries()...)
	clone := s.Clone()
	if clone == s {
		t.Fatal("Clone should be a different pointer")
	}

	if err := clone.MarkCompleted("08:00"); err != nil {
		t.Fatalf("clone transition: %v", err)
	}
	if e, _ := s.Entry("08:00"); e.Status != StatusPending {
		t.Error("original should not observe clone's transition")
	}
}

func TestSimulatedClock(t *testing.T) {
	start := time.Date(2024, 3, 1, 7, 59, 0, 0, time.UTC)
	clock := NewSimulatedClock(start)

	clock.Advance(time.Minute)
	if got := NewTimeKey(clock.Now()); got != "08:00" {
		t.Errorf("after Advance key = %q, want 08:00", got)
	}

	clock.SetTimeOfDay(15, 0)
	if got := NewTimeKey(clock.Now()); got != "15:00" {
		t.Errorf("after SetTimeOfDay key = %q, want 15:00", got)
	}
	if clock.Now().Day() != start.Day() {
		t.Error("SetTimeOfDay should keep the date")
	}
}
