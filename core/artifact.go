package core

import "github.com/google/uuid"

// TimeoutReply is the distinguished reply value representing "no response
// within the bound". Handlers substitute it when the reply wait elapses; the
// compliance classifier treats it as the highest-precedence rule.
const TimeoutReply = "TIMEOUT"

// OutcomeStatus is the classified outcome of a health task interaction.
type OutcomeStatus int

const (
	// OutcomePendingFollowUp marks an unclassified reply awaiting a lookup.
	// It is the fallback; unrecognized replies never surface as errors.
	OutcomePendingFollowUp OutcomeStatus = iota
	// OutcomeConfirmed marks an affirmative compliance confirmation.
	OutcomeConfirmed
	// OutcomeMissed marks a reply window that elapsed without confirmation.
	OutcomeMissed
)

// String returns the wire-level label for the outcome.
func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeMissed:
		return "missed"
	case OutcomePendingFollowUp:
		return "pending_follow_up"
	default:
		return "unknown"
	}
}

// NextAction is the classifier-recommended follow-up. It is authoritative:
// the planner triggers escalation from NextAction alone and never re-derives
// it from OutcomeStatus.
type NextAction int

const (
	// ActionNone requires no orchestration follow-up.
	ActionNone NextAction = iota
	// ActionAlertCaregiver requests a caregiver notification.
	ActionAlertCaregiver
)

// String returns the wire-level label for the action.
func (a NextAction) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionAlertCaregiver:
		return "alert_caregiver"
	default:
		return "unknown"
	}
}

// ResultArtifact is the structured protocol payload produced by a task
// handler after classification and consumed exactly once by the planner.
// Treat it as immutable after creation.
type ResultArtifact struct {
	Status       OutcomeStatus `json:"status"`
	NextAction   NextAction    `json:"next_action"`
	ResponseText string        `json:"response_text"`
}

// DelegationEnvelope wraps a ResultArtifact with routing metadata for the
// planner. Its lifecycle is a single orchestration step: created by the
// handler, consumed by the planner, then discarded.
type DelegationEnvelope struct {
	ID        string         `json:"id"`
	HandlerID string         `json:"handler_id"`
	Task      string         `json:"task"`
	Artifact  ResultArtifact `json:"artifact"`
}

// NewEnvelope constructs a DelegationEnvelope with a generated ID.
func NewEnvelope(handlerID, task string, artifact ResultArtifact) DelegationEnvelope {
	return DelegationEnvelope{
		ID:        NewID(),
		HandlerID: handlerID,
		Task:      task,
		Artifact:  artifact,
	}
}

// NewID generates a new unique identifier for envelopes and records.
//
// Returns a string representation of a new UUID.
func NewID() string { return uuid.NewString() }
