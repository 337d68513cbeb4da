package responder

import (
	"fmt"
	"strings"

	"github.com/hupe1980/caremesh/core"
)

// defaultConfirmationMarkers are the acknowledgment words recognized as
// compliance confirmations. Matching is case-insensitive substring.
var defaultConfirmationMarkers = []string{"confirm", "took", "taken", "done"}

// ClassifierOptions configure a ComplianceClassifier.
type ClassifierOptions struct {
	// ConfirmationMarkers overrides the acknowledgment word list.
	ConfirmationMarkers []string
}

// ComplianceClassifier classifies a (task, reply) pair into a ResultArtifact.
// It has no side effects and no mutable state after construction, so it is
// safe for concurrent use.
//
// Classification rules, ordered, first match wins:
//  1. reply is the timeout sentinel -> missed, alert_caregiver
//  2. reply contains a confirmation marker -> confirmed, none
//  3. otherwise -> pending_follow_up, none
type ComplianceClassifier struct {
	markers []string
}

// NewComplianceClassifier constructs a classifier with optional overrides.
func NewComplianceClassifier(optFns ...func(o *ClassifierOptions)) *ComplianceClassifier {
	opts := ClassifierOptions{ConfirmationMarkers: defaultConfirmationMarkers}
	for _, fn := range optFns {
		fn(&opts)
	}
	markers := make([]string, len(opts.ConfirmationMarkers))
	for i, m := range opts.ConfirmationMarkers {
		markers[i] = strings.ToLower(m)
	}
	return &ComplianceClassifier{markers: markers}
}

// Classify returns the artifact for the given task and raw reply. The
// NextAction in the artifact is authoritative for the escalation decision.
func (c *ComplianceClassifier) Classify(task, reply string) core.ResultArtifact {
	if reply == core.TimeoutReply {
		return core.ResultArtifact{
			Status:       core.OutcomeMissed,
			NextAction:   core.ActionAlertCaregiver,
			ResponseText: fmt.Sprintf("No confirmation received for %s. Initiating caregiver alert.", task),
		}
	}

	lower := strings.ToLower(reply)
	for _, marker := range c.markers {
		if strings.Contains(lower, marker) {
			return core.ResultArtifact{
				Status:       core.OutcomeConfirmed,
				NextAction:   core.ActionNone,
				ResponseText: "Compliance confirmed. Well done!",
			}
		}
	}

	return core.ResultArtifact{
		Status:       core.OutcomePendingFollowUp,
		NextAction:   core.ActionNone,
		ResponseText: fmt.Sprintf("I see you asked about: %q. Let me check the records for you.", reply),
	}
}
