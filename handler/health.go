// Package handler implements the task handlers the planner delegates to: the
// health handler running the reminder / bounded-wait / classification
// sequence for CRITICAL and HIGH entries, and the general handler answering
// informational queries and LOW entries outside the escalation protocol.
package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/caremesh/core"
	"github.com/hupe1980/caremesh/logging"
	"github.com/hupe1980/caremesh/responder"
)

// HealthHandlerID identifies the health handler in delegation envelopes.
const HealthHandlerID = "health"

// DefaultReplyTimeout bounds the wait for a compliance reply.
const DefaultReplyTimeout = 15 * time.Minute

// HealthOptions configure a HealthHandler.
type HealthOptions struct {
	// Timeout bounds the reply wait; an elapsed timeout substitutes the
	// timeout sentinel.
	Timeout time.Duration
	// Logger for handler diagnostics.
	Logger logging.Logger
}

// HealthHandler orchestrates one critical or high-priority schedule entry
// end-to-end: knowledge lookup, reminder emission, bounded reply wait,
// classification and the missed-path state mutation. It is safe for
// concurrent use; all shared state lives in the SessionState.
type HealthHandler struct {
	classifier *responder.ComplianceClassifier
	knowledge  core.KnowledgeStore
	sink       core.Sink
	replies    core.ReplySource
	clock      core.Clock
	timeout    time.Duration
	logger     logging.Logger
}

// NewHealthHandler constructs a health handler with optional overrides.
func NewHealthHandler(
	classifier *responder.ComplianceClassifier,
	knowledge core.KnowledgeStore,
	sink core.Sink,
	replies core.ReplySource,
	clock core.Clock,
	optFns ...func(o *HealthOptions),
) *HealthHandler {
	opts := HealthOptions{Timeout: DefaultReplyTimeout, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &HealthHandler{
		classifier: classifier,
		knowledge:  knowledge,
		sink:       sink,
		replies:    replies,
		clock:      clock,
		timeout:    opts.Timeout,
		logger:     opts.Logger,
	}
}

// Handle runs the critical sequence for one schedule entry and returns the
// delegation envelope for the planner. Side effects: the reminder emission
// always; state mutation only on the missed path (MISSED_ESCALATED status
// plus one escalation record). The only error return is context
// cancellation; timeout and lookup misses are handled branches.
func (h *HealthHandler) Handle(ctx context.Context, state *core.SessionState, entry core.ScheduleEntry) (core.DelegationEnvelope, error) {
	start := time.Now()
	profile := state.Profile()

	info := h.knowledge.Lookup(ctx, entry.Task)
	h.sink.Emit(fmt.Sprintf("Hello %s! Time for your %s. %s", profile.Name, entry.Task, info))

	reply, err := h.awaitReply(ctx, entry)
	if err != nil {
		return core.DelegationEnvelope{}, err
	}

	artifact := h.classifier.Classify(entry.Task, reply)

	if artifact.Status == core.OutcomeMissed {
		rec := core.EscalationRecord{
			Time:    h.clock.Now(),
			TimeKey: entry.TimeKey,
			Task:    entry.Task,
			Message: fmt.Sprintf("%s missed.", entry.Task),
		}
		if err := state.MarkMissedEscalated(entry.TimeKey, rec); err != nil {
			// The planner hands out each PENDING entry exactly once, so a
			// rejected transition indicates a wiring bug upstream.
			h.logger.Warn("handler.health.mark_missed_failed key=%s error=%v", entry.TimeKey, err)
		}
	}

	h.sink.Emit(artifact.ResponseText)
	h.logger.Info("handler.health.completed task=%s status=%s duration=%s",
		entry.Task, artifact.Status, time.Since(start))

	return core.NewEnvelope(HealthHandlerID, entry.Task, artifact), nil
}

// awaitReply races the reply source against the configured timeout. A source
// that closes its channel without answering waits out the timer like a
// silent user would. The wait context is cancelled on every return path so
// the source stops listening the moment either branch resolves; a reply
// arriving after that belongs to the next waiter, not this one.
func (h *HealthHandler) awaitReply(ctx context.Context, entry core.ScheduleEntry) (string, error) {
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	replyCh := h.replies.Replies(waitCtx, entry)
	timer := time.NewTimer(h.timeout)
	defer timer.Stop()

	for {
		select {
		case reply, ok := <-replyCh:
			if !ok {
				replyCh = nil
				continue
			}
			return reply, nil
		case <-timer.C:
			h.logger.Debug("handler.health.reply_timeout key=%s timeout=%s", entry.TimeKey, h.timeout)
			return core.TimeoutReply, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}
