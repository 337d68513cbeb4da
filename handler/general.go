package handler

import (
	"context"
	"fmt"

	"github.com/hupe1980/caremesh/core"
	"github.com/hupe1980/caremesh/logging"
	"github.com/hupe1980/caremesh/responder"
)

// GeneralHandlerID identifies the general handler in logs.
const GeneralHandlerID = "general"

// GeneralHandler answers low-priority entries and conversational queries by
// delegating to the GeneralResponder. It produces no ResultArtifact, never
// escalates and is read-only with respect to the schedule and escalation
// log, so it may run alongside an in-flight escalation.
type GeneralHandler struct {
	responder *responder.GeneralResponder
	sink      core.Sink
	logger    logging.Logger
}

// GeneralOptions configure a GeneralHandler.
type GeneralOptions struct {
	Logger logging.Logger
}

// NewGeneralHandler constructs a general handler.
func NewGeneralHandler(rsp *responder.GeneralResponder, snk core.Sink, optFns ...func(o *GeneralOptions)) *GeneralHandler {
	opts := GeneralOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &GeneralHandler{responder: rsp, sink: snk, logger: opts.Logger}
}

// Handle answers a free-text query, emits the response and returns it.
func (h *GeneralHandler) Handle(ctx context.Context, state *core.SessionState, query string) string {
	text := h.responder.Respond(ctx, state.Profile(), query)
	h.sink.Emit(text)
	h.logger.Info("handler.general.completed query=%q", query)
	return text
}

// HandleScheduled emits an activity nudge for a LOW schedule entry. Status
// transition stays with the planner.
func (h *GeneralHandler) HandleScheduled(_ context.Context, state *core.SessionState, entry core.ScheduleEntry) {
	h.sink.Emit(fmt.Sprintf("%s, a gentle reminder: %s.", state.Profile().Name, entry.Task))
	h.logger.Info("handler.general.scheduled task=%s", entry.Task)
}
