package handler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/caremesh/core"
	"github.com/hupe1980/caremesh/internal/testutil"
	"github.com/hupe1980/caremesh/knowledge"
	"github.com/hupe1980/caremesh/reply"
	"github.com/hupe1980/caremesh/responder"
	"github.com/hupe1980/caremesh/sink"
)

func newHealthFixture(t *testing.T, replies core.ReplySource, timeout time.Duration) (*HealthHandler, *core.SessionState, *sink.BufferSink) {
	t.Helper()
	state := testutil.NewSessionBuilder("s1").WithReferenceSchedule().Build()
	buf := sink.NewBufferSink()
	clock := core.NewSimulatedClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	h := NewHealthHandler(
		responder.NewComplianceClassifier(),
		knowledge.NewInMemoryStore(),
		buf,
		replies,
		clock,
		func(o *HealthOptions) { o.Timeout = timeout },
	)
	return h, state, buf
}

func TestHealthHandler_ConfirmedReply(t *testing.T) {
	replies := reply.NewScriptedSource().Script("15:00", "I confirm I took it. Thanks.")
	h, state, buf := newHealthFixture(t, replies, 50*time.Millisecond)

	entry, _ := state.Entry("15:00")
	env, err := h.Handle(context.Background(), state, entry)
	require.NoError(t, err)

	assert.Equal(t, HealthHandlerID, env.HandlerID)
	assert.Equal(t, "Medication: Vitamin D", env.Task)
	assert.NotEmpty(t, env.ID)
	assert.Equal(t, core.OutcomeConfirmed, env.Artifact.Status)
	assert.Equal(t, core.ActionNone, env.Artifact.NextAction)

	// No escalation side effects on the confirmed path.
	assert.Empty(t, state.EscalationLog())
	got, _ := state.Entry("15:00")
	assert.Equal(t, core.StatusPending, got.Status, "status transition belongs to the planner on this path")

	require.Len(t, buf.Messages(), 2)
	assert.Contains(t, buf.Messages()[0], "Medication: Vitamin D")
}

func TestHealthHandler_TimeoutEscalates(t *testing.T) {
	// No script for 08:00: the source stays silent and the wait must elapse.
	h, state, _ := newHealthFixture(t, reply.NewScriptedSource(), 20*time.Millisecond)

	entry, _ := state.Entry("08:00")
	env, err := h.Handle(context.Background(), state, entry)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeMissed, env.Artifact.Status)
	assert.Equal(t, core.ActionAlertCaregiver, env.Artifact.NextAction)

	got, _ := state.Entry("08:00")
	assert.Equal(t, core.StatusMissedEscalated, got.Status)

	log := state.EscalationLog()
	require.Len(t, log, 1)
	assert.Equal(t, core.TimeKey("08:00"), log[0].TimeKey)
	assert.Contains(t, log[0].Message, "Medication: Blood Pressure Med")
	assert.Equal(t, "08:00", log[0].Time.Format("15:04"), "record carries the simulated clock time")
}

func TestHealthHandler_ReplyBeatsTimeout(t *testing.T) {
	replies := reply.NewScriptedSource().
		Script("15:00", "took it").
		SetDelay(10 * time.Millisecond)
	h, state, _ := newHealthFixture(t, replies, 500*time.Millisecond)

	entry, _ := state.Entry("15:00")
	start := time.Now()
	env, err := h.Handle(context.Background(), state, entry)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeConfirmed, env.Artifact.Status)
	assert.Less(t, time.Since(start), 400*time.Millisecond, "reply arrival should resolve the wait early")
}

func TestHealthHandler_TimeoutBeatsSlowReply(t *testing.T) {
	replies := reply.NewScriptedSource().
		Script("15:00", "took it").
		SetDelay(time.Hour)
	h, state, _ := newHealthFixture(t, replies, 20*time.Millisecond)

	entry, _ := state.Entry("15:00")
	env, err := h.Handle(context.Background(), state, entry)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeMissed, env.Artifact.Status)
}

func TestHealthHandler_ReplyAfterTimeoutReachesNextEntry(t *testing.T) {
	// The 08:00 wait elapses unanswered; a reply pushed afterwards must reach
	// the 15:00 wait instead of being swallowed by the abandoned one.
	replies := reply.NewChannelSource(1)
	h, state, _ := newHealthFixture(t, replies, 100*time.Millisecond)

	first, _ := state.Entry("08:00")
	env, err := h.Handle(context.Background(), state, first)
	require.NoError(t, err)
	require.Equal(t, core.OutcomeMissed, env.Artifact.Status)

	require.True(t, replies.Push("I confirm I took it."))

	second, _ := state.Entry("15:00")
	env, err = h.Handle(context.Background(), state, second)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeConfirmed, env.Artifact.Status)
	assert.Equal(t, core.ActionNone, env.Artifact.NextAction)
	require.Len(t, state.EscalationLog(), 1, "only the unanswered entry escalates")
}

func TestHealthHandler_ContextCancellation(t *testing.T) {
	h, state, _ := newHealthFixture(t, reply.NewScriptedSource(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	entry, _ := state.Entry("08:00")
	_, err := h.Handle(ctx, state, entry)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, state.EscalationLog(), "cancellation must not escalate")
}

func TestHealthHandler_FollowUpReplyHasNoSideEffects(t *testing.T) {
	replies := reply.NewScriptedSource().Script("15:00", "What is this pill for?")
	h, state, _ := newHealthFixture(t, replies, 50*time.Millisecond)

	entry, _ := state.Entry("15:00")
	env, err := h.Handle(context.Background(), state, entry)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomePendingFollowUp, env.Artifact.Status)
	assert.Empty(t, state.EscalationLog())
}
