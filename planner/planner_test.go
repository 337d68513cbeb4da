package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/caremesh/core"
	"github.com/hupe1980/caremesh/handler"
	"github.com/hupe1980/caremesh/internal/testutil"
	"github.com/hupe1980/caremesh/knowledge"
	"github.com/hupe1980/caremesh/reply"
	"github.com/hupe1980/caremesh/responder"
	"github.com/hupe1980/caremesh/sink"
)

type fixture struct {
	planner  *Planner
	state    *core.SessionState
	clock    *core.SimulatedClock
	notifier *testutil.RecorderNotifier
	sink     *sink.BufferSink
	replies  *reply.ScriptedSource
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	state := testutil.NewSessionBuilder("s1").WithReferenceSchedule().Build()
	clock := core.NewSimulatedClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	notifier := testutil.NewRecorderNotifier()
	buf := sink.NewBufferSink()
	replies := reply.NewScriptedSource()

	health := handler.NewHealthHandler(
		responder.NewComplianceClassifier(),
		knowledge.NewInMemoryStore(),
		buf,
		replies,
		clock,
		func(o *handler.HealthOptions) { o.Timeout = 20 * time.Millisecond },
	)
	general := handler.NewGeneralHandler(responder.NewGeneralResponder(), buf)

	return &fixture{
		planner:  New(state, clock, health, general, notifier),
		state:    state,
		clock:    clock,
		notifier: notifier,
		sink:     buf,
		replies:  replies,
	}
}

func TestPlanner_IdleStepIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.clock.SetTimeOfDay(9, 17)

	require.NoError(t, f.planner.Step(context.Background()))

	assert.Empty(t, f.sink.Messages())
	assert.Zero(t, f.notifier.Count())
	for _, e := range f.state.Entries() {
		assert.Equal(t, core.StatusPending, e.Status)
	}
}

func TestPlanner_StepIdempotentAtSameInstant(t *testing.T) {
	f := newFixture(t)
	f.replies.Script("15:00", "took it")
	f.clock.SetTimeOfDay(15, 0)

	require.NoError(t, f.planner.Step(context.Background()))
	emitted := len(f.sink.Messages())

	// Second step at the same simulated time must not process the entry again.
	require.NoError(t, f.planner.Step(context.Background()))
	assert.Equal(t, emitted, len(f.sink.Messages()))
	assert.Zero(t, f.notifier.Count())
}

func TestPlanner_ScenarioA_CriticalTimeout(t *testing.T) {
	f := newFixture(t)
	// 08:00 is unscripted: the reply wait times out.
	f.clock.SetTimeOfDay(8, 0)

	require.NoError(t, f.planner.Step(context.Background()))

	require.Equal(t, 1, f.notifier.Count(), "notifier invoked exactly once")
	assert.Contains(t, f.notifier.Messages()[0], "Mr. David")
	assert.Contains(t, f.notifier.Messages()[0], "Medication: Blood Pressure Med")

	log := f.state.EscalationLog()
	require.Len(t, log, 1)
	assert.Contains(t, log[0].Message, "Medication: Blood Pressure Med")

	entry, _ := f.state.Entry("08:00")
	assert.Equal(t, core.StatusMissedEscalated, entry.Status, "missed status is terminal, not overwritten")
}

func TestPlanner_ScenarioB_HighConfirmed(t *testing.T) {
	f := newFixture(t)
	f.replies.Script("15:00", "I confirm I took it. Thanks.")
	f.clock.SetTimeOfDay(15, 0)

	require.NoError(t, f.planner.Step(context.Background()))

	assert.Zero(t, f.notifier.Count())
	assert.Empty(t, f.state.EscalationLog())
	entry, _ := f.state.Entry("15:00")
	assert.Equal(t, core.StatusCompleted, entry.Status)
}

func TestPlanner_LowPriorityBypassesProtocol(t *testing.T) {
	f := newFixture(t)
	f.clock.SetTimeOfDay(10, 30)

	require.NoError(t, f.planner.Step(context.Background()))

	entry, _ := f.state.Entry("10:30")
	assert.Equal(t, core.StatusCompleted, entry.Status)
	assert.Zero(t, f.notifier.Count())
	assert.Empty(t, f.state.EscalationLog())
	require.Len(t, f.sink.Messages(), 1)
	assert.Contains(t, f.sink.Messages()[0], "Walk 15 minutes")
}

func TestPlanner_PendingFollowUpCompletesWithoutEscalation(t *testing.T) {
	f := newFixture(t)
	f.replies.Script("15:00", "What is this pill for?")
	f.clock.SetTimeOfDay(15, 0)

	require.NoError(t, f.planner.Step(context.Background()))

	assert.Zero(t, f.notifier.Count())
	entry, _ := f.state.Entry("15:00")
	assert.Equal(t, core.StatusCompleted, entry.Status)
}

func TestPlanner_ApplyEnvelope_NotifiesOnlyOnMissedAlert(t *testing.T) {
	statuses := []core.OutcomeStatus{core.OutcomeConfirmed, core.OutcomeMissed, core.OutcomePendingFollowUp}
	actions := []core.NextAction{core.ActionNone, core.ActionAlertCaregiver}

	for _, status := range statuses {
		for _, action := range actions {
			f := newFixture(t)
			env := core.NewEnvelope(handler.HealthHandlerID, "Medication: Vitamin D", core.ResultArtifact{
				Status:     status,
				NextAction: action,
			})

			f.planner.applyEnvelope(context.Background(), env)

			want := 0
			if status == core.OutcomeMissed && action == core.ActionAlertCaregiver {
				want = 1
			}
			assert.Equal(t, want, f.notifier.Count(), "status=%s action=%s", status, action)
		}
	}
}

func TestPlanner_NotifierFailureIsNonFatal(t *testing.T) {
	f := newFixture(t)
	f.notifier.Fail = true
	f.clock.SetTimeOfDay(8, 0)

	require.NoError(t, f.planner.Step(context.Background()))
	assert.Equal(t, 1, f.notifier.Count())

	// The loop keeps processing later slots.
	f.replies.Script("15:00", "took it")
	f.clock.SetTimeOfDay(15, 0)
	require.NoError(t, f.planner.Step(context.Background()))
	entry, _ := f.state.Entry("15:00")
	assert.Equal(t, core.StatusCompleted, entry.Status)
}

func TestPlanner_QueryDuringEscalationIsReadOnly(t *testing.T) {
	f := newFixture(t)
	f.clock.SetTimeOfDay(8, 0)
	require.NoError(t, f.planner.Step(context.Background()))
	logBefore := f.state.EscalationLog()

	text := f.planner.HandleQuery(context.Background(), "What should I eat for breakfast?")
	assert.Contains(t, text, "oatmeal")

	assert.Equal(t, logBefore, f.state.EscalationLog())
	entry, _ := f.state.Entry("08:00")
	assert.Equal(t, core.StatusMissedEscalated, entry.Status)
}

func TestPlanner_RunWindowProcessesWholeDay(t *testing.T) {
	f := newFixture(t)
	f.replies.Script("15:00", "I confirm I took it.")

	until := time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC)
	require.NoError(t, f.planner.RunWindow(context.Background(), f.clock, until, time.Minute))

	e8, _ := f.state.Entry("08:00")
	e10, _ := f.state.Entry("10:30")
	e15, _ := f.state.Entry("15:00")
	assert.Equal(t, core.StatusMissedEscalated, e8.Status)
	assert.Equal(t, core.StatusCompleted, e10.Status)
	assert.Equal(t, core.StatusCompleted, e15.Status)
	assert.Equal(t, 1, f.notifier.Count())
}

func TestPlanner_RunWindowRejectsNonPositiveStep(t *testing.T) {
	f := newFixture(t)
	err := f.planner.RunWindow(context.Background(), f.clock, f.clock.Now().Add(time.Hour), 0)
	require.Error(t, err)
}

func TestPlanner_RunWindowStopsOnCancellation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.planner.RunWindow(ctx, f.clock, f.clock.Now().Add(time.Hour), time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}
