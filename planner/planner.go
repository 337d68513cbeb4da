// Package planner implements the orchestration loop: it advances along a
// time source, matches the current time key against pending schedule
// entries, routes each entry to the handler for its priority class and
// applies the returned delegation envelope to decide on escalation.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/caremesh/core"
	"github.com/hupe1980/caremesh/handler"
	"github.com/hupe1980/caremesh/logging"
)

// Options configure a Planner.
type Options struct {
	// Logger for orchestration diagnostics.
	Logger logging.Logger
}

// Planner drives one session through its day. It exclusively owns the
// session state for the lifetime of a run; handlers receive the state
// reference synchronously and never run concurrently against the same
// schedule entry. No single handler outcome is fatal to the loop.
type Planner struct {
	state    *core.SessionState
	clock    core.Clock
	health   *handler.HealthHandler
	general  *handler.GeneralHandler
	notifier core.Notifier
	logger   logging.Logger
}

// New constructs a Planner.
func New(
	state *core.SessionState,
	clock core.Clock,
	health *handler.HealthHandler,
	general *handler.GeneralHandler,
	notifier core.Notifier,
	optFns ...func(o *Options),
) *Planner {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Planner{
		state:    state,
		clock:    clock,
		health:   health,
		general:  general,
		notifier: notifier,
		logger:   opts.Logger,
	}
}

// State returns the session state owned by this planner.
func (p *Planner) State() *core.SessionState { return p.state }

// Step processes the current simulated instant exactly once:
//
//  1. Compute the time key from the clock.
//  2. No matching entry: idle no-op.
//  3. Entry not PENDING: no-op, enforcing at-most-once processing.
//  4. CRITICAL / HIGH: health handler, then envelope interpretation, then
//     the terminal transition. LOW: general handler, marked COMPLETED.
//
// A missed health entry keeps its MISSED_ESCALATED status; COMPLETED is the
// terminal state only for the non-missed paths. The only error Step returns
// is context cancellation; everything else is logged and absorbed so the
// loop keeps processing subsequent steps.
func (p *Planner) Step(ctx context.Context) error {
	key := core.NewTimeKey(p.clock.Now())

	entry, ok := p.state.Entry(key)
	if !ok {
		p.logger.Debug("planner.step.idle key=%s", key)
		return nil
	}
	if entry.Status != core.StatusPending {
		p.logger.Debug("planner.step.already_processed key=%s status=%s", key, entry.Status)
		return nil
	}

	p.logger.Info("planner.step.dispatch key=%s task=%s priority=%s", key, entry.Task, entry.Priority)

	if !entry.Priority.IsHealth() {
		p.general.HandleScheduled(ctx, p.state, entry)
		if err := p.state.MarkCompleted(key); err != nil {
			p.logger.Warn("planner.step.complete_failed key=%s error=%v", key, err)
		}
		return nil
	}

	env, err := p.health.Handle(ctx, p.state, entry)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		p.logger.Error("planner.step.handler_failed key=%s error=%v", key, err)
		return nil
	}

	p.applyEnvelope(ctx, env)

	if env.Artifact.Status != core.OutcomeMissed {
		if err := p.state.MarkCompleted(key); err != nil {
			p.logger.Warn("planner.step.complete_failed key=%s error=%v", key, err)
		}
	}

	return nil
}

// applyEnvelope interprets a delegation envelope. The artifact's NextAction
// is authoritative: the caregiver notifier is invoked if and only if the
// outcome is missed and the recommended action is alert_caregiver. This is
// the only path with an irreversible external effect; a failed delivery is
// logged and absorbed.
func (p *Planner) applyEnvelope(ctx context.Context, env core.DelegationEnvelope) {
	artifact := env.Artifact
	p.logger.Debug("planner.envelope source=%s status=%s action=%s", env.HandlerID, artifact.Status, artifact.NextAction)

	switch {
	case artifact.Status == core.OutcomeMissed && artifact.NextAction == core.ActionAlertCaregiver:
		message := fmt.Sprintf("%s missed their %s.", p.state.Profile().Name, env.Task)
		if delivered := p.notifier.Notify(ctx, message); !delivered {
			p.logger.Warn("planner.notify_failed task=%s", env.Task)
		}
	case artifact.Status == core.OutcomeConfirmed:
		p.logger.Info("planner.compliance_logged task=%s", env.Task)
	default:
		p.logger.Debug("planner.no_action task=%s status=%s", env.Task, artifact.Status)
	}
}

// HandleQuery routes a conversational query to the general handler. It is
// safe to call while an escalation is in flight: the general path is
// read-only with respect to the schedule and escalation log.
func (p *Planner) HandleQuery(ctx context.Context, query string) string {
	return p.general.Handle(ctx, p.state, query)
}

// Advancer is a simulated timeline the run loop can move forward.
type Advancer interface {
	core.Clock
	Advance(d time.Duration)
}

// RunWindow steps the planner from the clock's current instant until the
// given end-of-window instant, advancing the timeline by step between
// iterations. Context cancellation stops the loop; individual step outcomes
// do not.
func (p *Planner) RunWindow(ctx context.Context, adv Advancer, until time.Time, step time.Duration) error {
	if step <= 0 {
		return fmt.Errorf("step must be positive, got %s", step)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := p.Step(ctx); err != nil {
			return err
		}
		if !adv.Now().Before(until) {
			return nil
		}
		adv.Advance(step)
	}
}
