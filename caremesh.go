// Package caremesh provides a high-level façade over the planner and service
// abstractions (sessions, knowledge, notification, reply intake & logging)
// enabling rapid construction of time-driven care orchestration runs. Most
// applications interact with this package by:
//  1. Creating a CareMesh via New() (optionally overriding default in-memory services)
//  2. Creating a session with a user profile and daily schedule
//  3. Driving the planner (Step / RunWindow) and routing conversational
//     queries (HandleQuery)
//
// The façade delegates orchestration to planner.Planner while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a real notifier, a
// reply gateway and a structured logger.
package caremesh

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hupe1980/caremesh/core"
	"github.com/hupe1980/caremesh/handler"
	"github.com/hupe1980/caremesh/knowledge"
	"github.com/hupe1980/caremesh/logging"
	"github.com/hupe1980/caremesh/model"
	"github.com/hupe1980/caremesh/notify"
	"github.com/hupe1980/caremesh/planner"
	"github.com/hupe1980/caremesh/reply"
	"github.com/hupe1980/caremesh/responder"
	"github.com/hupe1980/caremesh/session"
	"github.com/hupe1980/caremesh/sink"
)

// Options configures the CareMesh instance.
type Options struct {
	// Stores and collaborators (default to in-memory / stdout implementations
	// if not provided).
	SessionStore   core.SessionStore
	KnowledgeStore core.KnowledgeStore
	Notifier       core.Notifier
	Sink           core.Sink
	Replies        core.ReplySource

	// Clock drives the planner; supply a core.SimulatedClock for
	// deterministic runs.
	Clock core.Clock

	// Generator optionally phrases general responses (defaults to the
	// deterministic built-in routing when nil).
	Generator model.Generator

	// ReplyTimeout bounds the compliance reply wait per entry.
	ReplyTimeout time.Duration

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// CareMesh is the high-level façade aggregating the planner and services.
type CareMesh struct {
	opts     Options
	store    core.SessionStore
	mu       sync.RWMutex
	planners map[string]*planner.Planner
}

// New creates a new CareMesh instance with optional overrides. Any unset
// service is initialized with a local default.
func New(optFns ...func(o *Options)) *CareMesh {
	opts := Options{
		SessionStore:   session.NewInMemoryStore(),
		KnowledgeStore: knowledge.NewInMemoryStore(),
		Notifier:       notify.NewLogNotifier(os.Stdout),
		Sink:           sink.NewWriterSink(os.Stdout, ""),
		Replies:        reply.NewScriptedSource(),
		Clock:          core.SystemClock{},
		ReplyTimeout:   handler.DefaultReplyTimeout,
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &CareMesh{
		opts:     opts,
		store:    opts.SessionStore,
		planners: make(map[string]*planner.Planner),
	}
}

// CreateSession registers a session and builds its planner from the
// configured services.
func (m *CareMesh) CreateSession(id string, profile core.UserProfile, entries ...core.ScheduleEntry) (*planner.Planner, error) {
	state, err := m.store.Create(id, profile, entries...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	health := handler.NewHealthHandler(
		responder.NewComplianceClassifier(),
		m.opts.KnowledgeStore,
		m.opts.Sink,
		m.opts.Replies,
		m.opts.Clock,
		func(o *handler.HealthOptions) {
			o.Timeout = m.opts.ReplyTimeout
			o.Logger = m.opts.Logger
		},
	)
	general := handler.NewGeneralHandler(
		responder.NewGeneralResponder(func(o *responder.GeneralOptions) {
			o.Generator = m.opts.Generator
			o.Logger = m.opts.Logger
		}),
		m.opts.Sink,
		func(o *handler.GeneralOptions) { o.Logger = m.opts.Logger },
	)

	p := planner.New(state, m.opts.Clock, health, general, m.opts.Notifier, func(o *planner.Options) {
		o.Logger = m.opts.Logger
	})

	m.mu.Lock()
	m.planners[id] = p
	m.mu.Unlock()

	return p, nil
}

// Session returns the state of an existing session.
func (m *CareMesh) Session(id string) (*core.SessionState, error) {
	return m.store.Get(id)
}

// Planner returns the planner for an existing session.
func (m *CareMesh) Planner(id string) (*planner.Planner, error) {
	m.mu.RLock()
	p, ok := m.planners[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return p, nil
}

// Step processes the current instant for the given session.
func (m *CareMesh) Step(ctx context.Context, id string) error {
	p, err := m.Planner(id)
	if err != nil {
		return err
	}
	return p.Step(ctx)
}

// HandleQuery routes a conversational query for the given session.
func (m *CareMesh) HandleQuery(ctx context.Context, id, query string) (string, error) {
	p, err := m.Planner(id)
	if err != nil {
		return "", err
	}
	return p.HandleQuery(ctx, query), nil
}

// Summary renders the end-of-run report for the given session.
func (m *CareMesh) Summary(id string) (string, error) {
	p, err := m.Planner(id)
	if err != nil {
		return "", err
	}
	return p.State().Summary(), nil
}
