// Package core provides the foundational domain types and interfaces used by
// CareMesh. It defines the core abstractions for:
//
//   - Schedule entries (time-keyed obligations with priority and status)
//   - Result artifacts (structured handler outcomes driving escalation)
//   - Delegation envelopes (single-call routing wrappers around artifacts)
//   - Session state (user profile, schedule and append-only escalation log)
//   - Clocks (injectable simulated or system time sources)
//   - Pluggable collaborators (knowledge lookup, notification, reply intake)
//
// The package intentionally keeps implementation concerns (concrete handlers,
// planner orchestration, store backends) out of scope, exposing small
// interfaces to enable custom backends and extensions.
package core
