// Package testutil provides shared helpers for constructing test fixtures:
// session builders with canned schedules and recording doubles for the
// notifier collaborator. Keeping these together avoids fixture duplication
// across package tests.
package testutil
