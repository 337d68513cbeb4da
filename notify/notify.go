// Package notify provides Notifier implementations for caregiver escalation
// delivery. Delivery is best-effort; a failed attempt is reported through the
// boolean return and never aborts the orchestration loop.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// LogNotifier writes escalation messages to an io.Writer, standing in for an
// SMS / email gateway. Safe for concurrent use.
type LogNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewLogNotifier creates a notifier writing to out.
func NewLogNotifier(out io.Writer) *LogNotifier {
	return &LogNotifier{out: out}
}

// Notify writes the message; a write failure reports false.
func (n *LogNotifier) Notify(_ context.Context, message string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.out, "[Notification Service] URGENT: %s\n", message)
	return err == nil
}

// FuncNotifier adapts a plain function to the Notifier interface.
type FuncNotifier func(ctx context.Context, message string) bool

// Notify invokes the wrapped function.
func (f FuncNotifier) Notify(ctx context.Context, message string) bool { return f(ctx, message) }
