package client

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier shows a transient message to the operator
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message, description string)
}

// LogNotifier prints notifications through zerolog. The console wires it to
// a console writer so operators see them in the terminal.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a notifier writing to log
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Success logs a success notification
func (n *LogNotifier) Success(_ context.Context, message string) {
	n.log.Info().Msg(message)
}

// Error logs an error notification
func (n *LogNotifier) Error(_ context.Context, message, description string) {
	n.log.Error().Str("description", description).Msg(message)
}

// Notifiers fans a notification out to several notifiers
type Notifiers []Notifier

// Success notifies every member
func (ns Notifiers) Success(ctx context.Context, message string) {
	for _, n := range ns {
		n.Success(ctx, message)
	}
}

// Error notifies every member
func (ns Notifiers) Error(ctx context.Context, message, description string) {
	for _, n := range ns {
		n.Error(ctx, message, description)
	}
}
