// Package notify delivers user-facing success, warning, error and info messages.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/trogers1052/trading-position-modeler/internal/models"
)

// Notifier receives user-facing messages. Implementations never fail the caller.
type Notifier interface {
	Success(ctx context.Context, message string)
	Warn(ctx context.Context, message string)
	Error(ctx context.Context, message string)
	Info(ctx context.Context, message string)
}

// LogNotifier writes notifications to a zerolog logger
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier that logs every message
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

// Success logs at info level with a success marker
func (n *LogNotifier) Success(_ context.Context, message string) {
	n.logger.Info().Str("notification", models.NotificationSuccess).Msg(message)
}

// Warn logs at warn level
func (n *LogNotifier) Warn(_ context.Context, message string) {
	n.logger.Warn().Str("notification", models.NotificationWarning).Msg(message)
}

// Error logs at error level
func (n *LogNotifier) Error(_ context.Context, message string) {
	n.logger.Error().Str("notification", models.NotificationError).Msg(message)
}

// Info logs at info level
func (n *LogNotifier) Info(_ context.Context, message string) {
	n.logger.Info().Str("notification", models.NotificationInfo).Msg(message)
}

// Fanout forwards every notification to each wrapped notifier in order
type Fanout []Notifier

// NewFanout drops nil notifiers so optional sinks can be passed unconditionally
func NewFanout(notifiers ...Notifier) Fanout {
	f := make(Fanout, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			f = append(f, n)
		}
	}
	return f
}

// Success forwards to every notifier
func (f Fanout) Success(ctx context.Context, message string) {
	for _, n := range f {
		n.Success(ctx, message)
	}
}

// Warn forwards to every notifier
func (f Fanout) Warn(ctx context.Context, message string) {
	for _, n := range f {
		n.Warn(ctx, message)
	}
}

// Error forwards to every notifier
func (f Fanout) Error(ctx context.Context, message string) {
	for _, n := range f {
		n.Error(ctx, message)
	}
}

// Info forwards to every notifier
func (f Fanout) Info(ctx context.Context, message string) {
	for _, n := range f {
		n.Info(ctx, message)
	}
}
