package usage

import (
	"context"
	"log/slog"
	"time"
)

// Event names.
const (
	EventSessionStart = "session-start"
	EventCalculation  = "calculation"
	EventSuspicion    = "fip-suspicion"
)

// Event is a single usage event.
type Event struct {
	Name      string
	SessionID string
	Score     int
	At        time.Time
}

// Path is the counter path the event is reported under.
func (e Event) Path() string { return "events/" + e.Name }

// EventSink receives usage events. Sinks must not block.
type EventSink interface {
	Send(ctx context.Context, e Event) error
}

// LogSink writes events to a logger at debug level.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Send(ctx context.Context, e Event) error {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	l.DebugContext(ctx, "usage event", "path", e.Path(), "session", e.SessionID, "score", e.Score)
	return nil
}
