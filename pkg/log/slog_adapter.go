package log

import (
	"context"
	"log/slog"
)

// SlogAdapter mirrors trace events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("component", event.Component.String()),
		slog.String("category", event.Category.String()),
	}
	if event.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", event.TraceID))
	}
	if event.DeviceID != "" {
		attrs = append(attrs, slog.String("device_id", event.DeviceID))
	}

	switch {
	case event.Dispatch != nil:
		attrs = append(attrs,
			slog.String("source", event.Dispatch.Source),
			slog.Int("event_id", int(event.Dispatch.ID)),
			slog.Uint64("seq", event.Dispatch.Seq),
			slog.Int("handlers", event.Dispatch.Handlers),
		)
		if event.Dispatch.Name != "" {
			attrs = append(attrs, slog.String("event", event.Dispatch.Name))
		}
		if event.Dispatch.Latency > 0 {
			attrs = append(attrs, slog.Duration("latency", event.Dispatch.Latency))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.Bool("fatal", event.Error.Fatal),
		)
		if event.Error.Operation != "" {
			attrs = append(attrs, slog.String("operation", event.Error.Operation))
		}
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("error_code", *event.Error.Code))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "trace", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
