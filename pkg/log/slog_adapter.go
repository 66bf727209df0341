package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see protocol events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
		slog.String("channel", event.Channel.String()),
	}

	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote_addr", event.RemoteAddr))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Notification != nil:
		attrs = append(attrs,
			slog.Bool("valid", event.Notification.Valid),
			slog.Uint64("evt_id", uint64(event.Notification.EventID)),
			slog.Uint64("category_id", uint64(event.Notification.CategoryID)),
			slog.Uint64("notif_uid", uint64(event.Notification.NotificationUID)),
		)
	case event.Attribute != nil:
		attrs = append(attrs,
			slog.Bool("app", event.Attribute.App),
			slog.Uint64("attr_id", uint64(event.Attribute.AttributeID)),
			slog.Int("data_len", event.Attribute.DataLen),
		)
		if event.Attribute.AppID != "" {
			attrs = append(attrs, slog.String("app_id", event.Attribute.AppID))
		}
	case event.Command != nil:
		attrs = append(attrs,
			slog.Uint64("command", uint64(event.Command.Command)),
			slog.Uint64("notif_uid", uint64(event.Command.NotifUID)),
		)
		if event.Command.AppID != "" {
			attrs = append(attrs, slog.String("app_id", event.Command.AppID))
		}
		if event.Command.Status != nil {
			attrs = append(attrs, slog.Uint64("provider_status", uint64(*event.Command.Status)))
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
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("error_code", *event.Error.Code))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
