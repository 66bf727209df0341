package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogAdapterLogsAttributeEvent(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	adapter.Log(Event{
		ConnectionID: "conn-1",
		Direction:    DirectionIn,
		Layer:        LayerWire,
		Category:     CategoryAttribute,
		Channel:      ChannelDS,
		Attribute:    &AttributeEvent{AttributeID: 1, DataLen: 3},
	})

	out := buf.String()
	for _, want := range []string{"conn-1", "attr_id=1", "data_len=3", "channel=DS"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestSlogAdapterLogsErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	adapter.Log(Event{
		ConnectionID: "conn-2",
		Category:     CategoryError,
		Error:        &ErrorEventData{Layer: LayerTransport, Message: "boom"},
	})

	if !strings.Contains(buf.String(), "error_msg=boom") {
		t.Fatalf("output %q missing error_msg", buf.String())
	}
}
