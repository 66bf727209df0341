package log

import (
	"bytes"
	"testing"
	"time"
)

func TestEncodeDecodeEventRoundTrip(t *testing.T) {
	uid := uint32(0x04030201)
	want := Event{
		Timestamp:    time.Now().UTC(),
		ConnectionID: "conn-1",
		Direction:    DirectionIn,
		Layer:        LayerWire,
		Category:     CategoryNotification,
		Channel:      ChannelNS,
		Notification: &NotificationEvent{Valid: true, EventID: 0, CategoryID: 6, NotificationUID: uid},
	}

	data, err := EncodeEvent(want)
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}
	got, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if got.ConnectionID != want.ConnectionID || got.Channel != want.Channel {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got.Notification == nil || got.Notification.NotificationUID != uid {
		t.Fatalf("Notification = %+v, want uid %d", got.Notification, uid)
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	events := []Event{
		{ConnectionID: "a", Category: CategoryFrame, Channel: ChannelNS},
		{ConnectionID: "b", Category: CategoryAttribute, Channel: ChannelDS},
	}
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	dec := NewDecoder(&buf)
	for i, want := range events {
		var got Event
		if err := dec.Decode(&got); err != nil {
			t.Fatalf("Decode[%d]: %v", i, err)
		}
		if got.ConnectionID != want.ConnectionID {
			t.Fatalf("Decode[%d].ConnectionID = %q, want %q", i, got.ConnectionID, want.ConnectionID)
		}
	}
}
