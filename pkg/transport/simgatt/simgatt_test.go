package simgatt

import (
	"testing"

	"github.com/ancs-go/ancs/pkg/wire"
)

func TestDiscoveryResolvesANCSHandles(t *testing.T) {
	var d Discovery
	if d.ServiceUUID() != wire.ServiceUUID {
		t.Fatalf("ServiceUUID = %v, want %v", d.ServiceUUID(), wire.ServiceUUID)
	}
	if _, ok := d.Characteristic(wire.ControlPointUUID); !ok {
		t.Fatal("control point characteristic not found")
	}
	if _, ok := d.Descriptor(wire.NotificationSourceUUID); !ok {
		t.Fatal("notification source CCCD not found")
	}
}

func TestProviderRecordsWritesAndDeliversNotifications(t *testing.T) {
	p := NewProvider()
	link := p.Link()

	var got []byte
	if err := link.Subscribe(handleNotificationSource, true, func(payload []byte) {
		got = payload
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	p.SendNotificationSource([]byte{0x00, 0x18, 0x06, 0x02, 0x01, 0x02, 0x03, 0x04})
	if len(got) != 8 {
		t.Fatalf("got %d bytes, want 8", len(got))
	}

	completed := false
	var status uint8
	if err := link.Write(handleControlPoint, []byte{0x02, 0x01, 0x02, 0x03, 0x04, 0x00}, func(s uint8, err error) {
		completed = true
		status = s
	}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !completed {
		t.Fatal("completion was not invoked")
	}
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if len(p.WrittenCommands()) != 1 {
		t.Fatalf("got %d written commands, want 1", len(p.WrittenCommands()))
	}
}
