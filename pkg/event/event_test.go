package event

import (
	"errors"
	"testing"

	"github.com/ancs-go/ancs/pkg/wire"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNotif, "Notif"},
		{KindInvalidNotif, "InvalidNotif"},
		{KindNotifAttribute, "NotifAttribute"},
		{KindAppAttribute, "AppAttribute"},
		{KindNpError, "NpError"},
		{Kind(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSinkFuncAdaptsPlainFunction(t *testing.T) {
	var got Event
	var sink Sink = SinkFunc(func(e Event) { got = e })

	sink.HandleEvent(Event{Kind: KindNotifAttribute, NotifUID: 7, AttributeID: 1, Data: []byte("x")})

	if got.Kind != KindNotifAttribute || got.NotifUID != 7 {
		t.Errorf("HandleEvent did not reach the wrapped function: %+v", got)
	}
}

func TestNpErrorDistinguishesTransportFromProviderFailure(t *testing.T) {
	transportErr := errors.New("write failed")
	e1 := Event{Kind: KindNpError, Err: transportErr}
	if e1.Err == nil || e1.ProviderStatus != 0 {
		t.Errorf("transport failure event should carry Err and zero ProviderStatus, got %+v", e1)
	}

	e2 := Event{Kind: KindNpError, ProviderStatus: wire.ProviderActionFailed}
	if e2.Err != nil || e2.ProviderStatus != wire.ProviderActionFailed {
		t.Errorf("provider failure event should carry ProviderStatus and nil Err, got %+v", e2)
	}
}
