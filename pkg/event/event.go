// Package event defines the single entry point through which a Client
// session reports decoded notifications, attribute completions, and
// provider errors to its caller (§4.E).
package event

import "github.com/ancs-go/ancs/pkg/wire"

// Kind tags which field of an Event is populated.
type Kind uint8

const (
	KindNotif Kind = iota
	KindInvalidNotif
	KindNotifAttribute
	KindAppAttribute
	KindNpError
)

func (k Kind) String() string {
	switch k {
	case KindNotif:
		return "Notif"
	case KindInvalidNotif:
		return "InvalidNotif"
	case KindNotifAttribute:
		return "NotifAttribute"
	case KindAppAttribute:
		return "AppAttribute"
	case KindNpError:
		return "NpError"
	default:
		return "Unknown"
	}
}

// Event is the tagged union delivered to a Sink. Exactly one of the
// trailing fields is meaningful, selected by Kind.
//
// Pointers inside NotifAttribute/AppAttribute reference the caller's own
// storage buffers (§4.E): they are valid only until the next event for
// the same attribute id.
type Event struct {
	Kind Kind

	// Notif / InvalidNotif
	Summary wire.SummaryNotification

	// NotifAttribute / AppAttribute
	NotifUID    uint32
	AppID       string
	AttributeID uint8
	Data        []byte

	// NpError: ProviderStatus is set when the provider returned a non-zero
	// write-response status; Err is set instead when the failure was
	// reported by the transport before any provider status arrived (§7).
	ProviderStatus wire.ProviderStatus
	Err            error
}

// Sink is the caller-supplied event handler (§4.E). It is invoked from
// whatever context delivers transport callbacks (a GATT notification
// handler, a write-complete callback) and must not block; any longer
// work is the caller's responsibility to offload onto its own executor.
type Sink interface {
	HandleEvent(Event)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Event)

func (f SinkFunc) HandleEvent(e Event) { f(e) }
