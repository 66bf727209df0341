package log

import "time"

// Event represents a protocol log event captured at any layer of the ANCS
// consumer. CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the BLE central connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates record/write flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Channel identifies which ANCS characteristic the event concerns.
	Channel Channel `cbor:"6,keyasint,omitempty"`

	// RemoteAddr is the peripheral's BLE address, once known.
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame        *FrameEvent        `cbor:"10,keyasint,omitempty"` // transport layer
	Notification *NotificationEvent `cbor:"11,keyasint,omitempty"` // NS decode
	Attribute    *AttributeEvent    `cbor:"12,keyasint,omitempty"` // DS completion
	Command      *CommandEvent      `cbor:"13,keyasint,omitempty"` // CP dispatch
	StateChange  *StateChangeEvent  `cbor:"14,keyasint,omitempty"` // subscription/mutex/connection
	Error        *ErrorEventData    `cbor:"15,keyasint,omitempty"` // errors at any layer
}

// Direction indicates the direction of record/write flow.
type Direction uint8

const (
	DirectionIn  Direction = 0
	DirectionOut Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer of the consumer captured the event.
type Layer uint8

const (
	LayerTransport Layer = 0
	LayerWire      Layer = 1
	LayerSession   Layer = 2
)

func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerSession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	CategoryFrame        Category = 0
	CategoryNotification Category = 1
	CategoryAttribute    Category = 2
	CategoryCommand      Category = 3
	CategoryState        Category = 4
	CategoryError        Category = 5
)

func (c Category) String() string {
	switch c {
	case CategoryFrame:
		return "FRAME"
	case CategoryNotification:
		return "NOTIFICATION"
	case CategoryAttribute:
		return "ATTRIBUTE"
	case CategoryCommand:
		return "COMMAND"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Channel identifies one of the three ANCS characteristics.
type Channel uint8

const (
	ChannelNone Channel = 0
	ChannelNS   Channel = 1
	ChannelDS   Channel = 2
	ChannelCP   Channel = 3
)

func (c Channel) String() string {
	switch c {
	case ChannelNS:
		return "NS"
	case ChannelDS:
		return "DS"
	case ChannelCP:
		return "CP"
	default:
		return "NONE"
	}
}

// FrameEvent captures a raw inbound record or outbound write at the
// transport layer.
type FrameEvent struct {
	Size      int    `cbor:"1,keyasint"`
	Data      []byte `cbor:"2,keyasint,omitempty"`
	Truncated bool   `cbor:"3,keyasint,omitempty"`
}

// NotificationEvent captures a decoded (or rejected) Notification Source
// record.
type NotificationEvent struct {
	Valid         bool   `cbor:"1,keyasint"`
	EventID       uint8  `cbor:"2,keyasint"`
	Flags         uint8  `cbor:"3,keyasint"`
	CategoryID    uint8  `cbor:"4,keyasint"`
	CategoryCount uint8  `cbor:"5,keyasint"`
	NotificationUID uint32 `cbor:"6,keyasint"`
}

// AttributeEvent captures one completed Data Source attribute.
type AttributeEvent struct {
	App         bool   `cbor:"1,keyasint"`
	NotifUID    uint32 `cbor:"2,keyasint,omitempty"`
	AppID       string `cbor:"3,keyasint,omitempty"`
	AttributeID uint8  `cbor:"4,keyasint"`
	DataLen     int    `cbor:"5,keyasint"`
}

// CommandEvent captures a Control Point command dispatch or its
// write-completion.
type CommandEvent struct {
	Command  uint8  `cbor:"1,keyasint"`
	NotifUID uint32 `cbor:"2,keyasint,omitempty"`
	AppID    string `cbor:"3,keyasint,omitempty"`
	Status   *uint8 `cbor:"4,keyasint,omitempty"` // provider status, set on completion
}

// StateChangeEvent captures subscription, mutex, and connection lifecycle
// transitions.
type StateChangeEvent struct {
	Entity   StateEntity `cbor:"1,keyasint"`
	OldState string      `cbor:"2,keyasint,omitempty"`
	NewState string      `cbor:"3,keyasint"`
	Reason   string      `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	StateEntityConnection   StateEntity = 0
	StateEntitySubscription StateEntity = 1
	StateEntityMutex        StateEntity = 2
)

func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntitySubscription:
		return "SUBSCRIPTION"
	case StateEntityMutex:
		return "MUTEX"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	Layer   Layer  `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`
	Code    *int   `cbor:"3,keyasint,omitempty"`
	Context string `cbor:"4,keyasint,omitempty"`
}
