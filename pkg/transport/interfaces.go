// Package transport defines the collaborator interfaces a Client session
// needs from a BLE central stack (§6 "Collaborator interfaces consumed"),
// plus the two concrete bindings: blegatt (go-ble/ble) and simgatt (an
// in-memory fake for tests and the demo provider).
package transport

import "github.com/google/uuid"

// Handle identifies a discovered GATT attribute (characteristic value or
// descriptor) within one connection. Its concrete meaning is owned by the
// Link implementation; the session treats it as an opaque token.
type Handle uint16

// Handles holds the five GATT attribute handles a Client session needs
// after service discovery: the Control Point characteristic, the
// Notification Source and Data Source characteristics, and their Client
// Characteristic Configuration descriptors.
type Handles struct {
	ControlPoint            Handle
	NotificationSource      Handle
	NotificationSourceCCCD  Handle
	DataSource              Handle
	DataSourceCCCD          Handle
}

// Discovery is satisfied by a completed GATT service discovery. It
// resolves the ANCS service and its characteristics/descriptors by UUID
// (§4.D handles_assign: "fails NotSupported if the service uuid does not
// match, Invalid if any expected characteristic/descriptor is absent").
type Discovery interface {
	// ServiceUUID returns the discovered primary service's UUID, or the
	// zero UUID if no service was found.
	ServiceUUID() uuid.UUID

	// Characteristic returns the value handle for the characteristic
	// with the given UUID, or false if it was not discovered.
	Characteristic(id uuid.UUID) (Handle, bool)

	// Descriptor returns the handle for the Client Characteristic
	// Configuration descriptor of the characteristic with the given
	// UUID, or false if it was not discovered.
	Descriptor(id uuid.UUID) (Handle, bool)
}

// WriteCompletion is invoked once a Control Point write's response
// arrives. status is the provider's attribute-write-response status
// (0 on success, non-zero per §6's provider error codes); err carries a
// transport-layer failure (the write itself never reached the link).
type WriteCompletion func(status uint8, err error)

// NotificationFunc is invoked for every inbound notification payload on a
// subscribed characteristic, in arrival order.
type NotificationFunc func(payload []byte)

// Link is the live, connected GATT link a Client session drives. A Link
// implementation owns exactly one physical connection; Subscribe and
// Write are called from the session's single-threaded execution context
// (§5) and must not be called concurrently with each other by the
// session itself, but a Link may deliver inbound notifications from its
// own callback goroutine at any time.
type Link interface {
	// Subscribe enables or disables notification delivery on handle by
	// writing its CCCD, and registers fn to receive payloads while
	// enabled. Disabling may pass a nil fn.
	Subscribe(handle Handle, enable bool, fn NotificationFunc) error

	// Write performs a GATT write-with-response of data to handle,
	// invoking completion when the peripheral's response arrives. It
	// must return promptly; the response is asynchronous.
	Write(handle Handle, data []byte, completion WriteCompletion) error

	// Close tears down the link. Subsequent Subscribe/Write calls fail.
	Close() error
}
