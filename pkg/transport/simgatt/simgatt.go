// Package simgatt is an in-memory transport.Link/transport.Discovery pair
// simulating a single ANCS notification provider. It backs the demo
// consumer's offline mode and the end-to-end round-trip test, in place of
// a real go-ble/ble connection.
package simgatt

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ancs-go/ancs/pkg/transport"
	"github.com/ancs-go/ancs/pkg/wire"
)

const (
	handleControlPoint transport.Handle = iota + 1
	handleNotificationSource
	handleNotificationSourceCCCD
	handleDataSource
	handleDataSourceCCCD
)

// Discovery is the fixed ANCS discovery result simgatt always returns.
type Discovery struct{}

func (Discovery) ServiceUUID() uuid.UUID { return wire.ServiceUUID }

func (Discovery) Characteristic(id uuid.UUID) (transport.Handle, bool) {
	switch id {
	case wire.ControlPointUUID:
		return handleControlPoint, true
	case wire.NotificationSourceUUID:
		return handleNotificationSource, true
	case wire.DataSourceUUID:
		return handleDataSource, true
	default:
		return 0, false
	}
}

func (Discovery) Descriptor(id uuid.UUID) (transport.Handle, bool) {
	switch id {
	case wire.NotificationSourceUUID:
		return handleNotificationSourceCCCD, true
	case wire.DataSourceUUID:
		return handleDataSourceCCCD, true
	default:
		return 0, false
	}
}

// Provider is a fake Notification Provider peer, driving a Link. Tests and
// the demo CLI call SendNotificationSource/SendDataSource to push inbound
// traffic and inspect WrittenCommands to observe what the consumer wrote.
type Provider struct {
	mu sync.Mutex

	nsFn transport.NotificationFunc
	dsFn transport.NotificationFunc

	writes []Write

	// RespondStatus is returned as the write-response status for the
	// next write, then reset to 0 (success).
	RespondStatus uint8
}

// Write records one Control Point write the consumer performed.
type Write struct {
	Data []byte
}

// NewProvider returns a fresh, disconnected simulated provider.
func NewProvider() *Provider { return &Provider{} }

// Link returns a transport.Link bound to this provider.
func (p *Provider) Link() transport.Link { return (*link)(p) }

// Discovery returns the fixed discovery result for this provider.
func (p *Provider) Discovery() transport.Discovery { return Discovery{} }

// SendNotificationSource delivers one Notification Source record to the
// consumer, as if pushed by the real provider.
func (p *Provider) SendNotificationSource(record []byte) {
	p.mu.Lock()
	fn := p.nsFn
	p.mu.Unlock()
	if fn != nil {
		fn(record)
	}
}

// SendDataSource delivers one Data Source record to the consumer.
func (p *Provider) SendDataSource(record []byte) {
	p.mu.Lock()
	fn := p.dsFn
	p.mu.Unlock()
	if fn != nil {
		fn(record)
	}
}

// WrittenCommands returns every Control Point write received so far.
func (p *Provider) WrittenCommands() []Write {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Write, len(p.writes))
	copy(out, p.writes)
	return out
}

// link adapts *Provider to transport.Link without exposing the
// test-inspection methods on the interface the session holds.
type link Provider

func (l *link) Subscribe(handle transport.Handle, enable bool, fn transport.NotificationFunc) error {
	p := (*Provider)(l)
	p.mu.Lock()
	defer p.mu.Unlock()
	switch handle {
	case handleNotificationSource:
		if enable {
			p.nsFn = fn
		} else {
			p.nsFn = nil
		}
	case handleDataSource:
		if enable {
			p.dsFn = fn
		} else {
			p.dsFn = nil
		}
	}
	return nil
}

func (l *link) Write(handle transport.Handle, data []byte, completion transport.WriteCompletion) error {
	p := (*Provider)(l)
	p.mu.Lock()
	p.writes = append(p.writes, Write{Data: append([]byte(nil), data...)})
	status := p.RespondStatus
	p.RespondStatus = 0
	p.mu.Unlock()

	if completion != nil {
		completion(status, nil)
	}
	return nil
}

// Close is a no-op: unlike a real link, the simulated link keeps accepting
// Subscribe and Write calls afterwards.
func (l *link) Close() error { return nil }
