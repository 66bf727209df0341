// Package blegatt binds a session.Client to a real BLE central stack via
// github.com/go-ble/ble. It adapts go-ble/ble's synchronous Dial/Subscribe/
// WriteCharacteristic API onto the session's transport.Link and
// transport.Discovery interfaces.
package blegatt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-ble/ble"
	"github.com/google/uuid"

	"github.com/ancs-go/ancs/pkg/transport"
	"github.com/ancs-go/ancs/pkg/wire"
)

// DeviceFactory creates the platform ble.Device. Overridable in tests.
var DeviceFactory = ble.NewDevice

// Link is a live go-ble connection to one ANCS notification provider. It
// implements transport.Link.
type Link struct {
	mu     sync.RWMutex
	client ble.Client
	chars  map[transport.Handle]*ble.Characteristic
}

// Discovery is a completed service discovery, satisfying
// transport.Discovery, built from a go-ble Profile.
type Discovery struct {
	serviceUUID uuid.UUID
	chars       map[uuid.UUID]transport.Handle
	descs       map[uuid.UUID]transport.Handle
}

// Dial connects to the peripheral at address, discovers its GATT profile,
// and returns both the Link the session drives commands over and a
// Discovery the session resolves handles from via HandlesAssign.
func Dial(ctx context.Context, address string) (*Link, *Discovery, error) {
	dev, err := DeviceFactory()
	if err != nil {
		return nil, nil, fmt.Errorf("blegatt: create device: %w", err)
	}
	ble.SetDefaultDevice(dev)

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultDialTimeout)
		defer cancel()
	}

	client, err := ble.Dial(ctx, ble.NewAddr(address))
	if err != nil {
		return nil, nil, fmt.Errorf("blegatt: dial %s: %w", address, err)
	}

	profile, err := client.DiscoverProfile(true)
	if err != nil {
		_ = client.CancelConnection()
		return nil, nil, fmt.Errorf("blegatt: discover profile: %w", err)
	}

	link := &Link{client: client, chars: make(map[transport.Handle]*ble.Characteristic)}
	disc := &Discovery{chars: make(map[uuid.UUID]transport.Handle), descs: make(map[uuid.UUID]transport.Handle)}

	var nextHandle transport.Handle
	for _, svc := range profile.Services {
		id, err := uuidFromBLE(svc.UUID)
		if err != nil {
			continue
		}
		// A peripheral exposes other GATT services alongside ANCS
		// (GAP, device information); only record the one the session
		// will actually validate against.
		if id == wire.ServiceUUID {
			disc.serviceUUID = id
		}
		for _, c := range svc.Characteristics {
			cid, err := uuidFromBLE(c.UUID)
			if err != nil {
				continue
			}
			nextHandle++
			h := nextHandle
			link.chars[h] = c
			disc.chars[cid] = h

			for _, d := range c.Descriptors {
				did, err := uuidFromBLE(d.UUID)
				if err != nil {
					continue
				}
				if did == cccdUUID {
					nextHandle++
					disc.descs[cid] = nextHandle
					link.chars[nextHandle] = c
				}
			}
		}
	}

	return link, disc, nil
}

// cccdUUID is the standard Client Characteristic Configuration descriptor
// UUID (16-bit, expanded to the Bluetooth base UUID).
var cccdUUID = uuid.MustParse("00002902-0000-1000-8000-00805F9B34FB")

func uuidFromBLE(u ble.UUID) (uuid.UUID, error) {
	return uuid.Parse(expandBLEUUID(u.String()))
}

// expandBLEUUID turns go-ble's compact hex form into a dashed 128-bit
// UUID string that google/uuid can parse.
func expandBLEUUID(s string) string {
	if len(s) == 32 {
		return s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:32]
	}
	return s
}

// ServiceUUID implements transport.Discovery.
func (d *Discovery) ServiceUUID() uuid.UUID { return d.serviceUUID }

// Characteristic implements transport.Discovery.
func (d *Discovery) Characteristic(id uuid.UUID) (transport.Handle, bool) {
	h, ok := d.chars[id]
	return h, ok
}

// Descriptor implements transport.Discovery.
func (d *Discovery) Descriptor(id uuid.UUID) (transport.Handle, bool) {
	h, ok := d.descs[id]
	return h, ok
}

// Subscribe implements transport.Link by enabling or disabling GATT
// notifications on the characteristic backing handle.
func (l *Link) Subscribe(handle transport.Handle, enable bool, fn transport.NotificationFunc) error {
	l.mu.RLock()
	char, ok := l.chars[handle]
	client := l.client
	l.mu.RUnlock()
	if !ok {
		return fmt.Errorf("blegatt: unknown handle %d", handle)
	}

	if !enable {
		return client.Unsubscribe(char, false)
	}
	return client.Subscribe(char, false, func(data []byte) {
		if fn != nil {
			fn(data)
		}
	})
}

// Write implements transport.Link. go-ble's WriteCharacteristic is
// synchronous, so it runs on its own goroutine and the result is
// delivered through completion, matching the session's async contract.
// ANCS conveys provider errors via the GATT error response rather than a
// payload, so status is always 0 here; a non-nil err is surfaced to the
// session as a transport failure.
func (l *Link) Write(handle transport.Handle, data []byte, completion transport.WriteCompletion) error {
	l.mu.RLock()
	char, ok := l.chars[handle]
	client := l.client
	l.mu.RUnlock()
	if !ok {
		return fmt.Errorf("blegatt: unknown handle %d", handle)
	}

	go func() {
		err := client.WriteCharacteristic(char, data, false)
		if completion != nil {
			completion(0, err)
		}
	}()
	return nil
}

// Close implements transport.Link.
func (l *Link) Close() error {
	l.mu.RLock()
	client := l.client
	l.mu.RUnlock()
	if client == nil {
		return nil
	}
	return client.CancelConnection()
}

// Disconnected returns a channel that closes when go-ble reports the
// peripheral disconnected out from under us (a dropped BLE link, not a
// caller-initiated Close). Not every platform's ble.Client exposes this;
// callers get a nil channel when it doesn't, and a nil channel blocks
// forever in a select, which is the correct "no disconnect signal
// available" behavior.
func (l *Link) Disconnected() <-chan struct{} {
	l.mu.RLock()
	client := l.client
	l.mu.RUnlock()
	if d, ok := client.(interface{ Disconnected() <-chan struct{} }); ok {
		return d.Disconnected()
	}
	return nil
}

// DefaultDialTimeout bounds a Dial call when the caller's context carries
// no deadline.
const DefaultDialTimeout = 30 * time.Second
