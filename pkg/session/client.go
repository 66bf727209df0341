// Package session implements the ANCS Client Session (§4.D): the
// per-connection object that owns the attribute-subscription tables, the
// Control Point encoder and Data Source parser, and the single-permit
// mutex serializing Control Point transactions.
package session

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/ancs-go/ancs/pkg/config"
	"github.com/ancs-go/ancs/pkg/event"
	"github.com/ancs-go/ancs/pkg/log"
	"github.com/ancs-go/ancs/pkg/transport"
	"github.com/ancs-go/ancs/pkg/wire"
)

// Client is one ANCS consumer session bound to a single BLE central link.
// It is not safe for concurrent use from multiple goroutines beyond what
// §5 allows: the transport's own callback context plus synchronous
// caller-initiated dispatches, serialized by the caller or by running
// both on the transport's callback executor.
type Client struct {
	cfg    config.Config
	connID uuid.UUID

	link    transport.Link
	handles transport.Handles

	notifTable *wire.AttributeTable
	appTable   *wire.AttributeTable
	encoder    *wire.Encoder
	parser     *wire.Parser

	sink   event.Sink
	logger log.Logger

	cpSem  *semaphore.Weighted
	cpHeld atomic.Bool

	// awaitingResponse is true between a RequestAttrs/AppAttrRequest
	// dispatch and the Data Source response that completes it. It is
	// always false around PerformAction, which has no response.
	awaitingResponse atomic.Bool

	nsEnabled atomic.Bool
	dsEnabled atomic.Bool
}

// New constructs a Client bound to link, with tables sized by cfg. Init
// must still be called before the session is used.
func New(cfg config.Config, link transport.Link) *Client {
	cfg = config.Normalize(cfg)
	return &Client{
		cfg:        cfg,
		link:       link,
		notifTable: wire.NewNotifAttributeTable(),
		appTable:   wire.NewAppAttributeTable(),
		encoder:    wire.NewEncoder(cfg.CPBufferSize),
		parser:     wire.NewParser(),
		sink:       event.SinkFunc(func(event.Event) {}),
		logger:     log.NoopLogger{},
		cpSem:      semaphore.NewWeighted(1),
	}
}

// Init zeroes the session's subscription tables, records the event sink,
// and assigns a fresh connection id for logging (§4.D init). It must be
// called once per connection before AttrAdd or any dispatch.
func (c *Client) Init(sink event.Sink) {
	c.notifTable = wire.NewNotifAttributeTable()
	c.appTable = wire.NewAppAttributeTable()
	c.parser.Reset()
	c.cpHeld.Store(false)
	c.awaitingResponse.Store(false)
	c.nsEnabled.Store(false)
	c.dsEnabled.Store(false)
	c.connID = uuid.New()
	if sink != nil {
		c.sink = sink
	}
}

// SetLink rebinds the session to a new transport link, replacing the one
// passed to New. A caller reconnecting after a dropped BLE central link
// calls SetLink with the freshly dialed link, then HandlesAssign and
// Init again before resuming dispatch, since the new link carries new
// characteristic handles.
func (c *Client) SetLink(link transport.Link) {
	c.link = link
}

// SetLogger installs a protocol logger; pass nil to disable. Logging is
// orthogonal to the event sink and never affects dispatch outcomes.
func (c *Client) SetLogger(logger log.Logger) {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	c.logger = logger
}

// ConnectionID returns the session's log correlation id, assigned by Init.
func (c *Client) ConnectionID() uuid.UUID { return c.connID }

// AttrAdd registers id in the requested attribute table for kind
// (§4.D attr_add). buf must be 1..32 bytes and is the storage the parser
// writes into once the matching response arrives.
func (c *Client) AttrAdd(kind wire.CommandID, id uint8, buf []byte) error {
	switch kind {
	case wire.CommandGetNotificationAttributes:
		return c.notifTable.Add(id, buf)
	case wire.CommandGetAppAttributes:
		return c.appTable.Add(id, buf)
	default:
		return fmt.Errorf("%w: attr_add kind must be GetNotificationAttributes or GetAppAttributes", wire.ErrInvalid)
	}
}

// HandlesAssign extracts the Control Point, Notification Source, and Data
// Source handles (plus their CCCDs) from a completed discovery (§4.D
// handles_assign).
func (c *Client) HandlesAssign(d transport.Discovery) error {
	if d.ServiceUUID() != wire.ServiceUUID {
		return fmt.Errorf("%w: service uuid %s", wire.ErrNotSupported, d.ServiceUUID())
	}

	cp, ok := d.Characteristic(wire.ControlPointUUID)
	if !ok {
		return fmt.Errorf("%w: control point characteristic not found", wire.ErrInvalid)
	}
	ns, ok := d.Characteristic(wire.NotificationSourceUUID)
	if !ok {
		return fmt.Errorf("%w: notification source characteristic not found", wire.ErrInvalid)
	}
	nsCCCD, ok := d.Descriptor(wire.NotificationSourceUUID)
	if !ok {
		return fmt.Errorf("%w: notification source CCCD not found", wire.ErrInvalid)
	}
	ds, ok := d.Characteristic(wire.DataSourceUUID)
	if !ok {
		return fmt.Errorf("%w: data source characteristic not found", wire.ErrInvalid)
	}
	dsCCCD, ok := d.Descriptor(wire.DataSourceUUID)
	if !ok {
		return fmt.Errorf("%w: data source CCCD not found", wire.ErrInvalid)
	}

	c.handles = transport.Handles{
		ControlPoint:           cp,
		NotificationSource:     ns,
		NotificationSourceCCCD: nsCCCD,
		DataSource:             ds,
		DataSourceCCCD:         dsCCCD,
	}
	return nil
}

// EnableNotificationSource subscribes to the Notification Source
// characteristic. A second call returns ErrAlreadyDone (§4.D ns_enable).
func (c *Client) EnableNotificationSource() error {
	if !c.nsEnabled.CompareAndSwap(false, true) {
		return wire.ErrAlreadyDone
	}
	if err := c.link.Subscribe(c.handles.NotificationSource, true, c.OnNotificationSourceRecord); err != nil {
		c.nsEnabled.Store(false)
		return err
	}
	return nil
}

// DisableNotificationSource unsubscribes from the Notification Source
// characteristic. A disable on a never-enabled channel returns
// ErrNotEnabled (§4.D ns_disable).
func (c *Client) DisableNotificationSource() error {
	if !c.nsEnabled.CompareAndSwap(true, false) {
		return wire.ErrNotEnabled
	}
	return c.link.Subscribe(c.handles.NotificationSource, false, nil)
}

// EnableDataSource subscribes to the Data Source characteristic (§4.D
// ds_enable).
func (c *Client) EnableDataSource() error {
	if !c.dsEnabled.CompareAndSwap(false, true) {
		return wire.ErrAlreadyDone
	}
	if err := c.link.Subscribe(c.handles.DataSource, true, c.OnDataSourceRecord); err != nil {
		c.dsEnabled.Store(false)
		return err
	}
	return nil
}

// DisableDataSource unsubscribes from the Data Source characteristic
// (§4.D ds_disable).
func (c *Client) DisableDataSource() error {
	if !c.dsEnabled.CompareAndSwap(true, false) {
		return wire.ErrNotEnabled
	}
	return c.link.Subscribe(c.handles.DataSource, false, nil)
}

// acquireCP acquires the Control Point mutex with the caller's timeout
// (§5 "Suspension points"). timeout == 0 means "no wait" (a single
// non-blocking attempt); a negative timeout means "forever".
func (c *Client) acquireCP(timeout time.Duration) error {
	if timeout == 0 {
		if !c.cpSem.TryAcquire(1) {
			return wire.ErrBusy
		}
		c.cpHeld.Store(true)
		return nil
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := c.cpSem.Acquire(ctx, 1); err != nil {
		return wire.ErrBusy
	}
	c.cpHeld.Store(true)
	return nil
}

// releaseCP releases the Control Point mutex if held. It is safe to call
// more than once.
func (c *Client) releaseCP() {
	if c.cpHeld.CompareAndSwap(true, false) {
		c.cpSem.Release(1)
	}
}

// RequestAttrs dispatches GetNotificationAttributes for uid, requesting
// every attribute previously registered via AttrAdd (§4.D request_attrs).
func (c *Client) RequestAttrs(uid uint32, timeout time.Duration) error {
	if err := c.acquireCP(timeout); err != nil {
		return err
	}

	cmd, err := c.encoder.GetNotifAttrs(uid, c.notifTable)
	if err != nil {
		c.releaseCP()
		return err
	}

	c.parser.Arm(wire.CommandGetNotificationAttributes, c.notifTable)
	c.awaitingResponse.Store(true)
	return c.dispatch(cmd)
}

// AppAttrRequest dispatches GetAppAttributes for appID, requesting every
// app attribute previously registered via AttrAdd (§4.D
// app_attr_request).
func (c *Client) AppAttrRequest(appID string, timeout time.Duration) error {
	if err := c.acquireCP(timeout); err != nil {
		return err
	}

	cmd, err := c.encoder.GetAppAttrs(appID, c.appTable)
	if err != nil {
		c.releaseCP()
		return err
	}

	c.parser.Arm(wire.CommandGetAppAttributes, c.appTable)
	c.awaitingResponse.Store(true)
	return c.dispatch(cmd)
}

// PerformAction dispatches PerformNotificationAction for uid (§4.D
// perform_action). The Data Source parser is not armed: this command has
// no Data Source response.
func (c *Client) PerformAction(uid uint32, action wire.ActionID, timeout time.Duration) error {
	if err := c.acquireCP(timeout); err != nil {
		return err
	}

	cmd, err := c.encoder.PerformNotifAction(uid, action)
	if err != nil {
		c.releaseCP()
		return err
	}
	return c.dispatch(cmd)
}

// dispatch writes cmd to the Control Point and wires the write's
// completion to surface provider errors and release the mutex.
func (c *Client) dispatch(cmd []byte) error {
	err := c.link.Write(c.handles.ControlPoint, cmd, c.onCPWriteComplete)
	if err != nil {
		c.releaseCP()
		return err
	}
	return nil
}

// onCPWriteComplete runs when the provider's write-response arrives
// (§6, §7). A transport-layer failure or a non-zero provider status both
// release the mutex; success leaves the mutex held until the Data Source
// response (if any) finishes, which is a caller-visible difference from a
// strict "mutex covers only the write" model only in that a command with
// no Data Source response (PerformAction) releases here on success too.
func (c *Client) onCPWriteComplete(status uint8, err error) {
	if err != nil {
		c.awaitingResponse.Store(false)
		c.releaseCP()
		c.sink.HandleEvent(event.Event{Kind: event.KindNpError, Err: err})
		c.logger.Log(log.Event{
			ConnectionID: c.connID.String(),
			Direction:    log.DirectionIn,
			Layer:        log.LayerTransport,
			Category:     log.CategoryError,
			Channel:      log.ChannelCP,
			Error:        &log.ErrorEventData{Layer: log.LayerTransport, Message: err.Error()},
		})
		return
	}

	if status != 0 {
		ps := wire.ProviderStatus(status)
		c.awaitingResponse.Store(false)
		c.sink.HandleEvent(event.Event{Kind: event.KindNpError, ProviderStatus: ps})
		c.logger.Log(log.Event{
			ConnectionID: c.connID.String(),
			Direction:    log.DirectionIn,
			Layer:        log.LayerSession,
			Category:     log.CategoryCommand,
			Channel:      log.ChannelCP,
			Command:      &log.CommandEvent{Status: &status},
		})
		c.releaseCP()
		return
	}

	if !c.awaitingResponse.Load() {
		// PerformAction has no Data Source response; release here.
		c.releaseCP()
	}
}

// OnNotificationSourceRecord routes one Notification Source record into
// the NS decoder and emits exactly one Notif or InvalidNotif event
// (§4.A, §9 double-emission resolution).
func (c *Client) OnNotificationSourceRecord(record []byte) {
	summary, ok := wire.DecodeSummary(record)
	kind := event.KindNotif
	if !ok {
		kind = event.KindInvalidNotif
	}
	c.sink.HandleEvent(event.Event{Kind: kind, Summary: summary})
	c.logger.Log(log.Event{
		ConnectionID: c.connID.String(),
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryNotification,
		Channel:      log.ChannelNS,
		Notification: &log.NotificationEvent{
			Valid:           ok,
			EventID:         uint8(summary.EventID),
			Flags:           uint8(summary.Flags),
			CategoryID:      uint8(summary.CategoryID),
			CategoryCount:   summary.CategoryCount,
			NotificationUID: summary.NotificationUID,
		},
	})
}

// OnDataSourceRecord routes one Data Source record into the parser and
// emits one event per attribute the record completes, then releases the
// Control Point mutex once the response is fully consumed (§4.B, §5).
func (c *Client) OnDataSourceRecord(record []byte) {
	results := c.parser.Feed(record)
	for _, r := range results {
		c.emitAttribute(r)
	}
	if c.parser.Done() {
		c.awaitingResponse.Store(false)
		c.releaseCP()
	}
}

func (c *Client) emitAttribute(r wire.AttributeResult) {
	kind := event.KindNotifAttribute
	channel := log.ChannelDS
	if r.Kind == wire.ResponseAppAttrs {
		kind = event.KindAppAttribute
	}
	c.sink.HandleEvent(event.Event{
		Kind:        kind,
		NotifUID:    r.NotifUID,
		AppID:       r.AppID,
		AttributeID: r.AttributeID,
		Data:        r.Data,
	})
	c.logger.Log(log.Event{
		ConnectionID: c.connID.String(),
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryAttribute,
		Channel:      channel,
		Attribute: &log.AttributeEvent{
			App:         r.Kind == wire.ResponseAppAttrs,
			NotifUID:    r.NotifUID,
			AppID:       r.AppID,
			AttributeID: r.AttributeID,
			DataLen:     len(r.Data),
		},
	})
}

// OnDisconnected clears subscription bits, force-releases the Control
// Point mutex, and resets the parser (§4.D on_disconnected, §5
// "Cancellation"): a command in flight at disconnect time is abandoned.
func (c *Client) OnDisconnected() {
	c.nsEnabled.Store(false)
	c.dsEnabled.Store(false)
	c.awaitingResponse.Store(false)
	c.releaseCP()
	c.parser.Reset()
}
