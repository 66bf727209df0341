// Command ancs-provider-sim demonstrates a simulated Apple Notification
// Center Service provider paired with a real session.Client, driving it
// through a scripted sequence of notifications entirely in-process.
//
// This example shows how to:
//   - Wire session.Client against an in-memory transport.Link/Discovery
//     pair (pkg/transport/simgatt) instead of a real BLE peripheral
//   - Deliver Notification Source records and respond to Control Point
//     commands with Data Source records
//   - Observe the resulting event stream
//
// Usage:
//
//	go run ./cmd/ancs-provider-sim
//
// The simulated provider will:
//  1. Accept the consumer's Notification Source and Data Source subscriptions
//  2. Push a scripted sequence of notifications on a timer
//  3. Answer GetNotificationAttributes requests the consumer issues in response
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ancs-go/ancs/pkg/config"
	"github.com/ancs-go/ancs/pkg/event"
	"github.com/ancs-go/ancs/pkg/session"
	"github.com/ancs-go/ancs/pkg/transport/simgatt"
	"github.com/ancs-go/ancs/pkg/wire"
)

func main() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	log.Println("ANCS Provider Simulator")
	log.Println("=======================")

	provider := simgatt.NewProvider()

	client := session.New(config.DefaultConfig(), provider.Link())
	client.Init(event.SinkFunc(handleEvent))

	if err := client.HandlesAssign(provider.Discovery()); err != nil {
		log.Fatalf("Failed to assign handles: %v", err)
	}
	if err := client.EnableNotificationSource(); err != nil {
		log.Fatalf("Failed to enable notification source: %v", err)
	}
	if err := client.EnableDataSource(); err != nil {
		log.Fatalf("Failed to enable data source: %v", err)
	}

	if err := client.AttrAdd(wire.CommandGetNotificationAttributes, uint8(wire.NotifAttrTitle), make([]byte, 32)); err != nil {
		log.Fatalf("Failed to register title attribute: %v", err)
	}
	if err := client.AttrAdd(wire.CommandGetNotificationAttributes, uint8(wire.NotifAttrMessage), make([]byte, 32)); err != nil {
		log.Fatalf("Failed to register message attribute: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runSimulation(ctx, provider, client)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	cancel()
	client.OnDisconnected()
	log.Println("Goodbye!")
}

func handleEvent(e event.Event) {
	switch e.Kind {
	case event.KindNotif:
		log.Printf("notif uid=%d category=%s count=%d", e.Summary.NotificationUID, e.Summary.CategoryID, e.Summary.CategoryCount)
	case event.KindInvalidNotif:
		log.Println("invalid notification record")
	case event.KindNotifAttribute:
		log.Printf("attr uid=%d id=%d value=%q", e.NotifUID, e.AttributeID, e.Data)
	case event.KindAppAttribute:
		log.Printf("app attr app=%q id=%d value=%q", e.AppID, e.AttributeID, e.Data)
	case event.KindNpError:
		if e.Err != nil {
			log.Printf("transport error: %v", e.Err)
		} else {
			log.Printf("provider error: %s", e.ProviderStatus)
		}
	}
}

type scriptedNotification struct {
	uid     uint32
	title   string
	message string
}

var script = []scriptedNotification{
	{uid: 1, title: "Messages", message: "Running 5 minutes late"},
	{uid: 2, title: "Calendar", message: "Standup in 10 minutes"},
	{uid: 3, title: "Mail", message: "Invoice #4471 is overdue"},
}

// runSimulation pushes the scripted notifications on a timer, as if an
// iPhone were delivering them one at a time.
func runSimulation(ctx context.Context, provider *simgatt.Provider, client *session.Client) {
	log.Println("Starting notification simulation...")

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	index := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if index >= len(script) {
				index = 0
			}
			n := script[index]
			index++

			log.Printf("Pushing notification uid=%d %q", n.uid, n.title)
			provider.SendNotificationSource(encodeAdded(n.uid))

			if err := client.RequestAttrs(n.uid, time.Second); err != nil {
				log.Printf("Warning: request_attrs failed: %v", err)
				continue
			}
			// The real iPhone would answer asynchronously over the Data
			// Source characteristic; the simulated provider answers
			// immediately with the scripted title and message.
			provider.SendDataSource(encodeDataSourceResponse(n))
		}
	}
}

// encodeAdded builds a minimal "notification added" Notification Source
// record: EventID=Added, Flags=PositiveAction|NegativeAction, CategoryID=Email.
func encodeAdded(uid uint32) []byte {
	return []byte{
		0x00,
		0x18,
		0x06,
		0x01,
		byte(uid), byte(uid >> 8), byte(uid >> 16), byte(uid >> 24),
	}
}

// encodeDataSourceResponse builds the GetNotificationAttributes Data
// Source response for n: CommandID, NotifUID, then Title and Message as
// length-delimited attribute records.
func encodeDataSourceResponse(n scriptedNotification) []byte {
	buf := []byte{byte(wire.CommandGetNotificationAttributes)}
	buf = appendUint32LE(buf, n.uid)
	buf = appendAttribute(buf, wire.NotifAttrTitle, []byte(n.title))
	buf = appendAttribute(buf, wire.NotifAttrMessage, []byte(n.message))
	return buf
}

func appendUint32LE(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendAttribute(buf []byte, id wire.NotifAttributeID, data []byte) []byte {
	buf = append(buf, byte(id), byte(len(data)), byte(len(data)>>8))
	return append(buf, data...)
}
