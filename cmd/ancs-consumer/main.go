// Command ancs-consumer is a demo ANCS Notification Consumer. It connects
// to a notification provider (a real BLE peripheral via go-ble/ble, or an
// in-process simulated one for offline demos), subscribes to
// notifications, and drives an interactive command loop for requesting
// attributes and performing actions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/chzyer/readline"

	"github.com/ancs-go/ancs/pkg/config"
	"github.com/ancs-go/ancs/pkg/event"
	logpkg "github.com/ancs-go/ancs/pkg/log"
	"github.com/ancs-go/ancs/pkg/persistence"
	"github.com/ancs-go/ancs/pkg/reconnect"
	"github.com/ancs-go/ancs/pkg/session"
	"github.com/ancs-go/ancs/pkg/transport"
	"github.com/ancs-go/ancs/pkg/transport/blegatt"
	"github.com/ancs-go/ancs/pkg/transport/simgatt"
	"github.com/ancs-go/ancs/pkg/version"
	"github.com/ancs-go/ancs/pkg/wire"
)

type cliConfig struct {
	Address  string
	Demo     bool
	LogLevel string
	LogFile  string
	StateDir string
	Reset    bool
	Version  bool
}

func main() {
	var cfg cliConfig
	flag.StringVar(&cfg.Address, "address", "", "BLE address of the notification provider (required unless -demo)")
	flag.BoolVar(&cfg.Demo, "demo", false, "Run against an in-process simulated provider instead of a real BLE link")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error (accepted but not applied; all output uses the standard logger)")
	flag.StringVar(&cfg.LogFile, "log-file", "", "Protocol log output file (.alog); empty disables file logging")
	flag.StringVar(&cfg.StateDir, "state-dir", "", "Directory for persistent consumer state")
	flag.BoolVar(&cfg.Reset, "reset", false, "Clear persisted state before starting")
	flag.BoolVar(&cfg.Version, "version", false, "Print the consumer library version and exit")
	flag.Parse()

	if cfg.Version {
		fmt.Println("ancs-consumer", version.Current)
		return
	}

	if !cfg.Demo && cfg.Address == "" {
		fmt.Fprintln(os.Stderr, "either -address or -demo is required")
		os.Exit(2)
	}

	setupLogging(cfg.LogLevel)
	log.Printf("ancs-consumer %s starting", version.Current)

	var store *persistence.ConsumerStateStore
	if cfg.StateDir != "" {
		store = persistence.NewConsumerStateStore(cfg.StateDir + "/consumer-state.json")
		if cfg.Reset {
			if err := store.Clear(); err != nil {
				log.Printf("Warning: failed to clear state: %v", err)
			}
		}
	}

	rl, err := readline.New("ancs> ")
	if err != nil {
		log.Fatalf("Failed to start readline: %v", err)
	}
	defer rl.Close()
	log.SetOutput(rl.Stderr())

	repl := newREPL(rl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := session.New(config.DefaultConfig(), nil)
	client.SetLogger(buildLogger(cfg.LogFile))
	repl.client = client

	var linkMu sync.Mutex
	var currentLink transport.Link

	// connectFn dials (or, in -demo mode, spins up the in-process
	// provider), rebinds the session onto the new link, and re-runs the
	// handshake (§4.D handles_assign/ns_enable/ds_enable). reconnect.Manager
	// calls this both for the initial connection and for every automatic
	// reconnect attempt after the link drops.
	connectFn := func(ctx context.Context) error {
		link, disc, provider, err := connect(ctx, cfg)
		if err != nil {
			return err
		}

		linkMu.Lock()
		currentLink = link
		linkMu.Unlock()
		repl.provider = provider

		client.SetLink(link)
		client.Init(event.SinkFunc(repl.handleEvent))
		if err := client.HandlesAssign(disc); err != nil {
			return fmt.Errorf("assign handles: %w", err)
		}
		if err := client.EnableNotificationSource(); err != nil {
			return fmt.Errorf("enable notification source: %w", err)
		}
		if err := client.EnableDataSource(); err != nil {
			return fmt.Errorf("enable data source: %w", err)
		}
		return nil
	}

	mgr := reconnect.NewManager(connectFn)
	mgr.OnConnected(func() {
		log.Println("Connected.")
		linkMu.Lock()
		link := currentLink
		linkMu.Unlock()
		go monitorDisconnect(ctx, link, mgr)
	})
	mgr.OnDisconnected(func() {
		log.Println("Link dropped.")
		client.OnDisconnected()
	})
	mgr.OnReconnecting(func(attempt int, delay time.Duration) {
		log.Printf("Reconnecting (attempt %d, next try in %s)...", attempt, delay)
	})
	mgr.StartReconnectLoop()

	if err := mgr.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}

	if store != nil {
		if saved, err := store.Load(); err == nil && saved != nil {
			log.Printf("Loaded state: last bonded %s", saved.LastBondedAddress)
		}
	}

	repl.printHelp()
	go repl.run(ctx, cancel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")

	if store != nil {
		if err := store.Save(&persistence.ConsumerState{LastBondedAddress: cfg.Address}); err != nil {
			log.Printf("Warning: failed to save state: %v", err)
		}
	}

	cancel()
	mgr.Close()
	linkMu.Lock()
	link := currentLink
	linkMu.Unlock()
	if link != nil {
		_ = link.Close()
	}
	log.Println("Goodbye!")
}

// monitorDisconnect watches link for an out-of-band BLE disconnect (one
// the consumer didn't request) and tells mgr to start reconnecting. Only
// blegatt.Link exposes a Disconnected channel; other Link implementations
// (simgatt, in -demo mode) are never observed to drop on their own, so
// the type assertion simply never fires for them.
func monitorDisconnect(ctx context.Context, link transport.Link, mgr *reconnect.Manager) {
	d, ok := link.(interface{ Disconnected() <-chan struct{} })
	if !ok {
		return
	}
	ch := d.Disconnected()
	if ch == nil {
		return
	}
	select {
	case <-ch:
		mgr.NotifyConnectionLost()
	case <-ctx.Done():
	}
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	_ = level // the teacher's log-level scaffolding; this demo only uses the default logger
}

// connect establishes either a real go-ble/ble link or a simulated one.
func connect(ctx context.Context, cfg cliConfig) (transport.Link, transport.Discovery, *simgatt.Provider, error) {
	if cfg.Demo {
		p := simgatt.NewProvider()
		return p.Link(), p.Discovery(), p, nil
	}
	link, disc, err := blegatt.Dial(ctx, cfg.Address)
	if err != nil {
		return nil, nil, nil, err
	}
	return link, disc, nil, nil
}

func buildLogger(path string) logpkg.Logger {
	if path == "" {
		return logpkg.NoopLogger{}
	}
	fl, err := logpkg.NewFileLogger(path)
	if err != nil {
		log.Printf("Warning: failed to open protocol log %s: %v", path, err)
		return logpkg.NoopLogger{}
	}
	return fl
}

// repl drives the interactive command loop.
type repl struct {
	rl       *readline.Instance
	client   *session.Client
	provider *simgatt.Provider // non-nil only in -demo mode
}

func newREPL(rl *readline.Instance) *repl {
	return &repl{rl: rl}
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.rl.Stdout(), `ANCS consumer commands:
  attrs <uid> <attr...>     request notification attributes by name (Title, Message, ...)
  appattrs <appid>          request app attributes (DisplayName) for appid
  action <uid> positive|negative
  demo-notify <uid>         (demo mode only) simulate an incoming notification
  help
  quit`)
}

func (r *repl) run(ctx context.Context, cancel context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			cancel()
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd := strings.ToLower(fields[0])
		args := fields[1:]

		switch cmd {
		case "help":
			r.printHelp()
		case "quit", "exit":
			cancel()
			return
		case "attrs":
			r.cmdAttrs(args)
		case "appattrs":
			r.cmdAppAttrs(args)
		case "action":
			r.cmdAction(args)
		case "demo-notify":
			r.cmdDemoNotify(args)
		default:
			fmt.Fprintf(r.rl.Stdout(), "unknown command %q\n", cmd)
		}
	}
}

var notifAttrByName = map[string]wire.NotifAttributeID{
	"appidentifier":       wire.NotifAttrAppIdentifier,
	"title":               wire.NotifAttrTitle,
	"subtitle":            wire.NotifAttrSubtitle,
	"message":             wire.NotifAttrMessage,
	"messagesize":         wire.NotifAttrMessageSize,
	"date":                wire.NotifAttrDate,
	"positiveactionlabel": wire.NotifAttrPositiveActionLabel,
	"negativeactionlabel": wire.NotifAttrNegativeActionLabel,
}

func (r *repl) cmdAttrs(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(r.rl.Stdout(), "usage: attrs <uid> <attr...>")
		return
	}
	uid, err := parseUID(args[0])
	if err != nil {
		fmt.Fprintln(r.rl.Stdout(), err)
		return
	}
	for _, name := range args[1:] {
		id, ok := notifAttrByName[strings.ToLower(name)]
		if !ok {
			fmt.Fprintf(r.rl.Stdout(), "unknown attribute %q\n", name)
			return
		}
		buf := make([]byte, config.DefaultMaxAttributeLen)
		if err := r.client.AttrAdd(wire.CommandGetNotificationAttributes, uint8(id), buf); err != nil {
			fmt.Fprintf(r.rl.Stdout(), "attr_add(%s): %v\n", name, err)
			return
		}
	}
	if err := r.client.RequestAttrs(uid, 5*time.Second); err != nil {
		fmt.Fprintf(r.rl.Stdout(), "request_attrs: %v\n", err)
	}
}

func (r *repl) cmdAppAttrs(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.rl.Stdout(), "usage: appattrs <appid>")
		return
	}
	buf := make([]byte, config.DefaultMaxAttributeLen)
	if err := r.client.AttrAdd(wire.CommandGetAppAttributes, uint8(wire.AppAttrDisplayName), buf); err != nil {
		fmt.Fprintf(r.rl.Stdout(), "attr_add: %v\n", err)
		return
	}
	if err := r.client.AppAttrRequest(args[0], 5*time.Second); err != nil {
		fmt.Fprintf(r.rl.Stdout(), "app_attr_request: %v\n", err)
	}
}

func (r *repl) cmdAction(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(r.rl.Stdout(), "usage: action <uid> positive|negative")
		return
	}
	uid, err := parseUID(args[0])
	if err != nil {
		fmt.Fprintln(r.rl.Stdout(), err)
		return
	}
	var action wire.ActionID
	switch strings.ToLower(args[1]) {
	case "positive":
		action = wire.ActionPositive
	case "negative":
		action = wire.ActionNegative
	default:
		fmt.Fprintln(r.rl.Stdout(), "action must be positive or negative")
		return
	}
	if err := r.client.PerformAction(uid, action, 5*time.Second); err != nil {
		fmt.Fprintf(r.rl.Stdout(), "perform_action: %v\n", err)
	}
}

func (r *repl) cmdDemoNotify(args []string) {
	if r.provider == nil {
		fmt.Fprintln(r.rl.Stdout(), "demo-notify is only available with -demo")
		return
	}
	if len(args) != 1 {
		fmt.Fprintln(r.rl.Stdout(), "usage: demo-notify <uid>")
		return
	}
	uid, err := parseUID(args[0])
	if err != nil {
		fmt.Fprintln(r.rl.Stdout(), err)
		return
	}
	record := []byte{
		0x00, // Added
		0x18, // positive+negative action flags
		0x06, // Email
		0x01,
		byte(uid), byte(uid >> 8), byte(uid >> 16), byte(uid >> 24),
	}
	r.provider.SendNotificationSource(record)
}

func (r *repl) handleEvent(e event.Event) {
	switch e.Kind {
	case event.KindNotif:
		fmt.Fprintf(r.rl.Stdout(), "notif uid=%d category=%s count=%d\n",
			e.Summary.NotificationUID, e.Summary.CategoryID, e.Summary.CategoryCount)
	case event.KindInvalidNotif:
		fmt.Fprintln(r.rl.Stdout(), "invalid notification record")
	case event.KindNotifAttribute:
		fmt.Fprintf(r.rl.Stdout(), "attr uid=%d id=%d value=%q\n", e.NotifUID, e.AttributeID, e.Data)
	case event.KindAppAttribute:
		fmt.Fprintf(r.rl.Stdout(), "app attr app=%q id=%d value=%q\n", e.AppID, e.AttributeID, e.Data)
	case event.KindNpError:
		if e.Err != nil {
			fmt.Fprintf(r.rl.Stdout(), "transport error: %v\n", e.Err)
		} else {
			fmt.Fprintf(r.rl.Stdout(), "provider error: %s\n", e.ProviderStatus)
		}
	}
}

func parseUID(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid uid %q: %w", s, err)
	}
	return uint32(v), nil
}
