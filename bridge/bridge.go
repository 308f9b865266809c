package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-ring/ring"
	"github.com/gorilla/websocket"
)

// ErrNoTarget is reported to clients that send requests before a controller is attached.
var ErrNoTarget = errors.New("bridge: no controller attached")

// Target is the part of ring.Controller the bridge drives.
type Target interface {
	// Update applies a new configuration snapshot.
	//
	// Parameters:
	//   - cfg: the configuration
	Update(cfg ring.Config)

	// Config returns the applied configuration.
	//
	// Returns:
	//   - ring.Config: the configuration
	Config() ring.Config

	// State returns a runtime snapshot.
	//
	// Returns:
	//   - ring.State: the snapshot
	State() ring.State
}

// Bridge connects remote hosts to a ring over websockets. Hosts send configuration patches and
// state queries; the bridge pushes every overlay change to all connected hosts.
type Bridge interface {
	http.Handler

	// Attach sets the controller that requests are applied to.
	//
	// Parameters:
	//   - t: the controller
	Attach(t Target)

	// PublishOverlay sends an overlay state to every client and remembers it for clients that
	// connect later. Its signature matches ring.WithOnOverlay.
	//
	// Parameters:
	//   - st: the overlay state
	PublishOverlay(st ring.OverlayState)

	// Clients returns the number of connected hosts.
	//
	// Returns:
	//   - int: the client count
	Clients() int

	// Close disconnects every client and refuses new ones. Safe to call more than once.
	//
	// Returns:
	//   - error: the first error from closing a connection
	Close() error
}

// client serializes writes to one connection; gorilla connections allow one concurrent writer.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(data []byte, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if timeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(timeout))
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

type bridge struct {
	mu           *sync.Mutex
	upgrader     websocket.Upgrader
	target       Target
	clients      map[*client]struct{}
	overlay      []byte
	closed       bool
	writeTimeout time.Duration
	pingInterval time.Duration
	readLimit    int64
}

var _ Bridge = &bridge{}

// New creates a bridge. Mount it on an HTTP server and attach a controller.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Bridge: the bridge
func New(options ...BridgeBuilderOption) Bridge {
	b := &bridge{
		mu: &sync.Mutex{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		clients:      make(map[*client]struct{}),
		writeTimeout: 5 * time.Second,
		pingInterval: 30 * time.Second,
		readLimit:    1 << 20,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *bridge) Attach(t Target) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.target = t
}

func (b *bridge) PublishOverlay(st ring.OverlayState) {
	data, err := encode(TypeOverlay, overlayMessage(st))
	if err != nil {
		log.Printf("[bridge] encode overlay: %v", err)
		return
	}
	b.mu.Lock()
	b.overlay = data
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.Unlock()

	for _, c := range clients {
		if err := c.write(data, b.writeTimeout); err != nil {
			log.Printf("[bridge] dropping client %s: %v", c.conn.RemoteAddr(), err)
			b.drop(c)
		}
	}
}

func (b *bridge) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

func (b *bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	clients := b.clients
	b.clients = make(map[*client]struct{})
	b.mu.Unlock()

	var first error
	for c := range clients {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "bridge closed")
		c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		if err := c.conn.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (b *bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		http.Error(w, "bridge closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[bridge] upgrade failed: %v", err)
		return
	}
	conn.SetReadLimit(b.readLimit)
	c := &client{conn: conn}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		conn.Close()
		return
	}
	b.clients[c] = struct{}{}
	overlay := b.overlay
	b.mu.Unlock()
	log.Printf("[bridge] client %s connected", conn.RemoteAddr())

	if overlay != nil {
		if err := c.write(overlay, b.writeTimeout); err != nil {
			b.drop(c)
			return
		}
	}

	stop := make(chan struct{})
	if b.pingInterval > 0 {
		go b.ping(c, stop)
	}
	b.read(c)
	close(stop)
	b.drop(c)
	log.Printf("[bridge] client %s disconnected", conn.RemoteAddr())
}

// read handles requests until the connection fails or closes.
func (b *bridge) read(c *client) {
	for {
		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				var syntaxErr *json.SyntaxError
				if errors.As(err, &syntaxErr) {
					b.reply(c, TypeError, ErrorMessage{Message: "malformed message"})
					continue
				}
			}
			return
		}
		b.handle(c, env)
	}
}

func (b *bridge) handle(c *client, env Envelope) {
	b.mu.Lock()
	target := b.target
	b.mu.Unlock()

	switch env.Type {
	case TypePing:
		b.reply(c, TypePong, nil)
	case TypeState:
		if target == nil {
			b.reply(c, TypeError, ErrorMessage{Message: ErrNoTarget.Error()})
			return
		}
		b.reply(c, TypeState, stateMessage(target.State()))
	case TypeConfig:
		if target == nil {
			b.reply(c, TypeError, ErrorMessage{Message: ErrNoTarget.Error()})
			return
		}
		cfg := target.Config()
		if err := json.Unmarshal(env.Data, &cfg); err != nil {
			b.reply(c, TypeError, ErrorMessage{Message: fmt.Sprintf("invalid config: %v", err)})
			return
		}
		target.Update(cfg)
		b.reply(c, TypeState, stateMessage(target.State()))
	default:
		b.reply(c, TypeError, ErrorMessage{Message: fmt.Sprintf("unknown message type %q", env.Type)})
	}
}

func (b *bridge) reply(c *client, kind string, data any) {
	msg, err := encode(kind, data)
	if err != nil {
		log.Printf("[bridge] encode %s: %v", kind, err)
		return
	}
	if err := c.write(msg, b.writeTimeout); err != nil {
		log.Printf("[bridge] reply to %s failed: %v", c.conn.RemoteAddr(), err)
	}
}

func (b *bridge) ping(c *client, stop <-chan struct{}) {
	ticker := time.NewTicker(b.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(b.writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (b *bridge) drop(c *client) {
	b.mu.Lock()
	_, ok := b.clients[c]
	delete(b.clients, c)
	b.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}
