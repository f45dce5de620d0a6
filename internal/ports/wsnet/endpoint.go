// Package wsnet implements the ports transport interfaces over websockets:
// a peer Endpoint accepting and dialing peer connections, plus the
// rendezvous directory server and its client.
package wsnet

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JayBlankenship/WaterWorld5/internal/domain"
	"github.com/JayBlankenship/WaterWorld5/internal/logging"
	"github.com/JayBlankenship/WaterWorld5/internal/ports"
)

// peerPath is where a peer endpoint accepts inbound peer websockets.
const peerPath = "/peer"

const (
	dialTimeout = 10 * time.Second
	writeWait   = 10 * time.Second
)

// Liveness: every connection is pinged periodically and must show traffic
// (a pong counts) within pongWait, or its read pump fails and the session
// sees a close event. This is what surfaces silently dead peers, where the
// TCP connection never errors. Vars, not consts, so tests can shrink them.
var (
	pongWait   = 30 * time.Second
	pingPeriod = 10 * time.Second
)

// Endpoint is a peer's websocket presence. Inbound and dialed connections
// both feed the single events channel, so the session stays one event loop.
type Endpoint struct {
	advertise string
	listener  net.Listener
	server    *http.Server
	upgrader  websocket.Upgrader
	log       logging.Logger

	events chan ports.ConnEvent

	mu     sync.Mutex
	closed bool
}

// NewEndpoint listens on listenAddr and advertises advertiseAddr to other
// peers. An empty advertiseAddr falls back to the bound listener address,
// which covers the listenAddr ":0" case in tests.
func NewEndpoint(listenAddr, advertiseAddr string, log logging.Logger) (*Endpoint, error) {
	if log == nil {
		log = logging.Nop{}
	}
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", listenAddr, err)
	}
	if advertiseAddr == "" {
		advertiseAddr = listener.Addr().String()
	}

	e := &Endpoint{
		advertise: advertiseAddr,
		listener:  listener,
		log:       log,
		events:    make(chan ports.ConnEvent, 256),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(peerPath, e.accept)
	e.server = &http.Server{Handler: mux}
	go func() {
		if err := e.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("peer endpoint serve: %v", err)
		}
	}()

	log.Info("peer endpoint listening on %s (advertising %s)", listener.Addr(), advertiseAddr)
	return e, nil
}

// Addr returns the address other peers dial.
func (e *Endpoint) Addr() string { return e.advertise }

// Events delivers inbound envelopes and connection closes.
func (e *Endpoint) Events() <-chan ports.ConnEvent { return e.events }

func (e *Endpoint) accept(w http.ResponseWriter, r *http.Request) {
	ws, err := e.upgrader.Upgrade(w, r, nil)
	if err != nil {
		e.log.Warn("upgrade peer connection from %s: %v", r.RemoteAddr, err)
		return
	}
	conn := newWSConn(ws)
	go conn.readPump(e)
}

// Dial opens a websocket to a remote peer endpoint.
func (e *Endpoint) Dial(addr string) (ports.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	ws, _, err := dialer.Dial("ws://"+addr+peerPath, nil)
	if err != nil {
		return nil, fmt.Errorf("dial peer %s: %w", addr, err)
	}
	conn := newWSConn(ws)
	go conn.readPump(e)
	return conn, nil
}

// Close shuts the endpoint down. Open connections die with the server and
// surface as close events until the events channel is abandoned.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()
	return e.server.Close()
}

// deliver is best-effort: if the consumer abandoned the events channel, the
// endpoint must not wedge its read pumps.
func (e *Endpoint) deliver(ev ports.ConnEvent) {
	select {
	case e.events <- ev:
	default:
		e.log.Warn("dropping endpoint event: consumer lagging")
	}
}

// wsConn adapts one websocket to ports.Conn. Reads happen only on its pump
// goroutine; writes serialize on writeMu.
type wsConn struct {
	ws       *websocket.Conn
	writeMu  sync.Mutex
	once     sync.Once
	done     chan struct{}
	pongWait time.Duration
	pingEach time.Duration
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{
		ws:       ws,
		done:     make(chan struct{}),
		pongWait: pongWait,
		pingEach: pingPeriod,
	}
}

func (c *wsConn) Send(env domain.Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(env)
}

func (c *wsConn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

// readPump drains the websocket into the endpoint's event channel, ending
// with a close event. A peer must show traffic within pongWait (pongs to our
// pings count), or the deadline fails the read and the connection dies.
func (c *wsConn) readPump(e *Endpoint) {
	defer func() {
		_ = c.Close()
		e.deliver(ports.ConnEvent{Conn: c})
	}()

	_ = c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	})
	go c.pingLoop()

	for {
		var env domain.Envelope
		if err := c.ws.ReadJSON(&env); err != nil {
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
		e.deliver(ports.ConnEvent{Conn: c, Env: &env})
	}
}

func (c *wsConn) pingLoop() {
	ticker := time.NewTicker(c.pingEach)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				_ = c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
