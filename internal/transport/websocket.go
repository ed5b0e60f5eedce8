package transport

import (
	"errors"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrUnknownClient is returned by Send for a handle that is not (or no
// longer) connected.
var ErrUnknownClient = errors.New("transport: unknown client")

// sendBuffer is the per-client outbound queue. At 60 state frames per
// second a full buffer means the client has stalled for about a second.
const sendBuffer = 64

// WSTransport serves the socket protocol over WebSocket text frames.
type WSTransport struct {
	upgrader websocket.Upgrader
	listener net.Listener
	server   *http.Server

	mu      sync.RWMutex
	clients map[string]*wsClient

	handlers struct {
		message    MessageHandler
		connect    ConnectHandler
		disconnect DisconnectHandler
	}
}

type wsClient struct {
	id     string
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
	once   sync.Once
}

func (c *wsClient) shutdown() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// NewWSTransport creates a WebSocket transport.
func NewWSTransport() *WSTransport {
	return &WSTransport{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[string]*wsClient),
	}
}

// Listen binds the address and serves connections on /ws (and on / for
// clients that dial the bare address). Only a bind failure is fatal.
func (t *WSTransport) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	t.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", t.serveWS)
	mux.HandleFunc("/", t.serveWS)
	t.server = &http.Server{Handler: mux}

	go func() {
		if err := t.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("❌ WebSocket server: %v", err)
		}
	}()
	return nil
}

// Close shuts down the listener and every client.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	for id, c := range t.clients {
		c.shutdown()
		delete(t.clients, id)
	}
	t.mu.Unlock()

	if t.server != nil {
		return t.server.Close()
	}
	return nil
}

// Send queues data for one client. A full queue drops the client.
func (t *WSTransport) Send(id string, data []byte) error {
	t.mu.RLock()
	c, ok := t.clients[id]
	t.mu.RUnlock()
	if !ok {
		return ErrUnknownClient
	}
	t.enqueue(c, data)
	return nil
}

// Broadcast queues data for every client. Clients that cannot keep up
// are dropped; the rest are unaffected.
func (t *WSTransport) Broadcast(data []byte) {
	t.mu.RLock()
	targets := make([]*wsClient, 0, len(t.clients))
	for _, c := range t.clients {
		targets = append(targets, c)
	}
	t.mu.RUnlock()

	for _, c := range targets {
		t.enqueue(c, data)
	}
}

// OnMessage registers a handler.
func (t *WSTransport) OnMessage(handler MessageHandler) {
	t.handlers.message = handler
}

// OnConnect registers a handler.
func (t *WSTransport) OnConnect(handler ConnectHandler) {
	t.handlers.connect = handler
}

// OnDisconnect registers a handler.
func (t *WSTransport) OnDisconnect(handler DisconnectHandler) {
	t.handlers.disconnect = handler
}

// Addr returns the bound address, or nil before Listen.
func (t *WSTransport) Addr() net.Addr {
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

// ClientCount returns the number of connected clients.
func (t *WSTransport) ClientCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.clients)
}

func (t *WSTransport) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &wsClient{
		id:     uuid.New().String()[:8],
		conn:   conn,
		sendCh: make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}

	t.mu.Lock()
	t.clients[c.id] = c
	t.mu.Unlock()

	go c.writePump()

	if t.handlers.connect != nil {
		t.handlers.connect(c.id)
	}
	log.Printf("✅ Client connected: %s (%s)", c.id, conn.RemoteAddr())

	t.readPump(c)
}

// readPump feeds inbound frames to the message handler until the
// connection dies, then tears the client down.
func (t *WSTransport) readPump(c *wsClient) {
	defer t.drop(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if t.handlers.message != nil {
			t.handlers.message(c.id, data)
		}
	}
}

// writePump drains the client's queue onto the socket.
func (c *wsClient) writePump() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.sendCh:
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.conn.Close()
				return
			}
		}
	}
}

func (t *WSTransport) enqueue(c *wsClient, data []byte) {
	select {
	case <-c.done:
	case c.sendCh <- data:
	default:
		t.drop(c)
	}
}

// drop removes a client and fires the disconnect handler exactly once,
// whichever path (read error, stalled queue, Close) gets there first.
func (t *WSTransport) drop(c *wsClient) {
	t.mu.Lock()
	_, present := t.clients[c.id]
	delete(t.clients, c.id)
	t.mu.Unlock()

	c.shutdown()

	if present {
		if t.handlers.disconnect != nil {
			t.handlers.disconnect(c.id)
		}
		log.Printf("❎ Client disconnected: %s", c.id)
	}
}
