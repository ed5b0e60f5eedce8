// Package transport provides the socket layer between clients and the
// server. The interface allows swapping WebSocket for a mock in tests
// without touching game logic.
package transport

// Transport is the interface for client communication. Clients are
// identified by opaque handles issued at accept time.
type Transport interface {
	// Listen starts accepting connections on the given address.
	Listen(addr string) error

	// Close shuts down the transport and every client.
	Close() error

	// Send delivers data to one client, best-effort.
	Send(id string, data []byte) error

	// Broadcast delivers data to every client, best-effort. A slow or
	// dead client is dropped rather than blocking the rest.
	Broadcast(data []byte)

	// OnMessage registers a handler for inbound frames.
	OnMessage(handler MessageHandler)

	// OnConnect registers a handler for new clients.
	OnConnect(handler ConnectHandler)

	// OnDisconnect registers a handler for departed clients.
	OnDisconnect(handler DisconnectHandler)
}

// MessageHandler is called with each inbound frame.
type MessageHandler func(id string, data []byte)

// ConnectHandler is called when a client is accepted.
type ConnectHandler func(id string)

// DisconnectHandler is called when a client goes away.
type DisconnectHandler func(id string)
