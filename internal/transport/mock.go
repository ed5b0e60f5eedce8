package transport

import "sync"

// MockTransport is an in-memory implementation for tests.
type MockTransport struct {
	mu        sync.Mutex
	addr      string
	connected map[string]bool
	sent      []MockFrame
	broadcast [][]byte

	handlers struct {
		message    MessageHandler
		connect    ConnectHandler
		disconnect DisconnectHandler
	}
}

// MockFrame records a frame sent to a specific client.
type MockFrame struct {
	ID   string
	Data []byte
}

// NewMockTransport creates an empty mock.
func NewMockTransport() *MockTransport {
	return &MockTransport{connected: make(map[string]bool)}
}

// Listen records the address.
func (t *MockTransport) Listen(addr string) error {
	t.addr = addr
	return nil
}

// Close does nothing in mock.
func (t *MockTransport) Close() error { return nil }

// Send records the frame.
func (t *MockTransport) Send(id string, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected[id] {
		return ErrUnknownClient
	}
	t.sent = append(t.sent, MockFrame{ID: id, Data: data})
	return nil
}

// Broadcast records the frame once.
func (t *MockTransport) Broadcast(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.broadcast = append(t.broadcast, data)
}

// OnMessage registers a handler.
func (t *MockTransport) OnMessage(handler MessageHandler) {
	t.handlers.message = handler
}

// OnConnect registers a handler.
func (t *MockTransport) OnConnect(handler ConnectHandler) {
	t.handlers.connect = handler
}

// OnDisconnect registers a handler.
func (t *MockTransport) OnDisconnect(handler DisconnectHandler) {
	t.handlers.disconnect = handler
}

// --- Test helpers ---

// SimulateConnect simulates a client being accepted.
func (t *MockTransport) SimulateConnect(id string) {
	t.mu.Lock()
	t.connected[id] = true
	t.mu.Unlock()

	if t.handlers.connect != nil {
		t.handlers.connect(id)
	}
}

// SimulateDisconnect simulates a client going away.
func (t *MockTransport) SimulateDisconnect(id string) {
	t.mu.Lock()
	delete(t.connected, id)
	t.mu.Unlock()

	if t.handlers.disconnect != nil {
		t.handlers.disconnect(id)
	}
}

// SimulateMessage simulates an inbound frame.
func (t *MockTransport) SimulateMessage(id string, data []byte) {
	if t.handlers.message != nil {
		t.handlers.message(id, data)
	}
}

// SentTo returns the frames sent to one client.
func (t *MockTransport) SentTo(id string) [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	frames := make([][]byte, 0)
	for _, f := range t.sent {
		if f.ID == id {
			frames = append(frames, f.Data)
		}
	}
	return frames
}

// Broadcasts returns all broadcast frames.
func (t *MockTransport) Broadcasts() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([][]byte{}, t.broadcast...)
}
