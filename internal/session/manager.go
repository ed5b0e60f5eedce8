// Package session tracks connected clients and their match roles.
package session

import (
	"sync"

	"github.com/tompom/gameserver/internal/game"
)

// Manager assigns roles on a first-come basis and holds each side's
// latest directional intent. Clients are keyed by the opaque handle the
// transport issues at accept time, so nothing here touches a socket.
type Manager struct {
	mu     sync.Mutex
	roles  map[string]game.Role
	inputs map[game.Role]int

	// Callback invoked outside the lock whenever the set of human-held
	// sides may have changed.
	onChange func(humans map[game.Role]bool)
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		roles: make(map[string]game.Role),
		inputs: map[game.Role]int{
			game.RoleLeft:  0,
			game.RoleRight: 0,
		},
	}
}

// OnRolesChanged registers a callback fired after every connect and
// disconnect with the sides currently held by humans.
func (m *Manager) OnRolesChanged(fn func(humans map[game.Role]bool)) {
	m.onChange = fn
}

// Connect assigns the next free role: left, then right, then spectator.
// The assignment is permanent for the connection's lifetime.
func (m *Manager) Connect(id string) game.Role {
	m.mu.Lock()
	role := game.RoleSpectator
	switch {
	case !m.takenLocked(game.RoleLeft):
		role = game.RoleLeft
	case !m.takenLocked(game.RoleRight):
		role = game.RoleRight
	}
	m.roles[id] = role
	humans := m.humansLocked()
	m.mu.Unlock()

	m.notify(humans)
	return role
}

// Disconnect frees the client's role. A freed side's pending intent is
// zeroed so a vanished player does not keep steering.
func (m *Manager) Disconnect(id string) {
	m.mu.Lock()
	role, ok := m.roles[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.roles, id)
	if role == game.RoleLeft || role == game.RoleRight {
		m.inputs[role] = 0
	}
	humans := m.humansLocked()
	m.mu.Unlock()

	m.notify(humans)
}

// SetInput overwrites the side's pending intent with the freshest
// value. Spectators and unknown handles are ignored.
func (m *Manager) SetInput(id string, move int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	role, ok := m.roles[id]
	if !ok || (role != game.RoleLeft && role != game.RoleRight) {
		return false
	}
	m.inputs[role] = move
	return true
}

// Inputs returns the latest intent for each side. Intents persist until
// overwritten; a held key keeps its paddle moving between messages.
func (m *Manager) Inputs() (left, right int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputs[game.RoleLeft], m.inputs[game.RoleRight]
}

// Role returns the client's assigned role.
func (m *Manager) Role(id string) (game.Role, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[id]
	return role, ok
}

// Humans returns the sides currently held by connections.
func (m *Manager) Humans() map[game.Role]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.humansLocked()
}

// Count returns the number of tracked connections.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.roles)
}

func (m *Manager) takenLocked(role game.Role) bool {
	for _, r := range m.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (m *Manager) humansLocked() map[game.Role]bool {
	humans := make(map[game.Role]bool, 2)
	for _, r := range m.roles {
		if r == game.RoleLeft || r == game.RoleRight {
			humans[r] = true
		}
	}
	return humans
}

func (m *Manager) notify(humans map[game.Role]bool) {
	if m.onChange != nil {
		m.onChange(humans)
	}
}
