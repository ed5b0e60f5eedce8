// Package server wires the transport, session manager, engine, and
// opponent controller together.
package server

import (
	"log"

	"github.com/tompom/gameserver/internal/game"
	"github.com/tompom/gameserver/internal/opponent"
	"github.com/tompom/gameserver/internal/protocol"
	"github.com/tompom/gameserver/internal/session"
	"github.com/tompom/gameserver/internal/transport"
)

// Server owns one match: it assigns roles as clients arrive, routes
// their messages, and keeps the opponent controller's side assignment
// in step with the role map.
type Server struct {
	transport  transport.Transport
	sessions   *session.Manager
	engine     *game.Engine
	controller *opponent.Controller
	mode       opponent.Mode
	profile    opponent.Profile
}

// New wires the pieces together. controller may be nil when the
// opponent mode is off.
func New(
	t transport.Transport,
	sessions *session.Manager,
	engine *game.Engine,
	controller *opponent.Controller,
	mode opponent.Mode,
	profile opponent.Profile,
) *Server {
	s := &Server{
		transport:  t,
		sessions:   sessions,
		engine:     engine,
		controller: controller,
		mode:       mode,
		profile:    profile,
	}

	t.OnConnect(s.handleConnect)
	t.OnDisconnect(s.handleDisconnect)
	t.OnMessage(s.handleMessage)
	sessions.OnRolesChanged(s.reassign)

	// Seed the assignment so an "on" opponent holds a side before the
	// first client arrives.
	s.reassign(sessions.Humans())

	return s
}

// Start begins the tick loop and controller, then opens the listener.
func (s *Server) Start(addr string) error {
	s.engine.Start()
	if s.controller != nil {
		s.controller.Start()
	}
	return s.transport.Listen(addr)
}

// Stop tears everything down in reverse order.
func (s *Server) Stop() {
	if err := s.transport.Close(); err != nil {
		log.Printf("Error closing transport: %v", err)
	}
	if s.controller != nil {
		s.controller.Stop()
	}
	s.engine.Stop()
}

func (s *Server) handleConnect(id string) {
	role := s.sessions.Connect(id)

	data, err := protocol.Encode(protocol.NewRoleMessage(string(role)))
	if err == nil {
		s.transport.Send(id, data)
	}
	log.Printf("🏓 %s joined as %s", id, role)
}

func (s *Server) handleDisconnect(id string) {
	s.sessions.Disconnect(id)
}

// handleMessage dispatches one inbound frame. Malformed JSON and
// unknown types are dropped without a reply.
func (s *Server) handleMessage(id string, data []byte) {
	msg, err := protocol.DecodeClient(data)
	if err != nil {
		return
	}

	switch msg.Type {
	case protocol.TypeInput:
		s.sessions.SetInput(id, msg.Move())
	case protocol.TypeReset:
		s.engine.Reset()
	case protocol.TypeSpeed:
		if msg.Delta != nil {
			s.engine.AdjustSpeed(*msg.Delta)
		}
	}
}

// reassign recomputes the controller's side whenever the role map
// changes.
func (s *Server) reassign(humans map[game.Role]bool) {
	role, ok := opponent.Assign(s.mode, humans)
	if !ok {
		role = ""
	}
	s.engine.SetControlled(role, s.profile.PaddleSpeed)
	if s.controller != nil {
		s.controller.Forget()
	}
	if ok {
		log.Printf("🤖 Controller drives %s", role)
	}
}
