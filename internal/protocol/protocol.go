// Package protocol defines the JSON wire messages exchanged with
// clients. Every frame is a single JSON object with a "type" field.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Message types.
const (
	TypeRole  = "role"
	TypeState = "state"
	TypeInput = "input"
	TypeReset = "reset"
	TypeSpeed = "speed"
)

// ClientMessage is the envelope for inbound frames. Input, reset, and
// speed share it; fields outside a frame's type are left at zero.
type ClientMessage struct {
	Type  string   `json:"type"`
	Up    bool     `json:"up"`
	Down  bool     `json:"down"`
	Delta *float64 `json:"delta"`
}

// Move derives the directional intent of an input frame: -1 up, 1 down,
// 0 when neither or both keys are held.
func (m *ClientMessage) Move() int {
	switch {
	case m.Up && !m.Down:
		return -1
	case m.Down && !m.Up:
		return 1
	}
	return 0
}

// RoleMessage tells a freshly connected client which side it holds.
type RoleMessage struct {
	Type string `json:"type"`
	Role string `json:"role"`
}

// StatePayload mirrors the renderer's expectations field for field.
type StatePayload struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	PaddleW    float64 `json:"paddle_w"`
	PaddleH    float64 `json:"paddle_h"`
	BallSize   float64 `json:"ball_size"`
	LeftY      float64 `json:"left_y"`
	RightY     float64 `json:"right_y"`
	BallX      float64 `json:"ball_x"`
	BallY      float64 `json:"ball_y"`
	ScoreLeft  int     `json:"score_left"`
	ScoreRight int     `json:"score_right"`
	GameOver   bool    `json:"game_over"`
	Winner     string  `json:"winner"`
}

// StateMessage is broadcast to every client once per tick.
type StateMessage struct {
	Type  string       `json:"type"`
	State StatePayload `json:"state"`
}

// NewRoleMessage creates a role assignment frame.
func NewRoleMessage(role string) RoleMessage {
	return RoleMessage{Type: TypeRole, Role: role}
}

// NewStateMessage wraps a state payload in its envelope.
func NewStateMessage(p StatePayload) StateMessage {
	return StateMessage{Type: TypeState, State: p}
}

// Encode serializes a message to a JSON text frame.
func Encode(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return data, nil
}

// DecodeClient deserializes an inbound frame. Callers drop frames that
// fail to decode; the connection stays open.
func DecodeClient(data []byte) (*ClientMessage, error) {
	msg := &ClientMessage{}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return msg, nil
}
