// Package game implements the authoritative pong simulation.
package game

import "math"

// Role is the capacity a connection holds in the match.
type Role string

const (
	RoleLeft      Role = "left"
	RoleRight     Role = "right"
	RoleSpectator Role = "spectator"
)

// Config holds court geometry and rule constants.
type Config struct {
	TickRate     int     // Ticks per second (default: 60)
	Width        float64 // Court width in px
	Height       float64 // Court height in px
	PaddleW      float64
	PaddleH      float64
	BallSize     float64
	PaddleSpeed  float64 // Human paddle movement in px per tick
	WinScore     int
	SpinStrength float64 // Curve added per unit of paddle movement at impact
}

// DefaultConfig returns the standard court.
func DefaultConfig() Config {
	return Config{
		TickRate:     60,
		Width:        640,
		Height:       480,
		PaddleW:      10,
		PaddleH:      60,
		BallSize:     16,
		PaddleSpeed:  10,
		WinScore:     5,
		SpinStrength: 0.15,
	}
}

// Paddle is one side's paddle.
type Paddle struct {
	Y    float64
	Move int // -1 up, 0 still, 1 down; recorded per tick for spin
}

// Ball is the ball's position and velocity. Hit guards against a second
// reflection while the ball is still overlapping a paddle.
type Ball struct {
	X, Y   float64
	VX, VY float64
	Hit    bool
}

// Match is the authoritative match state. It is created once at server
// start and mutated in place every tick under the engine's lock.
type Match struct {
	ScoreLeft   int
	ScoreRight  int
	Ticks       uint64
	BaseSpeed   float64
	RallySpeed  float64
	RallyLocked bool
	Left        Paddle
	Right       Paddle
	Ball        Ball
	GameOver    bool
	Winner      Role // empty until GameOver
}

const (
	serveSpeed        = 5.0
	initialServeAngle = 0.47
)

// NewMatch creates a match at start-of-game values.
func NewMatch(cfg Config) *Match {
	m := &Match{}
	m.Reset(cfg)
	return m
}

// Reset restores start-of-match values without replacing the object.
func (m *Match) Reset(cfg Config) {
	m.ScoreLeft = 0
	m.ScoreRight = 0
	m.Ticks = 0
	m.BaseSpeed = serveSpeed
	m.RallySpeed = m.BaseSpeed
	m.RallyLocked = false
	m.Left = Paddle{Y: (cfg.Height - cfg.PaddleH) / 2}
	m.Right = Paddle{Y: (cfg.Height - cfg.PaddleH) / 2}
	m.Ball = newBall(cfg, initialServeAngle, m.BaseSpeed)
	m.GameOver = false
	m.Winner = ""
}

// newBall serves a ball from court center at the given angle and speed.
func newBall(cfg Config, angle, speed float64) Ball {
	return Ball{
		X:  (cfg.Width - cfg.BallSize) / 2,
		Y:  (cfg.Height - cfg.BallSize) / 2,
		VX: speed * math.Cos(angle),
		VY: speed * math.Sin(angle),
	}
}

// Snapshot is a read-only copy of the fields the opponent controller
// needs to pick a target.
type Snapshot struct {
	LeftY    float64
	RightY   float64
	BallX    float64
	BallY    float64
	BallVX   float64
	BallVY   float64
	GameOver bool
}

func (m *Match) snapshot() Snapshot {
	return Snapshot{
		LeftY:    m.Left.Y,
		RightY:   m.Right.Y,
		BallX:    m.Ball.X,
		BallY:    m.Ball.Y,
		BallVX:   m.Ball.VX,
		BallVY:   m.Ball.VY,
		GameOver: m.GameOver,
	}
}
