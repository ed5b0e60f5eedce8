package game

import "math"

// TickInput carries the control intents consumed by one tick: the
// latest human intents drained from the session manager, plus the
// controller's target for whichever side it drives (nil when that side
// is human-driven or no target has been computed yet).
type TickInput struct {
	LeftMove    int
	RightMove   int
	LeftTarget  *float64
	RightTarget *float64
	CtrlSpeed   float64 // px per tick for the controller-driven side
}

// BaseSpeedAt is the speed ramp: it only rises as the match runs.
func BaseSpeedAt(ticks uint64) float64 {
	return math.Max(1.0, 5.0+float64(ticks)*0.001)
}

// Advance runs one simulation tick. The caller must hold exclusive
// access to m for the duration of the call. jitter supplies serve
// randomness as a uniform value in [0, 1).
func Advance(m *Match, cfg Config, in TickInput, jitter func() float64) {
	if m.GameOver {
		return
	}

	m.Ticks++
	m.BaseSpeed = BaseSpeedAt(m.Ticks)
	if !m.RallyLocked {
		m.RallySpeed = m.BaseSpeed
	}

	m.Left.Move = in.LeftMove
	m.Right.Move = in.RightMove
	movePaddle(&m.Left, cfg, in.LeftTarget, in.CtrlSpeed)
	movePaddle(&m.Right, cfg, in.RightTarget, in.CtrlSpeed)

	b := &m.Ball
	b.X += b.VX
	b.Y += b.VY

	if b.Y <= 0 || b.Y+cfg.BallSize >= cfg.Height {
		b.VY = -b.VY
	}

	// Horizontal boundaries are scoring lines, not walls.
	leftX := cfg.PaddleW
	rightX := cfg.Width - cfg.PaddleW - cfg.BallSize
	centerY := b.Y + cfg.BallSize/2

	switch {
	case b.X <= leftX:
		if m.Left.Y-cfg.BallSize <= b.Y && b.Y <= m.Left.Y+cfg.PaddleH {
			if !b.Hit {
				angle := reflectAngle(cfg, centerY, m.Left.Y, m.Left.Move)
				b.VX = m.RallySpeed * math.Cos(angle)
				b.VY = m.RallySpeed * math.Sin(angle)
				b.Hit = true
			}
		} else {
			score(m, cfg, RoleLeft, jitter)
		}
	case b.X >= rightX:
		if m.Right.Y-cfg.BallSize <= b.Y && b.Y <= m.Right.Y+cfg.PaddleH {
			if !b.Hit {
				angle := math.Pi + reflectAngle(cfg, centerY, m.Right.Y, m.Right.Move)
				b.VX = m.RallySpeed * math.Cos(angle)
				b.VY = m.RallySpeed * math.Sin(angle)
				b.Hit = true
			}
		} else {
			score(m, cfg, RoleRight, jitter)
		}
	default:
		b.Hit = false
	}
}

// movePaddle applies one tick of paddle motion. A controller-driven
// side steps toward its target and records Move = 0 so controller
// contact imparts no spin.
func movePaddle(p *Paddle, cfg Config, target *float64, ctrlSpeed float64) {
	if target != nil {
		p.Y += clamp(*target-p.Y, -ctrlSpeed, ctrlSpeed)
		p.Move = 0
	} else {
		p.Y += float64(p.Move) * cfg.PaddleSpeed
	}
	p.Y = clamp(p.Y, 0, cfg.Height-cfg.PaddleH)
}

// reflectAngle maps the contact point to a ±60° spread and adds curve
// from the paddle's movement at impact. A paddle moving down at contact
// curves the ball upward relative to its base reflection.
func reflectAngle(cfg Config, ballCenterY, paddleY float64, paddleMove int) float64 {
	hitPos := clamp((ballCenterY-paddleY)/cfg.PaddleH, 0, 1)
	offset := (hitPos - 0.5) * 2 * (math.Pi / 3)
	return offset - float64(paddleMove)*cfg.SpinStrength
}

// score records a miss by the given side: the opposite side gains a
// point. Below the win threshold a fresh ball is served toward the side
// that missed; at the threshold the match ends with the ball left where
// it crossed the line.
func score(m *Match, cfg Config, missed Role, jitter func() float64) {
	if missed == RoleLeft {
		m.ScoreRight++
	} else {
		m.ScoreLeft++
	}

	switch {
	case m.ScoreLeft >= cfg.WinScore:
		m.GameOver = true
		m.Winner = RoleLeft
	case m.ScoreRight >= cfg.WinScore:
		m.GameOver = true
		m.Winner = RoleRight
	}
	if m.GameOver {
		return
	}

	base := 0.0
	if missed == RoleLeft {
		base = math.Pi
	}
	j := (jitter() - 0.5) * (math.Pi / 6) // uniform in [-π/12, π/12)

	m.RallyLocked = false
	m.RallySpeed = m.BaseSpeed
	m.Ball = newBall(cfg, base+j, m.RallySpeed)
}

// adjustSpeed applies a bounded manual speed change for the current
// rally, rescaling the ball's velocity while preserving its direction.
// The override is released on the next score.
func adjustSpeed(m *Match, delta float64) {
	start := m.BaseSpeed
	if m.RallyLocked {
		start = m.RallySpeed
	}
	next := clamp(start+delta, 1, 15)
	if next == start {
		return
	}

	m.RallySpeed = next
	m.RallyLocked = true
	mag := math.Hypot(m.Ball.VX, m.Ball.VY)
	if mag > 0 {
		scale := next / mag
		m.Ball.VX *= scale
		m.Ball.VY *= scale
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
