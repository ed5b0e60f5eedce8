package game

import (
	"math"
	"testing"
)

// fixedJitter removes serve randomness: 0.5 maps to zero jitter.
func fixedJitter() float64 { return 0.5 }

func TestBaseSpeedRamp(t *testing.T) {
	if got := BaseSpeedAt(0); got != 5.0 {
		t.Errorf("BaseSpeedAt(0) = %v, want 5.0", got)
	}
	if got := BaseSpeedAt(1000); got != 6.0 {
		t.Errorf("BaseSpeedAt(1000) = %v, want 6.0", got)
	}

	prev := 0.0
	for ticks := uint64(0); ticks < 10000; ticks += 100 {
		got := BaseSpeedAt(ticks)
		if got < prev {
			t.Fatalf("BaseSpeedAt(%d) = %v decreased below %v", ticks, got, prev)
		}
		prev = got
	}
}

func TestReflectAngleSpread(t *testing.T) {
	cfg := DefaultConfig()
	paddleY := 200.0

	tests := []struct {
		name    string
		centerY float64
		want    float64
	}{
		{"center hit", paddleY + cfg.PaddleH/2, 0},
		{"top edge", paddleY, -math.Pi / 3},
		{"bottom edge", paddleY + cfg.PaddleH, math.Pi / 3},
	}

	for _, tt := range tests {
		got := reflectAngle(cfg, tt.centerY, paddleY, 0)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: reflectAngle = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReflectAngleSpin(t *testing.T) {
	cfg := DefaultConfig()
	paddleY := 200.0
	centerY := paddleY + cfg.PaddleH/2 // zero base offset

	if got := reflectAngle(cfg, centerY, paddleY, 1); math.Abs(got-(-cfg.SpinStrength)) > 1e-9 {
		t.Errorf("paddle moving down: angle = %v, want %v", got, -cfg.SpinStrength)
	}
	if got := reflectAngle(cfg, centerY, paddleY, -1); math.Abs(got-cfg.SpinStrength) > 1e-9 {
		t.Errorf("paddle moving up: angle = %v, want %v", got, cfg.SpinStrength)
	}
}

func TestMissScoresOpposingSide(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMatch(cfg)

	// Ball about to cross the right plane with no paddle in the way.
	m.Ball = Ball{X: 610, Y: 10, VX: 5, VY: 0}
	m.Right.Y = 300

	Advance(m, cfg, TickInput{}, fixedJitter)

	if m.ScoreLeft != 1 {
		t.Errorf("score_left = %d, want 1", m.ScoreLeft)
	}
	if m.ScoreRight != 0 {
		t.Errorf("score_right = %d, want 0", m.ScoreRight)
	}

	// Fresh serve from center.
	wantX := (cfg.Width - cfg.BallSize) / 2
	if m.Ball.X != wantX {
		t.Errorf("ball_x = %v, want center %v", m.Ball.X, wantX)
	}
}

func TestServeDirectionAfterMiss(t *testing.T) {
	cfg := DefaultConfig()

	// Right side misses: serve travels right (base angle 0).
	m := NewMatch(cfg)
	m.Ball = Ball{X: 620, Y: 10, VX: 5, VY: 0}
	m.Right.Y = 300
	Advance(m, cfg, TickInput{}, fixedJitter)
	if m.Ball.VX <= 0 {
		t.Errorf("serve after right miss: vx = %v, want > 0", m.Ball.VX)
	}

	// Left side misses: serve travels left (base angle π).
	m = NewMatch(cfg)
	m.Ball = Ball{X: 5, Y: 10, VX: -5, VY: 0}
	m.Left.Y = 300
	Advance(m, cfg, TickInput{}, fixedJitter)
	if m.Ball.VX >= 0 {
		t.Errorf("serve after left miss: vx = %v, want < 0", m.Ball.VX)
	}
}

func TestWinThreshold(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMatch(cfg)
	m.ScoreLeft = cfg.WinScore - 1

	m.Ball = Ball{X: 620, Y: 10, VX: 5, VY: 0}
	m.Right.Y = 300
	Advance(m, cfg, TickInput{}, fixedJitter)

	if !m.GameOver {
		t.Fatal("expected game over at win score")
	}
	if m.Winner != RoleLeft {
		t.Errorf("winner = %q, want left", m.Winner)
	}

	// Ball is not repositioned on the winning point.
	if m.Ball.X == (cfg.Width-cfg.BallSize)/2 {
		t.Error("ball was re-served after game over")
	}

	// Further ticks mutate nothing.
	ticks := m.Ticks
	Advance(m, cfg, TickInput{LeftMove: 1}, fixedJitter)
	if m.Ticks != ticks {
		t.Errorf("ticks advanced after game over: %d -> %d", ticks, m.Ticks)
	}
}

func TestWallBounce(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMatch(cfg)

	m.Ball = Ball{X: 300, Y: 1, VX: 1, VY: -3}
	Advance(m, cfg, TickInput{}, fixedJitter)
	if m.Ball.VY <= 0 {
		t.Errorf("top wall: vy = %v, want > 0", m.Ball.VY)
	}

	m.Ball = Ball{X: 300, Y: cfg.Height - cfg.BallSize - 1, VX: 1, VY: 3}
	Advance(m, cfg, TickInput{}, fixedJitter)
	if m.Ball.VY >= 0 {
		t.Errorf("bottom wall: vy = %v, want < 0", m.Ball.VY)
	}
}

func TestCenterHitReflectsStraight(t *testing.T) {
	// 640x480 court, paddle at 210 (center), ball hits paddle center:
	// the reflection is horizontal.
	cfg := DefaultConfig()
	m := NewMatch(cfg)
	m.Left.Y = 210
	m.Ball = Ball{X: 11, Y: 232, VX: -5, VY: 0} // center y = 240 after integration

	Advance(m, cfg, TickInput{}, fixedJitter)

	if !m.Ball.Hit {
		t.Fatal("expected paddle contact")
	}
	if m.Ball.VX <= 0 {
		t.Errorf("vx = %v, want > 0 after left paddle hit", m.Ball.VX)
	}
	if math.Abs(m.Ball.VY) > 1e-9 {
		t.Errorf("vy = %v, want 0 for center hit", m.Ball.VY)
	}
}

func TestHitGuardPreventsDoubleBounce(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMatch(cfg)
	m.Left.Y = 210

	// Ball still inside the paddle's x-band with the guard already set.
	m.Ball = Ball{X: 6, Y: 230, VX: -1, VY: 0, Hit: true}
	Advance(m, cfg, TickInput{}, fixedJitter)

	if m.Ball.VX != -1 {
		t.Errorf("vx = %v, want unchanged -1 while guard is set", m.Ball.VX)
	}

	// Guard clears once the ball leaves both paddle bands.
	m.Ball = Ball{X: 300, Y: 230, VX: 1, VY: 0, Hit: true}
	Advance(m, cfg, TickInput{}, fixedJitter)
	if m.Ball.Hit {
		t.Error("guard still set outside paddle bands")
	}
}

func TestControllerTargetStep(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMatch(cfg)
	startY := m.Left.Y

	target := startY + 100
	Advance(m, cfg, TickInput{LeftMove: 1, LeftTarget: &target, CtrlSpeed: 8}, fixedJitter)

	if got := m.Left.Y; got != startY+8 {
		t.Errorf("left.y = %v, want clamped step to %v", got, startY+8)
	}
	if m.Left.Move != 0 {
		t.Errorf("controller-driven move = %d, want 0 (no spin)", m.Left.Move)
	}

	// Within one step of the target, the paddle lands exactly on it.
	near := m.Left.Y + 3
	Advance(m, cfg, TickInput{LeftTarget: &near, CtrlSpeed: 8}, fixedJitter)
	if m.Left.Y != near {
		t.Errorf("left.y = %v, want %v", m.Left.Y, near)
	}
}

func TestPaddleClampedToCourt(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMatch(cfg)
	m.Left.Y = 2

	Advance(m, cfg, TickInput{LeftMove: -1}, fixedJitter)
	if m.Left.Y != 0 {
		t.Errorf("left.y = %v, want clamp at 0", m.Left.Y)
	}

	m.Right.Y = cfg.Height - cfg.PaddleH - 2
	Advance(m, cfg, TickInput{RightMove: 1}, fixedJitter)
	if got, want := m.Right.Y, cfg.Height-cfg.PaddleH; got != want {
		t.Errorf("right.y = %v, want clamp at %v", got, want)
	}
}

func TestAdjustSpeedClampAndRescale(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMatch(cfg)
	m.Ball.VX, m.Ball.VY = 3, 4 // magnitude 5

	adjustSpeed(m, 100)

	if m.RallySpeed != 15 {
		t.Errorf("rally speed = %v, want clamp at 15", m.RallySpeed)
	}
	if !m.RallyLocked {
		t.Error("expected rally speed locked after manual adjust")
	}
	if mag := math.Hypot(m.Ball.VX, m.Ball.VY); math.Abs(mag-15) > 1e-9 {
		t.Errorf("ball speed = %v, want 15", mag)
	}
	// Direction preserved.
	if math.Abs(m.Ball.VX/m.Ball.VY-3.0/4.0) > 1e-9 {
		t.Errorf("direction changed: vx/vy = %v", m.Ball.VX/m.Ball.VY)
	}

	// Already at the boundary: a further push is a no-op.
	vx := m.Ball.VX
	adjustSpeed(m, 100)
	if m.Ball.VX != vx {
		t.Error("no-op adjust rescaled the ball")
	}

	adjustSpeed(m, -100)
	if m.RallySpeed != 1 {
		t.Errorf("rally speed = %v, want clamp at 1", m.RallySpeed)
	}
}

func TestAdjustSpeedNoopKeepsRampUnlocked(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMatch(cfg)

	adjustSpeed(m, 0)
	if m.RallyLocked {
		t.Error("zero delta locked the rally speed")
	}
}

func TestScoreUnlocksManualSpeed(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMatch(cfg)
	adjustSpeed(m, 5)
	if !m.RallyLocked {
		t.Fatal("expected locked rally speed")
	}

	m.Ball = Ball{X: 620, Y: 10, VX: 5, VY: 0}
	m.Right.Y = 300
	Advance(m, cfg, TickInput{}, fixedJitter)

	if m.RallyLocked {
		t.Error("score did not release the manual speed override")
	}
	if m.RallySpeed != m.BaseSpeed {
		t.Errorf("rally speed = %v, want base %v", m.RallySpeed, m.BaseSpeed)
	}
}

func TestMatchReset(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMatch(cfg)
	m.ScoreLeft, m.ScoreRight = 3, 5
	m.GameOver = true
	m.Winner = RoleRight
	m.Ticks = 999
	m.Ball.X = 7

	m.Reset(cfg)

	if m.ScoreLeft != 0 || m.ScoreRight != 0 {
		t.Errorf("scores = %d/%d, want 0/0", m.ScoreLeft, m.ScoreRight)
	}
	if m.GameOver || m.Winner != "" {
		t.Error("game over flags survived reset")
	}
	if m.Ticks != 0 {
		t.Errorf("ticks = %d, want 0", m.Ticks)
	}
	if m.Ball.X != (cfg.Width-cfg.BallSize)/2 {
		t.Errorf("ball_x = %v, want center", m.Ball.X)
	}
}
