package opponent

import (
	"context"
	"math"

	"github.com/tompom/gameserver/internal/game"
)

// Predictor is the deterministic strategy: it projects the ball's
// trajectory to the controlled side's paddle plane and aims for the
// intercept, or recenters when the ball is moving away.
type Predictor struct {
	cfg game.Config
}

// NewPredictor creates a predictor for the given court.
func NewPredictor(cfg game.Config) Predictor {
	return Predictor{cfg: cfg}
}

// Target implements Strategy. It never fails.
func (p Predictor) Target(_ context.Context, role game.Role, s game.Snapshot) (float64, error) {
	cfg := p.cfg

	var planeX float64
	var toward bool
	if role == game.RoleLeft {
		planeX = cfg.PaddleW
		toward = s.BallVX < 0
	} else {
		planeX = cfg.Width - cfg.PaddleW - cfg.BallSize
		toward = s.BallVX > 0
	}

	target := (cfg.Height - cfg.PaddleH) / 2
	if toward {
		target = p.interceptY(s, planeX) - cfg.PaddleH/2
	}
	return clamp(target, 0, cfg.Height-cfg.PaddleH), nil
}

// interceptY projects the ball's y at the given x-plane, folding elastic
// reflections off the top and bottom walls over the doubled court height.
func (p Predictor) interceptY(s game.Snapshot, planeX float64) float64 {
	if s.BallVX == 0 {
		return s.BallY
	}
	t := (planeX - s.BallX) / s.BallVX
	if t <= 0 {
		return s.BallY
	}

	projected := s.BallY + s.BallVY*t
	period := 2 * (p.cfg.Height - p.cfg.BallSize)
	y := math.Mod(projected, period)
	if y < 0 {
		y += period
	}
	if y > p.cfg.Height-p.cfg.BallSize {
		y = period - y
	}
	return y
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
