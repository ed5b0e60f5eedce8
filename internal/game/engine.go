package game

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/tompom/gameserver/internal/protocol"
)

// Broadcaster delivers a serialized state frame to every connected
// client. Delivery is best-effort; a failed send must not block others.
type Broadcaster interface {
	Broadcast(data []byte)
}

// InputSource supplies the latest directional intent for each side.
// Values are last-write-wins and are re-read every tick.
type InputSource interface {
	Inputs() (left, right int)
}

// Engine owns the match state and runs the tick/broadcast loop.
type Engine struct {
	mu          sync.Mutex
	match       *Match
	cfg         Config
	inputs      InputSource
	broadcaster Broadcaster
	tickPeriod  time.Duration
	jitter      func() float64

	// Opponent controller plumbing. The controller writes targets from
	// its own goroutine; the tick consumes them under the same lock.
	controlled  Role // side driven by the controller, empty when none
	ctrlSpeed   float64
	leftTarget  *float64
	rightTarget *float64

	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewEngine creates an engine over a fresh match.
func NewEngine(cfg Config, inputs InputSource, broadcaster Broadcaster) *Engine {
	return &Engine{
		match:       NewMatch(cfg),
		cfg:         cfg,
		inputs:      inputs,
		broadcaster: broadcaster,
		tickPeriod:  time.Second / time.Duration(cfg.TickRate),
		jitter:      rand.Float64,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the tick loop.
func (e *Engine) Start() {
	if e.running {
		return
	}
	e.running = true
	e.wg.Add(1)
	go e.tickLoop()
	log.Printf("🎮 Engine started: %d Hz (%v tick period)", e.cfg.TickRate, e.tickPeriod)
}

// Stop stops the tick loop.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.running = false
	close(e.stopCh)
	e.wg.Wait()
	log.Println("🛑 Engine stopped")
}

// tickLoop holds the target rate by sleeping out the remainder of each
// tick's budget. An overrunning tick runs back-to-back with the next;
// skipped time is never replayed.
func (e *Engine) tickLoop() {
	defer e.wg.Done()

	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		start := time.Now()
		e.tick()

		if rest := e.tickPeriod - time.Since(start); rest > 0 {
			select {
			case <-e.stopCh:
				return
			case <-time.After(rest):
			}
		}
	}
}

// tick advances the simulation under the lock, then broadcasts the
// resulting state outside it. Broadcast happens even after game over so
// late joiners see the final score.
func (e *Engine) tick() {
	e.mu.Lock()
	in := TickInput{CtrlSpeed: e.ctrlSpeed}
	in.LeftMove, in.RightMove = e.inputs.Inputs()
	switch e.controlled {
	case RoleLeft:
		in.LeftTarget = e.leftTarget
	case RoleRight:
		in.RightTarget = e.rightTarget
	}
	Advance(e.match, e.cfg, in, e.jitter)
	msg := e.stateMessage()
	e.mu.Unlock()

	data, err := protocol.Encode(msg)
	if err != nil {
		return
	}
	e.broadcaster.Broadcast(data)
}

func (e *Engine) stateMessage() protocol.StateMessage {
	return protocol.NewStateMessage(protocol.StatePayload{
		Width:      e.cfg.Width,
		Height:     e.cfg.Height,
		PaddleW:    e.cfg.PaddleW,
		PaddleH:    e.cfg.PaddleH,
		BallSize:   e.cfg.BallSize,
		LeftY:      e.match.Left.Y,
		RightY:     e.match.Right.Y,
		BallX:      e.match.Ball.X,
		BallY:      e.match.Ball.Y,
		ScoreLeft:  e.match.ScoreLeft,
		ScoreRight: e.match.ScoreRight,
		GameOver:   e.match.GameOver,
		Winner:     string(e.match.Winner),
	})
}

// Reset reinitializes the match. Only honored after game over.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.GameOver {
		e.match.Reset(e.cfg)
	}
}

// AdjustSpeed applies a manual speed change for the current rally.
func (e *Engine) AdjustSpeed(delta float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	adjustSpeed(e.match, delta)
}

// SetControlled hands one side to the opponent controller, or releases
// it when role is empty. Stale targets are dropped either way.
func (e *Engine) SetControlled(role Role, ctrlSpeed float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.controlled = role
	e.ctrlSpeed = ctrlSpeed
	e.leftTarget = nil
	e.rightTarget = nil
}

// SetTarget records the controller's target for the side it drives.
// Targets for an uncontrolled side are discarded.
func (e *Engine) SetTarget(role Role, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if role != e.controlled {
		return
	}
	switch role {
	case RoleLeft:
		e.leftTarget = &y
	case RoleRight:
		e.rightTarget = &y
	}
}

// Snapshot returns a copy of the controller-relevant state and the side
// the controller currently drives.
func (e *Engine) Snapshot() (Snapshot, Role) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.match.snapshot(), e.controlled
}

// MatchCopy returns a copy of the full match state.
func (e *Engine) MatchCopy() Match {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.match
}

// Config returns the court configuration.
func (e *Engine) Config() Config {
	return e.cfg
}
