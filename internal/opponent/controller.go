package opponent

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"github.com/tompom/gameserver/internal/game"
)

// Strategy computes the next target y for the controlled side.
// Returning an error means "no decision this cycle"; the previous
// target stays in effect.
type Strategy interface {
	Target(ctx context.Context, role game.Role, s game.Snapshot) (float64, error)
}

// Sim is the slice of the engine the controller needs. Snapshot must
// not hold any lock across the controller's strategy work.
type Sim interface {
	Snapshot() (game.Snapshot, game.Role)
	SetTarget(role game.Role, y float64)
}

// Controller periodically recomputes a target for whichever side it
// drives. It runs on its own cadence, decoupled from the tick loop, so
// a slow strategy (the oracle) can never stall the simulation.
type Controller struct {
	sim      Sim
	strategy Strategy
	profile  Profile

	mu   sync.Mutex
	prev map[game.Role]float64

	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewController creates a controller over the given strategy.
func NewController(sim Sim, strategy Strategy, profile Profile) *Controller {
	return &Controller{
		sim:      sim,
		strategy: strategy,
		profile:  profile,
		prev:     make(map[game.Role]float64),
		stopCh:   make(chan struct{}),
	}
}

// Start begins the decision loop.
func (c *Controller) Start() {
	if c.running {
		return
	}
	c.running = true
	c.wg.Add(1)
	go c.loop()
	log.Printf("🤖 Opponent controller started (interval %v)", c.profile.Interval)
}

// Stop stops the decision loop.
func (c *Controller) Stop() {
	if !c.running {
		return
	}
	c.running = false
	close(c.stopCh)
	c.wg.Wait()
}

// Forget drops remembered targets. Called when the controller's side
// assignment changes so the deadband never compares against a target
// computed for a previous assignment.
func (c *Controller) Forget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prev = make(map[game.Role]float64)
}

func (c *Controller) loop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.profile.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.step()
		}
	}
}

// step takes one decision: snapshot under the engine lock, strategy
// work with the lock released, then a single sanctioned target write.
func (c *Controller) step() {
	snap, role := c.sim.Snapshot()
	if role == "" || snap.GameOver {
		return
	}

	target, err := c.strategy.Target(context.Background(), role, snap)
	if err != nil {
		return // keep the previous target
	}

	c.mu.Lock()
	prev, ok := c.prev[role]
	if ok && math.Abs(target-prev) < c.profile.Deadband {
		c.mu.Unlock()
		return
	}
	c.prev[role] = target
	c.mu.Unlock()

	c.sim.SetTarget(role, target)
}
