package opponent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tompom/gameserver/internal/game"
)

// fakeSim records target writes.
type fakeSim struct {
	mu      sync.Mutex
	snap    game.Snapshot
	role    game.Role
	targets []float64
}

func (f *fakeSim) Snapshot() (game.Snapshot, game.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, f.role
}

func (f *fakeSim) SetTarget(role game.Role, y float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets = append(f.targets, y)
}

func (f *fakeSim) recorded() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64{}, f.targets...)
}

// fakeStrategy returns a scripted target or error.
type fakeStrategy struct {
	mu     sync.Mutex
	target float64
	err    error
	calls  int
}

func (s *fakeStrategy) Target(context.Context, game.Role, game.Snapshot) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.target, s.err
}

func (s *fakeStrategy) set(target float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target, s.err = target, err
}

func testProfile() Profile {
	return Profile{Interval: time.Millisecond, Deadband: 10, PaddleSpeed: 8}
}

func TestControllerWritesTarget(t *testing.T) {
	sim := &fakeSim{role: game.RoleRight}
	strategy := &fakeStrategy{target: 300}
	c := NewController(sim, strategy, testProfile())

	c.step()

	require.Equal(t, []float64{300}, sim.recorded())
}

func TestControllerIdleWithoutAssignment(t *testing.T) {
	sim := &fakeSim{role: ""}
	strategy := &fakeStrategy{target: 300}
	c := NewController(sim, strategy, testProfile())

	c.step()

	assert.Empty(t, sim.recorded())
	assert.Equal(t, 0, strategy.calls)
}

func TestControllerIdleAfterGameOver(t *testing.T) {
	sim := &fakeSim{role: game.RoleRight, snap: game.Snapshot{GameOver: true}}
	strategy := &fakeStrategy{target: 300}
	c := NewController(sim, strategy, testProfile())

	c.step()

	assert.Empty(t, sim.recorded())
}

func TestControllerKeepsTargetOnStrategyFailure(t *testing.T) {
	sim := &fakeSim{role: game.RoleRight}
	strategy := &fakeStrategy{target: 300}
	c := NewController(sim, strategy, testProfile())

	c.step()
	require.Equal(t, []float64{300}, sim.recorded())

	// A failing cycle leaves the previous target in place.
	strategy.set(0, errors.New("boom"))
	c.step()
	assert.Equal(t, []float64{300}, sim.recorded())
}

func TestControllerDeadbandSuppressesJitter(t *testing.T) {
	sim := &fakeSim{role: game.RoleRight}
	strategy := &fakeStrategy{target: 300}
	c := NewController(sim, strategy, testProfile())

	c.step()
	strategy.set(305, nil) // within the 10 px deadband
	c.step()
	require.Equal(t, []float64{300}, sim.recorded())

	strategy.set(320, nil)
	c.step()
	assert.Equal(t, []float64{300, 320}, sim.recorded())
}

func TestControllerForgetResetsDeadband(t *testing.T) {
	sim := &fakeSim{role: game.RoleRight}
	strategy := &fakeStrategy{target: 300}
	c := NewController(sim, strategy, testProfile())

	c.step()
	c.Forget()

	strategy.set(305, nil)
	c.step()
	assert.Equal(t, []float64{300, 305}, sim.recorded())
}

func TestControllerStartStop(t *testing.T) {
	sim := &fakeSim{role: game.RoleRight}
	strategy := &fakeStrategy{target: 300}
	c := NewController(sim, strategy, testProfile())

	c.Start()
	time.Sleep(20 * time.Millisecond)
	c.Stop()

	assert.NotEmpty(t, sim.recorded())
}
