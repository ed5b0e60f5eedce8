// Package opponent substitutes a computed or externally queried player
// for a missing human on one side of the match.
package opponent

import "time"

// Mode controls when the controller claims a side.
type Mode string

const (
	ModeOff  Mode = "off"
	ModeOn   Mode = "on"
	ModeAuto Mode = "auto"
)

// Profile tunes the controller's responsiveness: how often it rethinks,
// how far a new target must move before it reacts, and how fast its
// paddle travels.
type Profile struct {
	Interval    time.Duration
	Deadband    float64
	PaddleSpeed float64
}

// DefaultDifficulty is used when a configured name is unknown.
const DefaultDifficulty = "medium"

// Profiles returns the built-in difficulty table.
func Profiles() map[string]Profile {
	return map[string]Profile{
		"easy":   {Interval: 250 * time.Millisecond, Deadband: 18, PaddleSpeed: 6},
		"medium": {Interval: 120 * time.Millisecond, Deadband: 10, PaddleSpeed: 8},
		"hard":   {Interval: 60 * time.Millisecond, Deadband: 6, PaddleSpeed: 10},
	}
}

// ProfileFor resolves a difficulty name against the given table,
// falling back to medium. ok reports whether the name was known.
func ProfileFor(name string, table map[string]Profile) (Profile, bool) {
	if p, ok := table[name]; ok {
		return p, true
	}
	return table[DefaultDifficulty], false
}
