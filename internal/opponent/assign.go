package opponent

import "github.com/tompom/gameserver/internal/game"

// Assign decides which side, if any, the controller drives given the
// sides currently held by humans. At most one side is ever claimed.
func Assign(mode Mode, humans map[game.Role]bool) (game.Role, bool) {
	switch mode {
	case ModeOn:
		// Claim whichever side lacks a human, preferring left.
		if !humans[game.RoleLeft] {
			return game.RoleLeft, true
		}
		if !humans[game.RoleRight] {
			return game.RoleRight, true
		}
	case ModeAuto:
		// Engage only when exactly one human is connected.
		if len(humans) != 1 {
			return "", false
		}
		if humans[game.RoleLeft] {
			return game.RoleRight, true
		}
		return game.RoleLeft, true
	}
	return "", false
}
