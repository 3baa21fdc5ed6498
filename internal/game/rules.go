package game

import "math"

// Rules are the tunable game constants.
type Rules struct {
	StartingBankroll int64
	BetStep          int64
	Countdown        int // seconds per round
	MaxLevel         int
	// RequireEmptySlot enforces that at least one visible option stays unfunded.
	RequireEmptySlot bool
	// FullBoardDropFraction is the share of the countdown that must elapse before
	// a manual drop on a four-option board.
	FullBoardDropFraction float64
	// ReducedBoardDropFraction applies once options have been removed from the board.
	ReducedBoardDropFraction float64
}

// DefaultRules returns the standard game: 25,000,000 bankroll, 500,000 steps, 60s rounds, 8 stages.
func DefaultRules() Rules {
	return Rules{
		StartingBankroll:         25_000_000,
		BetStep:                  500_000,
		Countdown:                60,
		MaxLevel:                 8,
		RequireEmptySlot:         true,
		FullBoardDropFraction:    0.5,
		ReducedBoardDropFraction: 1.0,
	}
}

// EarliestDropFraction is the fraction of the countdown that must elapse before
// the players may trigger the drop themselves.
func (r Rules) EarliestDropFraction(level int) float64 {
	if len(VisibleLabels(level)) == len(fullBoard) {
		return r.FullBoardDropFraction
	}
	return r.ReducedBoardDropFraction
}

// DropOpensAt returns the countdown value at or below which a manual drop is allowed.
// A negative value means the drop only happens when the timer runs out.
func (r Rules) DropOpensAt(level int) int {
	frac := r.EarliestDropFraction(level)
	if frac >= 1 {
		return -1
	}
	if frac < 0 {
		frac = 0
	}
	elapsed := int(math.Ceil(frac * float64(r.Countdown)))
	return r.Countdown - elapsed
}
