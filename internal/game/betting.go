package game

import "money-drop-service/internal/domain"

// EmptySlotWarning is shown when a bet would leave every option funded.
const EmptySlotWarning = "Leave at least one option empty!"

func (m Machine) placeBet(s, next State, e PlaceBet) (State, error) {
	if s.Phase != PhasePlaying {
		return s, domain.ErrInvalidPhase
	}
	if !containsLabel(s.Labels, e.Label) {
		return s, domain.ErrLabelNotVisible
	}
	step := m.rules.BetStep
	switch e.Delta {
	case -step:
		current := next.Bets[e.Label]
		if current == 0 {
			return s, nil
		}
		current -= step
		if current < 0 {
			current = 0
		}
		next.Bets[e.Label] = current
		return next, nil
	case step:
	default:
		return s, domain.ErrInvalidBetDelta
	}

	if s.Bets.Total()+step > s.Bankroll {
		return s, domain.ErrBetExceedsBankroll
	}
	if m.rules.RequireEmptySlot && len(s.Labels) > 1 && s.Bets[e.Label] == 0 && s.Bets.Funded()+1 >= len(s.Labels) {
		next.Warning = EmptySlotWarning
		next.WarningSeq = s.WarningSeq + 1
		return next, domain.ErrEmptySlotRequired
	}
	next.Bets[e.Label] += step
	return next, nil
}
