package game

import (
	"fmt"

	"money-drop-service/internal/domain"
)

// Machine applies events to game states under a fixed set of rules.
type Machine struct {
	rules Rules
}

func NewMachine(rules Rules) Machine {
	return Machine{rules: rules}
}

// Rules returns the rules the machine was built with.
func (m Machine) Rules() Rules {
	return m.rules
}

// Start returns the state of a new game waiting for player names.
func (m Machine) Start() State {
	return State{
		Phase:    PhaseNameEntry,
		Level:    1,
		Bankroll: m.rules.StartingBankroll,
		Labels:   VisibleLabels(1),
		Bets:     newBetSet(VisibleLabels(1)),
	}
}

// Apply returns the state after ev. On error the returned state equals s, except
// for the empty-slot warning (ErrEmptySlotRequired) and the first-stage content
// fault (ErrNoCategories), which are recorded on the returned state.
func (m Machine) Apply(s State, ev Event) (State, error) {
	next := s.Clone()
	switch e := ev.(type) {
	case SubmitNames:
		return m.submitNames(s, next, e)
	case CategoriesOffered:
		return m.categoriesOffered(s, next, e)
	case ContentUnavailable:
		if s.Phase != PhaseIntro {
			return s, domain.ErrInvalidPhase
		}
		next.Fault = e.Reason
		return next, nil
	case RetryContent:
		if s.Phase != PhaseIntro || s.Fault == "" {
			return s, domain.ErrInvalidPhase
		}
		next.Fault = ""
		return next, nil
	case ChooseCategory:
		return m.chooseCategory(s, next, e)
	case PlaceBet:
		return m.placeBet(s, next, e)
	case Tick:
		if s.Phase != PhasePlaying {
			return s, domain.ErrInvalidPhase
		}
		if next.Countdown > 0 {
			next.Countdown--
		}
		if next.Countdown == 0 {
			return m.startDrop(next), nil
		}
		return next, nil
	case Drop:
		if s.Phase != PhasePlaying {
			return s, domain.ErrInvalidPhase
		}
		opensAt := m.rules.DropOpensAt(s.Level)
		if s.Countdown > 0 && s.Countdown > opensAt {
			return s, domain.ErrDropLocked
		}
		return m.startDrop(next), nil
	case RevealNext:
		return m.revealNext(s, next)
	case Settle:
		if s.Phase != PhaseDropping || s.Revealing != RevealFinal {
			return s, domain.ErrInvalidPhase
		}
		next.Bankroll = s.Bets[s.CorrectLabel()]
		next.Phase = PhaseResult
		return next, nil
	case Continue:
		return m.continueGame(s, next)
	case Restart:
		if !s.Phase.Terminal() {
			return s, domain.ErrInvalidPhase
		}
		restarted := m.Start()
		restarted.Players = s.Players
		restarted.Phase = PhaseIntro
		restarted.WarningSeq = s.WarningSeq
		return restarted, nil
	case ClearWarning:
		if e.Seq != s.WarningSeq || s.Warning == "" {
			return s, nil
		}
		next.Warning = ""
		return next, nil
	default:
		return s, fmt.Errorf("unknown event %T", ev)
	}
}

func (m Machine) submitNames(s, next State, e SubmitNames) (State, error) {
	if s.Phase != PhaseNameEntry {
		return s, domain.ErrInvalidPhase
	}
	players, err := domain.NewPlayers(e.Player1, e.Player2)
	if err != nil {
		return s, err
	}
	next.Players = players
	next.Phase = PhaseIntro
	return next, nil
}

func (m Machine) categoriesOffered(s, next State, e CategoriesOffered) (State, error) {
	if s.Phase != PhaseIntro {
		return s, domain.ErrInvalidPhase
	}
	if len(e.Categories) == 0 {
		if s.Level > 1 {
			// Nothing left to ask: the players keep what they have.
			next.Phase = PhaseWinner
			next.Categories = nil
			return next, nil
		}
		next.Fault = fmt.Sprintf("no categories for difficulty %d", s.Level)
		return next, domain.ErrNoCategories
	}
	next.Categories = append([]string(nil), e.Categories...)
	next.Fault = ""
	next.Phase = PhaseCategorySelect
	return next, nil
}

func (m Machine) chooseCategory(s, next State, e ChooseCategory) (State, error) {
	if s.Phase != PhaseCategorySelect {
		return s, domain.ErrInvalidPhase
	}
	if !s.Offered(e.Category) {
		return s, domain.ErrUnknownCategory
	}
	if e.Question.ID == "" || !containsLabel(s.Labels, e.Question.CorrectAnswer) {
		return s, domain.ErrNoQuestions
	}
	q := e.Question
	next.Question = &q
	next.Category = e.Category
	if !s.IsRetired(q.ID) {
		next.Retired = append(next.Retired, q.ID)
	}
	next.Labels = VisibleLabels(s.Level)
	next.Bets = newBetSet(next.Labels)
	next.Countdown = m.rules.Countdown
	next.Revealing = ""
	next.Eliminated = nil
	next.Warning = ""
	next.Phase = PhasePlaying
	return next, nil
}

func (m Machine) startDrop(next State) State {
	next.Countdown = 0
	next.Phase = PhaseDropping
	next.Warning = ""
	next.Eliminated = nil
	order := next.eliminationOrder()
	if len(order) == 0 {
		next.Revealing = RevealFinal
	} else {
		next.Revealing = order[0]
	}
	return next
}

func (m Machine) revealNext(s, next State) (State, error) {
	if s.Phase != PhaseDropping || s.Revealing == "" || s.Revealing == RevealFinal {
		return s, domain.ErrInvalidPhase
	}
	next.Eliminated = append(next.Eliminated, s.Revealing)
	next.Revealing = RevealFinal
	order := s.eliminationOrder()
	for i, l := range order {
		if l == s.Revealing && i+1 < len(order) {
			next.Revealing = order[i+1]
			break
		}
	}
	return next, nil
}

func (m Machine) continueGame(s, next State) (State, error) {
	if s.Phase != PhaseResult {
		return s, domain.ErrInvalidPhase
	}
	switch {
	case s.Bankroll <= 0:
		next.Phase = PhaseGameOver
	case s.Level >= m.rules.MaxLevel:
		next.Phase = PhaseWinner
	default:
		next.Level = s.Level + 1
		next.Labels = VisibleLabels(next.Level)
		next.Bets = newBetSet(next.Labels)
		next.Categories = nil
		next.Category = ""
		next.Question = nil
		next.Countdown = 0
		next.Revealing = ""
		next.Eliminated = nil
		next.Phase = PhaseIntro
	}
	return next, nil
}
