package view

import (
	"slices"

	"money-drop-service/internal/domain"
	"money-drop-service/internal/game"
)

// HurrySeconds is the remaining time at which the board switches to its alert look.
const HurrySeconds = 10

// Outcome is the verdict shown after a round or at the end of the game.
type Outcome string

const (
	OutcomeNextStage Outcome = "next_stage"
	OutcomeWinner    Outcome = "winner"
	OutcomeLost      Outcome = "lost"
)

// Slot is one trapdoor on the board.
type Slot struct {
	Label   domain.Label `json:"label"`
	Text    string       `json:"text,omitempty"`
	Bet     int64        `json:"bet"`
	Bundles int64        `json:"bundles"`
	Dropped bool         `json:"dropped"`
	Falling bool         `json:"falling"`
	Correct bool         `json:"correct"`
}

// Board is what a client renders. The correct answer only appears once every wrong slot has dropped.
type Board struct {
	Phase           game.Phase     `json:"phase"`
	Players         domain.Players `json:"players"`
	Level           int            `json:"level"`
	MaxLevel        int            `json:"maxLevel"`
	Bankroll        int64          `json:"bankroll"`
	Staked          int64          `json:"staked"`
	Unstaked        int64          `json:"unstaked"`
	BetStep         int64          `json:"betStep"`
	Categories      []string       `json:"categories,omitempty"`
	Category        string         `json:"category,omitempty"`
	Question        string         `json:"question,omitempty"`
	Slots           []Slot         `json:"slots"`
	Countdown       int            `json:"countdown"`
	Hurry           bool           `json:"hurry"`
	CanDrop         bool           `json:"canDrop"`
	DropAvailableIn int            `json:"dropAvailableIn"`
	DropLocked      bool           `json:"dropLocked"`
	Outcome         Outcome        `json:"outcome,omitempty"`
	Warning         string         `json:"warning,omitempty"`
	Fault           string         `json:"fault,omitempty"`
}

// Build projects a game state onto a board.
func Build(s game.State, rules game.Rules) Board {
	b := Board{
		Phase:      s.Phase,
		Players:    s.Players,
		Level:      s.Level,
		MaxLevel:   rules.MaxLevel,
		Bankroll:   s.Bankroll,
		Staked:     s.Bets.Total(),
		BetStep:    rules.BetStep,
		Categories: slices.Clone(s.Categories),
		Category:   s.Category,
		Countdown:  s.Countdown,
		Warning:    s.Warning,
		Fault:      s.Fault,
	}
	b.Unstaked = b.Bankroll - b.Staked
	if b.Unstaked < 0 {
		b.Unstaked = 0
	}
	if s.Question != nil {
		b.Question = s.Question.Text
	}

	revealed := s.Revealing == game.RevealFinal
	for _, l := range s.Labels {
		slot := Slot{
			Label:   l,
			Bet:     s.Bets[l],
			Dropped: slices.Contains(s.Eliminated, l),
			Falling: s.Revealing == l,
		}
		if s.Question != nil {
			slot.Text = s.Question.Option(l)
			slot.Correct = revealed && l == s.Question.CorrectAnswer
		}
		if rules.BetStep > 0 {
			slot.Bundles = slot.Bet / rules.BetStep
		}
		b.Slots = append(b.Slots, slot)
	}

	if s.Phase == game.PhasePlaying {
		b.Hurry = s.Countdown > 0 && s.Countdown <= HurrySeconds
		opensAt := rules.DropOpensAt(s.Level)
		switch {
		case opensAt < 0:
			b.DropLocked = true
		case s.Countdown <= opensAt:
			b.CanDrop = true
		default:
			b.DropAvailableIn = s.Countdown - opensAt
		}
	}

	switch s.Phase {
	case game.PhaseResult:
		switch {
		case s.Bankroll <= 0:
			b.Outcome = OutcomeLost
		case s.Level >= rules.MaxLevel:
			b.Outcome = OutcomeWinner
		default:
			b.Outcome = OutcomeNextStage
		}
	case game.PhaseWinner:
		b.Outcome = OutcomeWinner
	case game.PhaseGameOver:
		b.Outcome = OutcomeLost
	}
	return b
}
