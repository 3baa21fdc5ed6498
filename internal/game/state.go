package game

import "money-drop-service/internal/domain"

// Phase is a step of the game loop.
type Phase string

const (
	PhaseNameEntry      Phase = "NAME_ENTRY"
	PhaseIntro          Phase = "INTRO"
	PhaseCategorySelect Phase = "CATEGORY_SELECT"
	PhasePlaying        Phase = "PLAYING"
	PhaseDropping       Phase = "DROPPING"
	PhaseResult         Phase = "RESULT"
	PhaseWinner         Phase = "WINNER"
	PhaseGameOver       Phase = "GAME_OVER"
)

// Terminal reports whether the phase ends the game until a restart.
func (p Phase) Terminal() bool {
	return p == PhaseWinner || p == PhaseGameOver
}

// RevealFinal marks the reveal cursor once every wrong option has dropped.
const RevealFinal domain.Label = "FINAL"

// BetSet maps each visible option to the money placed on it.
type BetSet map[domain.Label]int64

func newBetSet(labels []domain.Label) BetSet {
	bets := make(BetSet, len(labels))
	for _, l := range labels {
		bets[l] = 0
	}
	return bets
}

// Total sums every bet.
func (b BetSet) Total() int64 {
	var total int64
	for _, v := range b {
		total += v
	}
	return total
}

// Funded counts options holding a positive bet.
func (b BetSet) Funded() int {
	n := 0
	for _, v := range b {
		if v > 0 {
			n++
		}
	}
	return n
}

func (b BetSet) clone() BetSet {
	if b == nil {
		return nil
	}
	out := make(BetSet, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// State is one immutable snapshot of a game. Machine.Apply never mutates its input.
type State struct {
	Phase      Phase            `json:"phase"`
	Players    domain.Players   `json:"players"`
	Level      int              `json:"level"`
	Bankroll   int64            `json:"bankroll"`
	Labels     []domain.Label   `json:"labels"`
	Categories []string         `json:"categories,omitempty"`
	Category   string           `json:"category,omitempty"`
	Question   *domain.Question `json:"question,omitempty"`
	Bets       BetSet           `json:"bets"`
	Countdown  int              `json:"countdown"`
	Revealing  domain.Label     `json:"revealing,omitempty"`
	Eliminated []domain.Label   `json:"eliminated,omitempty"`
	Retired    []string         `json:"retired,omitempty"`
	Warning    string           `json:"warning,omitempty"`
	WarningSeq int              `json:"warningSeq"`
	Fault      string           `json:"fault,omitempty"`
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Labels = append([]domain.Label(nil), s.Labels...)
	out.Categories = append([]string(nil), s.Categories...)
	out.Eliminated = append([]domain.Label(nil), s.Eliminated...)
	out.Retired = append([]string(nil), s.Retired...)
	out.Bets = s.Bets.clone()
	if s.Question != nil {
		q := *s.Question
		q.Options = make(map[domain.Label]string, len(s.Question.Options))
		for k, v := range s.Question.Options {
			q.Options[k] = v
		}
		out.Question = &q
	}
	return out
}

// IsRetired reports whether a question was already played this game.
func (s State) IsRetired(questionID string) bool {
	for _, id := range s.Retired {
		if id == questionID {
			return true
		}
	}
	return false
}

// Offered reports whether category is one of this round's choices.
func (s State) Offered(category string) bool {
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// CorrectLabel returns the current question's answer, or "" without a question.
func (s State) CorrectLabel() domain.Label {
	if s.Question == nil {
		return ""
	}
	return s.Question.CorrectAnswer
}

// eliminationOrder lists the visible options that will drop, in board order.
func (s State) eliminationOrder() []domain.Label {
	correct := s.CorrectLabel()
	out := make([]domain.Label, 0, len(s.Labels))
	for _, l := range s.Labels {
		if l != correct {
			out = append(out, l)
		}
	}
	return out
}
