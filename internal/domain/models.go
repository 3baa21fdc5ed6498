package domain

import "strings"

// Label identifies an answer option on the board.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
	LabelD Label = "D"
)

// Labels lists every option label in board order.
var Labels = []Label{LabelA, LabelB, LabelC, LabelD}

// ParseLabel accepts upper or lower case option letters.
func ParseLabel(raw string) (Label, bool) {
	l := Label(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Labels {
		if l == known {
			return l, true
		}
	}
	return "", false
}

// Question models a four-option question with exactly one correct label.
type Question struct {
	ID            string           `json:"id" yaml:"id"`
	Text          string           `json:"questionText" yaml:"question_text"`
	Options       map[Label]string `json:"options" yaml:"options"`
	CorrectAnswer Label            `json:"correctAnswer" yaml:"correct_answer"`
	Difficulty    int              `json:"difficulty" yaml:"difficulty"`
	Category      string           `json:"category" yaml:"category"`
}

// Option returns the text shown for label, or "" when the question has none.
func (q Question) Option(l Label) string {
	return q.Options[l]
}

// Players holds the two display names fixed at the start of a game.
type Players struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

// NewPlayers trims both names and rejects blanks.
func NewPlayers(p1, p2 string) (Players, error) {
	p1, p2 = strings.TrimSpace(p1), strings.TrimSpace(p2)
	if p1 == "" || p2 == "" {
		return Players{}, ErrPlayerNameRequired
	}
	return Players{Player1: p1, Player2: p2}, nil
}
