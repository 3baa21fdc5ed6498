package game

import "money-drop-service/internal/domain"

// Event is an input to Machine.Apply.
type Event interface {
	event()
}

// SubmitNames starts the game once both names are given.
type SubmitNames struct {
	Player1 string
	Player2 string
}

// CategoriesOffered carries the categories sampled for the current stage.
type CategoriesOffered struct {
	Categories []string
}

// ContentUnavailable records a question provider failure during the intro.
type ContentUnavailable struct {
	Reason string
}

// RetryContent clears a content fault so the intro fetch can run again.
type RetryContent struct{}

// ChooseCategory starts a round with the question picked from the chosen category.
type ChooseCategory struct {
	Category string
	Question domain.Question
}

// PlaceBet moves one step of money onto (positive Delta) or off (negative Delta) an option.
type PlaceBet struct {
	Label domain.Label
	Delta int64
}

// Tick is one second of countdown.
type Tick struct{}

// Drop is the players asking to open the trapdoors early.
type Drop struct{}

// RevealNext drops the option under the reveal cursor.
type RevealNext struct{}

// Settle pays out the money left on the correct option.
type Settle struct{}

// Continue leaves the result screen.
type Continue struct{}

// Restart begins a new game with the same players.
type Restart struct{}

// ClearWarning removes the betting warning identified by Seq.
type ClearWarning struct {
	Seq int
}

func (SubmitNames) event()        {}
func (CategoriesOffered) event()  {}
func (ContentUnavailable) event() {}
func (RetryContent) event()       {}
func (ChooseCategory) event()     {}
func (PlaceBet) event()           {}
func (Tick) event()               {}
func (Drop) event()               {}
func (RevealNext) event()         {}
func (Settle) event()             {}
func (Continue) event()           {}
func (Restart) event()            {}
func (ClearWarning) event()       {}
