package domain

import "errors"

var (
	// ErrGameNotFound is returned when a game session has not been created or was ended.
	ErrGameNotFound = errors.New("game not found")
	// ErrInvalidPhase is returned when an intent does not apply to the current phase.
	ErrInvalidPhase = errors.New("action not allowed in current phase")
	// ErrPlayerNameRequired indicates one of the two player names is blank.
	ErrPlayerNameRequired = errors.New("both player names are required")
	// ErrNoCategories indicates the provider has no categories for the first stage.
	ErrNoCategories = errors.New("no categories available")
	// ErrUnknownCategory indicates a category that was not offered this round.
	ErrUnknownCategory = errors.New("category not offered")
	// ErrNoQuestions indicates no playable question exists for a category and difficulty.
	ErrNoQuestions = errors.New("no questions available")
	// ErrLabelNotVisible indicates a bet on an option that is not on the board.
	ErrLabelNotVisible = errors.New("option not on the board")
	// ErrInvalidBetDelta indicates a bet change that is not exactly one step.
	ErrInvalidBetDelta = errors.New("bet change must be one step")
	// ErrBetExceedsBankroll indicates the bets would exceed the money available.
	ErrBetExceedsBankroll = errors.New("bets exceed bankroll")
	// ErrEmptySlotRequired indicates the bet would leave no option unfunded.
	ErrEmptySlotRequired = errors.New("at least one option must stay empty")
	// ErrDropLocked indicates the drop was requested before it is allowed.
	ErrDropLocked = errors.New("drop not available yet")
)
