package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"money-drop-service/internal/game"
)

// Currency is appended to every amount.
const Currency = "Ks"

// Renderer writes a board for one kind of client.
type Renderer interface {
	Render(w io.Writer, b Board) error
}

// JSONRenderer writes one board per line.
type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, b Board) error {
	return json.NewEncoder(w).Encode(b)
}

// TextRenderer draws the board for a terminal.
type TextRenderer struct {
	printer *message.Printer
}

func NewTextRenderer(tag language.Tag) *TextRenderer {
	return &TextRenderer{printer: message.NewPrinter(tag)}
}

// Money formats an amount with digit grouping, e.g. "25,000,000 Ks".
func (r *TextRenderer) Money(amount int64) string {
	return r.printer.Sprintf("%d %s", amount, Currency)
}

func (r *TextRenderer) Render(w io.Writer, b Board) error {
	var sb strings.Builder
	players := fmt.Sprintf("%s & %s", b.Players.Player1, b.Players.Player2)

	switch b.Phase {
	case game.PhaseNameEntry:
		sb.WriteString("Enter both player names: names <player1> <player2>\n")
	case game.PhaseIntro:
		fmt.Fprintf(&sb, "=== STAGE %d ===\n", b.Level)
		if b.Fault != "" {
			fmt.Fprintf(&sb, "!! %s (type: retry)\n", b.Fault)
		}
	case game.PhaseCategorySelect:
		sb.WriteString("Select topic:\n")
		for i, c := range b.Categories {
			fmt.Fprintf(&sb, "  %d) %s\n", i+1, c)
		}
	case game.PhaseWinner:
		fmt.Fprintf(&sb, "*** Congratulations! ***\n%s\n%s\n(type: restart)\n", players, r.Money(b.Bankroll))
	case game.PhaseGameOver:
		fmt.Fprintf(&sb, "Game over. %s leave with nothing.\n(type: restart)\n", players)
	default:
		r.renderRound(&sb, b, players)
	}
	if b.Warning != "" {
		fmt.Fprintf(&sb, "!! %s\n", b.Warning)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *TextRenderer) renderRound(sb *strings.Builder, b Board, players string) {
	clock := fmt.Sprintf("%d", b.Countdown)
	if b.Hurry {
		clock += " !"
	}
	fmt.Fprintf(sb, "%s | %s | %s | STAGE %d/%d\n", players, r.Money(b.Bankroll), clock, b.Level, b.MaxLevel)
	fmt.Fprintf(sb, "[%s] %s\n", b.Category, b.Question)
	for _, s := range b.Slots {
		mark := " "
		switch {
		case s.Correct:
			mark = "*"
		case s.Dropped:
			mark = "x"
		case s.Falling:
			mark = "v"
		}
		fmt.Fprintf(sb, " %s %s) %-30s %s\n", mark, s.Label, s.Text, r.printer.Sprintf("%d", s.Bet))
	}
	switch b.Phase {
	case game.PhasePlaying:
		fmt.Fprintf(sb, "Unplaced: %s\n", r.Money(b.Unstaked))
		switch {
		case b.CanDrop:
			sb.WriteString("THE DROP is available (type: drop)\n")
		case b.DropLocked:
			sb.WriteString("Wait for the bell!\n")
		default:
			fmt.Fprintf(sb, "Drop available in %ds\n", b.DropAvailableIn)
		}
	case game.PhaseResult:
		switch b.Outcome {
		case OutcomeLost:
			sb.WriteString("Lost everything. (type: continue)\n")
		case OutcomeWinner:
			sb.WriteString("Final stage cleared! (type: continue)\n")
		default:
			fmt.Fprintf(sb, "Kept %s. Next stage (type: continue)\n", r.Money(b.Bankroll))
		}
	}
}
