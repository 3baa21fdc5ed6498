package view

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"money-drop-service/internal/domain"
	"money-drop-service/internal/game"
)

func playingState(level, countdown int) game.State {
	labels := game.VisibleLabels(level)
	bets := game.BetSet{}
	for _, l := range labels {
		bets[l] = 0
	}
	bets[domain.LabelA] = 1_500_000
	return game.State{
		Phase:    game.PhasePlaying,
		Players:  domain.Players{Player1: "Aye", Player2: "Thu"},
		Level:    level,
		Bankroll: 25_000_000,
		Labels:   labels,
		Category: "History",
		Question: &domain.Question{
			ID:            "h1",
			Text:          "Capital of France?",
			Options:       map[domain.Label]string{"A": "Rome", "B": "Paris", "C": "Oslo", "D": "Lima"},
			CorrectAnswer: domain.LabelB,
			Difficulty:    level,
			Category:      "History",
		},
		Bets:      bets,
		Countdown: countdown,
	}
}

func TestBuildHidesAnswerWhilePlaying(t *testing.T) {
	b := Build(playingState(1, 45), game.DefaultRules())
	if len(b.Slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(b.Slots))
	}
	for _, s := range b.Slots {
		if s.Correct {
			t.Fatalf("answer leaked on slot %s", s.Label)
		}
	}
	if b.Slots[0].Bundles != 3 {
		t.Fatalf("expected 3 bundles on A, got %d", b.Slots[0].Bundles)
	}
	if b.Staked != 1_500_000 || b.Unstaked != 23_500_000 {
		t.Fatalf("unexpected staked/unstaked %d/%d", b.Staked, b.Unstaked)
	}

	raw, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if bytes.Contains(raw, []byte("correctAnswer")) {
		t.Fatalf("board json must not carry the answer: %s", raw)
	}
}

func TestBuildDropAvailability(t *testing.T) {
	rules := game.DefaultRules()

	b := Build(playingState(2, 45), rules)
	if b.CanDrop || b.DropLocked || b.DropAvailableIn != 15 {
		t.Fatalf("expected drop in 15s, got %+v", b)
	}

	b = Build(playingState(2, 30), rules)
	if !b.CanDrop || b.DropAvailableIn != 0 {
		t.Fatalf("expected drop available at 30s, got %+v", b)
	}

	b = Build(playingState(6, 20), rules)
	if !b.DropLocked || b.CanDrop {
		t.Fatalf("expected locked drop on reduced board, got %+v", b)
	}
	if len(b.Slots) != 3 {
		t.Fatalf("expected 3 slots at stage 6, got %d", len(b.Slots))
	}

	b = Build(playingState(3, 10), rules)
	if !b.Hurry {
		t.Fatalf("expected hurry at 10s")
	}
}

func TestBuildFinalRevealAndOutcome(t *testing.T) {
	s := playingState(8, 0)
	s.Phase = game.PhaseResult
	s.Revealing = game.RevealFinal
	s.Eliminated = []domain.Label{domain.LabelA}
	s.Bets[domain.LabelA] = 0
	s.Bets[domain.LabelB] = 4_000_000
	s.Bankroll = 4_000_000

	b := Build(s, game.DefaultRules())
	if len(b.Slots) != 2 {
		t.Fatalf("expected 2 slots at the final stage, got %d", len(b.Slots))
	}
	if !b.Slots[0].Dropped || !b.Slots[1].Correct {
		t.Fatalf("unexpected slots %+v", b.Slots)
	}
	if b.Outcome != OutcomeWinner {
		t.Fatalf("expected winner outcome, got %s", b.Outcome)
	}

	s.Bankroll = 0
	if got := Build(s, game.DefaultRules()).Outcome; got != OutcomeLost {
		t.Fatalf("expected lost outcome, got %s", got)
	}
}

func TestTextRendererFormatsMoney(t *testing.T) {
	r := NewTextRenderer(language.English)
	if got := r.Money(25_000_000); got != "25,000,000 Ks" {
		t.Fatalf("unexpected money format %q", got)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, Build(playingState(1, 50), game.DefaultRules())); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"STAGE 1/8", "Capital of France?", "Drop available in 20s", "23,500,000 Ks"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestJSONRendererWritesLine(t *testing.T) {
	var buf bytes.Buffer
	if err := (JSONRenderer{}).Render(&buf, Build(playingState(1, 60), game.DefaultRules())); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Fatalf("expected newline-terminated json")
	}
	var decoded Board
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Phase != game.PhasePlaying || decoded.Level != 1 {
		t.Fatalf("unexpected decoded board %+v", decoded)
	}
}
