package game_test

import (
	"errors"
	"math/rand"
	"testing"

	"money-drop-service/internal/domain"
	"money-drop-service/internal/game"
)

func TestSampleCategoriesPicksTwoDistinct(t *testing.T) {
	available := []string{"History", "Science", "Music", "Science", "History"}
	allowed := map[string]bool{"History": true, "Science": true, "Music": true}

	for seed := int64(0); seed < 50; seed++ {
		got := game.SampleCategories(rand.New(rand.NewSource(seed)), available, game.OfferedCategories)
		if len(got) != 2 {
			t.Fatalf("seed %d: expected 2 categories, got %v", seed, got)
		}
		if got[0] == got[1] {
			t.Fatalf("seed %d: duplicate category %v", seed, got)
		}
		for _, c := range got {
			if !allowed[c] {
				t.Fatalf("seed %d: unexpected category %q", seed, c)
			}
		}
	}
}

func TestSampleCategoriesWithFewerThanTwo(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if got := game.SampleCategories(rng, []string{"Music", "Music"}, 2); len(got) != 1 || got[0] != "Music" {
		t.Fatalf("expected only Music, got %v", got)
	}
	if got := game.SampleCategories(rng, nil, 2); len(got) != 0 {
		t.Fatalf("expected no categories, got %v", got)
	}
}

func TestPickQuestionAvoidsRetired(t *testing.T) {
	candidates := []domain.Question{
		question("q1", domain.LabelA, 1),
		question("q2", domain.LabelB, 1),
		question("q3", domain.LabelC, 1),
	}
	retired := map[string]bool{"q1": true, "q3": true}

	for seed := int64(0); seed < 20; seed++ {
		got, err := game.PickQuestion(rand.New(rand.NewSource(seed)), candidates, 1, func(id string) bool { return retired[id] })
		if err != nil {
			t.Fatalf("pick: %v", err)
		}
		if got.ID != "q2" {
			t.Fatalf("seed %d: expected the only fresh question q2, got %s", seed, got.ID)
		}
	}
}

func TestPickQuestionFallsBackWhenExhausted(t *testing.T) {
	candidates := []domain.Question{question("q1", domain.LabelA, 1)}
	got, err := game.PickQuestion(rand.New(rand.NewSource(1)), candidates, 1, func(string) bool { return true })
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if got.ID != "q1" {
		t.Fatalf("expected repeat of q1, got %s", got.ID)
	}
}

func TestPickQuestionSkipsAnswersOffTheBoard(t *testing.T) {
	candidates := []domain.Question{
		question("q-d", domain.LabelD, 8),
		question("q-c", domain.LabelC, 8),
	}
	_, err := game.PickQuestion(rand.New(rand.NewSource(1)), candidates, 8, nil)
	if !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions for stage 8, got %v", err)
	}

	got, err := game.PickQuestion(rand.New(rand.NewSource(1)), candidates, 5, nil)
	if err != nil {
		t.Fatalf("pick stage 5: %v", err)
	}
	if got.ID != "q-c" {
		t.Fatalf("expected q-c on a three option board, got %s", got.ID)
	}
}
