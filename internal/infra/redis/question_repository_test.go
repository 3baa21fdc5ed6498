package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"money-drop-service/internal/domain"
	"money-drop-service/internal/infra/memory"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{QuestionLoader: memory.NewQuestionBank(sampleQuestions())}
	repo := NewQuestionRepository(client, loader, time.Minute)

	cats, err := repo.ListCategories(context.Background(), 1)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %v", cats)
	}
	if !mr.Exists("questions:1:categories") {
		t.Fatalf("expected categories cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	_, _ = repo.ListCategories(context.Background(), 1)
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}

	qs, err := repo.ListQuestions(context.Background(), "History", 1)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(qs) != 1 || qs[0].ID != "h1" || qs[0].Option(domain.LabelB) != "Paris" {
		t.Fatalf("unexpected questions %+v", qs)
	}
	qs, _ = repo.ListQuestions(context.Background(), "History", 1)
	if loader.calls != 2 || len(qs) != 1 {
		t.Fatalf("expected cached questions, loader calls=%d", loader.calls)
	}
}

func TestQuestionRepositoryReloadsAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuestionLoader: memory.NewQuestionBank(sampleQuestions())}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute)

	_, _ = repo.ListCategories(context.Background(), 1)
	mr.FastForward(2 * time.Minute)
	_, _ = repo.ListCategories(context.Background(), 1)
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls=%d", loader.calls)
	}
}

func TestQuestionRepositoryDoesNotCacheEmptyCategories(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuestionLoader: memory.NewQuestionBank(nil)}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute)

	for i := 0; i < 2; i++ {
		cats, err := repo.ListCategories(context.Background(), 1)
		if err != nil {
			t.Fatalf("list categories: %v", err)
		}
		if len(cats) != 0 {
			t.Fatalf("expected no categories, got %v", cats)
		}
	}
	if mr.Exists("questions:1:categories") {
		t.Fatalf("empty category list must not be cached")
	}
	if loader.calls != 2 {
		t.Fatalf("expected loader hit on every call, got %d", loader.calls)
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) ListCategories(ctx context.Context, difficulty int) ([]string, error) {
	l.calls++
	return l.QuestionLoader.ListCategories(ctx, difficulty)
}

func (l *countingLoader) ListQuestions(ctx context.Context, category string, difficulty int) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.ListQuestions(ctx, category, difficulty)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:   "h1",
			Text: "Which city hosted the first modern Olympics?",
			Options: map[domain.Label]string{
				domain.LabelA: "Athens", domain.LabelB: "Paris", domain.LabelC: "London", domain.LabelD: "Rome",
			},
			CorrectAnswer: domain.LabelA,
			Difficulty:    1,
			Category:      "History",
		},
		{
			ID:   "s1",
			Text: "What is H2O?",
			Options: map[domain.Label]string{
				domain.LabelA: "Salt", domain.LabelB: "Water", domain.LabelC: "Air", domain.LabelD: "Gold",
			},
			CorrectAnswer: domain.LabelB,
			Difficulty:    1,
			Category:      "Science",
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
