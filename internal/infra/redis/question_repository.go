package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"money-drop-service/internal/domain"
)

// QuestionLoader fetches question content from a backing store (YAML bank, Postgres).
type QuestionLoader interface {
	ListCategories(ctx context.Context, difficulty int) ([]string, error)
	ListQuestions(ctx context.Context, category string, difficulty int) ([]domain.Question, error)
}

// QuestionRepository caches question content in Redis and falls back to a loader on cache miss.
// Categories are stored as:  SET questions:{difficulty}:categories <json []string>
// Questions are stored as:   SET questions:{difficulty}:category:{category} <json []Question>
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) ListCategories(ctx context.Context, difficulty int) ([]string, error) {
	var out []string
	err := r.cached(ctx, r.categoriesKey(difficulty), &out, func() (any, error) {
		return r.loader.ListCategories(ctx, difficulty)
	})
	return out, err
}

func (r *QuestionRepository) ListQuestions(ctx context.Context, category string, difficulty int) ([]domain.Question, error) {
	var out []domain.Question
	err := r.cached(ctx, r.questionsKey(difficulty, category), &out, func() (any, error) {
		return r.loader.ListQuestions(ctx, category, difficulty)
	})
	return out, err
}

// cached decodes key into dst, loading and storing it on a miss.
func (r *QuestionRepository) cached(ctx context.Context, key string, dst any, load func() (any, error)) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(raw, dst)
	}
	if !errors.Is(err, redis.Nil) {
		return fmt.Errorf("read cache %s: %w", key, err)
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
			return raw, nil
		}

		value, err := load()
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		// A failed write only costs a reload next time. Empty lists are never
		// stored so newly seeded content is picked up on retry.
		if !isEmpty(value) {
			_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(result.([]byte), dst)
}

func (r *QuestionRepository) categoriesKey(difficulty int) string {
	return fmt.Sprintf("questions:%d:categories", difficulty)
}

func (r *QuestionRepository) questionsKey(difficulty int, category string) string {
	return fmt.Sprintf("questions:%d:category:%s", difficulty, category)
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case []string:
		return len(v) == 0
	case []domain.Question:
		return len(v) == 0
	}
	return value == nil
}
