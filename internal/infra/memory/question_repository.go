package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"money-drop-service/internal/domain"
)

// QuestionLoader fetches question content from a backing store (YAML bank, Postgres).
type QuestionLoader interface {
	ListCategories(ctx context.Context, difficulty int) ([]string, error)
	ListQuestions(ctx context.Context, category string, difficulty int) ([]domain.Question, error)
}

// QuestionRepository caches loader results with TTL to avoid repeated DB hits.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedEntry
}

type cachedEntry struct {
	value     any
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedEntry),
	}
}

func (r *QuestionRepository) ListCategories(ctx context.Context, difficulty int) ([]string, error) {
	v, err := r.get(ctx, fmt.Sprintf("categories:%d", difficulty), func() (any, error) {
		return r.loader.ListCategories(ctx, difficulty)
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (r *QuestionRepository) ListQuestions(ctx context.Context, category string, difficulty int) ([]domain.Question, error) {
	v, err := r.get(ctx, fmt.Sprintf("questions:%d:%s", difficulty, category), func() (any, error) {
		return r.loader.ListQuestions(ctx, category, difficulty)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Question), nil
}

func (r *QuestionRepository) get(_ context.Context, key string, load func() (any, error)) (any, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.value, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.value, nil
		}
		r.mu.RUnlock()

		value, err := load()
		if err != nil {
			return nil, err
		}
		// Empty content is not cached so a freshly seeded store shows up on the next fetch.
		if isEmpty(value) {
			return value, nil
		}

		r.mu.Lock()
		r.cache[key] = cachedEntry{
			value:     value,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
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
