package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"money-drop-service/internal/app"
	"money-drop-service/internal/config"
	"money-drop-service/internal/game"
	"money-drop-service/internal/infra/memory"
	pgstore "money-drop-service/internal/infra/postgres"
	redisstore "money-drop-service/internal/infra/redis"
)

const defaultQuestionsFile = "config/questions.yaml"

func rulesFromConfig(c config.Game) game.Rules {
	rules := game.DefaultRules()
	if c.StartingBankroll > 0 {
		rules.StartingBankroll = c.StartingBankroll
	}
	if c.BetStep > 0 {
		rules.BetStep = c.BetStep
	}
	if c.Countdown > 0 {
		rules.Countdown = c.Countdown
	}
	if c.RequireEmptySlot != nil {
		rules.RequireEmptySlot = *c.RequireEmptySlot
	}
	if c.FullBoardDrop != nil {
		rules.FullBoardDropFraction = *c.FullBoardDrop
	}
	if c.ReducedBoardDrop != nil {
		rules.ReducedBoardDropFraction = *c.ReducedBoardDrop
	}
	return rules
}

func timingsFromConfig(c config.Game) app.Timings {
	t := app.DefaultTimings()
	t.Intro = config.Duration(c.Intro, t.Intro)
	t.Reveal = config.Duration(c.Reveal, t.Reveal)
	t.Settle = config.Duration(c.Settle, t.Settle)
	t.Warning = config.Duration(c.Warning, t.Warning)
	return t
}

// backends holds the optional external connections a command opened.
type backends struct {
	redis *redis.Client
	pool  *pgxpool.Pool
}

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool
	}
	return b, nil
}

func (b *backends) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// questionProvider picks the content source (Postgres, else the YAML bank) and
// fronts it with a Redis or in-process cache.
func questionProvider(cfg config.Config, b *backends, logger *slog.Logger) (app.QuestionProvider, error) {
	var loader memory.QuestionLoader
	if b.pool != nil {
		loader = pgstore.NewQuestionLoader(b.pool)
		logger.Info("questions from postgres")
	} else {
		path := cfg.Questions.File
		if path == "" {
			path = defaultQuestionsFile
		}
		bank, err := memory.LoadQuestionBank(path)
		if err != nil {
			return nil, err
		}
		loader = bank
		logger.Info("questions from file", "path", path, "count", len(bank.Questions()))
	}

	ttl := config.Duration(cfg.Questions.TTL, 10*time.Minute)
	if b.redis != nil {
		return redisstore.NewQuestionRepository(b.redis, loader, ttl), nil
	}
	return memory.NewQuestionRepository(loader, ttl), nil
}

// sessionTTL is both the Redis checkpoint expiry and the idle eviction window.
func sessionTTL(cfg config.Config) time.Duration {
	return config.Duration(cfg.Redis.TTL, app.DefaultIdleTTL)
}

func sessionRepository(cfg config.Config, b *backends) app.SessionRepository {
	if b.redis != nil {
		return redisstore.NewSessionStore(b.redis, sessionTTL(cfg))
	}
	return memory.NewSessionStore()
}
