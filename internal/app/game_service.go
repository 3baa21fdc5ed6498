package app

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"money-drop-service/internal/domain"
	"money-drop-service/internal/game"
)

// SessionRepository abstracts where live game sessions are kept (in-memory, Redis-backed, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(gameID string) (*Session, bool)
	Delete(gameID string)
	// IDs lists the games held by this process.
	IDs() []string
	// Checkpoint records the latest state of a game. Implementations may treat it as best effort.
	Checkpoint(ctx context.Context, gameID string, state game.State) error
}

// QuestionProvider answers the two content queries the game needs.
type QuestionProvider interface {
	ListCategories(ctx context.Context, difficulty int) ([]string, error)
	ListQuestions(ctx context.Context, category string, difficulty int) ([]domain.Question, error)
}

// Options tunes a GameService. Zero values fall back to defaults.
type Options struct {
	Rules     game.Rules
	Timings   Timings
	Scheduler Scheduler
	Logger    *slog.Logger
	IdleTTL   time.Duration // unwatched games with no activity for this long are evicted
	NewID     func() string
	Seed      func() int64
	Clock     func() time.Time
}

// DefaultIdleTTL bounds how long an abandoned game stays in memory.
const DefaultIdleTTL = 30 * time.Minute

// GameService contains the game use cases.
type GameService struct {
	sessions  SessionRepository
	questions QuestionProvider
	machine   game.Machine
	timings   Timings
	sched     Scheduler
	logger    *slog.Logger
	idleTTL   time.Duration
	newID     func() string
	seed      func() int64
	clock     func() time.Time
}

func NewGameService(store SessionRepository, questions QuestionProvider, opts Options) *GameService {
	rules := opts.Rules
	if rules == (game.Rules{}) {
		rules = game.DefaultRules()
	}
	svc := &GameService{
		sessions:  store,
		questions: questions,
		machine:   game.NewMachine(rules),
		timings:   opts.Timings.withDefaults(),
		sched:     opts.Scheduler,
		logger:    opts.Logger,
		idleTTL:   opts.IdleTTL,
		newID:     opts.NewID,
		seed:      opts.Seed,
		clock:     opts.Clock,
	}
	if svc.sched == nil {
		svc.sched = RealScheduler{}
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.idleTTL <= 0 {
		svc.idleTTL = DefaultIdleTTL
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	if svc.seed == nil {
		svc.seed = func() int64 { return time.Now().UnixNano() }
	}
	if svc.clock == nil {
		svc.clock = time.Now
	}
	return svc
}

// Rules returns the rules every game of this service plays by.
func (s *GameService) Rules() game.Rules {
	return s.machine.Rules()
}

// Create starts a new game waiting for player names.
func (s *GameService) Create(_ context.Context) (string, game.State, error) {
	id := s.newID()
	session := newSession(id, sessionDeps{
		machine:   s.machine,
		questions: s.questions,
		sched:     s.sched,
		timings:   s.timings,
		logger:    s.logger,
		rng:       rand.New(rand.NewSource(s.seed())),
		now:       s.clock,
	})
	s.sessions.Put(session)

	updates, _ := session.subscribe(false)
	go s.checkpoint(id, updates)

	s.logger.Info("game created", "game_id", id)
	return id, session.State(), nil
}

// checkpoint mirrors every state change into the session repository until the game ends.
func (s *GameService) checkpoint(gameID string, updates <-chan game.State) {
	for state := range updates {
		ctx, cancel := context.WithTimeout(context.Background(), s.timings.Fetch)
		if err := s.sessions.Checkpoint(ctx, gameID, state); err != nil {
			s.logger.Warn("checkpoint failed", "game_id", gameID, "error", err)
		}
		cancel()
	}
}

// State returns the current snapshot of a game.
func (s *GameService) State(_ context.Context, gameID string) (game.State, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return game.State{}, domain.ErrGameNotFound
	}
	return session.State(), nil
}

// SubmitNames registers both players and starts the first stage.
func (s *GameService) SubmitNames(_ context.Context, gameID, player1, player2 string) (game.State, error) {
	return s.dispatch(gameID, game.SubmitNames{Player1: player1, Player2: player2})
}

// ChooseCategory loads a question from the chosen category and starts the round.
func (s *GameService) ChooseCategory(ctx context.Context, gameID, category string) (game.State, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return game.State{}, domain.ErrGameNotFound
	}
	return session.chooseCategory(ctx, category)
}

// PlaceBet moves delta (plus or minus one bet step) onto an option.
func (s *GameService) PlaceBet(_ context.Context, gameID string, label domain.Label, delta int64) (game.State, error) {
	return s.dispatch(gameID, game.PlaceBet{Label: label, Delta: delta})
}

// RaiseBet adds one bet step to an option.
func (s *GameService) RaiseBet(ctx context.Context, gameID string, label domain.Label) (game.State, error) {
	return s.PlaceBet(ctx, gameID, label, s.Rules().BetStep)
}

// LowerBet removes one bet step from an option.
func (s *GameService) LowerBet(ctx context.Context, gameID string, label domain.Label) (game.State, error) {
	return s.PlaceBet(ctx, gameID, label, -s.Rules().BetStep)
}

// Drop opens the trapdoors before the countdown ends.
func (s *GameService) Drop(_ context.Context, gameID string) (game.State, error) {
	return s.dispatch(gameID, game.Drop{})
}

// Continue leaves the result screen.
func (s *GameService) Continue(_ context.Context, gameID string) (game.State, error) {
	return s.dispatch(gameID, game.Continue{})
}

// Restart replays a finished game with the same players.
func (s *GameService) Restart(_ context.Context, gameID string) (game.State, error) {
	return s.dispatch(gameID, game.Restart{})
}

// RetryContent re-runs the stage fetch after a content fault.
func (s *GameService) RetryContent(_ context.Context, gameID string) (game.State, error) {
	return s.dispatch(gameID, game.RetryContent{})
}

// Subscribe returns a channel of state snapshots for a game.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, gameID string) (<-chan game.State, func(), error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return nil, nil, domain.ErrGameNotFound
	}
	ch, cancel := session.subscribe(true)
	return ch, cancel, nil
}

// Leave is called when a client disconnects. A finished game nobody watches is dropped.
func (s *GameService) Leave(ctx context.Context, gameID string) {
	session, ok := s.sessions.Get(gameID)
	if !ok || !session.abandoned() {
		return
	}
	_ = s.End(ctx, gameID)
}

// EvictIdle ends every unwatched game that saw no activity for the idle TTL and
// returns how many were dropped.
func (s *GameService) EvictIdle(ctx context.Context) int {
	now := s.clock()
	evicted := 0
	for _, id := range s.sessions.IDs() {
		session, ok := s.sessions.Get(id)
		if !ok || !session.idle(now, s.idleTTL) {
			continue
		}
		if err := s.End(ctx, id); err == nil {
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Info("idle games evicted", "count", evicted)
	}
	return evicted
}

// RunJanitor sweeps idle games every interval until ctx is done.
func (s *GameService) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.EvictIdle(ctx)
		}
	}
}

// End stops a game and forgets it.
func (s *GameService) End(_ context.Context, gameID string) error {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.ErrGameNotFound
	}
	session.Close()
	s.sessions.Delete(gameID)
	s.logger.Info("game ended", "game_id", gameID)
	return nil
}

func (s *GameService) dispatch(gameID string, ev game.Event) (game.State, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return game.State{}, domain.ErrGameNotFound
	}
	return session.dispatch(ev)
}
