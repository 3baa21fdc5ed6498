package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"money-drop-service/internal/domain"
	"money-drop-service/internal/game"
)

// Session owns the state of one game. Every mutation, including timer callbacks,
// goes through dispatchLocked under mu.
type Session struct {
	id        string
	createdAt time.Time
	machine   game.Machine
	questions QuestionProvider
	sched     Scheduler
	timings   Timings
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	rng   *rand.Rand
	state game.State
	// epoch changes on every phase entry; callbacks armed under an older epoch are dropped.
	epoch       uint64
	timer       Timer
	warnTimer   Timer
	closed      bool
	subscribers map[chan game.State]struct{}
	// watchers counts client subscriptions; the checkpoint mirror is not one.
	watchers   int
	lastActive time.Time
}

type sessionDeps struct {
	machine   game.Machine
	questions QuestionProvider
	sched     Scheduler
	timings   Timings
	logger    *slog.Logger
	rng       *rand.Rand
	now       func() time.Time
}

func newSession(id string, deps sessionDeps) *Session {
	return &Session{
		id:          id,
		createdAt:   deps.now(),
		machine:     deps.machine,
		questions:   deps.questions,
		sched:       deps.sched,
		timings:     deps.timings,
		logger:      deps.logger.With("game_id", id),
		now:         deps.now,
		lastActive:  deps.now(),
		rng:         deps.rng,
		state:       deps.machine.Start(),
		subscribers: make(map[chan game.State]struct{}),
	}
}

// ID returns the game id.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the game was created.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// State returns the current snapshot.
func (s *Session) State() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) dispatch(ev game.Event) (game.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.state, domain.ErrGameNotFound
	}
	err := s.dispatchLocked(ev)
	return s.state, err
}

func (s *Session) dispatchLocked(ev game.Event) error {
	s.lastActive = s.now()
	prev := s.state
	next, err := s.machine.Apply(prev, ev)
	s.state = next

	_, retry := ev.(game.RetryContent)
	if err == nil && (next.Phase != prev.Phase || retry) {
		if next.Phase != prev.Phase {
			s.logger.Info("phase changed", "from", prev.Phase, "to", next.Phase, "level", next.Level, "bankroll", next.Bankroll)
		}
		s.enterPhaseLocked()
	}
	if next.WarningSeq != prev.WarningSeq && next.Warning != "" {
		s.scheduleWarningClearLocked(next.WarningSeq)
	}
	// Rejections leave the state untouched unless they raise a warning or a fault.
	if err == nil || next.WarningSeq != prev.WarningSeq || next.Fault != prev.Fault {
		s.publishLocked()
	}
	return err
}

func (s *Session) enterPhaseLocked() {
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.armLocked()
}

// armLocked schedules the next automatic step of the current phase, if any.
func (s *Session) armLocked() {
	switch s.state.Phase {
	case game.PhaseIntro:
		if s.state.Fault == "" {
			s.scheduleLocked(s.timings.Intro, s.loadCategories)
		}
	case game.PhasePlaying:
		s.scheduleLocked(s.timings.Tick, s.fire(game.Tick{}))
	case game.PhaseDropping:
		if s.state.Revealing == game.RevealFinal {
			s.scheduleLocked(s.timings.Settle, s.fire(game.Settle{}))
		} else {
			s.scheduleLocked(s.timings.Reveal, s.fire(game.RevealNext{}))
		}
	}
}

func (s *Session) scheduleLocked(d time.Duration, task func(epoch uint64)) {
	epoch := s.epoch
	s.timer = s.sched.AfterFunc(d, func() { task(epoch) })
}

// fire applies a time-driven event and chains the next step while the phase holds.
func (s *Session) fire(ev game.Event) func(epoch uint64) {
	return func(epoch uint64) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || epoch != s.epoch {
			return
		}
		if err := s.dispatchLocked(ev); err != nil {
			s.logger.Warn("scheduled step rejected", "event", fmt.Sprintf("%T", ev), "error", err)
			return
		}
		if s.epoch == epoch {
			s.armLocked()
		}
	}
}

func (s *Session) scheduleWarningClearLocked(seq int) {
	if s.warnTimer != nil {
		s.warnTimer.Stop()
	}
	s.warnTimer = s.sched.AfterFunc(s.timings.Warning, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		_ = s.dispatchLocked(game.ClearWarning{Seq: seq})
	})
}

// loadCategories runs after the intro banner. Provider I/O happens outside the lock.
func (s *Session) loadCategories(epoch uint64) {
	s.mu.Lock()
	if s.closed || epoch != s.epoch {
		s.mu.Unlock()
		return
	}
	level := s.state.Level
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timings.Fetch)
	defer cancel()
	available, err := s.questions.ListCategories(ctx, level)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || epoch != s.epoch {
		return
	}
	if err != nil {
		s.logger.Error("list categories failed", "level", level, "error", err)
		_ = s.dispatchLocked(game.ContentUnavailable{Reason: "question bank unavailable"})
		return
	}
	offered := game.SampleCategories(s.rng, available, game.OfferedCategories)
	if err := s.dispatchLocked(game.CategoriesOffered{Categories: offered}); err != nil {
		s.logger.Warn("no categories for stage", "level", level, "error", err)
	}
}

func (s *Session) chooseCategory(ctx context.Context, category string) (game.State, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return game.State{}, domain.ErrGameNotFound
	}
	current := s.state
	epoch := s.epoch
	s.mu.Unlock()

	if current.Phase != game.PhaseCategorySelect {
		return current, domain.ErrInvalidPhase
	}
	if !current.Offered(category) {
		return current, domain.ErrUnknownCategory
	}

	candidates, err := s.questions.ListQuestions(ctx, category, current.Level)
	if err != nil {
		return current, fmt.Errorf("list questions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.state, domain.ErrGameNotFound
	}
	if epoch != s.epoch {
		return s.state, domain.ErrInvalidPhase
	}
	q, err := game.PickQuestion(s.rng, candidates, s.state.Level, s.state.IsRetired)
	if err != nil {
		return s.state, err
	}
	err = s.dispatchLocked(game.ChooseCategory{Category: category, Question: q})
	return s.state, err
}

// Close stops every pending timer and ends subscriptions. Callbacks already in
// flight observe the closed session and do nothing.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.warnTimer != nil {
		s.warnTimer.Stop()
		s.warnTimer = nil
	}
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// subscribe registers a snapshot channel. A watcher is a client; the game counts
// as unattended once the last watcher leaves.
func (s *Session) subscribe(watcher bool) (<-chan game.State, func()) {
	ch := make(chan game.State, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	if watcher {
		s.watchers++
	}
	ch <- s.state
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
			if watcher {
				s.watchers--
				s.lastActive = s.now()
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// idle reports whether nobody watches the game and nothing happened in it for ttl.
func (s *Session) idle(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchers == 0 && now.Sub(s.lastActive) >= ttl
}

// abandoned reports a finished game that no client watches any more.
func (s *Session) abandoned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchers == 0 && s.state.Phase.Terminal()
}

func (s *Session) publishLocked() {
	for ch := range s.subscribers {
		select {
		case ch <- s.state:
		default:
			// Slow subscriber: drop its oldest snapshot, the newest one wins.
			select {
			case <-ch:
			default:
			}
			ch <- s.state
		}
	}
}
