package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/mathquiz/internal/mathquiz"
)

var ErrNotFound = errors.New("not found")

// SessionFactory builds a session that reports to presenter.
type SessionFactory func(presenter mathquiz.Presenter) *mathquiz.Session

type game struct {
	id       string
	session  *mathquiz.Session
	lastSeen time.Time
}

// Registry owns the live game sessions, keyed by game ID.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*game

	newSession SessionFactory
	broker     *Broker
	logger     *slog.Logger
	ttl        time.Duration
	now        func() time.Time
}

func NewRegistry(logger *slog.Logger, broker *Broker, ttl time.Duration, newSession SessionFactory) *Registry {
	return &Registry{
		games:      make(map[string]*game),
		newSession: newSession,
		broker:     broker,
		logger:     logger,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Create starts a new game and registers it.
func (r *Registry) Create(level mathquiz.Level, mode mathquiz.Mode) (string, *mathquiz.Session, error) {
	id := uuid.NewString()
	s := r.newSession(brokerPresenter{broker: r.broker, gameID: id})
	if err := s.Start(level, mode); err != nil {
		return "", nil, fmt.Errorf("starting game: %w", err)
	}

	r.mu.Lock()
	r.games[id] = &game{id: id, session: s, lastSeen: r.now()}
	r.mu.Unlock()

	r.logger.Info("game created", "game_id", id, "level", level, "mode", mode)
	return id, s, nil
}

// Get returns the session for id and marks it as recently used.
func (r *Registry) Get(id string) (*mathquiz.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	g.lastSeen = r.now()
	return g.session, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Sweep drops games idle for longer than the TTL without recording their
// scores. It returns the number of games removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*game
	for id, g := range r.games {
		if g.lastSeen.Before(cutoff) {
			expired = append(expired, g)
			delete(r.games, id)
		}
	}
	r.mu.Unlock()

	for _, g := range expired {
		g.session.Reset()
		r.broker.Publish(g.id, GameEvent{Type: EventExpired})
	}
	if len(expired) > 0 {
		r.logger.Info("expired idle games", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) error {
	interval := max(r.ttl/2, time.Second)
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			r.Sweep()
		}
	}
}

// Close stops every game without recording scores.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, g := range r.games {
		g.session.Reset()
		delete(r.games, id)
	}
	return nil
}
