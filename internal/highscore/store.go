// Package highscore persists the best score per (level, mode) pair as a
// single JSON record in a key-value backend.
package highscore

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/playperu/mathquiz/internal/mathquiz"
)

// Key is the storage key of the high-score record.
const Key = "mathGameHighScores"

// MaxEntries caps the persisted table.
const MaxEntries = 10

var ErrNotFound = errors.New("not found")

// KV is the durable storage behind Store. Get returns ErrNotFound for a
// missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store keeps at most one entry per (level, mode), at most MaxEntries in
// total, sorted by score descending.
type Store struct {
	kv     KV
	logger *slog.Logger

	// mu makes each read-modify-write atomic within the process.
	mu sync.Mutex
}

func NewStore(kv KV, logger *slog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// RecordIfBest stores hs when no entry exists for its (level, mode) or hs
// beats it. It reports whether the table changed.
func (s *Store) RecordIfBest(ctx context.Context, hs mathquiz.HighScore) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	idx := slices.IndexFunc(entries, func(e mathquiz.HighScore) bool {
		return e.Level == hs.Level && e.Mode == hs.Mode
	})
	if idx >= 0 && hs.Score <= entries[idx].Score {
		return false, nil
	}
	if idx >= 0 {
		entries = slices.Delete(entries, idx, idx+1)
	}

	entries = append(entries, hs)
	slices.SortStableFunc(entries, func(a, b mathquiz.HighScore) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	if err := s.save(ctx, entries); err != nil {
		return false, err
	}
	s.logger.Info("high score recorded", "level", hs.Level, "mode", hs.Mode, "score", hs.Score)
	return true, nil
}

// LoadAll returns the table, best first. An empty table is not an error.
func (s *Store) LoadAll(ctx context.Context) ([]mathquiz.HighScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// ClearAll removes every entry.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, Key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("clearing high scores: %w", err)
	}
	s.logger.Info("high scores cleared")
	return nil
}

func (s *Store) load(ctx context.Context) ([]mathquiz.HighScore, error) {
	data, err := s.kv.Get(ctx, Key)
	if errors.Is(err, ErrNotFound) {
		return []mathquiz.HighScore{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading high scores: %w", err)
	}

	var entries []mathquiz.HighScore
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("discarding malformed high scores", "error", err)
		return []mathquiz.HighScore{}, nil
	}
	if entries == nil {
		entries = []mathquiz.HighScore{}
	}
	return entries, nil
}

func (s *Store) save(ctx context.Context, entries []mathquiz.HighScore) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding high scores: %w", err)
	}
	if err := s.kv.Put(ctx, Key, data); err != nil {
		return fmt.Errorf("saving high scores: %w", err)
	}
	return nil
}
