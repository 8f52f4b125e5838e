package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/crease/internal/domain/model"
)

const backendMemory = "memory"

// MemoryStore keeps encoded snapshots in process memory. Values are stored
// encoded so callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	matches map[string][]byte
	rosters map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches: make(map[string][]byte),
		rosters: make(map[string][]byte),
	}
}

func (s *MemoryStore) SaveMatch(_ context.Context, m model.Match) (err error) {
	defer func(start time.Time) { observe(backendMemory, "save_match", start, err) }(time.Now())
	if m.ID == "" {
		return ErrInvalidID
	}
	b, err := encodeMatch(m)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.matches[m.ID] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetMatch(_ context.Context, id string) (m model.Match, err error) {
	defer func(start time.Time) { observe(backendMemory, "get_match", start, err) }(time.Now())
	s.mu.RLock()
	b, ok := s.matches[id]
	s.mu.RUnlock()
	if !ok {
		return model.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, id)
	}
	return decodeMatch(b)
}

func (s *MemoryStore) DeleteMatch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[id]; !ok {
		return fmt.Errorf("%w: match %s", ErrNotFound, id)
	}
	delete(s.matches, id)
	return nil
}

func (s *MemoryStore) ListMatches(_ context.Context) ([]string, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.matches))
	for id := range s.matches {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	slices.Sort(ids)
	return ids, nil
}

func (s *MemoryStore) SaveRoster(_ context.Context, team string, players []model.Player) error {
	if team == "" {
		return ErrInvalidID
	}
	b, err := encodeRoster(players)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.rosters[team] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetRoster(_ context.Context, team string) ([]model.Player, error) {
	s.mu.RLock()
	b, ok := s.rosters[team]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: roster %s", ErrNotFound, team)
	}
	return decodeRoster(b)
}

func (s *MemoryStore) Close() error { return nil }
