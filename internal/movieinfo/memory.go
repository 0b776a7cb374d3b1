package movieinfo

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps movies in insertion order in memory.
type MemoryStore struct {
	mu     sync.RWMutex
	order  []string
	movies map[string]MovieInfo
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{movies: make(map[string]MovieInfo)}
}

// Each iterates over a snapshot, so fn may call back into the store.
func (s *MemoryStore) Each(ctx context.Context, filter Filter, fn func(MovieInfo) error) error {
	s.mu.RLock()
	snapshot := make([]MovieInfo, 0, len(s.order))
	for _, id := range s.order {
		if m := s.movies[id]; filter.match(m) {
			snapshot = append(snapshot, clone(m))
		}
	}
	s.mu.RUnlock()

	for _, m := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (MovieInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movies[id]
	if !ok {
		return MovieInfo{}, ErrNotFound
	}
	return clone(m), nil
}

func (s *MemoryStore) Save(_ context.Context, m MovieInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[m.ID]; !ok {
		s.order = append(s.order, m.ID)
	}
	s.movies[m.ID] = clone(m)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[id]; !ok {
		return nil
	}
	delete(s.movies, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

func clone(m MovieInfo) MovieInfo {
	m.Cast = slices.Clone(m.Cast)
	return m
}
