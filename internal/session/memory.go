package session

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Record)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Trace = slices.Clone(r.Trace)
	return &r, nil
}

func (s *MemoryStore) Save(_ context.Context, r *Record) error {
	cp := *r
	cp.Trace = slices.Clone(r.Trace)

	s.mu.Lock()
	s.sessions[r.ID] = cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok, nil
}

func (s *MemoryStore) List(_ context.Context, p ListParams) ([]Record, error) {
	s.mu.RLock()
	out := make([]Record, 0, len(s.sessions))
	for _, r := range s.sessions {
		r.Trace = nil
		out = append(out, r)
	}
	s.mu.RUnlock()

	sortByActivity(out)
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

func (s *MemoryStore) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, r := range s.sessions {
		if r.LastActive.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Close() error { return nil }

// sortByActivity orders records most recently active first, ties by id.
func sortByActivity(rs []Record) {
	slices.SortFunc(rs, func(a, b Record) int {
		if c := b.LastActive.Compare(a.LastActive); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}
