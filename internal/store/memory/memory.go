// Package memory implements the researcher store in process memory.
// For development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/orcidgate/internal/store"
)

type Store struct {
	mu      sync.RWMutex
	byORCID map[string]*store.Researcher
	byID    map[string]*store.Researcher
}

func New() *Store {
	return &Store{
		byORCID: make(map[string]*store.Researcher),
		byID:    make(map[string]*store.Researcher),
	}
}

func (s *Store) FindOrCreate(_ context.Context, in store.UpsertResearcherInput) (*store.Researcher, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if r, ok := s.byORCID[in.ORCID]; ok {
		if in.Name != "" {
			r.Name = in.Name
		}
		r.SignInCount++
		r.LastSignInAt = &now
		r.UpdatedAt = now
		out := *r
		return &out, false, nil
	}

	r := &store.Researcher{
		ID:           uuid.NewString(),
		ORCID:        in.ORCID,
		Name:         in.Name,
		SignInCount:  1,
		LastSignInAt: &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byORCID[in.ORCID] = r
	s.byID[r.ID] = r
	out := *r
	return &out, true, nil
}

func (s *Store) GetByORCID(_ context.Context, orcid string) (*store.Researcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byORCID[orcid]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (s *Store) GetByID(_ context.Context, id string) (*store.Researcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (s *Store) List(_ context.Context, limit, offset int) ([]store.Researcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]store.Researcher, 0, len(s.byID))
	for _, r := range s.byID {
		all = append(all, *r)
	}
	sort.Slice(all, func(i, j int) bool {
		ti, tj := time.Time{}, time.Time{}
		if all[i].LastSignInAt != nil {
			ti = *all[i].LastSignInAt
		}
		if all[j].LastSignInAt != nil {
			tj = *all[j].LastSignInAt
		}
		if ti.Equal(tj) {
			return all[i].ORCID < all[j].ORCID
		}
		return ti.After(tj)
	})

	if offset >= len(all) {
		return []store.Researcher{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *Store) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byID)), nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
