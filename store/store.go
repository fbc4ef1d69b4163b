package store

import (
	"sync"

	"github.com/Dosada05/portal-arena/models"
)

// TournamentStore holds the canonical tournament snapshots for the lifetime
// of the process. It is constructed once in main and injected everywhere a
// snapshot is read or replaced; there is no ambient global registry.
//
// Get and Put deep-copy, so a snapshot handed to a caller never aliases
// canonical state. Update runs a read-modify-write atomically under the
// store lock.
type TournamentStore struct {
	mu          sync.RWMutex
	tournaments map[string]*models.Tournament
}

func NewTournamentStore() *TournamentStore {
	return &TournamentStore{
		tournaments: make(map[string]*models.Tournament),
	}
}

func (s *TournamentStore) Get(id string) (*models.Tournament, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tournaments[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

func (s *TournamentStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tournaments[id]
	return ok
}

// Put stores the snapshot as canonical for its id, overwriting any previous
// state without merging.
func (s *TournamentStore) Put(t *models.Tournament) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournaments[t.ID] = t.Clone()
}

// PutIfAbsent stores the snapshot only if its id is free, reporting whether
// it was stored. Used by the join-code allocation loop so that checking and
// claiming a code is one atomic step.
func (s *TournamentStore) PutIfAbsent(t *models.Tournament) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tournaments[t.ID]; ok {
		return false
	}
	s.tournaments[t.ID] = t.Clone()
	return true
}

// Update applies fn to the canonical snapshot for id and returns a copy of
// the result. fn receives the canonical copy directly; returning an error
// leaves the store untouched.
func (s *TournamentStore) Update(id string, fn func(*models.Tournament) error) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tournaments[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := t.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	s.tournaments[id] = updated
	return updated.Clone(), nil
}

func (s *TournamentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tournaments)
}
