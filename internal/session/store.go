package session

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const cleanupInterval = 10 * time.Minute

// Store keeps session snapshots in memory. Entries expire after the idle TTL; every Put
// refreshes it.
type Store struct {
	cache *cache.Cache
}

// NewStore creates a Store whose entries expire after ttl without a write.
func NewStore(ttl time.Duration) *Store {
	return &Store{cache: cache.New(ttl, cleanupInterval)}
}

// Put saves the snapshot under its ID.
func (s *Store) Put(state State) {
	s.cache.Set(state.ID, state, cache.DefaultExpiration)
}

// Get returns the snapshot for id.
func (s *Store) Get(id string) (State, bool) {
	if x, found := s.cache.Get(id); found {
		return x.(State), true
	}
	return State{}, false
}

// Delete removes id.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len returns the number of stored sessions, including expired ones not yet purged.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

// OnEvict registers fn to run when a session expires or is deleted. fn runs on the
// goroutine that removed the entry.
func (s *Store) OnEvict(fn func(id string)) {
	s.cache.OnEvicted(func(id string, _ interface{}) {
		fn(id)
	})
}
