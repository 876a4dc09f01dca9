package cache

import (
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/releasediff/internal/render"
)

var _ Store = (*ResultStore)(nil)

// ResultStore keeps result slots in memory
type ResultStore struct {
	mu    sync.Mutex
	slots *gocache.Cache
	gen   atomic.Uint64 // shared by all entries so an expired slot never reuses a generation
}

// NewResultStore creates a store. A ttl of zero keeps slots until the
// process exits.
func NewResultStore(ttl time.Duration, cleanupInterval time.Duration) *ResultStore {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &ResultStore{
		slots: gocache.New(ttl, cleanupInterval),
	}
}

func (s *ResultStore) slot(id string) (Slot, bool) {
	if val, found := s.slots.Get(id); found {
		return val.(Slot), true
	}
	return Slot{}, false
}

// Begin registers a run and marks the slot processing. A slot holding the
// same fingerprint keeps its generation and state.
func (s *ResultStore) Begin(id, fingerprint string) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.slot(id); ok && cur.Fingerprint == fingerprint {
		return cur.Generation, false
	}

	gen := s.gen.Add(1)
	s.slots.Set(id, Slot{
		Generation:  gen,
		Fingerprint: fingerprint,
		State:       StateProcessing,
	}, gocache.DefaultExpiration)
	return gen, true
}

// Publish stores a finished result. Results of superseded runs are discarded.
func (s *ResultStore) Publish(id string, gen uint64, result render.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.slot(id)
	if !ok || cur.Generation != gen {
		return false
	}

	cur.State = StateReady
	if result.IsDegraded() {
		cur.State = StateDegraded
	}
	cur.Result = result
	s.slots.Set(id, cur, gocache.DefaultExpiration)
	return true
}

// Abandon removes the slot if gen is still current
func (s *ResultStore) Abandon(id string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.slot(id); ok && cur.Generation == gen {
		s.slots.Delete(id)
	}
}

// Get returns the entry's slot
func (s *ResultStore) Get(id string) (Slot, bool) {
	return s.slot(id)
}

// Len returns the number of slots
func (s *ResultStore) Len() int {
	return s.slots.ItemCount()
}
