// Package cache keeps destination search results so that repeated queries,
// within one transfer or across transfers, do not spend API quota twice.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
)

// Store holds search results by key.
type Store interface {
	Get(ctx context.Context, key string) ([]domain.SearchCandidate, bool, error)
	Set(ctx context.Context, key string, candidates []domain.SearchCandidate) error
	Clear(ctx context.Context) error
}

// entry represents a cached result with expiration
type entry struct {
	candidates []domain.SearchCandidate
	expiration time.Time
}

func (e *entry) expired(now time.Time) bool {
	return now.After(e.expiration)
}

// MemoryStore is an in-process Store with a fixed TTL.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*entry
	ttl   time.Duration
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryStore creates a memory store and starts its cleanup loop. Call
// Close to stop the loop.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		items: make(map[string]*entry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go s.cleanupExpired(5 * time.Minute)
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]domain.SearchCandidate, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[key]
	if !ok || e.expired(s.now()) {
		return nil, false, nil
	}
	return append([]domain.SearchCandidate(nil), e.candidates...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, candidates []domain.SearchCandidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = &entry{
		candidates: append([]domain.SearchCandidate(nil), candidates...),
		expiration: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*entry)
	return nil
}

// Len returns the number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Close stops the cleanup loop.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.purge()
		}
	}
}

func (s *MemoryStore) purge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.items {
		if e.expired(now) {
			delete(s.items, key)
		}
	}
}
