package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
	"github.com/jpp0ca/playlist-transfer/internal/ports"
)

// MemoryStore keeps transfers in process. It is the default when no database
// path is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]domain.TransferResult
}

var _ ports.TransferStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]domain.TransferResult)}
}

// Save stores a snapshot of r; later changes to r are not visible.
func (s *MemoryStore) Save(_ context.Context, r *domain.TransferResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[r.TransferID] = snapshot(*r)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, transferID string) (*domain.TransferResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[transferID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransferNotFound, transferID)
	}
	out := snapshot(r)
	return &out, nil
}

// List returns a page of a user's transfers, newest first. An empty userID
// lists every transfer.
func (s *MemoryStore) List(_ context.Context, userID string, page, pageSize int) ([]domain.TransferResult, error) {
	s.mu.RLock()
	matched := make([]domain.TransferResult, 0, len(s.items))
	for _, r := range s.items {
		if userID == "" || r.UserID == userID {
			matched = append(matched, snapshot(r))
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].StartedAt.Equal(matched[j].StartedAt) {
			return matched[i].StartedAt.After(matched[j].StartedAt)
		}
		return matched[i].TransferID < matched[j].TransferID
	})

	offset, limit := pageBounds(page, pageSize)
	if offset >= len(matched) {
		return []domain.TransferResult{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func snapshot(r domain.TransferResult) domain.TransferResult {
	r.FailedTracks = append([]domain.FailedTrackRecord{}, r.FailedTracks...)
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		r.CompletedAt = &t
	}
	if r.Statistics.CompletedAt != nil {
		t := *r.Statistics.CompletedAt
		r.Statistics.CompletedAt = &t
	}
	return r
}
