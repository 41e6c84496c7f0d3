package cache

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
)

// -- Mock destination --------------------------------------------------------

type countingDestination struct {
	mu       sync.Mutex
	searches int
	err      error
}

func (d *countingDestination) Name() string { return "dest" }
func (d *countingDestination) ValidateCredentials(_ context.Context, _ string) error {
	return nil
}
func (d *countingDestination) SearchCandidates(_ context.Context, query string, _ int) ([]domain.SearchCandidate, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.searches++
	if d.err != nil {
		return nil, d.err
	}
	return []domain.SearchCandidate{{ID: "v-" + query, Title: query}}, nil
}
func (d *countingDestination) CreatePlaylist(_ context.Context, _, _, _ string, _ bool) (string, error) {
	return "pl", nil
}
func (d *countingDestination) AddToPlaylist(_ context.Context, _, _, _ string) error { return nil }
func (d *countingDestination) PlaylistURL(id string) string                      { return "url/" + id }

// -- MemoryStore -------------------------------------------------------------

func TestMemoryStore_SetGetClear(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", []domain.SearchCandidate{{ID: "a"}}))
	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", got[0].ID)

	// returned slices are copies
	got[0].ID = "mutated"
	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "a", again[0].ID)

	require.NoError(t, s.Clear(ctx))
	assert.Zero(t, s.Len())
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	require.NoError(t, s.Set(ctx, "k", []domain.SearchCandidate{{ID: "a"}}))

	now = now.Add(2 * time.Minute)
	_, ok, _ := s.Get(ctx, "k")
	assert.False(t, ok)

	s.purge()
	assert.Zero(t, s.Len())
}

// -- Destination -------------------------------------------------------------

func TestDestination_CachesSearches(t *testing.T) {
	inner := &countingDestination{}
	store := NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	logger, _ := logtest.NewNullLogger()
	d := NewDestination(inner, store, logger)
	ctx := context.Background()

	first, err := d.SearchCandidates(ctx, "Daft Punk One More Time", 5)
	require.NoError(t, err)
	second, err := d.SearchCandidates(ctx, "  daft punk one more time ", 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.searches)

	_, err = d.SearchCandidates(ctx, "Daft Punk One More Time", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.searches, "different limits are cached separately")

	require.NoError(t, d.Clear(ctx))
	_, err = d.SearchCandidates(ctx, "Daft Punk One More Time", 5)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.searches)
}

func TestDestination_ErrorsAreNotCached(t *testing.T) {
	inner := &countingDestination{err: errors.New("quota")}
	store := NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	d := NewDestination(inner, store, nil)
	ctx := context.Background()

	_, err := d.SearchCandidates(ctx, "q", 5)
	require.Error(t, err)
	_, err = d.SearchCandidates(ctx, "q", 5)
	require.Error(t, err)

	assert.Equal(t, 2, inner.searches)
	assert.Zero(t, store.Len())
}

func TestDestination_DelegatesOtherCalls(t *testing.T) {
	d := NewDestination(&countingDestination{}, NewMemoryStore(time.Minute), nil)

	assert.Equal(t, "dest", d.Name())
	assert.Equal(t, "url/x", d.PlaylistURL("x"))
	id, err := d.CreatePlaylist(context.Background(), "tok", "t", "d", false)
	require.NoError(t, err)
	assert.Equal(t, "pl", id)
}

// -- RedisStore --------------------------------------------------------------

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_ADDRESS not set")
	}
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: addr})
	s := NewRedisStoreFromClient(client, "playlist-transfer-test:"+t.Name()+":", time.Minute)
	t.Cleanup(func() {
		_ = s.Clear(ctx)
		_ = s.Close()
	})

	require.NoError(t, s.Set(ctx, "k1", []domain.SearchCandidate{{ID: "a", Title: "A"}}))
	require.NoError(t, s.Set(ctx, "k2", []domain.SearchCandidate{{ID: "b"}}))

	got, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", got[0].Title)

	require.NoError(t, s.Clear(ctx))
	_, ok, err = s.Get(ctx, "k2")
	require.NoError(t, err)
	assert.False(t, ok)
}
