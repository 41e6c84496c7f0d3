package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
	"github.com/jpp0ca/playlist-transfer/internal/ports"
)

func sampleResult(id, user string, started time.Time) *domain.TransferResult {
	completed := started.Add(90 * time.Second)
	return &domain.TransferResult{
		Success:          true,
		TransferID:       id,
		UserID:           user,
		SourceProvider:   "spotify",
		DestProvider:     "youtube",
		SourcePlaylistID: "src-1",
		Message:          "Transfer completed: 1/3 tracks transferred, 2 failed, 0 skipped",
		Statistics: domain.TransferStatistics{
			TotalTracks:          3,
			SuccessfulTracks:     1,
			FailedTracks:         2,
			OriginalPlaylistName: "Road Trip",
			NewPlaylistName:      "Road Trip (YouTube)",
			StartedAt:            started,
			CompletedAt:          &completed,
		},
		DestPlaylistID:  "PL1",
		DestPlaylistURL: "https://www.youtube.com/playlist?list=PL1",
		FailedTracks: []domain.FailedTrackRecord{
			{
				TrackName:      "Track B",
				Artist:         "Artist B",
				FailureReason:  domain.ReasonNoMatch,
				AttemptedAt:    started.Add(time.Second),
				SourceTrackID:  "b",
				SearchAttempts: []string{"Artist B Track B", "Track B"},
			},
		},
		StartedAt:   started,
		CompletedAt: &completed,
		Duration:    90 * time.Second,
		Status:      domain.TransferStatusCompleted,
	}
}

func eachStore(t *testing.T, fn func(t *testing.T, s ports.TransferStore)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := OpenSQLite(context.Background(), ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		fn(t, s)
	})
}

func TestStore_SaveAndGet(t *testing.T) {
	eachStore(t, func(t *testing.T, s ports.TransferStore) {
		ctx := context.Background()
		started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		want := sampleResult("t1", "user-1", started)

		require.NoError(t, s.Save(ctx, want))

		got, err := s.Get(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, want.TransferID, got.TransferID)
		assert.Equal(t, want.UserID, got.UserID)
		assert.Equal(t, domain.TransferStatusCompleted, got.Status)
		assert.True(t, got.Success)
		assert.Equal(t, want.Statistics.TotalTracks, got.Statistics.TotalTracks)
		assert.Equal(t, want.Statistics.SuccessfulTracks, got.Statistics.SuccessfulTracks)
		assert.Equal(t, want.Statistics.FailedTracks, got.Statistics.FailedTracks)
		assert.Equal(t, "Road Trip", got.Statistics.OriginalPlaylistName)
		assert.Equal(t, want.DestPlaylistURL, got.DestPlaylistURL)
		assert.Equal(t, 90*time.Second, got.Duration)
		assert.True(t, got.StartedAt.Equal(started))
		require.NotNil(t, got.CompletedAt)
		assert.True(t, got.CompletedAt.Equal(*want.CompletedAt))

		require.Len(t, got.FailedTracks, 1)
		assert.Equal(t, domain.ReasonNoMatch, got.FailedTracks[0].FailureReason)
		assert.Equal(t, []string{"Artist B Track B", "Track B"}, got.FailedTracks[0].SearchAttempts)
	})
}

func TestStore_SaveReplaces(t *testing.T) {
	eachStore(t, func(t *testing.T, s ports.TransferStore) {
		ctx := context.Background()
		r := sampleResult("t1", "user-1", time.Now().UTC())
		r.Status = domain.TransferStatusInProgress
		r.CompletedAt = nil
		require.NoError(t, s.Save(ctx, r))

		r.Status = domain.TransferStatusCancelled
		r.Success = false
		require.NoError(t, s.Save(ctx, r))

		got, err := s.Get(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, domain.TransferStatusCancelled, got.Status)
		assert.False(t, got.Success)
		assert.Nil(t, got.CompletedAt)

		all, err := s.List(ctx, "user-1", 1, 10)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestStore_GetMissing(t *testing.T) {
	eachStore(t, func(t *testing.T, s ports.TransferStore) {
		_, err := s.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrTransferNotFound)
	})
}

func TestStore_ListNewestFirstWithPaging(t *testing.T) {
	eachStore(t, func(t *testing.T, s ports.TransferStore) {
		ctx := context.Background()
		base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			require.NoError(t, s.Save(ctx, sampleResult(fmt.Sprintf("t%d", i), "user-1", base.Add(time.Duration(i)*time.Hour))))
		}
		require.NoError(t, s.Save(ctx, sampleResult("other", "user-2", base)))

		page1, err := s.List(ctx, "user-1", 1, 2)
		require.NoError(t, err)
		require.Len(t, page1, 2)
		assert.Equal(t, "t4", page1[0].TransferID)
		assert.Equal(t, "t3", page1[1].TransferID)

		page3, err := s.List(ctx, "user-1", 3, 2)
		require.NoError(t, err)
		require.Len(t, page3, 1)
		assert.Equal(t, "t0", page3[0].TransferID)

		beyond, err := s.List(ctx, "user-1", 9, 2)
		require.NoError(t, err)
		assert.Empty(t, beyond)

		all, err := s.List(ctx, "", 1, 50)
		require.NoError(t, err)
		assert.Len(t, all, 6)
	})
}

func TestMemoryStore_SaveSnapshots(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	r := sampleResult("t1", "user-1", time.Now())
	require.NoError(t, s.Save(ctx, r))

	r.FailedTracks = append(r.FailedTracks, domain.FailedTrackRecord{TrackName: "later"})
	r.Statistics.FailedTracks = 3

	got, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, got.FailedTracks, 1)
	assert.Equal(t, 2, got.Statistics.FailedTracks)
}
