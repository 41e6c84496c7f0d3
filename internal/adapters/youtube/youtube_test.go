package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
)

func newTestProvider(t *testing.T, apiKey string, handler http.Handler) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger, _ := logtest.NewNullLogger()
	return NewProvider(srv.Client(), srv.URL, apiKey, logger)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSearchCandidates_WithDurations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Daft Punk One More Time", q.Get("q"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "10", q.Get("videoCategoryId"))
		assert.Equal(t, "5", q.Get("maxResults"))
		assert.Equal(t, "api-key", q.Get("key"))
		assert.Empty(t, r.Header.Get("Authorization"))

		writeJSON(w, http.StatusOK, map[string]any{
			"items": []any{
				map[string]any{
					"id": map[string]any{"videoId": "v1"},
					"snippet": map[string]any{
						"title":        "Daft Punk - One More Time (Official Video)",
						"channelTitle": "Daft Punk",
						"publishedAt":  "2009-10-24T08:00:00Z",
						"thumbnails":   map[string]any{"default": map[string]any{"url": "https://img/1.jpg"}},
					},
				},
				map[string]any{"id": map[string]any{"channelId": "c1"}, "snippet": map[string]any{"title": "channel"}},
				map[string]any{
					"id":      map[string]any{"videoId": "v2"},
					"snippet": map[string]any{"title": "One More Time (Live)", "channelTitle": "Fan"},
				},
			},
		})
	})
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v1,v2", r.URL.Query().Get("id"))
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []any{
				map[string]any{"id": "v1", "contentDetails": map[string]any{"duration": "PT5M20S"}},
			},
		})
	})
	p := newTestProvider(t, "api-key", mux)

	candidates, err := p.SearchCandidates(context.Background(), "Daft Punk One More Time", 5)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "v1", candidates[0].ID)
	assert.Equal(t, "Daft Punk", candidates[0].ChannelTitle)
	assert.Equal(t, "PT5M20S", candidates[0].Duration)
	assert.Equal(t, 2009, candidates[0].PublishedAt.Year())
	assert.Equal(t, []string{"https://img/1.jpg"}, candidates[0].Thumbnails)
	assert.Equal(t, "v2", candidates[1].ID)
	assert.Empty(t, candidates[1].Duration)
}

func TestSearchCandidates_DurationLookupFailureIsTolerated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []any{map[string]any{"id": map[string]any{"videoId": "v1"}, "snippet": map[string]any{"title": "x"}}},
		})
	})
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "boom"})
	})
	p := newTestProvider(t, "api-key", mux)

	candidates, err := p.SearchCandidates(context.Background(), "x", 5)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Empty(t, candidates[0].Duration)
}

func TestSearchCandidates_Errors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{"error": map[string]any{"message": "quotaExceeded"}})
	})
	p := newTestProvider(t, "api-key", mux)

	_, err := p.SearchCandidates(context.Background(), "x", 5)
	require.Error(t, err)
	assert.True(t, isStatus(err, http.StatusForbidden))

	noKey := newTestProvider(t, "", mux)
	_, err = noKey.SearchCandidates(context.Background(), "x", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestValidateCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/channels", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("mine"))
		if r.Header.Get("Authorization") != "Bearer good" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{map[string]any{"id": "c1"}}})
	})
	p := newTestProvider(t, "", mux)

	require.NoError(t, p.ValidateCredentials(context.Background(), "good"))
	assert.ErrorIs(t, p.ValidateCredentials(context.Background(), "bad"), domain.ErrInvalidCredentials)
	assert.ErrorIs(t, p.ValidateCredentials(context.Background(), ""), domain.ErrInvalidCredentials)
}

func TestCreatePlaylistAndAdd(t *testing.T) {
	var created, inserted map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/playlists", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		writeJSON(w, http.StatusOK, map[string]any{"id": "PL123"})
	})
	mux.HandleFunc("/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&inserted))
		writeJSON(w, http.StatusOK, map[string]any{"id": "item-1"})
	})
	p := newTestProvider(t, "", mux)

	id, err := p.CreatePlaylist(context.Background(), "tok", "Copied", "desc", true)
	require.NoError(t, err)
	assert.Equal(t, "PL123", id)
	assert.Equal(t, "public", created["status"].(map[string]any)["privacyStatus"])
	assert.Equal(t, "Copied", created["snippet"].(map[string]any)["title"])

	require.NoError(t, p.AddToPlaylist(context.Background(), "tok", "PL123", "v1"))
	snippet := inserted["snippet"].(map[string]any)
	assert.Equal(t, "PL123", snippet["playlistId"])
	assert.Equal(t, "v1", snippet["resourceId"].(map[string]any)["videoId"])
	assert.Equal(t, "youtube#video", snippet["resourceId"].(map[string]any)["kind"])

	assert.Equal(t, "https://www.youtube.com/playlist?list=PL123", p.PlaylistURL("PL123"))
}

func TestAddToPlaylist_Failure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{"error": "duplicate"})
	})
	p := newTestProvider(t, "", mux)

	err := p.AddToPlaylist(context.Background(), "tok", "PL123", "v1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "v1")
}

func TestGetPlaylist_AsSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/playlists", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == "missing" {
			writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []any{map[string]any{
				"id":      "PL1",
				"snippet": map[string]any{"title": "Mix", "channelTitle": "Me"},
			}},
		})
	})
	mux.HandleFunc("/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			writeJSON(w, http.StatusOK, map[string]any{
				"items": []any{map[string]any{"snippet": map[string]any{
					"title":      "Daft Punk - One More Time",
					"resourceId": map[string]any{"videoId": "v1"},
				}}},
				"nextPageToken": "page2",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []any{map[string]any{"snippet": map[string]any{
				"title":                  "Untitled jam",
				"videoOwnerChannelTitle": "Uploader",
				"resourceId":             map[string]any{"videoId": "v2"},
			}}},
		})
	})
	p := newTestProvider(t, "", mux)

	playlist, err := p.GetPlaylist(context.Background(), "tok", "PL1")
	require.NoError(t, err)
	assert.Equal(t, "Mix", playlist.Name)
	require.Len(t, playlist.Tracks, 2)
	assert.Equal(t, "One More Time", playlist.Tracks[0].Name)
	assert.Equal(t, []string{"Daft Punk"}, playlist.Tracks[0].Artists)
	assert.Equal(t, "Untitled jam", playlist.Tracks[1].Name)
	assert.Equal(t, []string{"Uploader"}, playlist.Tracks[1].Artists)

	_, err = p.GetPlaylist(context.Background(), "tok", "missing")
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
}
