// Package youtube talks to the YouTube Data API v3. It is the default transfer
// destination and can also read playlists as a source.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
	"github.com/jpp0ca/playlist-transfer/internal/matching"
	"github.com/jpp0ca/playlist-transfer/internal/ports"
)

const (
	// DefaultBaseURL is the Data API v3 root.
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	playlistURLPrefix = "https://www.youtube.com/playlist?list="
	maxResults        = 50
	musicCategoryID   = "10"
)

// Provider implements ports.DestinationProvider and ports.SourceProvider for
// YouTube. Searches are keyed by the API key; playlist reads and writes use
// the caller's OAuth token.
type Provider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     logrus.FieldLogger
}

var (
	_ ports.DestinationProvider = (*Provider)(nil)
	_ ports.SourceProvider      = (*Provider)(nil)
)

// NewProvider creates a new YouTube provider. If client is nil,
// http.DefaultClient is used; an empty baseURL selects DefaultBaseURL.
func NewProvider(client *http.Client, baseURL, apiKey string, logger logrus.FieldLogger) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Provider{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		log:     logger.WithField("provider", "youtube"),
	}
}

func (p *Provider) Name() string {
	return "youtube"
}

// PlaylistURL returns the public browse URL of a playlist.
func (p *Provider) PlaylistURL(playlistID string) string {
	return playlistURLPrefix + url.QueryEscape(playlistID)
}

// -- API response types (internal) ------------------------------------------

type thumbnail struct {
	URL string `json:"url"`
}

type thumbnails struct {
	Default *thumbnail `json:"default"`
	Medium  *thumbnail `json:"medium"`
	High    *thumbnail `json:"high"`
}

func (t thumbnails) urls() []string {
	var out []string
	for _, th := range []*thumbnail{t.Default, t.Medium, t.High} {
		if th != nil && th.URL != "" {
			out = append(out, th.URL)
		}
	}
	return out
}

type playlistListResponse struct {
	Items         []playlistResource `json:"items"`
	NextPageToken string             `json:"nextPageToken"`
}

type playlistResource struct {
	ID             string          `json:"id"`
	Snippet        playlistSnippet `json:"snippet"`
	ContentDetails struct {
		ItemCount int `json:"itemCount"`
	} `json:"contentDetails"`
}

type playlistSnippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
}

type playlistItemsResponse struct {
	Items         []playlistItemResource `json:"items"`
	NextPageToken string                 `json:"nextPageToken"`
}

type playlistItemResource struct {
	Snippet playlistItemSnippet `json:"snippet"`
}

type playlistItemSnippet struct {
	Title                  string     `json:"title"`
	VideoOwnerChannelTitle string     `json:"videoOwnerChannelTitle"`
	ResourceID             resourceID `json:"resourceId"`
}

type resourceID struct {
	Kind    string `json:"kind,omitempty"`
	VideoID string `json:"videoId"`
}

type searchListResponse struct {
	Items []searchResult `json:"items"`
}

type searchResult struct {
	ID      resourceID    `json:"id"`
	Snippet searchSnippet `json:"snippet"`
}

type searchSnippet struct {
	Title        string     `json:"title"`
	ChannelTitle string     `json:"channelTitle"`
	PublishedAt  time.Time  `json:"publishedAt"`
	Thumbnails   thumbnails `json:"thumbnails"`
}

type videoListResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// -- Credentials -------------------------------------------------------------

func (p *Provider) ValidateCredentials(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: empty youtube token", domain.ErrInvalidCredentials)
	}

	endpoint := p.endpoint("channels", url.Values{"part": {"id"}, "mine": {"true"}})
	if _, err := p.doGet(ctx, token, endpoint); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			return fmt.Errorf("%w: youtube: %v", domain.ErrInvalidCredentials, err)
		}
		return fmt.Errorf("youtube: failed to validate credentials: %w", err)
	}
	return nil
}

// -- Destination -------------------------------------------------------------

// SearchCandidates runs a music-category video search and enriches the results
// with their durations. A failed duration lookup leaves durations empty.
func (p *Provider) SearchCandidates(ctx context.Context, query string, limit int) ([]domain.SearchCandidate, error) {
	if p.apiKey == "" {
		return nil, errors.New("youtube: API key not configured")
	}
	if limit < 1 || limit > maxResults {
		limit = maxResults
	}

	endpoint := p.endpoint("search", url.Values{
		"part":            {"snippet"},
		"type":            {"video"},
		"videoCategoryId": {musicCategoryID},
		"maxResults":      {strconv.Itoa(limit)},
		"q":               {query},
		"key":             {p.apiKey},
	})
	body, err := p.doGet(ctx, "", endpoint)
	if err != nil {
		return nil, fmt.Errorf("youtube: search failed: %w", err)
	}

	var resp searchListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("youtube: failed to parse search response: %w", err)
	}

	candidates := make([]domain.SearchCandidate, 0, len(resp.Items))
	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		candidates = append(candidates, domain.SearchCandidate{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			Thumbnails:   item.Snippet.Thumbnails.urls(),
		})
		ids = append(ids, item.ID.VideoID)
	}

	if len(ids) == 0 {
		return candidates, nil
	}

	durations, err := p.videoDurations(ctx, ids)
	if err != nil {
		p.log.WithError(err).WithField("query", query).Warn("duration lookup failed")
		return candidates, nil
	}
	for i := range candidates {
		candidates[i].Duration = durations[candidates[i].ID]
	}
	return candidates, nil
}

func (p *Provider) videoDurations(ctx context.Context, ids []string) (map[string]string, error) {
	endpoint := p.endpoint("videos", url.Values{
		"part": {"contentDetails"},
		"id":   {strings.Join(ids, ",")},
		"key":  {p.apiKey},
	})
	body, err := p.doGet(ctx, "", endpoint)
	if err != nil {
		return nil, err
	}

	var resp videoListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse videos response: %w", err)
	}

	out := make(map[string]string, len(resp.Items))
	for _, v := range resp.Items {
		out[v.ID] = v.ContentDetails.Duration
	}
	return out, nil
}

func (p *Provider) CreatePlaylist(ctx context.Context, token, title, description string, public bool) (string, error) {
	privacy := "private"
	if public {
		privacy = "public"
	}
	payload := map[string]any{
		"snippet": map[string]string{
			"title":       title,
			"description": description,
		},
		"status": map[string]string{
			"privacyStatus": privacy,
		},
	}

	endpoint := p.endpoint("playlists", url.Values{"part": {"snippet,status"}})
	body, err := p.doPost(ctx, token, endpoint, payload)
	if err != nil {
		return "", fmt.Errorf("youtube: failed to create playlist: %w", err)
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("youtube: failed to parse create playlist response: %w", err)
	}
	return resp.ID, nil
}

func (p *Provider) AddToPlaylist(ctx context.Context, token, playlistID, videoID string) error {
	payload := map[string]any{
		"snippet": map[string]any{
			"playlistId": playlistID,
			"resourceId": resourceID{Kind: "youtube#video", VideoID: videoID},
		},
	}

	endpoint := p.endpoint("playlistItems", url.Values{"part": {"snippet"}})
	if _, err := p.doPost(ctx, token, endpoint, payload); err != nil {
		return fmt.Errorf("youtube: failed to add video %s to playlist: %w", videoID, err)
	}
	return nil
}

// -- Source ------------------------------------------------------------------

func (p *Provider) GetPlaylists(ctx context.Context, token string) ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	pageToken := ""

	for {
		params := url.Values{
			"part":       {"snippet,contentDetails"},
			"mine":       {"true"},
			"maxResults": {strconv.Itoa(maxResults)},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		body, err := p.doGet(ctx, token, p.endpoint("playlists", params))
		if err != nil {
			return nil, fmt.Errorf("youtube: failed to get playlists: %w", err)
		}

		var resp playlistListResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("youtube: failed to parse playlists response: %w", err)
		}

		for _, item := range resp.Items {
			playlists = append(playlists, toPlaylist(item))
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return playlists, nil
}

// GetPlaylist reads a playlist and all of its items. Video titles are split
// into title and artist; the uploader stands in for a missing artist.
func (p *Provider) GetPlaylist(ctx context.Context, token string, playlistID string) (*domain.Playlist, error) {
	body, err := p.doGet(ctx, token, p.endpoint("playlists", url.Values{
		"part": {"snippet,contentDetails"},
		"id":   {playlistID},
	}))
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: youtube playlist %s", domain.ErrPlaylistNotFound, playlistID)
		}
		return nil, fmt.Errorf("youtube: failed to get playlist: %w", err)
	}

	var meta playlistListResponse
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("youtube: failed to parse playlist response: %w", err)
	}
	if len(meta.Items) == 0 {
		return nil, fmt.Errorf("%w: youtube playlist %s", domain.ErrPlaylistNotFound, playlistID)
	}
	playlist := toPlaylist(meta.Items[0])

	pageToken := ""
	for {
		params := url.Values{
			"part":       {"snippet"},
			"playlistId": {playlistID},
			"maxResults": {strconv.Itoa(maxResults)},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		body, err := p.doGet(ctx, token, p.endpoint("playlistItems", params))
		if err != nil {
			return nil, fmt.Errorf("youtube: failed to get playlist items: %w", err)
		}

		var resp playlistItemsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("youtube: failed to parse playlist items response: %w", err)
		}

		for _, item := range resp.Items {
			videoID := item.Snippet.ResourceID.VideoID
			if videoID == "" {
				continue
			}
			name, artist := matching.ExtractTitleArtist(item.Snippet.Title)
			if artist == "" {
				artist = item.Snippet.VideoOwnerChannelTitle
			}
			var artists []string
			if artist != "" {
				artists = []string{artist}
			}
			playlist.Tracks = append(playlist.Tracks, domain.Track{
				ID:       videoID,
				SourceID: videoID,
				Name:     name,
				Artists:  artists,
			})
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	playlist.TrackCount = len(playlist.Tracks)
	return &playlist, nil
}

func toPlaylist(item playlistResource) domain.Playlist {
	return domain.Playlist{
		ID:          item.ID,
		Name:        item.Snippet.Title,
		Description: item.Snippet.Description,
		OwnerName:   item.Snippet.ChannelTitle,
		TrackCount:  item.ContentDetails.ItemCount,
	}
}

// -- HTTP helpers ------------------------------------------------------------

// APIError is returned for any non-2xx Data API response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtube API returned status %d: %s", e.Status, e.Body)
}

func isStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func (p *Provider) endpoint(resource string, params url.Values) string {
	return p.baseURL + "/" + resource + "?" + params.Encode()
}

func (p *Provider) doGet(ctx context.Context, token string, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return p.do(req, token)
}

func (p *Provider) doPost(ctx context.Context, token string, endpoint string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return p.do(req, token)
}

func (p *Provider) do(req *http.Request, token string) ([]byte, error) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
