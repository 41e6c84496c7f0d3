// Package spotify reads playlists from the Spotify Web API. It only acts as a
// transfer source.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
	"github.com/jpp0ca/playlist-transfer/internal/ports"
)

// DefaultBaseURL is the Spotify Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1/"

const pageSize = 100

// Provider implements ports.SourceProvider for Spotify. Tokens are
// caller-supplied OAuth access tokens; no refresh is attempted.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	log        logrus.FieldLogger
}

var _ ports.SourceProvider = (*Provider)(nil)

// NewProvider creates a Spotify provider. A nil client falls back to
// http.DefaultClient and an empty baseURL to DefaultBaseURL.
func NewProvider(client *http.Client, baseURL string, logger logrus.FieldLogger) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Provider{
		httpClient: client,
		baseURL:    baseURL,
		log:        logger.WithField("provider", "spotify"),
	}
}

func (p *Provider) Name() string {
	return "spotify"
}

// client builds an API client authorised with token. The configured HTTP
// client is used as the transport underneath the oauth2 layer.
func (p *Provider) client(ctx context.Context, token string) *spotify.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	return spotify.New(httpClient, spotify.WithBaseURL(p.baseURL))
}

func (p *Provider) ValidateCredentials(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: empty spotify token", domain.ErrInvalidCredentials)
	}
	user, err := p.client(ctx, token).CurrentUser(ctx)
	if err != nil {
		return classify(err, "validate credentials")
	}
	p.log.WithField("user_id", user.ID).Debug("credentials valid")
	return nil
}

func (p *Provider) GetPlaylists(ctx context.Context, token string) ([]domain.Playlist, error) {
	c := p.client(ctx, token)

	page, err := c.CurrentUsersPlaylists(ctx, spotify.Limit(50))
	if err != nil {
		return nil, classify(err, "list playlists")
	}

	var playlists []domain.Playlist
	for {
		for _, pl := range page.Playlists {
			playlists = append(playlists, domain.Playlist{
				ID:          string(pl.ID),
				Name:        pl.Name,
				Description: pl.Description,
				OwnerName:   pl.Owner.DisplayName,
				TrackCount:  int(pl.Tracks.Total),
			})
		}

		err := c.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, classify(err, "list playlists")
		}
	}

	return playlists, nil
}

// GetPlaylist returns the playlist metadata and its complete track list.
// Local files and unavailable tracks are left out.
func (p *Provider) GetPlaylist(ctx context.Context, token string, playlistID string) (*domain.Playlist, error) {
	if strings.TrimSpace(playlistID) == "" {
		return nil, fmt.Errorf("%w: empty playlist id", domain.ErrPlaylistNotFound)
	}
	c := p.client(ctx, token)
	id := spotify.ID(playlistID)

	meta, err := c.GetPlaylist(ctx, id, spotify.Fields("id,name,description,owner(display_name)"))
	if err != nil {
		return nil, classify(err, "get playlist "+playlistID)
	}

	playlist := &domain.Playlist{
		ID:          string(meta.ID),
		Name:        meta.Name,
		Description: meta.Description,
		OwnerName:   meta.Owner.DisplayName,
	}

	page, err := c.GetPlaylistTracks(ctx, id, spotify.Limit(pageSize))
	if err != nil {
		return nil, classify(err, "get playlist tracks "+playlistID)
	}

	for {
		for _, item := range page.Tracks {
			if item.Track.ID == "" {
				continue
			}
			playlist.Tracks = append(playlist.Tracks, toTrack(item.Track))
		}

		err := c.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, classify(err, "get playlist tracks "+playlistID)
		}
	}

	playlist.TrackCount = len(playlist.Tracks)
	p.log.WithFields(logrus.Fields{"playlist_id": playlistID, "tracks": playlist.TrackCount}).Debug("playlist fetched")
	return playlist, nil
}

func toTrack(t spotify.FullTrack) domain.Track {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	return domain.Track{
		ID:         string(t.ID),
		SourceID:   string(t.ID),
		Name:       t.Name,
		Artists:    artists,
		Album:      t.Album.Name,
		DurationMs: int(t.Duration),
	}
}

// classify maps API status codes onto the domain sentinels.
func classify(err error, op string) error {
	var apiErr spotify.Error
	if ptr := (*spotify.Error)(nil); errors.As(err, &ptr) && ptr != nil {
		apiErr = *ptr
	} else {
		errors.As(err, &apiErr)
	}
	if apiErr.Status != 0 {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: spotify %s: %s", domain.ErrInvalidCredentials, op, apiErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: spotify %s: %s", domain.ErrPlaylistNotFound, op, apiErr.Message)
		}
	}
	return fmt.Errorf("spotify %s: %w", op, err)
}
