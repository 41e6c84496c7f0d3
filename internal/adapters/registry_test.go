package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Minimal stubs for registry tests ------------------------------------------

type stubSource struct {
	name string
}

func (s *stubSource) Name() string                                           { return s.name }
func (s *stubSource) ValidateCredentials(_ context.Context, _ string) error { return nil }
func (s *stubSource) GetPlaylists(_ context.Context, _ string) ([]domain.Playlist, error) {
	return nil, nil
}
func (s *stubSource) GetPlaylist(_ context.Context, _ string, _ string) (*domain.Playlist, error) {
	return nil, nil
}

type stubDestination struct {
	name string
}

func (s *stubDestination) Name() string                                           { return s.name }
func (s *stubDestination) ValidateCredentials(_ context.Context, _ string) error { return nil }
func (s *stubDestination) SearchCandidates(_ context.Context, _ string, _ int) ([]domain.SearchCandidate, error) {
	return nil, nil
}
func (s *stubDestination) CreatePlaylist(_ context.Context, _, _, _ string, _ bool) (string, error) {
	return "", nil
}
func (s *stubDestination) AddToPlaylist(_ context.Context, _, _, _ string) error { return nil }
func (s *stubDestination) PlaylistURL(id string) string                       { return "stub://" + id }

// -- Tests -------------------------------------------------------------------

func TestProviderRegistry_RegisterAndGet(t *testing.T) {
	registry := NewProviderRegistry()
	registry.RegisterSource(&stubSource{name: "spotify"})
	registry.RegisterDestination(&stubDestination{name: "youtube"})

	src, err := registry.Source("spotify")
	require.NoError(t, err)
	assert.Equal(t, "spotify", src.Name())

	dst, err := registry.Destination("youtube")
	require.NoError(t, err)
	assert.Equal(t, "youtube", dst.Name())
}

func TestProviderRegistry_RolesAreSeparate(t *testing.T) {
	registry := NewProviderRegistry()
	registry.RegisterSource(&stubSource{name: "spotify"})

	_, err := registry.Destination("spotify")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownProvider))
}

func TestProviderRegistry_GetUnknown(t *testing.T) {
	registry := NewProviderRegistry()

	_, err := registry.Source("deezer")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
	assert.Contains(t, err.Error(), "deezer")
}

func TestProviderRegistry_Available(t *testing.T) {
	registry := NewProviderRegistry()
	registry.RegisterSource(&stubSource{name: "spotify"})
	registry.RegisterDestination(&stubDestination{name: "youtube"})
	registry.RegisterDestination(&stubDestination{name: "spotify"})

	assert.Equal(t, []string{"spotify", "youtube"}, registry.Available())
	assert.Len(t, registry.Destinations(), 2)
}

func TestProviderRegistry_OverwriteExisting(t *testing.T) {
	registry := NewProviderRegistry()
	registry.RegisterSource(&stubSource{name: "spotify"})
	registry.RegisterSource(&stubSource{name: "spotify"}) // re-register

	assert.Len(t, registry.Available(), 1)
}
