package ports

import (
	"context"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
)

// SourceProvider is the capability set of a catalog that playlists are read
// from.
type SourceProvider interface {
	// ValidateCredentials returns nil when the token can be used against the
	// catalog, and an error wrapping domain.ErrInvalidCredentials otherwise.
	ValidateCredentials(ctx context.Context, token string) error

	// GetPlaylists returns all playlists accessible by the authenticated user.
	GetPlaylists(ctx context.Context, token string) ([]domain.Playlist, error)

	// GetPlaylist returns the playlist metadata together with its complete
	// track list, handling pagination internally. A missing playlist yields an
	// error wrapping domain.ErrPlaylistNotFound.
	GetPlaylist(ctx context.Context, token string, playlistID string) (*domain.Playlist, error)

	// Name returns the provider identifier (e.g., "spotify").
	Name() string
}

// CandidateSearcher searches a destination catalog.
type CandidateSearcher interface {
	SearchCandidates(ctx context.Context, query string, maxResults int) ([]domain.SearchCandidate, error)
}

// DestinationProvider is the capability set of a catalog that playlists are
// written to.
type DestinationProvider interface {
	CandidateSearcher

	ValidateCredentials(ctx context.Context, token string) error

	// CreatePlaylist creates a new playlist and returns its ID.
	CreatePlaylist(ctx context.Context, token string, title string, description string, public bool) (string, error)

	// AddToPlaylist appends a single catalog item to a playlist.
	AddToPlaylist(ctx context.Context, token string, playlistID string, candidateID string) error

	// PlaylistURL builds the browse URL of a playlist.
	PlaylistURL(playlistID string) string

	Name() string
}

// SearchCache is implemented by caching layers in front of a searcher.
type SearchCache interface {
	Clear(ctx context.Context) error
}

// TransferStore persists transfer results. Save inserts or replaces.
type TransferStore interface {
	Save(ctx context.Context, result *domain.TransferResult) error
	Get(ctx context.Context, transferID string) (*domain.TransferResult, error)
	List(ctx context.Context, userID string, page, pageSize int) ([]domain.TransferResult, error)
}

// TransferService defines the driving port for the playlist transfer use case.
type TransferService interface {
	// StartTransfer runs a transfer to completion and returns its terminal
	// result. It never returns nil.
	StartTransfer(ctx context.Context, req domain.TransferRequest) *domain.TransferResult

	// PrepareTransfer reserves a transfer id before StartTransfer runs in the
	// background, so the id can be cancelled straight away. It fails with
	// domain.ErrTransferExists for an id that is reserved or running.
	PrepareTransfer(transferID string) error

	// RequestCancellation asks a reserved or in-progress transfer to stop
	// before its next track. It reports whether such a transfer was found.
	RequestCancellation(transferID string) bool

	// GetTransfer returns the latest known state of a transfer.
	GetTransfer(ctx context.Context, transferID string) (*domain.TransferResult, error)

	// ListTransfers returns a page of past transfers for a user, newest first.
	ListTransfers(ctx context.Context, userID string, page, pageSize int) ([]domain.TransferResult, error)

	// ListPlaylists returns playlists from a given source provider.
	ListPlaylists(ctx context.Context, provider string, token string) ([]domain.Playlist, error)

	// GetPlaylist returns one source playlist with its complete track list.
	GetPlaylist(ctx context.Context, provider string, token string, playlistID string) (*domain.Playlist, error)

	// ClearSearchCache drops cached destination search results.
	ClearSearchCache(ctx context.Context) error
}
