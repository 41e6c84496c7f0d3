package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Track represents a source playlist track with the metadata used for
// cross-catalog matching. The orchestrator fills DestinationID, Matched and
// MatchConfidence once a destination match has been added.
type Track struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Artists         []string `json:"artists"`
	Album           string   `json:"album"`
	DurationMs      int      `json:"duration_ms"`
	SourceID        string   `json:"source_id"`
	DestinationID   string   `json:"destination_id,omitempty"`
	Matched         bool     `json:"matched"`
	MatchConfidence float64  `json:"match_confidence"`
}

// PrimaryArtist returns the first listed artist, or "" when there is none.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// ArtistLine joins all artist names with the given separator.
func (t Track) ArtistLine(sep string) string {
	return strings.Join(t.Artists, sep)
}

// Playlist represents a collection of tracks from a streaming provider.
type Playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	OwnerName   string  `json:"owner_name,omitempty"`
	TrackCount  int     `json:"track_count"`
	Tracks      []Track `json:"tracks,omitempty"`
}

// SearchCandidate is a single destination-catalog search result.
type SearchCandidate struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channel_title"`
	PublishedAt  time.Time `json:"published_at"`
	Duration     string    `json:"duration,omitempty"`
	Thumbnails   []string  `json:"thumbnails,omitempty"`
}

// TransferOptions tunes query generation and candidate selection.
type TransferOptions struct {
	SkipDuplicates            bool    `json:"skip_duplicates"`
	UseArtistInSearch         bool    `json:"use_artist_in_search"`
	UseAlbumInSearch          bool    `json:"use_album_in_search"`
	SearchResultLimit         int     `json:"search_result_limit"`
	MinMatchConfidence        float64 `json:"min_match_confidence"`
	MaxRetryAttempts          int     `json:"max_retry_attempts"`
	CreatePlaylistEvenIfEmpty bool    `json:"create_playlist_even_if_empty"`
}

// DefaultTransferOptions returns the options used when a request carries none.
func DefaultTransferOptions() TransferOptions {
	return TransferOptions{
		SkipDuplicates:            true,
		UseArtistInSearch:         true,
		UseAlbumInSearch:          false,
		SearchResultLimit:         5,
		MinMatchConfidence:        0.7,
		MaxRetryAttempts:          3,
		CreatePlaylistEvenIfEmpty: true,
	}
}

// UnmarshalJSON decodes over DefaultTransferOptions, so fields missing from
// the payload keep their defaults instead of becoming zero.
func (o *TransferOptions) UnmarshalJSON(data []byte) error {
	type plain TransferOptions
	p := plain(DefaultTransferOptions())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = TransferOptions(p)
	return nil
}

// Validate reports option values outside their accepted ranges.
func (o TransferOptions) Validate() error {
	if o.MinMatchConfidence < 0 || o.MinMatchConfidence > 1 {
		return invalidRequest("min_match_confidence must be within [0, 1]")
	}
	if o.SearchResultLimit < 1 || o.SearchResultLimit > 50 {
		return invalidRequest("search_result_limit must be within [1, 50]")
	}
	if o.MaxRetryAttempts < 0 || o.MaxRetryAttempts > 10 {
		return invalidRequest("max_retry_attempts must be within [0, 10]")
	}
	return nil
}

// TransferRequest contains everything needed to copy one playlist.
type TransferRequest struct {
	TransferID          string           `json:"transfer_id,omitempty"`
	SourceProvider      string           `json:"source_provider,omitempty"`
	DestProvider        string           `json:"dest_provider,omitempty"`
	SourcePlaylistID    string           `json:"source_playlist_id" binding:"required"`
	SourceToken         string           `json:"source_token" binding:"required"`
	DestToken           string           `json:"dest_token" binding:"required"`
	NewPlaylistName     string           `json:"new_playlist_name" binding:"required,max=100"`
	PlaylistDescription string           `json:"playlist_description,omitempty" binding:"max=500"`
	MakePublic          bool             `json:"make_public"`
	UserID              string           `json:"user_id,omitempty"`
	Options             *TransferOptions `json:"options,omitempty"`
}

// EffectiveOptions returns the request options, falling back to defaults.
func (r TransferRequest) EffectiveOptions(defaults TransferOptions) TransferOptions {
	if r.Options == nil {
		return defaults
	}
	return *r.Options
}

// TransferStatus is the lifecycle state of a transfer.
type TransferStatus string

const (
	TransferStatusPending    TransferStatus = "pending"
	TransferStatusInProgress TransferStatus = "in_progress"
	TransferStatusCompleted  TransferStatus = "completed"
	TransferStatusFailed     TransferStatus = "failed"
	TransferStatusCancelled  TransferStatus = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s TransferStatus) Terminal() bool {
	switch s {
	case TransferStatusCompleted, TransferStatusFailed, TransferStatusCancelled:
		return true
	}
	return false
}

// Failure reasons recorded on FailedTrackRecord.
const (
	ReasonNoMatch      = "No suitable match found"
	ReasonAddFailed    = "Failed to add to destination playlist"
	ReasonSearchFailed = "Search failed"
)

// FailedTrackRecord describes one track that could not be transferred.
// Records are appended to a TransferResult and never modified afterwards.
type FailedTrackRecord struct {
	TrackName      string    `json:"track_name"`
	Artist         string    `json:"artist"`
	Album          string    `json:"album"`
	FailureReason  string    `json:"failure_reason"`
	Error          string    `json:"error,omitempty"`
	AttemptedAt    time.Time `json:"attempted_at"`
	SourceTrackID  string    `json:"source_track_id"`
	SearchAttempts []string  `json:"search_attempts,omitempty"`
}

// NewFailedTrackRecord builds a record for track with the given reason.
func NewFailedTrackRecord(track Track, reason string, attempted time.Time) FailedTrackRecord {
	return FailedTrackRecord{
		TrackName:     track.Name,
		Artist:        track.ArtistLine(", "),
		Album:         track.Album,
		FailureReason: reason,
		AttemptedAt:   attempted,
		SourceTrackID: track.SourceID,
	}
}

// TransferStatistics holds the aggregate counters of a transfer.
type TransferStatistics struct {
	TotalTracks          int        `json:"total_tracks"`
	SuccessfulTracks     int        `json:"successful_tracks"`
	FailedTracks         int        `json:"failed_tracks"`
	SkippedTracks        int        `json:"skipped_tracks"`
	OriginalPlaylistName string     `json:"original_playlist_name"`
	NewPlaylistName      string     `json:"new_playlist_name"`
	StartedAt            time.Time  `json:"started_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

// SuccessRate returns successful/total as a percentage, or 0 for an empty transfer.
func (s TransferStatistics) SuccessRate() float64 {
	if s.TotalTracks == 0 {
		return 0
	}
	return float64(s.SuccessfulTracks) / float64(s.TotalTracks) * 100
}

// MarshalJSON adds the derived success_rate field.
func (s TransferStatistics) MarshalJSON() ([]byte, error) {
	type plain TransferStatistics
	return json.Marshal(struct {
		plain
		SuccessRate float64 `json:"success_rate"`
	}{plain: plain(s), SuccessRate: s.SuccessRate()})
}

// TransferResult is the outcome of a transfer handed back across the system boundary.
type TransferResult struct {
	Success          bool                `json:"success"`
	TransferID       string              `json:"transfer_id"`
	UserID           string              `json:"user_id,omitempty"`
	SourceProvider   string              `json:"source_provider"`
	DestProvider     string              `json:"dest_provider"`
	SourcePlaylistID string              `json:"source_playlist_id"`
	Message          string              `json:"message"`
	Statistics       TransferStatistics  `json:"statistics"`
	DestPlaylistID   string              `json:"dest_playlist_id,omitempty"`
	DestPlaylistURL  string              `json:"dest_playlist_url,omitempty"`
	FailedTracks     []FailedTrackRecord `json:"failed_tracks"`
	StartedAt        time.Time           `json:"started_at"`
	CompletedAt      *time.Time          `json:"completed_at,omitempty"`
	Duration         time.Duration       `json:"duration"`
	Status           TransferStatus      `json:"status"`
	ErrorDetails     string              `json:"error_details,omitempty"`
}
