package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jpp0ca/playlist-transfer/internal/adapters"
	"github.com/jpp0ca/playlist-transfer/internal/domain"
	"github.com/jpp0ca/playlist-transfer/internal/matching"
	"github.com/jpp0ca/playlist-transfer/internal/ports"
)

// Options configures a Service.
type Options struct {
	DefaultSource      string
	DefaultDestination string
	// Defaults apply to requests that carry no options of their own.
	Defaults domain.TransferOptions
	// TrackDelay spaces consecutive tracks, QueryDelay consecutive searches.
	TrackDelay time.Duration
	QueryDelay time.Duration
	// RetryBackoff is the first wait between attempts; it doubles each retry.
	RetryBackoff time.Duration
}

// DefaultOptions returns the options used by the API and the CLI.
func DefaultOptions() Options {
	return Options{
		DefaultSource:      "spotify",
		DefaultDestination: "youtube",
		Defaults:           domain.DefaultTransferOptions(),
		TrackDelay:         500 * time.Millisecond,
		QueryDelay:         200 * time.Millisecond,
		RetryBackoff:       250 * time.Millisecond,
	}
}

// Service implements ports.TransferService. Each StartTransfer call owns its
// track list, counters, result and pacers; only the cancellation flags are
// shared between concurrent transfers.
type Service struct {
	registry *adapters.ProviderRegistry
	store    ports.TransferStore
	log      logrus.FieldLogger
	opts     Options

	cancels *cancellations
	now     func() time.Time
}

var _ ports.TransferService = (*Service)(nil)

// NewService creates a transfer service. store may be nil, in which case
// transfers are not persisted and history queries find nothing.
func NewService(registry *adapters.ProviderRegistry, store ports.TransferStore, logger logrus.FieldLogger, opts Options) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.DefaultSource == "" {
		opts.DefaultSource = "spotify"
	}
	if opts.DefaultDestination == "" {
		opts.DefaultDestination = "youtube"
	}
	return &Service{
		registry: registry,
		store:    store,
		log:      logger.WithField("component", "transfer"),
		opts:     opts,
		cancels:  newCancellations(),
		now:      time.Now,
	}
}

func (s *Service) ListPlaylists(ctx context.Context, provider string, token string) ([]domain.Playlist, error) {
	if provider == "" {
		provider = s.opts.DefaultSource
	}
	p, err := s.registry.Source(provider)
	if err != nil {
		return nil, err
	}
	return p.GetPlaylists(ctx, token)
}

// GetPlaylist returns a source playlist with its tracks, so that a client can
// preview it before starting a transfer.
func (s *Service) GetPlaylist(ctx context.Context, provider string, token string, playlistID string) (*domain.Playlist, error) {
	if provider == "" {
		provider = s.opts.DefaultSource
	}
	p, err := s.registry.Source(provider)
	if err != nil {
		return nil, err
	}
	playlist, err := p.GetPlaylist(ctx, token, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlaylistNotFound, playlistID)
	}
	return playlist, nil
}

// PrepareTransfer reserves transferID ahead of StartTransfer so that a
// cancellation requested in between is not lost.
func (s *Service) PrepareTransfer(transferID string) error {
	if transferID == "" {
		return fmt.Errorf("%w: empty transfer id", domain.ErrInvalidRequest)
	}
	if !s.cancels.reserve(transferID) {
		return fmt.Errorf("%w: %s", domain.ErrTransferExists, transferID)
	}
	return nil
}

func (s *Service) RequestCancellation(transferID string) bool {
	ok := s.cancels.request(transferID)
	s.log.WithFields(logrus.Fields{"transfer_id": transferID, "running": ok}).Info("cancellation requested")
	return ok
}

func (s *Service) GetTransfer(ctx context.Context, transferID string) (*domain.TransferResult, error) {
	if s.store == nil {
		return nil, domain.ErrTransferNotFound
	}
	return s.store.Get(ctx, transferID)
}

func (s *Service) ListTransfers(ctx context.Context, userID string, page, pageSize int) ([]domain.TransferResult, error) {
	if s.store == nil {
		return []domain.TransferResult{}, nil
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.store.List(ctx, userID, page, pageSize)
}

// ClearSearchCache clears every destination whose search layer is cached.
func (s *Service) ClearSearchCache(ctx context.Context) error {
	var errs []error
	for _, d := range s.registry.Destinations() {
		c, ok := d.(ports.SearchCache)
		if !ok {
			continue
		}
		if err := c.Clear(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			continue
		}
		s.log.WithField("provider", d.Name()).Info("search cache cleared")
	}
	return errors.Join(errs...)
}

// StartTransfer copies one playlist from the source to the destination catalog
// and returns the terminal result. Tracks are processed one at a time in
// source order; per-track problems are recorded and never abort the run.
func (s *Service) StartTransfer(ctx context.Context, req domain.TransferRequest) *domain.TransferResult {
	started := s.now()

	if req.TransferID == "" {
		req.TransferID = uuid.NewString()
	}
	if req.SourceProvider == "" {
		req.SourceProvider = s.opts.DefaultSource
	}
	if req.DestProvider == "" {
		req.DestProvider = s.opts.DefaultDestination
	}

	result := &domain.TransferResult{
		TransferID:       req.TransferID,
		UserID:           req.UserID,
		SourceProvider:   req.SourceProvider,
		DestProvider:     req.DestProvider,
		SourcePlaylistID: req.SourcePlaylistID,
		FailedTracks:     []domain.FailedTrackRecord{},
		StartedAt:        started,
		Status:           domain.TransferStatusPending,
		Statistics:       domain.TransferStatistics{StartedAt: started},
	}

	log := s.log.WithFields(logrus.Fields{
		"transfer_id": req.TransferID,
		"source":      req.SourceProvider,
		"destination": req.DestProvider,
		"playlist_id": req.SourcePlaylistID,
	})

	flag, ok := s.cancels.claim(req.TransferID)
	if !ok {
		return s.reject(log, result, fmt.Errorf("%w: %s", domain.ErrTransferExists, req.TransferID))
	}
	defer s.cancels.release(req.TransferID, flag)

	if flag.Load() {
		return s.finish(ctx, log, result, domain.TransferStatusCancelled, "")
	}

	opts := req.EffectiveOptions(s.opts.Defaults)
	if err := opts.Validate(); err != nil {
		return s.fail(ctx, log, result, "Invalid transfer options", err)
	}

	source, err := s.registry.Source(req.SourceProvider)
	if err != nil {
		return s.fail(ctx, log, result, "Unknown source provider", err)
	}
	dest, err := s.registry.Destination(req.DestProvider)
	if err != nil {
		return s.fail(ctx, log, result, "Unknown destination provider", err)
	}

	result.Status = domain.TransferStatusInProgress
	s.save(ctx, log, result)
	log.Info("transfer started")

	if err := source.ValidateCredentials(ctx, req.SourceToken); err != nil {
		return s.fail(ctx, log, result, "Invalid source credentials", credentialError(err))
	}
	if err := dest.ValidateCredentials(ctx, req.DestToken); err != nil {
		return s.fail(ctx, log, result, "Invalid destination credentials", credentialError(err))
	}

	playlist, err := source.GetPlaylist(ctx, req.SourceToken, req.SourcePlaylistID)
	switch {
	case errors.Is(err, domain.ErrPlaylistNotFound):
		return s.fail(ctx, log, result, "Source playlist not found", err)
	case err != nil:
		return s.fail(ctx, log, result, "Failed to fetch source playlist", err)
	case playlist == nil:
		return s.fail(ctx, log, result, "Source playlist not found", domain.ErrPlaylistNotFound)
	}

	tracks := playlist.Tracks
	result.Statistics.OriginalPlaylistName = playlist.Name
	result.Statistics.NewPlaylistName = req.NewPlaylistName
	result.Statistics.TotalTracks = len(tracks)
	log = log.WithField("tracks", len(tracks))
	log.Info("source playlist fetched")

	if len(tracks) == 0 && !opts.CreatePlaylistEvenIfEmpty {
		return s.finish(ctx, log, result, domain.TransferStatusCompleted,
			"Transfer completed: source playlist is empty, no destination playlist created")
	}

	description := req.PlaylistDescription
	if description == "" {
		description = fmt.Sprintf("Transferred from %s playlist %q", source.Name(), playlist.Name)
	}
	destID, err := dest.CreatePlaylist(ctx, req.DestToken, req.NewPlaylistName, description, req.MakePublic)
	if err == nil && destID == "" {
		err = errors.New("empty playlist id returned")
	}
	if err != nil {
		return s.fail(ctx, log, result, "Failed to create destination playlist",
			fmt.Errorf("%w: %w", domain.ErrDestinationCreation, err))
	}
	result.DestPlaylistID = destID
	result.DestPlaylistURL = dest.PlaylistURL(destID)
	s.save(ctx, log, result)
	log.WithField("dest_playlist_id", destID).Info("destination playlist created")

	trackPacer := newPacer(s.opts.TrackDelay)
	queryPacer := newPacer(s.opts.QueryDelay)
	seen := make(map[string]struct{}, len(tracks))
	for i := range tracks {
		if cancelled(ctx, flag) {
			return s.finish(ctx, log, result, domain.TransferStatusCancelled, "")
		}

		track := &tracks[i]
		if opts.SkipDuplicates {
			key := track.SourceID
			if key == "" {
				key = track.ID
			}
			if key != "" {
				if _, dup := seen[key]; dup {
					result.Statistics.SkippedTracks++
					log.WithField("track", track.Name).Debug("duplicate track skipped")
					continue
				}
				seen[key] = struct{}{}
			}
		}

		if i > 0 {
			if err := trackPacer.Wait(ctx); err != nil {
				return s.finish(ctx, log, result, domain.TransferStatusCancelled, "")
			}
		}

		if rec := s.transferTrack(ctx, log, dest, queryPacer, req.DestToken, destID, track, opts); rec != nil {
			result.Statistics.FailedTracks++
			result.FailedTracks = append(result.FailedTracks, *rec)
		} else {
			result.Statistics.SuccessfulTracks++
		}
		s.save(ctx, log, result)
	}

	return s.finish(ctx, log, result, domain.TransferStatusCompleted, "")
}

// transferTrack searches, selects and adds a single track. It returns nil on
// success and the failure record otherwise; panics are demoted to a record.
func (s *Service) transferTrack(
	ctx context.Context,
	log logrus.FieldLogger,
	dest ports.DestinationProvider,
	queryPacer *pacer,
	token, playlistID string,
	track *domain.Track,
	opts domain.TransferOptions,
) (failure *domain.FailedTrackRecord) {
	attempted := s.now()
	log = log.WithFields(logrus.Fields{"track": track.Name, "artist": track.PrimaryArtist()})

	var queries []string
	record := func(reason string, err error) *domain.FailedTrackRecord {
		rec := domain.NewFailedTrackRecord(*track, reason, attempted)
		rec.SearchAttempts = queries
		if err != nil {
			rec.Error = err.Error()
		}
		log.WithField("reason", reason).Warn("track not transferred")
		return &rec
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("unexpected error: %v", r)
			failure = record(err.Error(), err)
		}
	}()

	queries = matching.GenerateQueries(*track, opts)
	candidates, err := s.search(ctx, log, dest, queryPacer, queries, opts)
	if err != nil {
		return record(domain.ReasonSearchFailed, err)
	}

	best, score := matching.SelectBest(*track, candidates, opts.MinMatchConfidence)
	if best == nil {
		return record(domain.ReasonNoMatch, nil)
	}

	err = s.retry(ctx, opts.MaxRetryAttempts, func(ctx context.Context) error {
		return dest.AddToPlaylist(ctx, token, playlistID, best.ID)
	})
	if err != nil {
		return record(domain.ReasonAddFailed, err)
	}

	track.DestinationID = best.ID
	track.Matched = true
	track.MatchConfidence = matching.Score(*track, *best)
	log.WithFields(logrus.Fields{"candidate_id": best.ID, "score": score}).Info("track transferred")
	return nil
}

// search runs every query and merges the results by candidate id, keeping the
// first occurrence. It fails only when every query failed.
func (s *Service) search(
	ctx context.Context,
	log logrus.FieldLogger,
	dest ports.CandidateSearcher,
	queryPacer *pacer,
	queries []string,
	opts domain.TransferOptions,
) ([]domain.SearchCandidate, error) {
	var (
		merged   []domain.SearchCandidate
		seen     = make(map[string]struct{})
		failures int
		lastErr  error
	)

	for i, q := range queries {
		if i > 0 {
			if err := queryPacer.Wait(ctx); err != nil {
				return nil, err
			}
		}

		var found []domain.SearchCandidate
		err := s.retry(ctx, opts.MaxRetryAttempts, func(ctx context.Context) error {
			var err error
			found, err = dest.SearchCandidates(ctx, q, opts.SearchResultLimit)
			return err
		})
		if err != nil {
			failures++
			lastErr = err
			log.WithError(err).WithField("query", q).Warn("search query failed")
			continue
		}

		if len(found) > opts.SearchResultLimit {
			found = found[:opts.SearchResultLimit]
		}
		for _, c := range found {
			if c.ID == "" {
				continue
			}
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			merged = append(merged, c)
		}
	}

	if len(queries) > 0 && failures == len(queries) {
		return nil, lastErr
	}
	return merged, nil
}

// retry runs op up to attempts times with doubling backoff. Credential errors
// and a done context are not retried.
func (s *Service) retry(ctx context.Context, attempts int, op func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrInvalidCredentials) || ctx.Err() != nil {
			return err
		}
		if i == attempts-1 || s.opts.RetryBackoff <= 0 {
			continue
		}

		timer := time.NewTimer(s.opts.RetryBackoff << i)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
	return err
}

func (s *Service) fail(ctx context.Context, log logrus.FieldLogger, result *domain.TransferResult, message string, err error) *domain.TransferResult {
	result.ErrorDetails = err.Error()
	log = log.WithError(err)
	return s.finish(ctx, log, result, domain.TransferStatusFailed, message)
}

// reject fails a transfer whose id belongs to another run. The result is not
// persisted, which would overwrite the other run's record.
func (s *Service) reject(log logrus.FieldLogger, result *domain.TransferResult, err error) *domain.TransferResult {
	completed := s.now()
	result.Status = domain.TransferStatusFailed
	result.CompletedAt = &completed
	result.Statistics.CompletedAt = &completed
	result.Duration = completed.Sub(result.StartedAt)
	result.Message = "Transfer already running"
	result.ErrorDetails = err.Error()
	log.WithError(err).Warn(result.Message)
	return result
}

func (s *Service) finish(ctx context.Context, log logrus.FieldLogger, result *domain.TransferResult, status domain.TransferStatus, message string) *domain.TransferResult {
	completed := s.now()
	result.Status = status
	result.Success = status == domain.TransferStatusCompleted
	result.CompletedAt = &completed
	result.Statistics.CompletedAt = &completed
	result.Duration = completed.Sub(result.StartedAt)

	if message == "" {
		message = summary(status, result.Statistics)
	}
	result.Message = message

	s.save(context.WithoutCancel(ctx), log, result)

	entry := log.WithFields(logrus.Fields{
		"status":     status,
		"successful": result.Statistics.SuccessfulTracks,
		"failed":     result.Statistics.FailedTracks,
		"skipped":    result.Statistics.SkippedTracks,
		"duration":   result.Duration.String(),
	})
	if status == domain.TransferStatusFailed {
		entry.Error(message)
	} else {
		entry.Info(message)
	}
	return result
}

func (s *Service) save(ctx context.Context, log logrus.FieldLogger, result *domain.TransferResult) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, result); err != nil {
		log.WithError(err).Warn("failed to persist transfer progress")
	}
}

func summary(status domain.TransferStatus, stats domain.TransferStatistics) string {
	verb := "completed"
	if status == domain.TransferStatusCancelled {
		verb = "cancelled"
	}
	return fmt.Sprintf("Transfer %s: %d/%d tracks transferred, %d failed, %d skipped",
		verb, stats.SuccessfulTracks, stats.TotalTracks, stats.FailedTracks, stats.SkippedTracks)
}

func cancelled(ctx context.Context, flag *atomic.Bool) bool {
	return flag.Load() || ctx.Err() != nil
}

func credentialError(err error) error {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
}
