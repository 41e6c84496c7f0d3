package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
	"github.com/jpp0ca/playlist-transfer/internal/ports"
)

// Destination wraps a destination provider and serves SearchCandidates from a
// Store. Every other call goes straight to the wrapped provider.
type Destination struct {
	ports.DestinationProvider
	store Store
	log   logrus.FieldLogger
}

var (
	_ ports.DestinationProvider = (*Destination)(nil)
	_ ports.SearchCache         = (*Destination)(nil)
)

// NewDestination wraps provider with store.
func NewDestination(provider ports.DestinationProvider, store Store, logger logrus.FieldLogger) *Destination {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Destination{
		DestinationProvider: provider,
		store:               store,
		log:                 logger.WithFields(logrus.Fields{"component": "search_cache", "provider": provider.Name()}),
	}
}

// SearchCandidates returns cached results when present. Cache failures are
// logged and fall through to the provider; provider errors are not cached.
func (d *Destination) SearchCandidates(ctx context.Context, query string, maxResults int) ([]domain.SearchCandidate, error) {
	key := searchKey(d.Name(), query, maxResults)

	cached, ok, err := d.store.Get(ctx, key)
	if err != nil {
		d.log.WithError(err).Warn("cache read failed")
	}
	if ok {
		d.log.WithField("query", query).Debug("search cache hit")
		return cached, nil
	}

	candidates, err := d.DestinationProvider.SearchCandidates(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	if err := d.store.Set(ctx, key, candidates); err != nil {
		d.log.WithError(err).Warn("cache write failed")
	}
	return candidates, nil
}

// Clear drops every cached search result.
func (d *Destination) Clear(ctx context.Context) error {
	return d.store.Clear(ctx)
}

func searchKey(provider, query string, maxResults int) string {
	return fmt.Sprintf("%s:%d:%s", provider, maxResults, strings.ToLower(strings.TrimSpace(query)))
}
