// Package bootstrap assembles the transfer service and its adapters from
// configuration. Both the API server and the CLI start here.
package bootstrap

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/jpp0ca/playlist-transfer/internal/adapters"
	"github.com/jpp0ca/playlist-transfer/internal/adapters/cache"
	"github.com/jpp0ca/playlist-transfer/internal/adapters/spotify"
	"github.com/jpp0ca/playlist-transfer/internal/adapters/store"
	"github.com/jpp0ca/playlist-transfer/internal/adapters/youtube"
	"github.com/jpp0ca/playlist-transfer/internal/app"
	"github.com/jpp0ca/playlist-transfer/internal/config"
	"github.com/jpp0ca/playlist-transfer/internal/ports"
)

// App is the wired component graph.
type App struct {
	Registry *adapters.ProviderRegistry
	Service  *app.Service

	closers []io.Closer
}

// New builds the graph. The caller must Close the returned App.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	a := &App{}
	httpClient := &http.Client{Timeout: cfg.Server.HTTPTimeout}

	spotifyProvider := spotify.NewProvider(httpClient, cfg.Spotify.BaseURL, logger)
	youtubeProvider := youtube.NewProvider(httpClient, cfg.YouTube.BaseURL, cfg.YouTube.APIKey, logger)
	if cfg.YouTube.APIKey == "" {
		logger.Warn("YOUTUBE_API_KEY is not set; destination searches will fail")
	}

	var destination ports.DestinationProvider = youtubeProvider
	if cfg.Storage.SearchCacheTTL > 0 {
		searchStore, err := a.searchStore(ctx, cfg, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		destination = cache.NewDestination(youtubeProvider, searchStore, logger)
	}

	registry := adapters.NewProviderRegistry()
	registry.RegisterSource(spotifyProvider)
	registry.RegisterSource(youtubeProvider)
	registry.RegisterDestination(destination)

	transferStore, err := a.transferStore(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := app.DefaultOptions()
	opts.Defaults = cfg.TransferOptions()
	opts.TrackDelay = cfg.Transfer.TrackDelay
	opts.QueryDelay = cfg.Transfer.QueryDelay

	a.Registry = registry
	a.Service = app.NewService(registry, transferStore, logger, opts)
	return a, nil
}

func (a *App) searchStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (cache.Store, error) {
	if cfg.Storage.RedisAddress != "" {
		s, err := cache.NewRedisStore(ctx, cfg.Storage.RedisAddress, cfg.Storage.SearchCacheTTL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		logger.WithField("address", cfg.Storage.RedisAddress).Info("search cache: redis")
		return s, nil
	}

	s := cache.NewMemoryStore(cfg.Storage.SearchCacheTTL)
	a.closers = append(a.closers, s)
	logger.Info("search cache: memory")
	return s, nil
}

func (a *App) transferStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (ports.TransferStore, error) {
	if cfg.Storage.DatabasePath != "" {
		s, err := store.OpenSQLite(ctx, cfg.Storage.DatabasePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		logger.WithField("path", cfg.Storage.DatabasePath).Info("transfer store: sqlite")
		return s, nil
	}

	logger.Info("transfer store: memory")
	return store.NewMemoryStore(), nil
}

// Close releases every opened resource.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
