package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/jpp0ca/playlist-transfer/internal/bootstrap"
	"github.com/jpp0ca/playlist-transfer/internal/config"
	"github.com/jpp0ca/playlist-transfer/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if err != nil {
		logrus.Fatalf("invalid logging configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to initialise: %v", err)
	}

	runner := NewRunner(a.Service, os.Stdout, logger)
	app := &cli.Command{
		Name:     "transfer",
		Usage:    "Copy playlists from Spotify to YouTube",
		Commands: runner.register(),
	}

	runErr := app.Run(ctx, os.Args)
	if err := a.Close(); err != nil {
		logger.WithError(err).Warn("failed to release resources")
	}
	if runErr != nil {
		logger.Fatalf("application error: %v", runErr)
	}
}
