package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	handler "github.com/jpp0ca/playlist-transfer/internal/adapters/http"
	"github.com/jpp0ca/playlist-transfer/internal/bootstrap"
	"github.com/jpp0ca/playlist-transfer/internal/config"
	"github.com/jpp0ca/playlist-transfer/internal/logging"

	_ "github.com/jpp0ca/playlist-transfer/docs"
)

// @title			Playlist Transfer API
// @version		1.0
// @description	API for copying playlists from Spotify to YouTube.
// @description	Tracks are matched by fuzzy title, artist and duration scoring.

// @contact.name	Playlist Transfer API Support
// @license.name	MIT

// @host		localhost:8080
// @BasePath	/

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Bearer token for the streaming provider (e.g. "Bearer your_token_here")
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	if err != nil {
		logrus.Fatalf("invalid logging configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to initialise: %v", err)
	}
	defer a.Close()

	// Setup HTTP server
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(logger))
	h := handler.NewHandler(a.Service, logger)
	h.RegisterRoutes(r)

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	addr := ":" + cfg.Server.Port
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	logger.WithFields(logrus.Fields{
		"addr":      addr,
		"providers": a.Registry.Available(),
	}).Info("starting playlist transfer API")
	logger.Infof("Swagger UI: http://localhost%s/swagger/index.html", addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown failed")
	}
}
