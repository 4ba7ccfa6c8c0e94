package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"earlywrapped/cfg"
	"earlywrapped/internal/auth"
	"earlywrapped/internal/library"
	"earlywrapped/internal/session"
	"earlywrapped/pkg/idgen"
	"earlywrapped/pkg/logger"
	"earlywrapped/pkg/oauth2"
	"earlywrapped/pkg/spotify"
	"earlywrapped/pkg/telemetry"

	_ "earlywrapped/cmd/earlywrapped/docs" // swagger docs

	"github.com/gin-gonic/gin"
)

const shutdownGrace = 5 * time.Second

// @title           Early Wrapped API
// @version         1.0.0
// @description     Backend for Early Wrapped. Proxies the Spotify Web API with cookie based OAuth sessions.
// @BasePath        /
// @schemes         http
func main() {
	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	// ============
	// Otel
	// ============
	shutdownOtel, err := telemetry.Init(context.Background(), &config.Observability, zlogger)
	if err != nil {
		log.Fatalf("failed to initialize OpenTelemetry: %v", err)
	}

	// ============
	// Request IDs
	// ============
	ids, err := idgen.NewSnowflakeGenerator(config.NodeID)
	if err != nil {
		log.Fatal(err)
	}

	// ============
	// External Service
	// ============
	httpClient := &http.Client{
		Timeout: config.UpstreamTimeout,
	}
	provider := oauth2.NewSpotifyProvider(oauth2.SpotifyConfig{
		ClientID:     config.Spotify.ClientID,
		ClientSecret: config.Spotify.ClientSecret,
		RedirectURL:  config.Spotify.RedirectURI,
		Scopes:       config.Spotify.Scopes,
		AccountsURL:  config.Spotify.AccountsURL,
	}, httpClient)
	spotifyClients := spotify.NewFactory(config.Spotify.APIBaseURL, httpClient, config.UpstreamTimeout, zlogger)

	// ============
	// Internal Service
	// ============
	authSvc := auth.NewService(provider, func(accessToken string) auth.ProfileFetcher {
		return spotifyClients.ForToken(accessToken)
	}, config.FrontendURL(), config.UpstreamTimeout, zlogger)
	authHandler := auth.NewAuthHandler(authSvc, session.NewWriter(config.SecureCookies()))

	librarySvc := library.NewService(func(accessToken string) library.DataClient {
		return spotifyClients.ForToken(accessToken)
	}, zlogger)
	libraryHandler := library.NewLibraryHandler(librarySvc)

	// ============
	// HTTP
	// ============
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newRouter(config, zlogger, ids)

	authHandler.RegisterRoutes(r)
	libraryHandler.RegisterRoutes(r)
	initSwagger(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.AppPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlogger.Info("server listening", logger.Field{Key: "addr", Value: srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// ============
	// Shutdown
	// ============
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	zlogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlogger.Error("server shutdown failed", logger.Err(err))
	}
	if err := shutdownOtel(shutdownCtx); err != nil {
		zlogger.Error("failed to shutdown OpenTelemetry", logger.Err(err))
	}
}
