package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"posterlab/internal/http/handlers"
	"posterlab/internal/http/httpapi"
	"posterlab/internal/infra"
	"posterlab/internal/provider/kie"
	"posterlab/internal/store"
	"posterlab/internal/themes"
	"posterlab/internal/track"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	substrate, err := store.NewFileSubstrate(cfg.DataDir, cfg.DataQuotaBytes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open data directory")
	}
	st := store.NewStore(store.Options{
		Substrate:  substrate,
		Logger:     &logger,
		CacheLimit: cfg.CacheLimitBytes,
	})

	catalog, err := themes.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load theme catalog")
	}

	tracker := track.NewTracker()
	client := kie.NewClient(kie.Options{
		BaseURL:      cfg.KieBaseURL,
		Model:        cfg.KieModel,
		Logger:       &logger,
		Tracker:      tracker,
		PollInterval: cfg.PollInterval,
		PollTimeout:  cfg.PollTimeout,
		HTTPClient:   &http.Client{Timeout: cfg.RequestTimeout},
	})

	app := handlers.NewApp(st, client, catalog, logger, cfg.KieAPIKey)
	router := httpapi.NewRouter(app, httpapi.Options{
		DefaultLocale:  cfg.DefaultLocale,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
