package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swipe-match-backend/internal/config"
	"swipe-match-backend/internal/handlers"
	"swipe-match-backend/internal/models"
	"swipe-match-backend/internal/repository"
	"swipe-match-backend/internal/services"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx := context.Background()

	// Open match storage
	kv, closeKV, err := repository.OpenKV(ctx, cfg.Storage, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("Failed to open storage")
	}
	defer closeKV()
	log.Info().Str("backend", cfg.Storage.Backend).Msg("Storage opened")

	// Initialize services
	profiles, err := loadProfiles(cfg.Profiles)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load profiles")
	}

	store := services.NewMatchStore(kv, services.MatchStoreOptions{
		Key:          cfg.Storage.Key,
		MaxMatches:   cfg.Storage.MaxMatches,
		Debounce:     cfg.Storage.Debounce(),
		WriteTimeout: cfg.Storage.WriteTimeout(),
	}, log.Logger)
	store.Load(ctx)

	wsHub := services.NewWSHub(log.Logger)
	router := handlers.NewRouter(handlers.Services{
		Profiles:     services.NewProfileService(profiles, cfg.Profiles.Delay()),
		Interactions: services.NewInteractionService(repository.NewInMemoryLikeRepository(), cfg.Interactions.Delay(), log.Logger),
		Matches:      store,
		WSHub:        wsHub,
	}, log.Logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Write any debounced save before the storage closes
	if err := store.Flush(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush matches")
	}
	store.Close()

	log.Info().Msg("Server exited")
}

// loadConfig reads SWIPE_CONFIG or config.yaml. A missing default file means defaults.
func loadConfig() (*config.Config, error) {
	path := os.Getenv("SWIPE_CONFIG")
	if path != "" {
		return config.Load(path)
	}

	cfg, err := config.Load("config.yaml")
	if errors.Is(err, fs.ErrNotExist) {
		def := config.Default()
		return &def, nil
	}
	return cfg, err
}

func loadProfiles(cfg config.ProfilesConfig) ([]models.Profile, error) {
	if cfg.File != "" {
		return services.LoadProfiles(cfg.File, log.Logger)
	}
	return services.DefaultProfiles(log.Logger)
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
