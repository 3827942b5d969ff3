package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/uliiai/Wordle/internal/config"
	"github.com/uliiai/Wordle/internal/httpserver"
	"github.com/uliiai/Wordle/internal/store"
	"github.com/uliiai/Wordle/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := words.NewLoader(words.Config{
		CacheDir:      cfg.WordsCacheDir,
		SourceURLs:    cfg.WordsSourceURLs,
		FetchTimeout:  cfg.WordsFetchTimeout,
		AllowFallback: cfg.WordsAllowFallback,
	})
	dicts, err := loader.LoadAll(ctx, cfg.WordLengths)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open database")
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	games := store.NewMemoryStore()
	go store.Sweep(ctx, games, cfg.GameTTL, 10*time.Minute)

	srv := httpserver.New(cfg, games, db, dicts)
	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Ints("lengths", dicts.Lengths()).Msg("starting server")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
