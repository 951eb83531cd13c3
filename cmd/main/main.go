package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cv-tailor/internal/config"
	"cv-tailor/internal/posting"
	serverhttp "cv-tailor/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	fetcher := posting.NewFetcher(posting.Options{
		ReaderProxy: cfg.ReaderProxy,
		Direct:      cfg.FetchDirect,
		Timeout:     cfg.FetchTimeout,
		RPS:         cfg.FetchRPS,
		Burst:       cfg.FetchBurst,
	}, logger)

	r := serverhttp.NewRouter(cfg, logger, fetcher)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().Str("addr", cfg.Addr()).Int("keyword_limit", cfg.KeywordLimit).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("bye")
}
