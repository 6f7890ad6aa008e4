package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/config"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/devapi"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/container"
)

// Serve runs the reference backend until SIGINT or SIGTERM.
func Serve(cfg *config.Config) {
	// ========================================
	// 1. BUILD BACKEND
	// ========================================
	initCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	backend, err := container.NewBackend(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize backend")
	}
	defer backend.Cleanup()

	// ========================================
	// 2. CONFIGURE HTTP SERVER
	// ========================================
	port := cfg.DevAPI.Port
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           devapi.NewRouter(backend.Handler),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// ========================================
	// 3. START SERVER (NON-BLOCKING)
	// ========================================
	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", "http://localhost:"+port).
			Str("env", cfg.App.Environment).
			Str("health", "http://localhost:"+port+"/api/health").
			Msg("server starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// ========================================
	// 4. GRACEFUL SHUTDOWN
	// ========================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
