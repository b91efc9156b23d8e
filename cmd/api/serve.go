package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dog-adoption-search/internal/adapters/fetchapi"
	"dog-adoption-search/internal/domain/auth"
	"dog-adoption-search/internal/domain/dogs"
	"dog-adoption-search/internal/platform/httpclient"
	"dog-adoption-search/internal/router"
	"dog-adoption-search/internal/session"

	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closeLog := newLogger(cfg)
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	base, err := httpclient.New(cfg.FetchAPIBaseURL, cfg.HTTPTimeout)
	if err != nil {
		return err
	}

	sessions := session.NewManager(cfg.SessionTTL, log)
	go sessions.Run(ctx, sweepInterval)

	authSvc := auth.NewService(fetchapi.NewFactory(base), sessions, auth.Options{
		Store:          store,
		Debounce:       cfg.SearchDebounce,
		RequestTimeout: cfg.HTTPTimeout,
		Log:            log,
	})

	r := router.NewRouter(router.Options{
		Auth:           authSvc,
		Sessions:       sessions,
		Breeds:         dogs.NewBreedService(cfg.BreedsCacheTTL),
		Log:            log,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		CookieSecure:   cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 5*time.Second, // > timeout upstream
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":     srv.Addr,
			"upstream": cfg.FetchAPIBaseURL,
			"storage":  string(cfg.Storage),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"err": err})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", map[string]any{"err": err})
		return err
	}
	return nil
}
