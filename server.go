package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"undangan/auth"
	"undangan/config"
	"undangan/handlers"
	"undangan/metrics"
	"undangan/pkg/captionfile"
	"undangan/store"
)

func newRouter(cfg config.Config, st *store.Store) *gin.Engine {
	h := handlers.New(handlers.Deps{
		Store:   st,
		Auth:    newAuthService(cfg, st),
		Metrics: metrics.New(),
		Cookies: auth.CookieOptions{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure},
		QRSize:  cfg.QRSize,
	})
	return h.Router()
}

func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := a.cfg
	st, closeDB, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := seedAccounts(ctx, cfg, st); err != nil {
		return err
	}
	if cfg.CaptionFile != "" {
		if err := captionfile.Watch(ctx, st, cfg.CaptionFile, captionfile.DefaultDebounce); err != nil {
			return err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, st),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("db", cfg.DBDriver).Msg("starting undangan api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}
	log.Info().Msg("server stopped")
	return nil
}
