package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"storyhub/backend/global"
	"time"
)

type Options struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Run serves handler until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, opts Options, handler http.Handler) error {
	addr := net.JoinHostPort(opts.Host, fmt.Sprintf("%d", opts.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		global.Logger.Info().Str("addr", addr).Msg("HTTP server is listening")
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

	global.Logger.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
