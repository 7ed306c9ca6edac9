package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

const (
	_defaultIdleTimeout    = time.Minute
	_defaultReadTimeout    = 15 * time.Second
	_defaultWriteTimeout   = 30 * time.Second
	_defaultShutdownPeriod = 30 * time.Second
)

// stopper is a background component drained after the server stops
// accepting requests.
type stopper interface {
	Stop()
}

// serveHTTP runs until ctx is cancelled or SIGINT/SIGTERM arrives, then
// drains in-flight requests and the given background components.
func (app *application) serveHTTP(ctx context.Context, background ...stopper) error {
	app.configureSwagger()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         fmtHTTPAddr(app.config.httpHost, app.config.httpPort),
		Handler:      app.routes(),
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelWarn),
		IdleTimeout:  _defaultIdleTimeout,
		ReadTimeout:  _defaultReadTimeout,
		WriteTimeout: _defaultWriteTimeout,
		// Requests outlive the signal so that Shutdown can drain them.
		BaseContext: func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	shutdownErrorChan := make(chan error, 1)

	go func() {
		<-ctx.Done()
		app.serverLogger().Info("shutting down server", "reason", context.Cause(ctx).Error())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), _defaultShutdownPeriod)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		for _, b := range background {
			b.Stop()
		}
		shutdownErrorChan <- err
	}()

	app.serverLogger().Info("starting server", slog.Group("server", "addr", srv.Addr, "env", app.config.env))

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		stop()
		<-shutdownErrorChan
		return err
	}

	if err := <-shutdownErrorChan; err != nil {
		return err
	}

	app.serverLogger().Info("stopped server", slog.Group("server", "addr", srv.Addr))

	return nil
}

func (app *application) serverLogger(args ...any) *slog.Logger {
	args = append(args, "module", "server")
	return app.logger.With(args...)
}

func fmtHTTPAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
