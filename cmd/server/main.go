package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"crowdsrc/internal/crowdsrc/handler"
	"crowdsrc/internal/crowdsrc/metrics"
	"crowdsrc/internal/crowdsrc/notifier"
	"crowdsrc/internal/crowdsrc/service"
	"crowdsrc/internal/platform/config"
	"crowdsrc/internal/platform/httpserver"
	"crowdsrc/internal/platform/logger"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers closerStack
	defer closers.closeAll(log)

	m := metrics.New()

	users, err := buildStore(ctx, cfg.Database, log, &closers)
	if err != nil {
		return err
	}
	next, err := buildNotifier(ctx, cfg, log, &closers)
	if err != nil {
		return err
	}
	async := notifier.NewAsync(next,
		notifier.WithTimeout(cfg.Notify.Timeout),
		notifier.WithMaxInFlight(cfg.Notify.MaxInFlight),
		notifier.WithLogger(log),
		notifier.WithMetrics(m),
	)

	svc := service.New(users, async, service.WithLogger(log), service.WithMetrics(m))
	router := newRouter(cfg.Server, log, handler.New(svc, log), handler.Health(users))
	srv := httpserver.New(cfg.Server.Addr, router)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting crowdsrc", "addr", cfg.Server.Addr, "store", cfg.Database.Store, "notifiers", cfg.Notify.Kinds)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := async.Wait(shutdownCtx); err != nil {
		log.Warn("pending notifications abandoned", "error", err)
	}
	return nil
}

// closerStack closes resources in reverse order of registration.
type closerStack []func() error

func (c *closerStack) push(fn func() error) { *c = append(*c, fn) }

func (c closerStack) closeAll(log *slog.Logger) {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			log.Warn("close resource", "error", err)
		}
	}
}
