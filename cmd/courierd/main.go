// Command courierd runs the blob relay: it admits uploads under the
// size-tiered lifetime policy, serves published address book entries, and
// sweeps expired blobs on an interval.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"courier/internal/app"
	"courier/internal/domain"
	"courier/internal/relay"
	"courier/internal/store"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfgPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := app.LoadServerConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("courierd failed", zap.Error(err))
	}
}

func run(cfg app.ServerConfig, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container := store.NewFileContainer(cfg.DataDir)
	// Provision eagerly; the lazy-creation path still covers a container
	// that disappears at runtime.
	if err := container.Ensure(ctx); err != nil {
		return fmt.Errorf("provision %s: %w", cfg.DataDir, err)
	}

	reg := prometheus.NewRegistry()
	svc := relay.NewService(container, domain.DefaultPolicyTable(), logger.Named("relay"), relay.NewMetrics(reg))
	handler := relay.NewHandler(svc, logger.Named("http"), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go purgeLoop(ctx, svc, cfg.PurgeInterval.Std(), logger.Named("purge"))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("relay listening",
			zap.String("addr", cfg.Listen),
			zap.String("data_dir", cfg.DataDir))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// purgeLoop sweeps expired blobs every interval until ctx is cancelled.
func purgeLoop(ctx context.Context, svc *relay.Service, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.PurgeExpiredBefore(ctx, time.Now()); err != nil {
				logger.Warn("purge pass failed", zap.Error(err))
			}
		}
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
