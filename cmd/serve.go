package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tinoosan/finsight/internal/cache"
	"github.com/tinoosan/finsight/internal/config"
	"github.com/tinoosan/finsight/internal/events"
	"github.com/tinoosan/finsight/internal/httpapi"
	"github.com/tinoosan/finsight/internal/ledger"
	"github.com/tinoosan/finsight/internal/service/insight"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(os.Stdout)
			slog.SetDefault(logger)
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	b, err := openBackend(ctx, cfg, logger, os.Stdout)
	if err != nil {
		return err
	}
	defer b.close()

	snapshots := cache.NewLRU[uuid.UUID, ledger.Snapshot](cfg.CacheSize, cfg.CacheTTL)
	sweeper := cache.NewManager(logger)
	sweeper.Register(snapshots)
	sweeper.Start(ctx, cfg.CacheSweepInterval)
	defer sweeper.Stop()

	svc := insight.New(b.src, snapshots, logger)

	if cfg.AMQPURL != "" {
		consumer := events.NewConsumer(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, svc, logger)
		// stopped before b.close runs
		defer background(ctx, logger, "amqp consumer", consumer.Run)()
		logger.Info("listening for change notifications", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.New(svc, logger, b.ready...).Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("finsight listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
		return nil
	case err := <-errCh:
		logger.Error("server error", "err", err)
		return err
	}
}

// background runs fn in a goroutine. The returned stop cancels fn's context
// and waits for fn to return.
func background(ctx context.Context, logger *slog.Logger, name string, fn func(context.Context) error) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error(name+" stopped", "err", err)
		}
	}()
	return func() {
		cancel()
		wg.Wait()
	}
}
